// Package store provides the device-local key-value persistence the record
// store sits on, with interchangeable file and sqlite backends.
package store

import (
	"context"
	"errors"
)

// Storage keys. KeyAppDB holds the whole entity document; the rest are small
// standalone blobs.
const (
	KeyAppDB               = "appDb"
	KeyOnboardingComplete  = "onboardingComplete"
	KeyAppSettings         = "appSettings"
	KeyPreferences         = "preferences"
	KeyLastBackupTimestamp = "lastBackupTimestamp"
	KeyDriveToken          = "googleDriveToken"
)

// AllKeys lists every key the app owns, for full data reset.
var AllKeys = []string{
	KeyAppDB,
	KeyOnboardingComplete,
	KeyAppSettings,
	KeyPreferences,
	KeyLastBackupTimestamp,
	KeyDriveToken,
}

// ErrKeyMissing is returned by Get when the key has never been written.
// Callers use it to tell first-run absence apart from storage failure.
var ErrKeyMissing = errors.New("key missing")

// Store is the persistent key-value backend. Set must replace the value
// atomically: a reader never observes a partial write.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
