package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/khatapp/khata/internal/apperrors"
	"github.com/khatapp/khata/internal/core/domain"
	"github.com/khatapp/khata/internal/store"
)

// SettingsService manages the small blobs that live beside the document:
// user preferences and free-form app settings.
type SettingsService struct {
	backend store.Store
}

func NewSettingsService(backend store.Store) *SettingsService {
	return &SettingsService{backend: backend}
}

// Preferences returns the stored preferences, or the defaults when none have
// been saved or the blob is unreadable.
func (s *SettingsService) Preferences(ctx context.Context) domain.Preferences {
	data, err := s.backend.Get(ctx, store.KeyPreferences)
	if err != nil {
		return domain.DefaultPreferences()
	}
	prefs := domain.DefaultPreferences()
	if err := json.Unmarshal(data, &prefs); err != nil {
		return domain.DefaultPreferences()
	}
	return prefs
}

func (s *SettingsService) SavePreferences(ctx context.Context, prefs domain.Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := s.backend.Set(ctx, store.KeyPreferences, data); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageWrite, err)
	}
	return nil
}

// AppSettings returns the free-form settings map; absence or a bad blob
// yields an empty map.
func (s *SettingsService) AppSettings(ctx context.Context) map[string]any {
	data, err := s.backend.Get(ctx, store.KeyAppSettings)
	if err != nil {
		return map[string]any{}
	}
	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil || settings == nil {
		return map[string]any{}
	}
	return settings
}

// UpdateAppSettings shallow-merges the given fields over the stored map.
func (s *SettingsService) UpdateAppSettings(ctx context.Context, updates map[string]any) error {
	settings := s.AppSettings(ctx)
	for k, v := range updates {
		settings[k] = v
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.backend.Set(ctx, store.KeyAppSettings, data); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageWrite, err)
	}
	return nil
}
