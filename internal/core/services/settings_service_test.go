package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khatapp/khata/internal/core/domain"
	"github.com/khatapp/khata/internal/core/services"
	"github.com/khatapp/khata/internal/store"
)

func TestPreferencesDefaultsWhenUnset(t *testing.T) {
	svc := services.NewSettingsService(store.NewMemoryStore())

	prefs := svc.Preferences(context.Background())
	assert.Equal(t, domain.DefaultPreferences(), prefs)
	assert.Equal(t, "BDT", prefs.CurrencyCode)
	assert.Equal(t, "system", prefs.Theme)
}

func TestPreferencesDefaultsOnBadBlob(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemoryStore()
	require.NoError(t, backend.Set(ctx, store.KeyPreferences, []byte("{broken")))

	svc := services.NewSettingsService(backend)
	assert.Equal(t, domain.DefaultPreferences(), svc.Preferences(ctx))
}

func TestSavePreferencesRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := services.NewSettingsService(store.NewMemoryStore())

	prefs := domain.DefaultPreferences()
	prefs.CurrencyCode = "EUR"
	prefs.Theme = "dark"
	prefs.EnableAppLock = true
	require.NoError(t, svc.SavePreferences(ctx, prefs))

	got := svc.Preferences(ctx)
	assert.Equal(t, prefs, got)
}

func TestAppSettingsShallowMerge(t *testing.T) {
	ctx := context.Background()
	svc := services.NewSettingsService(store.NewMemoryStore())

	assert.Empty(t, svc.AppSettings(ctx))

	require.NoError(t, svc.UpdateAppSettings(ctx, map[string]any{"lastSyncAt": "2024-03-01", "syncEnabled": true}))
	require.NoError(t, svc.UpdateAppSettings(ctx, map[string]any{"syncEnabled": false}))

	settings := svc.AppSettings(ctx)
	assert.Equal(t, "2024-03-01", settings["lastSyncAt"], "untouched keys survive the merge")
	assert.Equal(t, false, settings["syncEnabled"])
}
