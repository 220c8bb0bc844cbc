package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khatapp/khata/internal/apperrors"
	"github.com/khatapp/khata/internal/core/domain"
	"github.com/khatapp/khata/internal/core/services"
	"github.com/khatapp/khata/internal/dto"
	"github.com/khatapp/khata/internal/middleware"
)

// setupHandler handles onboarding and the preference/settings blobs.
type setupHandler struct {
	seedService     *services.SeedService
	settingsService *services.SettingsService
}

func newSetupHandler(seed *services.SeedService, settings *services.SettingsService) *setupHandler {
	return &setupHandler{seedService: seed, settingsService: settings}
}

func registerSetupRoutes(r *gin.Engine, seed *services.SeedService, settings *services.SettingsService) {
	h := newSetupHandler(seed, settings)

	setup := r.Group("/setup")
	{
		setup.GET("/status", h.status)
		setup.POST("/complete", h.complete)
	}

	r.GET("/preferences", h.preferences)
	r.PUT("/preferences", h.savePreferences)
}

func (h *setupHandler) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"onboardingComplete": h.seedService.OnboardingComplete(c.Request.Context())})
}

func (h *setupHandler) complete(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CompleteSetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	err := h.seedService.CompleteSetup(c.Request.Context(), req.CurrencyCode, req.OpeningBalances)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error completing setup", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to complete setup", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete setup"})
		return
	}

	logger.Info("Onboarding completed", slog.String("currency", req.CurrencyCode))
	c.JSON(http.StatusOK, gin.H{"onboardingComplete": true})
}

func (h *setupHandler) preferences(c *gin.Context) {
	c.JSON(http.StatusOK, h.settingsService.Preferences(c.Request.Context()))
}

func (h *setupHandler) savePreferences(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var prefs domain.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.settingsService.SavePreferences(c.Request.Context(), prefs); err != nil {
		logger.Error("Failed to save preferences", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save preferences"})
		return
	}
	c.JSON(http.StatusOK, prefs)
}
