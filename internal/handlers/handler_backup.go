package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khatapp/khata/internal/apperrors"
	"github.com/khatapp/khata/internal/core/services"
	"github.com/khatapp/khata/internal/dto"
	"github.com/khatapp/khata/internal/middleware"
)

// backupHandler handles export, restore and data stats.
type backupHandler struct {
	backupService *services.BackupService
}

func newBackupHandler(bs *services.BackupService) *backupHandler {
	return &backupHandler{backupService: bs}
}

func registerBackupRoutes(r *gin.Engine, bs *services.BackupService, mutating ...gin.HandlerFunc) {
	h := newBackupHandler(bs)

	backup := r.Group("/backup")
	{
		backup.GET("/export", h.export)
		backup.GET("/export.csv", h.exportCSV)
		backup.GET("/stats", h.stats)
		restoreChain := make([]gin.HandlerFunc, 0, len(mutating)+1)
		restoreChain = append(restoreChain, mutating...)
		backup.POST("/restore", append(restoreChain, h.restore)...)
	}
}

func (h *backupHandler) export(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	payload, err := h.backupService.Export(c.Request.Context())
	if err != nil {
		logger.Error("Failed to export backup", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export backup"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(payload))
}

func (h *backupHandler) exportCSV(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="transactions.csv"`)
	if err := h.backupService.ExportTransactionsCSV(c.Request.Context(), c.Writer); err != nil {
		logger.Error("Failed to export CSV", slog.String("error", err.Error()))
	}
}

func (h *backupHandler) restore(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.backupService.Restore(c.Request.Context(), req.Backup); err != nil {
		if errors.Is(err, apperrors.ErrInvalidBackup) {
			logger.Warn("Rejected invalid backup", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to restore backup", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to restore backup"})
		return
	}

	logger.Info("Backup restored")
	c.JSON(http.StatusOK, gin.H{"restored": true})
}

func (h *backupHandler) stats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	stats, err := h.backupService.Stats(c.Request.Context())
	if err != nil {
		logger.Error("Failed to compute stats", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
