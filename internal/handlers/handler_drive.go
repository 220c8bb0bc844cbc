package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/khatapp/khata/internal/apperrors"
	"github.com/khatapp/khata/internal/core/services"
	"github.com/khatapp/khata/internal/dto"
	"github.com/khatapp/khata/internal/middleware"
)

// driveHandler handles the Google Drive cloud backup surface.
type driveHandler struct {
	driveService *services.DriveBackupService
}

func newDriveHandler(ds *services.DriveBackupService) *driveHandler {
	return &driveHandler{driveService: ds}
}

func registerDriveRoutes(r *gin.Engine, ds *services.DriveBackupService, mutating ...gin.HandlerFunc) {
	h := newDriveHandler(ds)

	// Fresh handler chain per route, same as the resource routes.
	chain := func(final gin.HandlerFunc) []gin.HandlerFunc {
		out := make([]gin.HandlerFunc, 0, len(mutating)+1)
		out = append(out, mutating...)
		return append(out, final)
	}

	drive := r.Group("/backup/drive")
	{
		drive.GET("/status", h.status)
		drive.GET("/files", h.list)
		drive.POST("/connect", chain(h.connect)...)
		drive.POST("/disconnect", chain(h.disconnect)...)
		drive.POST("/upload", chain(h.upload)...)
		drive.POST("/restore", chain(h.restore)...)
		drive.DELETE("/files/:id", chain(h.delete)...)
	}
}

func (h *driveHandler) status(c *gin.Context) {
	connected := h.driveService.Connected(c.Request.Context())
	resp := gin.H{"connected": connected}
	if !connected {
		resp["authUrl"] = h.driveService.AuthURL(uuid.NewString())
	}
	c.JSON(http.StatusOK, resp)
}

func (h *driveHandler) connect(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DriveConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if err := h.driveService.Connect(c.Request.Context(), req.Code); err != nil {
		logger.Error("Failed to connect Google Drive", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to connect Google Drive"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": true})
}

func (h *driveHandler) disconnect(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if err := h.driveService.Disconnect(c.Request.Context()); err != nil {
		logger.Error("Failed to disconnect Google Drive", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to disconnect Google Drive"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": false})
}

func (h *driveHandler) upload(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	file, err := h.driveService.Upload(c.Request.Context())
	if err != nil {
		h.fail(c, logger, "Failed to upload backup to Google Drive", err)
		return
	}
	c.JSON(http.StatusCreated, file)
}

func (h *driveHandler) list(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	files, err := h.driveService.List(c.Request.Context())
	if err != nil {
		h.fail(c, logger, "Failed to list Google Drive backups", err)
		return
	}
	c.JSON(http.StatusOK, files)
}

func (h *driveHandler) restore(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DriveRestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if err := h.driveService.Restore(c.Request.Context(), req.FileID); err != nil {
		if errors.Is(err, apperrors.ErrInvalidBackup) {
			logger.Warn("Rejected invalid drive backup", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.fail(c, logger, "Failed to restore from Google Drive", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": true})
}

func (h *driveHandler) delete(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if err := h.driveService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, logger, "Failed to delete Google Drive backup", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *driveHandler) fail(c *gin.Context, logger *slog.Logger, msg string, err error) {
	if errors.Is(err, apperrors.ErrDriveNotConnected) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	logger.Error(msg, slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
