package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/khatapp/khata/internal/core/services"
	"github.com/khatapp/khata/internal/query"
)

// RegisterHandlers mounts the whole HTTP surface on the router. The optional
// mutating middleware (rate limiting) is applied only to routes that write.
// A nil drive service leaves the cloud backup routes unmounted.
func RegisterHandlers(r *gin.Engine, engine *query.Engine, reporting *services.ReportingService,
	backup *services.BackupService, drive *services.DriveBackupService,
	seed *services.SeedService, settings *services.SettingsService,
	mutating ...gin.HandlerFunc) {

	registerResourceRoutes(r, engine, mutating...)
	registerReportingRoutes(r, reporting)
	registerBackupRoutes(r, backup, mutating...)
	if drive != nil {
		registerDriveRoutes(r, drive, mutating...)
	}
	registerSetupRoutes(r, seed, settings)
}
