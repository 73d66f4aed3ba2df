package initialize

import (
	"recruiter/config"
	"recruiter/internal/logger"
	. "recruiter/internal/models"

	"gorm.io/gorm"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing schema")

	if err := db.AutoMigrate(All()...); err != nil {
		return log.Err("failed to migrate schema", err)
	}

	log.Info("Table initialization complete")
	return nil
}
