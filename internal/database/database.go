package database

import (
	"fmt"

	"github.com/bobby0007/internal-CRM/internal/config"
	"github.com/bobby0007/internal-CRM/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init opens the configured database (sqlite by default, postgres when
// DB_DRIVER=postgres) and migrates the session and audit tables.
func Init(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(cfg.DBPath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}

	if err := db.AutoMigrate(
		&models.Session{},
		&models.AuditEntry{},
	); err != nil {
		return nil, fmt.Errorf("auto-migration: %w", err)
	}

	return db, nil
}
