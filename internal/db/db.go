package db

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hieuld/liftcare/internal/config"
	"github.com/hieuld/liftcare/internal/model"
)

func New(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{}
	if cfg.Environment != "development" {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	database, err := gorm.Open(postgres.Open(cfg.DB.DSN), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}

	if err := Migrate(database); err != nil {
		return nil, err
	}

	log.Info().Msg("database ready")
	return database, nil
}

// Migrate creates the record tables and reference-list tables. Also used by
// tests against in-memory sqlite.
func Migrate(database *gorm.DB) error {
	return database.AutoMigrate(
		&model.Customer{},
		&model.MaintenanceContract{},
		&model.Elevator{},
		&model.WarrantyHistoryEntry{},
		&model.CustomerContract{},
		&model.CustomerHistory{},
		&model.ContractEquipment{},
	)
}
