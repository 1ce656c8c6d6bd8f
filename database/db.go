package database

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Darshit9241/billing-webiste-sub000/config"
	"github.com/Darshit9241/billing-webiste-sub000/models"
)

// Connect opens the postgres pool described by cfg.
func Connect(cfg config.DatabaseConfig, level gormlogger.LogLevel) (*gorm.DB, error) {
	db, err := Open(postgres.Open(cfg.DSN()), level,
		WithSlowThreshold(cfg.SlowQuery),
		WithLogger(log.With().Str("db", cfg.Name).Logger()),
	)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Info().Str("host", cfg.Host).Int("port", cfg.Port).Str("db", cfg.Name).Msg("connected to database")
	return db, nil
}

// Open wraps gorm.Open with the zerolog query logger. Driver errors are
// translated so unique violations surface as gorm.ErrDuplicatedKey.
func Open(dialector gorm.Dialector, level gormlogger.LogLevel, opts ...GormLoggerOption) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewGormLogger(level, opts...),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or updates the tables and the supporting indexes.
// Every statement is idempotent.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Order{},
		&models.Settings{},
		&models.IdempotencyKey{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_orders_merged ON orders (merged)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_order_date ON orders (order_date)`,
	}
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
		}
	}
	return nil
}
