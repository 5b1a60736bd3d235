package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stockresearch/internal/model"
)

// NewMySQL returns a connected GORM DB instance with the ticker schema migrated.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the tables the server reads.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Ticker{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
