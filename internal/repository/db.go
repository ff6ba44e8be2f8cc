package repository

import (
	"fmt"
	"time"

	"fsa_tracker/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectWithRetry opens a Postgres connection with retry and migrates the schema.
func ConnectWithRetry(dsn string, cfg *gorm.Config, attempts int, delay time.Duration) (*gorm.DB, error) {
	var lastErr error
	for i := 1; i <= attempts; i++ {
		db, err := gorm.Open(postgres.Open(dsn), cfg)
		if err == nil {
			if err := Migrate(db); err != nil {
				return nil, err
			}
			return db, nil
		}

		lastErr = err
		logrus.WithError(err).WithField("attempt", i).Warn("Database not reachable, retrying.")
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("db connect failed after %d attempts: %w", attempts, lastErr)
}

// Migrate creates or updates the local tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Team{},
		&models.User{},
		&models.LocationHistory{},
		&models.StopEvent{},
	)
}
