package config

import (
	"time"

	"fsa_tracker/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitDB connects to Postgres with retry and migrates the local tables. GORM
// logs through logrus.
func InitDB(cfg *Config) (*gorm.DB, error) {
	level := gormlogger.Warn
	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		level = gormlogger.Info
	}
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(logrus.StandardLogger(), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	}

	db, err := repository.ConnectWithRetry(cfg.DSN(), gormCfg, cfg.DBConnectAttempts, cfg.DBConnectDelay)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"host": cfg.DBHost,
		"db":   cfg.DBName,
	}).Info("Database connected and migrated.")
	return db, nil
}
