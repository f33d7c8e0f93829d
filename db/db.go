package db

import (
	"fmt"
	"time"

	"github.com/felipe-r91/Rocketseat-Habits-App/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the Postgres connection and returns it; the handle is passed
// to the store explicitly rather than kept in a package global. Retries give
// a freshly started database container time to come up.
func Connect(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	const maxRetries = 10

	var (
		db  *gorm.DB
		err error
	)

	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
			NowFunc: func() time.Time {
				return time.Now().UTC()
			},
			PrepareStmt: true,
		})

		if err == nil {
			sqlDB, dbErr := db.DB()
			if dbErr == nil {
				if err = sqlDB.Ping(); err == nil {
					sqlDB.SetMaxIdleConns(10)
					sqlDB.SetMaxOpenConns(100)
					sqlDB.SetConnMaxLifetime(time.Hour)

					log.Info("database_connected",
						zap.String("host", cfg.DBHost),
						zap.String("port", cfg.DBPort),
					)
					return db, nil
				}
			} else {
				err = dbErr
			}
		}

		log.Warn("database_connection_retry",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Error(err),
		)
		time.Sleep(2 * time.Second)
	}

	return nil, fmt.Errorf("connect to database after %d attempts: %w", maxRetries, err)
}
