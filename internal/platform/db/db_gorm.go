// Package db opens the Postgres connection pool and runs schema migrations.
package db

import (
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	lessonentity "lessons_backend/internal/feature/lessons/domain/entity"
	userentity "lessons_backend/internal/feature/users/domain/entity"
)

// Config holds the database connection settings.
type Config struct {
	URL      string // full DSN; overrides the individual parts when set
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	RunMigrations  bool
	ConnectTimeout time.Duration
}

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN returns the Postgres connection string for cfg.
func BuildDSN(cfg Config) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + cfg.Port,
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": {sslmode}}.Encode(),
	}
	return u.String()
}

// ValidateDSN parses dsn without connecting, so a malformed DSN fails before any retry loop.
func ValidateDSN(dsn string) error {
	if _, err := pgx.ParseConfig(dsn); err != nil {
		return fmt.Errorf("invalid database dsn: %w", err)
	}
	return nil
}

// ConnectWithRetry calls open until it succeeds or timeout elapses, sleeping interval between attempts.
func ConnectWithRetry(dsn string, timeout, interval time.Duration, open Opener, logger *zap.Logger) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(interval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		logger.Warn("db connect failed, retrying", zap.Error(err), zap.Duration("interval", interval))
		time.Sleep(interval)
	}
}

// PostgresOpener opens Postgres with duplicate-key errors translated to gorm.ErrDuplicatedKey.
func PostgresOpener(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
}

// OpenDB connects to Postgres and migrates the schema when enabled.
func OpenDB(cfg Config, logger *zap.Logger) (*gorm.DB, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	dsn := BuildDSN(cfg)
	if err := ValidateDSN(dsn); err != nil {
		return nil, err
	}

	db, err := ConnectWithRetry(dsn, timeout, 3*time.Second, PostgresOpener, logger)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		logger.Info("database migrated")
	}
	return db, nil
}

// Migrate creates or updates the users and lessons tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&userentity.User{}, &lessonentity.Lesson{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
