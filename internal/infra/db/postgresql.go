// Package db opens the PostgreSQL store that holds per-organization
// dashboard settings.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fleet-console/backend/config"
	"github.com/fleet-console/backend/internal/integration/persistence/model"
)

const pingTimeout = 5 * time.Second

// Database owns the settings store connection pool.
type Database struct {
	gorm *gorm.DB
}

// NewPostgresConnection dials cfg.URL, sizes the pool from cfg and pings
// the server before returning.
func NewPostgresConnection(cfg *config.DatabaseConfig) (*Database, error) {
	conn, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open settings store: %w", err)
	}

	d := Wrap(conn)
	pool, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access settings store pool: %w", err)
	}
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := d.Ping(ctx); err != nil {
		_ = d.Close()
		return nil, err
	}

	slog.Info("Settings store connected",
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
		"conn_max_lifetime", cfg.ConnMaxLifetime,
	)
	return d, nil
}

// Wrap adopts a connection opened elsewhere.
func Wrap(conn *gorm.DB) *Database {
	return &Database{gorm: conn}
}

// DB returns the GORM handle the repositories are built on.
func (d *Database) DB() *gorm.DB {
	return d.gorm
}

// Migrate brings the dashboard_settings table up to date.
func (d *Database) Migrate() error {
	if err := d.gorm.AutoMigrate(&model.DashboardSettingsModel{}); err != nil {
		return fmt.Errorf("failed to migrate dashboard_settings: %w", err)
	}
	return nil
}

// Ping checks that the server answers.
func (d *Database) Ping(ctx context.Context) error {
	pool, err := d.gorm.DB()
	if err != nil {
		return fmt.Errorf("failed to access settings store pool: %w", err)
	}
	if err := pool.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping settings store: %w", err)
	}
	return nil
}

// Close releases the pool.
func (d *Database) Close() error {
	pool, err := d.gorm.DB()
	if err != nil {
		return fmt.Errorf("failed to access settings store pool: %w", err)
	}
	if err := pool.Close(); err != nil {
		return fmt.Errorf("failed to close settings store: %w", err)
	}
	slog.Info("Settings store closed")
	return nil
}
