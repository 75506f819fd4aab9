package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"roleapi/models"
	"roleapi/pkg/rolestore"
)

// schemaStore is the part of the store that owns the roles table.
type schemaStore interface {
	Migrate(ctx context.Context) error
	EnsureTypes(ctx context.Context, types ...models.RoleType) ([]models.Role, error)
}

// initDB connects, migrates the roles table when enabled and seeds one role
// per RoleType when enabled. Migration errors are only logged.
func initDB(ctx context.Context, cfg *Config, log *zap.Logger) (*rolestore.Store, error) {
	store, err := openStore(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := prepareSchema(ctx, store, cfg, log, false); err != nil {
		return nil, err
	}
	return store, nil
}

func openStore(cfg *Config, log *zap.Logger) (*rolestore.Store, error) {
	if err := cfg.requireDSN(); err != nil {
		return nil, err
	}
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect postgres database: %w", err)
	}
	return rolestore.New(db, log), nil
}

// prepareSchema migrates and seeds per cfg. With strict a failed migration
// is returned; otherwise it is logged and seeding still runs.
func prepareSchema(ctx context.Context, s schemaStore, cfg *Config, log *zap.Logger, strict bool) error {
	if cfg.AutoMigrate {
		if err := s.Migrate(ctx); err != nil {
			if strict {
				return fmt.Errorf("migrate roles: %w", err)
			}
			// permission errors on a shared database are expected here
			log.Warn("migration warning (roles)", zap.Error(err))
		}
	}
	if cfg.SeedRoles {
		created, err := s.EnsureTypes(ctx, models.RoleTypes()...)
		if err != nil {
			return fmt.Errorf("seed roles: %w", err)
		}
		if len(created) > 0 {
			log.Info("seeded master roles", zap.Int("count", len(created)))
		}
	}
	return nil
}
