package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roleapi/models"
)

type fakeSchema struct {
	migrateErr error
	migrated   int
	seeded     []models.RoleType
}

func (f *fakeSchema) Migrate(context.Context) error {
	f.migrated++
	return f.migrateErr
}

func (f *fakeSchema) EnsureTypes(_ context.Context, types ...models.RoleType) ([]models.Role, error) {
	f.seeded = append(f.seeded, types...)
	return nil, nil
}

func TestPrepareSchemaStrictReturnsMigrateError(t *testing.T) {
	s := &fakeSchema{migrateErr: errors.New("permission denied for schema public")}
	cfg := &Config{AutoMigrate: true, SeedRoles: true}

	err := prepareSchema(context.Background(), s, cfg, zap.NewNop(), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, s.migrateErr)
	assert.Empty(t, s.seeded, "seeding must not run after a failed migration")
}

func TestPrepareSchemaLenientSeedsAfterMigrateError(t *testing.T) {
	s := &fakeSchema{migrateErr: errors.New("permission denied for schema public")}
	cfg := &Config{AutoMigrate: true, SeedRoles: true}

	require.NoError(t, prepareSchema(context.Background(), s, cfg, zap.NewNop(), false))
	assert.Equal(t, 1, s.migrated)
	assert.Equal(t, models.RoleTypes(), s.seeded)
}

func TestPrepareSchemaHonoursFlags(t *testing.T) {
	s := &fakeSchema{}
	require.NoError(t, prepareSchema(context.Background(), s, &Config{}, zap.NewNop(), true))
	assert.Zero(t, s.migrated)
	assert.Empty(t, s.seeded)
}

func TestMigrateCommandFailsWithoutDSN(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DSN", "")
	t.Setenv("LOG_LEVEL", "error")

	assert.Error(t, migrateCommand(nil, nil))
}

func TestMigrateCommandFailsWhenDatabaseUnreachable(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DSN", "postgres://roles@127.0.0.1:1/roles?sslmode=disable&connect_timeout=2")
	t.Setenv("LOG_LEVEL", "error")

	assert.Error(t, migrateCommand(nil, nil))
}
