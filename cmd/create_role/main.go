package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"roleapi/models"
	"roleapi/pkg/rolestore"
)

type roleCreator interface {
	Create(ctx context.Context, r *models.Role) error
}

// createRole parses name as a RoleType and persists a new role of that type.
func createRole(ctx context.Context, store roleCreator, name string) (*models.Role, error) {
	rt, err := models.ParseRoleType(name)
	if err != nil {
		return nil, fmt.Errorf("%w (allowed: %v)", err, models.RoleTypes())
	}
	r := models.NewRole(rt)
	if err := store.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	return r, nil
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: go run ./cmd/create_role <ROLE_TYPE>")
		os.Exit(2)
	}
	_ = godotenv.Load()

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to open db", zap.Error(err))
	}

	r, err := createRole(context.Background(), rolestore.New(db, log), os.Args[1])
	if err != nil {
		log.Fatal("create role", zap.Error(err))
	}
	fmt.Printf("created role %s id=%d\n", r.Type, r.ID)
}
