package rolestore

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"roleapi/models"
)

var (
	// ErrNotFound is returned when no role has the requested id.
	ErrNotFound = errors.New("role not found")
	// ErrConstraintViolation is returned when a role breaks a column
	// constraint, e.g. a missing or unknown type.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrDuplicate is returned on a unique key collision.
	ErrDuplicate = errors.New("duplicate role")
	// ErrAlreadyPersisted is returned when Create is given a role with an id.
	ErrAlreadyPersisted = errors.New("role already has an id")
)

// Postgres SQLSTATE codes.
const (
	pgNotNullViolation = "23502"
	pgUniqueViolation  = "23505"
	pgCheckViolation   = "23514"
)

// translateError maps driver and gorm errors onto the package sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, models.ErrUnknownRoleType) {
		return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgNotNullViolation, pgCheckViolation:
			return fmt.Errorf("%w: %s", ErrConstraintViolation, pgErr.Message)
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.Message)
		}
	}
	return err
}

func checkType(t models.RoleType) error {
	if t == "" {
		return fmt.Errorf("%w: type must not be null", ErrConstraintViolation)
	}
	if !t.IsValid() {
		return fmt.Errorf("%w: %v %q", ErrConstraintViolation, models.ErrUnknownRoleType, string(t))
	}
	return nil
}
