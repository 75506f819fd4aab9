// Package rolestore persists roles in Postgres through gorm.
package rolestore

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"roleapi/models"
)

// Repository is the set of role operations the API depends on.
type Repository interface {
	Create(ctx context.Context, r *models.Role) error
	FindByID(ctx context.Context, id uint) (*models.Role, error)
	FindByType(ctx context.Context, t models.RoleType) ([]models.Role, error)
	List(ctx context.Context) ([]models.Role, error)
	UpdateType(ctx context.Context, id uint, t models.RoleType) (*models.Role, error)
}

type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

var _ Repository = (*Store)(nil)

func New(db *gorm.DB, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, log: log}
}

// Migrate creates or updates the roles table.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.Role{}); err != nil {
		return fmt.Errorf("migrate roles: %w", err)
	}
	return nil
}

// Create inserts r and sets r.ID from the generated identity.
func (s *Store) Create(ctx context.Context, r *models.Role) (err error) {
	defer observe("create", time.Now(), &err)
	if r == nil {
		return fmt.Errorf("%w: nil role", ErrConstraintViolation)
	}
	if r.IsPersisted() {
		return fmt.Errorf("%w: id=%d", ErrAlreadyPersisted, r.ID)
	}
	if err = checkType(r.Type); err != nil {
		return err
	}
	if err = s.db.WithContext(ctx).Create(r).Error; err != nil {
		return translateError(err)
	}
	s.log.Debug("role created", zap.Uint("id", r.ID), zap.Stringer("type", r.Type))
	return nil
}

func (s *Store) FindByID(ctx context.Context, id uint) (_ *models.Role, err error) {
	defer observe("find_by_id", time.Now(), &err)
	var r models.Role
	if err = s.db.WithContext(ctx).First(&r, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &r, nil
}

// FindByType returns every role of type t ordered by id. An empty result is
// not an error.
func (s *Store) FindByType(ctx context.Context, t models.RoleType) (_ []models.Role, err error) {
	defer observe("find_by_type", time.Now(), &err)
	if err = checkType(t); err != nil {
		return nil, err
	}
	roles := []models.Role{}
	if err = s.db.WithContext(ctx).Where(&models.Role{Type: t}).Order("id").Find(&roles).Error; err != nil {
		return nil, translateError(err)
	}
	return roles, nil
}

func (s *Store) List(ctx context.Context) (_ []models.Role, err error) {
	defer observe("list", time.Now(), &err)
	roles := []models.Role{}
	if err = s.db.WithContext(ctx).Order("id").Find(&roles).Error; err != nil {
		return nil, translateError(err)
	}
	return roles, nil
}

// UpdateType reassigns the type of an existing role. The id is unchanged.
func (s *Store) UpdateType(ctx context.Context, id uint, t models.RoleType) (_ *models.Role, err error) {
	defer observe("update_type", time.Now(), &err)
	if err = checkType(t); err != nil {
		return nil, err
	}
	var r models.Role
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&r, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&r).Update("type", t).Error; err != nil {
			return err
		}
		r.Type = t
		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}
	s.log.Debug("role type updated", zap.Uint("id", r.ID), zap.Stringer("type", r.Type))
	return &r, nil
}

// EnsureTypes inserts one role for every given type that has none yet and
// returns the roles it created.
func (s *Store) EnsureTypes(ctx context.Context, types ...models.RoleType) (_ []models.Role, err error) {
	defer observe("ensure_types", time.Now(), &err)
	created := []models.Role{}
	for _, t := range types {
		if err = checkType(t); err != nil {
			return created, err
		}
		var cnt int64
		if err = s.db.WithContext(ctx).Model(&models.Role{}).Where(&models.Role{Type: t}).Count(&cnt).Error; err != nil {
			return created, translateError(err)
		}
		if cnt > 0 {
			continue
		}
		r := models.NewRole(t)
		if err = s.db.WithContext(ctx).Create(r).Error; err != nil {
			return created, translateError(err)
		}
		s.log.Info("seeded role", zap.Uint("id", r.ID), zap.Stringer("type", r.Type))
		created = append(created, *r)
	}
	return created, nil
}
