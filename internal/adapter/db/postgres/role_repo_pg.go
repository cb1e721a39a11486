package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"integrador-service/internal/domain/user"
)

// RoleRepoPG implements the role repository using GORM.
type RoleRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewRoleRepoPG creates a new instance of RoleRepoPG.
func NewRoleRepoPG(db *gorm.DB, log *zap.Logger) *RoleRepoPG {
	return &RoleRepoPG{db: db, log: log}
}

// Create inserts a role with its assigned ID.
func (r *RoleRepoPG) Create(ctx context.Context, role *user.Role) error {
	if role == nil {
		return errors.New("role cannot be nil")
	}

	model := RoleSchema{ID: role.ID, Name: role.Name}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			r.log.Warn("role already exists", zap.Uint8("id", role.ID), zap.String("name", role.Name))
			return fmt.Errorf("%w: %v", user.ErrRoleTaken, err)
		}
		r.log.Error("failed to create role in db", zap.Error(err), zap.Uint8("id", role.ID))
		return fmt.Errorf("failed to create role: %w", err)
	}

	r.log.Info("role created in db", zap.Uint8("id", role.ID))
	return nil
}

// GetByID retrieves a role by its ID.
func (r *RoleRepoPG) GetByID(ctx context.Context, id uint8) (*user.Role, error) {
	var model RoleSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id=%d", user.ErrRoleNotFound, id)
		}
		r.log.Error("failed to get role from db", zap.Error(err), zap.Uint8("id", id))
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	return &user.Role{ID: model.ID, Name: model.Name}, nil
}

// List retrieves every role ordered by ID.
func (r *RoleRepoPG) List(ctx context.Context) ([]user.Role, error) {
	var models []RoleSchema
	if err := r.db.WithContext(ctx).Order("id_rol").Find(&models).Error; err != nil {
		r.log.Error("failed to list roles from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	roles := make([]user.Role, len(models))
	for i, m := range models {
		roles[i] = user.Role{ID: m.ID, Name: m.Name}
	}
	return roles, nil
}
