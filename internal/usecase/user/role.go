package user

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	domain "integrador-service/internal/domain/user"
	apperrors "integrador-service/pkg/errors"
	"integrador-service/pkg/validation"
)

// CreateRole stores a role under a caller assigned ID.
func (uc *Service) CreateRole(ctx context.Context, in CreateRoleRequest) (*Role, error) {
	in.Name = strings.TrimSpace(in.Name)

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("create role validation failed", zap.Error(err))
		return nil, validation.Error(err)
	}

	if err := uc.roles.Create(ctx, &domain.Role{ID: in.ID, Name: in.Name}); err != nil {
		if errors.Is(err, domain.ErrRoleTaken) {
			return nil, apperrors.NewConflictError("rol", MsgRoleTaken)
		}
		uc.log.Error("failed to create role", zap.Uint8("id", in.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("Error al crear rol.", err)
	}

	return &Role{ID: in.ID, Name: in.Name}, nil
}

// ListRoles returns every role ordered by ID.
func (uc *Service) ListRoles(ctx context.Context) ([]Role, error) {
	roles, err := uc.roles.List(ctx)
	if err != nil {
		uc.log.Error("failed to list roles", zap.Error(err))
		return nil, apperrors.NewInternalError("Error al listar roles.", err)
	}

	out := make([]Role, len(roles))
	for i, r := range roles {
		out[i] = Role{ID: r.ID, Name: r.Name}
	}
	return out, nil
}
