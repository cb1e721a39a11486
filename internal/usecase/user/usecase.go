package user

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "integrador-service/internal/domain/user"
	apperrors "integrador-service/pkg/errors"
	"integrador-service/pkg/security"
	"integrador-service/pkg/validation"
)

// Client facing messages.
const (
	MsgNameRequired  = "El nombre completo es obligatorio."
	MsgEmailTaken    = "El correo corporativo ya está registrado."
	MsgUserNotFound  = "Usuario no encontrado"
	MsgWrongPassword = "Contraseña incorrecta"
	MsgRoleNotFound  = "El rol indicado no existe."
	MsgRoleTaken     = "El rol ya existe."
	MsgPasswordLong  = "La contraseña es demasiado larga."
)

// Repository defines the interface for user data access operations.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (int64, error)          // Create a new user
	GetByID(ctx context.Context, id int64) (*domain.User, error)        // Retrieve user by ID
	GetByEmail(ctx context.Context, email string) (*domain.User, error) // Retrieve user by corporate email
	Update(ctx context.Context, u *domain.User) error                   // Persist mutable fields
	Delete(ctx context.Context, id int64) error                         // Delete user by ID
	List(ctx context.Context) ([]domain.User, error)                    // List users without secrets
}

// RoleRepository defines the interface for role data access operations.
type RoleRepository interface {
	Create(ctx context.Context, r *domain.Role) error
	GetByID(ctx context.Context, id uint8) (*domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
}

// Service implements the business logic for user management operations.
// It provides a clean separation between the transport layer and data layer.
type Service struct {
	repo     Repository              // Repository for user data
	roles    RoleRepository          // Repository for role data
	hasher   security.PasswordHasher // Credential hashing
	log      *zap.Logger             // Logger for structured logging
	validate *validator.Validate     // Validator for request validation
}

var _ Usecase = (*Service)(nil)

// New creates a new Service.
func New(r Repository, roles RoleRepository, hasher security.PasswordHasher, log *zap.Logger) *Service {
	return &Service{repo: r, roles: roles, hasher: hasher, log: log, validate: validation.New()}
}

// Register hashes the password and stores a new active user.
func (uc *Service) Register(ctx context.Context, in RegisterRequest) (*RegisterResponse, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	uc.log.Info("registering user", zap.String("email", in.Email), zap.Int("role_id", in.RoleID))

	if in.FullName == "" {
		uc.log.Warn("register validation failed", zap.String("reason", "blank name"))
		return nil, apperrors.NewValidationError("nombres", MsgNameRequired)
	}
	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("register validation failed", zap.Error(err))
		return nil, validation.Error(err)
	}
	if in.RoleID > math.MaxUint8 {
		uc.log.Warn("unknown role", zap.Int("role_id", in.RoleID))
		return nil, apperrors.NewValidationError("id_rol", MsgRoleNotFound)
	}
	roleID := uint8(in.RoleID)
	if err := uc.requireRole(ctx, roleID); err != nil {
		return nil, err
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) {
			return nil, apperrors.NewValidationError("password", MsgPasswordLong)
		}
		uc.log.Error("failed to hash password", zap.Error(err))
		return nil, apperrors.NewInternalError("Error al registrar usuario.", err)
	}

	id, err := uc.repo.Create(ctx, &domain.User{
		RoleID:       roleID,
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: hash,
		Active:       true,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			uc.log.Warn("email already exists", zap.String("email", in.Email))
			return nil, apperrors.NewConflictError("usuario", MsgEmailTaken)
		}
		uc.log.Error("failed to create user", zap.String("email", in.Email), zap.Error(err))
		return nil, apperrors.NewInternalError("Error al registrar usuario.", err)
	}

	uc.log.Info("user registered", zap.Int64("id", id))
	return &RegisterResponse{ID: id, FullName: in.FullName}, nil
}

// Login verifies a corporate email and password pair.
func (uc *Service) Login(ctx context.Context, in LoginRequest) (*LoginResponse, error) {
	in.Email = strings.TrimSpace(in.Email)

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("login validation failed", zap.Error(err))
		return nil, validation.Error(err)
	}

	u, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Warn("login for unknown user", zap.String("email", in.Email))
			return nil, apperrors.NewAuthenticationError(MsgUserNotFound)
		}
		uc.log.Error("failed to fetch user for login", zap.String("email", in.Email), zap.Error(err))
		return nil, apperrors.NewInternalError("Error al iniciar sesión.", err)
	}

	if err := uc.hasher.Compare(u.PasswordHash, in.Password); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			uc.log.Warn("login with wrong password", zap.Int64("id", u.ID))
			return nil, apperrors.NewAuthenticationError(MsgWrongPassword)
		}
		uc.log.Error("failed to verify password", zap.Int64("id", u.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("Error al iniciar sesión.", err)
	}

	uc.log.Info("user logged in", zap.Int64("id", u.ID))
	return &LoginResponse{ID: u.ID, FullName: u.FullName, Email: u.Email, RoleID: u.RoleID}, nil
}

// ListUsers returns every user without credentials.
func (uc *Service) ListUsers(ctx context.Context) ([]User, error) {
	domainUsers, err := uc.repo.List(ctx)
	if err != nil {
		uc.log.Error("failed to list users", zap.Error(err))
		return nil, apperrors.NewInternalError("Error al listar usuarios.", err)
	}

	users := make([]User, len(domainUsers))
	for i := range domainUsers {
		users[i] = toUserDTO(&domainUsers[i])
	}
	return users, nil
}

// GetUser retrieves a user by ID.
func (uc *Service) GetUser(ctx context.Context, in GetUserRequest) (*User, error) {
	u, err := uc.find(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	dto := toUserDTO(u)
	return &dto, nil
}

// UpdateUser merges the supplied fields over the stored user. Blank strings
// and a zero role keep the stored value; Active applies whenever it is set.
func (uc *Service) UpdateUser(ctx context.Context, in UpdateUserRequest) (*User, error) {
	uc.log.Info("updating user", zap.Int64("id", in.ID))

	u, err := uc.find(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		if name := strings.TrimSpace(*in.FullName); name != "" {
			if err := validation.Var(uc.validate, "nombres", name, "max=80"); err != nil {
				return nil, err
			}
			u.FullName = name
		}
	}
	if in.Email != nil {
		if email := strings.TrimSpace(*in.Email); email != "" {
			if err := validation.Var(uc.validate, "correo_corp", email, "email,max=120"); err != nil {
				return nil, err
			}
			u.Email = email
		}
	}
	if in.RoleID != nil && *in.RoleID != 0 && *in.RoleID != u.RoleID {
		if err := uc.requireRole(ctx, *in.RoleID); err != nil {
			return nil, err
		}
		u.RoleID = *in.RoleID
	}
	if in.Active != nil {
		u.Active = *in.Active
	}

	if err := uc.repo.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil, apperrors.NewNotFoundError("usuario", MsgUserNotFound)
		case errors.Is(err, domain.ErrEmailTaken):
			uc.log.Warn("email already exists", zap.Int64("id", in.ID), zap.String("email", u.Email))
			return nil, apperrors.NewConflictError("usuario", MsgEmailTaken)
		case errors.Is(err, domain.ErrRoleReference):
			return nil, apperrors.NewValidationError("id_rol", MsgRoleNotFound)
		}
		uc.log.Error("failed to update user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("Error al actualizar usuario.", err)
	}

	dto := toUserDTO(u)
	return &dto, nil
}

// DeleteUser removes an existing user.
func (uc *Service) DeleteUser(ctx context.Context, in DeleteUserRequest) error {
	uc.log.Info("deleting user", zap.Int64("id", in.ID))

	if _, err := uc.find(ctx, in.ID); err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, in.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperrors.NewNotFoundError("usuario", MsgUserNotFound)
		}
		uc.log.Error("failed to delete user", zap.Int64("id", in.ID), zap.Error(err))
		return apperrors.NewInternalError("Error al eliminar usuario.", err)
	}
	return nil
}

// find loads a user and maps a missing row to NotFoundError.
func (uc *Service) find(ctx context.Context, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, apperrors.NewNotFoundError("usuario", MsgUserNotFound)
	}

	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Debug("user not found", zap.Int64("id", id))
			return nil, apperrors.NewNotFoundError("usuario", MsgUserNotFound)
		}
		uc.log.Error("failed to get user", zap.Int64("id", id), zap.Error(err))
		return nil, apperrors.NewInternalError("Error al obtener usuario.", err)
	}
	return u, nil
}

// requireRole fails with a ValidationError when the role does not exist.
func (uc *Service) requireRole(ctx context.Context, id uint8) error {
	if _, err := uc.roles.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			uc.log.Warn("unknown role", zap.Uint8("role_id", id))
			return apperrors.NewValidationError("id_rol", MsgRoleNotFound)
		}
		uc.log.Error("failed to get role", zap.Uint8("role_id", id), zap.Error(err))
		return apperrors.NewInternalError("Error al validar el rol.", err)
	}
	return nil
}

func toUserDTO(u *domain.User) User {
	return User{
		ID:       u.ID,
		RoleID:   u.RoleID,
		FullName: u.FullName,
		Email:    u.Email,
		Active:   u.Active,
	}
}
