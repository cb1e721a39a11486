package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"integrador-service/internal/domain/user"
)

// userColumns are the columns mutated by Update. password_hash is left out
// so a profile update can never overwrite the stored credential.
var userColumns = []string{"id_rol", "nombres", "correo_corp", "activo"}

// userPublicColumns are the columns read by List.
var userPublicColumns = []string{"id_usuario", "id_rol", "nombres", "correo_corp", "activo"}

// UserRepoPG implements the user Repository interface using GORM.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// Create inserts a new user into the database.
func (r *UserRepoPG) Create(ctx context.Context, u *user.User) (int64, error) {
	if u == nil {
		return 0, errors.New("user cannot be nil")
	}

	model := toUserSchema(u)
	model.ID = 0

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&model).Error; err != nil {
		return 0, r.translate(err, "create", zap.String("email", u.Email))
	}

	r.log.Info("user created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// Update persists the mutable columns of an existing user.
func (r *UserRepoPG) Update(ctx context.Context, u *user.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	model := toUserSchema(u)
	res := r.db.WithContext(ctx).
		Model(&UserSchema{ID: u.ID}).
		Select(userColumns).
		Omit(clause.Associations).
		Updates(&model)
	if res.Error != nil {
		return r.translate(res.Error, "update", zap.Int64("id", u.ID))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id=%d", user.ErrNotFound, u.ID)
	}

	r.log.Info("user updated in db", zap.Int64("id", u.ID))
	return nil
}

// Delete removes a user from the database by ID.
func (r *UserRepoPG) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&UserSchema{}, id)
	if res.Error != nil {
		r.log.Error("failed to delete user in db", zap.Error(res.Error), zap.Int64("id", id))
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id=%d", user.ErrNotFound, id)
	}

	r.log.Info("user deleted in db", zap.Int64("id", id))
	return nil
}

// GetByID retrieves a user from the database by their unique ID.
func (r *UserRepoPG) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.Int64("id", id))
			return nil, fmt.Errorf("%w: id=%d", user.ErrNotFound, id)
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserDomain(&model), nil
}

// GetByEmail retrieves a user from the database by their corporate email address.
func (r *UserRepoPG) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("correo_corp = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", zap.String("email", email))
			return nil, fmt.Errorf("%w: email=%s", user.ErrNotFound, email)
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return toUserDomain(&model), nil
}

// List retrieves every user ordered by ID. The password hash column is not read.
func (r *UserRepoPG) List(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Select(userPublicColumns).Order("id_usuario").Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.User, len(models))
	for i := range models {
		users[i] = *toUserDomain(&models[i])
	}

	return users, nil
}

// translate maps constraint violations to domain errors and logs the rest.
func (r *UserRepoPG) translate(err error, op string, fields ...zap.Field) error {
	switch {
	case isUniqueViolation(err):
		r.log.Warn("user email already exists", fields...)
		return fmt.Errorf("%w: %v", user.ErrEmailTaken, err)
	case isForeignKeyViolation(err):
		r.log.Warn("user references unknown role", fields...)
		return fmt.Errorf("%w: %v", user.ErrRoleReference, err)
	}

	r.log.Error("failed to "+op+" user in db", append(fields, zap.Error(err))...)
	return fmt.Errorf("failed to %s user: %w", op, err)
}

func toUserSchema(u *user.User) UserSchema {
	active := u.Active
	return UserSchema{
		ID:           u.ID,
		RoleID:       u.RoleID,
		FullName:     u.FullName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Active:       &active,
	}
}

func toUserDomain(m *UserSchema) *user.User {
	return &user.User{
		ID:           m.ID,
		RoleID:       m.RoleID,
		FullName:     m.FullName,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Active:       m.Active == nil || *m.Active,
	}
}
