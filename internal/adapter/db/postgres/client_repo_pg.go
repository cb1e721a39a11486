package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"integrador-service/internal/domain/intake"
	"integrador-service/pkg/security"
)

// ClientRepoPG implements the client repository using GORM.
type ClientRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewClientRepoPG creates a new instance of ClientRepoPG.
func NewClientRepoPG(db *gorm.DB, log *zap.Logger) *ClientRepoPG {
	return &ClientRepoPG{db: db, log: log}
}

// Create inserts a new client and returns its ID.
func (r *ClientRepoPG) Create(ctx context.Context, c *intake.Client) (int64, error) {
	if c == nil {
		return 0, errors.New("client cannot be nil")
	}

	model := ClientSchema{Name: c.Name, Email: c.Email, Phone: c.Phone}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return 0, r.translate(err, "create", zap.String("email", c.Email))
	}

	r.log.Info("client created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// Update overwrites the client's columns.
func (r *ClientRepoPG) Update(ctx context.Context, c *intake.Client) error {
	if c == nil {
		return errors.New("client cannot be nil")
	}

	model := ClientSchema{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone}
	res := r.db.WithContext(ctx).
		Model(&ClientSchema{ID: c.ID}).
		Select("nombre", "correo", "telefono").
		Updates(&model)
	if res.Error != nil {
		return r.translate(res.Error, "update", zap.Int64("id", c.ID))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id=%d", intake.ErrClientNotFound, c.ID)
	}

	r.log.Info("client updated in db", zap.Int64("id", c.ID))
	return nil
}

// Delete removes a client. It fails with ErrClientInUse while service
// requests still reference the client.
func (r *ClientRepoPG) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&ClientSchema{}, id)
	if res.Error != nil {
		return r.translate(res.Error, "delete", zap.Int64("id", id))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id=%d", intake.ErrClientNotFound, id)
	}

	r.log.Info("client deleted in db", zap.Int64("id", id))
	return nil
}

// GetByID retrieves a client by ID.
func (r *ClientRepoPG) GetByID(ctx context.Context, id int64) (*intake.Client, error) {
	var model ClientSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id=%d", intake.ErrClientNotFound, id)
		}
		r.log.Error("failed to get client from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return toClientDomain(&model), nil
}

// List retrieves clients ordered by ID. A non-empty query filters by name,
// email or phone, case-insensitively; it must already be validated.
func (r *ClientRepoPG) List(ctx context.Context, query string) ([]intake.Client, error) {
	tx := r.db.WithContext(ctx).Order("id_cliente")
	if query != "" {
		pattern := "%" + security.SanitizeSearchString(query) + "%"
		tx = tx.Where(
			`LOWER(nombre) LIKE LOWER(?) ESCAPE '\' OR LOWER(correo) LIKE LOWER(?) ESCAPE '\' OR telefono LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}

	var models []ClientSchema
	if err := tx.Find(&models).Error; err != nil {
		r.log.Error("failed to list clients from db", zap.Error(err), zap.String("query", query))
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	clients := make([]intake.Client, len(models))
	for i := range models {
		clients[i] = *toClientDomain(&models[i])
	}
	return clients, nil
}

func (r *ClientRepoPG) translate(err error, op string, fields ...zap.Field) error {
	switch {
	case isUniqueViolation(err):
		r.log.Warn("client email already exists", fields...)
		return fmt.Errorf("%w: %v", intake.ErrClientEmail, err)
	case isForeignKeyViolation(err):
		r.log.Warn("client is still referenced", fields...)
		return fmt.Errorf("%w: %v", intake.ErrClientInUse, err)
	}

	r.log.Error("failed to "+op+" client in db", append(fields, zap.Error(err))...)
	return fmt.Errorf("failed to %s client: %w", op, err)
}

func toClientDomain(m *ClientSchema) *intake.Client {
	return &intake.Client{ID: m.ID, Name: m.Name, Email: m.Email, Phone: m.Phone}
}
