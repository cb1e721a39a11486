package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"integrador-service/internal/domain/intake"
)

// ServiceRequestRepoPG implements the service request repository using GORM.
type ServiceRequestRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewServiceRequestRepoPG creates a new instance of ServiceRequestRepoPG.
func NewServiceRequestRepoPG(db *gorm.DB, log *zap.Logger) *ServiceRequestRepoPG {
	return &ServiceRequestRepoPG{db: db, log: log}
}

// Create inserts a service request. The creation timestamp is set by the
// database layer and copied back into sr.
func (r *ServiceRequestRepoPG) Create(ctx context.Context, sr *intake.ServiceRequest) (int64, error) {
	if sr == nil {
		return 0, errors.New("service request cannot be nil")
	}

	model := ServiceRequestSchema{
		ClientID:    sr.ClientID,
		Description: sr.Description,
		Status:      string(sr.Status),
		Channel:     sr.Channel,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&model).Error; err != nil {
		if isForeignKeyViolation(err) {
			r.log.Warn("service request references unknown client", zap.Int64("client_id", sr.ClientID))
			return 0, fmt.Errorf("%w: id=%d", intake.ErrClientNotFound, sr.ClientID)
		}
		r.log.Error("failed to create service request in db", zap.Error(err), zap.Int64("client_id", sr.ClientID))
		return 0, fmt.Errorf("failed to create service request: %w", err)
	}

	sr.ID = model.ID
	sr.CreatedAt = model.CreatedAt
	r.log.Info("service request created in db", zap.Int64("id", model.ID), zap.Int64("client_id", sr.ClientID))
	return model.ID, nil
}

// GetByID retrieves a service request by ID.
func (r *ServiceRequestRepoPG) GetByID(ctx context.Context, id int64) (*intake.ServiceRequest, error) {
	var model ServiceRequestSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id=%d", intake.ErrRequestNotFound, id)
		}
		r.log.Error("failed to get service request from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get service request: %w", err)
	}

	return toServiceRequestDomain(&model), nil
}

// ListByClient retrieves the requests filed by a client, oldest first.
func (r *ServiceRequestRepoPG) ListByClient(ctx context.Context, clientID int64) ([]intake.ServiceRequest, error) {
	var models []ServiceRequestSchema
	err := r.db.WithContext(ctx).
		Where("id_cliente = ?", clientID).
		Order("fecha_hora, id_solicitud").
		Find(&models).Error
	if err != nil {
		r.log.Error("failed to list service requests from db", zap.Error(err), zap.Int64("client_id", clientID))
		return nil, fmt.Errorf("failed to list service requests: %w", err)
	}

	requests := make([]intake.ServiceRequest, len(models))
	for i := range models {
		requests[i] = *toServiceRequestDomain(&models[i])
	}
	return requests, nil
}

// UpdateStatus sets the evaluation state of a service request.
func (r *ServiceRequestRepoPG) UpdateStatus(ctx context.Context, id int64, status intake.Status) error {
	res := r.db.WithContext(ctx).
		Model(&ServiceRequestSchema{}).
		Where("id_solicitud = ?", id).
		Update("estado", string(status))
	if res.Error != nil {
		r.log.Error("failed to update service request status in db", zap.Error(res.Error), zap.Int64("id", id))
		return fmt.Errorf("failed to update service request status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id=%d", intake.ErrRequestNotFound, id)
	}

	r.log.Info("service request status updated in db", zap.Int64("id", id), zap.String("status", string(status)))
	return nil
}

func toServiceRequestDomain(m *ServiceRequestSchema) *intake.ServiceRequest {
	return &intake.ServiceRequest{
		ID:          m.ID,
		ClientID:    m.ClientID,
		Description: m.Description,
		Status:      intake.Status(m.Status),
		Channel:     m.Channel,
		CreatedAt:   m.CreatedAt,
	}
}
