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

// QuoteRepoPG implements the preliminary quote repository using GORM.
type QuoteRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewQuoteRepoPG creates a new instance of QuoteRepoPG.
func NewQuoteRepoPG(db *gorm.DB, log *zap.Logger) *QuoteRepoPG {
	return &QuoteRepoPG{db: db, log: log}
}

// Create attaches a preliminary quote to a service request.
func (r *QuoteRepoPG) Create(ctx context.Context, q *intake.PreliminaryQuote) (int64, error) {
	if q == nil {
		return 0, errors.New("quote cannot be nil")
	}

	model := QuoteSchema{
		RequestID:       q.RequestID,
		EstimatedAmount: q.EstimatedAmount.Round(2),
		Parameters:      q.Parameters,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&model).Error; err != nil {
		switch {
		case isUniqueViolation(err):
			r.log.Warn("service request already quoted", zap.Int64("request_id", q.RequestID))
			return 0, fmt.Errorf("%w: request_id=%d", intake.ErrQuoteExists, q.RequestID)
		case isForeignKeyViolation(err):
			r.log.Warn("quote references unknown service request", zap.Int64("request_id", q.RequestID))
			return 0, fmt.Errorf("%w: id=%d", intake.ErrRequestNotFound, q.RequestID)
		}
		r.log.Error("failed to create quote in db", zap.Error(err), zap.Int64("request_id", q.RequestID))
		return 0, fmt.Errorf("failed to create quote: %w", err)
	}

	r.log.Info("quote created in db", zap.Int64("id", model.ID), zap.Int64("request_id", q.RequestID))
	return model.ID, nil
}

// GetByRequest retrieves the quote attached to a service request.
func (r *QuoteRepoPG) GetByRequest(ctx context.Context, requestID int64) (*intake.PreliminaryQuote, error) {
	var model QuoteSchema
	if err := r.db.WithContext(ctx).Where("id_solicitud = ?", requestID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: request_id=%d", intake.ErrQuoteNotFound, requestID)
		}
		r.log.Error("failed to get quote from db", zap.Error(err), zap.Int64("request_id", requestID))
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	return &intake.PreliminaryQuote{
		ID:              model.ID,
		RequestID:       model.RequestID,
		EstimatedAmount: model.EstimatedAmount,
		Parameters:      model.Parameters,
	}, nil
}
