package intake

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateClientRequest represents the request payload for creating a client.
type CreateClientRequest struct {
	Name  string `json:"nombre" validate:"required,max=120"`
	Email string `json:"correo" validate:"required,email,max=120"`
	Phone string `json:"telefono" validate:"omitempty,max=30"`
}

// UpdateClientRequest is a partial update; nil or blank fields keep their value.
type UpdateClientRequest struct {
	ID    int64
	Name  *string
	Email *string
	Phone *string
}

// ListClientsRequest filters clients by a free text query.
type ListClientsRequest struct {
	Query string
}

// Client represents a client DTO.
type Client struct {
	ID    int64
	Name  string
	Email string
	Phone string
}

// CreateServiceRequestRequest represents the request payload for filing a service request.
type CreateServiceRequestRequest struct {
	ClientID    int64  `json:"id_cliente" validate:"required,gt=0"`
	Description string `json:"descripcion" validate:"required"`
	Channel     string `json:"canal_ingreso" validate:"omitempty,max=30"`
}

// UpdateStatusRequest moves a service request to another evaluation state.
type UpdateStatusRequest struct {
	ID     int64
	Status string
}

// ServiceRequest represents a service request DTO.
type ServiceRequest struct {
	ID          int64
	ClientID    int64
	Description string
	Status      string
	Channel     string
	CreatedAt   time.Time
}

// CreateQuoteRequest represents the request payload for a preliminary quote.
type CreateQuoteRequest struct {
	RequestID  int64
	Amount     decimal.Decimal
	Parameters map[string]any
}

// Quote represents a preliminary quote DTO.
type Quote struct {
	ID         int64
	RequestID  int64
	Amount     decimal.Decimal
	Parameters map[string]any
}
