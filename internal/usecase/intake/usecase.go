package intake

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domain "integrador-service/internal/domain/intake"
	apperrors "integrador-service/pkg/errors"
	"integrador-service/pkg/security"
	"integrador-service/pkg/validation"
)

// Client facing messages.
const (
	MsgClientNotFound  = "Cliente no encontrado"
	MsgClientEmail     = "El correo del cliente ya está registrado."
	MsgClientInUse     = "El cliente tiene solicitudes registradas."
	MsgRequestNotFound = "Solicitud no encontrada"
	MsgQuoteNotFound   = "Cotización no encontrada"
	MsgQuoteExists     = "La solicitud ya tiene una cotización preliminar."
	MsgInvalidStatus   = "El estado debe ser 'pendiente', 'procede' o 'no procede'."
	MsgInvalidQuery    = "La búsqueda contiene caracteres no permitidos."
	MsgQueryTooLong    = "La búsqueda es demasiado larga."
	MsgNegativeAmount  = "El monto estimado no puede ser negativo."
	MsgAmountTooLarge  = "El monto estimado excede el máximo permitido."
)

// maxAmount is the first value that no longer fits in decimal(14,2).
var maxAmount = decimal.New(1, 12)

// ClientRepository defines data access for clients.
type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	Update(ctx context.Context, c *domain.Client) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, query string) ([]domain.Client, error)
}

// ServiceRequestRepository defines data access for service requests.
type ServiceRequestRepository interface {
	Create(ctx context.Context, sr *domain.ServiceRequest) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.ServiceRequest, error)
	ListByClient(ctx context.Context, clientID int64) ([]domain.ServiceRequest, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) error
}

// QuoteRepository defines data access for preliminary quotes.
type QuoteRepository interface {
	Create(ctx context.Context, q *domain.PreliminaryQuote) (int64, error)
	GetByRequest(ctx context.Context, requestID int64) (*domain.PreliminaryQuote, error)
}

// Service implements client intake: clients, their service requests and
// the preliminary quote attached to each request.
type Service struct {
	clients  ClientRepository
	requests ServiceRequestRepository
	quotes   QuoteRepository
	log      *zap.Logger
	validate *validator.Validate
}

var _ Usecase = (*Service)(nil)

// New creates a new Service.
func New(clients ClientRepository, requests ServiceRequestRepository, quotes QuoteRepository, log *zap.Logger) *Service {
	return &Service{
		clients:  clients,
		requests: requests,
		quotes:   quotes,
		log:      log,
		validate: validation.New(),
	}
}

// CreateClient registers a new client.
func (uc *Service) CreateClient(ctx context.Context, in CreateClientRequest) (*Client, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("create client validation failed", zap.Error(err))
		return nil, validation.Error(err)
	}

	c := &domain.Client{Name: in.Name, Email: in.Email, Phone: in.Phone}
	id, err := uc.clients.Create(ctx, c)
	if err != nil {
		if errors.Is(err, domain.ErrClientEmail) {
			return nil, apperrors.NewConflictError("cliente", MsgClientEmail)
		}
		uc.log.Error("failed to create client", zap.String("email", in.Email), zap.Error(err))
		return nil, apperrors.NewInternalError("Error al registrar cliente.", err)
	}

	c.ID = id
	dto := toClientDTO(c)
	return &dto, nil
}

// GetClient retrieves a client by ID.
func (uc *Service) GetClient(ctx context.Context, id int64) (*Client, error) {
	c, err := uc.findClient(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := toClientDTO(c)
	return &dto, nil
}

// ListClients returns clients, optionally filtered by name, email or phone.
func (uc *Service) ListClients(ctx context.Context, in ListClientsRequest) ([]Client, error) {
	query, err := security.ValidateSearchQuery(in.Query)
	if err != nil {
		uc.log.Warn("invalid search query", zap.String("query", in.Query), zap.Error(err))
		if errors.Is(err, security.ErrSearchQueryTooLong) {
			return nil, apperrors.NewValidationError("query", MsgQueryTooLong)
		}
		return nil, apperrors.NewValidationError("query", MsgInvalidQuery)
	}

	clients, err := uc.clients.List(ctx, query)
	if err != nil {
		uc.log.Error("failed to list clients", zap.String("query", query), zap.Error(err))
		return nil, apperrors.NewInternalError("Error al listar clientes.", err)
	}

	out := make([]Client, len(clients))
	for i := range clients {
		out[i] = toClientDTO(&clients[i])
	}
	return out, nil
}

// UpdateClient merges the supplied non-blank fields over the stored client.
func (uc *Service) UpdateClient(ctx context.Context, in UpdateClientRequest) (*Client, error) {
	c, err := uc.findClient(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if v, ok := nonBlank(in.Name); ok {
		if err := validation.Var(uc.validate, "nombre", v, "max=120"); err != nil {
			return nil, err
		}
		c.Name = v
	}
	if v, ok := nonBlank(in.Email); ok {
		if err := validation.Var(uc.validate, "correo", v, "email,max=120"); err != nil {
			return nil, err
		}
		c.Email = v
	}
	if v, ok := nonBlank(in.Phone); ok {
		if err := validation.Var(uc.validate, "telefono", v, "max=30"); err != nil {
			return nil, err
		}
		c.Phone = v
	}

	if err := uc.clients.Update(ctx, c); err != nil {
		switch {
		case errors.Is(err, domain.ErrClientNotFound):
			return nil, apperrors.NewNotFoundError("cliente", MsgClientNotFound)
		case errors.Is(err, domain.ErrClientEmail):
			return nil, apperrors.NewConflictError("cliente", MsgClientEmail)
		}
		uc.log.Error("failed to update client", zap.Int64("id", in.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("Error al actualizar cliente.", err)
	}

	dto := toClientDTO(c)
	return &dto, nil
}

// DeleteClient removes a client without service requests.
func (uc *Service) DeleteClient(ctx context.Context, id int64) error {
	if _, err := uc.findClient(ctx, id); err != nil {
		return err
	}

	if err := uc.clients.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrClientNotFound):
			return apperrors.NewNotFoundError("cliente", MsgClientNotFound)
		case errors.Is(err, domain.ErrClientInUse):
			return apperrors.NewConflictError("cliente", MsgClientInUse)
		}
		uc.log.Error("failed to delete client", zap.Int64("id", id), zap.Error(err))
		return apperrors.NewInternalError("Error al eliminar cliente.", err)
	}
	return nil
}

// CreateServiceRequest files a pending request for an existing client.
func (uc *Service) CreateServiceRequest(ctx context.Context, in CreateServiceRequestRequest) (*ServiceRequest, error) {
	in.Description = strings.TrimSpace(in.Description)
	in.Channel = strings.TrimSpace(in.Channel)

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("create service request validation failed", zap.Error(err))
		return nil, validation.Error(err)
	}
	if in.Channel == "" {
		in.Channel = domain.DefaultChannel
	}

	if _, err := uc.findClient(ctx, in.ClientID); err != nil {
		return nil, err
	}

	sr := &domain.ServiceRequest{
		ClientID:    in.ClientID,
		Description: in.Description,
		Status:      domain.StatusPending,
		Channel:     in.Channel,
	}
	if _, err := uc.requests.Create(ctx, sr); err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return nil, apperrors.NewNotFoundError("cliente", MsgClientNotFound)
		}
		uc.log.Error("failed to create service request", zap.Int64("client_id", in.ClientID), zap.Error(err))
		return nil, apperrors.NewInternalError("Error al registrar solicitud.", err)
	}

	uc.log.Info("service request filed", zap.Int64("id", sr.ID), zap.Int64("client_id", sr.ClientID))
	dto := toServiceRequestDTO(sr)
	return &dto, nil
}

// GetServiceRequest retrieves a service request by ID.
func (uc *Service) GetServiceRequest(ctx context.Context, id int64) (*ServiceRequest, error) {
	sr, err := uc.findRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := toServiceRequestDTO(sr)
	return &dto, nil
}

// ListServiceRequestsByClient returns the requests filed by a client.
func (uc *Service) ListServiceRequestsByClient(ctx context.Context, clientID int64) ([]ServiceRequest, error) {
	if _, err := uc.findClient(ctx, clientID); err != nil {
		return nil, err
	}

	requests, err := uc.requests.ListByClient(ctx, clientID)
	if err != nil {
		uc.log.Error("failed to list service requests", zap.Int64("client_id", clientID), zap.Error(err))
		return nil, apperrors.NewInternalError("Error al listar solicitudes.", err)
	}

	out := make([]ServiceRequest, len(requests))
	for i := range requests {
		out[i] = toServiceRequestDTO(&requests[i])
	}
	return out, nil
}

// UpdateServiceRequestStatus records the evaluation outcome of a request.
func (uc *Service) UpdateServiceRequestStatus(ctx context.Context, in UpdateStatusRequest) (*ServiceRequest, error) {
	status, err := domain.ParseStatus(strings.TrimSpace(in.Status))
	if err != nil {
		return nil, apperrors.NewValidationError("estado", MsgInvalidStatus)
	}

	if err := uc.requests.UpdateStatus(ctx, in.ID, status); err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			return nil, apperrors.NewNotFoundError("solicitud", MsgRequestNotFound)
		}
		uc.log.Error("failed to update service request status", zap.Int64("id", in.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("Error al actualizar solicitud.", err)
	}

	uc.log.Info("service request status changed", zap.Int64("id", in.ID), zap.String("status", string(status)))
	return uc.GetServiceRequest(ctx, in.ID)
}

// CreateQuote attaches the preliminary quote of a service request.
func (uc *Service) CreateQuote(ctx context.Context, in CreateQuoteRequest) (*Quote, error) {
	amount := in.Amount.Round(2)
	if amount.IsNegative() {
		return nil, apperrors.NewValidationError("monto_estimado", MsgNegativeAmount)
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return nil, apperrors.NewValidationError("monto_estimado", MsgAmountTooLarge)
	}

	if _, err := uc.findRequest(ctx, in.RequestID); err != nil {
		return nil, err
	}

	q := &domain.PreliminaryQuote{RequestID: in.RequestID, EstimatedAmount: amount, Parameters: in.Parameters}
	id, err := uc.quotes.Create(ctx, q)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrQuoteExists):
			return nil, apperrors.NewConflictError("cotizacion", MsgQuoteExists)
		case errors.Is(err, domain.ErrRequestNotFound):
			return nil, apperrors.NewNotFoundError("solicitud", MsgRequestNotFound)
		}
		uc.log.Error("failed to create quote", zap.Int64("request_id", in.RequestID), zap.Error(err))
		return nil, apperrors.NewInternalError("Error al registrar cotización.", err)
	}

	q.ID = id
	dto := toQuoteDTO(q)
	return &dto, nil
}

// GetQuoteByRequest retrieves the preliminary quote of a service request.
func (uc *Service) GetQuoteByRequest(ctx context.Context, requestID int64) (*Quote, error) {
	if _, err := uc.findRequest(ctx, requestID); err != nil {
		return nil, err
	}

	q, err := uc.quotes.GetByRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrQuoteNotFound) {
			return nil, apperrors.NewNotFoundError("cotizacion", MsgQuoteNotFound)
		}
		uc.log.Error("failed to get quote", zap.Int64("request_id", requestID), zap.Error(err))
		return nil, apperrors.NewInternalError("Error al obtener cotización.", err)
	}

	dto := toQuoteDTO(q)
	return &dto, nil
}

func (uc *Service) findClient(ctx context.Context, id int64) (*domain.Client, error) {
	if id <= 0 {
		return nil, apperrors.NewNotFoundError("cliente", MsgClientNotFound)
	}

	c, err := uc.clients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return nil, apperrors.NewNotFoundError("cliente", MsgClientNotFound)
		}
		uc.log.Error("failed to get client", zap.Int64("id", id), zap.Error(err))
		return nil, apperrors.NewInternalError("Error al obtener cliente.", err)
	}
	return c, nil
}

func (uc *Service) findRequest(ctx context.Context, id int64) (*domain.ServiceRequest, error) {
	if id <= 0 {
		return nil, apperrors.NewNotFoundError("solicitud", MsgRequestNotFound)
	}

	sr, err := uc.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			return nil, apperrors.NewNotFoundError("solicitud", MsgRequestNotFound)
		}
		uc.log.Error("failed to get service request", zap.Int64("id", id), zap.Error(err))
		return nil, apperrors.NewInternalError("Error al obtener solicitud.", err)
	}
	return sr, nil
}

func nonBlank(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	v := strings.TrimSpace(*s)
	return v, v != ""
}

func toClientDTO(c *domain.Client) Client {
	return Client{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone}
}

func toServiceRequestDTO(sr *domain.ServiceRequest) ServiceRequest {
	return ServiceRequest{
		ID:          sr.ID,
		ClientID:    sr.ClientID,
		Description: sr.Description,
		Status:      string(sr.Status),
		Channel:     sr.Channel,
		CreatedAt:   sr.CreatedAt,
	}
}

func toQuoteDTO(q *domain.PreliminaryQuote) Quote {
	return Quote{ID: q.ID, RequestID: q.RequestID, Amount: q.EstimatedAmount, Parameters: q.Parameters}
}
