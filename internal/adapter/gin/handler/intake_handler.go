package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"integrador-service/internal/usecase/intake"
)

// IntakeHandler handles HTTP requests for clients, service requests and quotes
type IntakeHandler struct {
	uc  intake.Usecase
	log *zap.Logger
}

// NewIntakeHandler creates a new IntakeHandler instance
func NewIntakeHandler(uc intake.Usecase, log *zap.Logger) *IntakeHandler {
	return &IntakeHandler{uc: uc, log: log}
}

// UpdateClientRequest represents the HTTP request body for updating a client
type UpdateClientRequest struct {
	Name  *string `json:"nombre"`
	Email *string `json:"correo"`
	Phone *string `json:"telefono"`
}

// UpdateStatusRequest represents the HTTP request body for a status change
type UpdateStatusRequest struct {
	Status string `json:"estado"`
}

// CreateQuoteRequest represents the HTTP request body for a preliminary quote.
// The amount may be sent as a JSON number or string.
type CreateQuoteRequest struct {
	Amount     *decimal.Decimal `json:"monto_estimado"`
	Parameters map[string]any   `json:"parametros_resumen"`
}

// ClientResponse represents the HTTP response for client data
type ClientResponse struct {
	ID    int64  `json:"id_cliente"`
	Name  string `json:"nombre"`
	Email string `json:"correo"`
	Phone string `json:"telefono"`
}

// ServiceRequestResponse represents the HTTP response for a service request
type ServiceRequestResponse struct {
	ID          int64     `json:"id_solicitud"`
	ClientID    int64     `json:"id_cliente"`
	Description string    `json:"descripcion"`
	Status      string    `json:"estado"`
	Channel     string    `json:"canal_ingreso"`
	CreatedAt   time.Time `json:"fecha_hora"`
}

// QuoteResponse represents the HTTP response for a preliminary quote
type QuoteResponse struct {
	ID         int64           `json:"id_cotizacion"`
	RequestID  int64           `json:"id_solicitud"`
	Amount     decimal.Decimal `json:"monto_estimado"`
	Parameters map[string]any  `json:"parametros_resumen"`
}

// CreateClient handles POST /v1/clients
func (h *IntakeHandler) CreateClient(c *gin.Context) {
	var req intake.CreateClientRequest
	if !bindJSON(c, h.log, &req, false) {
		return
	}

	client, err := h.uc.CreateClient(c.Request.Context(), req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, toClientResponse(client))
}

// ListClients handles GET /v1/clients?query=
func (h *IntakeHandler) ListClients(c *gin.Context) {
	clients, err := h.uc.ListClients(c.Request.Context(), intake.ListClientsRequest{Query: c.Query("query")})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	out := make([]ClientResponse, len(clients))
	for i := range clients {
		out[i] = toClientResponse(&clients[i])
	}
	c.JSON(http.StatusOK, out)
}

// GetClient handles GET /v1/clients/:id
func (h *IntakeHandler) GetClient(c *gin.Context) {
	id, ok := parseID(c, h.log, "id")
	if !ok {
		return
	}

	client, err := h.uc.GetClient(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toClientResponse(client))
}

// UpdateClient handles PUT /v1/clients/:id
func (h *IntakeHandler) UpdateClient(c *gin.Context) {
	id, ok := parseID(c, h.log, "id")
	if !ok {
		return
	}

	var req UpdateClientRequest
	if !bindJSON(c, h.log, &req, true) {
		return
	}

	client, err := h.uc.UpdateClient(c.Request.Context(), intake.UpdateClientRequest{
		ID:    id,
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mensaje": "Cliente actualizado",
		"cliente": toClientResponse(client),
	})
}

// DeleteClient handles DELETE /v1/clients/:id
func (h *IntakeHandler) DeleteClient(c *gin.Context) {
	id, ok := parseID(c, h.log, "id")
	if !ok {
		return
	}

	if err := h.uc.DeleteClient(c.Request.Context(), id); err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Mensaje: "Cliente eliminado"})
}

// ListClientRequests handles GET /v1/clients/:id/requests
func (h *IntakeHandler) ListClientRequests(c *gin.Context) {
	id, ok := parseID(c, h.log, "id")
	if !ok {
		return
	}

	requests, err := h.uc.ListServiceRequestsByClient(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	out := make([]ServiceRequestResponse, len(requests))
	for i := range requests {
		out[i] = toServiceRequestResponse(&requests[i])
	}
	c.JSON(http.StatusOK, out)
}

// CreateServiceRequest handles POST /v1/requests
func (h *IntakeHandler) CreateServiceRequest(c *gin.Context) {
	var req intake.CreateServiceRequestRequest
	if !bindJSON(c, h.log, &req, false) {
		return
	}

	sr, err := h.uc.CreateServiceRequest(c.Request.Context(), req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, toServiceRequestResponse(sr))
}

// GetServiceRequest handles GET /v1/requests/:id
func (h *IntakeHandler) GetServiceRequest(c *gin.Context) {
	id, ok := parseID(c, h.log, "id")
	if !ok {
		return
	}

	sr, err := h.uc.GetServiceRequest(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toServiceRequestResponse(sr))
}

// UpdateServiceRequestStatus handles PATCH /v1/requests/:id/status
func (h *IntakeHandler) UpdateServiceRequestStatus(c *gin.Context) {
	id, ok := parseID(c, h.log, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !bindJSON(c, h.log, &req, false) {
		return
	}

	sr, err := h.uc.UpdateServiceRequestStatus(c.Request.Context(), intake.UpdateStatusRequest{ID: id, Status: req.Status})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toServiceRequestResponse(sr))
}

// CreateQuote handles POST /v1/requests/:id/quote
func (h *IntakeHandler) CreateQuote(c *gin.Context) {
	id, ok := parseID(c, h.log, "id")
	if !ok {
		return
	}

	var req CreateQuoteRequest
	if !bindJSON(c, h.log, &req, false) {
		return
	}
	if req.Amount == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   CodeInvalidBody,
			Mensaje: "El campo monto_estimado es obligatorio.",
		})
		return
	}

	q, err := h.uc.CreateQuote(c.Request.Context(), intake.CreateQuoteRequest{
		RequestID:  id,
		Amount:     *req.Amount,
		Parameters: req.Parameters,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, toQuoteResponse(q))
}

// GetQuote handles GET /v1/requests/:id/quote
func (h *IntakeHandler) GetQuote(c *gin.Context) {
	id, ok := parseID(c, h.log, "id")
	if !ok {
		return
	}

	q, err := h.uc.GetQuoteByRequest(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(q))
}

func toClientResponse(c *intake.Client) ClientResponse {
	return ClientResponse{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone}
}

func toServiceRequestResponse(sr *intake.ServiceRequest) ServiceRequestResponse {
	return ServiceRequestResponse{
		ID:          sr.ID,
		ClientID:    sr.ClientID,
		Description: sr.Description,
		Status:      sr.Status,
		Channel:     sr.Channel,
		CreatedAt:   sr.CreatedAt,
	}
}

func toQuoteResponse(q *intake.Quote) QuoteResponse {
	return QuoteResponse{ID: q.ID, RequestID: q.RequestID, Amount: q.Amount, Parameters: q.Parameters}
}
