package intake

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "integrador-service/internal/domain/intake"
	apperrors "integrador-service/pkg/errors"
)

type MockClientRepository struct{ mock.Mock }

func (m *MockClientRepository) Create(ctx context.Context, c *domain.Client) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, c *domain.Client) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockClientRepository) List(ctx context.Context, query string) ([]domain.Client, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

type MockServiceRequestRepository struct{ mock.Mock }

func (m *MockServiceRequestRepository) Create(ctx context.Context, sr *domain.ServiceRequest) (int64, error) {
	args := m.Called(ctx, sr)
	id := args.Get(0).(int64)
	if args.Error(1) == nil {
		sr.ID = id
		sr.CreatedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	}
	return id, args.Error(1)
}

func (m *MockServiceRequestRepository) GetByID(ctx context.Context, id int64) (*domain.ServiceRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceRequest), args.Error(1)
}

func (m *MockServiceRequestRepository) ListByClient(ctx context.Context, clientID int64) ([]domain.ServiceRequest, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ServiceRequest), args.Error(1)
}

func (m *MockServiceRequestRepository) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	return m.Called(ctx, id, status).Error(0)
}

type MockQuoteRepository struct{ mock.Mock }

func (m *MockQuoteRepository) Create(ctx context.Context, q *domain.PreliminaryQuote) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuoteRepository) GetByRequest(ctx context.Context, requestID int64) (*domain.PreliminaryQuote, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PreliminaryQuote), args.Error(1)
}

type mocks struct {
	clients  *MockClientRepository
	requests *MockServiceRequestRepository
	quotes   *MockQuoteRepository
}

func setupTestUsecase(t *testing.T) (*Service, mocks) {
	m := mocks{new(MockClientRepository), new(MockServiceRequestRepository), new(MockQuoteRepository)}
	t.Cleanup(func() {
		m.clients.AssertExpectations(t)
		m.requests.AssertExpectations(t)
		m.quotes.AssertExpectations(t)
	})
	return New(m.clients, m.requests, m.quotes, zaptest.NewLogger(t)), m
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	var statuser apperrors.HTTPStatuser
	require.True(t, errors.As(err, &statuser), "error %v does not carry a status", err)
	assert.Equal(t, status, statuser.HTTPStatus())
}

func ptr[T any](v T) *T { return &v }

var ctx = context.Background()

func ferreteria() *domain.Client {
	return &domain.Client{ID: 1, Name: "Ferretería Lima", Email: "ventas@ferrelima.pe", Phone: "014455667"}
}

// ==================== CLIENTS ====================

func TestCreateClient(t *testing.T) {
	uc, m := setupTestUsecase(t)
	m.clients.On("Create", ctx, &domain.Client{Name: "Ferretería Lima", Email: "ventas@ferrelima.pe"}).Return(int64(3), nil)

	got, err := uc.CreateClient(ctx, CreateClientRequest{Name: " Ferretería Lima ", Email: "ventas@ferrelima.pe"})
	require.NoError(t, err)
	assert.Equal(t, &Client{ID: 3, Name: "Ferretería Lima", Email: "ventas@ferrelima.pe"}, got)
}

func TestCreateClient_Errors(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		uc, _ := setupTestUsecase(t)
		_, err := uc.CreateClient(ctx, CreateClientRequest{Name: "X", Email: "bad"})
		assertStatus(t, err, http.StatusBadRequest)
		_, err = uc.CreateClient(ctx, CreateClientRequest{Email: "a@b.pe"})
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("duplicate email", func(t *testing.T) {
		uc, m := setupTestUsecase(t)
		m.clients.On("Create", ctx, mock.Anything).Return(int64(0), domain.ErrClientEmail)
		_, err := uc.CreateClient(ctx, CreateClientRequest{Name: "X", Email: "a@b.pe"})
		assertStatus(t, err, http.StatusConflict)
	})

	t.Run("persistence", func(t *testing.T) {
		uc, m := setupTestUsecase(t)
		m.clients.On("Create", ctx, mock.Anything).Return(int64(0), errors.New("boom"))
		_, err := uc.CreateClient(ctx, CreateClientRequest{Name: "X", Email: "a@b.pe"})
		assertStatus(t, err, http.StatusInternalServerError)
	})
}

func TestGetClient(t *testing.T) {
	uc, m := setupTestUsecase(t)
	m.clients.On("GetByID", ctx, int64(1)).Return(ferreteria(), nil)
	m.clients.On("GetByID", ctx, int64(2)).Return(nil, domain.ErrClientNotFound)

	got, err := uc.GetClient(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ferretería Lima", got.Name)

	_, err = uc.GetClient(ctx, 2)
	assertStatus(t, err, http.StatusNotFound)
}

func TestListClients(t *testing.T) {
	uc, m := setupTestUsecase(t)
	m.clients.On("List", ctx, "lima").Return([]domain.Client{*ferreteria()}, nil)

	got, err := uc.ListClients(ctx, ListClientsRequest{Query: "  lima "})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestListClients_RejectsQuery(t *testing.T) {
	uc, _ := setupTestUsecase(t)

	_, err := uc.ListClients(ctx, ListClientsRequest{Query: "x' OR 1=1"})
	assertStatus(t, err, http.StatusBadRequest)

	_, err = uc.ListClients(ctx, ListClientsRequest{Query: strings.Repeat("a", 101)})
	assertStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, MsgQueryTooLong, apperrors.PublicMessage(err.(apperrors.HTTPStatuser)))
}

func TestUpdateClient(t *testing.T) {
	uc, m := setupTestUsecase(t)
	m.clients.On("GetByID", ctx, int64(1)).Return(ferreteria(), nil)
	m.clients.On("Update", ctx, &domain.Client{ID: 1, Name: "Ferretería Lima", Email: "ventas@ferrelima.pe", Phone: "999888777"}).Return(nil)

	got, err := uc.UpdateClient(ctx, UpdateClientRequest{ID: 1, Name: ptr(""), Phone: ptr("999888777")})
	require.NoError(t, err)
	assert.Equal(t, "999888777", got.Phone)
	assert.Equal(t, "Ferretería Lima", got.Name)
}

func TestUpdateClient_Errors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		uc, m := setupTestUsecase(t)
		m.clients.On("GetByID", ctx, int64(9)).Return(nil, domain.ErrClientNotFound)
		_, err := uc.UpdateClient(ctx, UpdateClientRequest{ID: 9, Name: ptr("x")})
		assertStatus(t, err, http.StatusNotFound)
	})

	t.Run("bad email", func(t *testing.T) {
		uc, m := setupTestUsecase(t)
		m.clients.On("GetByID", ctx, int64(1)).Return(ferreteria(), nil)
		_, err := uc.UpdateClient(ctx, UpdateClientRequest{ID: 1, Email: ptr("nope")})
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("duplicate email", func(t *testing.T) {
		uc, m := setupTestUsecase(t)
		m.clients.On("GetByID", ctx, int64(1)).Return(ferreteria(), nil)
		m.clients.On("Update", ctx, mock.Anything).Return(domain.ErrClientEmail)
		_, err := uc.UpdateClient(ctx, UpdateClientRequest{ID: 1, Email: ptr("otro@x.pe")})
		assertStatus(t, err, http.StatusConflict)
	})
}

func TestDeleteClient(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		uc, m := setupTestUsecase(t)
		m.clients.On("GetByID", ctx, int64(1)).Return(ferreteria(), nil)
		m.clients.On("Delete", ctx, int64(1)).Return(nil)
		assert.NoError(t, uc.DeleteClient(ctx, 1))
	})

	t.Run("in use", func(t *testing.T) {
		uc, m := setupTestUsecase(t)
		m.clients.On("GetByID", ctx, int64(1)).Return(ferreteria(), nil)
		m.clients.On("Delete", ctx, int64(1)).Return(domain.ErrClientInUse)
		assertStatus(t, uc.DeleteClient(ctx, 1), http.StatusConflict)
	})

	t.Run("missing", func(t *testing.T) {
		uc, m := setupTestUsecase(t)
		m.clients.On("GetByID", ctx, int64(5)).Return(nil, domain.ErrClientNotFound)
		assertStatus(t, uc.DeleteClient(ctx, 5), http.StatusNotFound)
	})
}

// ==================== SERVICE REQUESTS ====================

func TestCreateServiceRequest_Defaults(t *testing.T) {
	uc, m := setupTestUsecase(t)
	m.clients.On("GetByID", ctx, int64(1)).Return(ferreteria(), nil)
	m.requests.On("Create", ctx, mock.MatchedBy(func(sr *domain.ServiceRequest) bool {
		return sr.Status == domain.StatusPending && sr.Channel == "Web Contacto" && sr.Description == "Cableado"
	})).Return(int64(10), nil)

	got, err := uc.CreateServiceRequest(ctx, CreateServiceRequestRequest{ClientID: 1, Description: " Cableado "})
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.ID)
	assert.Equal(t, "pendiente", got.Status)
	assert.Equal(t, "Web Contacto", got.Channel)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCreateServiceRequest_Errors(t *testing.T) {
	t.Run("missing description", func(t *testing.T) {
		uc, _ := setupTestUsecase(t)
		_, err := uc.CreateServiceRequest(ctx, CreateServiceRequestRequest{ClientID: 1, Description: "  "})
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("unknown client", func(t *testing.T) {
		uc, m := setupTestUsecase(t)
		m.clients.On("GetByID", ctx, int64(4)).Return(nil, domain.ErrClientNotFound)
		_, err := uc.CreateServiceRequest(ctx, CreateServiceRequestRequest{ClientID: 4, Description: "x"})
		assertStatus(t, err, http.StatusNotFound)
	})
}

func TestListServiceRequestsByClient(t *testing.T) {
	uc, m := setupTestUsecase(t)
	m.clients.On("GetByID", ctx, int64(1)).Return(ferreteria(), nil)
	m.clients.On("GetByID", ctx, int64(2)).Return(nil, domain.ErrClientNotFound)
	m.requests.On("ListByClient", ctx, int64(1)).Return([]domain.ServiceRequest{
		{ID: 10, ClientID: 1, Description: "Cableado", Status: domain.StatusPending, Channel: "Web Contacto"},
	}, nil)

	got, err := uc.ListServiceRequestsByClient(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Cableado", got[0].Description)

	_, err = uc.ListServiceRequestsByClient(ctx, 2)
	assertStatus(t, err, http.StatusNotFound)
}

func TestUpdateServiceRequestStatus(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		uc, m := setupTestUsecase(t)
		m.requests.On("UpdateStatus", ctx, int64(10), domain.StatusDoesNotProceed).Return(nil)
		m.requests.On("GetByID", ctx, int64(10)).Return(&domain.ServiceRequest{ID: 10, Status: domain.StatusDoesNotProceed}, nil)

		got, err := uc.UpdateServiceRequestStatus(ctx, UpdateStatusRequest{ID: 10, Status: "no procede"})
		require.NoError(t, err)
		assert.Equal(t, "no procede", got.Status)
	})

	t.Run("unknown status", func(t *testing.T) {
		uc, _ := setupTestUsecase(t)
		_, err := uc.UpdateServiceRequestStatus(ctx, UpdateStatusRequest{ID: 10, Status: "aprobado"})
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("missing request", func(t *testing.T) {
		uc, m := setupTestUsecase(t)
		m.requests.On("UpdateStatus", ctx, int64(11), domain.StatusProceeds).Return(domain.ErrRequestNotFound)
		_, err := uc.UpdateServiceRequestStatus(ctx, UpdateStatusRequest{ID: 11, Status: "procede"})
		assertStatus(t, err, http.StatusNotFound)
	})
}

// ==================== QUOTES ====================

func TestCreateQuote(t *testing.T) {
	uc, m := setupTestUsecase(t)
	m.requests.On("GetByID", ctx, int64(10)).Return(&domain.ServiceRequest{ID: 10}, nil)
	m.quotes.On("Create", ctx, mock.MatchedBy(func(q *domain.PreliminaryQuote) bool {
		return q.RequestID == 10 && q.EstimatedAmount.Equal(decimal.RequireFromString("1500.56"))
	})).Return(int64(1), nil)

	got, err := uc.CreateQuote(ctx, CreateQuoteRequest{
		RequestID:  10,
		Amount:     decimal.RequireFromString("1500.555"),
		Parameters: map[string]any{"puntos": 24},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "1500.56", got.Amount.StringFixed(2))
}

func TestCreateQuote_Errors(t *testing.T) {
	t.Run("negative", func(t *testing.T) {
		uc, _ := setupTestUsecase(t)
		_, err := uc.CreateQuote(ctx, CreateQuoteRequest{RequestID: 10, Amount: decimal.NewFromInt(-1)})
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("too large", func(t *testing.T) {
		uc, _ := setupTestUsecase(t)
		_, err := uc.CreateQuote(ctx, CreateQuoteRequest{RequestID: 10, Amount: decimal.New(1, 12)})
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("missing request", func(t *testing.T) {
		uc, m := setupTestUsecase(t)
		m.requests.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrRequestNotFound)
		_, err := uc.CreateQuote(ctx, CreateQuoteRequest{RequestID: 99, Amount: decimal.NewFromInt(1)})
		assertStatus(t, err, http.StatusNotFound)
	})

	t.Run("already quoted", func(t *testing.T) {
		uc, m := setupTestUsecase(t)
		m.requests.On("GetByID", ctx, int64(10)).Return(&domain.ServiceRequest{ID: 10}, nil)
		m.quotes.On("Create", ctx, mock.Anything).Return(int64(0), domain.ErrQuoteExists)
		_, err := uc.CreateQuote(ctx, CreateQuoteRequest{RequestID: 10, Amount: decimal.NewFromInt(1)})
		assertStatus(t, err, http.StatusConflict)
	})
}

func TestGetQuoteByRequest(t *testing.T) {
	uc, m := setupTestUsecase(t)
	m.requests.On("GetByID", ctx, int64(10)).Return(&domain.ServiceRequest{ID: 10}, nil)
	m.requests.On("GetByID", ctx, int64(11)).Return(&domain.ServiceRequest{ID: 11}, nil)
	m.quotes.On("GetByRequest", ctx, int64(10)).Return(&domain.PreliminaryQuote{ID: 1, RequestID: 10, EstimatedAmount: decimal.NewFromInt(80)}, nil)
	m.quotes.On("GetByRequest", ctx, int64(11)).Return(nil, domain.ErrQuoteNotFound)

	got, err := uc.GetQuoteByRequest(ctx, 10)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(80).Equal(got.Amount))

	_, err = uc.GetQuoteByRequest(ctx, 11)
	assertStatus(t, err, http.StatusNotFound)
}
