package intake

import "context"

// Usecase defines the client intake operations.
type Usecase interface {
	CreateClient(ctx context.Context, in CreateClientRequest) (*Client, error)
	GetClient(ctx context.Context, id int64) (*Client, error)
	ListClients(ctx context.Context, in ListClientsRequest) ([]Client, error)
	UpdateClient(ctx context.Context, in UpdateClientRequest) (*Client, error)
	DeleteClient(ctx context.Context, id int64) error

	CreateServiceRequest(ctx context.Context, in CreateServiceRequestRequest) (*ServiceRequest, error)
	GetServiceRequest(ctx context.Context, id int64) (*ServiceRequest, error)
	ListServiceRequestsByClient(ctx context.Context, clientID int64) ([]ServiceRequest, error)
	UpdateServiceRequestStatus(ctx context.Context, in UpdateStatusRequest) (*ServiceRequest, error)

	CreateQuote(ctx context.Context, in CreateQuoteRequest) (*Quote, error)
	GetQuoteByRequest(ctx context.Context, requestID int64) (*Quote, error)
}
