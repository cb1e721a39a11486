package intake

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Domain errors returned by intake repositories.
var (
	ErrClientNotFound  = errors.New("client not found")
	ErrClientEmail     = errors.New("client email already registered")
	ErrClientInUse     = errors.New("client still has service requests")
	ErrRequestNotFound = errors.New("service request not found")
	ErrQuoteNotFound   = errors.New("preliminary quote not found")
	ErrQuoteExists     = errors.New("service request already has a preliminary quote")
	ErrInvalidStatus   = errors.New("invalid service request status")
)

// DefaultChannel is the intake channel recorded when none is given.
const DefaultChannel = "Web Contacto"

// Status is the evaluation state of a service request.
type Status string

// Service request states.
const (
	StatusPending        Status = "pendiente"
	StatusProceeds       Status = "procede"
	StatusDoesNotProceed Status = "no procede"
)

// Valid reports whether s is one of the three known states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProceeds, StatusDoesNotProceed:
		return true
	}
	return false
}

// ParseStatus converts raw input into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Client is a customer that files service requests.
type Client struct {
	ID    int64
	Name  string
	Email string
	Phone string
}

// ServiceRequest is a request for service filed by a Client.
type ServiceRequest struct {
	ID          int64
	ClientID    int64
	Description string
	Status      Status
	Channel     string
	CreatedAt   time.Time
}

// PreliminaryQuote is the first cost estimate attached to a ServiceRequest.
// A request has at most one.
type PreliminaryQuote struct {
	ID              int64
	RequestID       int64
	EstimatedAmount decimal.Decimal
	Parameters      map[string]any
}
