package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrDonationNotFound = errors.New("donation_not_found")
)

const DefaultCurrency = "USD"

// CreateDonationRequest carries an optional caller identity. Guests donate
// with CallerEmail empty and their contact details in the body. CallerEmail
// is set by the transport from the verified identity header and never binds
// from the request body.
type CreateDonationRequest struct {
	CallerEmail string `json:"-"`
	DonorName   string         `json:"donor_name"`
	DonorEmail  string         `json:"donor_email"`
	Amount      float64        `json:"amount"`
	Currency    string         `json:"currency"`
	Purpose     string         `json:"purpose"`
	Metadata    map[string]any `json:"metadata"`
}

type DonationStats struct {
	TotalAmount   float64 `json:"total_amount"`
	DonationCount int64   `json:"donation_count"`
	AverageAmount float64 `json:"average_amount"`
}

type MonthlyTotal struct {
	Total float64
	Count int64
}

type Service interface {
	Create(ctx context.Context, req CreateDonationRequest) (Donation, error)
	Complete(ctx context.Context, reference string) (Donation, error)
	Stats(ctx context.Context) (DonationStats, error)
	ListByAlumni(ctx context.Context, callerEmail string) ([]Donation, error)

	// Scheduler support.
	CompletedBetween(ctx context.Context, from, to time.Time) (MonthlyTotal, error)
}
