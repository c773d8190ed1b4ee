package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidType        = errors.New("invalid_membership_type")
	ErrMembershipNotFound = errors.New("membership_not_found")
)

type CreateMembershipRequest struct {
	CallerEmail    string         `json:"-"`
	MembershipType MembershipType `json:"membership_type"`
	StartDate      time.Time      `json:"start_date"`
}

type MembershipStatusResponse struct {
	HasMembership  bool             `json:"has_membership"`
	MembershipType MembershipType   `json:"type,omitempty"`
	Status         MembershipStatus `json:"status,omitempty"`
	ExpiryDate     *time.Time       `json:"expiry_date,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateMembershipRequest) (Membership, error)
	Status(ctx context.Context, callerEmail string) (MembershipStatusResponse, error)

	// ExpireOverdue flips Active memberships whose expiry date has passed,
	// returning how many rows changed. Used by the scheduler sweep.
	ExpireOverdue(ctx context.Context, today time.Time) (int64, error)
	// ListExpiringOn returns Active memberships expiring on the given day.
	ListExpiringOn(ctx context.Context, day time.Time) ([]Membership, error)
}
