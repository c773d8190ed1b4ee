package domain

import (
	"context"
	"errors"
	"time"

	"github.com/alumnihq/alumnihq/pkg/db/pagination"
)

var (
	ErrEventNotFound         = errors.New("event_not_found")
	ErrEventDateInPast       = errors.New("event_date_in_past")
	ErrEventFull             = errors.New("event_full")
	ErrEventCancelled        = errors.New("event_cancelled")
	ErrInvalidName           = errors.New("invalid_event_name")
	ErrInvalidResponseStatus = errors.New("invalid_response_status")
	ErrInvalidGuests         = errors.New("invalid_guests")
)

type CreateEventRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	EventDate   time.Time      `json:"event_date"`
	Venue       string         `json:"venue"`
	EventImage  string         `json:"event_image"`
	MaxCapacity int            `json:"max_capacity"`
	Tags        []string       `json:"tags"`
	Metadata    map[string]any `json:"metadata"`
}

// UpdateEventRequest has partial semantics: zero values are ignored.
type UpdateEventRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	EventDate   time.Time      `json:"event_date"`
	Venue       string         `json:"venue"`
	EventImage  string         `json:"event_image"`
	MaxCapacity int            `json:"max_capacity"`
	Metadata    map[string]any `json:"metadata"`
}

type RSVPRequest struct {
	CallerEmail    string         `json:"-"`
	EventID        string         `json:"-"`
	ResponseStatus ResponseStatus `json:"response_status"`
	Guests         int            `json:"guests"`
}

type RSVPResponse struct {
	RSVP      EventRSVP `json:"rsvp"`
	RSVPCount int       `json:"rsvp_count"`
	Created   bool      `json:"created"`
}

type ListUpcomingRequest struct {
	Page pagination.Pagination
}

type ListUpcomingResponse struct {
	pagination.PageInfo
	Events []Event `json:"events"`
}

// Attendee pairs a Going RSVP with its holder's contact details, for
// reminder mail.
type Attendee struct {
	Email     string
	FirstName string
}

type Service interface {
	Create(ctx context.Context, req CreateEventRequest) (Event, error)
	Update(ctx context.Context, id string, req UpdateEventRequest) (Event, error)
	GetByID(ctx context.Context, id string) (Event, error)
	ListUpcoming(ctx context.Context, req ListUpcomingRequest) (ListUpcomingResponse, error)
	RSVP(ctx context.Context, req RSVPRequest) (RSVPResponse, error)
	Cancel(ctx context.Context, id string) error

	// Scheduler support.
	ListUpcomingBetween(ctx context.Context, from, to time.Time) ([]Event, error)
	ListGoingAttendees(ctx context.Context, eventID string) ([]Attendee, error)
}
