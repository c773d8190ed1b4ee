package domain

import (
	"context"
	"time"

	"github.com/alumnihq/alumnihq/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, event *Event) error
	Update(ctx context.Context, db *gorm.DB, event *Event) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Event, error)
	ListUpcoming(ctx context.Context, db *gorm.DB, now time.Time, page pagination.Pagination) ([]Event, int64, error)
	ListBetween(ctx context.Context, db *gorm.DB, status EventStatus, from, to time.Time) ([]Event, error)
	CountUpcoming(ctx context.Context, db *gorm.DB, now time.Time) (int64, error)

	InsertRSVP(ctx context.Context, db *gorm.DB, rsvp *EventRSVP) error
	UpdateRSVP(ctx context.Context, db *gorm.DB, rsvp *EventRSVP) error
	FindRSVP(ctx context.Context, db *gorm.DB, eventID, alumniID snowflake.ID) (*EventRSVP, error)
	CountGoing(ctx context.Context, db *gorm.DB, eventID snowflake.ID) (int64, error)
	ListGoingAttendees(ctx context.Context, db *gorm.DB, eventID snowflake.ID) ([]Attendee, error)
}
