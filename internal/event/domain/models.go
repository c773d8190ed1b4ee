package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "Upcoming"
	EventStatusOngoing   EventStatus = "Ongoing"
	EventStatusCompleted EventStatus = "Completed"
	EventStatusCancelled EventStatus = "Cancelled"
)

type ResponseStatus string

const (
	ResponseGoing    ResponseStatus = "Going"
	ResponseMaybe    ResponseStatus = "Maybe"
	ResponseNotGoing ResponseStatus = "Not Going"
)

type Event struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name        string            `gorm:"not null" json:"name"`
	Description string            `json:"description"`
	EventDate   time.Time         `gorm:"not null;index" json:"event_date"`
	Venue       string            `json:"venue"`
	EventImage  string            `json:"event_image"`
	MaxCapacity int               `json:"max_capacity"` // 0 means unlimited
	RSVPCount   int               `gorm:"not null;default:0" json:"rsvp_count"`
	Status      EventStatus       `gorm:"not null;default:Upcoming" json:"status"`
	Tags        pq.StringArray    `gorm:"type:text[]" json:"tags,omitempty"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null" json:"updated_at"`
}

func (Event) TableName() string { return "events" }

type EventRSVP struct {
	ID             snowflake.ID   `gorm:"primaryKey" json:"id"`
	EventID        snowflake.ID   `gorm:"not null;uniqueIndex:idx_event_alumni" json:"event_id"`
	AlumniID       snowflake.ID   `gorm:"not null;uniqueIndex:idx_event_alumni" json:"alumni_id"`
	ResponseStatus ResponseStatus `gorm:"not null" json:"response_status"`
	Guests         int            `gorm:"not null;default:0" json:"guests"`
	RSVPDate       time.Time      `gorm:"not null" json:"rsvp_date"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
}

func (EventRSVP) TableName() string { return "event_rsvps" }

func ValidResponseStatus(status ResponseStatus) bool {
	switch status {
	case ResponseGoing, ResponseMaybe, ResponseNotGoing:
		return true
	default:
		return false
	}
}
