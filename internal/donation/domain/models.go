package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "Pending"
	DonationStatusCompleted DonationStatus = "Completed"
	DonationStatusFailed    DonationStatus = "Failed"
)

// Donation records a pledge from a member or a guest. AlumniID is nil for
// guest donations; donor contact fields are always populated when known.
type Donation struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	AlumniID   *snowflake.ID     `gorm:"index" json:"alumni_id,omitempty"`
	DonorName  string            `json:"donor_name"`
	DonorEmail string            `json:"donor_email"`
	Amount     float64           `gorm:"not null" json:"amount"`
	Currency   string            `gorm:"not null" json:"currency"`
	Purpose    string            `json:"purpose"`
	Reference  string            `gorm:"uniqueIndex" json:"reference"`
	Status     DonationStatus    `gorm:"not null" json:"status"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func (Donation) TableName() string {
	return "donations"
}
