package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type MembershipType string

const (
	MembershipTypeFree     MembershipType = "Free"
	MembershipTypePremium  MembershipType = "Premium"
	MembershipTypeLifetime MembershipType = "Lifetime"
)

type MembershipStatus string

const (
	MembershipStatusActive  MembershipStatus = "Active"
	MembershipStatusExpired MembershipStatus = "Expired"
)

type Membership struct {
	ID             snowflake.ID     `gorm:"primaryKey" json:"id"`
	AlumniID       snowflake.ID     `gorm:"not null;index" json:"alumni_id"`
	MembershipType MembershipType   `gorm:"not null" json:"membership_type"`
	StartDate      time.Time        `gorm:"not null" json:"start_date"`
	ExpiryDate     *time.Time       `json:"expiry_date,omitempty"`
	Status         MembershipStatus `gorm:"not null;default:Active" json:"status"`
	CreatedAt      time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"not null" json:"updated_at"`
}

func (Membership) TableName() string { return "memberships" }

// ComputeExpiry derives the expiry date from the membership type:
// Lifetime memberships never expire, Premium runs 365 days and Free 30 days
// from the start date.
func ComputeExpiry(membershipType MembershipType, start time.Time) *time.Time {
	switch membershipType {
	case MembershipTypeLifetime:
		return nil
	case MembershipTypePremium:
		expiry := start.AddDate(0, 0, 365)
		return &expiry
	case MembershipTypeFree:
		expiry := start.AddDate(0, 0, 30)
		return &expiry
	default:
		return nil
	}
}

func ValidType(membershipType MembershipType) bool {
	switch membershipType {
	case MembershipTypeFree, MembershipTypePremium, MembershipTypeLifetime:
		return true
	default:
		return false
	}
}
