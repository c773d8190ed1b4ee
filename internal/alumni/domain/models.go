package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type AlumniStatus string

const (
	AlumniStatusActive   AlumniStatus = "Active"
	AlumniStatusInactive AlumniStatus = "Inactive"
)

type Alumni struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	Email          string       `gorm:"uniqueIndex;not null" json:"email"`
	FirstName      string       `gorm:"not null" json:"first_name"`
	LastName       string       `json:"last_name"`
	BatchYear      int          `gorm:"index" json:"batch_year"`
	Course         string       `gorm:"index" json:"course"`
	Company        string       `json:"company"`
	JobTitle       string       `json:"job_title"`
	Bio            string       `json:"bio"`
	Phone          string       `json:"phone"`
	Location       string       `json:"location"`
	LinkedinURL    string       `json:"linkedin_url"`
	ProfilePicture string       `json:"profile_picture"`
	Status         AlumniStatus `gorm:"not null;default:Active" json:"status"`
	JoinedOn       time.Time    `gorm:"not null" json:"joined_on"`
	CreatedAt      time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null" json:"updated_at"`
}

func (Alumni) TableName() string { return "alumni" }

func (a Alumni) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}
