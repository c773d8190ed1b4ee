package domain

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/alumnihq/alumnihq/pkg/db/pagination"
)

var (
	ErrAlumniExists    = errors.New("alumni_exists")
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrInvalidName     = errors.New("invalid_name")
	ErrProfileNotFound = errors.New("profile_not_found")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IsValidEmail reports whether the address matches local@domain.tld with a
// TLD of at least two letters.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// Addresses are always stored normalized.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type RegisterRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BatchYear int    `json:"batch_year"`
	Course    string `json:"course"`
	Company   string `json:"company"`
	JobTitle  string `json:"job_title"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
}

// UpdateProfileRequest applies partial update semantics: zero-valued fields
// are left untouched.
type UpdateProfileRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	BatchYear      int    `json:"batch_year"`
	Course         string `json:"course"`
	Company        string `json:"company"`
	JobTitle       string `json:"job_title"`
	Bio            string `json:"bio"`
	Phone          string `json:"phone"`
	Location       string `json:"location"`
	LinkedinURL    string `json:"linkedin_url"`
	ProfilePicture string `json:"profile_picture"`
}

type SearchRequest struct {
	Query     string
	BatchYear int
	Course    string
	Company   string
	Page      pagination.Pagination
}

type SearchFilter struct {
	Query     string
	BatchYear int
	Course    string
	Company   string
}

type SearchResponse struct {
	pagination.PageInfo
	Results []Alumni `json:"results"`
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (Alumni, error)
	GetByEmail(ctx context.Context, email string) (Alumni, error)
	UpdateProfile(ctx context.Context, email string, req UpdateProfileRequest) (Alumni, error)
	Search(ctx context.Context, req SearchRequest) (SearchResponse, error)
	Deactivate(ctx context.Context, email string) error
}
