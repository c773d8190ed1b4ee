package domain

import "context"

type Overview struct {
	ActiveAlumni    int64   `json:"active_alumni"`
	PublishedPosts  int64   `json:"published_posts"`
	TotalDonations  float64 `json:"total_donations"`
	UpcomingEvents  int64   `json:"upcoming_events"`
	DonationCount   int64   `json:"donation_count"`
	AverageDonation float64 `json:"average_donation"`
}

// MonthlyStats covers the trailing 30 days.
type MonthlyStats struct {
	NewMembers     int64   `json:"new_members"`
	PostsPublished int64   `json:"posts_published"`
	DonationTotal  float64 `json:"donation_total"`
	DonationCount  int64   `json:"donation_count"`
}

type Service interface {
	Overview(ctx context.Context) (Overview, error)
	MonthlyStats(ctx context.Context) (MonthlyStats, error)
}
