package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, donation *Donation) error
	Update(ctx context.Context, db *gorm.DB, donation *Donation) error
	FindByReference(ctx context.Context, db *gorm.DB, reference string) (*Donation, error)
	ListByAlumni(ctx context.Context, db *gorm.DB, alumniID snowflake.ID) ([]Donation, error)
	AggregateCompleted(ctx context.Context, db *gorm.DB) (DonationStats, error)
	SumCompletedBetween(ctx context.Context, db *gorm.DB, from, to time.Time) (MonthlyTotal, error)
}
