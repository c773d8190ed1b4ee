package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alumnihq/alumnihq/internal/donation/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, donation *domain.Donation) error {
	return db.WithContext(ctx).Create(donation).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, donation *domain.Donation) error {
	return db.WithContext(ctx).Save(donation).Error
}

func (r *repo) FindByReference(ctx context.Context, db *gorm.DB, reference string) (*domain.Donation, error) {
	var donation domain.Donation
	err := db.WithContext(ctx).Where("reference = ?", reference).First(&donation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *repo) ListByAlumni(ctx context.Context, db *gorm.DB, alumniID snowflake.ID) ([]domain.Donation, error) {
	var donations []domain.Donation
	err := db.WithContext(ctx).
		Where("alumni_id = ?", alumniID).
		Order("created_at desc").
		Find(&donations).Error
	if err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *repo) AggregateCompleted(ctx context.Context, db *gorm.DB) (domain.DonationStats, error) {
	var row struct {
		TotalAmount   float64
		DonationCount int64
	}
	err := db.WithContext(ctx).
		Model(&domain.Donation{}).
		Select("COALESCE(SUM(amount), 0) AS total_amount, COUNT(*) AS donation_count").
		Where("status = ?", domain.DonationStatusCompleted).
		Scan(&row).Error
	if err != nil {
		return domain.DonationStats{}, err
	}

	stats := domain.DonationStats{
		TotalAmount:   row.TotalAmount,
		DonationCount: row.DonationCount,
	}
	if row.DonationCount > 0 {
		stats.AverageAmount = row.TotalAmount / float64(row.DonationCount)
	}
	return stats, nil
}

func (r *repo) SumCompletedBetween(ctx context.Context, db *gorm.DB, from, to time.Time) (domain.MonthlyTotal, error) {
	var row struct {
		Total float64
		Count int64
	}
	err := db.WithContext(ctx).
		Model(&domain.Donation{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("status = ? AND updated_at >= ? AND updated_at < ?", domain.DonationStatusCompleted, from, to).
		Scan(&row).Error
	if err != nil {
		return domain.MonthlyTotal{}, err
	}
	return domain.MonthlyTotal{Total: row.Total, Count: row.Count}, nil
}
