package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alumnihq/alumnihq/internal/membership/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, membership *domain.Membership) error {
	return db.WithContext(ctx).Create(membership).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, membership *domain.Membership) error {
	return db.WithContext(ctx).Save(membership).Error
}

func (r *repo) FindLatestByAlumni(ctx context.Context, db *gorm.DB, alumniID snowflake.ID) (*domain.Membership, error) {
	var membership domain.Membership
	err := db.WithContext(ctx).
		Where("alumni_id = ?", alumniID).
		Order("start_date desc, id desc").
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *repo) ExpireOverdue(ctx context.Context, db *gorm.DB, today time.Time) (int64, error) {
	result := db.WithContext(ctx).
		Model(&domain.Membership{}).
		Where("status = ? AND expiry_date IS NOT NULL AND expiry_date < ?", domain.MembershipStatusActive, today).
		Updates(map[string]any{
			"status":     domain.MembershipStatusExpired,
			"updated_at": today,
		})
	return result.RowsAffected, result.Error
}

func (r *repo) ListExpiringBetween(ctx context.Context, db *gorm.DB, from, to time.Time) ([]domain.Membership, error) {
	var memberships []domain.Membership
	err := db.WithContext(ctx).
		Where("status = ? AND expiry_date >= ? AND expiry_date < ?", domain.MembershipStatusActive, from, to).
		Order("expiry_date asc").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}
