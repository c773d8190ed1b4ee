package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, membership *Membership) error
	Update(ctx context.Context, db *gorm.DB, membership *Membership) error
	FindLatestByAlumni(ctx context.Context, db *gorm.DB, alumniID snowflake.ID) (*Membership, error)
	ExpireOverdue(ctx context.Context, db *gorm.DB, today time.Time) (int64, error)
	ListExpiringBetween(ctx context.Context, db *gorm.DB, from, to time.Time) ([]Membership, error)
}
