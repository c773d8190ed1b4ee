package domain

import (
	"context"
	"time"

	"github.com/alumnihq/alumnihq/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, alumni *Alumni) error
	Update(ctx context.Context, db *gorm.DB, alumni *Alumni) error
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*Alumni, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Alumni, error)
	Search(ctx context.Context, db *gorm.DB, filter SearchFilter, page pagination.Pagination) ([]Alumni, int64, error)
	ListActiveEmails(ctx context.Context, db *gorm.DB) ([]string, error)
	CountJoinedSince(ctx context.Context, db *gorm.DB, since time.Time) (int64, error)
	CountByStatus(ctx context.Context, db *gorm.DB, status AlumniStatus) (int64, error)
}
