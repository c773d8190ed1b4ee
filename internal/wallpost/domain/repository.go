package domain

import (
	"context"
	"time"

	"github.com/alumnihq/alumnihq/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, post *WallPost) error
	Update(ctx context.Context, db *gorm.DB, post *WallPost) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*WallPost, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	Feed(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]FeedItem, int64, error)
	DeleteArchivedBefore(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error)
	CountPublishedSince(ctx context.Context, db *gorm.DB, since time.Time) (int64, error)
	CountByStatus(ctx context.Context, db *gorm.DB, status PostStatus) (int64, error)

	InsertLike(ctx context.Context, db *gorm.DB, like *WallPostLike) error
	DeleteLike(ctx context.Context, db *gorm.DB, postID, alumniID snowflake.ID) (int64, error)
	DeleteLikesForPost(ctx context.Context, db *gorm.DB, postID snowflake.ID) error
}
