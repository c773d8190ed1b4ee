package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alumnihq/alumnihq/internal/wallpost/domain"
	"github.com/alumnihq/alumnihq/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, post *domain.WallPost) error {
	return db.WithContext(ctx).Create(post).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, post *domain.WallPost) error {
	return db.WithContext(ctx).Save(post).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.WallPost, error) {
	var post domain.WallPost
	err := db.WithContext(ctx).Where("id = ?", id).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.WallPost{}).Error
}

func (r *repo) Feed(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]domain.FeedItem, int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.WallPost{}).
		Where("status = ?", domain.PostStatusPublished).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var items []domain.FeedItem
	err = db.WithContext(ctx).
		Table("wall_posts").
		Select("wall_posts.*, " +
			"alumni.first_name || ' ' || alumni.last_name AS author_name, " +
			"alumni.batch_year AS author_batch_year, " +
			"alumni.company AS author_company, " +
			"alumni.profile_picture AS author_picture").
		Joins("JOIN alumni ON alumni.id = wall_posts.alumni_id").
		Where("wall_posts.status = ?", domain.PostStatusPublished).
		Order("wall_posts.published_on desc").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Scan(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) DeleteArchivedBefore(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", domain.PostStatusArchived, cutoff).
		Delete(&domain.WallPost{})
	return res.RowsAffected, res.Error
}

func (r *repo) CountPublishedSince(ctx context.Context, db *gorm.DB, since time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.WallPost{}).
		Where("status = ? AND published_on >= ?", domain.PostStatusPublished, since).
		Count(&count).Error
	return count, err
}

func (r *repo) CountByStatus(ctx context.Context, db *gorm.DB, status domain.PostStatus) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.WallPost{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *repo) InsertLike(ctx context.Context, db *gorm.DB, like *domain.WallPostLike) error {
	return db.WithContext(ctx).Create(like).Error
}

func (r *repo) DeleteLike(ctx context.Context, db *gorm.DB, postID, alumniID snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).
		Where("post_id = ? AND alumni_id = ?", postID, alumniID).
		Delete(&domain.WallPostLike{})
	return res.RowsAffected, res.Error
}

func (r *repo) DeleteLikesForPost(ctx context.Context, db *gorm.DB, postID snowflake.ID) error {
	return db.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&domain.WallPostLike{}).Error
}
