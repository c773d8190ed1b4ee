package domain

import (
	"context"
	"errors"
	"time"

	"github.com/alumnihq/alumnihq/pkg/db/pagination"
)

var (
	ErrPostNotFound = errors.New("post_not_found")
	ErrInvalidTitle = errors.New("invalid_title")
	ErrPostLocked   = errors.New("post_locked")
	ErrAlreadyLiked = errors.New("already_liked")
	ErrNotOwner     = errors.New("not_post_owner")
)

type CreatePostRequest struct {
	CallerEmail string `json:"-"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Image       string `json:"image"`
}

// UpdatePostRequest has partial semantics: empty fields are left alone.
type UpdatePostRequest struct {
	CallerEmail string `json:"-"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Image       string `json:"image"`
}

// FeedItem is a published post enriched with its author's display fields.
type FeedItem struct {
	WallPost
	AuthorName      string `json:"author_name"`
	AuthorBatchYear int    `json:"author_batch_year,omitempty"`
	AuthorCompany   string `json:"author_company,omitempty"`
	AuthorPicture   string `json:"author_picture,omitempty"`
}

type FeedRequest struct {
	Page pagination.Pagination
}

type FeedResponse struct {
	pagination.PageInfo
	Posts []FeedItem `json:"posts"`
}

type LikeResponse struct {
	PostID     string `json:"post_id"`
	LikesCount int    `json:"likes_count"`
}

type Service interface {
	Create(ctx context.Context, req CreatePostRequest) (WallPost, error)
	Update(ctx context.Context, id string, req UpdatePostRequest) (WallPost, error)
	Publish(ctx context.Context, id, callerEmail string) (WallPost, error)
	Archive(ctx context.Context, id, callerEmail string) (WallPost, error)
	Delete(ctx context.Context, id, callerEmail string) error
	Feed(ctx context.Context, req FeedRequest) (FeedResponse, error)
	Like(ctx context.Context, id, callerEmail string) (LikeResponse, error)
	Unlike(ctx context.Context, id, callerEmail string) (LikeResponse, error)

	// Scheduler support.
	DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	CountPublishedSince(ctx context.Context, since time.Time) (int64, error)
	CountDrafts(ctx context.Context) (int64, error)
}
