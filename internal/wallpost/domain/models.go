package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type PostStatus string

const (
	PostStatusDraft     PostStatus = "Draft"
	PostStatusPublished PostStatus = "Published"
	PostStatusArchived  PostStatus = "Archived"
)

type WallPost struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	AlumniID    snowflake.ID `gorm:"not null;index" json:"alumni_id"`
	Title       string       `gorm:"not null" json:"title"`
	Slug        string       `gorm:"index" json:"slug"`
	Content     string       `json:"content"`
	Image       string       `json:"image,omitempty"`
	Status      PostStatus   `gorm:"not null;index" json:"status"`
	LikesCount  int          `gorm:"not null;default:0" json:"likes_count"`
	PublishedOn *time.Time   `json:"published_on,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (WallPost) TableName() string {
	return "wall_posts"
}

type WallPostLike struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	PostID   snowflake.ID `gorm:"not null;uniqueIndex:idx_post_alumni" json:"post_id"`
	AlumniID snowflake.ID `gorm:"not null;uniqueIndex:idx_post_alumni" json:"alumni_id"`
	LikedOn  time.Time    `gorm:"not null" json:"liked_on"`
}

func (WallPostLike) TableName() string {
	return "wall_post_likes"
}
