package service

import (
	"context"
	"strings"
	"time"

	alumnidomain "github.com/alumnihq/alumnihq/internal/alumni/domain"
	"github.com/alumnihq/alumnihq/internal/clock"
	"github.com/alumnihq/alumnihq/internal/wallpost/domain"
	dbpkg "github.com/alumnihq/alumnihq/pkg/db"
	"github.com/alumnihq/alumnihq/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	AlumniRepo alumnidomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	alumniRepo alumnidomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("wallpost.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		alumniRepo: p.AlumniRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePostRequest) (domain.WallPost, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.WallPost{}, domain.ErrInvalidTitle
	}

	author, err := s.resolveCaller(ctx, req.CallerEmail)
	if err != nil {
		return domain.WallPost{}, err
	}

	now := s.clock.Now()
	post := domain.WallPost{
		ID:        s.genID.Generate(),
		AlumniID:  author.ID,
		Title:     title,
		Slug:      slug.Make(title),
		Content:   req.Content,
		Image:     strings.TrimSpace(req.Image),
		Status:    domain.PostStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &post); err != nil {
		return domain.WallPost{}, err
	}
	return post, nil
}

// Update only applies to drafts. Once a post is published or archived its
// content is locked.
func (s *Service) Update(ctx context.Context, id string, req domain.UpdatePostRequest) (domain.WallPost, error) {
	post, err := s.ownedPost(ctx, id, req.CallerEmail)
	if err != nil {
		return domain.WallPost{}, err
	}
	if post.Status != domain.PostStatusDraft {
		return domain.WallPost{}, domain.ErrPostLocked
	}

	if v := strings.TrimSpace(req.Title); v != "" {
		post.Title = v
		post.Slug = slug.Make(v)
	}
	if req.Content != "" {
		post.Content = req.Content
	}
	if v := strings.TrimSpace(req.Image); v != "" {
		post.Image = v
	}
	post.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, post); err != nil {
		return domain.WallPost{}, err
	}
	return *post, nil
}

// Publish flips a post to Published. The published_on timestamp is set on
// the first publish only and never moves afterwards.
func (s *Service) Publish(ctx context.Context, id, callerEmail string) (domain.WallPost, error) {
	post, err := s.ownedPost(ctx, id, callerEmail)
	if err != nil {
		return domain.WallPost{}, err
	}

	now := s.clock.Now()
	post.Status = domain.PostStatusPublished
	if post.PublishedOn == nil {
		post.PublishedOn = &now
	}
	post.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, post); err != nil {
		return domain.WallPost{}, err
	}
	return *post, nil
}

func (s *Service) Archive(ctx context.Context, id, callerEmail string) (domain.WallPost, error) {
	post, err := s.ownedPost(ctx, id, callerEmail)
	if err != nil {
		return domain.WallPost{}, err
	}

	post.Status = domain.PostStatusArchived
	post.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, post); err != nil {
		return domain.WallPost{}, err
	}
	return *post, nil
}

// Delete removes the post and its likes in one transaction.
func (s *Service) Delete(ctx context.Context, id, callerEmail string) error {
	post, err := s.ownedPost(ctx, id, callerEmail)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.DeleteLikesForPost(ctx, tx, post.ID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, post.ID)
	})
}

func (s *Service) Feed(ctx context.Context, req domain.FeedRequest) (domain.FeedResponse, error) {
	page := req.Page.Clamp()
	items, total, err := s.repo.Feed(ctx, s.db, page)
	if err != nil {
		return domain.FeedResponse{}, err
	}
	return domain.FeedResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Posts:    items,
	}, nil
}

// Like records the caller's like and bumps the cached count. The unique
// (post, alumni) index rejects a second like from the same caller.
func (s *Service) Like(ctx context.Context, id, callerEmail string) (domain.LikeResponse, error) {
	caller, err := s.resolveCaller(ctx, callerEmail)
	if err != nil {
		return domain.LikeResponse{}, err
	}
	postID, err := parseID(id)
	if err != nil {
		return domain.LikeResponse{}, domain.ErrPostNotFound
	}

	var resp domain.LikeResponse
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := s.repo.FindByID(ctx, tx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return domain.ErrPostNotFound
		}

		like := domain.WallPostLike{
			ID:       s.genID.Generate(),
			PostID:   postID,
			AlumniID: caller.ID,
			LikedOn:  s.clock.Now(),
		}
		if err := s.repo.InsertLike(ctx, tx, &like); err != nil {
			if dbpkg.IsDuplicateKeyErr(err) {
				return domain.ErrAlreadyLiked
			}
			return err
		}

		post.LikesCount++
		post.UpdatedAt = s.clock.Now()
		if err := s.repo.Update(ctx, tx, post); err != nil {
			return err
		}

		resp = domain.LikeResponse{PostID: post.ID.String(), LikesCount: post.LikesCount}
		return nil
	})
	if err != nil {
		return domain.LikeResponse{}, err
	}
	return resp, nil
}

// Unlike is idempotent: removing a like that does not exist leaves the
// count alone, and the count never drops below zero.
func (s *Service) Unlike(ctx context.Context, id, callerEmail string) (domain.LikeResponse, error) {
	caller, err := s.resolveCaller(ctx, callerEmail)
	if err != nil {
		return domain.LikeResponse{}, err
	}
	postID, err := parseID(id)
	if err != nil {
		return domain.LikeResponse{}, domain.ErrPostNotFound
	}

	var resp domain.LikeResponse
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := s.repo.FindByID(ctx, tx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return domain.ErrPostNotFound
		}

		removed, err := s.repo.DeleteLike(ctx, tx, postID, caller.ID)
		if err != nil {
			return err
		}
		if removed > 0 && post.LikesCount > 0 {
			post.LikesCount--
			post.UpdatedAt = s.clock.Now()
			if err := s.repo.Update(ctx, tx, post); err != nil {
				return err
			}
		}

		resp = domain.LikeResponse{PostID: post.ID.String(), LikesCount: post.LikesCount}
		return nil
	})
	if err != nil {
		return domain.LikeResponse{}, err
	}
	return resp, nil
}

func (s *Service) DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.repo.DeleteArchivedBefore(ctx, s.db, cutoff)
}

func (s *Service) CountPublishedSince(ctx context.Context, since time.Time) (int64, error) {
	return s.repo.CountPublishedSince(ctx, s.db, since)
}

func (s *Service) CountDrafts(ctx context.Context) (int64, error) {
	return s.repo.CountByStatus(ctx, s.db, domain.PostStatusDraft)
}

func (s *Service) resolveCaller(ctx context.Context, email string) (*alumnidomain.Alumni, error) {
	caller, err := s.alumniRepo.FindByEmail(ctx, s.db, alumnidomain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if caller == nil {
		return nil, alumnidomain.ErrProfileNotFound
	}
	return caller, nil
}

func (s *Service) ownedPost(ctx context.Context, id, callerEmail string) (*domain.WallPost, error) {
	caller, err := s.resolveCaller(ctx, callerEmail)
	if err != nil {
		return nil, err
	}
	postID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}
	post, err := s.repo.FindByID(ctx, s.db, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, domain.ErrPostNotFound
	}
	if post.AlumniID != caller.ID {
		return nil, domain.ErrNotOwner
	}
	return post, nil
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
