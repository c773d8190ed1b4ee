package service

import (
	"context"
	"time"

	alumnidomain "github.com/alumnihq/alumnihq/internal/alumni/domain"
	"github.com/alumnihq/alumnihq/internal/clock"
	"github.com/alumnihq/alumnihq/internal/membership/domain"
	"github.com/bwmarrin/snowflake"
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
		log:        p.Log.Named("membership.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		alumniRepo: p.AlumniRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateMembershipRequest) (domain.Membership, error) {
	if !domain.ValidType(req.MembershipType) {
		return domain.Membership{}, domain.ErrInvalidType
	}

	alumni, err := s.alumniRepo.FindByEmail(ctx, s.db, alumnidomain.NormalizeEmail(req.CallerEmail))
	if err != nil {
		return domain.Membership{}, err
	}
	if alumni == nil {
		return domain.Membership{}, alumnidomain.ErrProfileNotFound
	}

	now := s.clock.Now()
	start := req.StartDate
	if start.IsZero() {
		start = now
	}

	membership := domain.Membership{
		ID:             s.genID.Generate(),
		AlumniID:       alumni.ID,
		MembershipType: req.MembershipType,
		StartDate:      start,
		ExpiryDate:     domain.ComputeExpiry(req.MembershipType, start),
		Status:         domain.MembershipStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, &membership); err != nil {
		return domain.Membership{}, err
	}
	return membership, nil
}

func (s *Service) Status(ctx context.Context, callerEmail string) (domain.MembershipStatusResponse, error) {
	alumni, err := s.alumniRepo.FindByEmail(ctx, s.db, alumnidomain.NormalizeEmail(callerEmail))
	if err != nil {
		return domain.MembershipStatusResponse{}, err
	}
	if alumni == nil {
		return domain.MembershipStatusResponse{}, alumnidomain.ErrProfileNotFound
	}

	membership, err := s.repo.FindLatestByAlumni(ctx, s.db, alumni.ID)
	if err != nil {
		return domain.MembershipStatusResponse{}, err
	}
	if membership == nil {
		return domain.MembershipStatusResponse{HasMembership: false}, nil
	}

	// Reading the status is enough to settle it: an overdue Active
	// membership flips to Expired as part of the same operation.
	now := s.clock.Now()
	if membership.Status == domain.MembershipStatusActive &&
		membership.ExpiryDate != nil && membership.ExpiryDate.Before(now) {
		membership.Status = domain.MembershipStatusExpired
		membership.UpdatedAt = now
		if err := s.repo.Update(ctx, s.db, membership); err != nil {
			return domain.MembershipStatusResponse{}, err
		}
	}

	return domain.MembershipStatusResponse{
		HasMembership:  true,
		MembershipType: membership.MembershipType,
		Status:         membership.Status,
		ExpiryDate:     membership.ExpiryDate,
	}, nil
}

func (s *Service) ExpireOverdue(ctx context.Context, today time.Time) (int64, error) {
	return s.repo.ExpireOverdue(ctx, s.db, today)
}

func (s *Service) ListExpiringOn(ctx context.Context, day time.Time) ([]domain.Membership, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return s.repo.ListExpiringBetween(ctx, s.db, from, from.AddDate(0, 0, 1))
}
