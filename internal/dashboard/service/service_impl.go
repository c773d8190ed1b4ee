package service

import (
	"context"

	alumnidomain "github.com/alumnihq/alumnihq/internal/alumni/domain"
	"github.com/alumnihq/alumnihq/internal/clock"
	"github.com/alumnihq/alumnihq/internal/dashboard/domain"
	donationdomain "github.com/alumnihq/alumnihq/internal/donation/domain"
	eventdomain "github.com/alumnihq/alumnihq/internal/event/domain"
	wallpostdomain "github.com/alumnihq/alumnihq/internal/wallpost/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Clock        clock.Clock
	AlumniRepo   alumnidomain.Repository
	WallPostRepo wallpostdomain.Repository
	DonationRepo donationdomain.Repository
	EventRepo    eventdomain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	clock        clock.Clock
	alumniRepo   alumnidomain.Repository
	wallPostRepo wallpostdomain.Repository
	donationRepo donationdomain.Repository
	eventRepo    eventdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("dashboard.service"),
		clock:        p.Clock,
		alumniRepo:   p.AlumniRepo,
		wallPostRepo: p.WallPostRepo,
		donationRepo: p.DonationRepo,
		eventRepo:    p.EventRepo,
	}
}

func (s *Service) Overview(ctx context.Context) (domain.Overview, error) {
	activeAlumni, err := s.alumniRepo.CountByStatus(ctx, s.db, alumnidomain.AlumniStatusActive)
	if err != nil {
		return domain.Overview{}, err
	}

	publishedPosts, err := s.wallPostRepo.CountByStatus(ctx, s.db, wallpostdomain.PostStatusPublished)
	if err != nil {
		return domain.Overview{}, err
	}

	donations, err := s.donationRepo.AggregateCompleted(ctx, s.db)
	if err != nil {
		return domain.Overview{}, err
	}

	upcomingEvents, err := s.eventRepo.CountUpcoming(ctx, s.db, s.clock.Now())
	if err != nil {
		return domain.Overview{}, err
	}

	return domain.Overview{
		ActiveAlumni:    activeAlumni,
		PublishedPosts:  publishedPosts,
		TotalDonations:  donations.TotalAmount,
		UpcomingEvents:  upcomingEvents,
		DonationCount:   donations.DonationCount,
		AverageDonation: donations.AverageAmount,
	}, nil
}

func (s *Service) MonthlyStats(ctx context.Context) (domain.MonthlyStats, error) {
	now := s.clock.Now()
	since := now.AddDate(0, 0, -30)

	newMembers, err := s.alumniRepo.CountJoinedSince(ctx, s.db, since)
	if err != nil {
		return domain.MonthlyStats{}, err
	}

	postsPublished, err := s.wallPostRepo.CountPublishedSince(ctx, s.db, since)
	if err != nil {
		return domain.MonthlyStats{}, err
	}

	donations, err := s.donationRepo.SumCompletedBetween(ctx, s.db, since, now)
	if err != nil {
		return domain.MonthlyStats{}, err
	}

	return domain.MonthlyStats{
		NewMembers:     newMembers,
		PostsPublished: postsPublished,
		DonationTotal:  donations.Total,
		DonationCount:  donations.Count,
	}, nil
}
