package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	alumnidomain "github.com/alumnihq/alumnihq/internal/alumni/domain"
	"github.com/alumnihq/alumnihq/internal/clock"
	"github.com/alumnihq/alumnihq/internal/donation/domain"
	"github.com/alumnihq/alumnihq/internal/providers/email"
	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
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
	Email      email.Provider
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	alumniRepo alumnidomain.Repository
	email      email.Provider
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("donation.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		alumniRepo: p.AlumniRepo,
		email:      p.Email,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateDonationRequest) (domain.Donation, error) {
	if req.Amount <= 0 {
		return domain.Donation{}, domain.ErrInvalidAmount
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	now := s.clock.Now()
	donation := domain.Donation{
		ID:         s.genID.Generate(),
		DonorName:  strings.TrimSpace(req.DonorName),
		DonorEmail: alumnidomain.NormalizeEmail(req.DonorEmail),
		Amount:     req.Amount,
		Currency:   currency,
		Purpose:    strings.TrimSpace(req.Purpose),
		Reference:  "DON-" + uuid.NewString(),
		Status:     domain.DonationStatusPending,
		Metadata:   datatypes.JSONMap(req.Metadata),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// An authenticated caller must resolve to a profile; a guest donates
	// with the contact fields alone.
	if req.CallerEmail != "" {
		alumni, err := s.alumniRepo.FindByEmail(ctx, s.db, alumnidomain.NormalizeEmail(req.CallerEmail))
		if err != nil {
			return domain.Donation{}, err
		}
		if alumni == nil {
			return domain.Donation{}, alumnidomain.ErrProfileNotFound
		}
		alumniID := alumni.ID
		donation.AlumniID = &alumniID
		if donation.DonorName == "" {
			donation.DonorName = alumni.FirstName
		}
		if donation.DonorEmail == "" {
			donation.DonorEmail = alumni.Email
		}
	}

	if err := s.repo.Insert(ctx, s.db, &donation); err != nil {
		return domain.Donation{}, err
	}

	// Receipt goes out once the row is committed; a mail failure never
	// rolls the donation back.
	s.sendReceipt(ctx, &donation)
	return donation, nil
}

// Complete settles a pending donation. Completing twice is a no-op.
func (s *Service) Complete(ctx context.Context, reference string) (domain.Donation, error) {
	donation, err := s.repo.FindByReference(ctx, s.db, strings.TrimSpace(reference))
	if err != nil {
		return domain.Donation{}, err
	}
	if donation == nil {
		return domain.Donation{}, domain.ErrDonationNotFound
	}
	if donation.Status == domain.DonationStatusCompleted {
		return *donation, nil
	}

	donation.Status = domain.DonationStatusCompleted
	donation.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, donation); err != nil {
		return domain.Donation{}, err
	}
	return *donation, nil
}

func (s *Service) sendReceipt(ctx context.Context, donation *domain.Donation) {
	if donation.DonorEmail == "" {
		s.log.Info("skipping donation receipt, no donor email",
			zap.String("reference", donation.Reference))
		return
	}

	err := s.email.SendTemplate(ctx, []string{donation.DonorEmail}, "donation_receipt", map[string]any{
		"donor_name": donation.DonorName,
		"amount":     fmt.Sprintf("%s %.2f", donation.Currency, donation.Amount),
		"purpose":    donation.Purpose,
		"reference":  donation.Reference,
	})
	if err != nil {
		s.log.Warn("failed to send donation receipt",
			zap.String("reference", donation.Reference), zap.Error(err))
	}
}

func (s *Service) Stats(ctx context.Context) (domain.DonationStats, error) {
	return s.repo.AggregateCompleted(ctx, s.db)
}

func (s *Service) ListByAlumni(ctx context.Context, callerEmail string) ([]domain.Donation, error) {
	alumni, err := s.alumniRepo.FindByEmail(ctx, s.db, alumnidomain.NormalizeEmail(callerEmail))
	if err != nil {
		return nil, err
	}
	if alumni == nil {
		return nil, alumnidomain.ErrProfileNotFound
	}
	return s.repo.ListByAlumni(ctx, s.db, alumni.ID)
}

func (s *Service) CompletedBetween(ctx context.Context, from, to time.Time) (domain.MonthlyTotal, error) {
	return s.repo.SumCompletedBetween(ctx, s.db, from, to)
}
