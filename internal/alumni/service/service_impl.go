package service

import (
	"context"
	"strings"

	"github.com/alumnihq/alumnihq/internal/alumni/domain"
	"github.com/alumnihq/alumnihq/internal/clock"
	"github.com/alumnihq/alumnihq/internal/providers/email"
	dbpkg "github.com/alumnihq/alumnihq/pkg/db"
	"github.com/alumnihq/alumnihq/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
	Email email.Provider
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
	email email.Provider
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("alumni.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		email: p.Email,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (domain.Alumni, error) {
	addr := domain.NormalizeEmail(req.Email)
	if !domain.IsValidEmail(addr) {
		return domain.Alumni{}, domain.ErrInvalidEmail
	}

	firstName := strings.TrimSpace(req.FirstName)
	if firstName == "" {
		return domain.Alumni{}, domain.ErrInvalidName
	}

	existing, err := s.repo.FindByEmail(ctx, s.db, addr)
	if err != nil {
		return domain.Alumni{}, err
	}
	if existing != nil {
		return domain.Alumni{}, domain.ErrAlumniExists
	}

	now := s.clock.Now()
	alumni := domain.Alumni{
		ID:        s.genID.Generate(),
		Email:     addr,
		FirstName: firstName,
		LastName:  strings.TrimSpace(req.LastName),
		BatchYear: req.BatchYear,
		Course:    strings.TrimSpace(req.Course),
		Company:   strings.TrimSpace(req.Company),
		JobTitle:  strings.TrimSpace(req.JobTitle),
		Phone:     strings.TrimSpace(req.Phone),
		Location:  strings.TrimSpace(req.Location),
		Status:    domain.AlumniStatusActive,
		JoinedOn:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &alumni); err != nil {
		// The unique index on email closes the race between the existence
		// check above and the insert.
		if dbpkg.IsDuplicateKeyErr(err) {
			return domain.Alumni{}, domain.ErrAlumniExists
		}
		return domain.Alumni{}, err
	}

	s.sendWelcome(ctx, alumni)

	return alumni, nil
}

func (s *Service) sendWelcome(ctx context.Context, alumni domain.Alumni) {
	err := s.email.SendTemplate(ctx, []string{alumni.Email}, "welcome", map[string]any{
		"first_name": alumni.FirstName,
	})
	if err != nil {
		s.log.Warn("welcome email failed",
			zap.String("email", alumni.Email),
			zap.Error(err),
		)
	}
}

func (s *Service) GetByEmail(ctx context.Context, addr string) (domain.Alumni, error) {
	alumni, err := s.repo.FindByEmail(ctx, s.db, domain.NormalizeEmail(addr))
	if err != nil {
		return domain.Alumni{}, err
	}
	if alumni == nil {
		return domain.Alumni{}, domain.ErrProfileNotFound
	}
	return *alumni, nil
}

func (s *Service) UpdateProfile(ctx context.Context, addr string, req domain.UpdateProfileRequest) (domain.Alumni, error) {
	alumni, err := s.repo.FindByEmail(ctx, s.db, domain.NormalizeEmail(addr))
	if err != nil {
		return domain.Alumni{}, err
	}
	if alumni == nil {
		return domain.Alumni{}, domain.ErrProfileNotFound
	}

	applyProfileUpdate(alumni, req)
	alumni.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, alumni); err != nil {
		return domain.Alumni{}, err
	}
	return *alumni, nil
}

// applyProfileUpdate copies only the supplied fields; zero values leave the
// stored value untouched.
func applyProfileUpdate(alumni *domain.Alumni, req domain.UpdateProfileRequest) {
	if v := strings.TrimSpace(req.FirstName); v != "" {
		alumni.FirstName = v
	}
	if v := strings.TrimSpace(req.LastName); v != "" {
		alumni.LastName = v
	}
	if req.BatchYear != 0 {
		alumni.BatchYear = req.BatchYear
	}
	if v := strings.TrimSpace(req.Course); v != "" {
		alumni.Course = v
	}
	if v := strings.TrimSpace(req.Company); v != "" {
		alumni.Company = v
	}
	if v := strings.TrimSpace(req.JobTitle); v != "" {
		alumni.JobTitle = v
	}
	if v := strings.TrimSpace(req.Bio); v != "" {
		alumni.Bio = v
	}
	if v := strings.TrimSpace(req.Phone); v != "" {
		alumni.Phone = v
	}
	if v := strings.TrimSpace(req.Location); v != "" {
		alumni.Location = v
	}
	if v := strings.TrimSpace(req.LinkedinURL); v != "" {
		alumni.LinkedinURL = v
	}
	if v := strings.TrimSpace(req.ProfilePicture); v != "" {
		alumni.ProfilePicture = v
	}
}

func (s *Service) Search(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error) {
	page := req.Page.Clamp()
	filter := domain.SearchFilter{
		Query:     strings.TrimSpace(req.Query),
		BatchYear: req.BatchYear,
		Course:    strings.TrimSpace(req.Course),
		Company:   strings.TrimSpace(req.Company),
	}

	results, total, err := s.repo.Search(ctx, s.db, filter, page)
	if err != nil {
		return domain.SearchResponse{}, err
	}

	return domain.SearchResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Results:  results,
	}, nil
}

func (s *Service) Deactivate(ctx context.Context, addr string) error {
	alumni, err := s.repo.FindByEmail(ctx, s.db, domain.NormalizeEmail(addr))
	if err != nil {
		return err
	}
	if alumni == nil {
		return domain.ErrProfileNotFound
	}
	if alumni.Status == domain.AlumniStatusInactive {
		return nil
	}

	alumni.Status = domain.AlumniStatusInactive
	alumni.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, s.db, alumni)
}
