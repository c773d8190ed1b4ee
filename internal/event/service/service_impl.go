package service

import (
	"context"
	"strings"
	"time"

	alumnidomain "github.com/alumnihq/alumnihq/internal/alumni/domain"
	"github.com/alumnihq/alumnihq/internal/clock"
	"github.com/alumnihq/alumnihq/internal/event/domain"
	dbpkg "github.com/alumnihq/alumnihq/pkg/db"
	"github.com/alumnihq/alumnihq/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"github.com/lib/pq"
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
		log:        p.Log.Named("event.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		alumniRepo: p.AlumniRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateEventRequest) (domain.Event, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Event{}, domain.ErrInvalidName
	}

	now := s.clock.Now()
	if !req.EventDate.After(now) {
		return domain.Event{}, domain.ErrEventDateInPast
	}

	event := domain.Event{
		ID:          s.genID.Generate(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		EventDate:   req.EventDate,
		Venue:       strings.TrimSpace(req.Venue),
		EventImage:  strings.TrimSpace(req.EventImage),
		MaxCapacity: req.MaxCapacity,
		Status:      domain.EventStatusUpcoming,
		Tags:        pq.StringArray(req.Tags),
		Metadata:    datatypes.JSONMap(req.Metadata),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateEventRequest) (domain.Event, error) {
	eventID, err := parseID(id)
	if err != nil {
		return domain.Event{}, domain.ErrEventNotFound
	}

	event, err := s.repo.FindByID(ctx, s.db, eventID)
	if err != nil {
		return domain.Event{}, err
	}
	if event == nil {
		return domain.Event{}, domain.ErrEventNotFound
	}

	now := s.clock.Now()
	if v := strings.TrimSpace(req.Name); v != "" {
		event.Name = v
	}
	if v := strings.TrimSpace(req.Description); v != "" {
		event.Description = v
	}
	if !req.EventDate.IsZero() {
		if !req.EventDate.After(now) {
			return domain.Event{}, domain.ErrEventDateInPast
		}
		event.EventDate = req.EventDate
	}
	if v := strings.TrimSpace(req.Venue); v != "" {
		event.Venue = v
	}
	if v := strings.TrimSpace(req.EventImage); v != "" {
		event.EventImage = v
	}
	if req.MaxCapacity != 0 {
		event.MaxCapacity = req.MaxCapacity
	}
	if req.Metadata != nil {
		event.Metadata = datatypes.JSONMap(req.Metadata)
	}
	event.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, event); err != nil {
		return domain.Event{}, err
	}
	return *event, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Event, error) {
	eventID, err := parseID(id)
	if err != nil {
		return domain.Event{}, domain.ErrEventNotFound
	}
	event, err := s.repo.FindByID(ctx, s.db, eventID)
	if err != nil {
		return domain.Event{}, err
	}
	if event == nil {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return *event, nil
}

func (s *Service) ListUpcoming(ctx context.Context, req domain.ListUpcomingRequest) (domain.ListUpcomingResponse, error) {
	page := req.Page.Clamp()
	events, total, err := s.repo.ListUpcoming(ctx, s.db, s.clock.Now(), page)
	if err != nil {
		return domain.ListUpcomingResponse{}, err
	}
	return domain.ListUpcomingResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Events:   events,
	}, nil
}

// RSVP upserts the caller's response inside one transaction. New Going
// responses are blocked once the event's capacity is reached; the unique
// (event, alumni) index backs up the existence check under races.
func (s *Service) RSVP(ctx context.Context, req domain.RSVPRequest) (domain.RSVPResponse, error) {
	if !domain.ValidResponseStatus(req.ResponseStatus) {
		return domain.RSVPResponse{}, domain.ErrInvalidResponseStatus
	}
	if req.Guests < 0 {
		return domain.RSVPResponse{}, domain.ErrInvalidGuests
	}

	eventID, err := parseID(req.EventID)
	if err != nil {
		return domain.RSVPResponse{}, domain.ErrEventNotFound
	}

	alumni, err := s.alumniRepo.FindByEmail(ctx, s.db, alumnidomain.NormalizeEmail(req.CallerEmail))
	if err != nil {
		return domain.RSVPResponse{}, err
	}
	if alumni == nil {
		return domain.RSVPResponse{}, alumnidomain.ErrProfileNotFound
	}

	var resp domain.RSVPResponse
	now := s.clock.Now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := s.repo.FindByID(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if event == nil {
			return domain.ErrEventNotFound
		}
		if event.Status == domain.EventStatusCancelled {
			return domain.ErrEventCancelled
		}

		existing, err := s.repo.FindRSVP(ctx, tx, eventID, alumni.ID)
		if err != nil {
			return err
		}

		if existing != nil {
			if err := s.checkCapacity(ctx, tx, event, existing.ResponseStatus, req.ResponseStatus); err != nil {
				return err
			}
			existing.ResponseStatus = req.ResponseStatus
			existing.Guests = req.Guests
			existing.UpdatedAt = now
			if err := s.repo.UpdateRSVP(ctx, tx, existing); err != nil {
				return err
			}
			resp.RSVP = *existing
		} else {
			if err := s.checkCapacity(ctx, tx, event, "", req.ResponseStatus); err != nil {
				return err
			}
			rsvp := domain.EventRSVP{
				ID:             s.genID.Generate(),
				EventID:        eventID,
				AlumniID:       alumni.ID,
				ResponseStatus: req.ResponseStatus,
				Guests:         req.Guests,
				RSVPDate:       now,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := s.repo.InsertRSVP(ctx, tx, &rsvp); err != nil {
				if dbpkg.IsDuplicateKeyErr(err) {
					return domain.ErrEventFull
				}
				return err
			}
			resp.RSVP = rsvp
			resp.Created = true
		}

		return s.refreshRSVPCount(ctx, tx, event, now, &resp)
	})
	if err != nil {
		return domain.RSVPResponse{}, err
	}
	return resp, nil
}

// checkCapacity rejects responses that would push the count of Going RSVPs
// past the event's capacity. Changing an existing Going response never
// trips the check.
func (s *Service) checkCapacity(ctx context.Context, tx *gorm.DB, event *domain.Event, previous, next domain.ResponseStatus) error {
	if event.MaxCapacity <= 0 {
		return nil
	}
	if next != domain.ResponseGoing || previous == domain.ResponseGoing {
		return nil
	}
	going, err := s.repo.CountGoing(ctx, tx, event.ID)
	if err != nil {
		return err
	}
	if going >= int64(event.MaxCapacity) {
		return domain.ErrEventFull
	}
	return nil
}

// refreshRSVPCount rewrites the cached Going count on the parent event.
func (s *Service) refreshRSVPCount(ctx context.Context, tx *gorm.DB, event *domain.Event, now time.Time, resp *domain.RSVPResponse) error {
	going, err := s.repo.CountGoing(ctx, tx, event.ID)
	if err != nil {
		return err
	}
	event.RSVPCount = int(going)
	event.UpdatedAt = now
	if err := s.repo.Update(ctx, tx, event); err != nil {
		return err
	}
	resp.RSVPCount = event.RSVPCount
	return nil
}

func (s *Service) Cancel(ctx context.Context, id string) error {
	eventID, err := parseID(id)
	if err != nil {
		return domain.ErrEventNotFound
	}
	event, err := s.repo.FindByID(ctx, s.db, eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return domain.ErrEventNotFound
	}
	if event.Status == domain.EventStatusCancelled {
		return nil
	}

	event.Status = domain.EventStatusCancelled
	event.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, s.db, event)
}

func (s *Service) ListUpcomingBetween(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	return s.repo.ListBetween(ctx, s.db, domain.EventStatusUpcoming, from, to)
}

func (s *Service) ListGoingAttendees(ctx context.Context, id string) ([]domain.Attendee, error) {
	eventID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrEventNotFound
	}
	return s.repo.ListGoingAttendees(ctx, s.db, eventID)
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
