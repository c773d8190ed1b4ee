package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	alumnidomain "github.com/alumnihq/alumnihq/internal/alumni/domain"
	"github.com/alumnihq/alumnihq/internal/clock"
	dashboarddomain "github.com/alumnihq/alumnihq/internal/dashboard/domain"
	eventdomain "github.com/alumnihq/alumnihq/internal/event/domain"
	membershipdomain "github.com/alumnihq/alumnihq/internal/membership/domain"
	"github.com/alumnihq/alumnihq/internal/metrics"
	"github.com/alumnihq/alumnihq/internal/providers/email"
	wallpostdomain "github.com/alumnihq/alumnihq/internal/wallpost/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrInvalidConfig = errors.New("scheduler: invalid configuration")

// Archived posts older than this are purged by retention_cleanup.
const retentionWindow = 365 * 24 * time.Hour

// Expiry notices go out this many days before the membership lapses.
const expiryNoticeLeadDays = 7

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	Clock         clock.Clock
	Email         email.Provider
	EventSvc      eventdomain.Service
	MembershipSvc membershipdomain.Service
	WallPostSvc   wallpostdomain.Service
	DashboardSvc  dashboarddomain.Service
	AlumniRepo    alumnidomain.Repository
	Config        Config `optional:"true"`
}

type Scheduler struct {
	db            *gorm.DB
	log           *zap.Logger
	cfg           Config
	clock         clock.Clock
	email         email.Provider
	eventSvc      eventdomain.Service
	membershipSvc membershipdomain.Service
	wallPostSvc   wallpostdomain.Service
	dashboardSvc  dashboarddomain.Service
	alumniRepo    alumnidomain.Repository
}

func New(p Params) (*Scheduler, error) {
	if p.DB == nil || p.Log == nil || p.Clock == nil || p.Email == nil ||
		p.EventSvc == nil || p.MembershipSvc == nil || p.WallPostSvc == nil ||
		p.DashboardSvc == nil || p.AlumniRepo == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		db:            p.DB,
		log:           p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:           p.Config.withDefaults(),
		clock:         p.Clock,
		email:         p.Email,
		eventSvc:      p.EventSvc,
		membershipSvc: p.MembershipSvc,
		wallPostSvc:   p.WallPostSvc,
		dashboardSvc:  p.DashboardSvc,
		alumniRepo:    p.AlumniRepo,
	}, nil
}

func (s *Scheduler) runJob(
	parent context.Context,
	name string,
	timeout time.Duration,
	fn func(ctx context.Context) error,
) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	log := s.log.With(zap.String("job", name))
	metrics.IncJobRun(name)

	err := fn(ctx)
	metrics.ObserveJobDuration(name, time.Since(start))
	if err == nil {
		return nil
	}

	metrics.IncJobError(name)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		log.Warn("job timed out",
			zap.Duration("timeout", timeout),
			zap.Error(err),
		)
		return nil
	}

	return fmt.Errorf("%s: %w", name, err)
}

func (s *Scheduler) RunOnce(parent context.Context) error {
	var err error

	jobs := []struct {
		Name    string
		Timeout time.Duration
		Run     func(context.Context) error
	}{
		{"event_reminders", 30 * time.Second, s.EventRemindersJob},
		{"membership_expiry", 30 * time.Second, s.MembershipExpiryJob},
		{"membership_expiry_notice", 30 * time.Second, s.MembershipExpiryNoticeJob},
		{"pending_posts_notice", 30 * time.Second, s.PendingPostsJob},
		{"monthly_digest", 5 * time.Minute, s.MonthlyDigestJob},
		{"retention_cleanup", 30 * time.Second, s.RetentionCleanupJob},
	}

	for _, job := range jobs {
		if s.isJobEnabled(job.Name) {
			err = errors.Join(err, s.runJob(parent, job.Name, job.Timeout, job.Run))
		}
	}

	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) isJobEnabled(jobName string) bool {
	// If EnabledJobs is empty, all jobs are enabled by default (monolith mode)
	if len(s.cfg.EnabledJobs) == 0 {
		return true
	}
	for _, enabled := range s.cfg.EnabledJobs {
		if strings.EqualFold(enabled, jobName) {
			return true
		}
	}
	return false
}

// EventRemindersJob mails everyone who responded Going to an event taking
// place tomorrow.
func (s *Scheduler) EventRemindersJob(ctx context.Context) error {
	now := s.clock.Now()
	from := startOfDay(now.AddDate(0, 0, 1))
	to := from.AddDate(0, 0, 1)

	events, err := s.eventSvc.ListUpcomingBetween(ctx, from, to)
	if err != nil {
		return err
	}

	var jobErr error
	for _, event := range events {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		attendees, err := s.eventSvc.ListGoingAttendees(ctx, event.ID.String())
		if err != nil {
			jobErr = errors.Join(jobErr, err)
			continue
		}

		for _, attendee := range attendees {
			err := s.email.SendTemplate(ctx, []string{attendee.Email}, "event_reminder", map[string]any{
				"first_name": attendee.FirstName,
				"event_name": event.Name,
				"event_date": event.EventDate.Format("Monday, January 2, 2006 at 3:04 PM"),
				"venue":      event.Venue,
			})
			if err != nil {
				jobErr = errors.Join(jobErr, err)
				s.log.Warn("failed to send event reminder",
					zap.String("event_id", event.ID.String()),
					zap.String("to", attendee.Email),
					zap.Error(err),
				)
			}
		}

		s.log.Info("event reminders sent",
			zap.String("event_id", event.ID.String()),
			zap.Int("attendees", len(attendees)),
		)
	}

	return jobErr
}

// MembershipExpiryJob sweeps Active memberships whose expiry date has passed.
func (s *Scheduler) MembershipExpiryJob(ctx context.Context) error {
	expired, err := s.membershipSvc.ExpireOverdue(ctx, s.clock.Now())
	if err != nil {
		return err
	}
	if expired > 0 {
		s.log.Info("memberships expired", zap.Int64("count", expired))
	}
	return nil
}

// MembershipExpiryNoticeJob warns members whose membership lapses in exactly
// seven days.
func (s *Scheduler) MembershipExpiryNoticeJob(ctx context.Context) error {
	day := s.clock.Now().AddDate(0, 0, expiryNoticeLeadDays)
	memberships, err := s.membershipSvc.ListExpiringOn(ctx, day)
	if err != nil {
		return err
	}

	var jobErr error
	for _, membership := range memberships {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if membership.ExpiryDate == nil {
			continue
		}

		alumni, err := s.alumniRepo.FindByID(ctx, s.db, membership.AlumniID)
		if err != nil {
			jobErr = errors.Join(jobErr, err)
			continue
		}
		if alumni == nil {
			continue
		}

		err = s.email.SendTemplate(ctx, []string{alumni.Email}, "membership_expiry", map[string]any{
			"first_name":      alumni.FirstName,
			"membership_type": string(membership.MembershipType),
			"expiry_date":     membership.ExpiryDate.Format("January 2, 2006"),
		})
		if err != nil {
			jobErr = errors.Join(jobErr, err)
			s.log.Warn("failed to send expiry notice",
				zap.String("to", alumni.Email),
				zap.Error(err),
			)
		}
	}

	return jobErr
}

// MonthlyDigestJob mails every active member a summary of the trailing
// thirty days. Runs whenever enabled; operators gate it to a monthly cadence
// through EnabledJobs on a dedicated scheduler deployment.
func (s *Scheduler) MonthlyDigestJob(ctx context.Context) error {
	stats, err := s.dashboardSvc.MonthlyStats(ctx)
	if err != nil {
		return err
	}
	overview, err := s.dashboardSvc.Overview(ctx)
	if err != nil {
		return err
	}

	emails, err := s.alumniRepo.ListActiveEmails(ctx, s.db)
	if err != nil {
		return err
	}

	var jobErr error
	sent := 0
	for _, to := range emails {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := s.email.SendTemplate(ctx, []string{to}, "monthly_digest", map[string]any{
			"new_alumni":      stats.NewMembers,
			"new_posts":       stats.PostsPublished,
			"upcoming_events": overview.UpcomingEvents,
			"donation_total":  fmt.Sprintf("%.2f", stats.DonationTotal),
		})
		if err != nil {
			jobErr = errors.Join(jobErr, err)
			continue
		}
		sent++
	}

	s.log.Info("monthly digest sent", zap.Int("recipients", sent))
	return jobErr
}

// PendingPostsJob tells the operator mailbox how many drafts are sitting
// unpublished on the wall.
func (s *Scheduler) PendingPostsJob(ctx context.Context) error {
	if s.cfg.AdminEmail == "" {
		return nil
	}

	pending, err := s.wallPostSvc.CountDrafts(ctx)
	if err != nil {
		return err
	}
	if pending == 0 {
		return nil
	}

	err = s.email.SendTemplate(ctx, []string{s.cfg.AdminEmail}, "pending_posts", map[string]any{
		"pending_count": pending,
	})
	if err != nil {
		return err
	}

	s.log.Info("pending posts notice sent", zap.Int64("pending", pending))
	return nil
}

// RetentionCleanupJob purges archived posts past the retention window.
func (s *Scheduler) RetentionCleanupJob(ctx context.Context) error {
	cutoff := s.clock.Now().Add(-retentionWindow)
	deleted, err := s.wallPostSvc.DeleteArchivedBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.log.Info("archived posts purged", zap.Int64("count", deleted))
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
