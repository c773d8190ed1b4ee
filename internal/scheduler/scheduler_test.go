package scheduler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	alumnirepo "github.com/alumnihq/alumnihq/internal/alumni/repository"
	"github.com/alumnihq/alumnihq/internal/clock"
	dashboardservice "github.com/alumnihq/alumnihq/internal/dashboard/service"
	donationrepo "github.com/alumnihq/alumnihq/internal/donation/repository"
	eventdomain "github.com/alumnihq/alumnihq/internal/event/domain"
	eventrepo "github.com/alumnihq/alumnihq/internal/event/repository"
	eventservice "github.com/alumnihq/alumnihq/internal/event/service"
	membershipdomain "github.com/alumnihq/alumnihq/internal/membership/domain"
	membershiprepo "github.com/alumnihq/alumnihq/internal/membership/repository"
	membershipservice "github.com/alumnihq/alumnihq/internal/membership/service"
	wallpostdomain "github.com/alumnihq/alumnihq/internal/wallpost/domain"
	wallpostrepo "github.com/alumnihq/alumnihq/internal/wallpost/repository"
	wallpostservice "github.com/alumnihq/alumnihq/internal/wallpost/service"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type sentMail struct {
	To       []string
	Template string
	Data     map[string]any
}

type capturingEmail struct {
	mu   sync.Mutex
	sent []sentMail
}

func (c *capturingEmail) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, sentMail{To: to})
	return nil
}

func (c *capturingEmail) SendTemplate(ctx context.Context, to []string, templateName string, data map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, sentMail{To: to, Template: templateName, Data: data})
	return nil
}

func (c *capturingEmail) byTemplate(name string) []sentMail {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []sentMail
	for _, m := range c.sent {
		if m.Template == name {
			out = append(out, m)
		}
	}
	return out
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	schema := []string{
		`CREATE TABLE alumni (
			id BIGINT PRIMARY KEY,
			email TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT,
			batch_year INTEGER,
			course TEXT,
			company TEXT,
			job_title TEXT,
			bio TEXT,
			phone TEXT,
			location TEXT,
			linkedin_url TEXT,
			profile_picture TEXT,
			status TEXT NOT NULL DEFAULT 'Active',
			joined_on TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE UNIQUE INDEX idx_alumni_email ON alumni (email)`,
		`CREATE TABLE memberships (
			id BIGINT PRIMARY KEY,
			alumni_id BIGINT NOT NULL,
			membership_type TEXT NOT NULL,
			start_date TIMESTAMP NOT NULL,
			expiry_date TIMESTAMP,
			status TEXT NOT NULL DEFAULT 'Active',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE events (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			event_date TIMESTAMP NOT NULL,
			venue TEXT,
			event_image TEXT,
			max_capacity INTEGER NOT NULL DEFAULT 0,
			rsvp_count INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'Upcoming',
			tags TEXT,
			metadata TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE event_rsvps (
			id BIGINT PRIMARY KEY,
			event_id BIGINT NOT NULL,
			alumni_id BIGINT NOT NULL,
			response_status TEXT NOT NULL,
			guests INTEGER NOT NULL DEFAULT 0,
			rsvp_date TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE UNIQUE INDEX idx_event_alumni ON event_rsvps (event_id, alumni_id)`,
		`CREATE TABLE donations (
			id BIGINT PRIMARY KEY,
			alumni_id BIGINT,
			donor_name TEXT,
			donor_email TEXT,
			amount DOUBLE PRECISION NOT NULL,
			currency TEXT NOT NULL,
			purpose TEXT,
			reference TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'Pending',
			metadata TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE UNIQUE INDEX idx_donations_reference ON donations (reference)`,
		`CREATE TABLE wall_posts (
			id BIGINT PRIMARY KEY,
			alumni_id BIGINT NOT NULL,
			title TEXT NOT NULL,
			slug TEXT,
			content TEXT,
			image TEXT,
			status TEXT NOT NULL DEFAULT 'Draft',
			likes_count INTEGER NOT NULL DEFAULT 0,
			published_on TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE wall_post_likes (
			id BIGINT PRIMARY KEY,
			post_id BIGINT NOT NULL,
			alumni_id BIGINT NOT NULL,
			liked_on TIMESTAMP NOT NULL
		)`,
		`CREATE UNIQUE INDEX idx_post_alumni ON wall_post_likes (post_id, alumni_id)`,
	}
	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

type fixture struct {
	db            *gorm.DB
	fc            *clock.FakeClock
	mail          *capturingEmail
	sched         *Scheduler
	node          *snowflake.Node
	eventSvc      eventdomain.Service
	membershipSvc membershipdomain.Service
	wallPostSvc   wallpostdomain.Service
}

func newFixture(t *testing.T, start time.Time, enabledJobs ...string) *fixture {
	t.Helper()

	db := setupTestDB(t)
	fc := clock.NewFakeClock(start)
	log := zaptest.NewLogger(t)
	mail := &capturingEmail{}

	node, err := snowflake.NewNode(20)
	require.NoError(t, err)

	alumniRepo := alumnirepo.Provide()

	eventSvc := eventservice.New(eventservice.Params{
		DB: db, Log: log, GenID: node, Clock: fc,
		Repo: eventrepo.Provide(), AlumniRepo: alumniRepo,
	})
	membershipSvc := membershipservice.New(membershipservice.Params{
		DB: db, Log: log, GenID: node, Clock: fc,
		Repo: membershiprepo.Provide(), AlumniRepo: alumniRepo,
	})
	wallPostSvc := wallpostservice.New(wallpostservice.Params{
		DB: db, Log: log, GenID: node, Clock: fc,
		Repo: wallpostrepo.Provide(), AlumniRepo: alumniRepo,
	})
	dashboardSvc := dashboardservice.New(dashboardservice.Params{
		DB: db, Log: log, Clock: fc,
		AlumniRepo:   alumniRepo,
		WallPostRepo: wallpostrepo.Provide(),
		DonationRepo: donationrepo.Provide(),
		EventRepo:    eventrepo.Provide(),
	})

	sched, err := New(Params{
		DB:            db,
		Log:           log,
		Clock:         fc,
		Email:         mail,
		EventSvc:      eventSvc,
		MembershipSvc: membershipSvc,
		WallPostSvc:   wallPostSvc,
		DashboardSvc:  dashboardSvc,
		AlumniRepo:    alumniRepo,
		Config:        Config{EnabledJobs: enabledJobs},
	})
	require.NoError(t, err)

	return &fixture{
		db:            db,
		fc:            fc,
		mail:          mail,
		sched:         sched,
		node:          node,
		eventSvc:      eventSvc,
		membershipSvc: membershipSvc,
		wallPostSvc:   wallPostSvc,
	}
}

func (f *fixture) seedAlumni(t *testing.T, email string) {
	t.Helper()
	now := f.fc.Now()
	require.NoError(t, f.db.Exec(
		`INSERT INTO alumni (id, email, first_name, status, joined_on, created_at, updated_at) VALUES (?, ?, ?, 'Active', ?, ?, ?)`,
		f.node.Generate(), email, "Member", now, now, now,
	).Error)
}

func TestEventRemindersJob(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, start, "event_reminders")

	f.seedAlumni(t, "going@example.com")
	f.seedAlumni(t, "maybe@example.com")

	// One event tomorrow, one next week. Only tomorrow's Going attendee
	// gets a reminder.
	tomorrow, err := f.eventSvc.Create(ctx, eventdomain.CreateEventRequest{
		Name:      "Tomorrow Meetup",
		EventDate: start.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	nextWeek, err := f.eventSvc.Create(ctx, eventdomain.CreateEventRequest{
		Name:      "Next Week Meetup",
		EventDate: start.AddDate(0, 0, 7),
	})
	require.NoError(t, err)

	_, err = f.eventSvc.RSVP(ctx, eventdomain.RSVPRequest{
		CallerEmail: "going@example.com", EventID: tomorrow.ID.String(),
		ResponseStatus: eventdomain.ResponseGoing,
	})
	require.NoError(t, err)
	_, err = f.eventSvc.RSVP(ctx, eventdomain.RSVPRequest{
		CallerEmail: "maybe@example.com", EventID: tomorrow.ID.String(),
		ResponseStatus: eventdomain.ResponseMaybe,
	})
	require.NoError(t, err)
	_, err = f.eventSvc.RSVP(ctx, eventdomain.RSVPRequest{
		CallerEmail: "going@example.com", EventID: nextWeek.ID.String(),
		ResponseStatus: eventdomain.ResponseGoing,
	})
	require.NoError(t, err)

	require.NoError(t, f.sched.RunOnce(ctx))

	reminders := f.mail.byTemplate("event_reminder")
	require.Len(t, reminders, 1)
	assert.Equal(t, []string{"going@example.com"}, reminders[0].To)
	assert.Equal(t, "Tomorrow Meetup", reminders[0].Data["event_name"])
}

func TestMembershipExpiryJobs(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(t, start, "membership_expiry", "membership_expiry_notice")

	f.seedAlumni(t, "member@example.com")

	_, err := f.membershipSvc.Create(ctx, membershipdomain.CreateMembershipRequest{
		CallerEmail:    "member@example.com",
		MembershipType: membershipdomain.MembershipTypeFree,
		StartDate:      start,
	})
	require.NoError(t, err)

	// 23 days in: the free membership expires on day 30, exactly seven
	// days out, so the notice goes out but nothing is expired yet.
	f.fc.Advance(23 * 24 * time.Hour)
	require.NoError(t, f.sched.RunOnce(ctx))

	notices := f.mail.byTemplate("membership_expiry")
	require.Len(t, notices, 1)
	assert.Equal(t, []string{"member@example.com"}, notices[0].To)

	status, err := f.membershipSvc.Status(ctx, "member@example.com")
	require.NoError(t, err)
	assert.Equal(t, membershipdomain.MembershipStatusActive, status.Status)

	// Past the expiry date the sweep flips it.
	f.fc.Advance(10 * 24 * time.Hour)
	require.NoError(t, f.sched.RunOnce(ctx))

	var dbStatus string
	require.NoError(t, f.db.Raw(`SELECT status FROM memberships`).Scan(&dbStatus).Error)
	assert.Equal(t, string(membershipdomain.MembershipStatusExpired), dbStatus)
}

func TestRetentionCleanupJob(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(t, start, "retention_cleanup")

	f.seedAlumni(t, "author@example.com")

	post, err := f.wallPostSvc.Create(ctx, wallpostdomain.CreatePostRequest{
		CallerEmail: "author@example.com",
		Title:       "Old News",
	})
	require.NoError(t, err)
	_, err = f.wallPostSvc.Archive(ctx, post.ID.String(), "author@example.com")
	require.NoError(t, err)

	keep, err := f.wallPostSvc.Create(ctx, wallpostdomain.CreatePostRequest{
		CallerEmail: "author@example.com",
		Title:       "Recent News",
	})
	require.NoError(t, err)

	// Just shy of the window nothing is purged.
	f.fc.Advance(364 * 24 * time.Hour)
	require.NoError(t, f.sched.RunOnce(ctx))
	var count int64
	require.NoError(t, f.db.Raw(`SELECT COUNT(1) FROM wall_posts`).Scan(&count).Error)
	assert.Equal(t, int64(2), count)

	// Past it the archived post goes; drafts are untouched.
	f.fc.Advance(2 * 24 * time.Hour)
	require.NoError(t, f.sched.RunOnce(ctx))
	require.NoError(t, f.db.Raw(`SELECT COUNT(1) FROM wall_posts`).Scan(&count).Error)
	assert.Equal(t, int64(1), count)

	var remaining string
	require.NoError(t, f.db.Raw(`SELECT title FROM wall_posts`).Scan(&remaining).Error)
	assert.Equal(t, keep.Title, remaining)
}

func TestJobGating(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(t, start, "membership_expiry")

	assert.True(t, f.sched.isJobEnabled("membership_expiry"))
	assert.True(t, f.sched.isJobEnabled("MEMBERSHIP_EXPIRY"))
	assert.False(t, f.sched.isJobEnabled("monthly_digest"))

	all := newFixture(t, start)
	assert.True(t, all.sched.isJobEnabled("monthly_digest"))
	assert.True(t, all.sched.isJobEnabled("retention_cleanup"))
}

func TestPendingPostsJob(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(t, start, "pending_posts_notice")
	f.sched.cfg.AdminEmail = "ops@example.com"

	f.seedAlumni(t, "author@example.com")

	// Nothing in Draft, nothing to report.
	require.NoError(t, f.sched.RunOnce(ctx))
	assert.Empty(t, f.mail.byTemplate("pending_posts"))

	_, err := f.wallPostSvc.Create(ctx, wallpostdomain.CreatePostRequest{
		CallerEmail: "author@example.com",
		Title:       "Waiting For Review",
	})
	require.NoError(t, err)
	published, err := f.wallPostSvc.Create(ctx, wallpostdomain.CreatePostRequest{
		CallerEmail: "author@example.com",
		Title:       "Already Out",
	})
	require.NoError(t, err)
	_, err = f.wallPostSvc.Publish(ctx, published.ID.String(), "author@example.com")
	require.NoError(t, err)

	require.NoError(t, f.sched.RunOnce(ctx))
	notices := f.mail.byTemplate("pending_posts")
	require.Len(t, notices, 1)
	assert.Equal(t, []string{"ops@example.com"}, notices[0].To)
	assert.Equal(t, int64(1), notices[0].Data["pending_count"])

	// Without an operator mailbox the job is a no-op.
	f.sched.cfg.AdminEmail = ""
	require.NoError(t, f.sched.RunOnce(ctx))
	assert.Len(t, f.mail.byTemplate("pending_posts"), 1)
}

func TestMonthlyDigestJob(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(t, start, "monthly_digest")

	f.seedAlumni(t, "one@example.com")
	f.seedAlumni(t, "two@example.com")

	require.NoError(t, f.sched.RunOnce(ctx))

	digests := f.mail.byTemplate("monthly_digest")
	require.Len(t, digests, 2)
	assert.Equal(t, int64(2), digests[0].Data["new_alumni"])
}
