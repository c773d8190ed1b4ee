package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	alumnidomain "github.com/alumnihq/alumnihq/internal/alumni/domain"
	alumnirepo "github.com/alumnihq/alumnihq/internal/alumni/repository"
	"github.com/alumnihq/alumnihq/internal/clock"
	"github.com/alumnihq/alumnihq/internal/event/domain"
	"github.com/alumnihq/alumnihq/internal/event/repository"
	"github.com/alumnihq/alumnihq/internal/event/service"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

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
	}
	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

func seedAlumni(t *testing.T, db *gorm.DB, node *snowflake.Node, email string, now time.Time) snowflake.ID {
	t.Helper()
	id := node.Generate()
	require.NoError(t, db.Exec(
		`INSERT INTO alumni (id, email, first_name, status, joined_on, created_at, updated_at) VALUES (?, ?, ?, 'Active', ?, ?, ?)`,
		id, email, "Member", now, now, now,
	).Error)
	return id
}

func newService(t *testing.T, db *gorm.DB, fc clock.Clock) domain.Service {
	t.Helper()

	node, err := snowflake.NewNode(6)
	require.NoError(t, err)

	return service.New(service.Params{
		DB:         db,
		Log:        zaptest.NewLogger(t),
		GenID:      node,
		Clock:      fc,
		Repo:       repository.Provide(),
		AlumniRepo: alumnirepo.Provide(),
	})
}

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	fc := clock.NewFakeClock(now)
	svc := newService(t, db, fc)

	t.Run("rejects past event date", func(t *testing.T) {
		_, err := svc.Create(ctx, domain.CreateEventRequest{
			Name:      "Reunion",
			EventDate: now.AddDate(0, 0, -1),
		})
		assert.ErrorIs(t, err, domain.ErrEventDateInPast)
	})

	t.Run("creates upcoming event", func(t *testing.T) {
		got, err := svc.Create(ctx, domain.CreateEventRequest{
			Name:        "Reunion",
			EventDate:   now.AddDate(0, 1, 0),
			Venue:       "Main Hall",
			MaxCapacity: 100,
			Tags:        []string{"reunion", "annual"},
			Metadata:    map[string]any{"dress_code": "formal"},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.EventStatusUpcoming, got.Status)
		assert.Equal(t, 0, got.RSVPCount)
		assert.Len(t, got.Tags, 2)
		assert.Equal(t, "formal", got.Metadata["dress_code"])

		// Metadata round-trips through the row, and an update without it
		// leaves it alone.
		updated, err := svc.Update(ctx, got.ID.String(), domain.UpdateEventRequest{
			Venue: "Grand Hall",
		})
		require.NoError(t, err)
		assert.Equal(t, "Grand Hall", updated.Venue)
		assert.Equal(t, "formal", updated.Metadata["dress_code"])
	})
}

func TestRSVPUpsert(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	fc := clock.NewFakeClock(now)
	svc := newService(t, db, fc)

	node, err := snowflake.NewNode(7)
	require.NoError(t, err)
	seedAlumni(t, db, node, "goer@example.com", now)

	event, err := svc.Create(ctx, domain.CreateEventRequest{
		Name:      "Meetup",
		EventDate: now.AddDate(0, 0, 7),
	})
	require.NoError(t, err)

	resp, err := svc.RSVP(ctx, domain.RSVPRequest{
		CallerEmail:    "goer@example.com",
		EventID:        event.ID.String(),
		ResponseStatus: domain.ResponseGoing,
		Guests:         1,
	})
	require.NoError(t, err)
	assert.True(t, resp.Created)
	assert.Equal(t, 1, resp.RSVPCount)

	// A second response from the same caller updates in place.
	resp, err = svc.RSVP(ctx, domain.RSVPRequest{
		CallerEmail:    "goer@example.com",
		EventID:        event.ID.String(),
		ResponseStatus: domain.ResponseNotGoing,
	})
	require.NoError(t, err)
	assert.False(t, resp.Created)
	assert.Equal(t, 0, resp.RSVPCount)

	got, err := svc.GetByID(ctx, event.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 0, got.RSVPCount)
}

func TestRSVPCapacity(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	fc := clock.NewFakeClock(now)
	svc := newService(t, db, fc)

	node, err := snowflake.NewNode(8)
	require.NoError(t, err)
	seedAlumni(t, db, node, "first@example.com", now)
	seedAlumni(t, db, node, "second@example.com", now)
	seedAlumni(t, db, node, "third@example.com", now)

	event, err := svc.Create(ctx, domain.CreateEventRequest{
		Name:        "Small Venue",
		EventDate:   now.AddDate(0, 0, 7),
		MaxCapacity: 2,
	})
	require.NoError(t, err)

	for _, email := range []string{"first@example.com", "second@example.com"} {
		_, err := svc.RSVP(ctx, domain.RSVPRequest{
			CallerEmail:    email,
			EventID:        event.ID.String(),
			ResponseStatus: domain.ResponseGoing,
		})
		require.NoError(t, err)
	}

	// The third Going response exceeds capacity.
	_, err = svc.RSVP(ctx, domain.RSVPRequest{
		CallerEmail:    "third@example.com",
		EventID:        event.ID.String(),
		ResponseStatus: domain.ResponseGoing,
	})
	assert.ErrorIs(t, err, domain.ErrEventFull)

	// Maybe responses are not blocked by capacity.
	resp, err := svc.RSVP(ctx, domain.RSVPRequest{
		CallerEmail:    "third@example.com",
		EventID:        event.ID.String(),
		ResponseStatus: domain.ResponseMaybe,
	})
	require.NoError(t, err)
	assert.True(t, resp.Created)
	assert.Equal(t, 2, resp.RSVPCount)
}

func TestRSVPValidation(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	fc := clock.NewFakeClock(now)
	svc := newService(t, db, fc)

	_, err := svc.RSVP(ctx, domain.RSVPRequest{
		CallerEmail:    "goer@example.com",
		EventID:        "1",
		ResponseStatus: "Perhaps",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidResponseStatus)

	_, err = svc.RSVP(ctx, domain.RSVPRequest{
		CallerEmail:    "goer@example.com",
		EventID:        "1",
		ResponseStatus: domain.ResponseGoing,
		Guests:         -1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidGuests)

	_, err = svc.RSVP(ctx, domain.RSVPRequest{
		CallerEmail:    "goer@example.com",
		EventID:        "1",
		ResponseStatus: domain.ResponseGoing,
	})
	assert.ErrorIs(t, err, alumnidomain.ErrProfileNotFound)
}

func TestCancelEventBlocksRSVP(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	fc := clock.NewFakeClock(now)
	svc := newService(t, db, fc)

	node, err := snowflake.NewNode(9)
	require.NoError(t, err)
	seedAlumni(t, db, node, "goer@example.com", now)

	event, err := svc.Create(ctx, domain.CreateEventRequest{
		Name:      "Cancelled Meetup",
		EventDate: now.AddDate(0, 0, 7),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, event.ID.String()))
	// Cancelling twice is a no-op.
	require.NoError(t, svc.Cancel(ctx, event.ID.String()))

	_, err = svc.RSVP(ctx, domain.RSVPRequest{
		CallerEmail:    "goer@example.com",
		EventID:        event.ID.String(),
		ResponseStatus: domain.ResponseGoing,
	})
	assert.ErrorIs(t, err, domain.ErrEventCancelled)
}
