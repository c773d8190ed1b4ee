package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alumnihq/alumnihq/internal/alumni/domain"
	"github.com/alumnihq/alumnihq/internal/alumni/repository"
	"github.com/alumnihq/alumnihq/internal/alumni/service"
	"github.com/alumnihq/alumnihq/internal/clock"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type capturingEmail struct {
	templates []string
	to        [][]string
}

func (c *capturingEmail) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	c.to = append(c.to, to)
	return nil
}

func (c *capturingEmail) SendTemplate(ctx context.Context, to []string, templateName string, data map[string]any) error {
	c.templates = append(c.templates, templateName)
	c.to = append(c.to, to)
	return nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE alumni (
		id BIGINT PRIMARY KEY,
		email TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
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
	)`).Error)
	require.NoError(t, db.Exec(`CREATE UNIQUE INDEX idx_alumni_email ON alumni (email)`).Error)

	return db
}

func newService(t *testing.T, db *gorm.DB, fc clock.Clock) (domain.Service, *capturingEmail) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	mail := &capturingEmail{}
	svc := service.New(service.Params{
		DB:    db,
		Log:   zaptest.NewLogger(t),
		GenID: node,
		Clock: fc,
		Repo:  repository.Provide(),
		Email: mail,
	})
	return svc, mail
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	fc := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	svc, mail := newService(t, db, fc)

	t.Run("stores normalized email and sends welcome", func(t *testing.T) {
		got, err := svc.Register(ctx, domain.RegisterRequest{
			Email:     "  Jane.Doe@Example.COM ",
			FirstName: "Jane",
			LastName:  "Doe",
			BatchYear: 2015,
		})
		require.NoError(t, err)
		assert.Equal(t, "jane.doe@example.com", got.Email)
		assert.Equal(t, domain.AlumniStatusActive, got.Status)
		assert.Equal(t, fc.Now(), got.JoinedOn)
		require.Len(t, mail.templates, 1)
		assert.Equal(t, "welcome", mail.templates[0])
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, domain.RegisterRequest{
			Email:     "JANE.DOE@example.com",
			FirstName: "Janet",
		})
		assert.ErrorIs(t, err, domain.ErrAlumniExists)
	})

	t.Run("rejects malformed emails", func(t *testing.T) {
		for _, addr := range []string{"", "plain", "no@tld", "a@b.c", "spaces in@example.com"} {
			_, err := svc.Register(ctx, domain.RegisterRequest{
				Email:     addr,
				FirstName: "X",
			})
			assert.ErrorIs(t, err, domain.ErrInvalidEmail, "email %q", addr)
		}
	})

	t.Run("requires first name", func(t *testing.T) {
		_, err := svc.Register(ctx, domain.RegisterRequest{
			Email:     "named@example.com",
			FirstName: "   ",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidName)
	})
}

func TestUpdateProfilePartial(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	fc := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	svc, _ := newService(t, db, fc)

	_, err := svc.Register(ctx, domain.RegisterRequest{
		Email:     "alex@example.com",
		FirstName: "Alex",
		LastName:  "Chen",
		Company:   "Initech",
		BatchYear: 2010,
	})
	require.NoError(t, err)

	got, err := svc.UpdateProfile(ctx, "alex@example.com", domain.UpdateProfileRequest{
		Company:  "Globex",
		JobTitle: "Engineer",
	})
	require.NoError(t, err)

	assert.Equal(t, "Globex", got.Company)
	assert.Equal(t, "Engineer", got.JobTitle)
	assert.Equal(t, "Alex", got.FirstName)
	assert.Equal(t, "Chen", got.LastName)
	assert.Equal(t, 2010, got.BatchYear)
}

func TestUpdateProfileNotFound(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	fc := clock.NewFakeClock(time.Now())
	svc, _ := newService(t, db, fc)

	_, err := svc.UpdateProfile(ctx, "ghost@example.com", domain.UpdateProfileRequest{Bio: "hi"})
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestDeactivate(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	fc := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	svc, _ := newService(t, db, fc)

	_, err := svc.Register(ctx, domain.RegisterRequest{
		Email:     "leaver@example.com",
		FirstName: "Lee",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, "leaver@example.com"))
	// Idempotent.
	require.NoError(t, svc.Deactivate(ctx, "leaver@example.com"))

	got, err := svc.GetByEmail(ctx, "leaver@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.AlumniStatusInactive, got.Status)
}

func TestSearchExcludesInactive(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	fc := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	svc, _ := newService(t, db, fc)

	for i, req := range []domain.RegisterRequest{
		{Email: "a@example.com", FirstName: "Ada", Company: "Initech", BatchYear: 2012},
		{Email: "b@example.com", FirstName: "Ben", Company: "Initech", BatchYear: 2012},
		{Email: "c@example.com", FirstName: "Cai", Company: "Globex", BatchYear: 2014},
	} {
		_, err := svc.Register(ctx, req)
		require.NoError(t, err, "register %d", i)
	}
	require.NoError(t, svc.Deactivate(ctx, "b@example.com"))

	resp, err := svc.Search(ctx, domain.SearchRequest{Company: "Initech"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "a@example.com", resp.Results[0].Email)
	assert.Equal(t, int64(1), resp.TotalCount)
}
