package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	alumnidomain "github.com/alumnihq/alumnihq/internal/alumni/domain"
	alumnirepo "github.com/alumnihq/alumnihq/internal/alumni/repository"
	"github.com/alumnihq/alumnihq/internal/clock"
	"github.com/alumnihq/alumnihq/internal/donation/domain"
	"github.com/alumnihq/alumnihq/internal/donation/repository"
	"github.com/alumnihq/alumnihq/internal/donation/service"
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
		id, email, "Donor", now, now, now,
	).Error)
	return id
}

func newService(t *testing.T, db *gorm.DB, fc clock.Clock) (domain.Service, *capturingEmail) {
	t.Helper()

	node, err := snowflake.NewNode(16)
	require.NoError(t, err)

	mail := &capturingEmail{}
	svc := service.New(service.Params{
		DB:         db,
		Log:        zaptest.NewLogger(t),
		GenID:      node,
		Clock:      fc,
		Repo:       repository.Provide(),
		AlumniRepo: alumnirepo.Provide(),
		Email:      mail,
	})
	return svc, mail
}

func TestCreateDonation(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	fc := clock.NewFakeClock(now)
	svc, mail := newService(t, db, fc)

	node, err := snowflake.NewNode(17)
	require.NoError(t, err)
	seedAlumni(t, db, node, "donor@example.com", now)

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		for _, amount := range []float64{0, -5} {
			_, err := svc.Create(ctx, domain.CreateDonationRequest{
				CallerEmail: "donor@example.com",
				Amount:      amount,
			})
			assert.ErrorIs(t, err, domain.ErrInvalidAmount, "amount %v", amount)
		}
	})

	t.Run("creates pending donation with reference", func(t *testing.T) {
		got, err := svc.Create(ctx, domain.CreateDonationRequest{
			CallerEmail: "donor@example.com",
			Amount:      250,
			Purpose:     "Scholarship Fund",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.DonationStatusPending, got.Status)
		assert.Equal(t, domain.DefaultCurrency, got.Currency)
		assert.True(t, strings.HasPrefix(got.Reference, "DON-"))
		require.NotNil(t, got.AlumniID)
		assert.Equal(t, "donor@example.com", got.DonorEmail)

		// The receipt goes out as soon as the row lands.
		require.Len(t, mail.templates, 1)
		assert.Equal(t, "donation_receipt", mail.templates[0])
		assert.Equal(t, []string{"donor@example.com"}, mail.to[0])
	})

	t.Run("guest donation has no alumni link", func(t *testing.T) {
		got, err := svc.Create(ctx, domain.CreateDonationRequest{
			DonorName:  "Anonymous Friend",
			DonorEmail: "friend@example.com",
			Amount:     50,
		})
		require.NoError(t, err)
		assert.Nil(t, got.AlumniID)
		assert.Equal(t, "Anonymous Friend", got.DonorName)
	})

	t.Run("unknown caller", func(t *testing.T) {
		_, err := svc.Create(ctx, domain.CreateDonationRequest{
			CallerEmail: "nobody@example.com",
			Amount:      10,
		})
		assert.ErrorIs(t, err, alumnidomain.ErrProfileNotFound)
	})
}

func TestCompleteDonation(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	fc := clock.NewFakeClock(now)
	svc, mail := newService(t, db, fc)

	node, err := snowflake.NewNode(18)
	require.NoError(t, err)
	seedAlumni(t, db, node, "donor@example.com", now)

	created, err := svc.Create(ctx, domain.CreateDonationRequest{
		CallerEmail: "donor@example.com",
		Amount:      100,
		Currency:    "eur",
	})
	require.NoError(t, err)
	assert.Equal(t, "EUR", created.Currency)
	require.Len(t, mail.templates, 1)
	assert.Equal(t, "donation_receipt", mail.templates[0])

	got, err := svc.Complete(ctx, created.Reference)
	require.NoError(t, err)
	assert.Equal(t, domain.DonationStatusCompleted, got.Status)

	// Completing is idempotent and never resends the receipt.
	got, err = svc.Complete(ctx, created.Reference)
	require.NoError(t, err)
	assert.Equal(t, domain.DonationStatusCompleted, got.Status)
	assert.Len(t, mail.templates, 1)

	_, err = svc.Complete(ctx, "DON-missing")
	assert.ErrorIs(t, err, domain.ErrDonationNotFound)
}

func TestDonationStats(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	fc := clock.NewFakeClock(now)
	svc, _ := newService(t, db, fc)

	node, err := snowflake.NewNode(19)
	require.NoError(t, err)
	seedAlumni(t, db, node, "donor@example.com", now)

	for _, amount := range []float64{100, 300} {
		created, err := svc.Create(ctx, domain.CreateDonationRequest{
			CallerEmail: "donor@example.com",
			Amount:      amount,
		})
		require.NoError(t, err)
		_, err = svc.Complete(ctx, created.Reference)
		require.NoError(t, err)
	}

	// Pending donations stay out of the stats.
	_, err = svc.Create(ctx, domain.CreateDonationRequest{
		CallerEmail: "donor@example.com",
		Amount:      999,
	})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(400), stats.TotalAmount)
	assert.Equal(t, int64(2), stats.DonationCount)
	assert.Equal(t, float64(200), stats.AverageAmount)
}
