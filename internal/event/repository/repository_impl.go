package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alumnihq/alumnihq/internal/event/domain"
	"github.com/alumnihq/alumnihq/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, event *domain.Event) error {
	return db.WithContext(ctx).Create(event).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, event *domain.Event) error {
	return db.WithContext(ctx).Save(event).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Event, error) {
	var event domain.Event
	err := db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repo) ListUpcoming(ctx context.Context, db *gorm.DB, now time.Time, page pagination.Pagination) ([]domain.Event, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Event{}).
		Where("status IN ? AND event_date >= ?",
			[]domain.EventStatus{domain.EventStatusUpcoming, domain.EventStatusOngoing}, now)

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []domain.Event
	err := stmt.
		Order("event_date asc").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *repo) ListBetween(ctx context.Context, db *gorm.DB, status domain.EventStatus, from, to time.Time) ([]domain.Event, error) {
	var events []domain.Event
	err := db.WithContext(ctx).
		Where("status = ? AND event_date >= ? AND event_date < ?", status, from, to).
		Order("event_date asc").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repo) CountUpcoming(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Event{}).
		Where("status IN ? AND event_date >= ?",
			[]domain.EventStatus{domain.EventStatusUpcoming, domain.EventStatusOngoing}, now).
		Count(&count).Error
	return count, err
}

func (r *repo) InsertRSVP(ctx context.Context, db *gorm.DB, rsvp *domain.EventRSVP) error {
	return db.WithContext(ctx).Create(rsvp).Error
}

func (r *repo) UpdateRSVP(ctx context.Context, db *gorm.DB, rsvp *domain.EventRSVP) error {
	return db.WithContext(ctx).Save(rsvp).Error
}

func (r *repo) FindRSVP(ctx context.Context, db *gorm.DB, eventID, alumniID snowflake.ID) (*domain.EventRSVP, error) {
	var rsvp domain.EventRSVP
	err := db.WithContext(ctx).
		Where("event_id = ? AND alumni_id = ?", eventID, alumniID).
		First(&rsvp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rsvp, nil
}

func (r *repo) CountGoing(ctx context.Context, db *gorm.DB, eventID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.EventRSVP{}).
		Where("event_id = ? AND response_status = ?", eventID, domain.ResponseGoing).
		Count(&count).Error
	return count, err
}

func (r *repo) ListGoingAttendees(ctx context.Context, db *gorm.DB, eventID snowflake.ID) ([]domain.Attendee, error) {
	var attendees []domain.Attendee
	err := db.WithContext(ctx).
		Table("event_rsvps").
		Select("alumni.email AS email, alumni.first_name AS first_name").
		Joins("JOIN alumni ON alumni.id = event_rsvps.alumni_id").
		Where("event_rsvps.event_id = ? AND event_rsvps.response_status = ?", eventID, domain.ResponseGoing).
		Scan(&attendees).Error
	if err != nil {
		return nil, err
	}
	return attendees, nil
}
