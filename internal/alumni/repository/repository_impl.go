package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alumnihq/alumnihq/internal/alumni/domain"
	"github.com/alumnihq/alumnihq/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, alumni *domain.Alumni) error {
	return db.WithContext(ctx).Create(alumni).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, alumni *domain.Alumni) error {
	return db.WithContext(ctx).Save(alumni).Error
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Alumni, error) {
	var alumni domain.Alumni
	err := db.WithContext(ctx).
		Where("email = ?", email).
		First(&alumni).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &alumni, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Alumni, error) {
	var alumni domain.Alumni
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&alumni).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &alumni, nil
}

func (r *repo) Search(ctx context.Context, db *gorm.DB, filter domain.SearchFilter, page pagination.Pagination) ([]domain.Alumni, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Alumni{}).
		Where("status = ?", domain.AlumniStatusActive)

	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		stmt = stmt.Where(
			"first_name LIKE ? OR last_name LIKE ? OR company LIKE ? OR job_title LIKE ?",
			like, like, like, like,
		)
	}
	if filter.BatchYear != 0 {
		stmt = stmt.Where("batch_year = ?", filter.BatchYear)
	}
	if filter.Course != "" {
		stmt = stmt.Where("course = ?", filter.Course)
	}
	if filter.Company != "" {
		stmt = stmt.Where("company LIKE ?", "%"+filter.Company+"%")
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []domain.Alumni
	err := stmt.
		Order("first_name asc, last_name asc").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&results).Error
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *repo) ListActiveEmails(ctx context.Context, db *gorm.DB) ([]string, error) {
	var emails []string
	err := db.WithContext(ctx).
		Model(&domain.Alumni{}).
		Where("status = ?", domain.AlumniStatusActive).
		Order("email asc").
		Pluck("email", &emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}

func (r *repo) CountJoinedSince(ctx context.Context, db *gorm.DB, since time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Alumni{}).
		Where("joined_on >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *repo) CountByStatus(ctx context.Context, db *gorm.DB, status domain.AlumniStatus) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Alumni{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
