package repository

import (
	"context"
	"errors"
	"fmt"

	submissiondomain "github.com/contaflow/facturel/internal/submission/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) submissiondomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, record *submissiondomain.Record) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*submissiondomain.Record, error) {
	var record submissiondomain.Record
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", submissiondomain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) LatestAccepted(ctx context.Context, kind string, number int64) (*submissiondomain.Record, error) {
	var record submissiondomain.Record
	err := r.db.WithContext(ctx).
		Where("document_kind = ? AND document_number = ? AND status = ?",
			kind, number, submissiondomain.StatusAccepted).
		Order("created_at DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s %d", submissiondomain.ErrNotFound, kind, number)
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
