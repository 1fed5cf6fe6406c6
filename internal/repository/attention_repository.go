package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"cmrpai/internal/model"
)

// AttentionRepository defines persistence operations for attention records.
type AttentionRepository interface {
	Create(ctx context.Context, attention *model.Attention) error
	ListByNNA(ctx context.Context, nnaID uint) ([]model.Attention, error)
	// CountSince counts records dated on or after from.
	CountSince(ctx context.Context, from time.Time) (int64, error)
	// CountBetween counts records dated in [from, to).
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type attentionRepository struct {
	db *gorm.DB
}

// NewAttentionRepository creates a new attention repository.
func NewAttentionRepository(db *gorm.DB) AttentionRepository {
	return &attentionRepository{db: db}
}

// Create inserts an attention record.
func (r *attentionRepository) Create(ctx context.Context, attention *model.Attention) error {
	return r.db.WithContext(ctx).Create(attention).Error
}

// ListByNNA lists the attention records of one minor, newest first.
func (r *attentionRepository) ListByNNA(ctx context.Context, nnaID uint) ([]model.Attention, error) {
	var list []model.Attention
	if err := r.db.WithContext(ctx).
		Where("nna_id = ?", nnaID).
		Order("fecha DESC").
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *attentionRepository) CountSince(ctx context.Context, from time.Time) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Attention{}).
		Where("fecha >= ?", model.Day(from)).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *attentionRepository) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Attention{}).
		Where("fecha >= ? AND fecha < ?", model.Day(from), model.Day(to)).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
