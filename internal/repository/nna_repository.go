package repository

import (
	"context"

	"gorm.io/gorm"

	"cmrpai/internal/model"
)

// NNARepository defines persistence operations for minors.
type NNARepository interface {
	Create(ctx context.Context, nna *model.NNA) error
	FindByID(ctx context.Context, id uint) (*model.NNA, error)
	FindByNameAndNationalID(ctx context.Context, name, nationalID string) (*model.NNA, error)
	// List returns every minor, newest intake first.
	List(ctx context.Context) ([]model.NNA, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type nnaRepository struct {
	db *gorm.DB
}

// NewNNARepository creates a new minor repository.
func NewNNARepository(db *gorm.DB) NNARepository {
	return &nnaRepository{db: db}
}

// Create inserts a new minor.
func (r *nnaRepository) Create(ctx context.Context, nna *model.NNA) error {
	return r.db.WithContext(ctx).Create(nna).Error
}

// FindByID finds a minor by ID.
func (r *nnaRepository) FindByID(ctx context.Context, id uint) (*model.NNA, error) {
	var nna model.NNA
	if err := r.db.WithContext(ctx).First(&nna, id).Error; err != nil {
		return nil, err
	}
	return &nna, nil
}

// FindByNameAndNationalID finds a minor by name and national ID (empty matches empty).
func (r *nnaRepository) FindByNameAndNationalID(ctx context.Context, name, nationalID string) (*model.NNA, error) {
	var nna model.NNA
	if err := r.db.WithContext(ctx).
		Where("nombre = ? AND COALESCE(rut, '') = ?", name, nationalID).
		First(&nna).Error; err != nil {
		return nil, err
	}
	return &nna, nil
}

func (r *nnaRepository) List(ctx context.Context) ([]model.NNA, error) {
	var list []model.NNA
	if err := r.db.WithContext(ctx).
		Order("fecha_ingreso DESC").
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// CountByStatus counts minors in the given status.
func (r *nnaRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.NNA{}).
		Where("estado = ?", status).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
