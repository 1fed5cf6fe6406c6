package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"cmrpai/internal/cache"
	apperrors "cmrpai/internal/errors"
	"cmrpai/internal/model"
	"cmrpai/internal/repository"
)

// CreateNNAInput carries the intake form values.
type CreateNNAInput struct {
	Name       string
	NationalID string
	Status     string
}

// ImportAttention is one attention record in an import batch.
type ImportAttention struct {
	Date         time.Time
	Type         string
	Professional string
}

// ImportNNA is one minor and its attention records in an import batch.
type ImportNNA struct {
	Name       string
	NationalID string
	IntakeDate time.Time
	Status     string
	Attentions []ImportAttention
}

// ImportResult summarizes an import.
type ImportResult struct {
	Created    int
	Reused     int
	Attentions int
}

// NNAService handles minor intake, listing and attention lookups.
type NNAService interface {
	Create(ctx context.Context, in CreateNNAInput) (*model.NNA, error)
	List(ctx context.Context) ([]model.NNA, error)
	Get(ctx context.Context, id uint) (*model.NNA, error)
	ListAttentions(ctx context.Context, nnaID uint) ([]model.Attention, error)
	Import(ctx context.Context, batch []ImportNNA) (ImportResult, error)
}

type nnaService struct {
	nnaRepo       repository.NNARepository
	attentionRepo repository.AttentionRepository
	cache         *cache.Client
	now           func() time.Time
}

// NewNNAService creates a new minor service.
func NewNNAService(nnaRepo repository.NNARepository, attentionRepo repository.AttentionRepository, cache *cache.Client) NNAService {
	return &nnaService{
		nnaRepo:       nnaRepo,
		attentionRepo: attentionRepo,
		cache:         cache,
		now:           time.Now,
	}
}

// Create registers a minor. Status defaults to activo; intake date is today.
func (s *nnaService) Create(ctx context.Context, in CreateNNAInput) (*model.NNA, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.ErrNameRequired
	}

	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = model.StatusActive
	}

	nna := &model.NNA{
		Name:       name,
		NationalID: strings.TrimSpace(in.NationalID),
		IntakeDate: model.Day(s.now()),
		Status:     status,
	}
	if err := s.nnaRepo.Create(ctx, nna); err != nil {
		return nil, fmt.Errorf("create nna: %w", err)
	}

	s.invalidateDashboard(ctx)
	return nna, nil
}

func (s *nnaService) List(ctx context.Context) ([]model.NNA, error) {
	return s.nnaRepo.List(ctx)
}

// Get retrieves a minor by ID.
func (s *nnaService) Get(ctx context.Context, id uint) (*model.NNA, error) {
	nna, err := s.nnaRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMinorNotFound
		}
		return nil, err
	}
	return nna, nil
}

// ListAttentions lists the attention records of an existing minor.
func (s *nnaService) ListAttentions(ctx context.Context, nnaID uint) ([]model.Attention, error) {
	if _, err := s.Get(ctx, nnaID); err != nil {
		return nil, err
	}
	return s.attentionRepo.ListByNNA(ctx, nnaID)
}

// Import inserts minors and their attention records. A minor already present with the
// same name and national ID is reused instead of duplicated.
func (s *nnaService) Import(ctx context.Context, batch []ImportNNA) (ImportResult, error) {
	var result ImportResult
	for i, item := range batch {
		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" {
			return result, fmt.Errorf("entry %d: %w", i, apperrors.ErrNameRequired)
		}
		nna, err := s.nnaRepo.FindByNameAndNationalID(ctx, item.Name, item.NationalID)
		switch {
		case err == nil:
			result.Reused++
		case errors.Is(err, gorm.ErrRecordNotFound):
			nna = &model.NNA{
				Name:       item.Name,
				NationalID: item.NationalID,
				Status:     item.Status,
			}
			if !item.IntakeDate.IsZero() {
				nna.IntakeDate = model.Day(item.IntakeDate)
			}
			if err := s.nnaRepo.Create(ctx, nna); err != nil {
				return result, fmt.Errorf("create nna %q: %w", item.Name, err)
			}
			result.Created++
		default:
			return result, fmt.Errorf("find nna %q: %w", item.Name, err)
		}

		for _, a := range item.Attentions {
			attention := &model.Attention{
				Type:         a.Type,
				Professional: a.Professional,
				NNAID:        nna.ID,
			}
			if !a.Date.IsZero() {
				attention.Date = model.Day(a.Date)
			}
			if err := s.attentionRepo.Create(ctx, attention); err != nil {
				return result, fmt.Errorf("create attention for %q: %w", item.Name, err)
			}
			result.Attentions++
		}
	}

	s.invalidateDashboard(ctx)
	return result, nil
}

func (s *nnaService) invalidateDashboard(ctx context.Context) {
	_ = s.cache.Delete(ctx, dashboardCacheKey(model.Day(s.now())))
}
