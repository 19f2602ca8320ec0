package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cevital/training-admin/internal/domain"
	"cevital/training-admin/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrNeedNotFound   = errors.New("training need not found")
	ErrNeedValidation = errors.New("training need validation failed")
)

// --- Service Interface ---

// NeedService manages training needs raised by directions. Needs sit
// upstream of the catalog: the training department reviews them when
// composing the annual plan.
type NeedService interface {
	CreateNeed(ctx context.Context, need *domain.TrainingNeed) (*domain.TrainingNeed, error)
	GetNeedByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingNeed, error)
	GetAllNeeds(ctx context.Context) ([]domain.TrainingNeed, error)
	UpdateNeed(ctx context.Context, need *domain.TrainingNeed) (*domain.TrainingNeed, error)
	DeleteNeed(ctx context.Context, id primitive.ObjectID) error
	// DeleteNeeds removes several needs at once and returns how many were
	// actually deleted.
	DeleteNeeds(ctx context.Context, ids []primitive.ObjectID) (int64, error)
}

// needService implements the NeedService interface.
type needService struct {
	needRepo repository.NeedRepository
}

// NewNeedService creates a new instance of needService.
func NewNeedService(needRepo repository.NeedRepository) NeedService {
	return &needService{needRepo: needRepo}
}

func validateNeed(need *domain.TrainingNeed) error {
	if strings.TrimSpace(need.Title) == "" {
		return fmt.Errorf("%w: titre is required", ErrNeedValidation)
	}
	if strings.TrimSpace(need.Direction) == "" {
		return fmt.Errorf("%w: direction is required", ErrNeedValidation)
	}
	if !domain.IsValidNeedPriority(need.Priority) {
		return fmt.Errorf("%w: priorite must be one of %q, %q, %q", ErrNeedValidation,
			domain.NeedPriorityHigh, domain.NeedPriorityMedium, domain.NeedPriorityLow)
	}
	if len(need.EmployeeIDs) == 0 {
		return fmt.Errorf("%w: at least one employee is required", ErrNeedValidation)
	}
	for _, id := range need.EmployeeIDs {
		if id == primitive.NilObjectID {
			return fmt.Errorf("%w: employee ids must be set", ErrNeedValidation)
		}
	}
	return nil
}

// CreateNeed records a new training need.
func (s *needService) CreateNeed(ctx context.Context, need *domain.TrainingNeed) (*domain.TrainingNeed, error) {
	if err := validateNeed(need); err != nil {
		return nil, err
	}
	need.Title = strings.TrimSpace(need.Title)

	needID, err := s.needRepo.Create(ctx, need)
	if err != nil {
		return nil, err
	}
	need.ID = needID
	return need, nil
}

// GetNeedByID fetches a single training need.
func (s *needService) GetNeedByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingNeed, error) {
	need, err := s.needRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNeedNotFound
		}
		return nil, err
	}
	return need, nil
}

// GetAllNeeds lists every recorded training need.
func (s *needService) GetAllNeeds(ctx context.Context) ([]domain.TrainingNeed, error) {
	return s.needRepo.GetAll(ctx)
}

// UpdateNeed replaces the descriptive fields of an existing need.
func (s *needService) UpdateNeed(ctx context.Context, need *domain.TrainingNeed) (*domain.TrainingNeed, error) {
	if err := validateNeed(need); err != nil {
		return nil, err
	}
	need.Title = strings.TrimSpace(need.Title)

	if err := s.needRepo.Update(ctx, need); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNeedNotFound
		}
		return nil, err
	}
	return s.GetNeedByID(ctx, need.ID)
}

// DeleteNeed removes a single training need.
func (s *needService) DeleteNeed(ctx context.Context, id primitive.ObjectID) error {
	if err := s.needRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNeedNotFound
		}
		return err
	}
	return nil
}

// DeleteNeeds removes several needs in one call. Unknown ids are skipped;
// the caller learns from the count how many matched.
func (s *needService) DeleteNeeds(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: at least one id is required", ErrNeedValidation)
	}
	return s.needRepo.DeleteMany(ctx, ids)
}
