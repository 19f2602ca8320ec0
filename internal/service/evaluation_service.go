package service

import (
	"context"
	"errors"
	"fmt"

	"cevital/training-admin/internal/domain"
	"cevital/training-admin/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrEvaluationValidation = errors.New("evaluation validation failed")
	ErrAlreadyEvaluated     = errors.New("employee already evaluated this formation")
)

// --- Service Interface ---

// EvaluationService collects post-training evaluation records: hot
// evaluations filled by employees right after a formation, and cold
// evaluations filled by their manager months later.
type EvaluationService interface {
	CreateEvaluation(ctx context.Context, evaluation *domain.HotEvaluation) (*domain.HotEvaluation, error)
	GetEvaluationsByFormation(ctx context.Context, formationID primitive.ObjectID) ([]domain.HotEvaluation, error)
	GetEvaluationsByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]domain.HotEvaluation, error)

	CreateColdEvaluation(ctx context.Context, evaluation *domain.ColdEvaluation) (*domain.ColdEvaluation, error)
	GetColdEvaluationHistory(ctx context.Context) ([]domain.ColdEvaluation, error)
	GetColdEvaluationsByFormation(ctx context.Context, formationID primitive.ObjectID) ([]domain.ColdEvaluation, error)
	GetColdEvaluationsByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]domain.ColdEvaluation, error)
}

// evaluationService implements the EvaluationService interface.
type evaluationService struct {
	evaluationRepo repository.EvaluationRepository
	coldRepo       repository.ColdEvaluationRepository
	formationRepo  repository.FormationRepository
}

// NewEvaluationService creates a new instance of evaluationService.
func NewEvaluationService(evaluationRepo repository.EvaluationRepository, coldRepo repository.ColdEvaluationRepository, formationRepo repository.FormationRepository) EvaluationService {
	return &evaluationService{
		evaluationRepo: evaluationRepo,
		coldRepo:       coldRepo,
		formationRepo:  formationRepo,
	}
}

// CreateEvaluation records a new satisfaction evaluation for a formation.
func (s *evaluationService) CreateEvaluation(ctx context.Context, evaluation *domain.HotEvaluation) (*domain.HotEvaluation, error) {
	for name, rating := range map[string]int{
		"content":      evaluation.ContentRating,
		"trainer":      evaluation.TrainerRating,
		"organization": evaluation.OrganizationRating,
	} {
		if !domain.IsValidRating(rating) {
			return nil, fmt.Errorf("%w: %s rating must be between %d and %d", ErrEvaluationValidation, name, domain.MinRating, domain.MaxRating)
		}
	}

	// The evaluated formation must exist.
	if _, err := s.formationRepo.GetByID(ctx, evaluation.FormationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFormationNotFound
		}
		return nil, err
	}

	evaluationID, err := s.evaluationRepo.Create(ctx, evaluation)
	if err != nil {
		// The unique (formationId, employeeId) index rejects duplicates.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyEvaluated
		}
		return nil, err
	}
	evaluation.ID = evaluationID
	return evaluation, nil
}

// GetEvaluationsByFormation returns all evaluations for a formation.
func (s *evaluationService) GetEvaluationsByFormation(ctx context.Context, formationID primitive.ObjectID) ([]domain.HotEvaluation, error) {
	return s.evaluationRepo.GetByFormationID(ctx, formationID)
}

// GetEvaluationsByEmployee returns all evaluations submitted by an employee.
func (s *evaluationService) GetEvaluationsByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]domain.HotEvaluation, error) {
	return s.evaluationRepo.GetByEmployeeID(ctx, employeeID)
}

// CreateColdEvaluation records a manager's cold evaluation of an employee.
func (s *evaluationService) CreateColdEvaluation(ctx context.Context, evaluation *domain.ColdEvaluation) (*domain.ColdEvaluation, error) {
	if !domain.IsValidColdScore(evaluation.Score) {
		return nil, fmt.Errorf("%w: note must be between 0 and %d", ErrEvaluationValidation, domain.MaxColdScore)
	}
	if evaluation.EvaluatorID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: evaluator is required", ErrEvaluationValidation)
	}
	if evaluation.EmployeeID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: evaluated employee is required", ErrEvaluationValidation)
	}
	if evaluation.EvaluatedAt.IsZero() {
		return nil, fmt.Errorf("%w: dateEvaluation is required", ErrEvaluationValidation)
	}

	if _, err := s.formationRepo.GetByID(ctx, evaluation.FormationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFormationNotFound
		}
		return nil, err
	}

	evaluationID, err := s.coldRepo.Create(ctx, evaluation)
	if err != nil {
		return nil, err
	}
	evaluation.ID = evaluationID
	return evaluation, nil
}

// GetColdEvaluationHistory returns all recorded cold evaluations.
func (s *evaluationService) GetColdEvaluationHistory(ctx context.Context) ([]domain.ColdEvaluation, error) {
	return s.coldRepo.GetAll(ctx)
}

// GetColdEvaluationsByFormation returns cold evaluations for a formation.
func (s *evaluationService) GetColdEvaluationsByFormation(ctx context.Context, formationID primitive.ObjectID) ([]domain.ColdEvaluation, error) {
	return s.coldRepo.GetByFormationID(ctx, formationID)
}

// GetColdEvaluationsByEmployee returns cold evaluations about an employee.
func (s *evaluationService) GetColdEvaluationsByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]domain.ColdEvaluation, error) {
	return s.coldRepo.GetByEmployeeID(ctx, employeeID)
}
