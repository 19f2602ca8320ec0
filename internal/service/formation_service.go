package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cevital/training-admin/internal/domain"
	"cevital/training-admin/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrFormationValidation = errors.New("formation validation failed")
	// ErrFormationInUse: the formation belongs to a plan and cannot be
	// deleted until it is detached.
	ErrFormationInUse = errors.New("formation is attached to a plan")
)

// --- Service Interface ---

// FormationService manages the reusable training catalog. Plan linkage is
// owned by the plan lifecycle; this service only reads it.
type FormationService interface {
	CreateFormation(ctx context.Context, theme string, startDate, endDate time.Time, location, trainer, notes string) (*domain.CatalogFormation, error)
	GetFormationByID(ctx context.Context, id primitive.ObjectID) (*domain.CatalogFormation, error)
	GetAllFormations(ctx context.Context) ([]domain.CatalogFormation, error)
	GetCompletedFormations(ctx context.Context) ([]domain.CatalogFormation, error)
	UpdateFormation(ctx context.Context, id primitive.ObjectID, theme string, startDate, endDate time.Time, location, trainer, notes string) (*domain.CatalogFormation, error)
	DeleteFormation(ctx context.Context, id primitive.ObjectID) error
}

// formationService implements the FormationService interface.
type formationService struct {
	formationRepo repository.FormationRepository
}

// NewFormationService creates a new instance of formationService.
func NewFormationService(formationRepo repository.FormationRepository) FormationService {
	return &formationService{formationRepo: formationRepo}
}

// CreateFormation adds a new entry to the training catalog.
func (s *formationService) CreateFormation(ctx context.Context, theme string, startDate, endDate time.Time, location, trainer, notes string) (*domain.CatalogFormation, error) {
	if err := validateFormationInput(theme, startDate, endDate); err != nil {
		return nil, err
	}

	formation := &domain.CatalogFormation{
		Theme:     theme,
		StartDate: startDate,
		EndDate:   endDate,
		Location:  location,
		Trainer:   trainer,
		Notes:     notes,
	}

	formationID, err := s.formationRepo.Create(ctx, formation)
	if err != nil {
		return nil, err
	}
	return s.formationRepo.GetByID(ctx, formationID)
}

// GetFormationByID retrieves a single catalog entry.
func (s *formationService) GetFormationByID(ctx context.Context, id primitive.ObjectID) (*domain.CatalogFormation, error) {
	formation, err := s.formationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFormationNotFound
		}
		return nil, err
	}
	return formation, nil
}

// GetAllFormations retrieves the full catalog.
func (s *formationService) GetAllFormations(ctx context.Context) ([]domain.CatalogFormation, error) {
	return s.formationRepo.GetAll(ctx)
}

// GetCompletedFormations retrieves catalog entries whose end date has passed.
func (s *formationService) GetCompletedFormations(ctx context.Context) ([]domain.CatalogFormation, error) {
	return s.formationRepo.ListCompleted(ctx)
}

// UpdateFormation modifies the descriptive fields of a catalog entry.
func (s *formationService) UpdateFormation(ctx context.Context, id primitive.ObjectID, theme string, startDate, endDate time.Time, location, trainer, notes string) (*domain.CatalogFormation, error) {
	if err := validateFormationInput(theme, startDate, endDate); err != nil {
		return nil, err
	}

	formation, err := s.GetFormationByID(ctx, id)
	if err != nil {
		return nil, err
	}

	formation.Theme = theme
	formation.StartDate = startDate
	formation.EndDate = endDate
	formation.Location = location
	formation.Trainer = trainer
	formation.Notes = notes

	if err := s.formationRepo.Update(ctx, formation); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFormationNotFound
		}
		return nil, err
	}
	return formation, nil
}

// DeleteFormation removes a catalog entry. Entries attached to a plan must
// be detached from the plan first.
func (s *formationService) DeleteFormation(ctx context.Context, id primitive.ObjectID) error {
	err := s.formationRepo.Delete(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrFormationNotFound
		case errors.Is(err, repository.ErrFormationClaimed):
			return ErrFormationInUse
		}
		return err
	}
	return nil
}

func validateFormationInput(theme string, startDate, endDate time.Time) error {
	if theme == "" {
		return fmt.Errorf("%w: theme is required", ErrFormationValidation)
	}
	if startDate.IsZero() || endDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrFormationValidation)
	}
	if endDate.Before(startDate) {
		return fmt.Errorf("%w: end date cannot be before the start date", ErrFormationValidation)
	}
	return nil
}
