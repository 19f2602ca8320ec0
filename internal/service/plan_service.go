package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"cevital/training-admin/internal/domain"
	"cevital/training-admin/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound      = errors.New("plan not found")
	ErrSessionNotFound   = errors.New("formation not found in plan")
	ErrFormationNotFound = errors.New("formation not found")
	// ErrFormationTaken: the catalog formation is already attached to a plan.
	ErrFormationTaken = errors.New("formation already attached to a plan")
	// ErrPlanConflict: the plan was mutated by another caller between read
	// and write. The caller must refresh and retry.
	ErrPlanConflict = errors.New("plan was modified concurrently")
	// ErrInvalidPlanState: the requested transition is illegal from the
	// plan's current status.
	ErrInvalidPlanState = errors.New("operation not allowed in current plan status")
	ErrPlanValidation   = errors.New("plan validation failed")
	// ErrNotAllowed: the caller's role is not in the allow-list for the
	// requested transition.
	ErrNotAllowed = errors.New("role not permitted for this action")
)

// AttachFormationInput carries the attach request. Budget is a pointer so a
// missing value can be told apart from zero. Descriptive session fields are
// copied from the catalog entry server-side, not taken from the caller.
type AttachFormationInput struct {
	FormationID primitive.ObjectID
	Budget      *float64
}

// --- Service Interface ---

// PlanService owns the annual training plan lifecycle: status transitions,
// role gating, and formation attachment. Every mutating method takes the
// caller's role and checks it against the authorization table before
// touching state, so the rules hold for any caller of this service, not
// just the HTTP layer. Successful mutations return the updated aggregate.
type PlanService interface {
	CreatePlan(ctx context.Context, role domain.Role, createdBy string, year int, notes string) (*domain.TrainingPlan, error)
	AttachFormation(ctx context.Context, role domain.Role, planID primitive.ObjectID, input AttachFormationInput) (*domain.TrainingPlan, error)
	DetachFormation(ctx context.Context, role domain.Role, planID, sessionID primitive.ObjectID) (*domain.TrainingPlan, error)
	SubmitForValidation(ctx context.Context, role domain.Role, planID primitive.ObjectID) (*domain.TrainingPlan, error)
	ApprovePlan(ctx context.Context, role domain.Role, planID primitive.ObjectID) (*domain.TrainingPlan, error)
	RejectPlan(ctx context.Context, role domain.Role, planID primitive.ObjectID, reason string) (*domain.TrainingPlan, error)
	ResetRejectedPlan(ctx context.Context, role domain.Role, planID primitive.ObjectID) (*domain.TrainingPlan, error)
	UpdatePlanNotes(ctx context.Context, role domain.Role, planID primitive.ObjectID, notes string) (*domain.TrainingPlan, error)
	ListPlans(ctx context.Context, role domain.Role, statuses []domain.PlanStatus) ([]domain.TrainingPlan, error)
	GetPlansByYear(ctx context.Context, role domain.Role, year int) ([]domain.TrainingPlan, error)
	GetPlanByID(ctx context.Context, role domain.Role, planID primitive.ObjectID) (*domain.TrainingPlan, error)
	ListAvailableFormations(ctx context.Context, role domain.Role) ([]domain.CatalogFormation, error)
}

// Maximum number of years a plan may be created ahead of the current year.
const maxPlanYearsAhead = 10

// --- Service Implementation ---

// planService implements the PlanService interface.
type planService struct {
	planRepo      repository.PlanRepository
	formationRepo repository.FormationRepository
}

// NewPlanService creates a new instance of planService.
func NewPlanService(planRepo repository.PlanRepository, formationRepo repository.FormationRepository) PlanService {
	return &planService{
		planRepo:      planRepo,
		formationRepo: formationRepo,
	}
}

// CreatePlan creates a new draft plan for the given year.
func (s *planService) CreatePlan(ctx context.Context, role domain.Role, createdBy string, year int, notes string) (*domain.TrainingPlan, error) {
	if !domain.CanPerform(role, domain.TransitionCreate) {
		return nil, fmt.Errorf("%w: %s cannot create plans", ErrNotAllowed, role)
	}

	currentYear := time.Now().UTC().Year()
	if year < currentYear || year > currentYear+maxPlanYearsAhead {
		return nil, fmt.Errorf("%w: year must be between %d and %d", ErrPlanValidation, currentYear, currentYear+maxPlanYearsAhead)
	}

	plan := &domain.TrainingPlan{
		Year:      year,
		Notes:     strings.TrimSpace(notes),
		Sessions:  []domain.PlanSession{},
		CreatedBy: createdBy,
	}

	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	// Fetch again so timestamps and defaults set by the repository are
	// present in the returned aggregate.
	return s.planRepo.GetByID(ctx, planID)
}

// AttachFormation instantiates a catalog formation as a session inside a
// draft plan. The catalog entry is claimed atomically first so that two
// concurrent attach attempts for the same formation cannot both succeed;
// if the plan-side insert then fails, the claim is rolled back.
func (s *planService) AttachFormation(ctx context.Context, role domain.Role, planID primitive.ObjectID, input AttachFormationInput) (*domain.TrainingPlan, error) {
	if !domain.CanPerform(role, domain.TransitionAttachFormation) {
		return nil, fmt.Errorf("%w: %s cannot modify plan contents", ErrNotAllowed, role)
	}

	if input.Budget == nil {
		return nil, fmt.Errorf("%w: budget is required", ErrPlanValidation)
	}
	if math.IsNaN(*input.Budget) || math.IsInf(*input.Budget, 0) {
		// A NaN session would poison the derived total for good.
		return nil, fmt.Errorf("%w: budget must be a finite number", ErrPlanValidation)
	}
	if *input.Budget < 0 {
		return nil, fmt.Errorf("%w: budget must not be negative", ErrPlanValidation)
	}
	if input.FormationID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: formation ID is required", ErrPlanValidation)
	}

	plan, err := s.getPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.Status != domain.PlanStatusDraft {
		return nil, fmt.Errorf("%w: formations can only be attached while the plan is a draft", ErrInvalidPlanState)
	}

	formation, err := s.formationRepo.Claim(ctx, input.FormationID, planID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrFormationClaimed):
			return nil, ErrFormationTaken
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrFormationNotFound
		}
		return nil, err
	}

	session := domain.PlanSession{
		ID:          primitive.NewObjectID(),
		FormationID: formation.ID,
		Budget:      *input.Budget,
		StartDate:   formation.StartDate,
		EndDate:     formation.EndDate,
		Location:    formation.Location,
		Trainer:     formation.Trainer,
		Notes:       formation.Notes,
		AttachedAt:  time.Now().UTC(),
	}

	updated, err := s.planRepo.AttachSession(ctx, planID, plan.Revision, session)
	if err != nil {
		// Compensate: the claim must not outlive a failed attach.
		_ = s.formationRepo.Release(ctx, formation.ID, planID)
		return nil, s.mapPlanWriteError(err)
	}
	return updated, nil
}

// DetachFormation removes a session from a draft plan and returns the
// catalog formation to the available pool. The path parameter may name
// either the session or its source catalog formation.
func (s *planService) DetachFormation(ctx context.Context, role domain.Role, planID, sessionID primitive.ObjectID) (*domain.TrainingPlan, error) {
	if !domain.CanPerform(role, domain.TransitionDetachFormation) {
		return nil, fmt.Errorf("%w: %s cannot modify plan contents", ErrNotAllowed, role)
	}

	plan, err := s.getPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.Status != domain.PlanStatusDraft {
		return nil, fmt.Errorf("%w: formations can only be detached while the plan is a draft", ErrInvalidPlanState)
	}

	session := plan.SessionByID(sessionID)
	if session == nil {
		// Callers coming from the catalog side address the session by its
		// source formation ID.
		for i := range plan.Sessions {
			if plan.Sessions[i].FormationID == sessionID {
				session = &plan.Sessions[i]
				break
			}
		}
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	updated, err := s.planRepo.DetachSession(ctx, planID, plan.Revision, session.ID)
	if err != nil {
		return nil, s.mapPlanWriteError(err)
	}

	// Session removed first, release second: a failure here leaves the
	// formation claimed but unattached, which keeps the exclusivity
	// invariant intact and can be retried.
	if err := s.formationRepo.Release(ctx, session.FormationID, planID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return updated, nil
}

// SubmitForValidation moves a draft plan to pending_validation. A plan with
// no attached sessions cannot be submitted.
func (s *planService) SubmitForValidation(ctx context.Context, role domain.Role, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
	if !domain.CanPerform(role, domain.TransitionSubmit) {
		return nil, fmt.Errorf("%w: %s cannot submit plans", ErrNotAllowed, role)
	}

	plan, err := s.getPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(plan.Status, domain.PlanStatusPendingValidation) {
		return nil, fmt.Errorf("%w: cannot submit a plan in status %q", ErrInvalidPlanState, plan.Status)
	}
	if len(plan.Sessions) == 0 {
		return nil, fmt.Errorf("%w: a plan with no formations cannot be submitted", ErrPlanValidation)
	}

	updated, err := s.planRepo.UpdateStatus(ctx, planID, plan.Revision, domain.PlanStatusPendingValidation, nil)
	if err != nil {
		return nil, s.mapPlanWriteError(err)
	}
	return updated, nil
}

// ApprovePlan moves a pending plan to the terminal approved status.
func (s *planService) ApprovePlan(ctx context.Context, role domain.Role, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
	if !domain.CanPerform(role, domain.TransitionApprove) {
		return nil, fmt.Errorf("%w: %s cannot approve plans", ErrNotAllowed, role)
	}

	plan, err := s.getPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(plan.Status, domain.PlanStatusApproved) {
		return nil, fmt.Errorf("%w: cannot approve a plan in status %q", ErrInvalidPlanState, plan.Status)
	}

	updated, err := s.planRepo.UpdateStatus(ctx, planID, plan.Revision, domain.PlanStatusApproved, nil)
	if err != nil {
		return nil, s.mapPlanWriteError(err)
	}
	return updated, nil
}

// RejectPlan moves a pending plan to rejected, recording the rationale.
func (s *planService) RejectPlan(ctx context.Context, role domain.Role, planID primitive.ObjectID, reason string) (*domain.TrainingPlan, error) {
	if !domain.CanPerform(role, domain.TransitionReject) {
		return nil, fmt.Errorf("%w: %s cannot reject plans", ErrNotAllowed, role)
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: a rejection reason is required", ErrPlanValidation)
	}

	plan, err := s.getPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(plan.Status, domain.PlanStatusRejected) {
		return nil, fmt.Errorf("%w: cannot reject a plan in status %q", ErrInvalidPlanState, plan.Status)
	}

	updated, err := s.planRepo.UpdateStatus(ctx, planID, plan.Revision, domain.PlanStatusRejected, &reason)
	if err != nil {
		return nil, s.mapPlanWriteError(err)
	}
	return updated, nil
}

// ResetRejectedPlan returns a rejected plan to draft. Sessions and budget
// are retained; the rejection reason is cleared.
func (s *planService) ResetRejectedPlan(ctx context.Context, role domain.Role, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
	if !domain.CanPerform(role, domain.TransitionReset) {
		return nil, fmt.Errorf("%w: %s cannot reset plans", ErrNotAllowed, role)
	}

	plan, err := s.getPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(plan.Status, domain.PlanStatusDraft) {
		return nil, fmt.Errorf("%w: only rejected plans can be reset to draft", ErrInvalidPlanState)
	}

	clearReason := ""
	updated, err := s.planRepo.UpdateStatus(ctx, planID, plan.Revision, domain.PlanStatusDraft, &clearReason)
	if err != nil {
		return nil, s.mapPlanWriteError(err)
	}
	return updated, nil
}

// UpdatePlanNotes replaces the general notes. Pure metadata update, allowed
// at any status.
func (s *planService) UpdatePlanNotes(ctx context.Context, role domain.Role, planID primitive.ObjectID, notes string) (*domain.TrainingPlan, error) {
	if !domain.CanPerform(role, domain.TransitionUpdateNotes) {
		return nil, fmt.Errorf("%w: %s cannot update plan notes", ErrNotAllowed, role)
	}

	updated, err := s.planRepo.UpdateNotes(ctx, planID, strings.TrimSpace(notes))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return updated, nil
}

// ListPlans returns plans filtered by status. Passing several statuses
// produces a single storage-level query.
func (s *planService) ListPlans(ctx context.Context, role domain.Role, statuses []domain.PlanStatus) ([]domain.TrainingPlan, error) {
	if !domain.CanPerform(role, domain.TransitionView) {
		return nil, fmt.Errorf("%w: %s cannot view plans", ErrNotAllowed, role)
	}
	for _, status := range statuses {
		if !domain.IsValidPlanStatus(status) {
			return nil, fmt.Errorf("%w: unknown status %q", ErrPlanValidation, status)
		}
	}
	return s.planRepo.List(ctx, statuses)
}

// GetPlansByYear returns the plans covering the given calendar year.
func (s *planService) GetPlansByYear(ctx context.Context, role domain.Role, year int) ([]domain.TrainingPlan, error) {
	if !domain.CanPerform(role, domain.TransitionView) {
		return nil, fmt.Errorf("%w: %s cannot view plans", ErrNotAllowed, role)
	}
	return s.planRepo.GetByYear(ctx, year)
}

// GetPlanByID returns the full plan aggregate, sessions included.
func (s *planService) GetPlanByID(ctx context.Context, role domain.Role, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
	if !domain.CanPerform(role, domain.TransitionView) {
		return nil, fmt.Errorf("%w: %s cannot view plans", ErrNotAllowed, role)
	}
	return s.getPlan(ctx, planID)
}

// ListAvailableFormations returns catalog entries not yet attached to a plan.
func (s *planService) ListAvailableFormations(ctx context.Context, role domain.Role) ([]domain.CatalogFormation, error) {
	if !domain.CanPerform(role, domain.TransitionAttachFormation) {
		return nil, fmt.Errorf("%w: %s cannot browse attachable formations", ErrNotAllowed, role)
	}
	return s.formationRepo.ListAvailable(ctx)
}

func (s *planService) getPlan(ctx context.Context, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

// mapPlanWriteError translates repository errors from guarded plan writes.
func (s *planService) mapPlanWriteError(err error) error {
	switch {
	case errors.Is(err, repository.ErrStaleRevision):
		return ErrPlanConflict
	case errors.Is(err, repository.ErrNotFound):
		return ErrPlanNotFound
	}
	return err
}
