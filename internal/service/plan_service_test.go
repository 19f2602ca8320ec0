package service

import (
	"context"
	"math"
	"testing"
	"time"

	"cevital/training-admin/internal/domain"
	"cevital/training-admin/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- In-memory fakes ---

type fakePlanRepo struct {
	plans map[primitive.ObjectID]*domain.TrainingPlan
	// failNextAttach makes the next AttachSession call fail, to exercise the
	// claim-rollback path.
	failNextAttach error
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: map[primitive.ObjectID]*domain.TrainingPlan{}}
}

func (r *fakePlanRepo) Create(_ context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error) {
	stored := *plan
	stored.ID = primitive.NewObjectID()
	stored.Status = domain.PlanStatusDraft
	stored.Revision = 0
	stored.Sessions = []domain.PlanSession{}
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	r.plans[stored.ID] = &stored
	return stored.ID, nil
}

func (r *fakePlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := clonePlan(plan)
	return &copied, nil
}

func (r *fakePlanRepo) GetByYear(_ context.Context, year int) ([]domain.TrainingPlan, error) {
	var out []domain.TrainingPlan
	for _, plan := range r.plans {
		if plan.Year == year {
			out = append(out, clonePlan(plan))
		}
	}
	return out, nil
}

func (r *fakePlanRepo) List(_ context.Context, statuses []domain.PlanStatus) ([]domain.TrainingPlan, error) {
	var out []domain.TrainingPlan
	for _, plan := range r.plans {
		if len(statuses) == 0 {
			out = append(out, clonePlan(plan))
			continue
		}
		for _, status := range statuses {
			if plan.Status == status {
				out = append(out, clonePlan(plan))
				break
			}
		}
	}
	return out, nil
}

func (r *fakePlanRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, revision int64, status domain.PlanStatus, rejectionReason *string) (*domain.TrainingPlan, error) {
	plan, err := r.guarded(id, revision)
	if err != nil {
		return nil, err
	}
	plan.Status = status
	if rejectionReason != nil {
		plan.RejectionReason = *rejectionReason
	}
	plan.Revision++
	plan.UpdatedAt = time.Now().UTC()
	copied := clonePlan(plan)
	return &copied, nil
}

func (r *fakePlanRepo) UpdateNotes(_ context.Context, id primitive.ObjectID, notes string) (*domain.TrainingPlan, error) {
	plan, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	plan.Notes = notes
	plan.UpdatedAt = time.Now().UTC()
	copied := clonePlan(plan)
	return &copied, nil
}

func (r *fakePlanRepo) AttachSession(_ context.Context, planID primitive.ObjectID, revision int64, session domain.PlanSession) (*domain.TrainingPlan, error) {
	if r.failNextAttach != nil {
		err := r.failNextAttach
		r.failNextAttach = nil
		return nil, err
	}
	plan, err := r.guarded(planID, revision)
	if err != nil {
		return nil, err
	}
	plan.Sessions = append(plan.Sessions, session)
	plan.Revision++
	plan.UpdatedAt = time.Now().UTC()
	copied := clonePlan(plan)
	return &copied, nil
}

func (r *fakePlanRepo) DetachSession(_ context.Context, planID primitive.ObjectID, revision int64, sessionID primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, err := r.guarded(planID, revision)
	if err != nil {
		return nil, err
	}
	kept := plan.Sessions[:0]
	removed := false
	for _, s := range plan.Sessions {
		if s.ID == sessionID {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	if !removed {
		return nil, repository.ErrNotFound
	}
	plan.Sessions = kept
	plan.Revision++
	plan.UpdatedAt = time.Now().UTC()
	copied := clonePlan(plan)
	return &copied, nil
}

func (r *fakePlanRepo) guarded(id primitive.ObjectID, revision int64) (*domain.TrainingPlan, error) {
	plan, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if plan.Revision != revision {
		return nil, repository.ErrStaleRevision
	}
	return plan, nil
}

func clonePlan(plan *domain.TrainingPlan) domain.TrainingPlan {
	copied := *plan
	copied.Sessions = append([]domain.PlanSession(nil), plan.Sessions...)
	return copied
}

type fakeFormationRepo struct {
	formations map[primitive.ObjectID]*domain.CatalogFormation
}

func newFakeFormationRepo() *fakeFormationRepo {
	return &fakeFormationRepo{formations: map[primitive.ObjectID]*domain.CatalogFormation{}}
}

func (r *fakeFormationRepo) Create(_ context.Context, formation *domain.CatalogFormation) (primitive.ObjectID, error) {
	stored := *formation
	if stored.ID == primitive.NilObjectID {
		stored.ID = primitive.NewObjectID()
	}
	r.formations[stored.ID] = &stored
	return stored.ID, nil
}

func (r *fakeFormationRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.CatalogFormation, error) {
	formation, ok := r.formations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *formation
	return &copied, nil
}

func (r *fakeFormationRepo) GetAll(_ context.Context) ([]domain.CatalogFormation, error) {
	var out []domain.CatalogFormation
	for _, f := range r.formations {
		out = append(out, *f)
	}
	return out, nil
}

func (r *fakeFormationRepo) Update(_ context.Context, formation *domain.CatalogFormation) error {
	if _, ok := r.formations[formation.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *formation
	r.formations[formation.ID] = &stored
	return nil
}

func (r *fakeFormationRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	formation, ok := r.formations[id]
	if !ok {
		return repository.ErrNotFound
	}
	if formation.PlanID != nil {
		return repository.ErrFormationClaimed
	}
	delete(r.formations, id)
	return nil
}

func (r *fakeFormationRepo) ListAvailable(_ context.Context) ([]domain.CatalogFormation, error) {
	var out []domain.CatalogFormation
	for _, f := range r.formations {
		if f.PlanID == nil {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFormationRepo) ListCompleted(_ context.Context) ([]domain.CatalogFormation, error) {
	now := time.Now().UTC()
	var out []domain.CatalogFormation
	for _, f := range r.formations {
		if f.IsCompleted(now) {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFormationRepo) Claim(_ context.Context, formationID, planID primitive.ObjectID) (*domain.CatalogFormation, error) {
	formation, ok := r.formations[formationID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if formation.PlanID != nil {
		return nil, repository.ErrFormationClaimed
	}
	formation.PlanID = &planID
	copied := *formation
	return &copied, nil
}

func (r *fakeFormationRepo) Release(_ context.Context, formationID, planID primitive.ObjectID) error {
	formation, ok := r.formations[formationID]
	if !ok {
		return repository.ErrNotFound
	}
	if formation.PlanID == nil || *formation.PlanID != planID {
		return repository.ErrNotFound
	}
	formation.PlanID = nil
	return nil
}

// --- Test helpers ---

type planFixture struct {
	service       PlanService
	planRepo      *fakePlanRepo
	formationRepo *fakeFormationRepo
}

func newPlanFixture(t *testing.T) *planFixture {
	t.Helper()
	planRepo := newFakePlanRepo()
	formationRepo := newFakeFormationRepo()
	return &planFixture{
		service:       NewPlanService(planRepo, formationRepo),
		planRepo:      planRepo,
		formationRepo: formationRepo,
	}
}

func (f *planFixture) addFormation(t *testing.T, theme string) primitive.ObjectID {
	t.Helper()
	id, err := f.formationRepo.Create(context.Background(), &domain.CatalogFormation{
		Theme:     theme,
		StartDate: time.Now().UTC().AddDate(0, 1, 0),
		EndDate:   time.Now().UTC().AddDate(0, 1, 5),
		Location:  "Alger",
		Trainer:   "B. Khelifa",
	})
	require.NoError(t, err)
	return id
}

func (f *planFixture) newDraftPlan(t *testing.T) *domain.TrainingPlan {
	t.Helper()
	plan, err := f.service.CreatePlan(context.Background(), domain.RoleServiceFormation, "tester", time.Now().UTC().Year(), "")
	require.NoError(t, err)
	return plan
}

func (f *planFixture) attach(t *testing.T, planID, formationID primitive.ObjectID, budget float64) *domain.TrainingPlan {
	t.Helper()
	plan, err := f.service.AttachFormation(context.Background(), domain.RoleServiceFormation, planID, AttachFormationInput{
		FormationID: formationID,
		Budget:      &budget,
	})
	require.NoError(t, err)
	return plan
}

func (f *planFixture) submit(t *testing.T, planID primitive.ObjectID) *domain.TrainingPlan {
	t.Helper()
	plan, err := f.service.SubmitForValidation(context.Background(), domain.RoleServiceFormation, planID)
	require.NoError(t, err)
	return plan
}

// --- Lifecycle tests ---

func TestCreatePlan(t *testing.T) {
	f := newPlanFixture(t)

	plan, err := f.service.CreatePlan(context.Background(), domain.RoleServiceFormation, "tester", time.Now().UTC().Year()+1, "  budget round two  ")
	require.NoError(t, err)

	assert.Equal(t, domain.PlanStatusDraft, plan.Status)
	assert.Empty(t, plan.Sessions)
	assert.Equal(t, 0.0, plan.TotalBudget())
	assert.Equal(t, int64(0), plan.Revision)
}

func TestCreatePlanRoleGate(t *testing.T) {
	f := newPlanFixture(t)

	for _, role := range []domain.Role{domain.RoleDirecteurGeneral, domain.RoleDirecteurRH, domain.RoleEmploye, domain.RoleResponsableDirection} {
		_, err := f.service.CreatePlan(context.Background(), role, "tester", time.Now().UTC().Year(), "")
		assert.ErrorIs(t, err, ErrNotAllowed, "role %s", role)
	}

	_, err := f.service.CreatePlan(context.Background(), domain.RoleAdmin, "tester", time.Now().UTC().Year(), "")
	assert.NoError(t, err)
}

func TestCreatePlanYearBounds(t *testing.T) {
	f := newPlanFixture(t)
	year := time.Now().UTC().Year()

	_, err := f.service.CreatePlan(context.Background(), domain.RoleServiceFormation, "tester", year-1, "")
	assert.ErrorIs(t, err, ErrPlanValidation)

	_, err = f.service.CreatePlan(context.Background(), domain.RoleServiceFormation, "tester", year+maxPlanYearsAhead+1, "")
	assert.ErrorIs(t, err, ErrPlanValidation)
}

func TestAttachFormation(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.newDraftPlan(t)
	formationID := f.addFormation(t, "Sécurité industrielle")

	updated := f.attach(t, plan.ID, formationID, 1500)

	require.Len(t, updated.Sessions, 1)
	session := updated.Sessions[0]
	assert.Equal(t, formationID, session.FormationID)
	assert.Equal(t, 1500.0, session.Budget)
	assert.Equal(t, "Alger", session.Location)
	assert.Equal(t, 1500.0, updated.TotalBudget())

	// The catalog entry is no longer available.
	available, err := f.service.ListAvailableFormations(context.Background(), domain.RoleServiceFormation)
	require.NoError(t, err)
	assert.Empty(t, available)
}

func TestAttachFormationValidation(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.newDraftPlan(t)
	formationID := f.addFormation(t, "Comptabilité")

	_, err := f.service.AttachFormation(context.Background(), domain.RoleServiceFormation, plan.ID, AttachFormationInput{FormationID: formationID})
	assert.ErrorIs(t, err, ErrPlanValidation, "missing budget")

	negative := -10.0
	_, err = f.service.AttachFormation(context.Background(), domain.RoleServiceFormation, plan.ID, AttachFormationInput{FormationID: formationID, Budget: &negative})
	assert.ErrorIs(t, err, ErrPlanValidation, "negative budget")

	zero := 0.0
	_, err = f.service.AttachFormation(context.Background(), domain.RoleServiceFormation, plan.ID, AttachFormationInput{FormationID: primitive.NewObjectID(), Budget: &zero})
	assert.ErrorIs(t, err, ErrFormationNotFound)

	// Zero is a legal budget.
	updated, err := f.service.AttachFormation(context.Background(), domain.RoleServiceFormation, plan.ID, AttachFormationInput{FormationID: formationID, Budget: &zero})
	require.NoError(t, err)
	assert.Equal(t, 0.0, updated.TotalBudget())
}

func TestAttachFormationRejectsNonFiniteBudget(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.newDraftPlan(t)
	formationID := f.addFormation(t, "Contrôle de gestion")

	for _, budget := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		b := budget
		_, err := f.service.AttachFormation(context.Background(), domain.RoleServiceFormation, plan.ID, AttachFormationInput{FormationID: formationID, Budget: &b})
		assert.ErrorIs(t, err, ErrPlanValidation, "budget %v", budget)
	}

	// Nothing attached, the total stays finite, and the formation was never
	// claimed.
	current, err := f.service.GetPlanByID(context.Background(), domain.RoleServiceFormation, plan.ID)
	require.NoError(t, err)
	assert.Empty(t, current.Sessions)
	assert.Equal(t, 0.0, current.TotalBudget())

	formation, err := f.formationRepo.GetByID(context.Background(), formationID)
	require.NoError(t, err)
	assert.True(t, formation.IsAvailable())
}

func TestAttachFormationExclusivity(t *testing.T) {
	f := newPlanFixture(t)
	planA := f.newDraftPlan(t)
	planB := f.newDraftPlan(t)
	formationID := f.addFormation(t, "Gestion de projet")

	f.attach(t, planA.ID, formationID, 900)

	budget := 900.0
	_, err := f.service.AttachFormation(context.Background(), domain.RoleServiceFormation, planB.ID, AttachFormationInput{FormationID: formationID, Budget: &budget})
	assert.ErrorIs(t, err, ErrFormationTaken)
}

func TestAttachFormationRollsBackClaimOnFailedWrite(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.newDraftPlan(t)
	formationID := f.addFormation(t, "Logistique")

	f.planRepo.failNextAttach = repository.ErrStaleRevision

	budget := 500.0
	_, err := f.service.AttachFormation(context.Background(), domain.RoleServiceFormation, plan.ID, AttachFormationInput{FormationID: formationID, Budget: &budget})
	assert.ErrorIs(t, err, ErrPlanConflict)

	// The claim must have been released so the formation stays attachable.
	formation, getErr := f.formationRepo.GetByID(context.Background(), formationID)
	require.NoError(t, getErr)
	assert.True(t, formation.IsAvailable())
}

func TestAttachFormationRequiresDraft(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.newDraftPlan(t)
	first := f.addFormation(t, "Maintenance")
	second := f.addFormation(t, "Qualité")

	f.attach(t, plan.ID, first, 100)
	f.submit(t, plan.ID)

	budget := 100.0
	_, err := f.service.AttachFormation(context.Background(), domain.RoleServiceFormation, plan.ID, AttachFormationInput{FormationID: second, Budget: &budget})
	assert.ErrorIs(t, err, ErrInvalidPlanState)

	// Detach is equally draft-only; the submitted plan keeps its sessions.
	current, err := f.service.GetPlanByID(context.Background(), domain.RoleServiceFormation, plan.ID)
	require.NoError(t, err)
	_, err = f.service.DetachFormation(context.Background(), domain.RoleServiceFormation, plan.ID, current.Sessions[0].ID)
	assert.ErrorIs(t, err, ErrInvalidPlanState)

	after, err := f.service.GetPlanByID(context.Background(), domain.RoleServiceFormation, plan.ID)
	require.NoError(t, err)
	assert.Len(t, after.Sessions, 1)
	assert.Equal(t, 100.0, after.TotalBudget())
}

func TestDetachFormation(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.newDraftPlan(t)
	formationID := f.addFormation(t, "Bureautique")

	updated := f.attach(t, plan.ID, formationID, 300)
	sessionID := updated.Sessions[0].ID

	detached, err := f.service.DetachFormation(context.Background(), domain.RoleServiceFormation, plan.ID, sessionID)
	require.NoError(t, err)
	assert.Empty(t, detached.Sessions)
	assert.Equal(t, 0.0, detached.TotalBudget())

	// The formation is attachable again, including by another plan.
	other := f.newDraftPlan(t)
	f.attach(t, other.ID, formationID, 300)
}

func TestDetachFormationByCatalogID(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.newDraftPlan(t)
	formationID := f.addFormation(t, "Langues")

	f.attach(t, plan.ID, formationID, 250)

	// Addressing the session by its source catalog formation ID also works.
	detached, err := f.service.DetachFormation(context.Background(), domain.RoleServiceFormation, plan.ID, formationID)
	require.NoError(t, err)
	assert.Empty(t, detached.Sessions)
}

func TestDetachFormationUnknownSession(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.newDraftPlan(t)

	_, err := f.service.DetachFormation(context.Background(), domain.RoleServiceFormation, plan.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSubmitForValidation(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.newDraftPlan(t)
	formationID := f.addFormation(t, "RH")
	f.attach(t, plan.ID, formationID, 700)

	submitted := f.submit(t, plan.ID)
	assert.Equal(t, domain.PlanStatusPendingValidation, submitted.Status)

	// Submitting again is an illegal transition, not a validation error.
	_, err := f.service.SubmitForValidation(context.Background(), domain.RoleServiceFormation, plan.ID)
	assert.ErrorIs(t, err, ErrInvalidPlanState)
}

func TestSubmitEmptyPlanRefused(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.newDraftPlan(t)

	_, err := f.service.SubmitForValidation(context.Background(), domain.RoleServiceFormation, plan.ID)
	assert.ErrorIs(t, err, ErrPlanValidation)
}

func TestApprovePlan(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.newDraftPlan(t)
	f.attach(t, plan.ID, f.addFormation(t, "HSE"), 400)
	f.submit(t, plan.ID)

	approved, err := f.service.ApprovePlan(context.Background(), domain.RoleDirecteurGeneral, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanStatusApproved, approved.Status)

	// Approved is terminal.
	_, err = f.service.SubmitForValidation(context.Background(), domain.RoleServiceFormation, plan.ID)
	assert.ErrorIs(t, err, ErrInvalidPlanState)
	_, err = f.service.RejectPlan(context.Background(), domain.RoleDirecteurGeneral, plan.ID, "too late")
	assert.ErrorIs(t, err, ErrInvalidPlanState)
	_, err = f.service.ResetRejectedPlan(context.Background(), domain.RoleServiceFormation, plan.ID)
	assert.ErrorIs(t, err, ErrInvalidPlanState)
}

func TestApproveRequiresDirecteurGeneral(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.newDraftPlan(t)
	f.attach(t, plan.ID, f.addFormation(t, "Finance"), 400)
	f.submit(t, plan.ID)

	for _, role := range []domain.Role{domain.RoleServiceFormation, domain.RoleAdmin, domain.RoleDirecteurRH} {
		_, err := f.service.ApprovePlan(context.Background(), role, plan.ID)
		assert.ErrorIs(t, err, ErrNotAllowed, "role %s", role)
	}
}

func TestApproveDraftRefused(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.newDraftPlan(t)

	_, err := f.service.ApprovePlan(context.Background(), domain.RoleDirecteurGeneral, plan.ID)
	assert.ErrorIs(t, err, ErrInvalidPlanState)
}

func TestRejectPlan(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.newDraftPlan(t)
	f.attach(t, plan.ID, f.addFormation(t, "Achat"), 600)
	f.submit(t, plan.ID)

	rejected, err := f.service.RejectPlan(context.Background(), domain.RoleDirecteurGeneral, plan.ID, "  budget trop élevé  ")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanStatusRejected, rejected.Status)
	assert.Equal(t, "budget trop élevé", rejected.RejectionReason)
	// General notes are untouched by a rejection.
	assert.Empty(t, rejected.Notes)
}

func TestRejectRequiresReason(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.newDraftPlan(t)
	f.attach(t, plan.ID, f.addFormation(t, "Audit"), 600)
	f.submit(t, plan.ID)

	_, err := f.service.RejectPlan(context.Background(), domain.RoleDirecteurGeneral, plan.ID, "   ")
	assert.ErrorIs(t, err, ErrPlanValidation)
}

func TestResetRejectedPlan(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.newDraftPlan(t)
	f.attach(t, plan.ID, f.addFormation(t, "Informatique"), 950)
	f.submit(t, plan.ID)
	_, err := f.service.RejectPlan(context.Background(), domain.RoleDirecteurGeneral, plan.ID, "revoir le contenu")
	require.NoError(t, err)

	reset, err := f.service.ResetRejectedPlan(context.Background(), domain.RoleServiceFormation, plan.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.PlanStatusDraft, reset.Status)
	// Sessions and budget survive the reset; the rejection reason does not.
	assert.Len(t, reset.Sessions, 1)
	assert.Equal(t, 950.0, reset.TotalBudget())
	assert.Empty(t, reset.RejectionReason)

	// The full rework loop closes: the reset draft can be resubmitted.
	resubmitted := f.submit(t, plan.ID)
	assert.Equal(t, domain.PlanStatusPendingValidation, resubmitted.Status)
}

func TestConcurrentTransitionLosesCleanly(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.newDraftPlan(t)
	f.attach(t, plan.ID, f.addFormation(t, "Management"), 800)
	f.submit(t, plan.ID)

	// First decision wins.
	_, err := f.service.ApprovePlan(context.Background(), domain.RoleDirecteurGeneral, plan.ID)
	require.NoError(t, err)

	// A stale write attempted directly against the old revision is refused
	// by the revision guard.
	_, err = f.planRepo.UpdateStatus(context.Background(), plan.ID, 2, domain.PlanStatusRejected, nil)
	assert.ErrorIs(t, err, repository.ErrStaleRevision)
}

func TestUpdatePlanNotes(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.newDraftPlan(t)
	f.attach(t, plan.ID, f.addFormation(t, "Production"), 120)
	f.submit(t, plan.ID)

	// Notes are editable in any status, for any reader role.
	updated, err := f.service.UpdatePlanNotes(context.Background(), domain.RoleDirecteurRH, plan.ID, "  à discuter en comité  ")
	require.NoError(t, err)
	assert.Equal(t, "à discuter en comité", updated.Notes)
	assert.Equal(t, domain.PlanStatusPendingValidation, updated.Status)

	_, err = f.service.UpdatePlanNotes(context.Background(), domain.RoleEmploye, plan.ID, "x")
	assert.ErrorIs(t, err, ErrNotAllowed)
}

func TestListPlansStatusFilter(t *testing.T) {
	f := newPlanFixture(t)

	draft := f.newDraftPlan(t)
	_ = draft

	pending := f.newDraftPlan(t)
	f.attach(t, pending.ID, f.addFormation(t, "Thème A"), 10)
	f.submit(t, pending.ID)

	approved := f.newDraftPlan(t)
	f.attach(t, approved.ID, f.addFormation(t, "Thème B"), 20)
	f.submit(t, approved.ID)
	_, err := f.service.ApprovePlan(context.Background(), domain.RoleDirecteurGeneral, approved.ID)
	require.NoError(t, err)

	all, err := f.service.ListPlans(context.Background(), domain.RoleDirecteurRH, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	decided, err := f.service.ListPlans(context.Background(), domain.RoleDirecteurRH, []domain.PlanStatus{domain.PlanStatusPendingValidation, domain.PlanStatusApproved})
	require.NoError(t, err)
	assert.Len(t, decided, 2)

	_, err = f.service.ListPlans(context.Background(), domain.RoleDirecteurRH, []domain.PlanStatus{"archived"})
	assert.ErrorIs(t, err, ErrPlanValidation)

	_, err = f.service.ListPlans(context.Background(), domain.RoleEmploye, nil)
	assert.ErrorIs(t, err, ErrNotAllowed)
}

func TestGetPlanByID(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.newDraftPlan(t)

	fetched, err := f.service.GetPlanByID(context.Background(), domain.RoleAdmin, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, fetched.ID)

	// Reads are idempotent: two fetches with no intervening mutation agree.
	again, err := f.service.GetPlanByID(context.Background(), domain.RoleAdmin, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, fetched, again)

	_, err = f.service.GetPlanByID(context.Background(), domain.RoleAdmin, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrPlanNotFound)
}
