package repository

import (
	"context"

	"cevital/training-admin/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound = RepositoryError("not found")
	// ErrStaleRevision is returned when an optimistic update against a plan
	// does not match the expected revision: the plan was mutated by someone
	// else between the read and the write.
	ErrStaleRevision = RepositoryError("stale plan revision")
	// ErrFormationClaimed is returned when a catalog formation is already
	// attached to a plan.
	ErrFormationClaimed = RepositoryError("formation already attached to a plan")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate    = RepositoryError("duplicate record")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// PlanRepository defines the interface for interacting with training plan
// aggregates. All mutating methods take the expected revision and fail with
// ErrStaleRevision when the stored plan has moved on, which is the
// concurrency guard for the lifecycle engine. Mutations return the updated
// aggregate so callers never need a follow-up fetch.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error)
	GetByYear(ctx context.Context, year int) ([]domain.TrainingPlan, error)
	// List returns plans whose status is in statuses; an empty slice means
	// no filter. The multi-status case is a single storage-level query.
	List(ctx context.Context, statuses []domain.PlanStatus) ([]domain.TrainingPlan, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, revision int64, status domain.PlanStatus, rejectionReason *string) (*domain.TrainingPlan, error)
	UpdateNotes(ctx context.Context, id primitive.ObjectID, notes string) (*domain.TrainingPlan, error)
	AttachSession(ctx context.Context, planID primitive.ObjectID, revision int64, session domain.PlanSession) (*domain.TrainingPlan, error)
	DetachSession(ctx context.Context, planID primitive.ObjectID, revision int64, sessionID primitive.ObjectID) (*domain.TrainingPlan, error)
}

// FormationRepository defines the interface for catalog formation data.
type FormationRepository interface {
	Create(ctx context.Context, formation *domain.CatalogFormation) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CatalogFormation, error)
	GetAll(ctx context.Context) ([]domain.CatalogFormation, error)
	Update(ctx context.Context, formation *domain.CatalogFormation) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// ListAvailable returns catalog entries not attached to any plan.
	ListAvailable(ctx context.Context) ([]domain.CatalogFormation, error)
	// ListCompleted returns catalog entries whose end date has passed.
	ListCompleted(ctx context.Context) ([]domain.CatalogFormation, error)
	// Claim atomically marks the formation as attached to planID. It fails
	// with ErrFormationClaimed when the entry already belongs to a plan, so
	// two concurrent attach attempts cannot both win.
	Claim(ctx context.Context, formationID, planID primitive.ObjectID) (*domain.CatalogFormation, error)
	// Release clears the plan linkage set by Claim. Only the owning plan
	// may release.
	Release(ctx context.Context, formationID, planID primitive.ObjectID) error
}

// UserRepository defines the interface for interacting with account data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetAvatarKey(ctx context.Context, id primitive.ObjectID, avatarKey string) error
}

// EmployeeRepository defines the interface for interacting with employee data.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) (primitive.ObjectID, error)
	GetByMatricule(ctx context.Context, matricule string) (*domain.Employee, error)
	GetAll(ctx context.Context) ([]domain.Employee, error)
	Update(ctx context.Context, employee *domain.Employee) error
	Delete(ctx context.Context, matricule string) error
}

// EvaluationRepository defines the interface for hot evaluation records.
type EvaluationRepository interface {
	Create(ctx context.Context, evaluation *domain.HotEvaluation) (primitive.ObjectID, error)
	GetByFormationID(ctx context.Context, formationID primitive.ObjectID) ([]domain.HotEvaluation, error)
	GetByEmployeeID(ctx context.Context, employeeID primitive.ObjectID) ([]domain.HotEvaluation, error)
}

// ColdEvaluationRepository defines the interface for cold evaluation records.
type ColdEvaluationRepository interface {
	Create(ctx context.Context, evaluation *domain.ColdEvaluation) (primitive.ObjectID, error)
	GetAll(ctx context.Context) ([]domain.ColdEvaluation, error)
	GetByFormationID(ctx context.Context, formationID primitive.ObjectID) ([]domain.ColdEvaluation, error)
	GetByEmployeeID(ctx context.Context, employeeID primitive.ObjectID) ([]domain.ColdEvaluation, error)
}

// NeedRepository defines the interface for training need records.
type NeedRepository interface {
	Create(ctx context.Context, need *domain.TrainingNeed) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingNeed, error)
	GetAll(ctx context.Context) ([]domain.TrainingNeed, error)
	Update(ctx context.Context, need *domain.TrainingNeed) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DeleteMany removes every need whose id is in ids and returns the number
	// of records removed.
	DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error)
}
