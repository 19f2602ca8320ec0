package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanStatus type for the annual training plan lifecycle
type PlanStatus string

const (
	PlanStatusDraft             PlanStatus = "draft"
	PlanStatusPendingValidation PlanStatus = "pending_validation"
	PlanStatusApproved          PlanStatus = "approved" // Terminal
	PlanStatusRejected          PlanStatus = "rejected"
)

// IsValidPlanStatus reports whether s is one of the four lifecycle statuses.
func IsValidPlanStatus(s PlanStatus) bool {
	switch s {
	case PlanStatusDraft, PlanStatusPendingValidation, PlanStatusApproved, PlanStatusRejected:
		return true
	}
	return false
}

// planTransitions defines the only legal status edges.
// draft -> pending_validation -> approved | rejected, rejected -> draft.
var planTransitions = map[PlanStatus][]PlanStatus{
	PlanStatusDraft:             {PlanStatusPendingValidation},
	PlanStatusPendingValidation: {PlanStatusApproved, PlanStatusRejected},
	PlanStatusApproved:          {},
	PlanStatusRejected:          {PlanStatusDraft},
}

// CanTransition checks if a status transition is allowed.
func CanTransition(from, to PlanStatus) bool {
	for _, next := range planTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from the given one.
func NextStatuses(from PlanStatus) []PlanStatus {
	return planTransitions[from]
}

// PlanSession is a catalog formation instantiated inside a specific plan.
// Descriptive fields are copied from the catalog entry at attach time and
// are not independently editable through the plan workflow.
type PlanSession struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	FormationID primitive.ObjectID `bson:"formationId" json:"formationId"` // Catalog entry it was instantiated from
	Budget      float64            `bson:"budget" json:"budget"`
	StartDate   time.Time          `bson:"startDate" json:"startDate"`
	EndDate     time.Time          `bson:"endDate" json:"endDate"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	Trainer     string             `bson:"trainer,omitempty" json:"trainer,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	AttachedAt  time.Time          `bson:"attachedAt" json:"attachedAt"`
}

// TrainingPlan is the annual training-budget aggregate under lifecycle
// control. The total budget is derived from the attached sessions and is
// never stored on its own.
type TrainingPlan struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Year            int                `bson:"year" json:"year"`
	Status          PlanStatus         `bson:"status" json:"status"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	RejectionReason string             `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"` // Set on reject, cleared on reset
	Sessions        []PlanSession      `bson:"sessions" json:"sessions"`
	// Revision is incremented on every mutation and used as an optimistic
	// concurrency token: updates filter on it so that two concurrent writers
	// against the same plan cannot both win.
	Revision  int64     `bson:"revision" json:"revision"`
	CreatedBy string    `bson:"createdBy,omitempty" json:"createdBy,omitempty"` // Account ID of the author
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// TotalBudget is the sum of the attached sessions' budgets. Recomputed on
// every call rather than cached.
func (p *TrainingPlan) TotalBudget() float64 {
	var total float64
	for _, s := range p.Sessions {
		total += s.Budget
	}
	return total
}

// SessionByID returns the attached session with the given ID, or nil.
func (p *TrainingPlan) SessionByID(id primitive.ObjectID) *PlanSession {
	for i := range p.Sessions {
		if p.Sessions[i].ID == id {
			return &p.Sessions[i]
		}
	}
	return nil
}

// HasFormation reports whether the plan already holds a session instantiated
// from the given catalog formation.
func (p *TrainingPlan) HasFormation(formationID primitive.ObjectID) bool {
	for i := range p.Sessions {
		if p.Sessions[i].FormationID == formationID {
			return true
		}
	}
	return false
}
