package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct {
		from, to PlanStatus
	}{
		{PlanStatusDraft, PlanStatusPendingValidation},
		{PlanStatusPendingValidation, PlanStatusApproved},
		{PlanStatusPendingValidation, PlanStatusRejected},
		{PlanStatusRejected, PlanStatusDraft},
	}

	allowedSet := map[[2]PlanStatus]bool{}
	for _, tc := range allowed {
		allowedSet[[2]PlanStatus{tc.from, tc.to}] = true
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	// Every other pair over the four statuses is forbidden, self-loops
	// included.
	statuses := []PlanStatus{PlanStatusDraft, PlanStatusPendingValidation, PlanStatusApproved, PlanStatusRejected}
	for _, from := range statuses {
		for _, to := range statuses {
			if allowedSet[[2]PlanStatus{from, to}] {
				continue
			}
			assert.False(t, CanTransition(from, to), "%s -> %s should be forbidden", from, to)
		}
	}
}

func TestApprovedIsTerminal(t *testing.T) {
	assert.Empty(t, NextStatuses(PlanStatusApproved))
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	assert.False(t, CanTransition(PlanStatus("archived"), PlanStatusDraft))
	assert.False(t, CanTransition(PlanStatusDraft, PlanStatus("archived")))
}

func TestIsValidPlanStatus(t *testing.T) {
	for _, s := range []PlanStatus{PlanStatusDraft, PlanStatusPendingValidation, PlanStatusApproved, PlanStatusRejected} {
		assert.True(t, IsValidPlanStatus(s))
	}
	assert.False(t, IsValidPlanStatus("brouillon"))
	assert.False(t, IsValidPlanStatus(""))
}

func TestTotalBudget(t *testing.T) {
	plan := &TrainingPlan{}
	assert.Equal(t, 0.0, plan.TotalBudget())

	plan.Sessions = []PlanSession{
		{ID: primitive.NewObjectID(), Budget: 1200.50},
		{ID: primitive.NewObjectID(), Budget: 800},
		{ID: primitive.NewObjectID(), Budget: 0},
	}
	assert.InDelta(t, 2000.50, plan.TotalBudget(), 1e-9)
}

func TestSessionLookups(t *testing.T) {
	sessionID := primitive.NewObjectID()
	formationID := primitive.NewObjectID()
	plan := &TrainingPlan{
		Sessions: []PlanSession{
			{ID: sessionID, FormationID: formationID, Budget: 100},
		},
	}

	found := plan.SessionByID(sessionID)
	if assert.NotNil(t, found) {
		assert.Equal(t, formationID, found.FormationID)
	}
	assert.Nil(t, plan.SessionByID(primitive.NewObjectID()))

	assert.True(t, plan.HasFormation(formationID))
	assert.False(t, plan.HasFormation(primitive.NewObjectID()))
}
