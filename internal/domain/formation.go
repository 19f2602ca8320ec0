package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogFormation is a reusable training definition from which plan
// sessions are instantiated. A catalog entry can belong to at most one plan
// at a time: PlanID is set atomically when the entry is attached and cleared
// when it is detached.
type CatalogFormation struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Theme     string              `bson:"theme" json:"theme"`
	StartDate time.Time           `bson:"startDate" json:"startDate"`
	EndDate   time.Time           `bson:"endDate" json:"endDate"`
	Location  string              `bson:"location,omitempty" json:"location,omitempty"`
	Trainer   string              `bson:"trainer,omitempty" json:"trainer,omitempty"`
	Notes     string              `bson:"notes,omitempty" json:"notes,omitempty"`
	PlanID    *primitive.ObjectID `bson:"planId,omitempty" json:"planId,omitempty"` // Plan currently holding this formation, if any
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// IsAvailable reports whether the formation can still be attached to a plan.
func (f *CatalogFormation) IsAvailable() bool {
	return f.PlanID == nil
}

// IsCompleted reports whether the formation's end date has passed.
func (f *CatalogFormation) IsCompleted(now time.Time) bool {
	return f.EndDate.Before(now)
}
