package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NeedPriority ranks how urgently a training need should be addressed. The
// values are the console's French labels, carried as-is on the wire.
type NeedPriority string

const (
	NeedPriorityHigh   NeedPriority = "Elevée"
	NeedPriorityMedium NeedPriority = "Moyenne"
	NeedPriorityLow    NeedPriority = "Faible"
)

// IsValidNeedPriority reports whether p is one of the known priorities.
func IsValidNeedPriority(p NeedPriority) bool {
	switch p {
	case NeedPriorityHigh, NeedPriorityMedium, NeedPriorityLow:
		return true
	}
	return false
}

// TrainingNeed is a request for training raised by a direction before any
// catalog entry or plan exists. Needs feed the planning process upstream of
// the annual plan: the training department turns accepted needs into catalog
// formations.
type TrainingNeed struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"titre"`
	Objective   string               `bson:"objective" json:"objectif"`
	DesiredDate time.Time            `bson:"desiredDate" json:"dateSouhaitee"`
	Priority    NeedPriority         `bson:"priority" json:"priorite"`
	Direction   string               `bson:"direction" json:"direction"`
	EmployeeIDs []primitive.ObjectID `bson:"employeeIds" json:"employeeIds"` // Concerned staff, at least one
	CreatedBy   string               `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}
