package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating bounds for hot evaluations.
const (
	MinRating = 1
	MaxRating = 5
)

// HotEvaluation is a post-training satisfaction record filled by an
// employee right after attending a formation ("évaluation à chaud").
type HotEvaluation struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FormationID        primitive.ObjectID `bson:"formationId" json:"formationId"`
	EmployeeID         primitive.ObjectID `bson:"employeeId" json:"employeeId"`
	ContentRating      int                `bson:"contentRating" json:"contentRating"`           // 1..5
	TrainerRating      int                `bson:"trainerRating" json:"trainerRating"`           // 1..5
	OrganizationRating int                `bson:"organizationRating" json:"organizationRating"` // 1..5
	Comment            string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
}

// IsValidRating reports whether n is inside the rating scale.
func IsValidRating(n int) bool {
	return n >= MinRating && n <= MaxRating
}

// MaxColdScore is the upper bound of a cold-evaluation score. The console
// averages five star ratings (1..5) and scales the result by 20.
const MaxColdScore = 100

// ColdEvaluation records a manager's assessment of an employee several
// months after a formation ("évaluation à froid"): did the training change
// how the person works. It is filled by the responsable of the employee's
// direction, not by the employee.
type ColdEvaluation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FormationID primitive.ObjectID `bson:"formationId" json:"formationId"`
	EmployeeID  primitive.ObjectID `bson:"employeeId" json:"employeeId"`
	EvaluatorID primitive.ObjectID `bson:"evaluatorId" json:"evaluatorId"`
	Score       float64            `bson:"score" json:"note"` // 0..100
	Question1   string             `bson:"question1,omitempty" json:"question1,omitempty"`
	Question2   string             `bson:"question2,omitempty" json:"question2,omitempty"`
	Question3   string             `bson:"question3,omitempty" json:"question3,omitempty"`
	Question4   string             `bson:"question4,omitempty" json:"question4,omitempty"`
	Service     string             `bson:"service,omitempty" json:"service,omitempty"`
	Comment     string             `bson:"comment,omitempty" json:"commentaire,omitempty"`
	EvaluatedAt time.Time          `bson:"evaluatedAt" json:"dateEvaluation"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// IsValidColdScore reports whether s is inside the cold score scale.
func IsValidColdScore(s float64) bool {
	return s >= 0 && s <= MaxColdScore
}
