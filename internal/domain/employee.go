package domain

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// matriculePattern: company employee numbers are exactly six digits.
var matriculePattern = regexp.MustCompile(`^\d{6}$`)

// IsValidMatricule reports whether the matricule has the expected format.
func IsValidMatricule(matricule string) bool {
	return matriculePattern.MatchString(matricule)
}

// Employee is a staff member that can be enrolled in trainings. Employees
// are keyed by their matricule rather than their document ID in the public
// API.
type Employee struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Matricule string              `bson:"matricule" json:"matricule"` // Unique, six digits
	FirstName string              `bson:"firstName" json:"firstName"`
	LastName  string              `bson:"lastName" json:"lastName"`
	Email     string              `bson:"email,omitempty" json:"email,omitempty"`
	Position  string              `bson:"position,omitempty" json:"position,omitempty"`
	Direction string              `bson:"direction,omitempty" json:"direction,omitempty"`
	UserID    *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"` // Linked console account, if any
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}
