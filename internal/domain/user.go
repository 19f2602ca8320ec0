package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleAdmin                Role = "admin"
	RoleServiceFormation     Role = "service_formation"
	RoleDirecteurGeneral     Role = "directeur_general"
	RoleDirecteurRH          Role = "directeur_rh"
	RoleResponsableDirection Role = "responsable_direction"
	RoleEmploye              Role = "employe"
)

// AllRoles lists every role an account may carry. Used for input validation.
var AllRoles = []Role{
	RoleAdmin,
	RoleServiceFormation,
	RoleDirecteurGeneral,
	RoleDirecteurRH,
	RoleResponsableDirection,
	RoleEmploye,
}

// IsValidRole reports whether r is one of the known roles.
func IsValidRole(r Role) bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User represents an account on the administration console.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName    string             `bson:"firstName" json:"firstName"`
	LastName     string             `bson:"lastName" json:"lastName"`
	Email        string             `bson:"email" json:"email"` // Should be unique
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	AvatarKey    string             `bson:"avatarKey,omitempty" json:"-"` // Object storage key, resolved to a presigned URL on demand
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
