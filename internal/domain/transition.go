package domain

// PlanTransition names an action on the plan lifecycle that is subject to
// role gating.
type PlanTransition string

const (
	TransitionCreate          PlanTransition = "create"
	TransitionAttachFormation PlanTransition = "attach_formation"
	TransitionDetachFormation PlanTransition = "detach_formation"
	TransitionSubmit          PlanTransition = "submit"
	TransitionApprove         PlanTransition = "approve"
	TransitionReject          PlanTransition = "reject"
	TransitionReset           PlanTransition = "reset"
	TransitionUpdateNotes     PlanTransition = "update_notes"
	TransitionView            PlanTransition = "view"
)

// transitionRoles is the authorization table for the plan lifecycle.
// Kept as data so it can be audited and tested independently of any
// HTTP or UI layer. Read scope is deliberately broader than write scope.
var transitionRoles = map[PlanTransition][]Role{
	TransitionCreate:          {RoleServiceFormation, RoleAdmin},
	TransitionAttachFormation: {RoleServiceFormation},
	TransitionDetachFormation: {RoleServiceFormation},
	TransitionSubmit:          {RoleServiceFormation},
	TransitionApprove:         {RoleDirecteurGeneral},
	TransitionReject:          {RoleDirecteurGeneral},
	TransitionReset:           {RoleServiceFormation},
	TransitionUpdateNotes:     {RoleServiceFormation, RoleDirecteurGeneral, RoleDirecteurRH, RoleAdmin},
	TransitionView:            {RoleServiceFormation, RoleDirecteurGeneral, RoleDirecteurRH, RoleAdmin},
}

// CanPerform reports whether the given role may perform the given plan
// transition. Unknown transitions are never allowed.
func CanPerform(role Role, transition PlanTransition) bool {
	for _, allowed := range transitionRoles[transition] {
		if role == allowed {
			return true
		}
	}
	return false
}

// AllowedRoles returns the roles permitted to perform the given transition.
func AllowedRoles(transition PlanTransition) []Role {
	return transitionRoles[transition]
}

// PlanReadRoles returns the roles with read access to plans. Used by the
// HTTP layer to gate the listing and detail routes.
func PlanReadRoles() []Role {
	return transitionRoles[TransitionView]
}
