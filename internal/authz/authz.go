// Package authz centralizes role checks and visibility scoping. All
// decisions are pure functions of the requesting actor (passed explicitly,
// never pulled from request-global state) and, for ownership checks, the
// target object's owner.
package authz

import (
	"github.com/google/uuid"

	"github.com/openlms/lms-service/internal/models"
)

// Actor is the identity making a request. The zero value is the anonymous
// actor; every role predicate evaluates to false for it.
type Actor struct {
	ID            uuid.UUID
	Role          models.UserRole
	Authenticated bool
}

// Anonymous is the actor for unauthenticated requests.
var Anonymous = Actor{}

// FromUser builds an authenticated actor from a user record.
func FromUser(u *models.User) Actor {
	if u == nil {
		return Anonymous
	}
	return Actor{ID: u.ID, Role: u.Role, Authenticated: true}
}

func IsAdmin(actor Actor) bool {
	return actor.Authenticated && actor.Role == models.RoleAdmin
}

func IsInstructor(actor Actor) bool {
	return actor.Authenticated && actor.Role == models.RoleInstructor
}

func IsStudent(actor Actor) bool {
	return actor.Authenticated && actor.Role == models.RoleStudent
}

func IsAdminOrInstructor(actor Actor) bool {
	return IsAdmin(actor) || IsInstructor(actor)
}

// IsOwnerOrAdmin reports whether the actor may mutate a course owned by
// instructorID: admins always, the owning instructor, nobody else.
func IsOwnerOrAdmin(actor Actor, instructorID uuid.UUID) bool {
	if IsAdmin(actor) {
		return true
	}
	return actor.Authenticated && actor.ID == instructorID
}
