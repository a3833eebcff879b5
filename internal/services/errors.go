package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors handlers map onto HTTP statuses.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrResetTokenInvalid  = errors.New("reset token invalid or already used")

	// Login failures are deliberately indistinguishable: the same error
	// covers an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrTokenRevoked       = errors.New("token has been revoked")

	ErrForbidden = errors.New("forbidden")
)

// PermissionError carries who tried what on which resource, for logs and
// the 403 response body.
type PermissionError struct {
	ActorID    uuid.UUID
	ResourceID uuid.UUID
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %s: %s",
		e.ActorID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func (e *PermissionError) Unwrap() error {
	return ErrForbidden
}

func NewPermissionError(actorID, resourceID uuid.UUID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		ActorID:    actorID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsPermissionError reports whether err is (or wraps) a permission denial.
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe) || errors.Is(err, ErrForbidden)
}
