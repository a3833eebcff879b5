package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// IsNotFoundError reports whether err (possibly wrapped) is a record-not-found.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err is a unique-constraint violation.
// Requires the postgres driver's error translation (enabled at init).
func IsDuplicateError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
