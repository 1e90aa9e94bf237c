package domain

import (
	"errors"

	"github.com/aradsms/contactbook/internal/platform/apperror"
)

// ErrNotFound indicates that a requested contact does not exist.
var ErrNotFound = errors.New("contact not found")

type (
	ValidationError = apperror.ValidationError
	StorageError    = apperror.StorageError
)

var (
	ErrValidation      = apperror.ErrValidation
	ErrStorage         = apperror.ErrStorage
	NewValidationError = apperror.NewValidationError
	NewStorageError    = apperror.NewStorageError
)
