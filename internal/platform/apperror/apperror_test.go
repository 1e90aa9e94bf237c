package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("adding: %w", NewValidationError("name", "Name cannot be empty."))

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrStorage))
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "name", verr.Field)
	assert.Equal(t, "adding: Name cannot be empty.", err.Error())
}
