package appErrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
)

func TestNotFoundUnwrapsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("loading: %w", appErrors.NewNotFound("customer", 7))

	var nf *appErrors.NotFoundError
	assert.True(t, errors.As(err, &nf))
	assert.Equal(t, "customer", nf.Resource)
	assert.Equal(t, "customer with ID 7 not found", nf.Error())
}

func TestValidationErrorMessage(t *testing.T) {
	err := &appErrors.ValidationError{Fields: []appErrors.FieldError{
		{Field: "email", Message: "Valid email is required"},
		{Field: "phone", Message: "Phone is required"},
	}}
	assert.Equal(t, "validation failed: Valid email is required; Phone is required", err.Error())
}

func TestConflictFormatsMessage(t *testing.T) {
	err := appErrors.NewConflict("payment of %.2f exceeds balance %.2f", 50.0, 20.0)
	assert.Equal(t, "payment of 50.00 exceeds balance 20.00", err.Error())
}
