package validator

import (
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/aigymos/gym-console/errors"
)

type sample struct {
	Status string `json:"status" validate:"required,oneof=todo doing"`
	Plan   string `query:"plan" validate:"omitempty,oneof=all anual"`
	Limit  int    `validate:"omitempty,max=10"`
}

func TestValidate(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(&sample{Status: "todo"}))

	err := v.Validate(&sample{Plan: "weekly", Limit: 11})
	var appErr apperrors.AppError
	require.True(t, stdErrors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorCode_INVALID_ARGUMENT, appErr.Code)
	assert.Equal(t, map[string]string{
		"status": "is required",
		"plan":   "must be one of: all anual",
		"Limit":  "must be at most 10",
	}, appErr.Details)
}
