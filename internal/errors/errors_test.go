package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Is_MatchesByCode(t *testing.T) {
	err := PageLocked("page P1 is locked")
	assert.True(t, Is(err, ErrPageLocked))
	assert.False(t, Is(err, ErrPageFull))
	assert.False(t, Is(err, ErrNotFound))
}

func TestError_Is_ThroughWrapping(t *testing.T) {
	inner := NotFound("brochure br-123 not found")
	wrapped := fmt.Errorf("load brochure: %w", inner)

	assert.True(t, Is(wrapped, ErrNotFound))

	var domainErr *Error
	require.True(t, As(wrapped, &domainErr))
	assert.Equal(t, CodeNotFound, domainErr.Code)
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := IO("write image", cause)

	assert.Equal(t, cause, Unwrap(err))
	assert.Contains(t, err.Error(), "disk full")
}

func TestError_WithCause_PreservesCode(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := ErrConflict.WithCause(cause)

	assert.Equal(t, CodeConflict, err.Code)
	assert.True(t, Is(err, ErrConflict))
	assert.Equal(t, cause, Unwrap(err))
}

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeValidation, http.StatusBadRequest},
		{CodeCapacityExceeded, http.StatusUnprocessableEntity},
		{CodePageLocked, http.StatusUnprocessableEntity},
		{CodePageFull, http.StatusUnprocessableEntity},
		{CodeConflict, http.StatusConflict},
		{CodeForbidden, http.StatusForbidden},
		{CodeIO, http.StatusInternalServerError},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_WithDetails(t *testing.T) {
	err := Validation("reorder set mismatch").WithDetails(map[string]any{
		"missing": []string{"page-abc"},
	})

	assert.Equal(t, CodeValidation, err.Code)
	assert.NotNil(t, err.Details)
}
