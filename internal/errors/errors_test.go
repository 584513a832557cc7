package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"post not found", ErrPostNotFound, http.StatusNotFound, "POST_NOT_FOUND"},
		{"profile not found", ErrProfileNotFound, http.StatusNotFound, "PROFILE_NOT_FOUND"},
		{"wrapped creation failure", fmt.Errorf("%w: insert post: %w", ErrCreationFailed, errors.New("deadlock")), http.StatusInternalServerError, "CREATION_FAILED"},
		{"invalid input", fmt.Errorf("%w: title is required", ErrInvalidInput), http.StatusBadRequest, "INVALID_INPUT"},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.ToErrorResponse().Code)
		})
	}
}

func TestMapErrorToHTTP_HidesCause(t *testing.T) {
	err := fmt.Errorf("%w: insert comment: %w", ErrCreationFailed, errors.New("password=secret"))
	httpErr := MapErrorToHTTP(err)
	assert.Equal(t, "creation failed", httpErr.Message)
}
