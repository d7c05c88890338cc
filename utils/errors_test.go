package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dookan/catalog-backend/services"
)

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var response ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return response
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "validation error",
			err:        services.NewValidationError([]string{"Title must be at least 3 characters"}),
			wantStatus: http.StatusBadRequest,
			wantError:  "bad_request",
		},
		{
			name:       "not found",
			err:        services.ErrProductNotFound,
			wantStatus: http.StatusNotFound,
			wantError:  "not_found",
		},
		{
			name:       "unauthorized",
			err:        services.ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
			wantError:  "unauthorized",
		},
		{
			name:       "conflict",
			err:        services.ErrDuplicateEmail,
			wantStatus: http.StatusConflict,
			wantError:  "conflict",
		},
		{
			name:       "sync failure",
			err:        services.NewDomainError(services.ErrorTypeSyncFailed, "remote mirror write failed", assert.AnError),
			wantStatus: http.StatusInternalServerError,
			wantError:  "sync_failed",
		},
		{
			name:       "repository failure",
			err:        services.NewDomainError(services.ErrorTypeRepository, "failed to insert product", assert.AnError),
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal_error",
		},
		{
			name:       "plain error collapses to 500",
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			require.NoError(t, WriteServiceError(w, tt.err))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantError, decodeError(t, w).Error)
		})
	}
}

func TestWriteServiceError_ValidationDetailsPreserved(t *testing.T) {
	w := httptest.NewRecorder()
	err := services.NewValidationError([]string{"first", "second"})

	require.NoError(t, WriteServiceError(w, err))

	response := decodeError(t, w)
	messages := response.Details["errors"].([]interface{})
	assert.Equal(t, []interface{}{"first", "second"}, messages)
}

func TestWriteServiceError_RepositoryMessageNotLeaked(t *testing.T) {
	w := httptest.NewRecorder()
	err := services.NewDomainError(services.ErrorTypeRepository, "mongo: connection refused to 10.0.0.3", assert.AnError)

	require.NoError(t, WriteServiceError(w, err))

	response := decodeError(t, w)
	assert.Equal(t, "storage operation failed", response.Message)
	assert.NotContains(t, response.Message, "10.0.0.3")
}
