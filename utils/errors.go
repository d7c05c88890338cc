package utils

import (
	"net/http"

	"github.com/dookan/catalog-backend/services"
)

// WriteServiceError maps a services.DomainError to the matching HTTP
// response. Unknown error types collapse to 500 without leaking the
// underlying message.
func WriteServiceError(w http.ResponseWriter, err error) error {
	switch services.GetErrorType(err) {
	case services.ErrorTypeValidation:
		return WriteBadRequest(w, err.Error(), services.GetErrorDetails(err))
	case services.ErrorTypeNotFound:
		return WriteNotFound(w, err.Error())
	case services.ErrorTypeUnauthorized:
		return WriteUnauthorized(w, err.Error())
	case services.ErrorTypeConflict:
		return WriteConflict(w, err.Error(), services.GetErrorDetails(err))
	case services.ErrorTypeSyncFailed:
		return WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "sync_failed",
			Message: err.Error(),
			Details: services.GetErrorDetails(err),
		})
	case services.ErrorTypeRepository:
		return WriteInternalServerError(w, "storage operation failed")
	default:
		return WriteInternalServerError(w, "")
	}
}
