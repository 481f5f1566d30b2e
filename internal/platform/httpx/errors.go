package httpx

import (
	"errors"
	"net/http"

	"github.com/kisanlog/kisanlog/internal/shared"
)

// InternalErrorMessage is the only message ever returned for unexpected failures.
const InternalErrorMessage = "Internal server error"

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrDuplicate):
		// Duplicates surface as 400, which is what the browser forms expect.
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrInvalidCredentials), errors.Is(err, shared.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// RespondError maps domain errors to the JSON error envelope.
// Messages of unexpected errors are replaced by a generic one.
func RespondError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = InternalErrorMessage
	}
	Fail(w, status, message)
}
