package rest

import (
	"errors"
	"net/http"

	"eswika/domain"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// statusForError maps domain sentinel errors to HTTP status codes.
// Unrecognized errors from the business layer are treated as client
// errors, matching how the services surface validation failures.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrCheckoutFailed):
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrMissingPaymentFields),
		errors.Is(err, domain.ErrInvalidPaymentMethod),
		errors.Is(err, domain.ErrInvalidPaymentState):
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}
