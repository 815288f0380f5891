// Package respond writes JSON responses and maps domain errors onto
// HTTP status codes in one place, so handlers stay thin.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/billable/internal/auth"
	"github.com/MrJamesThe3rd/billable/internal/client"
	"github.com/MrJamesThe3rd/billable/internal/invoice"
	"github.com/MrJamesThe3rd/billable/internal/payment"
	"github.com/MrJamesThe3rd/billable/internal/validate"
)

type messageResponse struct {
	Message string `json:"message"`
}

type errorsResponse struct {
	Errors []string `json:"errors"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Message writes a {"message": ...} body with the given status.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, messageResponse{Message: msg})
}

// Error translates a service error into the client-facing response.
// Validation failures carry their full message list; not-found, conflict
// and unauthorized conditions map to their statuses; entity-invariant
// violations surface as a generic bad request; anything else is an
// opaque 500.
func Error(w http.ResponseWriter, err error) {
	var verrs validate.Errors
	if errors.As(err, &verrs) {
		JSON(w, http.StatusBadRequest, errorsResponse{Errors: verrs})
		return
	}

	switch {
	case errors.Is(err, client.ErrNotFound):
		Message(w, http.StatusNotFound, "Client not found")
	case errors.Is(err, invoice.ErrNotFound):
		Message(w, http.StatusNotFound, "Invoice not found")
	case errors.Is(err, payment.ErrNotFound):
		Message(w, http.StatusNotFound, "Payment not found")
	case errors.Is(err, auth.ErrInvalidCredentials):
		Message(w, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, auth.ErrUsernameTaken):
		Message(w, http.StatusConflict, "Username already exists")
	case isInvariantViolation(err):
		Message(w, http.StatusBadRequest, "Invalid request")
	default:
		slog.Error("unexpected error", "error", err)
		Message(w, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}

func isInvariantViolation(err error) bool {
	for _, target := range []error{
		invoice.ErrNegativeAmount,
		invoice.ErrNonPositiveAmount,
		invoice.ErrMissingMethod,
		invoice.ErrNilPayment,
		client.ErrMissingField,
		auth.ErrMissingCredential,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
