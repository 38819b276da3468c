package apitest

// RESPONSE HELPERS:
// Every error the development backend sends has the FloraBase shape
//
//	{"message": "Flower not found"}
//
// which is what client.errorMessage looks for first.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/AshimStha/FloraBase-Frontend/internal/apperror"
)

type errorResponse struct {
	Message string `json:"message"`
}

// writeJSON sets headers and status before the body; once Encode writes,
// header changes are ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("apitest: encoding JSON response", slog.String("error", err.Error()))
		}
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// writeError maps an apperror kind to its status. An explicit Status on the
// AppError wins, which is how 403 is told apart from 401.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	status := appErr.Status
	if status == 0 {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrAuth):
			status = http.StatusUnauthorized
		default:
			status = http.StatusInternalServerError
		}
	}
	writeMessage(w, status, appErr.Message)
}
