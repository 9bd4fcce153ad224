package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aliskhannn/ap-prep/internal/domain/entities"
	"github.com/aliskhannn/ap-prep/internal/repository"
	"github.com/aliskhannn/ap-prep/internal/service"
)

// JSON writes v as the response body with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, entities.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, repository.ErrBankNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) int {
	status := statusFor(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}

	JSON(w, status, errorResponse{Error: msg})
	return status
}
