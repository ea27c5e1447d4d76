package utils

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"rental-backend/internal/models"
)

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[HTTP] Failed to encode response: %v", err)
	}
}

// Error writes {"message": msg} with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch models.KindOf(err) {
	case models.ErrNotFound:
		return http.StatusNotFound
	case models.ErrValidation:
		return http.StatusBadRequest
	case models.ErrConflict:
		return http.StatusConflict
	case models.ErrUnavailable:
		return http.StatusServiceUnavailable
	case models.ErrUpstream:
		return http.StatusBadGateway
	case models.ErrUnauthorized:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// WriteError renders err with the status of its kind. Untyped errors are
// logged and hidden behind a generic message.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	switch status {
	case http.StatusInternalServerError:
		log.Printf("[HTTP] Internal error: %v", err)
		Error(w, status, "internal server error")
	case http.StatusGatewayTimeout:
		Error(w, status, "request timed out")
	default:
		Error(w, status, models.Message(err))
	}
}
