package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/msomdec/microblog/internal/domain"
)

const maxBodyBytes = 1 << 20

// errorResponse is the JSON envelope for every failed request.
type errorResponse struct {
	Timestamp        string            `json:"timestamp"`
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	Path             string            `json:"path"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}

// writeJSON sends a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

// writeError sends the error envelope with the given status code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, errorResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      r.URL.Path,
	})
}

func writeValidationError(w http.ResponseWriter, r *http.Request, verr *domain.ValidationError) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		Status:           http.StatusBadRequest,
		Error:            "Validation Error",
		Message:          "Validation failed, please check the fields",
		Path:             r.URL.Path,
		ValidationErrors: verr.Fields,
	})
}

// writeServiceError maps a service error onto a status code. Unknown errors
// are logged and reported as 500 without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeValidationError(w, r, verr)
		return
	}
	status, message := describeError(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, r, status, message)
}

// describeError returns the status code and client-safe message for a
// service error.
func describeError(err error) (int, string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, strings.TrimPrefix(verr.Error(), "validation failed: ")
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, publicMessage(err, domain.ErrNotFound)
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, publicMessage(err, domain.ErrAlreadyExists)
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, publicMessage(err, domain.ErrInvalidInput)
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, publicMessage(err, domain.ErrUnauthorized)
	default:
		return http.StatusInternalServerError, "An unexpected error occurred. Please try again later."
	}
}

// publicMessage strips the sentinel prefix so "not found: stream not found
// with id 3" reads "stream not found with id 3".
func publicMessage(err, sentinel error) string {
	msg := err.Error()
	if trimmed := strings.TrimPrefix(msg, sentinel.Error()+": "); trimmed != msg {
		return trimmed
	}
	return msg
}

// readJSON decodes the request body into the given destination.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", domain.ErrInvalidInput)
		}
		return fmt.Errorf("%w: request body is not valid JSON", domain.ErrInvalidInput)
	}
	return nil
}
