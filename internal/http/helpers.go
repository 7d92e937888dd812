package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"chitieu/internal/core"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondError maps the domain error taxonomy to HTTP status codes. Anything
// unrecognised is logged and reported as a plain 500 without the message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	switch {
	case errors.Is(err, core.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = "unauthorized"
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrDuplicateUser):
		status = http.StatusConflict
	case errors.Is(err, core.ErrUnavailable):
		status = http.StatusServiceUnavailable
		message = "service unavailable"
	default:
		slog.ErrorContext(r.Context(), "Unhandled request error",
			"method", r.Method, "path", r.URL.Path, "error", err)
		message = "internal server error"
	}

	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads the request body into dst; malformed bodies surface as
// validation errors, not internal ones.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", core.ErrValidation, err)
	}
	return nil
}

// yearMonthParams reads optional year and month query parameters, defaulting
// to the current calendar month. month is 1-based on the wire, the returned
// index is 0-based.
func yearMonthParams(r *http.Request, now time.Time) (year, monthIndex int, err error) {
	year = now.Year()
	monthIndex = int(now.Month()) - 1

	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: invalid year %q", core.ErrValidation, raw)
		}
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		m, convErr := strconv.Atoi(raw)
		if convErr != nil || m < 1 || m > 12 {
			return 0, 0, fmt.Errorf("%w: invalid month %q", core.ErrValidation, raw)
		}
		monthIndex = m - 1
	}
	return year, monthIndex, nil
}
