package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/otp-verify-api/internal/domain"
)

// Envelope is the generic response wrapper. Every endpoint answers with this
// shape: success plus either message/data or error.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Envelope{Success: false, Error: msg})
}

// httpError maps domain sentinel errors to status codes. Provider errors keep
// their upstream message; anything unrecognized is masked as a generic 500.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, userMessage(err))
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, userMessage(err))
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, userMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, userMessage(err))
	case errors.Is(err, domain.ErrProvider):
		writeError(w, http.StatusInternalServerError, userMessage(err))
	default:
		slog.Error("unhandled error", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// userMessage strips the trailing ": <sentinel>" wrap so clients see only the
// human-readable part.
func userMessage(err error) string {
	msg := err.Error()
	if u := errors.Unwrap(err); u != nil {
		suffix := ": " + u.Error()
		if len(msg) > len(suffix) && msg[len(msg)-len(suffix):] == suffix {
			return msg[:len(msg)-len(suffix)]
		}
	}
	return msg
}
