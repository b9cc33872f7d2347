package handler

import (
	"encoding/json"
	"net/http"

	"github.com/otp-verify-api/internal/application/session"
	"github.com/otp-verify-api/internal/transport/http/middleware"
)

// SessionHandler handles token refresh and session introspection.
type SessionHandler struct {
	svc session.Service
}

func NewSessionHandler(svc session.Service) *SessionHandler {
	return &SessionHandler{svc: svc}
}

func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refresh_token required")
		return
	}
	sess, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Data:    map[string]interface{}{"session": sess},
	})
}

// GetCurrent echoes the authenticated caller's identity from the access token.
func (h *SessionHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Data: map[string]interface{}{
			"user_id":      claims.Subject,
			"phone_number": claims.PhoneNumber,
			"expires_at":   claims.ExpiresAt.Unix(),
		},
	})
}
