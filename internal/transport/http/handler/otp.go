package handler

import (
	"encoding/json"
	"net/http"

	"github.com/otp-verify-api/internal/application/otp"
	"github.com/otp-verify-api/internal/pkg/phone"
	"github.com/otp-verify-api/internal/pkg/validate"
	"github.com/otp-verify-api/internal/transport/http/middleware"
)

// OTPHandler handles the send-otp and verify-otp endpoints.
type OTPHandler struct {
	svc otp.Service
}

func NewOTPHandler(svc otp.Service) *OTPHandler {
	return &OTPHandler{svc: svc}
}

type sendOTPRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	CountryCode string `json:"country_code,omitempty"`
}

type verifyOTPRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	OTPCode     string `json:"otp_code" validate:"required"`
}

// Send originates an OTP challenge. The phone number is normalized to E.164
// before anything is stored or sent.
func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Phone number required")
		return
	}

	normalized, ok := phone.Normalize(req.PhoneNumber)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid phone format. Use +1 (US) or +967 (Yemen)")
		return
	}

	result, err := h.svc.Send(r.Context(), normalized, middleware.RealIP(r))
	if err != nil {
		httpError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "OTP sent",
		Data:    map[string]interface{}{"sid": result.ProviderRef},
	})
}

// Verify checks a submitted code and, on success, answers with the minted
// session. Unlike Send, the phone number is not normalized here: it must
// match the stored record byte for byte.
func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		// Field checks run in declaration order, phone first.
		if req.PhoneNumber == "" {
			writeError(w, http.StatusBadRequest, "Phone number is required")
		} else {
			writeError(w, http.StatusBadRequest, "OTP code is required")
		}
		return
	}
	if !phone.IsValidFormat(req.PhoneNumber) {
		writeError(w, http.StatusBadRequest, "Invalid phone number format")
		return
	}
	if !phone.IsValidOTPCode(req.OTPCode) {
		writeError(w, http.StatusBadRequest, "Invalid OTP format. Must be 6 digits.")
		return
	}

	result, err := h.svc.Verify(r.Context(), req.PhoneNumber, req.OTPCode, middleware.RealIP(r))
	if err != nil {
		httpError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "OTP verified successfully",
		Data: map[string]interface{}{
			"user_id": result.UserID,
			"session": result.Session,
			"user": map[string]interface{}{
				"id":           result.User.UserID,
				"phone_number": result.User.PhoneNumber,
				"role":         result.User.Role,
			},
		},
	})
}
