package server

import (
	"net/http"
	"time"

	"authflow/internal/metrics"
)

func (s *Server) handleSendVerifyOTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	err := s.Auth.SendVerifyOTP(r.Context(), accountIDFromContext(r.Context()))
	metrics.Observe("send_verify_otp", err, time.Since(start))
	if err != nil {
		s.writeFlowError(w, r, "send_verify_otp", err)
		return
	}
	writeSuccess(w, "Verification OTP sent successfully")
}

type verifyEmailRequest struct {
	OTP string `json:"otp"`
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	start := time.Now()
	err := s.Auth.VerifyEmail(r.Context(), accountIDFromContext(r.Context()), req.OTP)
	metrics.Observe("verify_email", err, time.Since(start))
	if err != nil {
		s.writeFlowError(w, r, "verify_email", err)
		return
	}
	writeSuccess(w, "Email verified successfully")
}

type sendResetOTPRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleSendResetOTP(w http.ResponseWriter, r *http.Request) {
	var req sendResetOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	start := time.Now()
	err := s.Auth.SendResetOTP(r.Context(), req.Email)
	metrics.Observe("send_reset_otp", err, time.Since(start))
	if err != nil {
		s.writeFlowError(w, r, "send_reset_otp", err)
		return
	}
	writeSuccess(w, "Reset OTP sent successfully")
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	start := time.Now()
	err := s.Auth.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword)
	metrics.Observe("reset_password", err, time.Since(start))
	if err != nil {
		s.writeFlowError(w, r, "reset_password", err)
		return
	}
	writeSuccess(w, "Password reset successfully")
}
