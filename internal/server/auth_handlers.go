package server

import (
	"net/http"
	"time"

	"authflow/internal/auth"
	"authflow/internal/metrics"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	start := time.Now()
	sess, err := s.Auth.Register(r.Context(), req.Name, req.Email, req.Password)
	metrics.Observe("register", err, time.Since(start))
	if err != nil {
		s.writeFlowError(w, r, "register", err)
		return
	}

	s.Cookies.SetSessionCookie(w, sess.Token)
	writeSuccess(w, "Register successful")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	start := time.Now()
	sess, err := s.Auth.Login(r.Context(), req.Email, req.Password)
	metrics.Observe("login", err, time.Since(start))
	if err != nil {
		s.writeFlowError(w, r, "login", err)
		return
	}

	s.Cookies.SetSessionCookie(w, sess.Token)
	writeSuccess(w, "Login successful")
}

// handleLogout clears the cookie unconditionally. The token stays valid
// until it expires.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.Auth.Logout(r.Context(), auth.SessionToken(r))
	metrics.Observe("logout", nil, time.Since(start))

	s.Cookies.ClearSessionCookie(w)
	writeSuccess(w, "Logout successful")
}

func (s *Server) handleIsAuth(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, "User is authenticated")
}

func (s *Server) handleUserData(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	data, err := s.Auth.UserData(r.Context(), accountIDFromContext(r.Context()))
	metrics.Observe("user_data", err, time.Since(start))
	if err != nil {
		s.writeFlowError(w, r, "user_data", err)
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, UserData: &data})
}
