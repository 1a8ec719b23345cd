package api

import (
	"net/http"

	"github.com/jakechorley/voluntarios/pkg/core/services"
)

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var creds services.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := services.RegisterVolunteer(r.Context(), s.db, s.tokens, s.notifier, s.logger, s.opts.BaseURL, creds)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Registration successful. Please check your email to verify your account.",
		"user":    user,
	})
}

func (s *Server) verifyEmail(w http.ResponseWriter, r *http.Request) {
	if err := services.VerifyEmail(r.Context(), s.db, s.tokens, s.logger, r.URL.Query().Get("token")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Email verified successfully. You can now log in."})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds services.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := services.Login(r.Context(), s.db, s.tokens, s.logger, creds)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":     result.Token,
		"expiresAt": result.ExpiresAt,
		"user":      result.User,
	})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	user, err := services.GetUser(r.Context(), s.db, mustClaims(r).UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
