package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/core/services"
)

// listPublicOpportunities serves both the public and the volunteer listing
func (s *Server) listPublicOpportunities(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	listings, err := services.ListPublishedOpportunities(r.Context(), s.db, filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (s *Server) getPublicOpportunity(w http.ResponseWriter, r *http.Request) {
	listing, err := services.GetPublishedOpportunity(r.Context(), s.db, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (s *Server) signUp(w http.ResponseWriter, r *http.Request) {
	signup, err := services.SignUp(r.Context(), s.db, s.notifier, s.logger, mustClaims(r).UserID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, signup)
}

func (s *Server) cancelSignup(w http.ResponseWriter, r *http.Request) {
	signupID := chi.URLParam(r, "id")
	if err := services.CancelSignup(r.Context(), s.db, s.notifier, s.logger, signupID, mustClaims(r).UserID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": signupID, "status": string(model.SignupCancelled)})
}

func (s *Server) mySignups(w http.ResponseWriter, r *http.Request) {
	signups, err := services.ListVolunteerSignups(r.Context(), s.db, mustClaims(r).UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, signups)
}

func parseFilter(r *http.Request) (model.OpportunityFilter, error) {
	q := r.URL.Query()
	filter := model.OpportunityFilter{Location: q.Get("location")}

	var err error
	if filter.StartsAfter, err = parseDate(q.Get("startDate")); err != nil {
		return filter, fmt.Errorf("%w: startDate: %v", model.ErrValidation, err)
	}
	if filter.EndsBefore, err = parseDate(q.Get("endDate")); err != nil {
		return filter, fmt.Errorf("%w: endDate: %v", model.ErrValidation, err)
	}
	return filter, nil
}

// parseDate accepts RFC 3339 timestamps or plain dates; empty means unbounded
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, raw)
}
