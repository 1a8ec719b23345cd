package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/core/services"
)

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) createOrganization(w http.ResponseWriter, r *http.Request) {
	var input services.OrganizationInput
	if err := decodeJSON(r, &input); err != nil {
		s.writeError(w, r, err)
		return
	}

	org, admin, err := services.CreateOrganization(r.Context(), s.db, s.logger, mustClaims(r).UserID, input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"organization": org,
		"orgAdmin":     admin,
	})
}

func (s *Server) listOrganizations(w http.ResponseWriter, r *http.Request) {
	status := model.OrganizationStatus(r.URL.Query().Get("status"))
	orgs, err := services.ListOrganizations(r.Context(), s.db, status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orgs)
}

func (s *Server) setOrganizationStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	orgID := chi.URLParam(r, "id")
	status := model.OrganizationStatus(req.Status)
	if err := services.SetOrganizationStatus(r.Context(), s.db, s.logger, mustClaims(r).UserID, orgID, status); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": orgID, "status": string(status)})
}

func (s *Server) listAllOpportunities(w http.ResponseWriter, r *http.Request) {
	listings, err := services.ListAllOpportunities(r.Context(), s.db)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (s *Server) listAllSignups(w http.ResponseWriter, r *http.Request) {
	signups, err := services.ListAllSignups(r.Context(), s.db)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, signups)
}

func (s *Server) listActivity(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, r, fmt.Errorf("%w: limit must be a positive integer", model.ErrValidation))
			return
		}
		limit = n
	}

	entries, err := services.ListActivity(r.Context(), s.db, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
