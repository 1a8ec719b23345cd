package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/core/services"
)

type seriesRequest struct {
	services.OpportunityInput
	RRule string `json:"rrule"`
}

func (s *Server) createOpportunity(w http.ResponseWriter, r *http.Request) {
	var input services.OpportunityInput
	if err := decodeJSON(r, &input); err != nil {
		s.writeError(w, r, err)
		return
	}

	claims := mustClaims(r)
	opp, err := services.CreateOpportunity(r.Context(), s.db, s.logger, claims.UserID, claims.OrgID, input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, opp)
}

func (s *Server) createSeries(w http.ResponseWriter, r *http.Request) {
	var req seriesRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	claims := mustClaims(r)
	opps, err := services.CreateOpportunitySeries(r.Context(), s.db, s.logger, claims.UserID, claims.OrgID,
		req.OpportunityInput, req.RRule, s.opts.MaxSeriesOccurrences)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, opps)
}

func (s *Server) updateOpportunity(w http.ResponseWriter, r *http.Request) {
	var input services.OpportunityInput
	if err := decodeJSON(r, &input); err != nil {
		s.writeError(w, r, err)
		return
	}

	claims := mustClaims(r)
	opp, err := services.UpdateOpportunity(r.Context(), s.db, s.logger, claims.UserID, claims.OrgID, chi.URLParam(r, "id"), input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opp)
}

func (s *Server) publishOpportunity(w http.ResponseWriter, r *http.Request) {
	claims := mustClaims(r)
	opp, err := services.PublishOpportunity(r.Context(), s.db, s.logger, claims.UserID, claims.OrgID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opp)
}

func (s *Server) closeOpportunity(w http.ResponseWriter, r *http.Request) {
	claims := mustClaims(r)
	opp, err := services.CloseOpportunity(r.Context(), s.db, s.logger, claims.UserID, claims.OrgID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opp)
}

func (s *Server) listOrganizationOpportunities(w http.ResponseWriter, r *http.Request) {
	opps, err := services.ListOrganizationOpportunities(r.Context(), s.db, mustClaims(r).OrgID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opps)
}

func (s *Server) viewRoster(w http.ResponseWriter, r *http.Request) {
	roster, err := services.ViewRoster(r.Context(), s.db, mustClaims(r).OrgID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"opportunity": roster.Opportunity,
		"volunteers":  roster.Entries,
	})
}

func (s *Server) exportRoster(w http.ResponseWriter, r *http.Request) {
	claims := mustClaims(r)

	// buffered so a failure can still be reported as JSON
	var buf bytes.Buffer
	roster, err := services.ExportRosterCSV(r.Context(), s.db, s.logger, claims.UserID, claims.OrgID, chi.URLParam(r, "id"), &buf)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", services.RosterFileName(roster.Opportunity)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) publishRoster(w http.ResponseWriter, r *http.Request) {
	claims := mustClaims(r)
	tab, err := services.PublishRoster(r.Context(), s.db, s.opts.RosterPublisher, s.logger,
		claims.UserID, claims.OrgID, chi.URLParam(r, "id"), s.opts.RosterSpreadsheetID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"tab": tab})
}

func (s *Server) markSignupStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	claims := mustClaims(r)
	signupID := chi.URLParam(r, "id")
	status := model.SignupStatus(req.Status)
	if err := services.MarkSignupStatus(r.Context(), s.db, s.notifier, s.logger, signupID, status, claims.OrgID, claims.UserID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": signupID, "status": string(status)})
}
