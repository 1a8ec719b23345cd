package services

import (
	"context"
	"fmt"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/db"
)

// RosterStore defines the database operations needed to read a roster
type RosterStore interface {
	GetOpportunity(ctx context.Context, id string) (*model.Opportunity, error)
	ListRoster(ctx context.Context, opportunityID string) ([]model.RosterEntry, error)
}

// Roster is an opportunity and everyone who signed up for it
type Roster struct {
	Opportunity *model.Opportunity
	Entries     []model.RosterEntry
}

// ViewRoster lists the signups of an opportunity owned by orgID
func ViewRoster(ctx context.Context, store RosterStore, orgID, opportunityID string) (*Roster, error) {
	opp, err := store.GetOpportunity(ctx, opportunityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get opportunity: %w", err)
	}
	if opp.OrgID != orgID {
		return nil, fmt.Errorf("%w: opportunity %s belongs to another organization", model.ErrNotAuthorized, opportunityID)
	}

	entries, err := store.ListRoster(ctx, opportunityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}
	return &Roster{Opportunity: opp, Entries: entries}, nil
}

// ListVolunteerSignups returns a volunteer's signups with their opportunities
func ListVolunteerSignups(ctx context.Context, store db.SignupStore, volunteerID string) ([]model.VolunteerSignup, error) {
	signups, err := store.ListVolunteerSignups(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list signups: %w", err)
	}
	return signups, nil
}

// ListAllSignups returns every signup with volunteer and opportunity details
func ListAllSignups(ctx context.Context, store db.SignupStore) ([]model.SignupDetail, error) {
	signups, err := store.ListAllSignups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list signups: %w", err)
	}
	return signups, nil
}
