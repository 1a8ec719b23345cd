package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/voluntarios/pkg/core/model"
)

func validOpportunityInput() OpportunityInput {
	start := time.Now().Add(14 * 24 * time.Hour).Truncate(time.Minute)
	return OpportunityInput{
		Title:       "Park clean-up",
		Description: "Bring gloves",
		Location:    "Valentines Park",
		StartDate:   start,
		EndDate:     start.Add(2 * time.Hour),
		TotalSlots:  3,
	}
}

func TestCreateOpportunity(t *testing.T) {
	f := newFixture(t)

	opp, err := CreateOpportunity(f.ctx, f.db, f.logger, testOrgAdminID, testOrgID, validOpportunityInput())
	require.NoError(t, err)

	assert.Equal(t, model.OpportunityDraft, opp.Status)
	assert.Equal(t, 3, opp.TotalSlots)
	assert.Equal(t, 3, opp.RemainingSlots)
	assert.Equal(t, testOrgID, opp.OrgID)
	f.ledger(opp.ID)
}

func TestCreateOpportunity_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(in *OpportunityInput)
	}{
		{"missing title", func(in *OpportunityInput) { in.Title = "" }},
		{"missing location", func(in *OpportunityInput) { in.Location = "" }},
		{"zero slots", func(in *OpportunityInput) { in.TotalSlots = 0 }},
		{"end before start", func(in *OpportunityInput) { in.EndDate = in.StartDate.Add(-time.Hour) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			input := validOpportunityInput()
			tt.modify(&input)

			_, err := CreateOpportunity(f.ctx, f.db, f.logger, testOrgAdminID, testOrgID, input)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestCreateOpportunity_RequiresApprovedOrganization(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.UpdateOrganizationStatus(f.ctx, testOrgID, model.OrganizationDisabled))

	_, err := CreateOpportunity(f.ctx, f.db, f.logger, testOrgAdminID, testOrgID, validOpportunityInput())
	assert.ErrorIs(t, err, model.ErrNotAuthorized)

	opps, err := ListOrganizationOpportunities(f.ctx, f.db, testOrgID)
	require.NoError(t, err)
	assert.Empty(t, opps)
}
