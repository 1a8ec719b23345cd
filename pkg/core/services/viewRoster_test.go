package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/voluntarios/pkg/core/model"
)

func TestViewRoster(t *testing.T) {
	f := newFixture(t)
	opp := f.opportunity(3, model.OpportunityPublished)
	a, b := f.volunteer("vol-a"), f.volunteer("vol-b")

	signupA, err := f.signUp(a, opp.ID)
	require.NoError(t, err)
	_, err = f.signUp(b, opp.ID)
	require.NoError(t, err)
	require.NoError(t, f.cancel(signupA.ID, a))

	roster, err := ViewRoster(f.ctx, f.db, testOrgID, opp.ID)
	require.NoError(t, err)
	require.Len(t, roster.Entries, 2)

	statuses := map[string]model.SignupStatus{}
	for _, e := range roster.Entries {
		statuses[e.Email] = e.Status
	}
	assert.Equal(t, model.SignupCancelled, statuses["vol-a@example.com"])
	assert.Equal(t, model.SignupRegistered, statuses["vol-b@example.com"])

	_, err = ViewRoster(f.ctx, f.db, otherOrgID, opp.ID)
	assert.ErrorIs(t, err, model.ErrNotAuthorized)
}

func TestListVolunteerSignups(t *testing.T) {
	f := newFixture(t)
	opp := f.opportunity(3, model.OpportunityPublished)
	v := f.volunteer("vol-a")
	_, err := f.signUp(v, opp.ID)
	require.NoError(t, err)

	signups, err := ListVolunteerSignups(f.ctx, f.db, v)
	require.NoError(t, err)
	require.Len(t, signups, 1)
	assert.Equal(t, opp.ID, signups[0].OpportunityID)
	assert.Equal(t, "Food Bank", signups[0].OrganizationName)

	all, err := ListAllSignups(f.ctx, f.db)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "vol-a@example.com", all[0].VolunteerEmail)
}
