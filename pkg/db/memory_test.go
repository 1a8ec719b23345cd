package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/voluntarios/pkg/core/model"
)

func seedMemoryDB(t *testing.T) *MemoryDB {
	t.Helper()
	ctx := context.Background()
	m := NewMemoryDB()

	require.NoError(t, m.InsertOrganization(ctx, &model.Organization{ID: "org-1", Name: "Food Bank", Status: model.OrganizationApproved}))
	require.NoError(t, m.InsertOrganization(ctx, &model.Organization{ID: "org-2", Name: "Shelter", Status: model.OrganizationPending}))
	require.NoError(t, m.InsertUser(ctx, &model.User{ID: "vol-1", Email: "a@example.com", Role: model.RoleVolunteer}))

	start := time.Date(2030, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, m.InsertOpportunity(ctx, &model.Opportunity{
		ID: "opp-1", OrgID: "org-1", Title: "Sorting", Location: "East Ham",
		StartDate: start, EndDate: start.Add(3 * time.Hour),
		TotalSlots: 2, RemainingSlots: 2, Status: model.OpportunityPublished,
	}))
	require.NoError(t, m.InsertOpportunity(ctx, &model.Opportunity{
		ID: "opp-2", OrgID: "org-2", Title: "Beds", Location: "Ilford",
		StartDate: start, EndDate: start.Add(3 * time.Hour),
		TotalSlots: 1, RemainingSlots: 1, Status: model.OpportunityPublished,
	}))
	return m
}

func TestMemoryDB_WithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	m := seedMemoryDB(t)
	boom := errors.New("boom")

	err := m.WithTx(ctx, func(tx Store) error {
		opp, err := tx.GetOpportunityForUpdate(ctx, "opp-1")
		require.NoError(t, err)
		require.NoError(t, opp.ClaimSlot())
		require.NoError(t, tx.UpdateOpportunity(ctx, opp))
		require.NoError(t, tx.InsertSignup(ctx, &model.Signup{ID: "s-1", VolunteerID: "vol-1", OpportunityID: "opp-1", Status: model.SignupRegistered}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	opp, err := m.GetOpportunity(ctx, "opp-1")
	require.NoError(t, err)
	assert.Equal(t, 2, opp.RemainingSlots)

	_, err = m.GetSignup(ctx, "s-1")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestMemoryDB_WithTxRollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	m := seedMemoryDB(t)

	assert.Panics(t, func() {
		_ = m.WithTx(ctx, func(tx Store) error {
			require.NoError(t, tx.UpdateOrganizationStatus(ctx, "org-2", model.OrganizationApproved))
			panic("mid-transaction")
		})
	})

	org, err := m.GetOrganization(ctx, "org-2")
	require.NoError(t, err)
	assert.Equal(t, model.OrganizationPending, org.Status)
}

func TestMemoryDB_WithTxCommits(t *testing.T) {
	ctx := context.Background()
	m := seedMemoryDB(t)

	err := m.WithTx(ctx, func(tx Store) error {
		return tx.InsertSignup(ctx, &model.Signup{ID: "s-1", VolunteerID: "vol-1", OpportunityID: "opp-1", Status: model.SignupRegistered})
	})
	require.NoError(t, err)

	count, err := m.CountSlotHoldingSignups(ctx, "opp-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemoryDB_ActiveSignupUniqueness(t *testing.T) {
	ctx := context.Background()
	m := seedMemoryDB(t)

	require.NoError(t, m.InsertSignup(ctx, &model.Signup{ID: "s-1", VolunteerID: "vol-1", OpportunityID: "opp-1", Status: model.SignupRegistered}))

	err := m.InsertSignup(ctx, &model.Signup{ID: "s-2", VolunteerID: "vol-1", OpportunityID: "opp-1", Status: model.SignupRegistered})
	assert.ErrorIs(t, err, model.ErrDuplicateSignup)

	// a cancelled signup no longer blocks a new one
	require.NoError(t, m.UpdateSignupStatus(ctx, "s-1", model.SignupRegistered, model.SignupCancelled))
	require.NoError(t, m.InsertSignup(ctx, &model.Signup{ID: "s-2", VolunteerID: "vol-1", OpportunityID: "opp-1", Status: model.SignupRegistered}))

	active, err := m.HasActiveSignup(ctx, "vol-1", "opp-1")
	require.NoError(t, err)
	assert.True(t, active)
}

func TestMemoryDB_UpdateSignupStatusChecksCurrentStatus(t *testing.T) {
	ctx := context.Background()
	m := seedMemoryDB(t)

	require.NoError(t, m.InsertSignup(ctx, &model.Signup{ID: "s-1", VolunteerID: "vol-1", OpportunityID: "opp-1", Status: model.SignupRegistered}))
	require.NoError(t, m.UpdateSignupStatus(ctx, "s-1", model.SignupRegistered, model.SignupCancelled))

	err := m.UpdateSignupStatus(ctx, "s-1", model.SignupRegistered, model.SignupCompleted)
	assert.ErrorIs(t, err, model.ErrInvalidStatus)

	err = m.UpdateSignupStatus(ctx, "missing", model.SignupRegistered, model.SignupCancelled)
	assert.ErrorIs(t, err, model.ErrNotFound)

	stored, err := m.GetSignupForUpdate(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, model.SignupCancelled, stored.Status)
}

func TestMemoryDB_ListPublishedOpportunities(t *testing.T) {
	ctx := context.Background()
	m := seedMemoryDB(t)

	listings, err := m.ListPublishedOpportunities(ctx, model.OpportunityFilter{})
	require.NoError(t, err)
	require.Len(t, listings, 1, "opportunities of unapproved organizations are hidden")
	assert.Equal(t, "opp-1", listings[0].ID)
	assert.Equal(t, "Food Bank", listings[0].OrganizationName)

	listings, err = m.ListPublishedOpportunities(ctx, model.OpportunityFilter{Location: "east"})
	require.NoError(t, err)
	assert.Len(t, listings, 1)

	listings, err = m.ListPublishedOpportunities(ctx, model.OpportunityFilter{Location: "croydon"})
	require.NoError(t, err)
	assert.Empty(t, listings)

	listings, err = m.ListPublishedOpportunities(ctx, model.OpportunityFilter{
		StartsAfter: time.Date(2030, 6, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestMemoryDB_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	m := seedMemoryDB(t)

	err := m.InsertUser(ctx, &model.User{ID: "vol-2", Email: "A@Example.com", Role: model.RoleVolunteer})
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestMemoryDB_ListActivityNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDB()
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, action := range []string{"first", "second", "third"} {
		require.NoError(t, m.InsertActivity(ctx, &model.Activity{ID: action, Action: action, CreatedAt: base.Add(time.Duration(i) * time.Minute)}))
	}

	entries, err := m.ListActivity(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "third", entries[0].Action)
	assert.Equal(t, "second", entries[1].Action)
}
