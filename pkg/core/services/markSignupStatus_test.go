package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/notify"
)

func TestMarkSignupStatus(t *testing.T) {
	mark := func(f *fixture, signupID string, status model.SignupStatus, orgID string) error {
		return MarkSignupStatus(f.ctx, f.db, f.notifier, f.logger, signupID, status, orgID, testOrgAdminID)
	}

	t.Run("completed keeps the slot", func(t *testing.T) {
		f := newFixture(t)
		opp := f.opportunity(1, model.OpportunityPublished)
		signup, err := f.signUp(f.volunteer("vol-a"), opp.ID)
		require.NoError(t, err)

		require.NoError(t, mark(f, signup.ID, model.SignupCompleted, testOrgID))
		got := f.ledger(opp.ID)
		assert.Equal(t, 0, got.RemainingSlots)
		assert.Equal(t, model.OpportunityFull, got.Status)
	})

	t.Run("cancelled releases the slot", func(t *testing.T) {
		f := newFixture(t)
		opp := f.opportunity(1, model.OpportunityPublished)
		signup, err := f.signUp(f.volunteer("vol-a"), opp.ID)
		require.NoError(t, err)
		before := len(f.notifier.sent())

		require.NoError(t, mark(f, signup.ID, model.SignupCancelled, testOrgID))
		got := f.ledger(opp.ID)
		assert.Equal(t, 1, got.RemainingSlots)
		assert.Equal(t, model.OpportunityPublished, got.Status)

		sent := f.notifier.sent()
		require.Len(t, sent, before+1)
		assert.Equal(t, notify.TemplateSignupCancelled, sent[before].Template)
		assert.Equal(t, "vol-a@example.com", sent[before].Recipient)
	})

	t.Run("other organization", func(t *testing.T) {
		f := newFixture(t)
		opp := f.opportunity(1, model.OpportunityPublished)
		signup, err := f.signUp(f.volunteer("vol-a"), opp.ID)
		require.NoError(t, err)

		err = mark(f, signup.ID, model.SignupCompleted, otherOrgID)
		assert.ErrorIs(t, err, model.ErrNotAuthorized)
	})

	t.Run("terminal signups do not move", func(t *testing.T) {
		f := newFixture(t)
		opp := f.opportunity(2, model.OpportunityPublished)
		signup, err := f.signUp(f.volunteer("vol-a"), opp.ID)
		require.NoError(t, err)
		require.NoError(t, mark(f, signup.ID, model.SignupCompleted, testOrgID))

		err = mark(f, signup.ID, model.SignupCancelled, testOrgID)
		assert.ErrorIs(t, err, model.ErrInvalidStatus)
		assert.Equal(t, 1, f.ledger(opp.ID).RemainingSlots)
	})

	t.Run("invalid target status", func(t *testing.T) {
		f := newFixture(t)
		err := mark(f, "signup-1", model.SignupRegistered, testOrgID)
		assert.ErrorIs(t, err, model.ErrInvalidStatus)

		err = mark(f, "signup-1", model.SignupStatus("no_show"), testOrgID)
		assert.ErrorIs(t, err, model.ErrInvalidStatus)
	})

	t.Run("unknown signup", func(t *testing.T) {
		f := newFixture(t)
		err := mark(f, "missing", model.SignupCompleted, testOrgID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestMarkSignupStatus_StaleReadCannotReviveCancelled(t *testing.T) {
	f := newFixture(t)
	opp := f.opportunity(1, model.OpportunityPublished)
	signup, err := f.signUp(f.volunteer("vol-a"), opp.ID)
	require.NoError(t, err)

	beforeCancel := *signup
	require.NoError(t, f.cancel(signup.ID, "vol-a"))

	stale := staleReads{MemoryDB: f.db, signups: map[string]model.Signup{signup.ID: beforeCancel}}
	err = MarkSignupStatus(f.ctx, stale, f.notifier, f.logger, signup.ID, model.SignupCompleted, testOrgID, testOrgAdminID)
	assert.ErrorIs(t, err, model.ErrInvalidStatus)

	stored, err := f.db.GetSignup(f.ctx, signup.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SignupCancelled, stored.Status)
	assert.Equal(t, 1, f.ledger(opp.ID).RemainingSlots)
}
