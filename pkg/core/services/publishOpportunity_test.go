package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/voluntarios/pkg/core/model"
)

func TestPublishAndCloseOpportunity(t *testing.T) {
	f := newFixture(t)
	opp := f.opportunity(2, model.OpportunityDraft)

	published, err := PublishOpportunity(f.ctx, f.db, f.logger, testOrgAdminID, testOrgID, opp.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OpportunityPublished, published.Status)

	_, err = PublishOpportunity(f.ctx, f.db, f.logger, testOrgAdminID, testOrgID, opp.ID)
	assert.ErrorIs(t, err, model.ErrInvalidStatus)

	closed, err := CloseOpportunity(f.ctx, f.db, f.logger, testOrgAdminID, testOrgID, opp.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OpportunityClosed, closed.Status)

	_, err = CloseOpportunity(f.ctx, f.db, f.logger, testOrgAdminID, testOrgID, opp.ID)
	assert.ErrorIs(t, err, model.ErrInvalidStatus)

	_, err = f.signUp(f.volunteer("vol-a"), opp.ID)
	assert.ErrorIs(t, err, model.ErrOpportunityNotAvailable)
}

func TestPublishOpportunity_WithNoRemainingSlotsIsFull(t *testing.T) {
	f := newFixture(t)
	opp := f.opportunity(1, model.OpportunityPublished)
	_, err := f.signUp(f.volunteer("vol-a"), opp.ID)
	require.NoError(t, err)

	_, err = CloseOpportunity(f.ctx, f.db, f.logger, testOrgAdminID, testOrgID, opp.ID)
	require.NoError(t, err)

	reopened, err := PublishOpportunity(f.ctx, f.db, f.logger, testOrgAdminID, testOrgID, opp.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OpportunityFull, reopened.Status)
}

func TestPublishOpportunity_Authorization(t *testing.T) {
	f := newFixture(t)
	opp := f.opportunity(2, model.OpportunityDraft)

	_, err := PublishOpportunity(f.ctx, f.db, f.logger, testOrgAdminID, otherOrgID, opp.ID)
	assert.ErrorIs(t, err, model.ErrNotAuthorized)

	require.NoError(t, f.db.UpdateOrganizationStatus(f.ctx, testOrgID, model.OrganizationRejected))
	_, err = PublishOpportunity(f.ctx, f.db, f.logger, testOrgAdminID, testOrgID, opp.ID)
	assert.ErrorIs(t, err, model.ErrNotAuthorized)
	assert.Equal(t, model.OpportunityDraft, f.ledger(opp.ID).Status)
}
