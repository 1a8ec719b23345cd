package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/voluntarios/pkg/core/model"
)

func TestSetOrganizationStatus(t *testing.T) {
	f := newFixture(t)
	org, _, err := CreateOrganization(f.ctx, f.db, f.logger, "super-1", validOrganizationInput())
	require.NoError(t, err)

	require.NoError(t, SetOrganizationStatus(f.ctx, f.db, f.logger, "super-1", org.ID, model.OrganizationApproved))

	approved, err := ListOrganizations(f.ctx, f.db, model.OrganizationApproved)
	require.NoError(t, err)
	assert.Len(t, approved, 3)

	pending, err := ListOrganizations(f.ctx, f.db, model.OrganizationPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	err = SetOrganizationStatus(f.ctx, f.db, f.logger, "super-1", org.ID, model.OrganizationPending)
	assert.ErrorIs(t, err, model.ErrInvalidStatus)

	err = SetOrganizationStatus(f.ctx, f.db, f.logger, "super-1", "missing", model.OrganizationRejected)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = ListOrganizations(f.ctx, f.db, model.OrganizationStatus("archived"))
	assert.ErrorIs(t, err, model.ErrInvalidStatus)
}
