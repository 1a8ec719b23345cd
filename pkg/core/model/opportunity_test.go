package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextOpportunityStatus(t *testing.T) {
	tests := []struct {
		name      string
		current   OpportunityStatus
		event     OpportunityEvent
		remaining int
		want      OpportunityStatus
		wantErr   error
	}{
		{"publish draft with slots", OpportunityDraft, EventPublish, 3, OpportunityPublished, nil},
		{"publish draft without slots", OpportunityDraft, EventPublish, 0, OpportunityFull, nil},
		{"republish closed", OpportunityClosed, EventPublish, 2, OpportunityPublished, nil},
		{"publish already published", OpportunityPublished, EventPublish, 2, OpportunityPublished, ErrInvalidStatus},
		{"publish full", OpportunityFull, EventPublish, 0, OpportunityFull, ErrInvalidStatus},
		{"close published", OpportunityPublished, EventClose, 2, OpportunityClosed, nil},
		{"close full", OpportunityFull, EventClose, 0, OpportunityClosed, nil},
		{"close draft", OpportunityDraft, EventClose, 2, OpportunityClosed, nil},
		{"close closed", OpportunityClosed, EventClose, 2, OpportunityClosed, ErrInvalidStatus},
		{"published exhausts", OpportunityPublished, EventCapacityChanged, 0, OpportunityFull, nil},
		{"published keeps slots", OpportunityPublished, EventCapacityChanged, 1, OpportunityPublished, nil},
		{"full regains slot", OpportunityFull, EventCapacityChanged, 1, OpportunityPublished, nil},
		{"full stays full", OpportunityFull, EventCapacityChanged, 0, OpportunityFull, nil},
		{"draft ignores capacity", OpportunityDraft, EventCapacityChanged, 0, OpportunityDraft, nil},
		{"closed ignores capacity", OpportunityClosed, EventCapacityChanged, 5, OpportunityClosed, nil},
		{"unknown event", OpportunityDraft, OpportunityEvent("archive"), 1, OpportunityDraft, ErrInvalidStatus},
		{"unknown status", OpportunityStatus("archived"), EventPublish, 1, OpportunityStatus("archived"), ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextOpportunityStatus(tt.current, tt.event, tt.remaining)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClaimSlot_ExhaustsThenFails(t *testing.T) {
	opp := &Opportunity{ID: "opp-1", TotalSlots: 2, RemainingSlots: 2, Status: OpportunityPublished}

	require.NoError(t, opp.ClaimSlot())
	assert.Equal(t, 1, opp.RemainingSlots)
	assert.Equal(t, OpportunityPublished, opp.Status)

	require.NoError(t, opp.ClaimSlot())
	assert.Equal(t, 0, opp.RemainingSlots)
	assert.Equal(t, OpportunityFull, opp.Status)

	err := opp.ClaimSlot()
	assert.ErrorIs(t, err, ErrCapacityExhausted)
	assert.Equal(t, 0, opp.RemainingSlots, "failed claim must not change the ledger")
	assert.Equal(t, OpportunityFull, opp.Status)
}

func TestReleaseSlot_ReopensFullOpportunity(t *testing.T) {
	opp := &Opportunity{ID: "opp-1", TotalSlots: 1, RemainingSlots: 0, Status: OpportunityFull}

	require.NoError(t, opp.ReleaseSlot())
	assert.Equal(t, 1, opp.RemainingSlots)
	assert.Equal(t, OpportunityPublished, opp.Status)
}

func TestReleaseSlot_ClosedStaysClosed(t *testing.T) {
	opp := &Opportunity{ID: "opp-1", TotalSlots: 2, RemainingSlots: 0, Status: OpportunityClosed}

	require.NoError(t, opp.ReleaseSlot())
	assert.Equal(t, 1, opp.RemainingSlots)
	assert.Equal(t, OpportunityClosed, opp.Status)
}

func TestReleaseSlot_RefusesToExceedTotal(t *testing.T) {
	opp := &Opportunity{ID: "opp-1", TotalSlots: 2, RemainingSlots: 2, Status: OpportunityPublished}

	err := opp.ReleaseSlot()
	assert.ErrorIs(t, err, ErrLedgerInconsistent)
	assert.Equal(t, CodeStorage, CodeOf(err))
	assert.Equal(t, 2, opp.RemainingSlots)
}

func TestResize(t *testing.T) {
	t.Run("grow a full opportunity", func(t *testing.T) {
		opp := &Opportunity{TotalSlots: 2, RemainingSlots: 0, Status: OpportunityFull}
		require.NoError(t, opp.Resize(4, 2))
		assert.Equal(t, 4, opp.TotalSlots)
		assert.Equal(t, 2, opp.RemainingSlots)
		assert.Equal(t, OpportunityPublished, opp.Status)
	})

	t.Run("shrink to held count fills it", func(t *testing.T) {
		opp := &Opportunity{TotalSlots: 5, RemainingSlots: 2, Status: OpportunityPublished}
		require.NoError(t, opp.Resize(3, 3))
		assert.Equal(t, 0, opp.RemainingSlots)
		assert.Equal(t, OpportunityFull, opp.Status)
	})

	t.Run("below held count", func(t *testing.T) {
		opp := &Opportunity{TotalSlots: 5, RemainingSlots: 2, Status: OpportunityPublished}
		err := opp.Resize(2, 3)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, 5, opp.TotalSlots)
	})

	t.Run("non positive", func(t *testing.T) {
		opp := &Opportunity{TotalSlots: 5, RemainingSlots: 5, Status: OpportunityDraft}
		assert.ErrorIs(t, opp.Resize(0, 0), ErrValidation)
	})
}

func TestHasStarted(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	past := &Opportunity{StartDate: now.Add(-time.Minute)}
	future := &Opportunity{StartDate: now.Add(time.Minute)}

	assert.True(t, past.HasStarted(now))
	assert.False(t, future.HasStarted(now))
}
