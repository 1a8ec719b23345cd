package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/db"
)

// UpdateOpportunity edits an opportunity owned by orgID. Remaining slots are
// re-derived from the signups currently holding a slot, so capacity cannot
// drop below them.
func UpdateOpportunity(
	ctx context.Context,
	database db.Transactor,
	logger *zap.Logger,
	actorID string,
	orgID string,
	opportunityID string,
	input OpportunityInput,
) (*model.Opportunity, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var opp *model.Opportunity
	err := database.WithTx(ctx, func(tx db.Store) error {
		var err error
		opp, err = lockOwnedOpportunity(ctx, tx, orgID, opportunityID)
		if err != nil {
			return err
		}

		held, err := tx.CountSlotHoldingSignups(ctx, opportunityID)
		if err != nil {
			return err
		}

		previous := opp.Status
		opp.Title = input.Title
		opp.Description = input.Description
		opp.Location = input.Location
		opp.StartDate = input.StartDate.UTC()
		opp.EndDate = input.EndDate.UTC()
		if err := opp.Resize(input.TotalSlots, held); err != nil {
			return err
		}

		if err := tx.UpdateOpportunity(ctx, opp); err != nil {
			return err
		}
		if err := recordActivity(ctx, tx, actorID, model.ActionUpdateOpportunity,
			fmt.Sprintf("Opportunity %s (ID: %s) updated by Org ID %s", opp.Title, opp.ID, orgID)); err != nil {
			return err
		}
		return recordStatusChange(ctx, tx, opp, previous)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update opportunity: %w", err)
	}

	logger.Info("Updated opportunity",
		zap.String("opportunity_id", opp.ID),
		zap.Int("total_slots", opp.TotalSlots),
		zap.Int("remaining_slots", opp.RemainingSlots),
		zap.String("status", string(opp.Status)))
	return opp, nil
}

func lockOwnedOpportunity(ctx context.Context, tx db.Store, orgID, opportunityID string) (*model.Opportunity, error) {
	opp, err := tx.GetOpportunityForUpdate(ctx, opportunityID)
	if err != nil {
		return nil, err
	}
	if opp.OrgID != orgID {
		return nil, fmt.Errorf("%w: opportunity %s belongs to another organization", model.ErrNotAuthorized, opportunityID)
	}
	return opp, nil
}
