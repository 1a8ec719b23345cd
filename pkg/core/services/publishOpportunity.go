package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/db"
)

// PublishOpportunity makes a draft or closed opportunity visible to volunteers
func PublishOpportunity(ctx context.Context, database db.Transactor, logger *zap.Logger, actorID, orgID, opportunityID string) (*model.Opportunity, error) {
	return applyOpportunityEvent(ctx, database, logger, actorID, orgID, opportunityID, model.EventPublish)
}

// CloseOpportunity withdraws an opportunity from signups
func CloseOpportunity(ctx context.Context, database db.Transactor, logger *zap.Logger, actorID, orgID, opportunityID string) (*model.Opportunity, error) {
	return applyOpportunityEvent(ctx, database, logger, actorID, orgID, opportunityID, model.EventClose)
}

func applyOpportunityEvent(
	ctx context.Context,
	database db.Transactor,
	logger *zap.Logger,
	actorID string,
	orgID string,
	opportunityID string,
	event model.OpportunityEvent,
) (*model.Opportunity, error) {
	var opp *model.Opportunity
	err := database.WithTx(ctx, func(tx db.Store) error {
		var err error
		opp, err = lockOwnedOpportunity(ctx, tx, orgID, opportunityID)
		if err != nil {
			return err
		}
		if event == model.EventPublish {
			if err := requireApprovedOrganization(ctx, tx, orgID); err != nil {
				return err
			}
		}

		previous := opp.Status
		if err := opp.Apply(event); err != nil {
			return err
		}
		if err := tx.UpdateOpportunity(ctx, opp); err != nil {
			return err
		}
		return recordActivity(ctx, tx, actorID, model.ActionOpportunityStatusUpdate,
			fmt.Sprintf("Opportunity %s (ID: %s) changed from %s to %s", opp.Title, opp.ID, previous, opp.Status))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to %s opportunity: %w", event, err)
	}

	logger.Info("Opportunity status changed",
		zap.String("opportunity_id", opp.ID),
		zap.String("event", string(event)),
		zap.String("status", string(opp.Status)))
	return opp, nil
}
