package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/db"
)

// OpportunityInput holds the organization-editable fields of an opportunity
type OpportunityInput struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=5000"`
	Location    string    `json:"location" validate:"required,max=200"`
	StartDate   time.Time `json:"startDate" validate:"required"`
	EndDate     time.Time `json:"endDate" validate:"required,gtfield=StartDate"`
	TotalSlots  int       `json:"totalSlots" validate:"gte=1"`
}

// CreateOpportunity creates a draft opportunity for an approved organization
func CreateOpportunity(
	ctx context.Context,
	database db.Transactor,
	logger *zap.Logger,
	actorID string,
	orgID string,
	input OpportunityInput,
) (*model.Opportunity, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	opp := newOpportunity(orgID, input)

	err := database.WithTx(ctx, func(tx db.Store) error {
		if err := requireApprovedOrganization(ctx, tx, orgID); err != nil {
			return err
		}
		if err := tx.InsertOpportunity(ctx, opp); err != nil {
			return err
		}
		return recordActivity(ctx, tx, actorID, model.ActionCreateOpportunity,
			fmt.Sprintf("Opportunity %s (ID: %s) created by Org ID %s", opp.Title, opp.ID, orgID))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create opportunity: %w", err)
	}

	logger.Info("Created opportunity",
		zap.String("opportunity_id", opp.ID),
		zap.String("org_id", orgID),
		zap.Int("total_slots", opp.TotalSlots))
	return opp, nil
}

func newOpportunity(orgID string, input OpportunityInput) *model.Opportunity {
	return &model.Opportunity{
		ID:             uuid.New().String(),
		OrgID:          orgID,
		Title:          input.Title,
		Description:    input.Description,
		Location:       input.Location,
		StartDate:      input.StartDate.UTC(),
		EndDate:        input.EndDate.UTC(),
		TotalSlots:     input.TotalSlots,
		RemainingSlots: input.TotalSlots,
		Status:         model.OpportunityDraft,
		CreatedAt:      time.Now().UTC(),
	}
}

func requireApprovedOrganization(ctx context.Context, store db.OrganizationStore, orgID string) error {
	org, err := store.GetOrganization(ctx, orgID)
	if err != nil {
		return err
	}
	if org.Status != model.OrganizationApproved {
		return fmt.Errorf("%w: organization %s is %s", model.ErrNotAuthorized, org.Name, org.Status)
	}
	return nil
}
