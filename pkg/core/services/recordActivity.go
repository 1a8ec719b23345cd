package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/db"
)

// DefaultActivityLimit caps activity listings when the caller gives no limit
const DefaultActivityLimit = 100

func recordActivity(ctx context.Context, store db.ActivityStore, userID, action, details string) error {
	err := store.InsertActivity(ctx, &model.Activity{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to record activity %s: %w", action, err)
	}
	return nil
}

// recordStatusChange logs a system entry when the opportunity's status moved
func recordStatusChange(ctx context.Context, store db.ActivityStore, opp *model.Opportunity, previous model.OpportunityStatus) error {
	if opp.Status == previous {
		return nil
	}
	return recordActivity(ctx, store, "", model.ActionOpportunityStatusUpdate,
		fmt.Sprintf("Opportunity %s (ID: %s) changed from %s to %s", opp.Title, opp.ID, previous, opp.Status))
}

// ListActivity returns the most recent activity log entries
func ListActivity(ctx context.Context, store db.ActivityStore, limit int) ([]model.Activity, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	entries, err := store.ListActivity(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return entries, nil
}
