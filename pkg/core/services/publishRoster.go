package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/core/model"
)

// RosterPublisher writes a roster to a named tab of a spreadsheet
type RosterPublisher interface {
	PublishRoster(spreadsheetID, tabName string, rows [][]string) error
}

// PublishRoster writes the roster of an opportunity to a spreadsheet tab named
// after the opportunity
func PublishRoster(
	ctx context.Context,
	store RosterExportStore,
	publisher RosterPublisher,
	logger *zap.Logger,
	actorID string,
	orgID string,
	opportunityID string,
	spreadsheetID string,
) (string, error) {
	if spreadsheetID == "" {
		return "", fmt.Errorf("%w: no roster spreadsheet configured", model.ErrValidation)
	}

	roster, err := ViewRoster(ctx, store, orgID, opportunityID)
	if err != nil {
		return "", err
	}

	tabName := RosterTabName(roster.Opportunity)
	if err := publisher.PublishRoster(spreadsheetID, tabName, RosterRecords(roster.Entries)); err != nil {
		return "", fmt.Errorf("failed to publish roster: %w", err)
	}

	if err := recordActivity(ctx, store, actorID, model.ActionPublishRoster,
		fmt.Sprintf("Published roster for opportunity %s (ID: %s) to tab %s", roster.Opportunity.Title, opportunityID, tabName)); err != nil {
		logger.Warn("Failed to record roster publication", zap.Error(err))
	}

	logger.Info("Published roster",
		zap.String("opportunity_id", opportunityID),
		zap.String("tab", tabName),
		zap.Int("entries", len(roster.Entries)))
	return tabName, nil
}

// RosterTabName is the spreadsheet tab a roster is published to
func RosterTabName(opp *model.Opportunity) string {
	return fmt.Sprintf("%s %s", opp.StartDate.UTC().Format("2006-01-02"), opp.Title)
}
