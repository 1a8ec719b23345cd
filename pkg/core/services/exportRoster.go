package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/db"
)

// RosterExportStore adds the activity log to RosterStore
type RosterExportStore interface {
	RosterStore
	db.ActivityStore
}

// ExportRosterCSV writes the roster of an opportunity as CSV to w
func ExportRosterCSV(
	ctx context.Context,
	store RosterExportStore,
	logger *zap.Logger,
	actorID string,
	orgID string,
	opportunityID string,
	w io.Writer,
) (*Roster, error) {
	roster, err := ViewRoster(ctx, store, orgID, opportunityID)
	if err != nil {
		return nil, err
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(RosterRecords(roster.Entries)); err != nil {
		return nil, fmt.Errorf("failed to write roster csv: %w", err)
	}

	if err := recordActivity(ctx, store, actorID, model.ActionExportRoster,
		fmt.Sprintf("Exported volunteer list for opportunity %s (ID: %s) by Org ID %s", roster.Opportunity.Title, opportunityID, orgID)); err != nil {
		logger.Warn("Failed to record roster export", zap.Error(err))
	}

	logger.Info("Exported roster", zap.String("opportunity_id", opportunityID), zap.Int("entries", len(roster.Entries)))
	return roster, nil
}

// RosterRecords renders roster entries as a header row plus one row per signup
func RosterRecords(entries []model.RosterEntry) [][]string {
	records := make([][]string, 0, len(entries)+1)
	records = append(records, []string{"Email", "Status", "Signed Up At"})
	for _, e := range entries {
		records = append(records, []string{e.Email, string(e.Status), e.SignedUpAt.UTC().Format(time.RFC3339)})
	}
	return records
}

// RosterFileName is the download name of an exported roster
func RosterFileName(opp *model.Opportunity) string {
	return strings.ReplaceAll(opp.Title, " ", "_") + "_volunteers.csv"
}
