package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/voluntarios/pkg/core/services"
)

// PublishRosterCmd creates the publishRoster command
func PublishRosterCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publishRoster <opportunityID>",
		Short: "Publish an opportunity's roster to the roster spreadsheet",
		Long:  "Publish an opportunity's roster to a tab of roster.spreadsheetID. Columns added by organizers are kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheets, err := app.Sheets()
			if err != nil {
				return err
			}
			if sheets == nil {
				return errors.New("roster.spreadsheetID is not configured")
			}

			orgID, err := app.OpportunityOrg(args[0])
			if err != nil {
				return err
			}

			tab, err := services.PublishRoster(app.Ctx, app.Database, sheets, app.Logger,
				app.ActorID(), orgID, args[0], app.Cfg.Roster.SpreadsheetID)
			if err != nil {
				return fmt.Errorf("failed to publish roster: %w", err)
			}

			fmt.Printf("\n✅ Roster Published Successfully\n\n")
			fmt.Printf("Sheet ID: %s\n", app.Cfg.Roster.SpreadsheetID)
			fmt.Printf("Tab:      %s\n\n", tab)
			return nil
		},
	}
}
