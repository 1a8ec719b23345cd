package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/core/services"
)

// rosterCounts tallies roster entries by status
func rosterCounts(entries []model.RosterEntry) map[model.SignupStatus]int {
	counts := make(map[model.SignupStatus]int)
	for _, e := range entries {
		counts[e.Status]++
	}
	return counts
}

// ViewRosterCmd creates the viewRoster command
func ViewRosterCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewRoster <opportunityID>",
		Short: "Show everyone signed up for an opportunity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := app.OpportunityOrg(args[0])
			if err != nil {
				return err
			}

			roster, err := services.ViewRoster(app.Ctx, app.Database, orgID, args[0])
			if err != nil {
				return err
			}

			opp := roster.Opportunity
			counts := rosterCounts(roster.Entries)

			fmt.Printf("\n📋 %s - %s\n\n", opp.Title, opp.StartDate.Local().Format("Monday 2 Jan 2006 15:04"))
			fmt.Printf("Slots: %s (%s)\n", slotsSummary(*opp), opp.Status)
			fmt.Printf("Registered: %d  Completed: %d  Cancelled: %d\n\n",
				counts[model.SignupRegistered], counts[model.SignupCompleted], counts[model.SignupCancelled])

			if len(roster.Entries) == 0 {
				fmt.Println("No signups yet.")
				fmt.Println()
				return nil
			}

			fmt.Printf("%-40s  %-10s  %s\n", "Email", "Status", "Signed up")
			fmt.Println("----------------------------------------  ----------  ----------------")
			for _, e := range roster.Entries {
				fmt.Printf("%-40s  %-10s  %s\n", e.Email, e.Status, e.SignedUpAt.Local().Format(cliTimeLayout))
			}
			fmt.Println()
			return nil
		},
	}
}
