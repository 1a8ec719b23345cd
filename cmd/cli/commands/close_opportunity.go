package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/voluntarios/pkg/core/services"
)

// CloseOpportunityCmd creates the closeOpportunity command
func CloseOpportunityCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "closeOpportunity <opportunityID>",
		Short: "Stop accepting signups for an opportunity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := app.OpportunityOrg(args[0])
			if err != nil {
				return err
			}

			opp, err := services.CloseOpportunity(app.Ctx, app.Database, app.Logger, app.ActorID(), orgID, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Opportunity closed\n\n")
			printOpportunity(opp)
			return nil
		},
	}
}
