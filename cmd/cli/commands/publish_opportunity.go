package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/voluntarios/pkg/core/services"
)

// PublishOpportunityCmd creates the publishOpportunity command
func PublishOpportunityCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publishOpportunity <opportunityID>",
		Short: "Open an opportunity for signups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := app.OpportunityOrg(args[0])
			if err != nil {
				return err
			}

			opp, err := services.PublishOpportunity(app.Ctx, app.Database, app.Logger, app.ActorID(), orgID, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Opportunity published\n\n")
			printOpportunity(opp)
			return nil
		},
	}
}
