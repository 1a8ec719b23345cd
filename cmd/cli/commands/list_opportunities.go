package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/core/services"
)

// ListOpportunitiesCmd creates the listOpportunities command
func ListOpportunitiesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listOpportunities",
		Short: "List opportunities, optionally for one organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, _ := cmd.Flags().GetString("org")

			var opps []model.Opportunity
			if orgID != "" {
				var err error
				opps, err = services.ListOrganizationOpportunities(app.Ctx, app.Database, orgID)
				if err != nil {
					return err
				}
			} else {
				listings, err := services.ListAllOpportunities(app.Ctx, app.Database)
				if err != nil {
					return err
				}
				for _, l := range listings {
					opps = append(opps, l.Opportunity)
				}
			}

			fmt.Printf("\nFound %d opportunities:\n\n", len(opps))
			fmt.Printf("%-36s  %-16s  %-10s  %-12s  %s\n", "ID", "Start", "Status", "Slots", "Title")
			fmt.Println("------------------------------------  ----------------  ----------  ------------  --------------------")
			for _, opp := range opps {
				fmt.Printf("%-36s  %-16s  %-10s  %-12s  %s\n",
					opp.ID, opp.StartDate.Local().Format(cliTimeLayout), opp.Status, slotsSummary(opp), opp.Title)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("org", "", "Only list this organization's opportunities")

	return cmd
}
