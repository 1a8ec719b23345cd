package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/core/services"
)

// ListOrganizationsCmd creates the listOrganizations command
func ListOrganizationsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listOrganizations",
		Short: "List organizations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")

			orgs, err := services.ListOrganizations(app.Ctx, app.Database, model.OrganizationStatus(status))
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d organizations:\n\n", len(orgs))
			for _, org := range orgs {
				fmt.Printf("- %s (%s) - %s - %s\n", org.Name, org.ID, org.Status, org.ContactEmail)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("status", "", "Only list organizations with this status")

	return cmd
}
