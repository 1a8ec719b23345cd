package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/voluntarios/pkg/core/services"
)

// ListSignupsCmd creates the listSignups command
func ListSignupsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listSignups",
		Short: "List signups, optionally for one volunteer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("volunteer")

			if email != "" {
				volunteer, err := app.Database.GetUserByEmail(app.Ctx, email)
				if err != nil {
					return fmt.Errorf("failed to find volunteer %s: %w", email, err)
				}
				signups, err := services.ListVolunteerSignups(app.Ctx, app.Database, volunteer.ID)
				if err != nil {
					return err
				}

				fmt.Printf("\n%s has %d signups:\n\n", email, len(signups))
				for _, s := range signups {
					fmt.Printf("- %s  %-10s  %s (%s)  %s\n",
						s.StartDate.Local().Format(cliTimeLayout), s.Status, s.Title, s.OrganizationName, s.SignupID)
				}
				fmt.Println()
				return nil
			}

			signups, err := services.ListAllSignups(app.Ctx, app.Database)
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d signups:\n\n", len(signups))
			for _, s := range signups {
				fmt.Printf("- %-10s  %s -> %s  %s\n", s.Status, s.VolunteerEmail, s.OpportunityTitle, s.ID)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("volunteer", "", "Only list this volunteer's signups (email)")

	return cmd
}
