package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/core/services"
)

// SignUpCmd creates the signUp command
func SignUpCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "signUp <volunteerEmail> <opportunityID>",
		Short: "Sign a volunteer up for a published opportunity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, opportunityID := args[0], args[1]

			volunteer, err := app.Database.GetUserByEmail(app.Ctx, email)
			if err != nil {
				return fmt.Errorf("failed to find volunteer %s: %w", email, err)
			}
			if volunteer.Role != model.RoleVolunteer {
				return fmt.Errorf("%s is a %s account, not a volunteer", email, volunteer.Role)
			}

			notifier, err := app.Notifier()
			if err != nil {
				return err
			}

			app.Logger.Debug("signUp command",
				zap.String("volunteer_id", volunteer.ID),
				zap.String("opportunity_id", opportunityID))

			signup, err := services.SignUp(app.Ctx, app.Database, notifier, app.Logger, volunteer.ID, opportunityID)
			if err != nil {
				return err
			}

			opp, err := app.Database.GetOpportunity(app.Ctx, opportunityID)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ %s signed up!\n\n", email)
			fmt.Printf("Signup ID: %s\n", signup.ID)
			fmt.Printf("Slots:     %s (%s)\n\n", slotsSummary(*opp), opp.Status)
			return nil
		},
	}
}
