package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/core/services"
)

// CancelSignupCmd creates the cancelSignup command
func CancelSignupCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancelSignup <signupID>",
		Short: "Cancel a signup on behalf of its volunteer",
		Long:  "Cancel a registered signup on behalf of its volunteer. Fails once the opportunity has started.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signup, err := app.Database.GetSignup(app.Ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to find signup: %w", err)
			}

			notifier, err := app.Notifier()
			if err != nil {
				return err
			}

			app.Logger.Debug("cancelSignup command", zap.String("signup_id", signup.ID))

			if err := services.CancelSignup(app.Ctx, app.Database, notifier, app.Logger, signup.ID, signup.VolunteerID); err != nil {
				return err
			}

			fmt.Printf("\n✓ Signup %s cancelled, slot returned\n\n", signup.ID)
			return nil
		},
	}
}
