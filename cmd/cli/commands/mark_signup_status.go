package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/core/services"
)

// MarkSignupStatusCmd creates the markSignupStatus command
func MarkSignupStatusCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "markSignupStatus <signupID> <completed|cancelled>",
		Short: "Record attendance or cancel a signup for the organization",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := model.SignupStatus(args[1])

			signup, orgID, err := app.SignupOrg(args[0])
			if err != nil {
				return err
			}

			notifier, err := app.Notifier()
			if err != nil {
				return err
			}

			app.Logger.Debug("markSignupStatus command",
				zap.String("signup_id", signup.ID),
				zap.String("status", string(status)))

			if err := services.MarkSignupStatus(app.Ctx, app.Database, notifier, app.Logger, signup.ID, status, orgID, app.ActorID()); err != nil {
				return err
			}

			fmt.Printf("\n✓ Signup %s marked %s\n\n", signup.ID, status)
			return nil
		},
	}
}
