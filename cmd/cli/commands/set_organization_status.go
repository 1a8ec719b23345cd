package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/core/services"
)

// SetOrganizationStatusCmd creates the setOrganizationStatus command
func SetOrganizationStatusCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setOrganizationStatus <orgID> <approved|rejected|disabled>",
		Short: "Approve, reject or disable an organization",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, status := args[0], model.OrganizationStatus(args[1])

			app.Logger.Debug("setOrganizationStatus command",
				zap.String("org_id", orgID),
				zap.String("status", string(status)))

			if err := services.SetOrganizationStatus(app.Ctx, app.Database, app.Logger, app.ActorID(), orgID, status); err != nil {
				return err
			}

			fmt.Printf("\n✓ Organization %s is now %s\n\n", orgID, status)
			return nil
		},
	}
}
