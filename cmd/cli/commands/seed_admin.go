package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/core/services"
)

// SeedAdminCmd creates the seedAdmin command
func SeedAdminCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seedAdmin",
		Short: "Create the super admin account from admin.email and ADMIN_PASSWORD",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Cfg.Admin.Email == "" || app.Cfg.Admin.Password == "" {
				return errors.New("admin.email and admin.password (or ADMIN_PASSWORD) must be set")
			}

			app.Logger.Debug("seedAdmin command", zap.String("email", app.Cfg.Admin.Email))

			created, err := seedAdmin(app)
			if err != nil {
				return fmt.Errorf("failed to seed admin: %w", err)
			}

			if created {
				fmt.Printf("\n✓ Super admin %s created\n\n", app.Cfg.Admin.Email)
			} else {
				fmt.Printf("\n✓ Account %s already exists, nothing to do\n\n", app.Cfg.Admin.Email)
			}
			return nil
		},
	}
}

// seedAdmin creates the configured super admin if admin credentials are set
func seedAdmin(app *AppContext) (bool, error) {
	if app.Cfg.Admin.Email == "" || app.Cfg.Admin.Password == "" {
		return false, nil
	}
	return services.EnsureSuperAdmin(app.Ctx, app.Database, app.Logger, services.Credentials{
		Email:    app.Cfg.Admin.Email,
		Password: app.Cfg.Admin.Password,
	})
}
