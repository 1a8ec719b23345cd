package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/core/services"
)

const envOrgAdminPassword = "ORG_ADMIN_PASSWORD"

// CreateOrganizationCmd creates the createOrganization command
func CreateOrganizationCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createOrganization <name>",
		Short: "Create a pending organization and its admin account",
		Long: `Create a pending organization and its admin account.
The admin password is read from --admin-password or ORG_ADMIN_PASSWORD.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contactEmail, _ := cmd.Flags().GetString("contact-email")
			description, _ := cmd.Flags().GetString("description")
			adminEmail, _ := cmd.Flags().GetString("admin-email")
			adminPassword, _ := cmd.Flags().GetString("admin-password")
			approve, _ := cmd.Flags().GetBool("approve")

			if adminPassword == "" {
				adminPassword = os.Getenv(envOrgAdminPassword)
			}
			if adminPassword == "" {
				return errors.New("an admin password is required (--admin-password or " + envOrgAdminPassword + ")")
			}

			app.Logger.Debug("createOrganization command",
				zap.String("name", args[0]),
				zap.Bool("approve", approve))

			actorID := app.ActorID()
			org, admin, err := services.CreateOrganization(app.Ctx, app.Database, app.Logger, actorID, services.OrganizationInput{
				Name:          args[0],
				ContactEmail:  contactEmail,
				Description:   description,
				AdminEmail:    adminEmail,
				AdminPassword: adminPassword,
			})
			if err != nil {
				return err
			}

			if approve {
				if err := services.SetOrganizationStatus(app.Ctx, app.Database, app.Logger, actorID, org.ID, model.OrganizationApproved); err != nil {
					return err
				}
				org.Status = model.OrganizationApproved
			}

			fmt.Printf("\n✓ Organization created successfully!\n\n")
			fmt.Printf("Organization ID: %s\n", org.ID)
			fmt.Printf("Name:            %s\n", org.Name)
			fmt.Printf("Status:          %s\n", org.Status)
			fmt.Printf("Admin:           %s (%s)\n\n", admin.Email, admin.ID)
			return nil
		},
	}

	cmd.Flags().String("contact-email", "", "Public contact email (required)")
	cmd.Flags().String("description", "", "Organization description")
	cmd.Flags().String("admin-email", "", "Login email of the organization admin (required)")
	cmd.Flags().String("admin-password", "", "Password of the organization admin")
	cmd.Flags().Bool("approve", false, "Approve the organization immediately")
	cmd.MarkFlagRequired("contact-email")
	cmd.MarkFlagRequired("admin-email")

	return cmd
}
