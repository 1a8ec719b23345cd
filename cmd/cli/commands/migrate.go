package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := app.Postgres()
			if err != nil {
				return err
			}

			applied, err := pg.RunMigrations(app.Ctx, app.Logger)
			if err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			if applied == 0 {
				fmt.Println("\n✓ Database is up to date")
			} else {
				fmt.Printf("\n✓ Applied %d migration(s)\n", applied)
			}
			fmt.Println()
			return nil
		},
	}
}
