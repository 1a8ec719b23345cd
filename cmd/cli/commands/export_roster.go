package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/core/services"
)

// ExportRosterCmd creates the exportRoster command
func ExportRosterCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exportRoster <opportunityID>",
		Short: "Write an opportunity's roster as CSV",
		Long:  "Write an opportunity's roster as CSV to --out, or to <title>_volunteers.csv when --out is not given. Use --out - for stdout.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")

			orgID, err := app.OpportunityOrg(args[0])
			if err != nil {
				return err
			}
			if out == "" {
				opp, err := app.Database.GetOpportunity(app.Ctx, args[0])
				if err != nil {
					return err
				}
				out = services.RosterFileName(opp)
			}

			var w io.Writer = os.Stdout
			if out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			app.Logger.Debug("exportRoster command", zap.String("opportunity_id", args[0]), zap.String("out", out))

			roster, err := services.ExportRosterCSV(app.Ctx, app.Database, app.Logger, app.ActorID(), orgID, args[0], w)
			if err != nil {
				return err
			}

			if out != "-" {
				fmt.Printf("\n✓ Exported %d volunteers to %s\n\n", len(roster.Entries), out)
			}
			return nil
		},
	}

	cmd.Flags().StringP("out", "o", "", "Output file")

	return cmd
}
