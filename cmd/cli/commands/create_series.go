package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/core/services"
)

// CreateSeriesCmd creates the createSeries command
func CreateSeriesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createSeries <title>",
		Short: "Create recurring draft opportunities from an iCalendar RRULE",
		Long: `Create one draft opportunity per occurrence of an RRULE.
--start and --end give the first occurrence; every occurrence has the same duration.
The rule must be bounded with COUNT or UNTIL, e.g. "FREQ=WEEKLY;BYDAY=SA;COUNT=8".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, input, err := opportunityInputFromFlags(args[0], cmd.Flags())
			if err != nil {
				return err
			}
			rule, _ := cmd.Flags().GetString("rrule")
			if rule == "" {
				rule = app.Cfg.Series.DefaultRule
			}
			if rule == "" {
				return errors.New("--rrule is required when series.defaultRule is not configured")
			}

			app.Logger.Debug("createSeries command", zap.String("org_id", orgID), zap.String("rrule", rule))

			opps, err := services.CreateOpportunitySeries(app.Ctx, app.Database, app.Logger, app.ActorID(), orgID,
				input, rule, app.Cfg.Series.MaxOccurrences)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Series created with %d opportunities!\n\n", len(opps))
			if len(opps) > 0 {
				fmt.Printf("Series ID: %s\n\n", opps[0].SeriesID)
			}
			for i, opp := range opps {
				fmt.Printf("  %2d. %s  %s\n", i+1, opp.StartDate.Local().Format("2006-01-02 (Monday) 15:04"), opp.ID)
			}
			fmt.Println()
			return nil
		},
	}

	addOpportunityFlags(cmd.Flags())
	cmd.Flags().String("rrule", "", "Recurrence rule (defaults to series.defaultRule)")

	return cmd
}
