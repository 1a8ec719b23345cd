package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/core/services"
)

const cliTimeLayout = "2006-01-02 15:04"

// parseWhen accepts RFC3339 or "YYYY-MM-DD HH:MM" in local time
func parseWhen(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(cliTimeLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected RFC3339 or %q", value, cliTimeLayout)
	}
	return t, nil
}

func addOpportunityFlags(flags *pflag.FlagSet) {
	flags.String("org", "", "Organization ID (required)")
	flags.String("description", "", "Description")
	flags.String("location", "", "Location (required)")
	flags.String("start", "", `Start time, RFC3339 or "YYYY-MM-DD HH:MM" (required)`)
	flags.String("end", "", "End time, same formats as --start (required)")
	flags.Int("slots", 1, "Number of volunteers needed")
}

func opportunityInputFromFlags(title string, flags *pflag.FlagSet) (string, services.OpportunityInput, error) {
	orgID, _ := flags.GetString("org")
	description, _ := flags.GetString("description")
	location, _ := flags.GetString("location")
	startValue, _ := flags.GetString("start")
	endValue, _ := flags.GetString("end")
	slots, _ := flags.GetInt("slots")

	if orgID == "" {
		return "", services.OpportunityInput{}, errors.New("--org is required")
	}
	start, err := parseWhen(startValue)
	if err != nil {
		return "", services.OpportunityInput{}, err
	}
	end, err := parseWhen(endValue)
	if err != nil {
		return "", services.OpportunityInput{}, err
	}

	return orgID, services.OpportunityInput{
		Title:       title,
		Description: description,
		Location:    location,
		StartDate:   start,
		EndDate:     end,
		TotalSlots:  slots,
	}, nil
}

// slotsSummary renders the capacity ledger, e.g. "3/5 left"
func slotsSummary(opp model.Opportunity) string {
	return fmt.Sprintf("%d/%d left", opp.RemainingSlots, opp.TotalSlots)
}

func printOpportunity(opp *model.Opportunity) {
	fmt.Printf("Opportunity ID: %s\n", opp.ID)
	fmt.Printf("Title:          %s\n", opp.Title)
	fmt.Printf("When:           %s - %s\n", opp.StartDate.Local().Format(cliTimeLayout), opp.EndDate.Local().Format("15:04"))
	fmt.Printf("Location:       %s\n", opp.Location)
	fmt.Printf("Slots:          %s\n", slotsSummary(*opp))
	fmt.Printf("Status:         %s\n\n", opp.Status)
}

// CreateOpportunityCmd creates the createOpportunity command
func CreateOpportunityCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createOpportunity <title>",
		Short: "Create a draft opportunity for an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, input, err := opportunityInputFromFlags(args[0], cmd.Flags())
			if err != nil {
				return err
			}
			publish, _ := cmd.Flags().GetBool("publish")

			app.Logger.Debug("createOpportunity command", zap.String("org_id", orgID), zap.Bool("publish", publish))

			actorID := app.ActorID()
			opp, err := services.CreateOpportunity(app.Ctx, app.Database, app.Logger, actorID, orgID, input)
			if err != nil {
				return err
			}
			if publish {
				opp, err = services.PublishOpportunity(app.Ctx, app.Database, app.Logger, actorID, orgID, opp.ID)
				if err != nil {
					return err
				}
			}

			fmt.Printf("\n✓ Opportunity created successfully!\n\n")
			printOpportunity(opp)
			return nil
		},
	}

	addOpportunityFlags(cmd.Flags())
	cmd.Flags().Bool("publish", false, "Publish the opportunity straight away")

	return cmd
}
