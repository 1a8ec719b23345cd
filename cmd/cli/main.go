package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/cmd/cli/commands"
	"github.com/jakechorley/voluntarios/pkg/utils/logging"
)

var (
	env      string
	verbose  bool
	jsonLogs bool
	app      = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "voluntarios",
		Short: "Voluntarios - match volunteers with opportunities",
		Long: `Run the Voluntarios API and manage organizations, opportunities, signups and rosters
from the command line.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: dev, test, prod, etc.)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Write console logs as JSON")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.SeedAdminCmd(app))
	rootCmd.AddCommand(commands.NotifyWorkerCmd(app))
	rootCmd.AddCommand(commands.CreateOrganizationCmd(app))
	rootCmd.AddCommand(commands.SetOrganizationStatusCmd(app))
	rootCmd.AddCommand(commands.ListOrganizationsCmd(app))
	rootCmd.AddCommand(commands.CreateOpportunityCmd(app))
	rootCmd.AddCommand(commands.CreateSeriesCmd(app))
	rootCmd.AddCommand(commands.PublishOpportunityCmd(app))
	rootCmd.AddCommand(commands.CloseOpportunityCmd(app))
	rootCmd.AddCommand(commands.ListOpportunitiesCmd(app))
	rootCmd.AddCommand(commands.SignUpCmd(app))
	rootCmd.AddCommand(commands.CancelSignupCmd(app))
	rootCmd.AddCommand(commands.MarkSignupStatusCmd(app))
	rootCmd.AddCommand(commands.ListSignupsCmd(app))
	rootCmd.AddCommand(commands.ViewRosterCmd(app))
	rootCmd.AddCommand(commands.ExportRosterCmd(app))
	rootCmd.AddCommand(commands.PublishRosterCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	err := rootCmd.Execute()
	shutdown()
	if err != nil {
		os.Exit(1)
	}
}

// initApp sets up the logger, then config, storage and auth
func initApp() error {
	logger, err := logging.InitLogger(env, logging.Options{Verbose: verbose, JSONConsole: jsonLogs})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Starting application", zap.String("environment", env))

	if err := app.Init(context.Background(), env, logger); err != nil {
		return err
	}
	logger.Debug("Application initialized")
	return nil
}

// shutdown flushes notifications and logs whether or not the command failed
func shutdown() {
	if app.Logger == nil {
		return
	}
	app.Close()
	_ = app.Logger.Sync()
}
