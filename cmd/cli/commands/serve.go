package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jakechorley/voluntarios/pkg/api"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Run the HTTP API until interrupted. Queued notifications are flushed on shutdown.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = app.Cfg.HTTP.Addr
			}

			notifier, err := app.Notifier()
			if err != nil {
				return err
			}

			opts := api.Options{
				BaseURL:              app.Cfg.BaseURL,
				AllowedOrigins:       app.Cfg.HTTP.AllowedOrigins,
				RequestTimeout:       app.Cfg.HTTP.RequestTimeout,
				MaxSeriesOccurrences: app.Cfg.Series.MaxOccurrences,
				RosterSpreadsheetID:  app.Cfg.Roster.SpreadsheetID,
			}
			sheets, err := app.Sheets()
			if err != nil {
				return err
			}
			if sheets != nil {
				opts.RosterPublisher = sheets
			}

			if created, err := seedAdmin(app); err != nil {
				return err
			} else if created {
				app.Logger.Info("Seeded super admin", zap.String("email", app.Cfg.Admin.Email))
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           api.NewServer(app.Database, app.Tokens, notifier, app.Logger, opts).Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(app.Ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			group, ctx := errgroup.WithContext(ctx)
			group.Go(func() error {
				app.Logger.Info("API listening", zap.String("addr", addr))
				if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			})
			group.Go(func() error {
				<-ctx.Done()
				app.Logger.Info("Shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("failed to shut down cleanly: %w", err)
				}
				return nil
			})

			return group.Wait()
		},
	}

	cmd.Flags().String("addr", "", "Listen address (defaults to http.addr from config)")

	return cmd
}
