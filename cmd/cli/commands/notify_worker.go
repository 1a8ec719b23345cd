package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jakechorley/voluntarios/pkg/notify"
)

// NotifyWorkerCmd creates the notifyWorker command
func NotifyWorkerCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifyWorker",
		Short: "Deliver notifications queued on RabbitMQ",
		Long: `Consume the notification queue and deliver each message by email.
Without notifications.gmailSender configured, messages are written to the log instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			rabbit, err := app.Rabbit()
			if err != nil {
				return err
			}

			var sender notify.Sender = notify.LogSender{Logger: app.Logger}
			if !dryRun && app.Cfg.Notifications.GmailSender != "" {
				gmail, err := app.Gmail()
				if err != nil {
					return err
				}
				sender = notify.GmailSender{Client: gmail}
			}

			queue := app.Cfg.Notifications.RabbitMQ.Queue
			deliveries, err := rabbit.Consume(queue)
			if err != nil {
				return fmt.Errorf("failed to consume %s: %w", queue, err)
			}

			ctx, stop := signal.NotifyContext(app.Ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app.Logger.Info("Notification workers started",
				zap.String("queue", queue),
				zap.Int("workers", app.Cfg.Notifications.Workers),
				zap.Bool("dry_run", dryRun))

			// workers share the delivery channel; each message goes to exactly one
			group, ctx := errgroup.WithContext(ctx)
			for i := 0; i < app.Cfg.Notifications.Workers; i++ {
				worker := &notify.Worker{Sender: sender, Logger: app.Logger.With(zap.Int("worker", i))}
				group.Go(func() error {
					worker.Run(ctx, deliveries)
					return nil
				})
			}
			if err := group.Wait(); err != nil {
				return err
			}

			fmt.Println("\n✓ Notification worker stopped")
			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Log messages instead of emailing them")

	return cmd
}
