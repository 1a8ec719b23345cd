package commands

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/internal/config"
	"github.com/jakechorley/voluntarios/pkg/auth"
	"github.com/jakechorley/voluntarios/pkg/clients/gmailclient"
	"github.com/jakechorley/voluntarios/pkg/clients/sheetsclient"
	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/db"
	"github.com/jakechorley/voluntarios/pkg/notify"
	"github.com/jakechorley/voluntarios/pkg/postgres"
	"github.com/jakechorley/voluntarios/pkg/utils"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env      string
	Cfg      *config.Config
	Database db.Database
	Tokens   *auth.TokenService
	Logger   *zap.Logger
	Ctx      context.Context

	notifier   notify.Notifier
	google     *utils.TokenProvider
	gmail      *gmailclient.Client
	sheets     *sheetsclient.Client
	rabbit     *notify.RabbitClient
	closers    []func()
	dispatcher *notify.Dispatcher
}

// Init loads configuration and opens the database. Google clients and
// notification sinks are created on first use so that commands which
// don't need them never trigger an OAuth flow or broker connection.
func (a *AppContext) Init(ctx context.Context, env string, logger *zap.Logger) error {
	a.Ctx = ctx
	a.Env = env
	a.Logger = logger

	a.Logger.Info("Loading configuration")
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.Cfg = cfg
	a.Logger.Debug("Configuration loaded successfully",
		zap.String("storage", cfg.Storage.Driver),
		zap.Strings("sinks", cfg.Notifications.Sinks))

	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		a.Logger.Info("Connecting to database")
		pg, err := postgres.NewDB(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		a.Database = pg
	default:
		a.Logger.Warn("Using in-memory storage, data is lost on exit")
		a.Database = db.NewMemoryDB()
	}

	a.Tokens = auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	return nil
}

// Close flushes queued notifications and releases connections
func (a *AppContext) Close() {
	if a.dispatcher != nil {
		a.dispatcher.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	if a.Database != nil {
		a.Database.Close()
	}
}

// Postgres returns the database as a *postgres.DB, failing for other drivers
func (a *AppContext) Postgres() (*postgres.DB, error) {
	pg, ok := a.Database.(*postgres.DB)
	if !ok {
		return nil, errors.New("this command requires storage.driver: postgres")
	}
	return pg, nil
}

// Notifier returns the dispatcher fanning out to every configured sink
func (a *AppContext) Notifier() (notify.Notifier, error) {
	if a.notifier != nil {
		return a.notifier, nil
	}

	n := a.Cfg.Notifications
	var senders []notify.Sender

	if n.HasSink(config.SinkLog) {
		senders = append(senders, notify.LogSender{Logger: a.Logger})
	}
	if n.HasSink(config.SinkGmail) {
		gmail, err := a.Gmail()
		if err != nil {
			return nil, err
		}
		senders = append(senders, notify.GmailSender{Client: gmail})
	}
	if n.HasSink(config.SinkRabbitMQ) {
		rabbit, err := a.Rabbit()
		if err != nil {
			return nil, err
		}
		senders = append(senders, notify.QueueSender{Publisher: rabbit, Queue: n.RabbitMQ.Queue})
	}
	if n.HasSink(config.SinkKafka) {
		events := notify.NewEventSender(n.Kafka.Brokers, n.Kafka.Topic)
		a.closers = append(a.closers, func() {
			if err := events.Close(); err != nil {
				a.Logger.Warn("Failed to close kafka writer", zap.Error(err))
			}
		})
		senders = append(senders, events)
	}

	a.dispatcher = notify.NewDispatcher(a.Logger, n.QueueSize, n.Workers, senders...)
	a.notifier = a.dispatcher
	return a.notifier, nil
}

// Rabbit returns a connection with the notification queue declared
func (a *AppContext) Rabbit() (*notify.RabbitClient, error) {
	if a.rabbit != nil {
		return a.rabbit, nil
	}
	rmq := a.Cfg.Notifications.RabbitMQ
	if rmq == nil {
		return nil, errors.New("notifications.rabbitmq is not configured")
	}

	a.Logger.Info("Connecting to rabbitmq", zap.String("queue", rmq.Queue))
	client, err := notify.NewRabbitClient(rmq.URL)
	if err != nil {
		return nil, err
	}
	if err := client.DeclareQueue(rmq.Queue); err != nil {
		client.Close()
		return nil, err
	}

	a.rabbit = client
	a.closers = append(a.closers, func() {
		if err := client.Close(); err != nil {
			a.Logger.Warn("Failed to close rabbitmq connection", zap.Error(err))
		}
	})
	return client, nil
}

// Gmail returns a gmail client sending as notifications.gmailSender
func (a *AppContext) Gmail() (*gmailclient.Client, error) {
	if a.gmail != nil {
		return a.gmail, nil
	}
	if a.Cfg.Notifications.GmailSender == "" {
		return nil, errors.New("notifications.gmailSender is not configured")
	}

	tokens, err := a.googleTokens()
	if err != nil {
		return nil, err
	}

	a.Logger.Info("Initializing gmail client")
	a.gmail, err = gmailclient.NewClient(a.Ctx, tokens, a.Cfg.Notifications.GmailSender)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}
	return a.gmail, nil
}

// Sheets returns a sheets client, or nil when no roster spreadsheet is configured
func (a *AppContext) Sheets() (*sheetsclient.Client, error) {
	if a.sheets != nil || a.Cfg.Roster.SpreadsheetID == "" {
		return a.sheets, nil
	}

	tokens, err := a.googleTokens()
	if err != nil {
		return nil, err
	}

	a.Logger.Info("Initializing sheets client")
	a.sheets, err = sheetsclient.NewClient(a.Ctx, tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return a.sheets, nil
}

func (a *AppContext) googleTokens() (*utils.TokenProvider, error) {
	if a.google != nil {
		return a.google, nil
	}

	a.Logger.Info("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClient(a.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	a.google, err = utils.NewTokenProvider(oauthCfg, a.Env, a.Logger)
	if err != nil {
		return nil, err
	}
	return a.google, nil
}

// ActorID returns the configured super admin's user id for the activity
// log, or "" when the account has not been seeded
func (a *AppContext) ActorID() string {
	if a.Cfg.Admin.Email == "" {
		return ""
	}
	admin, err := a.Database.GetUserByEmail(a.Ctx, a.Cfg.Admin.Email)
	if err != nil {
		return ""
	}
	return admin.ID
}

// OpportunityOrg returns the organization owning an opportunity; the CLI
// acts on behalf of that organization
func (a *AppContext) OpportunityOrg(opportunityID string) (string, error) {
	opp, err := a.Database.GetOpportunity(a.Ctx, opportunityID)
	if err != nil {
		return "", fmt.Errorf("failed to find opportunity: %w", err)
	}
	return opp.OrgID, nil
}

// SignupOrg returns the organization owning a signup's opportunity
func (a *AppContext) SignupOrg(signupID string) (*model.Signup, string, error) {
	signup, err := a.Database.GetSignup(a.Ctx, signupID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find signup: %w", err)
	}
	orgID, err := a.OpportunityOrg(signup.OpportunityID)
	if err != nil {
		return nil, "", err
	}
	return signup, orgID, nil
}
