package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ZertGraf/roster-bot/internal/api"
	"github.com/ZertGraf/roster-bot/internal/api/handler"
	"github.com/ZertGraf/roster-bot/internal/bot"
	"github.com/ZertGraf/roster-bot/internal/chat"
	"github.com/ZertGraf/roster-bot/internal/chat/console"
	"github.com/ZertGraf/roster-bot/internal/chat/rocketchat"
	"github.com/ZertGraf/roster-bot/internal/events"
	"github.com/ZertGraf/roster-bot/internal/metrics"
	"github.com/ZertGraf/roster-bot/internal/pkg/config"
	"github.com/ZertGraf/roster-bot/internal/pkg/logger"
	"github.com/ZertGraf/roster-bot/internal/pkg/postgres"
	"github.com/ZertGraf/roster-bot/internal/pkg/sqlite"
	"github.com/ZertGraf/roster-bot/internal/repository"
	sqliterepo "github.com/ZertGraf/roster-bot/internal/repository/sqlite"
	"github.com/ZertGraf/roster-bot/internal/router"
	"github.com/ZertGraf/roster-bot/internal/service"
	messagebus "github.com/vardius/message-bus"
)

type Application struct {
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *metrics.Metrics

	// exactly one of Postgres and SQLite is set, depending on DatabaseDriver
	Postgres *postgres.Connection
	Migrator *postgres.Migrator
	SQLite   *sqlite.Connection

	DeveloperRepo  repository.DeveloperRepository
	ProjectRepo    repository.ProjectRepository
	AssignmentRepo repository.AssignmentRepository

	Bus   messagebus.MessageBus
	Audit *events.Audit

	RosterService *service.RosterService
	Router        *router.Router

	Inbox *chat.Inbox
	Bot   *bot.Bot

	HTTPServer *api.HTTPServer

	stopBot context.CancelFunc
	botDone chan struct{}
}

func New() (*Application, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logConfig := &logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: cfg.LogAddSource,
	}
	if cfg.ChatTransport == config.TransportConsole {
		logConfig.Output = os.Stderr
	}

	log, err := logger.New(logConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	app := &Application{
		Config:  cfg,
		Logger:  log,
		Metrics: metrics.New(),
		botDone: make(chan struct{}),
	}

	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		app.Postgres, err = postgres.New(log, &postgres.Config{
			Host:              cfg.DatabaseHost,
			Port:              cfg.DatabasePort,
			Username:          cfg.DatabaseUser,
			Password:          cfg.DatabasePassword,
			Database:          cfg.DatabaseName,
			Schema:            cfg.DatabaseSchema,
			SSLMode:           cfg.DatabaseSSLMode,
			MaxConns:          cfg.DatabaseMaxConns,
			MinConns:          cfg.DatabaseMinConns,
			MaxConnLifetime:   cfg.DatabaseMaxConnLifetime,
			MaxConnIdleTime:   cfg.DatabaseMaxConnIdleTime,
			HealthCheckPeriod: cfg.DatabaseHealthCheckPeriod,
			ConnectTimeout:    cfg.DatabaseConnectTimeout,
			AcquireTimeout:    cfg.DatabaseAcquireTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres connection: %w", err)
		}
	case config.DriverSQLite:
		app.SQLite, err = sqlite.New(log, &sqlite.Config{
			Path:  cfg.SQLitePath,
			Debug: cfg.LogLevel == "debug",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create sqlite connection: %w", err)
		}
	}

	return app, nil
}

func (app *Application) Init(ctx context.Context) error {
	app.Logger.Info("initializing application",
		"database", app.Config.DatabaseDriver,
		"transport", app.Config.ChatTransport,
	)

	if err := app.initStorage(ctx); err != nil {
		return err
	}

	app.Bus = messagebus.New(app.Config.EventBusQueueSize)
	app.Audit = events.NewAudit(app.Logger, app.Metrics)
	if err := app.Audit.Register(app.Bus); err != nil {
		return fmt.Errorf("failed to register audit subscriber: %w", err)
	}

	app.RosterService = service.NewRosterService(
		app.DeveloperRepo,
		app.ProjectRepo,
		app.AssignmentRepo,
		app.Bus,
		app.Logger,
	)
	app.Router = router.New(app.RosterService, app.Metrics, app.Logger)

	botCtx, stopBot := context.WithCancel(context.WithoutCancel(ctx))

	source, sink, webhook, err := app.initTransport(botCtx)
	if err != nil {
		stopBot()
		return err
	}

	app.Bot = bot.New(source, sink, app.Router, &bot.Config{Alias: app.Config.BotAlias}, app.Metrics, app.Logger)

	app.HTTPServer = api.NewHTTPServer(
		&api.ServerConfig{
			Host:         app.Config.ServerHost,
			Port:         app.Config.ServerPort,
			ReadTimeout:  app.Config.ServerReadTimeout,
			WriteTimeout: app.Config.ServerWriteTimeout,
			IdleTimeout:  app.Config.ServerIdleTimeout,
		},
		webhook,
		app.Metrics.Handler(),
		app.Health,
		app.Logger,
	)

	if err := app.HTTPServer.Start(ctx); err != nil {
		stopBot()
		return fmt.Errorf("failed to start http server: %w", err)
	}

	app.stopBot = stopBot
	go func() {
		defer close(app.botDone)
		if err := app.Bot.Run(botCtx); err != nil {
			app.Logger.Error("bot loop failed", "error", err)
		}
	}()

	app.Logger.Info("application initialized successfully")
	return nil
}

func (app *Application) initStorage(ctx context.Context) error {
	switch {
	case app.Postgres != nil:
		if err := app.Postgres.Connect(ctx); err != nil {
			return fmt.Errorf("postgres connection failed: %w", err)
		}

		app.Migrator = postgres.NewMigrator(app.Postgres.Pool(), &postgres.MigrationConfig{
			Timeout:   app.Config.DatabaseMigrationTimeout,
			TableName: app.Config.DatabaseMigrationTable,
			Enabled:   app.Config.DatabaseMigrationEnabled,
		}, app.Logger)

		if err := app.Migrator.RunMigrations(ctx); err != nil {
			return fmt.Errorf("database migrations failed: %w", err)
		}

		pool := app.Postgres.Pool()
		app.DeveloperRepo = repository.NewDeveloperRepo(pool, app.Logger)
		app.ProjectRepo = repository.NewProjectRepo(pool, app.Logger)
		app.AssignmentRepo = repository.NewAssignmentRepo(pool, app.Logger)

	case app.SQLite != nil:
		if err := app.SQLite.Connect(ctx); err != nil {
			return fmt.Errorf("sqlite connection failed: %w", err)
		}

		db := app.SQLite.DB()
		if app.Config.DatabaseMigrationEnabled {
			if err := sqliterepo.Migrate(ctx, db); err != nil {
				return fmt.Errorf("database migrations failed: %w", err)
			}
		}
		if err := sqliterepo.SeedProjects(ctx, db, app.Config.SeedProjects...); err != nil {
			return fmt.Errorf("failed to seed projects: %w", err)
		}

		app.DeveloperRepo = sqliterepo.NewDeveloperRepo(db, app.Logger)
		app.ProjectRepo = sqliterepo.NewProjectRepo(db, app.Logger)
		app.AssignmentRepo = sqliterepo.NewAssignmentRepo(db, app.Logger)

	default:
		return errors.New("no storage backend configured")
	}
	return nil
}

// initTransport returns the message source, the reply sink and, for
// Rocket.Chat, the webhook handler that feeds the source.
func (app *Application) initTransport(ctx context.Context) (chat.Source, chat.Sink, *handler.WebhookHandler, error) {
	cfg := app.Config

	switch cfg.ChatTransport {
	case config.TransportRocketChat:
		client, err := rocketchat.NewClient(&rocketchat.Config{
			BaseURL:  cfg.RocketChatURL,
			Username: cfg.RocketChatUsername,
			Password: cfg.RocketChatPassword,
			Timeout:  cfg.RocketChatTimeout,
		}, app.Logger)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := client.Login(ctx); err != nil {
			// replies retry the login, so a chat outage doesn't block startup
			app.Logger.Warn("rocket.chat login failed", "error", err)
		}

		app.Inbox = chat.NewInbox(cfg.BotInboxSize)
		webhook := handler.NewWebhookHandler(app.Inbox, &handler.WebhookConfig{
			Token:    cfg.RocketChatWebhookToken,
			Username: cfg.RocketChatUsername,
			UserID:   client.UserID,
			Channels: cfg.RocketChatChannels,
		}, app.Logger)
		return app.Inbox, client, webhook, nil

	case config.TransportConsole:
		source := console.NewSource(os.Stdin, cfg.BotInboxSize, app.Logger)
		source.Start(ctx)
		return source, console.NewSink(os.Stdout), nil, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown chat transport %q", cfg.ChatTransport)
	}
}

// Done is closed when the bot loop has stopped, for example when console
// input ends.
func (app *Application) Done() <-chan struct{} {
	return app.botDone
}

func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("shutting down application")

	if app.HTTPServer != nil {
		if err := app.HTTPServer.Stop(ctx); err != nil {
			app.Logger.Error("error stopping http server", "error", err)
		}
	}

	if app.stopBot != nil {
		// webhook messages already queued are still answered; console
		// input is abandoned
		if app.Inbox != nil {
			app.Inbox.Close()
		} else {
			app.stopBot()
		}

		select {
		case <-app.botDone:
		case <-ctx.Done():
			app.Logger.Warn("bot did not stop before shutdown deadline")
		}
		app.stopBot()
	}

	if app.Audit != nil {
		app.Audit.Unregister(app.Bus)
	}

	if app.Postgres != nil {
		app.Postgres.Close()
	}
	if app.SQLite != nil {
		app.SQLite.Close()
	}

	app.Logger.Info("application shutdown completed")
	return nil
}

func (app *Application) Health(ctx context.Context) error {
	if app.Postgres != nil {
		if err := app.Postgres.Health(ctx); err != nil {
			return fmt.Errorf("postgres health check failed: %w", err)
		}
		if err := app.Migrator.Health(ctx); err != nil {
			return fmt.Errorf("migrator health check failed: %w", err)
		}
	}
	if app.SQLite != nil {
		if err := app.SQLite.Health(ctx); err != nil {
			return fmt.Errorf("sqlite health check failed: %w", err)
		}
	}
	return nil
}
