package config

import (
	"fmt"
	. "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/ilyakaznacheev/cleanenv"
	"os"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	TransportRocketChat = "rocketchat"
	TransportConsole    = "console"
)

type Config struct {
	// application settings
	Environment string `env:"ENVIRONMENT" env-default:"development"`
	ServiceName string `env:"SERVICE_NAME" env-default:"roster-bot"`

	// logging configuration
	LogLevel     string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat    string `env:"LOG_FORMAT" env-default:"text"`
	LogAddSource bool   `env:"LOG_ADD_SOURCE" env-default:"false"`

	// storage backend: postgres or sqlite
	DatabaseDriver string `env:"DATABASE_DRIVER" env-default:"postgres"`
	SQLitePath     string `env:"SQLITE_PATH" env-default:"data/roster.db"`
	// projects inserted at startup when running on sqlite
	SeedProjects []string `env:"SEED_PROJECTS" env-separator:","`

	// database connection settings
	DatabaseHost     string `env:"DATABASE_HOST" env-default:"localhost"`
	DatabasePort     int    `env:"DATABASE_PORT" env-default:"5432"`
	DatabaseUser     string `env:"DATABASE_USER" env-default:"postgres"`
	DatabasePassword string `env:"DATABASE_PASSWORD"`
	DatabaseName     string `env:"DATABASE_NAME" env-default:"postgres"`
	DatabaseSchema   string `env:"DATABASE_SCHEMA" env-default:"public"`
	DatabaseSSLMode  string `env:"DATABASE_SSL_MODE" env-default:"require"`

	// database connection pool settings
	DatabaseMaxConns          int32         `env:"DATABASE_MAX_CONNS" env-default:"4"`
	DatabaseMinConns          int32         `env:"DATABASE_MIN_CONNS" env-default:"1"`
	DatabaseMaxConnLifetime   time.Duration `env:"DATABASE_MAX_CONN_LIFETIME" env-default:"1h"`
	DatabaseMaxConnIdleTime   time.Duration `env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	DatabaseHealthCheckPeriod time.Duration `env:"DATABASE_HEALTH_CHECK_PERIOD" env-default:"1m"`
	DatabaseConnectTimeout    time.Duration `env:"DATABASE_CONNECT_TIMEOUT" env-default:"30s"`
	DatabaseAcquireTimeout    time.Duration `env:"DATABASE_ACQUIRE_TIMEOUT" env-default:"10s"`

	// database migrations settings
	DatabaseMigrationEnabled bool          `env:"DATABASE_MIGRATION_ENABLED" env-default:"true"`
	DatabaseMigrationTimeout time.Duration `env:"DATABASE_MIGRATION_TIMEOUT" env-default:"5m"`
	DatabaseMigrationTable   string        `env:"DATABASE_MIGRATION_TABLE" env-default:"schema_version"`

	// chat transport: rocketchat or console
	ChatTransport string `env:"CHAT_TRANSPORT" env-default:"rocketchat"`

	// rocket.chat settings
	RocketChatURL          string        `env:"ROCKETCHAT_URL"`
	RocketChatUsername     string        `env:"ROCKETCHAT_USERNAME"`
	RocketChatPassword     string        `env:"ROCKETCHAT_PASSWORD"`
	RocketChatWebhookToken string        `env:"ROCKETCHAT_WEBHOOK_TOKEN"`
	RocketChatChannels     []string      `env:"ROCKETCHAT_CHANNELS" env-separator:","`
	RocketChatTimeout      time.Duration `env:"ROCKETCHAT_TIMEOUT" env-default:"10s"`

	// bot settings
	BotAlias          string `env:"BOT_ALIAS" env-default:"BOT NOTIFICATION"`
	BotInboxSize      int    `env:"BOT_INBOX_SIZE" env-default:"100"`
	EventBusQueueSize int    `env:"EVENT_BUS_QUEUE_SIZE" env-default:"100"`

	// http server configuration (health, metrics, webhook)
	ServerHost         string        `env:"SERVER_HOST" env-default:"0.0.0.0"`
	ServerPort         int           `env:"SERVER_PORT" env-default:"8081"`
	ServerReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"30s"`
	ServerWriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
	ServerIdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

func New() (*Config, error) {
	var cfg Config

	// read from .env file if exists (optional)
	if err := cleanenv.ReadConfig(".env", &cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read dotenv file: %w", err)
	}

	// read from environment variables (required)
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks the settings that select a backend or transport. Connection
// details are validated by the components that consume them.
func (c *Config) Validate() error {
	rocketChat := c.ChatTransport == TransportRocketChat

	return ValidateStruct(c,
		Field(&c.DatabaseDriver, Required, In(DriverPostgres, DriverSQLite)),
		Field(&c.SQLitePath, requiredIf(c.DatabaseDriver == DriverSQLite)...),
		Field(&c.ChatTransport, Required, In(TransportRocketChat, TransportConsole)),
		Field(&c.RocketChatURL, requiredIf(rocketChat, is.URL)...),
		Field(&c.RocketChatUsername, requiredIf(rocketChat)...),
		Field(&c.RocketChatPassword, requiredIf(rocketChat)...),
		Field(&c.RocketChatWebhookToken, requiredIf(rocketChat)...),
		Field(&c.BotAlias, Required, Length(1, 64)),
		Field(&c.BotInboxSize, Required, Min(1)),
		Field(&c.EventBusQueueSize, Required, Min(1)),
		Field(&c.ServerPort, Required, Min(1), Max(65535)),
	)
}

func requiredIf(cond bool, rules ...Rule) []Rule {
	if !cond {
		return nil
	}
	return append([]Rule{Required}, rules...)
}
