package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZertGraf/roster-bot/internal/pkg/logger"
	glebarez "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type Config struct {
	// Path is a file path, or a "file:" URI for in-memory databases.
	Path          string
	SlowThreshold time.Duration
	Debug         bool
}

// Connection holds the single gorm handle used by the sqlite repositories.
type Connection struct {
	db     *gorm.DB
	logger *logger.Logger
	config *Config
}

func New(logger *logger.Logger, config *Config) (*Connection, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("invalid sqlite config: path is required")
	}
	return &Connection{
		config: config,
		logger: logger.Component("database/sqlite"),
	}, nil
}

func (c *Connection) Connect(ctx context.Context) error {
	if !strings.HasPrefix(c.config.Path, "file:") {
		if err := os.MkdirAll(filepath.Dir(c.config.Path), 0o700); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(glebarez.Open(withForeignKeys(c.config.Path)), &gorm.Config{
		Logger: NewGormLogger(c.logger, c.config.SlowThreshold, c.config.Debug),
	})
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sqlite handle: %w", err)
	}
	// sqlite serialises writers anyway; one connection also keeps in-memory
	// databases alive for the life of the process
	sqlDB.SetMaxOpenConns(1)

	if err = sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("failed to ping sqlite: %w", err)
	}

	c.db = db

	c.logger.Info("sqlite connection established", "path", c.config.Path)
	return nil
}

func (c *Connection) DB() *gorm.DB {
	if c.db == nil {
		panic("sqlite connection not established, call Connect() first")
	}
	return c.db
}

func (c *Connection) Close() {
	if c.db == nil {
		return
	}
	if sqlDB, err := c.db.DB(); err == nil {
		_ = sqlDB.Close()
		c.logger.Info("sqlite connection closed")
	}
}

func (c *Connection) Health(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("sqlite connection not initialized")
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func withForeignKeys(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}
