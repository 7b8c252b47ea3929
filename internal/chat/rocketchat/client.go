// Package rocketchat connects the bot to a Rocket.Chat server: replies go
// through the REST API, messages arrive through an outgoing webhook.
package rocketchat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ZertGraf/roster-bot/internal/chat"
	"github.com/ZertGraf/roster-bot/internal/pkg/logger"
	. "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var errUnauthorized = errors.New("rocket.chat: unauthorized")

type Config struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
}

func (c *Config) Validate() error {
	return ValidateStruct(c,
		Field(&c.BaseURL, Required, is.URL),
		Field(&c.Username, Required),
		Field(&c.Password, Required),
		Field(&c.Timeout, Required, Min(time.Second)),
	)
}

type credentials struct {
	authToken string
	userID    string
}

// Client posts replies with chat.postMessage. It logs in lazily and once
// more when a token is rejected.
type Client struct {
	config *Config
	http   *http.Client
	logger *logger.Logger

	mu    sync.Mutex
	creds *credentials

	// userID is readable without mu, which Reply holds across requests
	userID atomic.Value
}

var _ chat.Sink = (*Client)(nil)

func NewClient(config *Config, logger *logger.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rocket.chat config: %w", err)
	}
	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
		logger: logger.Component("chat/rocketchat"),
	}, nil
}

type loginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

type loginResponse struct {
	Status string `json:"status"`
	Data   struct {
		AuthToken string `json:"authToken"`
		UserID    string `json:"userId"`
	} `json:"data"`
}

// Login exchanges the configured username and password for an auth token.
func (c *Client) Login(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.login(ctx)
}

func (c *Client) login(ctx context.Context) error {
	var resp loginResponse
	err := c.do(ctx, "/api/v1/login", nil, loginRequest{
		User:     c.config.Username,
		Password: c.config.Password,
	}, &resp)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if resp.Status != "success" || resp.Data.AuthToken == "" {
		return fmt.Errorf("login: unexpected status %q", resp.Status)
	}

	c.creds = &credentials{authToken: resp.Data.AuthToken, userID: resp.Data.UserID}
	c.userID.Store(resp.Data.UserID)
	c.logger.Info("logged in to rocket.chat", "user_id", resp.Data.UserID)
	return nil
}

// UserID returns the id of the bot's own account, or "" before the first
// successful login.
func (c *Client) UserID() string {
	id, _ := c.userID.Load().(string)
	return id
}

type postMessageRequest struct {
	RoomID string `json:"roomId"`
	Text   string `json:"text"`
	Alias  string `json:"alias,omitempty"`
}

type postMessageResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Reply posts reply.Text to reply.ChannelID.
func (c *Client) Reply(ctx context.Context, reply chat.Reply) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.creds == nil {
		if err := c.login(ctx); err != nil {
			return err
		}
	}

	req := postMessageRequest{RoomID: reply.ChannelID, Text: reply.Text, Alias: reply.Alias}

	err := c.postMessage(ctx, req)
	if errors.Is(err, errUnauthorized) {
		c.logger.Warn("rocket.chat token rejected, logging in again")
		c.creds = nil
		if err = c.login(ctx); err != nil {
			return err
		}
		err = c.postMessage(ctx, req)
	}
	return err
}

func (c *Client) postMessage(ctx context.Context, req postMessageRequest) error {
	var resp postMessageResponse
	if err := c.do(ctx, "/api/v1/chat.postMessage", c.creds, req, &resp); err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("post message: %s", resp.Error)
	}
	return nil
}

func (c *Client) do(ctx context.Context, path string, creds *credentials, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if creds != nil {
		req.Header.Set("X-Auth-Token", creds.authToken)
		req.Header.Set("X-User-Id", creds.userID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return errUnauthorized
	}
	if resp.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
