package handler

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/ZertGraf/roster-bot/internal/chat"
	"github.com/ZertGraf/roster-bot/internal/chat/rocketchat"
	"github.com/ZertGraf/roster-bot/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxWebhookBody = 64 << 10

// Pusher accepts messages for the bot loop without blocking.
type Pusher interface {
	Push(msg chat.Message) error
}

type WebhookConfig struct {
	Token string
	// Username is the account the bot replies with. Its own messages are
	// not commands.
	Username string
	// UserID returns the id of that account once known. Optional.
	UserID func() string
	// Channels limits accepted messages to these channel names or ids.
	// Empty accepts every channel.
	Channels []string
}

// WebhookHandler receives Rocket.Chat outgoing webhooks and queues the
// messages for the bot.
type WebhookHandler struct {
	inbox  Pusher
	config *WebhookConfig
	logger *logger.Logger
}

func NewWebhookHandler(inbox Pusher, config *WebhookConfig, logger *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		inbox:  inbox,
		config: config,
		logger: logger.Component("handler/webhook"),
	}
}

func (h *WebhookHandler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.Receive)

	return r
}

func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var hook rocketchat.OutgoingWebhook
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWebhookBody)).Decode(&hook); err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body", h.logger)
		return
	}

	if subtle.ConstantTimeCompare([]byte(hook.Token), []byte(h.config.Token)) != 1 {
		WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid token", h.logger)
		return
	}

	if hook.FromBot() || h.fromSelf(&hook) || !h.allowed(&hook) {
		writeJSON(w, http.StatusOK, struct{}{}, h.logger)
		return
	}

	msg := hook.Message()
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	if err := h.inbox.Push(msg); err != nil {
		if errors.Is(err, chat.ErrInboxFull) || errors.Is(err, chat.ErrSourceClosed) {
			WriteError(w, http.StatusServiceUnavailable, CodeUnavailable, err.Error(), h.logger)
			return
		}
		WriteError(w, http.StatusInternalServerError, CodeInternal, "internal server error", h.logger)
		return
	}

	h.logger.Debug("message queued",
		"message_id", msg.ID,
		"channel", msg.ChannelName,
	)
	writeJSON(w, http.StatusOK, struct{}{}, h.logger)
}

func (h *WebhookHandler) fromSelf(hook *rocketchat.OutgoingWebhook) bool {
	if h.config.Username != "" && strings.EqualFold(hook.UserName, h.config.Username) {
		return true
	}
	if h.config.UserID != nil && hook.UserID != "" {
		return hook.UserID == h.config.UserID()
	}
	return false
}

func (h *WebhookHandler) allowed(hook *rocketchat.OutgoingWebhook) bool {
	if len(h.config.Channels) == 0 {
		return true
	}
	return slices.Contains(h.config.Channels, hook.ChannelName) ||
		slices.Contains(h.config.Channels, hook.ChannelID)
}
