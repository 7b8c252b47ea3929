package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ZertGraf/roster-bot/internal/chat"
	"github.com/ZertGraf/roster-bot/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebhook(inbox Pusher, channels ...string) http.Handler {
	return NewWebhookHandler(inbox, &WebhookConfig{
		Token:    "s3cret",
		Username: "rosterbot",
		UserID:   func() string { return "bot-id" },
		Channels: channels,
	}, logger.Discard()).Routes()
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	return rec
}

func TestWebhookQueuesMessage(t *testing.T) {
	inbox := chat.NewInbox(1)
	h := newWebhook(inbox, "dev-team")

	rec := post(h, `{"token":"s3cret","bot":false,"channel_id":"C1","channel_name":"dev-team","message_id":"m1","user_name":"alice","text":"$bot_api help"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())
	require.Equal(t, 1, inbox.Len())

	msg, err := inbox.Receive(t.Context())
	require.NoError(t, err)
	assert.Equal(t, chat.Message{
		ID:          "m1",
		ChannelID:   "C1",
		ChannelName: "dev-team",
		Author:      "alice",
		Text:        "$bot_api help",
	}, msg)
}

func TestWebhookAssignsMissingMessageID(t *testing.T) {
	inbox := chat.NewInbox(1)
	h := newWebhook(inbox)

	rec := post(h, `{"token":"s3cret","channel_id":"C1","text":"$bot_api help"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	msg, err := inbox.Receive(t.Context())
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
}

func TestWebhookRejectsBadToken(t *testing.T) {
	inbox := chat.NewInbox(1)
	h := newWebhook(inbox)

	rec := post(h, `{"token":"wrong","channel_id":"C1","text":"$bot_api help"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), string(CodeUnauthorized))
	assert.Equal(t, 0, inbox.Len())
}

func TestWebhookRejectsMalformedBody(t *testing.T) {
	rec := post(newWebhook(chat.NewInbox(1)), `{"token":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookIgnoresBotsAndOtherChannels(t *testing.T) {
	inbox := chat.NewInbox(2)
	h := newWebhook(inbox, "dev-team")

	rec := post(h, `{"token":"s3cret","bot":{"i":"x"},"channel_name":"dev-team","text":"$bot_api help"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = post(h, `{"token":"s3cret","channel_id":"C9","channel_name":"random","text":"$bot_api help"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	// the bot's own help reply starts with the marker; it must not loop back
	helpReply := `$bot_api create_new_user username gitlab_username
$bot_api delete_user username`
	rec = post(h, `{"token":"s3cret","bot":false,"channel_name":"dev-team","user_name":"rosterbot","text":"`+helpReply+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = post(h, `{"token":"s3cret","bot":false,"channel_name":"dev-team","user_id":"bot-id","user_name":"renamed","text":"`+helpReply+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 0, inbox.Len())

	rec = post(h, `{"token":"s3cret","bot":false,"channel_name":"dev-team","user_id":"u-1","user_name":"alice","text":"$bot_api help"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, inbox.Len())
}

func TestWebhookInboxFull(t *testing.T) {
	inbox := chat.NewInbox(1)
	h := newWebhook(inbox)
	body := `{"token":"s3cret","channel_id":"C1","text":"$bot_api help"}`

	require.Equal(t, http.StatusOK, post(h, body).Code)

	rec := post(h, body)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), string(CodeUnavailable))
}
