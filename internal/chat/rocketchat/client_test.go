package rocketchat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ZertGraf/roster-bot/internal/chat"
	"github.com/ZertGraf/roster-bot/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	logins   atomic.Int32
	rejectN  atomic.Int32
	messages chan postMessageRequest
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	t.Helper()
	fs := &fakeServer{messages: make(chan postMessageRequest, 10)}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/login", func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.User != "bot" || req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fs.logins.Add(1)
		_, _ = w.Write([]byte(`{"status":"success","data":{"authToken":"token","userId":"bot-id"}}`))
	})
	mux.HandleFunc("/api/v1/chat.postMessage", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Auth-Token") != "token" || r.Header.Get("X-User-Id") != "bot-id" || fs.rejectN.Load() > 0 {
			fs.rejectN.Add(-1)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req postMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fs.messages <- req
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fs, srv
}

func newTestClient(t *testing.T, url, password string) *Client {
	t.Helper()
	c, err := NewClient(&Config{
		BaseURL:  url,
		Username: "bot",
		Password: password,
		Timeout:  5 * time.Second,
	}, logger.Discard())
	require.NoError(t, err)
	return c
}

func TestReplyLogsInLazily(t *testing.T) {
	fs, srv := newFakeServer(t)
	c := newTestClient(t, srv.URL, "secret")

	err := c.Reply(context.Background(), chat.Reply{ChannelID: "room-1", Text: "User alice created", Alias: "BOT NOTIFICATION"})
	require.NoError(t, err)

	msg := <-fs.messages
	assert.Equal(t, postMessageRequest{RoomID: "room-1", Text: "User alice created", Alias: "BOT NOTIFICATION"}, msg)

	require.NoError(t, c.Reply(context.Background(), chat.Reply{ChannelID: "room-1", Text: "again"}))
	<-fs.messages
	assert.Equal(t, int32(1), fs.logins.Load())
}

func TestReplyRelogsOnUnauthorized(t *testing.T) {
	fs, srv := newFakeServer(t)
	c := newTestClient(t, srv.URL, "secret")
	assert.Empty(t, c.UserID())
	require.NoError(t, c.Login(context.Background()))
	assert.Equal(t, "bot-id", c.UserID())

	fs.rejectN.Store(1)
	require.NoError(t, c.Reply(context.Background(), chat.Reply{ChannelID: "room-1", Text: "hi"}))

	<-fs.messages
	assert.Equal(t, int32(2), fs.logins.Load())
}

func TestLoginFailure(t *testing.T) {
	_, srv := newFakeServer(t)
	c := newTestClient(t, srv.URL, "wrong")

	err := c.Reply(context.Background(), chat.Reply{ChannelID: "room-1", Text: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login")
}

func TestNewClientValidatesConfig(t *testing.T) {
	_, err := NewClient(&Config{BaseURL: "not a url", Timeout: time.Second}, logger.Discard())
	assert.Error(t, err)
}

func TestOutgoingWebhookFromBot(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`{"text":"hi"}`, false},
		{`{"text":"hi","bot":false}`, false},
		{`{"text":"hi","bot":null}`, false},
		{`{"text":"hi","bot":{"i":"abc"}}`, true},
	}

	for _, tt := range tests {
		var hook OutgoingWebhook
		require.NoError(t, json.Unmarshal([]byte(tt.raw), &hook))
		assert.Equal(t, tt.want, hook.FromBot(), tt.raw)
	}
}
