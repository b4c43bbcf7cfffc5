package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscordSenderSend(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := NewDiscordSender(srv.URL)
	require.NoError(t, s.Send(context.Background(), "digest title", "line one"))
	assert.Equal(t, "**digest title**\nline one", got["content"])
}

func TestDiscordSenderNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := NewDiscordSender(srv.URL).Send(context.Background(), "t", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discord:")
	assert.Contains(t, err.Error(), "status 429")
}

func TestTelegramSenderPayload(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/botsecret-token/sendMessage")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	s := NewTelegramSender("secret-token", "42")
	s.client = srv.Client()
	// Point the bot API at the test server by rewriting the request URL.
	s.client.Transport = rewriteHost{srv.Listener.Addr().String()}

	require.NoError(t, s.Send(context.Background(), "title", "body"))
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "*title*\nbody", got["text"])
	assert.Equal(t, "Markdown", got["parse_mode"])
}

// rewriteHost redirects outbound requests to a local test listener.
type rewriteHost struct {
	addr string
}

func (rt rewriteHost) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = "http"
	req.URL.Host = rt.addr
	return http.DefaultTransport.RoundTrip(req)
}
