package auth

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/viant/fitlink/authmock"
	"github.com/viant/fitlink/registry"
	"github.com/viant/fitlink/server"
	"github.com/viant/fitlink/store"
)

type wiring struct {
	service *Service
	reg     *registry.Registry
	creds   *store.Credentials
	tokens  *store.Tokens
	srv     *server.Server
	mock    *authmock.HTTPTestAuthorizationServer

	mu     sync.Mutex
	opened []string
}

func newWiring(t *testing.T, listenAddr string) *wiring {
	t.Helper()
	mock, err := authmock.NewHTTPTestServer()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	dir := t.TempDir()
	w := &wiring{
		reg:    registry.New(),
		creds:  store.NewCredentials(filepath.Join(dir, "credentials.json")),
		tokens: store.NewTokens(filepath.Join(dir, "tokens.json")),
		mock:   mock,
	}
	w.srv = server.New(server.Config{
		ListenAddr: listenAddr,
		Registry:   w.reg,
		Tokens:     w.tokens,
		Client: func(clientID, clientSecret string) *oauth2.Config {
			config := mock.ClientConfig(w.srv.BaseURL() + "/callback")
			config.ClientID = clientID
			config.ClientSecret = clientSecret
			return config
		},
		OpenURL: func(u string) error {
			w.mu.Lock()
			defer w.mu.Unlock()
			w.opened = append(w.opened, u)
			return nil
		},
	})
	w.service = New(w.creds, w.reg, w.srv, nil)
	return w
}

// openedStates maps client id to the state of each captured browser URL.
func (w *wiring) openedStates(t *testing.T) map[string]string {
	t.Helper()
	w.mu.Lock()
	defer w.mu.Unlock()
	states := map[string]string{}
	for _, raw := range w.opened {
		parsed, err := url.Parse(raw)
		require.NoError(t, err)
		states[parsed.Query().Get("client_id")] = parsed.Query().Get("state")
	}
	return states
}

func TestService_AuthorizeEndToEnd(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := newWiring(t, "127.0.0.1:0")

	message, err := w.service.Authorize(ctx, "test_client_id", "test_client_secret")
	require.NoError(t, err)
	assert.Contains(t, message, "authorization started")

	records, err := w.creds.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "test_client_id", records[0].ClientID)

	states := w.openedStates(t)
	state := states["test_client_id"]
	require.NotEmpty(t, state)

	// play the browser redirect back into the listener
	resp, err := http.Get(w.srv.BaseURL() + "/callback?state=" + url.QueryEscape(state) + "&code=" + authmock.AuthorizationCode)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	record, ok, err := w.tokens.Lookup(ctx, "test_client_id")
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEmpty(t, record["access_token"])
}

func TestService_RejectsEmptyCredential(t *testing.T) {
	w := newWiring(t, "127.0.0.1:0")
	_, err := w.service.Authorize(context.Background(), " ", "secret")
	assert.Error(t, err)
	_, err = w.service.Authorize(context.Background(), "abc", "")
	assert.Error(t, err)
}

func TestTrigger_AbsorbsStartupRace(t *testing.T) {
	// reserve an address, then start the listener only after the trigger began
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := newWiring(t, addr)
	w.reg.Register("test_client_id", "test_client_secret")

	go func() {
		time.Sleep(600 * time.Millisecond)
		_ = w.srv.Start(ctx)
	}()

	message, err := w.service.Trigger(ctx, "test_client_id")
	require.NoError(t, err)
	assert.Contains(t, message, "authorization started")
}

func TestTrigger_Unreachable(t *testing.T) {
	// nothing listens and nothing ever starts
	w := newWiring(t, "127.0.0.1:1")
	_, err := w.service.Trigger(context.Background(), "test_client_id")
	assert.ErrorIs(t, err, ErrServerUnreachable)
}

func TestTrigger_ConcurrentClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := newWiring(t, "127.0.0.1:0")
	require.NoError(t, w.srv.Start(ctx))

	w.reg.Register("client-a", "secret-a")
	w.reg.Register("client-b", "secret-b")

	var wg sync.WaitGroup
	for _, clientID := range []string{"client-a", "client-b"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			message, err := w.service.Trigger(ctx, id)
			assert.NoError(t, err)
			assert.Contains(t, message, "authorization started")
		}(clientID)
	}
	wg.Wait()

	states := w.openedStates(t)
	require.NotEmpty(t, states["client-a"])
	require.NotEmpty(t, states["client-b"])
	assert.NotEqual(t, states["client-a"], states["client-b"])

	// each state resolves to its own client, no cross-talk
	sessionA, ok := w.reg.ResolveState(states["client-a"])
	require.True(t, ok)
	assert.Equal(t, "client-a", sessionA.ClientID)
	sessionB, ok := w.reg.ResolveState(states["client-b"])
	require.True(t, ok)
	assert.Equal(t, "client-b", sessionB.ClientID)
}
