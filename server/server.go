// Package server hosts the loopback HTTP listener acting as the OAuth2
// redirect target. The listener is bound once per process and survives any
// handler failure; every error path still renders a response.
package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/go-pkgz/lgr"
	R "github.com/go-pkgz/rest"
	"golang.org/x/oauth2"

	"github.com/viant/fitlink/event"
	"github.com/viant/fitlink/provider"
	"github.com/viant/fitlink/registry"
	"github.com/viant/fitlink/server/browser"
	"github.com/viant/fitlink/store"
)

// Config wires the collaborators the listener needs.
type Config struct {
	ListenAddr string
	// Client builds the oauth2 configuration for a pending session,
	// defaults to the fixed Fitbit endpoints.
	Client   func(clientID, clientSecret string) *oauth2.Config
	Registry *registry.Registry
	Tokens   *store.Tokens
	Sink     event.Sink
	OpenURL  browser.Opener
}

// Server is the loopback callback listener. Start is idempotent: the first
// call binds the port, later calls are no-ops while the listener is held.
type Server struct {
	config Config

	mu      sync.Mutex
	httpSrv *http.Server
	baseURL string
}

// New makes a stopped server with the given wiring.
func New(config Config) *Server {
	if config.ListenAddr == "" {
		config.ListenAddr = provider.ListenAddr
	}
	if config.Client == nil {
		config.Client = provider.NewConfig
	}
	if config.Sink == nil {
		config.Sink = event.Discard
	}
	if config.OpenURL == nil {
		config.OpenURL = browser.Open
	}
	return &Server{config: config}
}

// Start binds the listener and serves it on a background goroutine. The
// listener shuts down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.httpSrv != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return err
	}
	s.baseURL = "http://" + ln.Addr().String()
	s.httpSrv = &http.Server{Handler: s.routes()}
	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("[WARN] callback listener terminated, %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		_ = s.httpSrv.Shutdown(shutdownCtx)
		cancel()
	}()
	log.Printf("[INFO] callback listener on %s", s.baseURL)
	s.config.Sink.Emit("local server started on "+s.baseURL, false)
	return nil
}

// BaseURL returns the served address, falling back to the configured listen
// address before Start so callers can probe a not-yet-bound listener.
func (s *Server) BaseURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.baseURL != "" {
		return s.baseURL
	}
	return "http://" + s.config.ListenAddr
}

func (s *Server) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(R.Recoverer(log.Default()), R.Ping)
	router.Get("/auth", s.authCtrl)
	router.Get("/callback", s.callbackCtrl)
	return router
}
