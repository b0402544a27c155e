// Package auth orchestrates the account-link flow end to end: it persists
// the application credential, registers the pending session, makes sure the
// loopback listener runs and triggers the authorization leg. The callback
// leg completes asynchronously on the listener goroutine.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater"

	"github.com/viant/fitlink/event"
	"github.com/viant/fitlink/registry"
	"github.com/viant/fitlink/server"
	"github.com/viant/fitlink/store"
)

// ErrServerUnreachable indicates the loopback listener never became
// reachable within the trigger retry budget.
var ErrServerUnreachable = errors.New("local server unreachable")

// Trigger retry budget, absorbs the race between starting the listener and
// it accepting connections.
const (
	triggerAttempts = 10
	triggerDelay    = 300 * time.Millisecond
	triggerTimeout  = 5 * time.Second
)

// Service drives an authorization attempt from credential intake to the
// browser hand-off.
type Service struct {
	credentials *store.Credentials
	registry    *registry.Registry
	server      *server.Server
	sink        event.Sink
}

// New makes a coordinator over the given collaborators.
func New(credentials *store.Credentials, reg *registry.Registry, srv *server.Server, sink event.Sink) *Service {
	if sink == nil {
		sink = event.Discard
	}
	return &Service{credentials: credentials, registry: reg, server: srv, sink: sink}
}

// Authorize persists the credential, registers a pending session, ensures
// the listener is up and triggers the authorization leg. The returned
// message is the server acknowledgement shown to the user.
func (s *Service) Authorize(ctx context.Context, clientID, clientSecret string) (string, error) {
	clientID, clientSecret = strings.TrimSpace(clientID), strings.TrimSpace(clientSecret)
	if clientID == "" || clientSecret == "" {
		return "", errors.New("client id and client secret are required")
	}
	if err := s.credentials.Upsert(ctx, clientID, clientSecret); err != nil {
		return "", fmt.Errorf("failed to save credentials: %w", err)
	}
	s.registry.Register(clientID, clientSecret)
	if err := s.server.Start(ctx); err != nil {
		return "", fmt.Errorf("failed to start local server: %w", err)
	}
	s.sink.Emit("starting authorization for "+clientID, false)
	return s.Trigger(ctx, clientID)
}

// Trigger asks the running listener to begin authorization for clientID,
// retrying connection failures while the listener comes up. Any HTTP
// response, including a rejection, stops the retries and its message is
// returned as is.
func (s *Service) Trigger(ctx context.Context, clientID string) (string, error) {
	reqURL := fmt.Sprintf("%s/auth?client_id=%s", s.server.BaseURL(), url.QueryEscape(clientID))
	client := http.Client{Timeout: triggerTimeout}

	var message string
	err := repeater.NewDefault(triggerAttempts, triggerDelay).Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		message = responseMessage(resp, body)
		return nil
	})
	if err != nil {
		log.Printf("[WARN] trigger failed for %s, %v", clientID, err)
		return "", fmt.Errorf("%w: %v", ErrServerUnreachable, err)
	}
	return message, nil
}

// responseMessage extracts the human-readable part of a trigger response.
func responseMessage(resp *http.Response, body []byte) string {
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(body, &payload); err == nil {
			if payload.Message != "" {
				return payload.Message
			}
			if payload.Error != "" {
				return payload.Error
			}
		}
	}
	return strings.TrimSpace(string(body))
}
