// Package provider holds the Fitbit OAuth2 endpoints, the enumerated scope
// set and thin wrappers around the authorization-code grant primitives.
package provider

import (
	"context"
	"time"

	"github.com/viant/scy/auth/flow"
	"golang.org/x/oauth2"
)

const (
	// AuthURL is the Fitbit authorization endpoint the browser is sent to.
	AuthURL = "https://www.fitbit.com/oauth2/authorize"
	// TokenURL is the Fitbit token endpoint the authorization code is exchanged against.
	TokenURL = "https://api.fitbit.com/oauth2/token"
	// RedirectURI is the loopback redirect target registered with Fitbit.
	RedirectURI = "http://localhost:5000/callback"
	// ListenAddr is the address the callback listener binds to.
	ListenAddr = "localhost:5000"
)

// ExchangeTimeout bounds a single token endpoint call.
const ExchangeTimeout = 15 * time.Second

// Scopes enumerates every scope requested during authorization.
var Scopes = []string{
	"activity",
	"heartrate",
	"sleep",
	"profile",
	"respiratory_rate",
	"oxygen_saturation",
	"weight",
	"settings",
}

// NewConfig returns the oauth2 client configuration for the given application credentials.
func NewConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   AuthURL,
			TokenURL:  TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
		RedirectURL: RedirectURI,
		Scopes:      Scopes,
	}
}

// NewState returns a fresh unguessable state token.
func NewState() string {
	return flow.GenerateCodeVerifier()
}

// AuthCodeURL builds the authorization URL carrying the supplied state.
func AuthCodeURL(config *oauth2.Config, state string) (string, error) {
	return flow.BuildAuthCodeURL(config, flow.WithState(state), flow.WithRedirectURI(config.RedirectURL))
}

// Exchange swaps an authorization code for a token, bounded by ExchangeTimeout.
func Exchange(ctx context.Context, config *oauth2.Config, code string) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, ExchangeTimeout)
	defer cancel()
	return flow.Exchange(ctx, config, code, flow.WithRedirectURI(config.RedirectURL))
}

// Record flattens a token into its persisted form, carrying the provider
// extras (scope, user_id) verbatim.
func Record(token *oauth2.Token) map[string]interface{} {
	record := map[string]interface{}{
		"access_token": token.AccessToken,
		"token_type":   token.TokenType,
	}
	if token.RefreshToken != "" {
		record["refresh_token"] = token.RefreshToken
	}
	if !token.Expiry.IsZero() {
		record["expires_at"] = token.Expiry.UTC().Format(time.RFC3339)
	}
	for _, name := range []string{"scope", "user_id", "expires_in"} {
		if value := token.Extra(name); value != nil {
			record[name] = value
		}
	}
	return record
}
