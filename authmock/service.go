package authmock

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/viant/fitlink/provider"
)

// AuthorizationService is a test server simulating the provider's OAuth2
// authorization and token endpoints.
type AuthorizationService struct {
	PrivateKey   *rsa.PrivateKey
	Issuer       string
	ClientID     string
	ClientSecret string
	Scope        string
	UserID       string

	// TokenHandler overrides the default /token behavior when set.
	TokenHandler func(w http.ResponseWriter, r *http.Request)
	// AuthorizeHandler overrides the default /authorize behavior when set.
	AuthorizeHandler func(w http.ResponseWriter, r *http.Request)
}

// Option customizes the mock service.
type Option func(*AuthorizationService)

// WithClient sets the credentials the mock accepts.
func WithClient(clientID, clientSecret string) Option {
	return func(s *AuthorizationService) {
		s.ClientID = clientID
		s.ClientSecret = clientSecret
	}
}

// WithUserID sets the user_id returned alongside minted tokens.
func WithUserID(userID string) Option {
	return func(s *AuthorizationService) {
		s.UserID = userID
	}
}

// New creates a mock authorization service with a fresh signing key.
func New(options ...Option) (*AuthorizationService, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key: %v", err)
	}
	service := &AuthorizationService{
		PrivateKey:   privateKey,
		ClientID:     "test_client_id",
		ClientSecret: "test_client_secret",
		Scope:        "activity heartrate sleep profile",
		UserID:       "TESTUSR",
	}
	for _, option := range options {
		option(service)
	}
	return service, nil
}

// Handler returns an http.Handler serving all mock endpoints.
func (m *AuthorizationService) Handler() http.Handler {
	return &router{service: m}
}

// ClientConfig builds an oauth2 configuration pointing at the mock endpoints.
func (m *AuthorizationService) ClientConfig(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     m.ClientID,
		ClientSecret: m.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   m.Issuer + "/authorize",
			TokenURL:  m.Issuer + "/token",
			AuthStyle: oauth2.AuthStyleInHeader,
		},
		RedirectURL: redirectURL,
		Scopes:      provider.Scopes,
	}
}
