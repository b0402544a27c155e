package authmock

import (
	"fmt"
	"net/http"
)

// AuthorizationCode is the code the default /authorize handler hands back.
const AuthorizationCode = "test_authorization_code"

// defaultAuthorizeHandler handles /authorize requests by redirecting straight
// back with a code, skipping the consent screen.
func (m *AuthorizationService) defaultAuthorizeHandler(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if clientID != m.ClientID {
		http.Error(w, "Invalid client ID", http.StatusBadRequest)
		return
	}
	redirectURI := r.URL.Query().Get("redirect_uri")
	if redirectURI == "" {
		http.Error(w, "Missing redirect URI", http.StatusBadRequest)
		return
	}
	state := r.URL.Query().Get("state")
	redirectURL := fmt.Sprintf("%s?code=%s&state=%s", redirectURI, AuthorizationCode, state)
	http.Redirect(w, r, redirectURL, http.StatusFound)
}
