package server

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	log "github.com/go-pkgz/lgr"
	R "github.com/go-pkgz/rest"

	"github.com/viant/fitlink/provider"
)

// authCtrl handles GET /auth?client_id=. It assigns a fresh state to the
// registered session, opens the browser on the authorization URL and
// acknowledges to the caller.
func (s *Server) authCtrl(w http.ResponseWriter, r *http.Request) {
	clientID := strings.TrimSpace(r.URL.Query().Get("client_id"))
	if clientID == "" {
		s.rejectJSON(w, r, "client_id is required")
		return
	}

	session, ok := s.config.Registry.Lookup(clientID)
	if !ok {
		s.rejectJSON(w, r, "client id not registered, start authorization from the application")
		return
	}

	state := provider.NewState()
	if err := s.config.Registry.AssignState(clientID, state); err != nil {
		// session replaced between lookup and assignment
		s.rejectJSON(w, r, "client id not registered, start authorization from the application")
		return
	}

	authURL, err := provider.AuthCodeURL(s.config.Client(session.ClientID, session.ClientSecret), state)
	if err != nil {
		s.config.Sink.Emit("failed to build authorization URL: "+err.Error(), false)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, R.JSON{"error": "failed to build authorization URL"})
		return
	}

	if err = s.config.OpenURL(authURL); err != nil {
		log.Printf("[WARN] can't open browser for %s, %v", clientID, err)
	}
	s.config.Sink.Emit("opening browser to authorize application "+clientID, false)
	render.JSON(w, r, R.JSON{"message": "authorization started, check the browser"})
}

// callbackCtrl handles the provider redirect. The state is single-use: it is
// consumed before the exchange, no matter how the exchange ends.
func (s *Server) callbackCtrl(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		desc := query.Get("error_description")
		if desc == "" {
			desc = errParam
		}
		s.config.Sink.Emit("provider returned error: "+desc, false)
		render.Status(r, http.StatusBadRequest)
		render.HTML(w, r, fmt.Sprintf(failedPage, html.EscapeString(desc)))
		return
	}

	state := query.Get("state")
	if state == "" {
		s.config.Sink.Emit("provider response without state parameter", false)
		render.Status(r, http.StatusBadRequest)
		render.HTML(w, r, invalidResponsePage)
		return
	}

	session, ok := s.config.Registry.ResolveState(state)
	if !ok {
		s.config.Sink.Emit("no session matching the provider response", false)
		render.Status(r, http.StatusBadRequest)
		render.HTML(w, r, sessionNotFoundPage)
		return
	}

	code := query.Get("code")
	token, err := provider.Exchange(r.Context(), s.config.Client(session.ClientID, session.ClientSecret), code)
	if err != nil {
		log.Printf("[WARN] token exchange failed for %s, %v", session.ClientID, err)
		s.config.Sink.Emit("failed to obtain token: "+err.Error(), false)
		render.Status(r, http.StatusInternalServerError)
		render.HTML(w, r, exchangeFailedPage)
		return
	}

	// persist first, then evict, so a crash in between can't accept a
	// duplicate exchange for a still-live state
	if err = s.config.Tokens.Upsert(r.Context(), session.ClientID, provider.Record(token)); err != nil {
		log.Printf("[WARN] can't store token for %s, %v", session.ClientID, err)
		s.config.Sink.Emit("failed to store token: "+err.Error(), false)
		render.Status(r, http.StatusInternalServerError)
		render.HTML(w, r, exchangeFailedPage)
		return
	}
	s.config.Registry.Evict(session.ClientID)

	log.Printf("[INFO] token stored for %s", session.ClientID)
	s.config.Sink.Emit("authorization completed for "+session.ClientID, true)
	render.HTML(w, r, completedPage)
}

func (s *Server) rejectJSON(w http.ResponseWriter, r *http.Request, message string) {
	s.config.Sink.Emit(message, false)
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, R.JSON{"error": message})
}
