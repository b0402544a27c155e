package authmock

import (
	"net/http"
)

// router dispatches incoming requests to the mock endpoints.
type router struct {
	service *AuthorizationService
}

func (h *router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/token":
		if h.service.TokenHandler != nil {
			h.service.TokenHandler(w, r)
		} else {
			h.service.defaultTokenHandler(w, r)
		}
	case "/authorize":
		if h.service.AuthorizeHandler != nil {
			h.service.AuthorizeHandler(w, r)
		} else {
			h.service.defaultAuthorizeHandler(w, r)
		}
	default:
		http.NotFound(w, r)
	}
}
