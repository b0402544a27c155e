package authmock

import "net/http/httptest"

// HTTPTestAuthorizationServer hosts the mock service on an httptest listener.
type HTTPTestAuthorizationServer struct {
	*AuthorizationService
	Server *httptest.Server
	Issuer string
}

// NewHTTPTestServer starts a mock authorization server on a random port.
func NewHTTPTestServer(options ...Option) (*HTTPTestAuthorizationServer, error) {
	service, err := New(options...)
	if err != nil {
		return nil, err
	}
	server := &HTTPTestAuthorizationServer{AuthorizationService: service}
	server.Server = httptest.NewServer(service.Handler())
	service.Issuer = server.Server.URL
	server.Issuer = server.Server.URL
	return server, nil
}

// Close shuts the listener down.
func (s *HTTPTestAuthorizationServer) Close() {
	if s.Server != nil {
		s.Server.Close()
	}
	s.AuthorizationService = nil
	s.Server = nil
}
