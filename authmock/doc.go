// Package authmock provides a stub OAuth2 authorization server used to
// exercise the link flow in tests without real provider round-trips.
//
// The default handlers redirect /authorize straight back with a code and
// mint RS256-signed JWTs on /token; both can be overridden per test.
package authmock
