package webdav

import (
	"io"
	"net/http"

	"github.com/studio-b12/gowebdav"
	"github.com/xxxsen/cbdav/auth"
)

// authorizer plugs the session credentials into gowebdav. Every collection
// handle of a session shares one authorizer, so arming the credentials once
// covers all re-pointed handles.
type authorizer struct {
	creds *auth.Credentials
}

func newAuthorizer(creds *auth.Credentials) *authorizer {
	return &authorizer{creds: creds}
}

func (a *authorizer) NewAuthenticator(body io.Reader) (gowebdav.Authenticator, io.Reader) {
	return &authenticator{creds: a.creds}, body
}

// AddAuthenticator is a no-op, scheme negotiation is driven by the session.
func (a *authorizer) AddAuthenticator(key string, fn gowebdav.AuthFactory) {
}

type authenticator struct {
	creds *auth.Credentials
}

func (a *authenticator) Authorize(c *http.Client, rq *http.Request, path string) error {
	return a.creds.Authorize(rq)
}

// Verify never asks gowebdav to redo the request, a 401 is surfaced as
// *auth.ChallengeError and handled by SetupConnection.
func (a *authenticator) Verify(c *http.Client, rs *http.Response, path string) (bool, error) {
	if rs.StatusCode != http.StatusUnauthorized {
		return false, nil
	}
	return false, &auth.ChallengeError{
		Status:     rs.StatusCode,
		Challenges: auth.ParseChallenges(rs.Header.Values("WWW-Authenticate")),
	}
}

func (a *authenticator) Clone() gowebdav.Authenticator {
	return &authenticator{creds: a.creds}
}

func (a *authenticator) Close() error {
	return nil
}
