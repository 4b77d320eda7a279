package rest

import (
	"crypto/subtle"
	"net/http"
)

// Authorizer decides whether the given credentials may mutate products.
type Authorizer interface {
	Authorize(username, password string) bool
}

// StaticAuthorizer authorizes a single configured admin account. It is a
// stand-in for a real identity provider; credential management is out of
// scope here.
type StaticAuthorizer struct {
	username string
	password string
}

// NewStaticAuthorizer creates an Authorizer for the given account.
func NewStaticAuthorizer(username, password string) *StaticAuthorizer {
	return &StaticAuthorizer{username: username, password: password}
}

var _ Authorizer = (*StaticAuthorizer)(nil)

// Authorize compares the credentials in constant time.
func (a *StaticAuthorizer) Authorize(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	return userOK && passOK
}

// BasicAuth returns middleware that enforces HTTP Basic authentication
// through the given authorizer. Missing or rejected credentials yield 401
// with a challenge.
func BasicAuth(authorizer Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok || !authorizer.Authorize(username, password) {
				w.Header().Set("WWW-Authenticate", `Basic realm="products", charset="UTF-8"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
