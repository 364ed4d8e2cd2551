package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/pagerline/incident-backend/errors"
)

// authenticator validates the Authorization bearer token against the
// configured API secret. An empty secret disables authentication, which is
// only meant for tests and local runs.
func (a *API) authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.secret == "" {
			next.ServeHTTP(w, r)
			return
		}
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(a.secret)) != 1 {
			errors.ErrUnauthorized.Write(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
