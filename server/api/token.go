package api

import (
	"net/http"

	"github.com/dekarrin/refa/server/result"
)

// HTTPCreateToken returns a HandlerFunc that gives the client a new token
// without asking for credentials again.
func (api API) HTTPCreateToken() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epCreateToken)
}

func (api API) epCreateToken(req *http.Request) result.Result {
	return api.issueToken(requestUser(req), "refreshed token")
}
