package api

import (
	"net/http"

	"github.com/dekarrin/refa/internal/version"
	"github.com/dekarrin/refa/server/middle"
	"github.com/dekarrin/refa/server/result"
)

// HTTPGetInfo returns a HandlerFunc that retrieves information on the API and
// server.
//
// The request context must contain whether the client making the request is
// logged in; if it does not, an HTTP-500 is returned.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	loggedIn := req.Context().Value(middle.AuthLoggedIn).(bool)

	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.Refa = version.Current

	userStr := "unauthed client"
	if loggedIn {
		user := requestUser(req)
		userStr = "user '" + user.Username + "'"
	}
	return result.OK(resp, "%s got API info", userStr)
}
