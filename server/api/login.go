package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/refa/server/dao"
	"github.com/dekarrin/refa/server/result"
	"github.com/dekarrin/refa/server/serr"
	"github.com/dekarrin/refa/server/token"
)

// HTTPCreateLogin returns a HandlerFunc that exchanges a username and
// password for a token.
func (api API) HTTPCreateLogin() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epCreateLogin)
}

func (api API) epCreateLogin(req *http.Request) result.Result {
	var body LoginRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if r := requireCredentials(body.Username, body.Password); r != nil {
		return *r
	}

	user, err := api.Backend.Login(req.Context(), body.Username, body.Password)
	if errors.Is(err, serr.ErrBadCredentials) {
		return result.Unauthorized(serr.ErrBadCredentials.Error(), "user '%s': %s", body.Username, err.Error())
	} else if err != nil {
		return result.InternalServerError(err.Error())
	}

	return api.issueToken(user, "logged in")
}

// HTTPDeleteLogin returns a HandlerFunc that ends every login of a user by
// invalidating all of its tokens. Users may log out themselves; admins may log
// out anyone.
func (api API) HTTPDeleteLogin() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epDeleteLogin)
}

func (api API) epDeleteLogin(req *http.Request) result.Result {
	id, client, denied := userTarget(req, "log out")
	if denied != nil {
		return *denied
	}

	if _, err := api.Backend.Logout(req.Context(), id); err != nil {
		return userLookupFailure(err)
	}
	return result.NoContent("user '%s' logged out %s", client.Username, subject(client, id))
}

// issueToken gives a 201 carrying a fresh token for user.
func (api API) issueToken(user dao.User, event string) result.Result {
	tok, err := token.Generate(api.Secret, user)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := LoginResponse{Token: tok, UserID: user.ID.String()}
	return result.Created(resp, "user '%s' %s", user.Username, event)
}
