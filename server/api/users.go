package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/refa/server/dao"
	"github.com/dekarrin/refa/server/result"
	"github.com/dekarrin/refa/server/serr"
)

// HTTPGetAllUsers returns a HandlerFunc that lists every user. Admin only.
func (api API) HTTPGetAllUsers() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epGetAllUsers)
}

func (api API) epGetAllUsers(req *http.Request) result.Result {
	client := requestUser(req)
	if client.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) list users: forbidden", client.Username, client.Role)
	}

	users, err := api.Backend.GetAllUsers(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]UserModel, len(users))
	for i := range users {
		resp[i] = userModel(users[i])
	}
	return result.OK(resp, "user '%s' listed %d users", client.Username, len(resp))
}

// HTTPCreateUser returns a HandlerFunc that adds a user. Admin only; the
// role defaults to normal.
func (api API) HTTPCreateUser() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epCreateUser)
}

func (api API) epCreateUser(req *http.Request) result.Result {
	client := requestUser(req)
	if client.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) create user: forbidden", client.Username, client.Role)
	}

	var body UserModel
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if r := requireCredentials(body.Username, body.Password); r != nil {
		return *r
	}

	role := dao.Normal
	if body.Role != "" {
		var err error
		if role, err = dao.ParseRole(body.Role); err != nil {
			return result.BadRequest("role: "+err.Error(), "role: %s", err.Error())
		}
	}

	created, err := api.Backend.CreateUser(req.Context(), body.Username, body.Password, body.Email, role)
	switch {
	case errors.Is(err, serr.ErrAlreadyExists):
		return result.Conflict("User with that username already exists", "user '%s' already exists", body.Username)
	case errors.Is(err, serr.ErrBadArgument):
		return result.BadRequest(err.Error(), err.Error())
	case err != nil:
		return result.InternalServerError(err.Error())
	}

	return result.Created(userModel(created), "user '%s' created user '%s' (%s)", client.Username, created.Username, created.ID)
}

// HTTPGetUser returns a HandlerFunc that gets one user. Users may get
// themselves; admins may get anyone.
func (api API) HTTPGetUser() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epGetUser)
}

func (api API) epGetUser(req *http.Request) result.Result {
	id, client, denied := userTarget(req, "get")
	if denied != nil {
		return *denied
	}

	u, err := api.Backend.GetUser(req.Context(), id.String())
	if err != nil {
		return userLookupFailure(err)
	}
	return result.OK(userModel(u), "user '%s' got %s", client.Username, subject(client, id))
}

// HTTPUpdatePassword returns a HandlerFunc that sets a user's password, which
// also ends every login of that user. Users may change their own; admins may
// change anyone's.
func (api API) HTTPUpdatePassword() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epUpdatePassword)
}

func (api API) epUpdatePassword(req *http.Request) result.Result {
	id, client, denied := userTarget(req, "set password of")
	if denied != nil {
		return *denied
	}

	var body PasswordRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if _, err := api.Backend.UpdatePassword(req.Context(), id.String(), body.Password); err != nil {
		return userLookupFailure(err)
	}
	return result.NoContent("user '%s' set password of %s", client.Username, subject(client, id))
}

// HTTPDeleteUser returns a HandlerFunc that deletes a user along with every
// automaton it owns. Users may delete themselves; admins may delete anyone.
func (api API) HTTPDeleteUser() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epDeleteUser)
}

func (api API) epDeleteUser(req *http.Request) result.Result {
	id, client, denied := userTarget(req, "delete")
	if denied != nil {
		return *denied
	}

	if _, err := api.Backend.DeleteUser(req.Context(), id.String()); err != nil {
		return userLookupFailure(err)
	}
	return result.NoContent("user '%s' deleted %s", client.Username, subject(client, id))
}

// userLookupFailure converts an error from a service call on a single user.
func userLookupFailure(err error) result.Result {
	switch {
	case errors.Is(err, serr.ErrNotFound):
		return result.NotFound()
	case errors.Is(err, serr.ErrBadArgument):
		return result.BadRequest(err.Error(), err.Error())
	default:
		return result.InternalServerError(err.Error())
	}
}

// requireCredentials gives a 400 if either is blank.
func requireCredentials(username, password string) *result.Result {
	var r result.Result
	switch {
	case username == "":
		r = result.BadRequest("username: property is empty or missing from request", "empty username")
	case password == "":
		r = result.BadRequest("password: property is empty or missing from request", "empty password")
	default:
		return nil
	}
	return &r
}
