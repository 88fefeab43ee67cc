// Package api provides HTTP API endpoints for the refa server.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dekarrin/refa/server/dao"
	"github.com/dekarrin/refa/server/middle"
	"github.com/dekarrin/refa/server/refas"
	"github.com/dekarrin/refa/server/result"
	"github.com/dekarrin/refa/server/serr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	// PathPrefix is the prefix of all paths in the API. Routers should mount
	// a sub-router that routes all requests to the API at this path.
	PathPrefix = "/api/v1"
)

// API holds parameters for endpoints needed to run and a service layer that
// will perform most of the actual logic. To use API, create one and then
// assign the result of its HTTP* methods as handlers to a router or some other
// kind of server mux.
//
// This is exclusively an API for serving external requests. For direct
// programmatic access into the backend of a refa server via Go code, see
// [refas.Service].
type API struct {
	// Backend is the service that the API calls to perform the requested
	// actions.
	Backend refas.Service

	// UnauthDelay is the amount of time that a request will pause before
	// responding with an HTTP-403, HTTP-401, or HTTP-500 to deprioritize such
	// requests from processing and I/O.
	UnauthDelay time.Duration

	// Secret is the secret used to sign JWT tokens.
	Secret []byte
}

// requireIDParam gets the ID of the main entity being referenced in the URI and
// returns it. It panics if the key is not there or is not parsable; routes
// only match valid UUIDs so that would be a routing bug.
func requireIDParam(r *http.Request) uuid.UUID {
	id, err := getURLParam(r, "id", uuid.Parse)
	if err != nil {
		panic(err.Error())
	}
	return id
}

func getURLParam[E any](r *http.Request, key string, parse func(string) (E, error)) (val E, err error) {
	valStr := chi.URLParam(r, key)
	if valStr == "" {
		return val, fmt.Errorf("parameter %q does not exist", key)
	}

	val, err = parse(valStr)
	if err != nil {
		return val, serr.New("", serr.ErrBadArgument)
	}
	return val, nil
}

// requestUser gives the logged-in user that the auth middleware placed in the
// request context.
func requestUser(req *http.Request) dao.User {
	return req.Context().Value(middle.AuthUser).(dao.User)
}

// userTarget gives the ID of the user named in the URI of req along with the
// client. The returned Result is non-nil if the client is neither that user
// nor an admin.
func userTarget(req *http.Request, action string) (uuid.UUID, dao.User, *result.Result) {
	id := requireIDParam(req)
	client := requestUser(req)

	if id != client.ID && client.Role != dao.Admin {
		r := result.Forbidden("user '%s' (role %s) %s user %s: forbidden", client.Username, client.Role, action, id)
		return id, client, &r
	}
	return id, client, nil
}

// subject names the target of an action on user id for log messages.
func subject(client dao.User, id uuid.UUID) string {
	if id == client.ID {
		return "self"
	}
	return "user " + id.String()
}

// parseJSON decodes the body of req into v, which must be a pointer. If the
// JSON itself is bad, the returned error matches serr.ErrBodyUnmarshal.
func parseJSON(req *http.Request, v interface{}) error {
	mediaType, _, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if err != nil || strings.ToLower(mediaType) != "application/json" {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bodyData))
	}()

	err = json.Unmarshal(bodyData, v)
	if err != nil {
		return serr.New("malformed JSON in request", err, serr.ErrBodyUnmarshal)
	}

	return nil
}

// EndpointFunc produces the Result for a request.
type EndpointFunc func(req *http.Request) result.Result

// Endpoint wraps ep in a handler that logs and writes its Result, delays
// failures by unauthDelay, and turns panics into an HTTP-500.
func Endpoint(unauthDelay time.Duration, ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)
		r := ep(req)

		// if this hasn't been properly created, output error directly and do not
		// try to read properties
		if r.Status == 0 {
			logHTTPResponse("ERROR", req, http.StatusInternalServerError, "endpoint result was never populated")
			http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
			return
		}

		// marshal now so a failure can still be reported with a response
		if err := r.PrepareMarshaledResponse(); err != nil {
			r = result.Err(http.StatusInternalServerError, "An internal server error occurred", "could not marshal JSON response: "+err.Error())
		}

		if r.IsErr {
			logHTTPResponse("ERROR", req, r.Status, r.InternalMsg)
		} else {
			logHTTPResponse("INFO", req, r.Status, r.InternalMsg)
		}

		if r.Status == http.StatusUnauthorized || r.Status == http.StatusForbidden || r.Status == http.StatusInternalServerError {
			time.Sleep(unauthDelay)
		}

		r.WriteResponse(w)
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) {
	if panicErr := recover(); panicErr != nil {
		r := result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			"panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack()),
		)
		logHTTPResponse("ERROR", req, r.Status, r.InternalMsg)
		r.WriteResponse(w)
	}
}

// logHTTPResponse logs one line for a response, with the level padded to
// five characters.
func logHTTPResponse(level string, req *http.Request, respStatus int, msg string) {
	if len(level) > 5 {
		level = level[0:5]
	}

	for len(level) < 5 {
		level += " "
	}

	// we don't really care about the ephemeral port from the client end
	remoteAddrParts := strings.SplitN(req.RemoteAddr, ":", 2)
	remoteIP := remoteAddrParts[0]

	log.Printf("%s %s %s %s: HTTP-%d %s", level, remoteIP, req.Method, req.URL.Path, respStatus, msg)
}
