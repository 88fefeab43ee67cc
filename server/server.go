// Package server provides the refa REST server, which compiles patterns into
// automata on behalf of logged-in users and runs words through them.
//
// The API is served under /api/v1:
//
//	POST   /login                      - accepts user and password and returns a JWT.
//	DELETE /login/{id}                 - ends every login of a user.
//	POST   /tokens                     - refreshes the token without credentials.
//	GET    /users                      - get all users (admin only).
//	POST   /users                      - create a new user (admin only).
//	GET    /users/{id}                 - get info on a user.
//	PUT    /users/{id}/password        - change a user's password.
//	DELETE /users/{id}                 - delete a user and their automata.
//	POST   /automata                   - compile a pattern into a new automaton.
//	GET    /automata                   - get all automata of the client.
//	GET    /automata/{id}              - get one automaton.
//	DELETE /automata/{id}              - delete one automaton.
//	POST   /automata/{id}/matches      - run words through an automaton.
//	GET    /automata/{id}/validation   - check that an automaton is well-formed.
//	GET    /info                       - get version info (login optional).
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/dekarrin/refa/server/api"
	"github.com/dekarrin/refa/server/dao"
	"github.com/dekarrin/refa/server/refas"
)

// RefaServer is an HTTP REST server that compiles and runs automata. The
// zero-value of a RefaServer should not be used directly; call New() to get
// one ready for use.
type RefaServer struct {
	router http.Handler
	db     dao.Store
	api    api.API
}

// New creates a new RefaServer from cfg, connecting to its database. Unset
// fields of cfg are given their defaults.
func New(cfg Config) (RefaServer, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return RefaServer{}, fmt.Errorf("config: %w", err)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return RefaServer{}, fmt.Errorf("connect DB: %w", err)
	}

	rs := RefaServer{
		db: db,
		api: api.API{
			Backend: refas.Service{
				DB:       db,
				HashCost: cfg.HashCost,
			},
			UnauthDelay: cfg.UnauthDelay(),
			Secret:      cfg.TokenSecret,
		},
	}
	rs.router = newRouter(rs.api)

	return rs, nil
}

// Service gives direct access to the backend of the server.
func (rs RefaServer) Service() refas.Service {
	return rs.api.Backend
}

// ServeHTTP routes req to the API.
func (rs RefaServer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	rs.router.ServeHTTP(w, req)
}

// CreateUser adds a user directly, without going through the API. It is
// used to set up the initial admin account.
func (rs RefaServer) CreateUser(ctx context.Context, username, password, email string, role dao.Role) (dao.User, error) {
	return rs.api.Backend.CreateUser(ctx, username, password, email, role)
}

// Close releases the database connection of the server.
func (rs RefaServer) Close() error {
	return rs.db.Close()
}

// ServeForever begins listening on the given address and port for HTTP REST
// client requests. If address is kept as "", it will default to "localhost". If
// port is less than 1, it will default to 8080.
func (rs RefaServer) ServeForever(address string, port int) {
	if address == "" {
		address = "localhost"
	}
	if port < 1 {
		port = 8080
	}

	listenAddress := fmt.Sprintf("%s:%d", address, port)
	log.Printf("INFO  Listening on %s", listenAddress)
	log.Fatalf("FATAL %v", http.ListenAndServe(listenAddress, rs))
}
