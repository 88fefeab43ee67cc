// Package middle contains middleware for use with the refa server.
package middle

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/dekarrin/refa/server/dao"
	"github.com/dekarrin/refa/server/result"
	"github.com/dekarrin/refa/server/token"
)

// Middleware is a function that takes a handler and returns a new handler which
// wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by the auth
// middleware.
type AuthKey int64

const (
	// AuthLoggedIn holds a bool telling whether the request had a valid
	// token.
	AuthLoggedIn AuthKey = iota

	// AuthUser holds the dao.User the token was issued to, or the fallback
	// user if there was none.
	AuthUser
)

// RequireAuth gives middleware that rejects requests without a valid token
// with an HTTP-401, after waiting unauthDelay.
func RequireAuth(db dao.UserRepository, secret []byte, unauthDelay time.Duration) Middleware {
	return auth(db, secret, unauthDelay, true, dao.User{})
}

// OptionalAuth gives middleware that lets requests without a valid token
// through as fallback.
func OptionalAuth(db dao.UserRepository, secret []byte, unauthDelay time.Duration, fallback dao.User) Middleware {
	return auth(db, secret, unauthDelay, false, fallback)
}

func auth(db dao.UserRepository, secret []byte, unauthDelay time.Duration, required bool, fallback dao.User) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			user, err := tokenUser(req, db, secret)
			loggedIn := err == nil

			if !loggedIn {
				if required {
					r := result.Unauthorized("", err.Error())
					log.Printf("ERROR %s %s: HTTP-%d %s", req.Method, req.URL.Path, r.Status, r.InternalMsg)
					time.Sleep(unauthDelay)
					r.WriteResponse(w)
					return
				}
				user = fallback
			}

			ctx := context.WithValue(req.Context(), AuthLoggedIn, loggedIn)
			ctx = context.WithValue(ctx, AuthUser, user)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// tokenUser gives the user whose valid bearer token is on req.
func tokenUser(req *http.Request, db dao.UserRepository, secret []byte) (dao.User, error) {
	tok, err := token.Get(req)
	if err != nil {
		return dao.User{}, err
	}
	return token.Validate(req.Context(), tok, secret, db)
}
