// Package middle contains middleware for use with the notea server.
package middle

import (
	"context"
	"net/http"
	"time"

	"github.com/dekarrin/notea/server/dao"
	"github.com/dekarrin/notea/server/result"
	"github.com/dekarrin/notea/server/token"
	"github.com/rs/zerolog"
)

// Middleware is a function that takes a handler and returns a new handler which
// wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const (
	AuthHasSession AuthKey = iota
	AuthSession
)

// AuthHandler is middleware that will accept a request, extract the play
// token from it, and look up the saved session the token was made for.
//
// Keys are added to the request context before the request is passed to the
// next step in the chain. AuthSession will contain the session, and
// AuthHasSession will return whether there was a valid token (only applies
// for optional tokens; for required ones, a missing or bad token will result
// in an HTTP error being returned before the request is passed to the next
// handler).
type AuthHandler struct {
	db            dao.SessionRepository
	secret        []byte
	required      bool
	unauthedDelay time.Duration
	log           zerolog.Logger
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var hasSession bool
	var sesh dao.Session

	tok, err := token.Get(req)
	if err != nil {
		// deliberately leaving as embedded if instead of &&
		if ah.required {
			ah.reject(w, req, err)
			return
		}
	} else {
		lookup, err := token.Validate(req.Context(), tok, ah.secret, ah.db)
		if err != nil {
			// a bad token is refused even when tokens are optional.
			ah.reject(w, req, err)
			return
		}
		sesh = lookup
		hasSession = true
	}

	ctx := req.Context()
	ctx = context.WithValue(ctx, AuthHasSession, hasSession)
	ctx = context.WithValue(ctx, AuthSession, sesh)
	req = req.WithContext(ctx)
	ah.next.ServeHTTP(w, req)
}

func (ah *AuthHandler) reject(w http.ResponseWriter, req *http.Request, err error) {
	r := result.Unauthorized(err.Error())
	ah.log.Warn().
		Str("remote", req.RemoteAddr).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", r.Status).
		Msg(r.LogMsg)
	time.Sleep(ah.unauthedDelay)
	r.WriteResponse(w)
}

// Session returns the session that an AuthHandler put in ctx, and whether
// there was one.
func Session(ctx context.Context) (dao.Session, bool) {
	has, _ := ctx.Value(AuthHasSession).(bool)
	if !has {
		return dao.Session{}, false
	}
	sesh, ok := ctx.Value(AuthSession).(dao.Session)
	return sesh, ok
}

func RequireSession(db dao.SessionRepository, secret []byte, unauthDelay time.Duration, log zerolog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			db:            db,
			secret:        secret,
			unauthedDelay: unauthDelay,
			required:      true,
			log:           log,
			next:          next,
		}
	}
}

func OptionalSession(db dao.SessionRepository, secret []byte, unauthDelay time.Duration, log zerolog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			db:            db,
			secret:        secret,
			unauthedDelay: unauthDelay,
			required:      false,
			log:           log,
			next:          next,
		}
	}
}
