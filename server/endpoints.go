package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dekarrin/notea/internal/version"
	"github.com/dekarrin/notea/server/dao"
	"github.com/dekarrin/notea/server/middle"
	"github.com/dekarrin/notea/server/result"
	"github.com/dekarrin/notea/server/token"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// InfoModel is the response to GET /info.
type InfoModel struct {
	Version struct {
		Server string `json:"server"`
		Notea  string `json:"notea"`
	} `json:"version"`
	World string `json:"world"`
}

// SessionModel is the response to POST /sessions and GET /sessions/{id}.
// Token is only set on creation.
type SessionModel struct {
	ID      string `json:"id"`
	Token   string `json:"token,omitempty"`
	Created string `json:"created"`
	Saved   string `json:"saved,omitempty"`
}

// EndpointFunc handles a request and gives the result to respond with.
type EndpointFunc func(req *http.Request) result.Result

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	required := middle.RequireSession(s.db.Sessions(), s.cfg.TokenSecret, s.cfg.UnauthDelay(), s.log)
	optional := middle.OptionalSession(s.db.Sessions(), s.cfg.TokenSecret, s.cfg.UnauthDelay(), s.log)

	r.NotFound(s.httpEndpoint(func(req *http.Request) result.Result {
		return result.NotFound("no route for " + req.URL.Path)
	}))
	r.MethodNotAllowed(s.httpEndpoint(func(req *http.Request) result.Result {
		return result.MethodNotAllowed(req)
	}))

	r.Get("/info", s.httpEndpoint(s.epGetInfo))
	r.Post("/sessions", s.httpEndpoint(s.epCreateSession))
	r.With(required).Get("/sessions/{id}", s.httpEndpoint(s.epGetSession))
	r.With(optional).Get("/play", s.handlePlay)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	return r
}

// GET /info: get version info on the server and the world it serves.
func (s *Server) epGetInfo(req *http.Request) result.Result {
	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.Notea = version.Current
	resp.World = s.world.Title

	return result.OK(resp, "got API info")
}

// POST /sessions: create a new saved session. No token is required; the
// response carries the token for the new session.
func (s *Server) epCreateSession(req *http.Request) result.Result {
	sesh, err := s.db.Sessions().Create(req.Context(), dao.Session{})
	if err != nil {
		return result.InternalServerError("could not create session: " + err.Error())
	}

	tok, err := token.Generate(s.cfg.TokenSecret, sesh)
	if err != nil {
		return result.InternalServerError("could not generate token: " + err.Error())
	}

	s.metrics.sessionsCreated.Inc()
	s.log.Info().Str("session", sesh.ID.String()).Msg("session created")

	resp := sessionModel(sesh)
	resp.Token = tok
	return result.Created(resp, "created session "+sesh.ID.String())
}

// GET /sessions/{id}: get info on a session. The token must be the one for
// that session.
func (s *Server) epGetSession(req *http.Request) result.Result {
	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		return result.BadRequest("ID is not valid", "parse id: "+err.Error())
	}

	// a token for another session gets the same answer as a missing session
	sesh, _ := middle.Session(req.Context())
	if sesh.ID != id {
		return result.NotFound(fmt.Sprintf("session %s requested with token for %s", id, sesh.ID))
	}

	return result.OK(sessionModel(sesh), "got session "+id.String())
}

func sessionModel(sesh dao.Session) SessionModel {
	m := SessionModel{
		ID:      sesh.ID.String(),
		Created: sesh.Created.UTC().Format(time.RFC3339),
	}
	if !sesh.Saved.IsZero() {
		m.Saved = sesh.Saved.UTC().Format(time.RFC3339)
	}
	return m
}

func (s *Server) httpEndpoint(ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer s.panicTo500(w, req)
		r := ep(req)

		// if this hasn't been properly created, output error directly and do not
		// try to read properties
		if r.Status == 0 {
			s.logResponse(req, http.StatusInternalServerError, true, "endpoint result was never populated")
			http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
			return
		}

		// WriteResponse panics on an encoding failure
		if err := r.Encode(); err != nil {
			r = result.InternalServerError("could not marshal JSON response: " + err.Error())
		}

		s.logResponse(req, r.Status, r.IsErr, r.LogMsg)

		if r.Status == http.StatusUnauthorized || r.Status == http.StatusInternalServerError {
			time.Sleep(s.cfg.UnauthDelay())
		}

		r.WriteResponse(w)
	}
}

func (s *Server) panicTo500(w http.ResponseWriter, req *http.Request) {
	if panicErr := recover(); panicErr != nil {
		r := result.Text(
			http.StatusInternalServerError,
			"An internal server error occurred",
			fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())),
		)
		s.logResponse(req, r.Status, true, r.LogMsg)
		r.WriteResponse(w)
	}
}

func (s *Server) logResponse(req *http.Request, status int, isErr bool, msg string) {
	ev := s.log.Info()
	if isErr {
		ev = s.log.Error()
	}
	ev.Str("remote", req.RemoteAddr).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", status).
		Msg(msg)
}
