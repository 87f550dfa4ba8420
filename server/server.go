// Package server is the websocket front-end of notea. Every connection plays
// its own game of the server's world; a connection made with a play token
// resumes and autosaves the session the token was issued for.
//
// Routes:
//
//	GET  /info            - version info on the server and the world being served.
//	POST /sessions        - create a new saved session and return a play token for it.
//	GET  /sessions/{id}   - get info on a saved session (token for it required).
//	GET  /play            - websocket; optional token resumes the session.
//	GET  /metrics         - prometheus metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dekarrin/notea/internal/ntw"
	"github.com/dekarrin/notea/server/dao"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// ShutdownTimeout is how long ListenAndServe waits for requests in flight
// when its context is cancelled.
const ShutdownTimeout = 5 * time.Second

// Server serves a world to websocket clients. The zero-value of a Server should
// not be used directly; call New() to get one ready for use.
type Server struct {
	cfg      Config
	world    ntw.WorldData
	db       dao.Store
	log      zerolog.Logger
	metrics  *Metrics
	router   chi.Router
	upgrader websocket.Upgrader

	connsMtx sync.Mutex
	conns    map[*websocket.Conn]struct{}
}

// New loads the configured world and connects to the configured database.
// Unset values in cfg are given their defaults.
func New(cfg Config, log zerolog.Logger) (*Server, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	wd, err := ntw.Load(cfg.WorldFile)
	if err != nil {
		return nil, fmt.Errorf("load world: %w", err)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return nil, fmt.Errorf("connect to %s DB: %w", cfg.DB.Type, err)
	}

	s := &Server{
		cfg:     cfg,
		world:   wd,
		db:      db,
		log:     log,
		metrics: NewMetrics(),
		conns:   make(map[*websocket.Conn]struct{}),
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: s.checkOrigin,
	}
	s.router = s.routes()

	return s, nil
}

// ServeHTTP routes the request.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(w, req)
}

// ListenAndServe listens on address until ctx is cancelled, then shuts down
// gracefully, closing every open websocket. It always returns a non-nil error
// unless the shutdown was clean.
func (s *Server) ListenAndServe(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info().Str("address", address).Str("world", s.world.Title).Msg("listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	// hijacked connections are not closed by Shutdown
	s.closeConns()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close closes the database. Connections still open are not affected until
// their next save.
func (s *Server) Close() error {
	return s.db.Close()
}

// Metrics returns the server's metrics.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) checkOrigin(req *http.Request) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := req.Header.Get("Origin")
	for _, o := range s.cfg.AllowedOrigins {
		if strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

func (s *Server) trackConn(conn *websocket.Conn) {
	s.connsMtx.Lock()
	defer s.connsMtx.Unlock()
	s.conns[conn] = struct{}{}
}

func (s *Server) untrackConn(conn *websocket.Conn) {
	s.connsMtx.Lock()
	defer s.connsMtx.Unlock()
	delete(s.conns, conn)
}

func (s *Server) closeConns() {
	s.connsMtx.Lock()
	defer s.connsMtx.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for conn := range s.conns {
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		conn.Close()
	}
}
