package server

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/notea/internal/game"
	"github.com/dekarrin/notea/server/dao"
	"github.com/dekarrin/notea/server/middle"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// MaxCommandSize is the largest frame a client may send.
	MaxCommandSize = 4096

	writeTimeout = 5 * time.Second
)

// Frame is the JSON message sent to the client after every command.
type Frame struct {
	SessionData game.SessionData `json:"sessiondata"`
	Output      string           `json:"output"`
}

// GET /play: upgrade to a websocket and play a game on it until the game ends
// or the client goes away.
func (s *Server) handlePlay(w http.ResponseWriter, req *http.Request) {
	sesh, hasSession := middle.Session(req.Context())

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error
		s.log.Warn().Err(err).Str("remote", req.RemoteAddr).Msg("websocket upgrade failed")
		return
	}
	conn.SetReadLimit(MaxCommandSize)
	s.trackConn(conn)
	defer func() {
		s.untrackConn(conn)
		conn.Close()
	}()

	log := s.log.With().Str("remote", req.RemoteAddr).Logger()
	if hasSession {
		log = log.With().Str("slot", sesh.ID.String()).Logger()
	}
	opts := []game.Option{
		game.WithLogger(log),
		game.WithObserver(s.metrics.observe),
	}
	if hasSession {
		opts = append(opts,
			game.WithSaver(sessionSaver{repo: s.db.Sessions()}),
			game.WithSlot(sesh.ID.String()),
			game.WithAutosave(),
		)
	}

	inst, err := s.world.Build(opts...)
	if err != nil {
		log.Error().Err(err).Msg("could not build world for game")
		closeWith(conn, websocket.CloseInternalServerErr, "the game could not be started")
		return
	}
	defer inst.Close()

	ctx := req.Context()
	if hasSession {
		resumed, err := inst.Resume(ctx)
		if err != nil {
			log.Error().Err(err).Msg("could not resume session")
			closeWith(conn, websocket.CloseInternalServerErr, "the saved game could not be loaded")
			return
		}
		log.Debug().Bool("resumed", resumed).Msg("session loaded")
	}

	s.metrics.connectionsTotal.Inc()
	s.metrics.playersConnected.Inc()
	defer s.metrics.playersConnected.Dec()
	log.Info().Msg("player connected")

	err = inst.Start(ctx, &wsUI{conn: conn})
	if err != nil {
		log.Error().Err(err).Msg("connection failed")
		return
	}

	log.Info().Int("moves", inst.Moves()).Int("score", inst.Score()).Msg("player disconnected")
	closeWith(conn, websocket.CloseNormalClosure, "game over")
}

func closeWith(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
}

// wsUI is the game.UI of one websocket connection. Output from Write is held
// until PushState so the client gets one frame per command.
type wsUI struct {
	conn    *websocket.Conn
	pending string
}

func (ui *wsUI) ReadLine(ctx context.Context) (string, error) {
	for {
		mt, msg, err := ui.conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrUnexpectedEOF) {
				return "", io.EOF
			}
			return "", err
		}
		if mt != websocket.TextMessage {
			continue
		}
		return string(msg), nil
	}
}

func (ui *wsUI) Write(entries []game.Entry) error {
	ui.pending = RenderHTML(entries)
	return nil
}

func (ui *wsUI) PushState(data game.SessionData) error {
	frame := Frame{SessionData: data, Output: ui.pending}
	ui.pending = ""

	ui.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return ui.conn.WriteJSON(frame)
}

// RenderHTML renders the output of a command as HTML. The player's input is a
// paragraph of class "input"; each narration is split into paragraphs at
// blank lines, with single line breaks kept as <br/>.
func RenderHTML(entries []game.Entry) string {
	var sb strings.Builder
	for _, e := range entries {
		if e.Echo {
			sb.WriteString(`<p class="input">&gt; `)
			sb.WriteString(html.EscapeString(e.Text))
			sb.WriteString("</p>")
			continue
		}

		for _, para := range strings.Split(e.Text, "\n\n") {
			if strings.TrimSpace(para) == "" {
				continue
			}
			lines := strings.Split(para, "\n")
			for i := range lines {
				lines[i] = html.EscapeString(lines[i])
			}
			sb.WriteString("<p>")
			sb.WriteString(strings.Join(lines, "<br/>"))
			sb.WriteString("</p>")
		}
	}
	return sb.String()
}

// sessionSaver is the game.Saver of games played with a token. Slots are
// session IDs.
type sessionSaver struct {
	repo dao.SessionRepository
}

func (ss sessionSaver) Save(ctx context.Context, slot string, data []byte) error {
	id, err := uuid.Parse(slot)
	if err != nil {
		return fmt.Errorf("slot %q: %w: %w", slot, ErrBadSlot, err)
	}

	sesh, err := ss.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return fmt.Errorf("session %s: %w", id, err)
		}
		return fmt.Errorf("get session: %w: %w", ErrStore, err)
	}

	sesh.Data = data
	sesh.Saved = time.Now()
	if _, err := ss.repo.Update(ctx, id, sesh); err != nil {
		return fmt.Errorf("update session: %w: %w", ErrStore, err)
	}
	return nil
}

func (ss sessionSaver) Load(ctx context.Context, slot string) ([]byte, error) {
	id, err := uuid.Parse(slot)
	if err != nil {
		return nil, fmt.Errorf("slot %q: %w: %w", slot, ErrBadSlot, err)
	}

	sesh, err := ss.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, fmt.Errorf("session %s: %w", id, game.ErrNoSave)
		}
		return nil, fmt.Errorf("get session: %w: %w", ErrStore, err)
	}
	if len(sesh.Data) == 0 {
		return nil, fmt.Errorf("session %s: %w", id, game.ErrNoSave)
	}
	return sesh.Data, nil
}
