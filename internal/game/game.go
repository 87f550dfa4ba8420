// Package game is the game session: it holds the world, the action registry
// and the session counters, turns each line of player input into commands, and
// dispatches them to the registered handlers.
package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dekarrin/notea/internal/action"
	"github.com/dekarrin/notea/internal/command"
	"github.com/dekarrin/notea/internal/nterrors"
	"github.com/dekarrin/notea/internal/stdact"
	"github.com/dekarrin/notea/internal/world"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultSlot is the save slot used when none is given with WithSlot.
const DefaultSlot = "default"

// StartHandler runs once when the game starts.
type StartHandler func(s action.Session) error

// Observer is told about every top-level command once it has been dispatched.
// err is non-nil if a handler failed.
type Observer func(o Outcome, err error)

// Option configures a Game in New.
type Option func(g *Game)

// WithLogger sets the logger the Game writes to. By default nothing is logged.
func WithLogger(log zerolog.Logger) Option {
	return func(g *Game) {
		g.log = log
	}
}

// WithSaver sets where the save and restore actions store games.
func WithSaver(s Saver) Option {
	return func(g *Game) {
		g.saver = s
	}
}

// WithSlot sets the save slot the Game saves to and restores from.
func WithSlot(slot string) Option {
	return func(g *Game) {
		g.slot = slot
	}
}

// WithAutosave makes the Game save to its slot after every line of input.
func WithAutosave() Option {
	return func(g *Game) {
		g.autosave = true
	}
}

// WithObserver sets a function that is called after every top-level command.
func WithObserver(obs Observer) Option {
	return func(g *Game) {
		g.observer = obs
	}
}

// Game is a single play session of a world. It is not safe for concurrent use;
// each player gets their own Game.
type Game struct {
	// Title is the name of the game.
	Title string

	id       string
	world    *world.Graph
	registry *action.Registry
	parser   *command.Parser
	pc       *world.Thing
	onStart  []StartHandler

	status    Status
	score     int
	moves     int
	verbosity action.Verbosity

	out    []Entry
	depth  int
	ending bool

	saveRequested    bool
	restoreRequested bool

	log      zerolog.Logger
	saver    Saver
	slot     string
	autosave bool
	observer Observer
}

// New creates a Game with an empty world holding only the player character,
// and a registry loaded with the standard actions.
func New(title string, opts ...Option) *Game {
	g := &Game{
		Title:     title,
		id:        uuid.NewString(),
		world:     world.New(),
		registry:  action.NewRegistry(),
		verbosity: action.Brief,
		log:       zerolog.Nop(),
		slot:      DefaultSlot,
	}
	g.parser = command.NewParser(g.registry, g.world)
	g.pc = g.world.NewPlayer("yourself")
	g.pc.AddName("me")
	g.pc.AddName("self")

	stdact.Register(g.registry)

	for _, opt := range opts {
		opt(g)
	}

	g.log = g.log.With().Str("session", g.id).Logger()
	return g
}

// World returns the entity graph of the game.
func (g *Game) World() *world.Graph {
	return g.world
}

// Registry returns the action registry of the game.
func (g *Game) Registry() *action.Registry {
	return g.registry
}

// Parser returns the parser used to read commands.
func (g *Game) Parser() *command.Parser {
	return g.parser
}

// PC returns the player character.
func (g *Game) PC() *world.Thing {
	return g.pc
}

// Here returns the room the player character is in, or nil if they have not
// been placed.
func (g *Game) Here() *world.Thing {
	return g.world.Room(g.pc)
}

// Status returns the lifecycle state of the game.
func (g *Game) Status() Status {
	return g.status
}

// Place puts the player character in a room.
func (g *Game) Place(room *world.Thing) error {
	return g.world.SetLocation(g.pc, room)
}

// On registers h as a handler of every action in names for commands matching
// target.
func (g *Game) On(names []string, target action.Target, h action.Handler) *action.Registration {
	return g.registry.Register(names, target, nil, h)
}

// OnGroup registers h as a handler of group for commands matching target.
func (g *Game) OnGroup(group string, target action.Target, h action.GroupHandler) *action.Registration {
	return g.registry.RegisterGroup(group, target, h)
}

// OnStart adds a handler that runs when the game starts. Start handlers run
// in the order they were added. If none are added, the game starts by
// looking at the player's room.
func (g *Game) OnStart(h StartHandler) {
	g.onStart = append(g.onStart, h)
}

// Alias makes phrase another way of typing the action.
func (g *Game) Alias(phrase, action string) error {
	return g.registry.Alias(phrase, action)
}

// Score returns the player's score.
func (g *Game) Score() int {
	return g.score
}

// AddScore adds n, which may be negative, to the player's score.
func (g *Game) AddScore(n int) {
	g.score += n
}

// Moves returns how many commands have counted as moves.
func (g *Game) Moves() int {
	return g.moves
}

// SessionData returns the counters shown by live front-ends.
func (g *Game) SessionData() SessionData {
	return SessionData{Score: g.score, Moves: g.moves}
}

// Verbosity returns how much is said about rooms on entering them.
func (g *Game) Verbosity() action.Verbosity {
	return g.verbosity
}

// SetVerbosity sets how much is said about rooms on entering them.
func (g *Game) SetVerbosity(v action.Verbosity) {
	g.verbosity = v
}

// End stops the game once the current command finishes. Any sentences left on
// the input line are not run.
func (g *Game) End() {
	g.ending = true
}

// Save asks for the game to be saved once the current command finishes.
func (g *Game) Save() {
	g.saveRequested = true
}

// Restore asks for the saved game to be loaded once the current command
// finishes.
func (g *Game) Restore() {
	g.restoreRequested = true
}

// Narrate adds text to the output of the current command. Blank text is
// dropped.
func (g *Game) Narrate(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	g.out = append(g.out, Entry{Text: text})
}

// Narratef is Narrate with a formatted message.
func (g *Game) Narratef(format string, a ...interface{}) {
	g.Narrate(fmt.Sprintf(format, a...))
}

func (g *Game) flush() []Entry {
	entries := g.out
	g.out = nil
	return entries
}

// Start runs the game until it ends or the UI disconnects. It runs the start
// handlers, then reads, runs and answers one line of input at a time. A UI that
// returns io.EOF from ReadLine ends the game cleanly; any other UI error is
// returned. Start can only be called once.
func (g *Game) Start(ctx context.Context, ui UI) error {
	if g.status != Uninitialized {
		return nterrors.ErrAlreadyStarted
	}
	g.status = Running
	defer func() {
		g.status = Ended
	}()

	g.log.Info().Str("title", g.Title).Msg("game started")

	g.start()
	g.runRequests(ctx)
	if err := g.answer(ui, g.flush()); err != nil {
		return err
	}

	for !g.ending {
		line, err := ui.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				g.log.Info().Msg("player disconnected")
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		if err := g.answer(ui, g.Step(ctx, line)); err != nil {
			return err
		}
	}

	g.log.Info().Int("moves", g.moves).Int("score", g.score).Msg("game ended")
	return nil
}

func (g *Game) answer(ui UI, entries []Entry) error {
	if err := ui.Write(entries); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := ui.PushState(g.SessionData()); err != nil {
		return fmt.Errorf("push state: %w", err)
	}
	return nil
}

func (g *Game) start() {
	if len(g.onStart) == 0 {
		if err := g.Do("look"); err != nil {
			g.reportFailure("look", err)
		}
		return
	}

	for _, h := range g.onStart {
		if err := g.runStart(h); err != nil {
			g.reportFailure("start", err)
			return
		}
	}
}

func (g *Game) runStart(h StartHandler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &nterrors.HandlerError{Action: "start", Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := h(g); err != nil {
		return &nterrors.HandlerError{Action: "start", Err: err}
	}
	return nil
}

// Step runs one line of input and returns the output for it, starting with
// the echoed line. Each sentence on the line is a separate command. A sentence
// that cannot be understood or whose handler fails stops the rest of the line.
//
// A command that is dispatched to handlers counts as one move, even if a
// handler fails. Commands that are not understood, that no handler applies to,
// and meta actions such as "score" do not count.
func (g *Game) Step(ctx context.Context, line string) []Entry {
	if g.status == Ended || g.ending {
		return nil
	}

	g.out = append(g.out, Entry{Text: strings.TrimSpace(line), Echo: true})

	sentences := command.Sentences(line)
	if len(sentences) == 0 {
		sentences = []string{line}
	}

	for _, sentence := range sentences {
		if !g.command(sentence) || g.ending {
			break
		}
	}

	g.runRequests(ctx)
	if g.autosave && !g.ending {
		if err := g.save(ctx); err != nil {
			g.log.Error().Err(err).Str("slot", g.slot).Msg("autosave failed")
		}
	}

	return g.flush()
}

// command parses and dispatches one top-level sentence. It returns whether
// the rest of the line should still be run.
func (g *Game) command(sentence string) bool {
	cmd, err := g.parser.Parse(sentence, g.scope())
	if err != nil {
		g.log.Debug().Str("input", sentence).Err(err).Msg("could not parse command")
		g.Narrate(nterrors.GameMessage(err))
		return false
	}

	g.log.Debug().
		Str("action", cmd.Action).
		Int("objects", len(cmd.Objects)).
		Int("moves", g.moves).
		Msg("dispatching command")

	out, err := g.dispatch(cmd)
	if g.observer != nil {
		g.observer(out, err)
	}

	if err != nil {
		g.moves++
		g.reportFailure(cmd.Action, err)
		return false
	}

	if !out.NoHandler && !g.registry.IsMeta(cmd.Action) {
		g.moves++
	}
	return true
}

func (g *Game) reportFailure(act string, err error) {
	g.log.Error().
		Err(err).
		Str("action", act).
		Int("moves", g.moves).
		Msg("handler failed")
	g.Narrate(nterrors.GameMessage(err))
}

func (g *Game) scope() []*world.Thing {
	return g.world.Scope(g.pc)
}

// runRequests carries out saves and restores asked for during the last
// command.
func (g *Game) runRequests(ctx context.Context) {
	if g.saveRequested {
		g.saveRequested = false
		if err := g.save(ctx); err != nil {
			g.log.Error().Err(err).Str("slot", g.slot).Msg("save failed")
			g.Narrate(nterrors.GameMessage(err))
		} else {
			g.Narrate("Saved.")
		}
	}

	if g.restoreRequested {
		g.restoreRequested = false
		if err := g.load(ctx); err != nil {
			g.log.Error().Err(err).Str("slot", g.slot).Msg("restore failed")
			g.Narrate(nterrors.GameMessage(err))
		} else {
			g.Narrate("Restored.")
		}
	}
}

func (g *Game) save(ctx context.Context) error {
	if g.saver == nil {
		return nterrors.Game("Saving isn't available here.", "no saver configured")
	}
	data, err := g.Snapshot().MarshalBinary()
	if err != nil {
		return nterrors.WrapGame(err, "Save failed.", "encode snapshot: "+err.Error())
	}
	if err := g.saver.Save(ctx, g.slot, data); err != nil {
		return nterrors.WrapGame(err, "Save failed.", "save: "+err.Error())
	}
	return nil
}

func (g *Game) load(ctx context.Context) error {
	if g.saver == nil {
		return nterrors.Game("Restoring isn't available here.", "no saver configured")
	}
	data, err := g.saver.Load(ctx, g.slot)
	if err != nil {
		return nterrors.WrapGame(err, "There is no saved game to restore.", "load: "+err.Error())
	}

	var snap Snapshot
	if err := snap.UnmarshalBinary(data); err != nil {
		return nterrors.WrapGame(err, "The saved game could not be read.", "decode snapshot: "+err.Error())
	}
	if err := g.ApplySnapshot(snap); err != nil {
		return nterrors.WrapGame(err, "The saved game could not be read.", "apply snapshot: "+err.Error())
	}
	return nil
}

// Resume loads the game saved in the Game's slot, if there is one. It is used
// by front-ends that pick up a previous session before starting.
func (g *Game) Resume(ctx context.Context) (bool, error) {
	if g.saver == nil {
		return false, nil
	}
	data, err := g.saver.Load(ctx, g.slot)
	if errors.Is(err, ErrNoSave) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("load: %w", err)
	}

	var snap Snapshot
	if err := snap.UnmarshalBinary(data); err != nil {
		return false, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := g.ApplySnapshot(snap); err != nil {
		return false, fmt.Errorf("apply snapshot: %w", err)
	}
	return true, nil
}
