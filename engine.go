// Package notea contains a console engine for playing a game world: it reads
// commands from an input stream, runs them and writes the narration to an
// output stream until the player quits.
package notea

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dekarrin/notea/internal/command"
	"github.com/dekarrin/notea/internal/game"
	"github.com/dekarrin/notea/internal/input"
	"github.com/dekarrin/notea/internal/ntw"
	"github.com/dekarrin/rosed"
)

const consoleOutputWidth = 80

// Options configure an Engine. The zero value reads the world with no save
// support.
type Options struct {
	// ForceDirect reads input without readline even when attached to a
	// terminal.
	ForceDirect bool

	// SaveDir is the directory saved games are kept in. If empty, saving is
	// not available.
	SaveDir string

	// HistoryFile keeps command history across runs in interactive mode.
	HistoryFile string

	// GameOptions are passed to the game when it is built.
	GameOptions []game.Option
}

// Engine runs a game from an interactive shell attached to an input stream and
// an output stream.
type Engine struct {
	inst        *ntw.Instance
	in          command.Reader
	out         *bufio.Writer
	interactive bool
	running     bool
}

// New loads the world at worldFilePath and creates an engine to play it on the
// given streams. If nil is given for either stream, stdin or stdout is used.
// Readline is used when both streams are the terminal's and
// opts.ForceDirect is not set.
func New(inputStream io.Reader, outputStream io.Writer, worldFilePath string, opts Options) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	wd, err := ntw.Load(worldFilePath)
	if err != nil {
		return nil, err
	}

	gameOpts := opts.GameOptions
	if opts.SaveDir != "" {
		gameOpts = append(gameOpts, game.WithSaver(DirSaver{Dir: opts.SaveDir}))
	}
	inst, err := wd.Build(gameOpts...)
	if err != nil {
		return nil, fmt.Errorf("initializing game: %w", err)
	}

	eng := &Engine{
		inst: inst,
		out:  bufio.NewWriter(outputStream),
	}

	eng.interactive = !opts.ForceDirect && inputStream == os.Stdin && outputStream == os.Stdout
	if eng.interactive {
		eng.in, err = input.NewInteractiveReader(opts.HistoryFile)
		if err != nil {
			inst.Close()
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

// Game returns the game the engine is running.
func (eng *Engine) Game() *game.Game {
	return eng.inst.Game
}

// Close releases the input reader and the game's script runtime.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running game engine")
	}

	eng.inst.Close()
	if err := eng.in.Close(); err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}
	return nil
}

// RunUntilQuit plays the game until the player quits or input ends.
func (eng *Engine) RunUntilQuit(ctx context.Context) error {
	banner := "Welcome to " + eng.inst.Title + "\n"
	if !eng.interactive {
		banner += "(direct input mode)\n"
	}
	banner += strings.Repeat("=", len(banner)-1) + "\n\n"
	if err := eng.write(banner); err != nil {
		return err
	}

	eng.running = true
	defer func() {
		eng.running = false
	}()

	err := eng.inst.Start(ctx, consoleUI{eng})
	if errors.Is(err, readline.ErrInterrupt) {
		// ctrl-c at the prompt is a quit, not a failure
		return eng.write("Goodbye.\n")
	}
	return err
}

func (eng *Engine) write(s string) error {
	if _, err := eng.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}

// consoleUI is the game.UI of an Engine.
type consoleUI struct {
	eng *Engine
}

func (ui consoleUI) ReadLine(ctx context.Context) (string, error) {
	return ui.eng.in.ReadCommand()
}

// Write prints each entry wrapped to the console width. The echo of the
// player's input is printed only in direct mode, where it was not typed at a
// prompt.
func (ui consoleUI) Write(entries []game.Entry) error {
	var sb strings.Builder
	for _, e := range entries {
		if e.Echo {
			if !ui.eng.interactive {
				sb.WriteString(input.DefaultPrompt + e.Text + "\n")
			}
			continue
		}
		sb.WriteString(Wrap(e.Text) + "\n")
	}
	sb.WriteString("\n")
	return ui.eng.write(sb.String())
}

func (ui consoleUI) PushState(data game.SessionData) error {
	return nil
}

// Wrap wraps narration to the console width. Line breaks the author put in are
// kept, and lines that already fit are left alone so indented lists keep their
// indentation.
func Wrap(text string) string {
	lines := strings.Split(text, "\n")
	for i := range lines {
		if len(lines[i]) > consoleOutputWidth {
			lines[i] = rosed.Edit(lines[i]).Wrap(consoleOutputWidth).String()
		}
	}
	return strings.Join(lines, "\n")
}
