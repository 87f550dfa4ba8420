/*
Nti starts an interactive notea game session.

It reads in a world file and starts the game in the world's starting room. The
interpreter will then start printing what is happening in the game to stdout and
will read user input from stdin until the game is over or the "QUIT" command is
input.

Usage:

	nti [flags]

The flags are:

	-v, --version
		Give the current version of notea and then exit.

	-w, --world FILE
		Use the provided world file or manifest. Files ending in .yaml or .yml
		are read as YAML and all others as TOML. Defaults to the file
		"world.toml" in the current working directory.

	-d, --direct
		Force reading directly from the console as opposed to using GNU readline
		based routines for reading command input even if launched in a tty with
		stdin and stdout.

	-s, --saves DIR
		Keep saved games in the given directory. Defaults to "saves" in the
		current working directory. Give an empty string to turn saving off.

	--history FILE
		Keep the command history in the given file across sessions. Only used
		with readline.

	--debug
		Log every command and handler failure to stderr.

Once a session has started, the user input will be parsed for commands. To
exit the interpreter, type "QUIT".
*/
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dekarrin/notea"
	"github.com/dekarrin/notea/internal/game"
	"github.com/dekarrin/notea/internal/version"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitGameError indicates an unsuccessful program execution due to a
	// problem during the game.
	ExitGameError

	// ExitInitError indicates an unsuccessful program execution due to an issue
	// initializing the engine.
	ExitInitError
)

var (
	returnCode = ExitSuccess

	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of notea and then exit.")
	flagWorld   = pflag.StringP("world", "w", "world.toml", "The world data or manifest file that contains the definition of the world.")
	flagDirect  = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible.")
	flagSaves   = pflag.StringP("saves", "s", "saves", "Keep saved games in the given directory.")
	flagHistory = pflag.String("history", "", "Keep command history in the given file.")
	flagDebug   = pflag.Bool("debug", false, "Log commands and failures to stderr.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic(panicErr)
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		returnCode = ExitInitError
		return
	}

	opts := notea.Options{
		ForceDirect: *flagDirect,
		SaveDir:     *flagSaves,
		HistoryFile: *flagHistory,
	}
	if *flagDebug {
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
			With().
			Timestamp().
			Logger().
			Level(zerolog.DebugLevel)
		opts.GameOptions = append(opts.GameOptions, game.WithLogger(log))
	}

	gameEng, initErr := notea.New(os.Stdin, os.Stdout, *flagWorld, opts)
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer gameEng.Close()

	err := gameEng.RunUntilQuit(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitGameError
		return
	}
}
