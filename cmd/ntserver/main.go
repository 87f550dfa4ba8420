/*
Ntserver starts a notea server and begins listening for new connections.

Usage:

	ntserver [flags]
	ntserver [flags] -l [[ADDRESS]:PORT]

Once started, the server will serve its world to websocket clients connecting
to /play, with a small REST API alongside it. By default, it will listen on
localhost:8080. This can be changed with the --listen/-l flag (or config via
environment var). The flag argument must be either a full address with port,
such as "192.168.0.2:6001", or just the port preceeded by a colon, such as
":6001".

If a token secret is not given, one will be automatically generated. As a
consequence, in this mode of operation all play tokens are rendered invalid as
soon as the server shuts down. This is suitable for testing, but must be given
via either CLI flags or environment variable if running in production.

Every flag may instead be given by environment variable; a flag that is given
takes priority over the environment.

The flags are:

	-v, --version
		Give the current version of the notea server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment variable
		NOTEA_LISTEN_ADDRESS, and if that is not given, will default to
		localhost:8080.

	-w, --world FILE
		Serve the given world file or manifest. Defaults to the value of
		environment variable NOTEA_WORLD, and if that is not given, to
		"world.toml" in the current working directory.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing play tokens. If there are less than
		32 bytes in the secret, it will be repeated until it is. The maximum
		size is 64 bytes. If not given, will default to the value of environment
		variable NOTEA_TOKEN_SECRET. If no secret is specified or an empty
		secret is given, a random secret will be automatically generated.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the following:
		inmem, sqlite, bolt. inmem has no further params. sqlite needs the path
		to the data directory such as sqlite:path/to/db_dir. bolt needs the path
		to the database file such as bolt:path/to/notea.db. If not given, will
		default to the value of environment variable NOTEA_DATABASE. If no DB
		driver is specified or an empty one is given, an in-memory database is
		automatically selected.

	--origins ORIGIN,...
		Only accept websocket connections from the given origins. Defaults to
		the value of environment variable NOTEA_ALLOWED_ORIGINS. If empty, all
		origins are accepted.

	--debug
		Log at debug level, including every command players give.
*/
package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dekarrin/notea/internal/version"
	"github.com/dekarrin/notea/server"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

// environment holds the settings that can come from the environment.
type environment struct {
	Listen  string   `env:"NOTEA_LISTEN_ADDRESS" envDefault:"localhost:8080"`
	Secret  string   `env:"NOTEA_TOKEN_SECRET"`
	DB      string   `env:"NOTEA_DATABASE"`
	World   string   `env:"NOTEA_WORLD" envDefault:"world.toml"`
	Origins []string `env:"NOTEA_ALLOWED_ORIGINS" envSeparator:","`
}

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of notea server and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagWorld   = pflag.StringP("world", "w", "", "Serve the given world file.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string.")
	flagOrigins = pflag.StringSlice("origins", nil, "Accept websocket connections only from the given origins.")
	flagDebug   = pflag.Bool("debug", false, "Log at debug level.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (notea v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	args := pflag.Args()

	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).
		With().
		Timestamp().
		Logger().
		Level(zerolog.InfoLevel)
	if *flagDebug {
		log = log.Level(zerolog.DebugLevel)
	}

	var envCfg environment
	if err := env.Parse(&envCfg); err != nil {
		log.Fatal().Err(err).Msg("could not read environment")
	}
	if pflag.Lookup("listen").Changed {
		envCfg.Listen = *flagListen
	}
	if pflag.Lookup("world").Changed {
		envCfg.World = *flagWorld
	}
	if pflag.Lookup("secret").Changed {
		envCfg.Secret = *flagSecret
	}
	if pflag.Lookup("db").Changed {
		envCfg.DB = *flagDB
	}
	if pflag.Lookup("origins").Changed {
		envCfg.Origins = *flagOrigins
	}

	// check address info
	bindParts := strings.SplitN(envCfg.Listen, ":", 2)
	if len(bindParts) != 2 {
		fmt.Fprintf(os.Stderr, "Listen address is not in ADDRESS:PORT or :PORT format.\nDo -h for help.\n")
		os.Exit(1)
	}
	if _, err := strconv.Atoi(bindParts[1]); err != nil {
		fmt.Fprintf(os.Stderr, "%q is not a valid port number.\nDo -h for help.\n", bindParts[1])
		os.Exit(1)
	}

	// assemble a server config
	cfg := server.Config{
		WorldFile:      envCfg.World,
		AllowedOrigins: envCfg.Origins,
	}

	// look at db connection string
	if envCfg.DB != "" {
		db, err := server.ParseDBConnString(envCfg.DB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err)
			os.Exit(1)
		}
		cfg.DB = db
	}

	// get token secret
	if envCfg.Secret != "" {
		tokSecret := []byte(envCfg.Secret)

		for len(tokSecret) < server.MinSecretSize {
			doubledTokSecret := make([]byte, len(tokSecret)*2)
			copy(doubledTokSecret, tokSecret)
			copy(doubledTokSecret[len(tokSecret):], tokSecret)
			tokSecret = doubledTokSecret
		}

		if len(tokSecret) > server.MaxSecretSize {
			// keys would be chopped at 64, so rather than the user thinking
			// they have more security by giving a longer key, refuse to start.
			fmt.Fprintf(os.Stderr, "Token secret is %d bytes, but it must be <= %d bytes\nDo -h for help.\n", len(tokSecret), server.MaxSecretSize)
			os.Exit(1)
		}
		cfg.TokenSecret = tokSecret
	} else {
		// use all 64 possible bytes if doing a generated secret
		cfg.TokenSecret = make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(cfg.TokenSecret); err != nil {
			log.Fatal().Err(err).Msg("could not generate token secret")
		}

		// yell at the user bc they should know their secret might be bad
		log.Warn().Msg("using generated token secret; all tokens issued will become invalid at shutdown")
	}

	// configuration complete, initialize the server
	srv, err := server.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("could not start server")
	}
	defer func() {
		if err := srv.Close(); err != nil {
			log.Error().Err(err).Msg("could not close database")
		}
	}()
	log.Debug().Str("db", cfg.FillDefaults().DB.Type.String()).Msg("server initialized")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// okay, now actually launch it
	log.Info().Str("version", version.ServerCurrent).Msg("starting notea server")
	if err := srv.ListenAndServe(ctx, envCfg.Listen); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
}
