package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/shibukawa/wbcommand"
	"github.com/shibukawa/wbcommand/command"
	"github.com/shibukawa/wbcommand/metadata"
	"github.com/shibukawa/wbcommand/pkmapping"
)

// DatabaseFlags selects the database of a command
type DatabaseFlags struct {
	DB     string `long:"db" help:"Database connection URL (overrides the environment)"`
	Driver string `long:"driver" help:"Database driver when --db is not a URL"`
	Schema string `long:"schema" help:"Schema used for unqualified names"`
}

// session is an open connection with the runner working on it
type session struct {
	config *wbcommand.Config
	conn   *metadata.Connection
	store  *pkmapping.Store
	runner *command.StatementRunner
}

// openSession loads the configuration, sets up logging and connects to the
// database selected by flags or the environment
func openSession(ctx context.Context, appCtx *Context, flags DatabaseFlags) (*session, error) {
	config, err := wbcommand.LoadConfig(appCtx.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	setupLogging(appCtx, config)

	db, err := selectDatabase(config, appCtx.Env, flags)
	if err != nil {
		return nil, err
	}

	conn, err := metadata.NewConnector().Open(ctx, db)
	if err != nil {
		return nil, err
	}

	pkmapping.SetDefaultFile(config.PkMappingFile)
	store := pkmapping.Default()

	if appCtx.Verbose {
		color.New(color.FgBlue).Fprintf(os.Stderr, "Connected to %s database\n", conn.Provider.Type())
	}

	return &session{
		config: config,
		conn:   conn,
		store:  store,
		runner: command.NewDefaultRunner(conn, store, config),
	}, nil
}

func (s *session) Close() error {
	return s.conn.Close()
}

func selectDatabase(config *wbcommand.Config, env string, flags DatabaseFlags) (wbcommand.Database, error) {
	var db wbcommand.Database

	if flags.DB != "" {
		db = wbcommand.Database{Driver: flags.Driver, Connection: flags.DB}
	} else {
		configured, ok := config.Environment(env)
		if !ok {
			if env == "" && len(config.Databases) == 0 {
				return db, ErrNoDatabase
			}

			if env == "" {
				env = config.DefaultEnvironment
			}

			return db, fmt.Errorf("%w: %s", ErrEnvironmentNotFound, env)
		}

		db = configured
	}

	if flags.Schema != "" {
		db.Schema = flags.Schema
	}

	return db, nil
}

func setupLogging(appCtx *Context, config *wbcommand.Config) {
	level := config.Logging.Level

	switch {
	case appCtx.Verbose:
		level = "debug"
	case appCtx.Quiet:
		level = "error"
	}

	format := config.Logging.Format
	if appCtx.LogFormat != "" {
		format = appCtx.LogFormat
	}

	wbcommand.InitLogger(os.Stderr, level, format)
}
