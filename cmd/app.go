package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/snfs-app/snfs/internal/config"
	"github.com/snfs-app/snfs/internal/output"
	"github.com/snfs-app/snfs/internal/session"
	"github.com/snfs-app/snfs/pkg/snfsapi"
)

// appOptions holds the dependencies shared by commands that talk to the
// backend. Production commands fill it in PersistentPreRunE; tests build it
// directly.
type appOptions struct {
	client   *snfsapi.Client
	session  *session.Session
	jsonMode bool
	query    string
	timeout  time.Duration
	pageSize int
	logger   *slog.Logger
}

// configPath returns the config file selected by --config or the default.
func configPath() string {
	if configFlag != "" {
		return configFlag
	}
	return config.ConfigPath()
}

// newLogger builds the process logger. --verbose forces debug level.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	if verboseFlag {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadApp returns a PersistentPreRunE that loads config, builds the client
// and picks up the session if one exists. Commands that need a user call
// requireUser.
func loadApp(opts *appOptions) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger := newLogger(cmd.ErrOrStderr(), cfg)
		slog.SetDefault(logger)

		opts.logger = logger
		opts.timeout = cfg.Timeout()
		opts.pageSize = cfg.PageSize
		opts.jsonMode = GetJSONMode()
		opts.query = queryFlag
		opts.client = snfsapi.NewClient(cfg.APIBaseURL).WithLogger(logger).WithTimeout(cfg.Timeout())

		s, err := session.Require(session.Path())
		switch {
		case err == nil:
			opts.session = s
		case errors.Is(err, session.ErrNotLoggedIn):
			logger.Debug("no session", "path", session.Path())
		default:
			return err
		}
		return nil
	}
}

// requestContext returns a request context bounded by the configured timeout.
func (o *appOptions) requestContext() (context.Context, context.CancelFunc) {
	timeout := o.timeout
	if timeout <= 0 {
		timeout = time.Duration(config.DefaultTimeoutSeconds) * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

// formatter returns an output formatter honoring --json and --query.
func (o *appOptions) formatter(cmd *cobra.Command) *output.Formatter {
	return output.New(cmd.OutOrStdout(), o.jsonMode).WithQuery(o.query)
}

// log returns the command logger, discarding output when none was set.
func (o *appOptions) log() *slog.Logger {
	if o.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.logger
}

// requireUser returns the logged-in user's id.
func (o *appOptions) requireUser() (int, error) {
	if o.session == nil {
		return 0, session.ErrNotLoggedIn
	}
	return o.session.UserID, nil
}

// optionalUser returns the logged-in user's id, or 0 for a guest.
func (o *appOptions) optionalUser() int {
	if o.session == nil {
		return 0
	}
	return o.session.UserID
}

// notice prints a success/info line.
func (o *appOptions) notice(cmd *cobra.Command, level output.Level, msg string) error {
	return o.formatter(cmd).Notice(level, msg)
}

// addAppCommand registers a command group that loads shared options first.
func addAppCommand(build func(*appOptions) *cobra.Command) {
	opts := &appOptions{}
	cmd := build(opts)
	cmd.PersistentPreRunE = loadApp(opts)
	rootCmd.AddCommand(cmd)
}

// messageOr returns the backend's message, or fallback when it sent none.
func messageOr(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
