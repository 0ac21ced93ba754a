package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/snfs-app/snfs/internal/config"
	"github.com/snfs-app/snfs/internal/session"
	"github.com/snfs-app/snfs/internal/tui"
	"github.com/snfs-app/snfs/pkg/snfsapi"
)

// uiOptions holds dependencies for the ui command.
type uiOptions struct {
	configPath   func() string
	sessionPath  string
	uiConfigPath string
	logPath      string
	// run starts the program; tests replace it to inspect the model.
	run func(tea.Model) error
}

func runProgram(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func newUICmd(opts uiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Interactive terminal UI",
		Long: `Launch an interactive terminal UI for SNFS.

The UI provides a full-screen experience with keyboard navigation,
periodic refresh and views for:
  - Portfolios: balances, holdings, deposits and withdrawals
  - Stock Lists: your lists, with deletion
  - Reviews: your reviews or the reviews of one list
  - Friends: friends and incoming friend requests

Keyboard shortcuts:
  1-4     Switch between views
  ↑/↓     Navigate rows
  r       Refresh data
  q       Quit the application

Logs are written to ui.log in the config directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(opts)
		},
	}

	cmd.SilenceUsage = true
	return cmd
}

func runUI(opts uiOptions) error {
	s, err := session.Require(opts.sessionPath)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	uiCfg, err := tui.LoadConfig(opts.uiConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load UI config: %w", err)
	}

	// The program owns the terminal, so logs go to a file
	if err := os.MkdirAll(filepath.Dir(opts.logPath), 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.OpenFile(opts.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	logger := newLogger(logFile, cfg)
	logger.Info("starting terminal UI", "user", s.Username, "api", cfg.APIBaseURL)

	client := snfsapi.NewClient(cfg.APIBaseURL).WithLogger(logger).WithTimeout(cfg.Timeout())
	model := tui.New(tui.Options{
		Config:       cfg,
		UIConfig:     uiCfg,
		UIConfigPath: opts.uiConfigPath,
		API:          client,
		Session:      s,
		Logger:       logger,
	})

	if err := opts.run(model); err != nil {
		logger.Error("terminal UI exited", "error", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(newUICmd(uiOptions{
		configPath:   configPath,
		sessionPath:  session.Path(),
		uiConfigPath: tui.ConfigPath(),
		logPath:      tui.LogPath(),
		run:          runProgram,
	}))
}
