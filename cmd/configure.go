package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/snfs-app/snfs/internal/config"
	"github.com/snfs-app/snfs/internal/output"
	"github.com/snfs-app/snfs/internal/session"
)

// configureOptions holds dependencies for the configure command.
// This allows for dependency injection in tests.
type configureOptions struct {
	configPath  func() string
	sessionPath string
	prompt      prompter
	interactive bool
}

// configureFlags are the settings that can be changed from the command line.
type configureFlags struct {
	apiURL   string
	logLevel string
	timeout  int
	pageSize int
	refresh  int
}

// newConfigureCmd creates the configure command with the given options.
func newConfigureCmd(opts configureOptions) *cobra.Command {
	var flags configureFlags

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Configure the CLI",
		Long: `Configure where the SNFS backend lives and how the CLI behaves.

Without flags you are prompted for the backend URL.

Examples:
  snfs configure
  snfs configure --api-url http://snfs.example.com:8000
  snfs configure --page-size 25 --log-level info
  snfs configure show`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure(cmd, opts, flags)
		},
	}

	cmd.Flags().StringVar(&flags.apiURL, "api-url", "", "Backend base URL")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().IntVar(&flags.timeout, "timeout", 0, "Request timeout in seconds")
	cmd.Flags().IntVar(&flags.pageSize, "page-size", 0, "Rows per page of price history")
	cmd.Flags().IntVar(&flags.refresh, "refresh", 0, "Terminal UI refresh interval in seconds")

	// Don't show usage info on validation errors - just show the error
	cmd.SilenceUsage = true

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViewConfiguration(cmd, opts)
		},
	}
	showCmd.SilenceUsage = true
	cmd.AddCommand(showCmd)

	return cmd
}

func runConfigure(cmd *cobra.Command, opts configureOptions, flags configureFlags) error {
	path := opts.configPath()

	// Load existing config or create new one
	cfg, err := config.LoadFile(path)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	changed := cmd.Flags().NFlag() > 0
	if changed {
		applyConfigureFlags(cmd, cfg, flags)
	} else {
		if !opts.interactive || opts.prompt == nil {
			return fmt.Errorf("no settings given\nPass flags such as --api-url, or run this command in an interactive terminal")
		}
		url, err := opts.prompt.ReadLine(fmt.Sprintf("Backend URL [%s]: ", cfg.APIBaseURL))
		if err != nil {
			return fmt.Errorf("failed to read backend URL: %w", err)
		}
		if url != "" {
			cfg.APIBaseURL = url
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	return output.New(cmd.OutOrStdout(), GetJSONMode()).Notice(output.LevelSuccess, "Configuration saved to "+path)
}

func applyConfigureFlags(cmd *cobra.Command, cfg *config.Config, flags configureFlags) {
	if cmd.Flags().Changed("api-url") {
		cfg.APIBaseURL = flags.apiURL
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSeconds = flags.timeout
	}
	if cmd.Flags().Changed("page-size") {
		cfg.PageSize = flags.pageSize
	}
	if cmd.Flags().Changed("refresh") {
		cfg.RefreshSeconds = flags.refresh
	}
}

// runViewConfiguration displays the effective configuration.
func runViewConfiguration(cmd *cobra.Command, opts configureOptions) error {
	path := opts.configPath()
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loggedIn := "Not logged in"
	if s, err := session.Load(opts.sessionPath); err == nil && s.Username != "" {
		loggedIn = fmt.Sprintf("%s (user %d)", s.Username, s.UserID)
	}

	return output.New(cmd.OutOrStdout(), GetJSONMode()).KeyValues([][2]string{
		{"Config file", path},
		{"API base URL", cfg.APIBaseURL},
		{"Timeout (s)", strconv.Itoa(cfg.TimeoutSeconds)},
		{"Page size", strconv.Itoa(cfg.PageSize)},
		{"Refresh (s)", strconv.Itoa(cfg.RefreshSeconds)},
		{"Log level", cfg.LogLevel},
		{"Session", loggedIn},
	})
}

func init() {
	// Create configure command with production dependencies
	configureCmd := newConfigureCmd(configureOptions{
		configPath:  configPath,
		sessionPath: session.Path(),
		prompt:      newTerminalPrompter(os.Stdin, os.Stdout),
		interactive: newTerminalReader(int(os.Stdin.Fd())).IsTerminal(),
	})
	rootCmd.AddCommand(configureCmd)
}
