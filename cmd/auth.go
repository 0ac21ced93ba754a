package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snfs-app/snfs/internal/keyring"
	"github.com/snfs-app/snfs/internal/output"
	"github.com/snfs-app/snfs/internal/session"
	"github.com/snfs-app/snfs/internal/validate"
)

// authOptions holds dependencies for register, login, logout and whoami.
type authOptions struct {
	app            *appOptions
	sessionPath    string
	store          keyring.Store
	passwordReader passwordReader
	prompt         prompter
}

// newAuthCmds creates the account commands that sit directly under root.
func newAuthCmds(opts authOptions) []*cobra.Command {
	return []*cobra.Command{
		newRegisterCmd(opts),
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
	}
}

func newRegisterCmd(opts authOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register [USERNAME]",
		Short: "Create an account",
		Long: `Create a new SNFS account. You are prompted for the password unless
SNFS_PASSWORD is set.

Registering does not log you in; run 'snfs login' afterwards.

Examples:
  snfs register alice`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd, opts, args)
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func runRegister(cmd *cobra.Command, opts authOptions, args []string) error {
	username, err := opts.username(args)
	if err != nil {
		return err
	}
	password, err := opts.password(cmd, username)
	if err != nil {
		return err
	}
	if err := validate.Credentials(username, password); err != nil {
		return err
	}

	ctx, cancel := opts.app.requestContext()
	defer cancel()

	resp, err := opts.app.client.Register(ctx, username, password)
	if err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}

	msg := resp.Message
	if msg == "" {
		msg = fmt.Sprintf("Registered %s", resp.User.Username)
	}
	return opts.app.notice(cmd, output.LevelSuccess, msg)
}

func newLoginCmd(opts authOptions) *cobra.Command {
	var remember bool

	cmd := &cobra.Command{
		Use:   "login [USERNAME]",
		Short: "Log in and start a session",
		Long: `Log in to SNFS. The session is stored in the config directory and used
by every other command until 'snfs logout'.

The password is taken from SNFS_PASSWORD, then from the system keyring if it
was saved with --remember, and is prompted for otherwise.

Examples:
  snfs login alice
  snfs login alice --remember`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, opts, args, remember)
		},
	}

	cmd.Flags().BoolVar(&remember, "remember", false, "Save the password in the system keyring")
	cmd.SilenceUsage = true
	return cmd
}

func runLogin(cmd *cobra.Command, opts authOptions, args []string, remember bool) error {
	username, err := opts.username(args)
	if err != nil {
		return err
	}
	password, err := opts.password(cmd, username)
	if err != nil {
		return err
	}
	if err := validate.Credentials(username, password); err != nil {
		return err
	}

	ctx, cancel := opts.app.requestContext()
	defer cancel()

	s, err := session.Login(ctx, opts.app.client, opts.sessionPath, username, password)
	if err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}

	if remember {
		if err := keyring.SavePassword(opts.store, username, password); err != nil {
			_ = opts.app.notice(cmd, output.LevelWarning, fmt.Sprintf("could not save password: %v", err))
		}
	}

	return opts.app.notice(cmd, output.LevelSuccess, fmt.Sprintf("Logged in as %s (user %d)", s.Username, s.UserID))
}

func newLogoutCmd(opts authOptions) *cobra.Command {
	var forget bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Long: `Remove the stored session. With --forget the saved password is also
removed from the system keyring.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd, opts, forget)
		},
	}

	cmd.Flags().BoolVar(&forget, "forget", false, "Also remove the saved password")
	cmd.SilenceUsage = true
	return cmd
}

func runLogout(cmd *cobra.Command, opts authOptions, forget bool) error {
	s, err := session.Load(opts.sessionPath)
	if err != nil {
		s = nil
	}

	if err := session.Delete(opts.sessionPath); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}

	if forget && s != nil {
		if err := keyring.ForgetPassword(opts.store, s.Username); err != nil {
			return fmt.Errorf("failed to remove saved password: %w", err)
		}
	}

	return opts.app.notice(cmd, output.LevelInfo, "Logged out successfully")
}

func newWhoamiCmd(opts authOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := session.Require(opts.sessionPath)
			if err != nil {
				return err
			}
			return opts.app.formatter(cmd).KeyValues([][2]string{
				{"Username", s.Username},
				{"User ID", fmt.Sprint(s.UserID)},
			})
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

// username takes the username from args or prompts for it.
func (o authOptions) username(args []string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(args[0]), nil
	}
	if o.prompt == nil {
		return "", fmt.Errorf("username is required")
	}
	name, err := o.prompt.ReadLine("Username: ")
	if err != nil {
		return "", fmt.Errorf("failed to read username: %w", err)
	}
	return name, nil
}

// password resolves the password from the keyring/environment or the terminal.
func (o authOptions) password(cmd *cobra.Command, username string) (string, error) {
	if o.store != nil && username != "" {
		pw, err := keyring.LoadPassword(o.store, username)
		if err == nil {
			o.app.log().Debug("using stored password", "username", username)
			return pw, nil
		}
		if !errors.Is(err, keyring.ErrNotFound) {
			o.app.log().Debug("keyring lookup failed", "error", err)
		}
	}

	if o.passwordReader == nil || !o.passwordReader.IsTerminal() {
		return "", fmt.Errorf("password required: set %s or run in an interactive terminal", keyring.EnvPassword)
	}

	_, _ = fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	pw, err := o.passwordReader.ReadPassword()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	return pw, nil
}

func init() {
	app := &appOptions{}
	opts := authOptions{
		app:            app,
		sessionPath:    session.Path(),
		store:          keyring.NewEnvStore(keyring.NewSystemStore()),
		passwordReader: newTerminalReader(int(os.Stdin.Fd())),
		prompt:         newTerminalPrompter(os.Stdin, os.Stdout),
	}
	for _, c := range newAuthCmds(opts) {
		c.PersistentPreRunE = loadApp(app)
		rootCmd.AddCommand(c)
	}
}
