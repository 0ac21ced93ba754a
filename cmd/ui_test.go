package cmd

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snfs-app/snfs/internal/session"
	"github.com/snfs-app/snfs/internal/tui"
)

func TestUICommandExists(t *testing.T) {
	// Verify the ui command is registered
	cmd := rootCmd.Commands()
	var found bool
	for _, c := range cmd {
		if c.Name() == "ui" {
			found = true
			break
		}
	}
	assert.True(t, found, "ui command should be registered")
}

func TestUICommandDescription(t *testing.T) {
	// Find the ui command
	var uiCmd *cobra.Command
	for _, c := range rootCmd.Commands() {
		if c.Name() == "ui" {
			uiCmd = c
			break
		}
	}
	require.NotNil(t, uiCmd)
	assert.Equal(t, "ui", uiCmd.Use)
	assert.Contains(t, uiCmd.Short, "Interactive")
}

func testUIOptions(t *testing.T) (uiOptions, *tea.Model) {
	t.Helper()
	clearConfigEnv(t)
	dir := t.TempDir()
	var launched tea.Model
	return uiOptions{
		configPath:   func() string { return filepath.Join(dir, "config.yaml") },
		sessionPath:  filepath.Join(dir, "session.json"),
		uiConfigPath: filepath.Join(dir, "ui.yaml"),
		logPath:      filepath.Join(dir, "logs", "ui.log"),
		run: func(m tea.Model) error {
			launched = m
			return nil
		},
	}, &launched
}

func TestUICmd_RequiresLogin(t *testing.T) {
	opts, launched := testUIOptions(t)

	cmd := newUICmd(opts)
	cmd.SetArgs([]string{})
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrNotLoggedIn)
	assert.Nil(t, *launched, "program must not start without a session")
}

func TestUICmd_LaunchesModel(t *testing.T) {
	opts, launched := testUIOptions(t)
	require.NoError(t, session.Save(opts.sessionPath, &session.Session{UserID: 7, Username: "alice"}))

	cmd := newUICmd(opts)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	require.NotNil(t, *launched)
	assert.IsType(t, tui.Model{}, *launched)

	_, err := os.Stat(opts.logPath)
	assert.NoError(t, err, "log file is created")
}

func TestUICmd_ProgramError(t *testing.T) {
	opts, _ := testUIOptions(t)
	require.NoError(t, session.Save(opts.sessionPath, &session.Session{UserID: 7, Username: "alice"}))
	opts.run = func(tea.Model) error { return errors.New("terminal gone") }

	cmd := newUICmd(opts)
	cmd.SetArgs([]string{})
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal gone")
}

func TestUICmd_InvalidConfigDoesNotLaunch(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"negative refresh", "refresh_seconds: -1\n", "refresh_seconds must be positive"},
		{"non-http url", "api_base_url: \"ftp://nowhere\"\n", "invalid api_base_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, launched := testUIOptions(t)
			require.NoError(t, session.Save(opts.sessionPath, &session.Session{UserID: 7, Username: "alice"}))
			require.NoError(t, os.WriteFile(opts.configPath(), []byte(tt.content), 0600))

			cmd := newUICmd(opts)
			cmd.SetArgs([]string{})
			cmd.SetErr(io.Discard)

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Nil(t, *launched, "program must not start with an invalid config")

			_, statErr := os.Stat(opts.logPath)
			assert.True(t, os.IsNotExist(statErr), "no log file before the config is accepted")
		})
	}
}
