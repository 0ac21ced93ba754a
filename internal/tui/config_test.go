package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "ui.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &UIConfig{}, cfg)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ui.yaml")
	want := &UIConfig{StartView: "reviews", ReviewListID: 42}

	require.NoError(t, SaveConfig(path, want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ui.yaml")
	require.NoError(t, os.WriteFile(path, []byte("start_view: [oops"), 0600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestViewFromName(t *testing.T) {
	assert.Equal(t, ViewPortfolios, viewFromName(""))
	assert.Equal(t, ViewPortfolios, viewFromName("bogus"))
	assert.Equal(t, ViewLists, viewFromName("lists"))
	assert.Equal(t, ViewReviews, viewFromName("reviews"))
	assert.Equal(t, ViewFriends, viewFromName("friends"))
}
