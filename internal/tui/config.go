package tui

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/snfs-app/snfs/internal/config"
)

// UIConfig holds TUI-specific configuration separate from CLI config.
type UIConfig struct {
	// StartView is the tab shown on launch: portfolios, lists, reviews or friends.
	StartView string `yaml:"start_view,omitempty"`
	// ReviewListID is the stock list whose reviews were last opened.
	ReviewListID int `yaml:"review_list_id,omitempty"`
}

// ConfigPath returns the path to the TUI config file.
func ConfigPath() string {
	return filepath.Join(config.ConfigDir(), "ui.yaml")
}

// LogPath returns where the TUI writes its log while it owns the terminal.
func LogPath() string {
	return filepath.Join(config.ConfigDir(), "ui.log")
}

// LoadConfig loads the TUI config from path. A missing file yields defaults.
func LoadConfig(path string) (*UIConfig, error) {
	cfg := &UIConfig{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig saves the TUI config to path.
func SaveConfig(path string, cfg *UIConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// viewFromName maps a StartView value to a tab. Unknown names open portfolios.
func viewFromName(name string) View {
	switch name {
	case "lists":
		return ViewLists
	case "reviews":
		return ViewReviews
	case "friends":
		return ViewFriends
	default:
		return ViewPortfolios
	}
}
