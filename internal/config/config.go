// Package config handles the XDG configuration directory, its files, and
// user settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "techlead"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// UserFile records who is signed in.
	UserFile = "user.json"

	// SettingsFile holds user settings.
	SettingsFile = "config.yaml"
)

// Defaults for settings not present in config.yaml.
const (
	DefaultDatabase     = "(default)"
	DefaultModel        = "gemini-2.0-flash"
	DefaultPollInterval = 2 * time.Second
	DefaultWriteTimeout = 10 * time.Second
)

var (
	// ErrNotLoggedIn is returned when no signed-in user is recorded.
	ErrNotLoggedIn = errors.New("not logged in (run: techlead login)")

	// ErrNotConfigured is wrapped by errors for missing required settings.
	ErrNotConfigured = errors.New("not configured")
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Log is the process logger.
	Log zerolog.Logger

	// Settings are read from config.yaml by LoadSettings.
	Settings Settings
}

// Settings is the content of config.yaml.
type Settings struct {
	// ProjectID is the Google Cloud project hosting the task database.
	ProjectID string `yaml:"project_id"`

	// Database is the Firestore database ID.
	Database string `yaml:"database"`

	// Model is the Gemini model used by the assistant.
	Model string `yaml:"model"`

	// APIKey authenticates assistant requests.
	APIKey string `yaml:"api_key"`

	// PollInterval is how often the live task list is refreshed.
	PollInterval time.Duration `yaml:"poll_interval"`

	// WriteTimeout bounds a background store write.
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// User identifies the signed-in account. Tasks live under its ID.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/techlead or $HOME/.config/techlead.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir, Log: zerolog.Nop(), Settings: defaultSettings()}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func defaultSettings() Settings {
	return Settings{
		Database:     DefaultDatabase,
		Model:        DefaultModel,
		PollInterval: DefaultPollInterval,
		WriteTimeout: DefaultWriteTimeout,
	}
}

// LoadSettings reads config.yaml, if present, over the defaults and then
// applies environment overrides: TECHLEAD_PROJECT, GEMINI_API_KEY,
// GOOGLE_API_KEY.
func (c *Config) LoadSettings() error {
	s := defaultSettings()

	data, err := os.ReadFile(c.SettingsPath())
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid %s: %w", SettingsFile, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	}

	if v := os.Getenv("TECHLEAD_PROJECT"); v != "" {
		s.ProjectID = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		s.APIKey = v
	} else if v := os.Getenv("GOOGLE_API_KEY"); v != "" && s.APIKey == "" {
		s.APIKey = v
	}

	if s.Database == "" {
		s.Database = DefaultDatabase
	}
	if s.Model == "" {
		s.Model = DefaultModel
	}
	if s.PollInterval <= 0 {
		s.PollInterval = DefaultPollInterval
	}
	if s.WriteTimeout <= 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}

	c.Settings = s
	return nil
}

// SaveSettings writes the current settings to config.yaml.
func (c *Config) SaveSettings() error {
	if err := c.EnsureDir(); err != nil {
		return err
	}
	data, err := yaml.Marshal(&c.Settings)
	if err != nil {
		return err
	}
	return os.WriteFile(c.SettingsPath(), data, 0600)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// UserPath returns the path to the signed-in user file.
func (c *Config) UserPath() string {
	return filepath.Join(c.Dir, UserFile)
}

// SettingsPath returns the path to config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}

// LoadUser returns the signed-in user, or ErrNotLoggedIn.
func (c *Config) LoadUser() (User, error) {
	data, err := os.ReadFile(c.UserPath())
	if errors.Is(err, os.ErrNotExist) {
		return User{}, ErrNotLoggedIn
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to read %s: %w", UserFile, err)
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return User{}, fmt.Errorf("invalid %s: %w", UserFile, err)
	}
	if u.ID == "" {
		return User{}, ErrNotLoggedIn
	}
	return u, nil
}

// SaveUser records the signed-in user with mode 0600.
func (c *Config) SaveUser(u User) error {
	if err := c.EnsureDir(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(u, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.UserPath(), data, 0600)
}

// RemoveUser deletes the user file. A missing file is not an error.
func (c *Config) RemoveUser() error {
	err := os.Remove(c.UserPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
