package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestConfig(t *testing.T) *Config {
	t.Helper()
	t.Setenv("TECHLEAD_PROJECT", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	cfg, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return cfg
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultConfigDir(); got != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("unexpected dir: %s", got)
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	cfg := newTestConfig(t)

	if err := cfg.LoadSettings(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := cfg.Settings
	if s.Database != DefaultDatabase || s.Model != DefaultModel {
		t.Errorf("unexpected defaults: %+v", s)
	}
	if s.PollInterval != DefaultPollInterval || s.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("unexpected default durations: %+v", s)
	}
}

func TestLoadSettings_File(t *testing.T) {
	cfg := newTestConfig(t)

	yml := "project_id: tech-leader-assistant\nmodel: gemini-2.5-pro\npoll_interval: 5s\napi_key: from-file\n"
	if err := os.WriteFile(cfg.SettingsPath(), []byte(yml), 0600); err != nil {
		t.Fatal(err)
	}

	if err := cfg.LoadSettings(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := cfg.Settings
	if s.ProjectID != "tech-leader-assistant" || s.Model != "gemini-2.5-pro" || s.APIKey != "from-file" {
		t.Errorf("unexpected settings: %+v", s)
	}
	if s.PollInterval != 5*time.Second {
		t.Errorf("expected 5s poll interval, got %s", s.PollInterval)
	}
	if s.Database != DefaultDatabase {
		t.Errorf("expected default database, got %q", s.Database)
	}
}

func TestLoadSettings_EnvOverrides(t *testing.T) {
	cfg := newTestConfig(t)
	os.WriteFile(cfg.SettingsPath(), []byte("project_id: file-project\napi_key: file-key\n"), 0600)

	t.Setenv("TECHLEAD_PROJECT", "env-project")
	t.Setenv("GEMINI_API_KEY", "env-key")

	if err := cfg.LoadSettings(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Settings.ProjectID != "env-project" || cfg.Settings.APIKey != "env-key" {
		t.Errorf("expected environment to win, got %+v", cfg.Settings)
	}
}

func TestLoadSettings_GoogleKeyDoesNotOverrideFile(t *testing.T) {
	cfg := newTestConfig(t)
	os.WriteFile(cfg.SettingsPath(), []byte("api_key: file-key\n"), 0600)
	t.Setenv("GOOGLE_API_KEY", "google-key")

	if err := cfg.LoadSettings(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Settings.APIKey != "file-key" {
		t.Errorf("expected file key, got %q", cfg.Settings.APIKey)
	}
}

func TestLoadSettings_Invalid(t *testing.T) {
	cfg := newTestConfig(t)
	os.WriteFile(cfg.SettingsPath(), []byte("poll_interval: [1, 2]\n"), 0600)

	if err := cfg.LoadSettings(); err == nil {
		t.Fatal("expected error for invalid config.yaml")
	}
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Settings.ProjectID = "p1"
	cfg.Settings.PollInterval = 3 * time.Second

	if err := cfg.SaveSettings(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other, _ := New(cfg.Dir)
	if err := other.LoadSettings(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if other.Settings.ProjectID != "p1" || other.Settings.PollInterval != 3*time.Second {
		t.Errorf("unexpected settings after reload: %+v", other.Settings)
	}
}

func TestUser(t *testing.T) {
	cfg := newTestConfig(t)

	if _, err := cfg.LoadUser(); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}

	if err := cfg.SaveUser(User{ID: "1234", Email: "lead@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u, err := cfg.LoadUser()
	if err != nil || u.ID != "1234" || u.Email != "lead@example.com" {
		t.Fatalf("unexpected user %+v, err %v", u, err)
	}

	info, err := os.Stat(cfg.UserPath())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %o", info.Mode().Perm())
	}

	if err := cfg.RemoveUser(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.RemoveUser(); err != nil {
		t.Errorf("removing a missing user file should succeed, got %v", err)
	}
}
