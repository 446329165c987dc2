package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"techlead/internal/commands"
	"techlead/internal/config"
	"techlead/internal/exitcode"
)

const testOAuthClient = `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`

func newConfig(t *testing.T, quiet bool) *config.Config {
	t.Helper()
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create config: %v", err)
	}
	cfg.Quiet = quiet
	return cfg
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", filepath.Base(path), err)
	}
}

// TestLoginCommand_NoOAuthClient verifies login fails without oauth_client.json
func TestLoginCommand_NoOAuthClient(t *testing.T) {
	cmd := &commands.LoginCmd{}
	cfg := newConfig(t, false)

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if outBuf.String() != "" {
		t.Errorf("expected no stdout, got %q", outBuf.String())
	}
	if !strings.HasPrefix(errBuf.String(), "error: oauth_client.json not found") {
		t.Errorf("expected error message about missing oauth_client.json, got %q", errBuf.String())
	}
	if !strings.Contains(errBuf.String(), "firestore.googleapis.com") {
		t.Error("expected setup instructions to mention the Firestore API")
	}
}

// TestLoginCommand_AlreadyLoggedIn verifies a usable token and a recorded
// user short-circuit the browser flow.
func TestLoginCommand_AlreadyLoggedIn(t *testing.T) {
	cmd := &commands.LoginCmd{}
	cfg := newConfig(t, false)

	writeFile(t, cfg.OAuthClientPath(), testOAuthClient)
	writeFile(t, cfg.TokenPath(), `{"access_token":"a","token_type":"Bearer","refresh_token":"r","expiry":"2999-01-01T00:00:00Z"}`)
	if err := cfg.SaveUser(config.User{ID: "u1", Email: "ana@example.com"}); err != nil {
		t.Fatalf("failed to save user: %v", err)
	}

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if outBuf.String() != "already logged in as ana@example.com\n" {
		t.Errorf("unexpected stdout %q", outBuf.String())
	}
}

// TestLoginCommand_InvalidToken verifies login proceeds when token is invalid/corrupt
func TestLoginCommand_InvalidToken(t *testing.T) {
	cmd := &commands.LoginCmd{}
	cfg := newConfig(t, false)

	writeFile(t, cfg.OAuthClientPath(), testOAuthClient)
	writeFile(t, cfg.TokenPath(), `{"access_token":"expired","token_type":"Bearer"}`)

	// Cancel immediately so the command does not wait for the OAuth callback.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var outBuf, errBuf bytes.Buffer
	_ = cmd.Run(ctx, cfg, nil, nil, &outBuf, &errBuf)

	if strings.HasPrefix(outBuf.String(), "already logged in") {
		t.Error("should not say 'already logged in' with invalid token")
	}
}

// TestLoginCommand_NoUserRecorded verifies a valid token alone is not a login.
func TestLoginCommand_NoUserRecorded(t *testing.T) {
	cmd := &commands.LoginCmd{}
	cfg := newConfig(t, false)

	writeFile(t, cfg.OAuthClientPath(), testOAuthClient)
	writeFile(t, cfg.TokenPath(), `{"access_token":"a","token_type":"Bearer","refresh_token":"r","expiry":"2999-01-01T00:00:00Z"}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var outBuf, errBuf bytes.Buffer
	_ = cmd.Run(ctx, cfg, nil, nil, &outBuf, &errBuf)

	if strings.HasPrefix(outBuf.String(), "already logged in") {
		t.Error("should not say 'already logged in' without a recorded user")
	}
}

// TestLogoutCommand_RemovesTokenAndUser verifies logout keeps oauth_client.json
func TestLogoutCommand_RemovesTokenAndUser(t *testing.T) {
	cmd := &commands.LogoutCmd{}
	cfg := newConfig(t, false)

	writeFile(t, cfg.OAuthClientPath(), testOAuthClient)
	writeFile(t, cfg.TokenPath(), `{"access_token":"test","refresh_token":"test"}`)
	if err := cfg.SaveUser(config.User{ID: "u1"}); err != nil {
		t.Fatalf("failed to save user: %v", err)
	}

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if errBuf.String() != "" {
		t.Errorf("expected no stderr, got %q", errBuf.String())
	}
	if outBuf.String() != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", outBuf.String())
	}

	for _, path := range []string{cfg.TokenPath(), cfg.UserPath()} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("%s should have been deleted", filepath.Base(path))
		}
	}
	if _, err := os.Stat(cfg.OAuthClientPath()); err != nil {
		t.Error("oauth_client.json should NOT have been deleted")
	}
}

// TestLogoutCommand_NotLoggedIn verifies logout handles not being logged in
func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	cmd := &commands.LogoutCmd{}

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), newConfig(t, false), nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if errBuf.String() != "" {
		t.Errorf("expected no stderr, got %q", errBuf.String())
	}
	if outBuf.String() != "not logged in\n" {
		t.Errorf("expected 'not logged in\\n', got %q", outBuf.String())
	}
}

// TestLogoutCommand_NotLoggedInQuiet verifies logout is quiet when not logged in
func TestLogoutCommand_NotLoggedInQuiet(t *testing.T) {
	cmd := &commands.LogoutCmd{}

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), newConfig(t, true), nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if outBuf.String() != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", outBuf.String())
	}
}
