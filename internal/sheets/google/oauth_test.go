package google

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

const testOAuthClient = `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"],"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token"}}`

func TestReadOAuthClient(t *testing.T) {
	if _, err := ReadOAuthClient("", ""); err == nil {
		t.Fatal("expected error without a client")
	}

	b, err := ReadOAuthClient("  "+testOAuthClient+" ", "/does/not/matter")
	if err != nil {
		t.Fatalf("inline client: %v", err)
	}
	if string(b) != testOAuthClient {
		t.Errorf("inline JSON not trimmed: %q", b)
	}

	path := filepath.Join(t.TempDir(), "client.json")
	if err := os.WriteFile(path, []byte(testOAuthClient), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadOAuthClient("", path); err != nil {
		t.Fatalf("client file: %v", err)
	}
	if _, err := ReadOAuthClient("", path+".missing"); err == nil {
		t.Error("expected error for a missing client file")
	}
}

func TestOAuthConfig(t *testing.T) {
	cfg, err := OAuthConfig([]byte(testOAuthClient), "http://localhost:8085/callback")
	if err != nil {
		t.Fatalf("OAuthConfig: %v", err)
	}
	if cfg.RedirectURL != "http://localhost:8085/callback" {
		t.Errorf("redirect URL = %q", cfg.RedirectURL)
	}
	if len(cfg.Scopes) != 1 || !strings.Contains(cfg.Scopes[0], "spreadsheets") {
		t.Errorf("scopes = %v", cfg.Scopes)
	}

	if _, err := OAuthConfig([]byte("invalid-json"), ""); err == nil || !strings.Contains(err.Error(), "oauth config") {
		t.Errorf("expected oauth config error, got %v", err)
	}
}

func TestSaveAndLoadToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	want := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := SaveToken(path, want); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}

	got, err := LoadToken(path)
	if err != nil {
		t.Fatalf("LoadToken: %v", err)
	}
	if got.AccessToken != want.AccessToken || got.RefreshToken != want.RefreshToken || !got.Expiry.Equal(want.Expiry) {
		t.Errorf("LoadToken = %+v, want %+v", got, want)
	}
}

func TestLoadToken_Invalid(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"garbage.json": "{not json",
		"empty.json":   `{"token_type":"Bearer"}`,
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadToken(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if _, err := LoadToken(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for a missing token file")
	}
}

func TestNew_OAuthTokenWithoutClient(t *testing.T) {
	_, err := New(context.Background(), Config{
		SpreadsheetID:  testSpreadsheet,
		OAuthTokenFile: filepath.Join(t.TempDir(), "token.json"),
	})
	if err == nil || !strings.Contains(err.Error(), "missing oauth client") {
		t.Errorf("expected missing oauth client error, got %v", err)
	}
}
