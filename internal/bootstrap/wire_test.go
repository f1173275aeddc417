package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"carecoord/internal/domain"
)

type noopSink struct{}

func (noopSink) StateChanged(domain.StateReason)       {}
func (noopSink) SessionError(domain.ErrorCode, string) {}

type noopClipboard struct{}

func (noopClipboard) SetText(context.Context, string) error { return nil }

func TestBuildAssemblesController(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CARECOORD_RULES_FILE", "")
	t.Setenv("CARECOORD_API_BASE", "http://localhost:5999")

	services, err := Build(noopSink{}, noopClipboard{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if services.Controller == nil {
		t.Fatalf("controller not assembled")
	}
	if services.Config.API.BaseURL != "http://localhost:5999" {
		t.Fatalf("config not threaded: %q", services.Config.API.BaseURL)
	}
}

func TestBuildFailsOnInvalidRulesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "bad.rules")
	if err := os.WriteFile(path, []byte("not a rule\n"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	t.Setenv("CARECOORD_RULES_FILE", path)

	if _, err := Build(noopSink{}, noopClipboard{}); err == nil {
		t.Fatalf("expected rules parse failure")
	}
}
