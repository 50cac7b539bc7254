package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nathoo/grandline/engine"
)

func TestParseArgs(t *testing.T) {
	opts, err := parseArgs([]string{"--plain", "--trace", "content/east_blue", "--script", "play.txt", "extra"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	want := options{plain: true, trace: true, contentDir: "content/east_blue", scriptFile: "play.txt"}
	if opts != want {
		t.Errorf("opts = %+v, want %+v", opts, want)
	}

	if _, err := parseArgs([]string{"--script"}); err == nil {
		t.Error("expected error for --script without a path")
	}
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"--version"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(out.String(), "grandline dev") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRun_BadContentDir(t *testing.T) {
	err := run(context.Background(), []string{filepath.Join(t.TempDir(), "missing")}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "loading content") {
		t.Fatalf("expected content error, got %v", err)
	}
}

// A failed run must release the database files so the next one can open them.
func TestRun_ClosesStoresOnError(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GRANDLINE_PLAYER_DB", filepath.Join(dir, "players.db"))
	t.Setenv("GRANDLINE_SESSION_DB", filepath.Join(dir, "sessions.db"))
	t.Setenv("GRANDLINE_SEED", "11")

	err := run(context.Background(), []string{"--script", filepath.Join(dir, "missing.txt")}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "opening script") {
		t.Fatalf("expected script error, got %v", err)
	}

	script := filepath.Join(dir, "play.txt")
	if err := os.WriteFile(script, []byte("status\n/quit\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := run(context.Background(), []string{"--script", script}, &out); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !strings.Contains(out.String(), "Fair winds.") {
		t.Errorf("expected script to finish, got:\n%s", out.String())
	}
}

func TestNewRNG_ResumesSeededStream(t *testing.T) {
	orig := engine.NewRNG(9)
	for i := 0; i < 7; i++ {
		orig.UniformInt(1, 37)
	}

	resumed := newRNG(9, orig.Position())
	for i := 0; i < 10; i++ {
		if a, b := orig.Roll(100), resumed.Roll(100); a != b {
			t.Fatalf("roll %d: got %d and %d", i, a, b)
		}
	}
}

func TestNewRNG_RandomSeedWhenUnset(t *testing.T) {
	r := newRNG(0, 50)
	if r.Seed() == 0 {
		t.Error("expected a random non-zero seed")
	}
	if r.Position() != 0 {
		t.Errorf("position = %d, want 0 for a fresh seed", r.Position())
	}
}
