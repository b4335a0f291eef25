package main

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/msomdec/microblog/internal/config"
)

func TestNewLogger_Multi(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := newLogger("multi", slog.LevelInfo, &stdout, &stderr)

	logger.Debug("hidden")
	logger.Info("hello", "k", "v")

	if strings.Contains(stdout.String(), "hidden") {
		t.Fatal("expected debug line to be filtered")
	}
	if !strings.Contains(stdout.String(), "msg=hello") {
		t.Fatalf("expected text line on stdout, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), `"msg":"hello"`) {
		t.Fatalf("expected JSON line on stderr, got %q", stderr.String())
	}
}

func TestNewLogger_SingleFormat(t *testing.T) {
	var stdout, stderr bytes.Buffer
	newLogger("text", slog.LevelDebug, &stdout, &stderr).Debug("only text")

	if stdout.Len() == 0 || stderr.Len() != 0 {
		t.Fatalf("expected text output only, got stdout %q stderr %q", stdout.String(), stderr.String())
	}
}

func TestOpenBackend_SQLite(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = filepath.Join(t.TempDir(), "main.db")

	db, err := openBackend(context.Background(), cfg)
	if err != nil {
		t.Fatalf("openBackend: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if _, err := db.Users().List(context.Background()); err != nil {
		t.Fatalf("List users: %v", err)
	}
}
