package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/copychecker/internal/config"
	"github.com/nao1215/copychecker/internal/page"
)

// TestNewServeCmd tests the serve command flags.
func TestNewServeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewServeCmd()

	flag := cmd.Flags().Lookup("addr")
	if flag == nil {
		t.Fatal("expected addr flag")
	}
	if flag.DefValue != config.DefaultServeAddr {
		t.Errorf("expected default %q, got %q", config.DefaultServeAddr, flag.DefValue)
	}
	if cmd.Flags().Lookup("config") == nil {
		t.Error("expected config flag")
	}
}

// TestRunServeCmd_Errors tests that bad configuration stops the server
// before it listens.
func TestRunServeCmd_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unexpected argument", func(t *testing.T) {
		t.Parallel()
		if _, _, err := execute(t, "serve", "extra"); err == nil {
			t.Error("expected an error for an argument")
		}
	})

	t.Run("missing config file", func(t *testing.T) {
		t.Parallel()
		_, _, err := execute(t, "serve", "-c", t.TempDir()+"/none.yaml")
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

// TestNewEngine_LocalFiles tests that only the scan engine reads local files.
func TestNewEngine_LocalFiles(t *testing.T) {
	t.Parallel()

	index := filepath.Join(t.TempDir(), "index.html")
	if err := os.WriteFile(index, []byte(`<p>local text</p>`), 0o600); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name       string
		localFiles bool
		wantErr    error
	}{
		{"scan", true, nil},
		{"serve", false, page.ErrUnsupportedScheme},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			eng, err := newEngine(config.NewConfig(), slog.New(slog.DiscardHandler), nil, tc.localFiles)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			_, err = eng.loader.Load(context.Background(), index)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
