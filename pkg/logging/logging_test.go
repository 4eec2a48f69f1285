package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/allansene/orchest/pkg/logging"
)

// These tests share the package's global logger state and must not run in
// parallel.

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    log.Level
		wantErr bool
	}{
		{"debug", log.DebugLevel, false},
		{"info", log.InfoLevel, false},
		{"", log.InfoLevel, false},
		{"warn", log.WarnLevel, false},
		{"warning", log.WarnLevel, false},
		{"error", log.ErrorLevel, false},
		{"ERROR", log.ErrorLevel, false},
		{"verbose", log.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestInit(t *testing.T) {
	t.Run("writes to the configured file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.log")
		if err := logging.Init(logging.Config{Level: "info", Path: path}); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		defer logging.Close()

		logging.Get("test-component").Info("hello", "key", "value")

		if err := logging.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "hello") {
			t.Errorf("log file missing message, got: %s", data)
		}
		if !strings.Contains(string(data), "test-component") {
			t.Errorf("log file missing component prefix, got: %s", data)
		}
	})

	t.Run("creates missing parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "test.log")
		if err := logging.Init(logging.Config{Level: "info", Path: path}); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		defer logging.Close()

		if _, err := os.Stat(path); err != nil {
			t.Errorf("log file not created: %v", err)
		}
	})

	t.Run("rejects an invalid level", func(t *testing.T) {
		err := logging.Init(logging.Config{Level: "loud", Path: filepath.Join(t.TempDir(), "x.log")})
		if err == nil {
			t.Error("Init() with invalid level should fail")
			logging.Close()
		}
	})

	t.Run("rewires loggers handed out before Init", func(t *testing.T) {
		early := logging.Get("early-component")

		path := filepath.Join(t.TempDir(), "early.log")
		if err := logging.Init(logging.Config{Level: "info", Path: path}); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		defer logging.Close()

		early.Info("after init")

		logging.Close()
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "after init") {
			t.Errorf("pre-Init logger not rewired, log: %s", data)
		}
	})

	t.Run("level filters messages", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "filtered.log")
		if err := logging.Init(logging.Config{Level: "warn", Path: path}); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		defer logging.Close()

		l := logging.Get("filter-component")
		l.Info("quiet message")
		l.Warn("loud message")

		logging.Close()
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if strings.Contains(string(data), "quiet message") {
			t.Error("info message logged at warn level")
		}
		if !strings.Contains(string(data), "loud message") {
			t.Error("warn message missing")
		}
	})
}

func TestGet(t *testing.T) {
	t.Run("is safe before Init", func(t *testing.T) {
		l := logging.Get("uninitialized")
		if l == nil {
			t.Fatal("Get() returned nil")
		}
		// Must not panic.
		l.Info("discarded")
	})

	t.Run("returns the same logger per component", func(t *testing.T) {
		a := logging.Get("same")
		b := logging.Get("same")
		if a != b {
			t.Error("Get() returned distinct loggers for one component")
		}
	})
}

func TestCloseIdempotent(t *testing.T) {
	if err := logging.Close(); err != nil {
		t.Fatalf("Close() on closed state error = %v", err)
	}
	if err := logging.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}
