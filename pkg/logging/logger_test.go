package logging

import (
	"os"
	"strings"
	"sync"
	"testing"
)

// setupTestDir points the package at a temp log directory and resets
// global state, returning a cleanup function.
func setupTestDir(t *testing.T) func() {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "abrasio-logging-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	origLogDir := logDir
	origInitErr := initErr
	origRunID := runID

	logDir = tempDir
	initErr = nil
	initOnce = sync.Once{}
	initOnce.Do(func() {}) // mark initialized so NewLogger uses tempDir
	runID = ""
	runIDOnce = sync.Once{}

	return func() {
		logDir = origLogDir
		initErr = origInitErr
		// Reset to fresh Once values; copying a used sync.Once trips
		// vet's copylocks check.
		initOnce = sync.Once{}
		runID = origRunID
		runIDOnce = sync.Once{}
		os.RemoveAll(tempDir)
	}
}

func TestNewLogger(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	logger, err := NewLogger("test-component")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	if logger.component != "test-component" {
		t.Errorf("Expected component 'test-component', got %q", logger.component)
	}

	if logger.RunID() == "" {
		t.Error("Expected non-empty run ID")
	}

	if logger.LogPath() == "" {
		t.Error("Expected non-empty log path")
	}

	if _, err := os.Stat(logger.LogPath()); os.IsNotExist(err) {
		t.Errorf("Log file does not exist at %s", logger.LogPath())
	}
}

func TestLoggerLevels(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	logger, err := NewLogger("levels")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	logger.Debugf("debug %d", 1)
	logger.Infof("info %d", 2)
	logger.Warnf("warn %d", 3)
	logger.Errorf("error %d", 4)
	logger.Close()

	content, err := os.ReadFile(logger.LogPath())
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	text := string(content)
	for _, want := range []string{
		"[DEBUG] debug 1",
		"[INFO] info 2",
		"[WARN] warn 3",
		"[ERROR] error 4",
		"[levels]",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Log output missing %q:\n%s", want, text)
		}
	}
}

func TestSharedRunID(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	a, _ := NewLogger("component-a")
	defer a.Close()
	b, _ := NewLogger("component-b")
	defer b.Close()

	if a.RunID() != b.RunID() {
		t.Errorf("Expected shared run ID, got %q and %q", a.RunID(), b.RunID())
	}
	if a.LogPath() != b.LogPath() {
		t.Errorf("Expected shared log file, got %q and %q", a.LogPath(), b.LogPath())
	}
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	// Must not panic or create files.
	logger.Debugf("discarded")
	logger.Errorf("discarded too")

	if logger.LogPath() != "" {
		t.Errorf("Nop logger should have no log path, got %q", logger.LogPath())
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Nop logger close failed: %v", err)
	}
}
