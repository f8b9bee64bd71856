package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	err := Init(Config{ConfigDir: configDir})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Warn("rollover failed", "error", "disk full")

	data, err := os.ReadFile(LogPath(configDir))
	if err != nil {
		t.Fatalf("log file was not written: %v", err)
	}
	if !strings.Contains(string(data), "rollover failed") {
		t.Errorf("log file missing warning, got %q", string(data))
	}
}

func TestInitSuppressesInfoByDefault(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	Info("alarm restored")

	data, _ := os.ReadFile(LogPath(configDir))
	if strings.Contains(string(data), "alarm restored") {
		t.Error("info message should not be written below warn level")
	}
}

func TestInitForeground(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	if err := Init(Config{ConfigDir: configDir, Foreground: true}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if Logger.GetLevel() != log.InfoLevel {
		t.Errorf("expected info level in foreground mode, got %v", Logger.GetLevel())
	}
}

func TestInitDebugMode(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	if err := Init(Config{Debug: true, ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	if Logger.GetLevel() != log.DebugLevel {
		t.Errorf("expected debug level, got %v", Logger.GetLevel())
	}
}

func TestUseWriter(t *testing.T) {
	var buf bytes.Buffer
	UseWriter(&buf, log.DebugLevel)

	Debug("created daily state", "schedule_id", 3)

	if !strings.Contains(buf.String(), "created daily state") {
		t.Errorf("expected captured output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "schedule_id=3") {
		t.Errorf("expected key/value pair in output, got %q", buf.String())
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	Debug("reconciled alarms")
	Info("alarm delivered", "name", "wake")
	Warn("alarm delivery failed")
	Error("rollover failed")
}
