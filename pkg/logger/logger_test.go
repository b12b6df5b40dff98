package logger

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/config"
)

func TestLoggerFunctions_NoNilPointers(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Logger function panicked: %v", r)
		}
	}()

	logger = nil
	Debug("test debug", "key", "value")
	Info("test info", "key", "value")
	Warn("test warn", "key", "value")
	Error("test error", "key", "value")
}

func TestSetOutput_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, log.InfoLevel)

	Debug("hidden debug line")
	Info("refresh finished", "seq", 3)

	out := buf.String()
	if strings.Contains(out, "hidden debug line") {
		t.Error("debug output should be filtered at info level")
	}
	if !strings.Contains(out, "refresh finished") || !strings.Contains(out, "seq=3") {
		t.Errorf("expected structured info line, got %q", out)
	}
}

func TestInit_VerboseEnablesDebug(t *testing.T) {
	dir := t.TempDir()
	if err := config.Init(filepath.Join(dir, "config.toml")); err != nil {
		t.Fatalf("config init: %v", err)
	}

	Init(true)
	if GetLogger() == nil {
		t.Fatal("logger should be initialized")
	}
	if GetLogger().GetLevel() != log.DebugLevel {
		t.Errorf("expected debug level, got %v", GetLogger().GetLevel())
	}

	Init(false)
	if GetLogger().GetLevel() != log.InfoLevel {
		t.Errorf("expected info level, got %v", GetLogger().GetLevel())
	}
}

func TestInit_LevelFromConfig(t *testing.T) {
	dir := t.TempDir()
	if err := config.Init(filepath.Join(dir, "config.toml")); err != nil {
		t.Fatalf("config init: %v", err)
	}
	config.Set("log.level", "warn")

	Init(false)
	if GetLogger().GetLevel() != log.WarnLevel {
		t.Errorf("expected warn level, got %v", GetLogger().GetLevel())
	}
}
