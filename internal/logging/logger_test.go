package logging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize_SilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	if err := Initialize("", ""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be a nop when no level is configured")
	}
}

func TestInitialize_FromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wolctl.log")
	t.Setenv(LogLevelEnvVar, "warn")
	if err := Initialize("", path); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer SetLogger(nil)

	if GetLogger().Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	Warn("failed to fetch machines")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "failed to fetch machines") {
		t.Errorf("log file missing message, got %q", string(data))
	}
}

func TestInitialize_UnknownLevel(t *testing.T) {
	if err := Initialize("loud", ""); err == nil {
		t.Error("Initialize() expected error for unknown level")
	}
}

func TestLogRequest(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	LogRequest("req-1", "POST", "/api/machines/wake", 200, time.Millisecond, nil)
	LogRequest("req-2", "GET", "/api/arp", 0, time.Millisecond, errors.New("connection refused"))

	if logs.Len() != 2 {
		t.Fatalf("got %d entries, want 2", logs.Len())
	}
	first := logs.All()[0].ContextMap()
	if first["request_id"] != "req-1" || first["path"] != "/api/machines/wake" {
		t.Errorf("unexpected fields: %v", first)
	}
	if _, ok := logs.All()[1].ContextMap()["error"]; !ok {
		t.Error("failed request should carry an error field")
	}
}
