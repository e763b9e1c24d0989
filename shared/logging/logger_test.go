package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_ProdWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, slog.LevelInfo, "prod", "1.2.3", "cloudpico-gateway")

	logger.Info("published telemetry", "station_id", "home")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	want := map[string]string{
		"msg":        "published telemetry",
		"app":        "cloudpico-gateway",
		"version":    "1.2.3",
		"env":        "prod",
		"station_id": "home",
	}
	for k, v := range want {
		if rec[k] != v {
			t.Errorf("%s = %v; want %q", k, rec[k], v)
		}
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, slog.LevelWarn, "prod", "1.2.3", "cloudpico-server")

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info record written at warn level: %q", buf.String())
	}
	logger.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("warn record missing: %q", buf.String())
	}
}

func TestNew_DevUsesTint(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, slog.LevelDebug, "dev", "dev", "cloudpico-server")

	logger.Debug("sensor reading", "T", 21.5)
	out := buf.String()
	if !strings.Contains(out, "sensor reading") || !strings.Contains(out, "cloudpico-server") {
		t.Errorf("tint output = %q; want message and app attr", out)
	}
	if json.Valid(bytes.TrimSpace(buf.Bytes())) {
		t.Errorf("dev output should not be JSON: %q", out)
	}
}
