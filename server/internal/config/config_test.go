package config

import (
	"log/slog"
	"testing"
	"time"
)

var envKeys = []string{
	"APP_ENV", "LOG_LEVEL", "HTTP_ADDR",
	"DB_DRIVER", "DB_DSN", "SQLITE_PATH",
	"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_LOG_SQL",
	"MQTT_BROKER", "MQTT_PORT", "MQTT_CLIENT_ID", "MQTT_TOPIC",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}

	want := Config{
		AppEnv:                "dev",
		LogLevel:              slog.LevelInfo,
		HTTPAddr:              ":8080",
		SQLiteDriver:          "sqlite3",
		SQLitePath:            "../dev/sqlite/app.db",
		SQLiteMaxOpenConns:    1,
		SQLiteMaxIdleConns:    1,
		SQLiteConnMaxLifetime: 0,
		MQTTBroker:            "localhost",
		MQTTPort:              1883,
		MQTTClientID:          "cloudpico-server",
		MQTTTopic:             "stations/+/telemetry",
	}
	if got != want {
		t.Errorf("LoadFromEnv() = %+v, want %+v", got, want)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP_ADDR", "  127.0.0.1:9090 ")
	t.Setenv("DB_DSN", "file::memory:?cache=shared")
	t.Setenv("DB_MAX_OPEN_CONNS", "4")
	t.Setenv("DB_MAX_IDLE_CONNS", "2")
	t.Setenv("DB_CONN_MAX_LIFETIME", "5m")
	t.Setenv("DB_LOG_SQL", "true")
	t.Setenv("MQTT_BROKER", "mosquitto")
	t.Setenv("MQTT_PORT", "8883")
	t.Setenv("MQTT_TOPIC", "stations/outdoor/telemetry")

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}

	if got.AppEnv != "prod" || got.LogLevel != slog.LevelDebug || got.HTTPAddr != "127.0.0.1:9090" {
		t.Errorf("app settings = %q/%v/%q", got.AppEnv, got.LogLevel, got.HTTPAddr)
	}
	if got.SQLiteDSN != "file::memory:?cache=shared" {
		t.Errorf("SQLiteDSN = %q", got.SQLiteDSN)
	}
	if got.SQLiteMaxOpenConns != 4 || got.SQLiteMaxIdleConns != 2 {
		t.Errorf("pool = %d/%d, want 4/2", got.SQLiteMaxOpenConns, got.SQLiteMaxIdleConns)
	}
	if got.SQLiteConnMaxLifetime != 5*time.Minute {
		t.Errorf("SQLiteConnMaxLifetime = %v, want 5m", got.SQLiteConnMaxLifetime)
	}
	if !got.SQLiteLogSQL {
		t.Error("SQLiteLogSQL = false, want true")
	}
	if got.MQTTBroker != "mosquitto" || got.MQTTPort != 8883 || got.MQTTTopic != "stations/outdoor/telemetry" {
		t.Errorf("mqtt = %q:%d %q", got.MQTTBroker, got.MQTTPort, got.MQTTTopic)
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "app env", key: "APP_ENV", value: "staging"},
		{name: "uppercase app env", key: "APP_ENV", value: "DEV"},
		{name: "log level", key: "LOG_LEVEL", value: "loud"},
		{name: "max open conns", key: "DB_MAX_OPEN_CONNS", value: "many"},
		{name: "max idle conns", key: "DB_MAX_IDLE_CONNS", value: "1.5"},
		{name: "conn max lifetime", key: "DB_CONN_MAX_LIFETIME", value: "forever"},
		{name: "log sql", key: "DB_LOG_SQL", value: "sometimes"},
		{name: "mqtt port not a number", key: "MQTT_PORT", value: "http"},
		{name: "mqtt port out of range", key: "MQTT_PORT", value: "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := LoadFromEnv(); err == nil {
				t.Fatalf("LoadFromEnv() with %s=%q error = nil, want non-nil", tt.key, tt.value)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "info", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "DeBuG", want: slog.LevelDebug},
		{in: "  warn \n", want: slog.LevelWarn},
		{in: "", want: slog.LevelInfo, wantErr: true},
		{in: "warns", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
