package httpapi

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"cloudpico/server/internal/config"
)

type fakeBroker struct{ connected bool }

func (f fakeBroker) IsConnected() bool { return f.connected }

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:"+filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func getHealthz(t *testing.T, handler http.Handler) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	return rec, body
}

func TestHealthz(t *testing.T) {
	tests := []struct {
		name     string
		broker   BrokerStatus
		wantMQTT string
	}{
		{name: "broker connected", broker: fakeBroker{connected: true}, wantMQTT: "connected"},
		{name: "broker down", broker: fakeBroker{connected: false}, wantMQTT: "disconnected"},
		{name: "no broker", broker: nil, wantMQTT: "disabled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := getHealthz(t, NewMux(openTestDB(t), tt.broker))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
			}
			if body["status"] != "ok" {
				t.Errorf("status = %q; want ok", body["status"])
			}
			if body["mqtt"] != tt.wantMQTT {
				t.Errorf("mqtt = %q; want %q", body["mqtt"], tt.wantMQTT)
			}
		})
	}
}

func TestHealthz_DatabaseClosed(t *testing.T) {
	db := openTestDB(t)
	mux := NewMux(db, nil)
	_ = db.Close()

	rec, body := getHealthz(t, mux)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
	}
	if body["message"] != "failed to check database connectivity" {
		t.Errorf("message = %q", body["message"])
	}
}

func TestNewServer_LogsRequests(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /teapot", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	srv := NewServer(config.Config{HTTPAddr: "127.0.0.1:0"}, mux, logger)

	if srv.Addr != "127.0.0.1:0" {
		t.Errorf("Addr = %q; want 127.0.0.1:0", srv.Addr)
	}

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot?x=1", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusTeapot)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["msg"] != "http request" || entry["path"] != "/teapot" || entry["query"] != "x=1" {
		t.Errorf("log entry = %v", entry)
	}
	if status, _ := entry["status"].(float64); status != http.StatusTeapot {
		t.Errorf("logged status = %v; want %d", entry["status"], http.StatusTeapot)
	}
}

func TestRequestLogger_DefaultStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	h := requestLogger(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(buf.String(), "status=200") {
		t.Errorf("log = %q; want status=200", buf.String())
	}
}
