package db

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"testing"
)

// captureHandler records log records for assertion in tests.
type captureHandler struct {
	mu    sync.Mutex
	attrs []map[string]slog.Value
}

func (h *captureHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := map[string]slog.Value{"msg": slog.StringValue(r.Message)}
	r.Attrs(func(a slog.Attr) bool {
		m[a.Key] = a.Value
		return true
	})
	h.attrs = append(h.attrs, m)
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *captureHandler) WithGroup(string) slog.Handler { return h }

func (h *captureHandler) last(t *testing.T) map[string]slog.Value {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.attrs) - 1; i >= 0; i-- {
		if h.attrs[i]["msg"].String() == "sql" {
			return h.attrs[i]
		}
	}
	t.Fatal("no sql log record")
	return nil
}

func openLogged(t *testing.T) (*sql.DB, *captureHandler) {
	t.Helper()
	handler := &captureHandler{}
	db := sql.OpenDB(NewLoggingConnector(":memory:", slog.New(handler)))
	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db, handler
}

func TestNewLoggingConnector_NilLoggerUsesDefault(t *testing.T) {
	c := NewLoggingConnector(":memory:", nil).(*loggingConnector)
	if c.logger != slog.Default() {
		t.Fatal("nil logger did not fall back to slog.Default()")
	}
}

func TestLoggingConnector_ExecLogged(t *testing.T) {
	db, handler := openLogged(t)

	if _, err := db.Exec(`CREATE TABLE t (id INTEGER, name TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO t (id, name) VALUES (?, ?)`, 1, nil); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got := handler.last(t)
	if got["op"].String() != "exec" {
		t.Errorf("op = %q, want exec", got["op"].String())
	}
	if got["sql"].String() != `INSERT INTO t (id, name) VALUES (?, ?)` {
		t.Errorf("sql = %q", got["sql"].String())
	}
	args, ok := got["args"].Any().([]string)
	if !ok || len(args) != 2 || args[0] != "1" || args[1] != "NULL" {
		t.Errorf("args = %v, want [1 NULL]", got["args"].Any())
	}
	if _, ok := got["duration_ms"]; !ok {
		t.Error("duration_ms missing")
	}
}

func TestLoggingConnector_QueryLogged(t *testing.T) {
	db, handler := openLogged(t)

	var one int
	if err := db.QueryRow(`SELECT 1`).Scan(&one); err != nil {
		t.Fatalf("query row: %v", err)
	}

	got := handler.last(t)
	if got["op"].String() != "query" || got["sql"].String() != `SELECT 1` {
		t.Errorf("record = op %q sql %q, want query SELECT 1", got["op"].String(), got["sql"].String())
	}
}

func TestLoggingConnector_ErrorLogged(t *testing.T) {
	db, handler := openLogged(t)

	if _, err := db.Exec(`CREATE TABLE t (id INTEGER PRIMARY KEY)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO t (id) VALUES (1)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO t (id) VALUES (1)`); err == nil {
		t.Fatal("duplicate insert succeeded")
	}

	if _, ok := handler.last(t)["error"]; !ok {
		t.Error("error attr missing on failed exec")
	}
}

func TestLoggingConnector_Transaction(t *testing.T) {
	db, _ := openLogged(t)

	if _, err := db.Exec(`CREATE TABLE t (id INTEGER)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := tx.Exec(`INSERT INTO t (id) VALUES (1)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("rows after rollback = %d, want 0", n)
	}
}
