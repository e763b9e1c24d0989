package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var got map[string]any
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	return got
}

func TestWriteError(t *testing.T) {
	t.Run("plain error", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, http.StatusInternalServerError, errors.New("database is locked"))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Code = %d; want %d", w.Code, http.StatusInternalServerError)
		}
		got := decodeBody(t, w)
		if got["error"] != "Internal Server Error" || got["message"] != "database is locked" {
			t.Errorf("body = %v", got)
		}
		if _, ok := got["param"]; ok {
			t.Errorf("param = %v; want absent", got["param"])
		}
	})

	t.Run("param error names the parameter", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := fmt.Errorf("readings query: %w", InvalidParam("limit", "'limit' must be <= 1000"))
		WriteError(w, http.StatusBadRequest, err)

		got := decodeBody(t, w)
		if got["param"] != "limit" {
			t.Errorf("param = %v; want limit", got["param"])
		}
		if got["message"] != "readings query: 'limit' must be <= 1000" {
			t.Errorf("message = %v", got["message"])
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
			t.Errorf("Content-Type = %q", ct)
		}
	})
}

func TestWriteList(t *testing.T) {
	tests := []struct {
		name      string
		items     []int
		total     int
		wantBody  string
		wantCount string
	}{
		{name: "nil items encode as empty array", items: nil, total: 0, wantBody: "[]", wantCount: "0"},
		{name: "page with total", items: []int{3, 4}, total: 42, wantBody: "[3,4]", wantCount: "42"},
		{name: "unknown total", items: []int{1}, total: -1, wantBody: "[1]", wantCount: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteList(w, tt.items, tt.total)

			if w.Code != http.StatusOK {
				t.Errorf("Code = %d; want %d", w.Code, http.StatusOK)
			}
			if body := strings.TrimSpace(w.Body.String()); body != tt.wantBody {
				t.Errorf("body = %q; want %q", body, tt.wantBody)
			}
			if got := w.Header().Get("X-Total-Count"); got != tt.wantCount {
				t.Errorf("X-Total-Count = %q; want %q", got, tt.wantCount)
			}
		})
	}
}
