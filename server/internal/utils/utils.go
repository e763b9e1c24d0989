// Package utils holds the JSON response helpers shared by the HTTP handlers.
package utils

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
)

// ParamError rejects a single query parameter.
type ParamError struct {
	Param   string
	Message string
}

func (e *ParamError) Error() string {
	return e.Message
}

// InvalidParam returns a *ParamError for param.
func InvalidParam(param, message string) error {
	return &ParamError{Param: param, Message: message}
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write JSON", "status", status, "error", err)
	}
}

// WriteError writes {"error", "message"} and, for a *ParamError anywhere in
// err's chain, the offending "param".
func WriteError(w http.ResponseWriter, status int, err error) {
	body := map[string]any{
		"error":   http.StatusText(status),
		"message": err.Error(),
	}
	var pe *ParamError
	if errors.As(err, &pe) {
		body["param"] = pe.Param
	}
	WriteJSON(w, status, body)
}

// WriteList writes items as a JSON array, never null. A non-negative total is
// sent in X-Total-Count.
func WriteList[T any](w http.ResponseWriter, items []T, total int) {
	if items == nil {
		items = []T{}
	}
	if total >= 0 {
		w.Header().Set("X-Total-Count", strconv.Itoa(total))
	}
	WriteJSON(w, http.StatusOK, items)
}
