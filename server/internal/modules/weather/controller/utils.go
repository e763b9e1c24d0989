package controller

import (
	"net/http"
	"strconv"
	"time"

	"cloudpico/server/internal/modules/weather/types"
	"cloudpico/server/internal/utils"
	sharedtypes "cloudpico/shared/types"
	"cloudpico/shared/unit"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

type readingsQuery struct {
	from   time.Time
	to     time.Time
	limit  int
	offset int
	unit   unit.Kind
}

func parseReadingsQuery(r *http.Request) (readingsQuery, error) {
	q := r.URL.Query()
	var out readingsQuery
	var err error

	if s := q.Get("from"); s != "" {
		out.from, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return readingsQuery{}, utils.InvalidParam("from", "invalid 'from' (expected RFC3339)")
		}
	}
	if s := q.Get("to"); s != "" {
		out.to, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return readingsQuery{}, utils.InvalidParam("to", "invalid 'to' (expected RFC3339)")
		}
	}
	if !out.from.IsZero() && !out.to.IsZero() && out.from.After(out.to) {
		return readingsQuery{}, utils.InvalidParam("from", "'from' must be <= 'to'")
	}

	if out.limit, err = parseLimit(r); err != nil {
		return readingsQuery{}, err
	}

	if s := q.Get("offset"); s != "" {
		n, convErr := strconv.Atoi(s)
		if convErr != nil {
			return readingsQuery{}, utils.InvalidParam("offset", "invalid 'offset' (expected integer)")
		}
		if n < 0 {
			return readingsQuery{}, utils.InvalidParam("offset", "'offset' must be >= 0")
		}
		out.offset = n
	}

	if out.unit, err = parseUnit(r); err != nil {
		return readingsQuery{}, err
	}

	return out, nil
}

func parseLatestQuery(r *http.Request) (limit int, kind unit.Kind, err error) {
	if limit, err = parseLimit(r); err != nil {
		return 0, unit.KindCelsius, err
	}
	if kind, err = parseUnit(r); err != nil {
		return 0, unit.KindCelsius, err
	}
	return limit, kind, nil
}

func parseLimit(r *http.Request) (int, error) {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return defaultLimit, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, utils.InvalidParam("limit", "invalid 'limit' (expected integer)")
	}
	if n <= 0 {
		return 0, utils.InvalidParam("limit", "'limit' must be > 0")
	}
	if n > maxLimit {
		return 0, utils.InvalidParam("limit", "'limit' must be <= 1000")
	}
	return n, nil
}

// parseUnit reads the temperature unit of the response; Celsius by default.
func parseUnit(r *http.Request) (unit.Kind, error) {
	s := r.URL.Query().Get("unit")
	if s == "" {
		return unit.KindCelsius, nil
	}
	kind, err := unit.ParseKind(s)
	if err != nil {
		return unit.KindCelsius, utils.InvalidParam("unit", err.Error())
	}
	return kind, nil
}

// convertReadings reports the stored Celsius temperatures in kind. Readings
// without a temperature keep none.
func convertReadings(readings []types.Reading, kind unit.Kind) []types.Reading {
	for i := range readings {
		if t := readings[i].Temperature; t != nil && kind == unit.KindFahrenheit {
			f := sharedtypes.Widen(unit.Celsius(float32(*t)).Fahrenheit())
			readings[i].Temperature = &f
		}
		readings[i].Unit = kind.String()
	}
	return readings
}
