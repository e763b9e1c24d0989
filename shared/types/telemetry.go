package types

import (
	"math"
	"strconv"
	"time"

	"cloudpico/shared/meteo"
	"cloudpico/shared/unit"
)

// Telemetry represents a telemetry message from a weather station
type Telemetry struct {
	StationID   string    `json:"station_id"`
	Timestamp   time.Time `json:"timestamp"`
	Temperature *float64  `json:"temperature_c,omitempty"`
	Humidity    *float64  `json:"humidity_pct,omitempty"`
	Pressure    *float64  `json:"pressure_hpa,omitempty"`
	Battery     *float64  `json:"battery_v,omitempty"`
	Sequence    *int      `json:"sequence,omitempty"`

	// Derived from the readings above, see Derive.
	AbsoluteHumidity *float64 `json:"absolute_humidity_gm3,omitempty"`
	Altitude         *float64 `json:"altitude_m,omitempty"`
}

// Derive fills AbsoluteHumidity and Altitude from the raw readings when they are
// present and the derived field is not already set. Results that are not finite
// (e.g. from a zero pressure) are dropped.
func (t *Telemetry) Derive() {
	if t.Temperature == nil {
		return
	}
	temperature := unit.Celsius(*t.Temperature)

	if t.AbsoluteHumidity == nil && t.Humidity != nil {
		m := meteo.NewTemperatureAndRelativeHumidity(temperature, float32(*t.Humidity))
		t.AbsoluteHumidity = finite(m.AbsoluteHumidity())
	}
	if t.Altitude == nil && t.Pressure != nil {
		m := meteo.NewTemperatureAndBarometricPressure(temperature, float32(*t.Pressure))
		t.Altitude = finite(m.Altitude())
	}
}

func finite(v float32) *float64 {
	f := Widen(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Widen converts v to float64 through its shortest decimal form, so 188.46
// stays 188.46 in JSON instead of 188.4600067138672.
func Widen(v float32) float64 {
	f, err := strconv.ParseFloat(strconv.FormatFloat(float64(v), 'g', -1, 32), 64)
	if err != nil {
		return float64(v)
	}
	return f
}
