package types

import "time"

type Station struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Reading is one stored observation. Temperature is reported in Unit ("C" or
// "F") and is nil when the station did not send one; HumidityPct and
// PressureHpa are 0 when missing.
type Reading struct {
	StationID   string    `json:"stationId"`
	Time        time.Time `json:"time"`
	Temperature *float64  `json:"temperature,omitempty"`
	Unit        string    `json:"unit"`
	HumidityPct float64   `json:"humidityPct"`
	PressureHpa float64   `json:"pressureHpa"`

	AbsoluteHumidity *float64 `json:"absoluteHumidityGm3,omitempty"`
	Altitude         *float64 `json:"altitudeM,omitempty"`
}
