package ble

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"cloudpico/gateway/internal/utils"
	"cloudpico/shared/types"
)

const bleDedupMaxIDsPerDevice = 500

// Publisher sends telemetry upstream. *mqtt.Client satisfies it.
type Publisher interface {
	PublishTelemetry(telemetry types.Telemetry) error
}

// SensorHandler turns Pico BLE advertisements into telemetry. Pico sensors
// repeat every advertisement several times, so readings are deduplicated per
// device by reading ID.
type SensorHandler struct {
	publisher Publisher
	stationID string
	now       func() time.Time

	dedupMu sync.Mutex
	seen    map[string]map[uint32]struct{}
}

func NewSensorHandler(publisher Publisher, stationID string) *SensorHandler {
	return &SensorHandler{
		publisher: publisher,
		stationID: stationID,
		now:       time.Now,
		seen:      make(map[string]map[uint32]struct{}),
	}
}

// HandleMatch parses a BLE match, drops repeats and publishes the reading.
func (h *SensorHandler) HandleMatch(m Match) {
	sr, err := ParseSensorPayload(m.Data)
	if err != nil {
		slog.Debug("ble: ignore non-sensor payload", "addr", m.Address, "error", err)
		return
	}

	if !h.markSeen(m.Address, sr.ReadingID) {
		return
	}

	telemetry := h.telemetryFrom(*sr, m.SeenAt)
	if err := h.publisher.PublishTelemetry(telemetry); err != nil {
		slog.Warn("ble: failed to publish telemetry", "addr", m.Address, "reading_id", sr.ReadingID, "error", err)
		return
	}

	attrs := []any{
		"addr", m.Address,
		"device_id", sr.DeviceID,
		"reading_id", sr.ReadingID,
		"rssi", m.RSSI,
		"T", sr.Temperature, "P", sr.Pressure, "H", sr.Humidity,
		"data", utils.BytesToHex(m.Data),
	}
	if telemetry.AbsoluteHumidity != nil {
		attrs = append(attrs, "AH", *telemetry.AbsoluteHumidity)
	}
	if telemetry.Altitude != nil {
		attrs = append(attrs, "alt", *telemetry.Altitude)
	}
	slog.Info("ble: sensor reading published", attrs...)
}

// markSeen records readingID for addr and reports whether it was new.
func (h *SensorHandler) markSeen(addr string, readingID uint32) bool {
	h.dedupMu.Lock()
	defer h.dedupMu.Unlock()

	ids := h.seen[addr]
	if ids == nil {
		ids = make(map[uint32]struct{})
		h.seen[addr] = ids
	}
	if _, ok := ids[readingID]; ok {
		return false
	}
	ids[readingID] = struct{}{}
	if len(ids) > bleDedupMaxIDsPerDevice {
		h.seen[addr] = map[uint32]struct{}{readingID: {}}
	}
	return true
}

func (h *SensorHandler) telemetryFrom(sr SensorReading, seenAt time.Time) types.Telemetry {
	if seenAt.IsZero() {
		seenAt = h.now()
	}
	temp := float64(sr.Temperature)
	hum := float64(sr.Humidity)
	press := float64(sr.Pressure)
	seq := int(sr.ReadingID)

	telemetry := types.Telemetry{
		StationID:   h.stationID,
		Timestamp:   seenAt,
		Temperature: &temp,
		Humidity:    &hum,
		Pressure:    &press,
		Sequence:    &seq,
	}
	telemetry.Derive()
	return telemetry
}

// StartListener runs listener in the background. A listener that fails to
// start is logged and the gateway keeps running without BLE.
func (h *SensorHandler) StartListener(ctx context.Context, listener *Listener) {
	go func() {
		err := listener.Run(ctx, h.HandleMatch)
		if err != nil {
			slog.Warn("ble listener could not be initialized; gateway continues without BLE",
				"error", err,
			)
		}
	}()
}
