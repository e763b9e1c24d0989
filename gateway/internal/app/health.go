package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"cloudpico/gateway/internal/mqtt"
	"cloudpico/shared/types"
)

const healthInterval = 30 * time.Second

// stationsPublisher is the part of *mqtt.Client the gateway publishes through.
type stationsPublisher interface {
	PublishTelemetry(telemetry types.Telemetry) error
	PublishStationHealth(health mqtt.StationHealth) error
}

// healthTracker forwards telemetry and remembers when each station last
// reported. Run periodically publishes that state as retained health messages;
// a station is unhealthy once it has been silent for staleAfter.
type healthTracker struct {
	next       stationsPublisher
	logger     *slog.Logger
	interval   time.Duration
	staleAfter time.Duration
	now        func() time.Time

	mu       sync.Mutex
	lastSeen map[string]time.Time
}

func newHealthTracker(next stationsPublisher, logger *slog.Logger, interval time.Duration) *healthTracker {
	return &healthTracker{
		next:       next,
		logger:     logger,
		interval:   interval,
		staleAfter: 3 * interval,
		now:        time.Now,
		lastSeen:   make(map[string]time.Time),
	}
}

func (t *healthTracker) PublishTelemetry(telemetry types.Telemetry) error {
	if err := t.next.PublishTelemetry(telemetry); err != nil {
		return err
	}
	t.mu.Lock()
	t.lastSeen[telemetry.StationID] = t.now()
	t.mu.Unlock()
	return nil
}

func (t *healthTracker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.publishHealth()
		}
	}
}

func (t *healthTracker) publishHealth() {
	for _, health := range t.snapshot() {
		if err := t.next.PublishStationHealth(health); err != nil {
			t.logger.Debug("station health not published", "station_id", health.StationID, "error", err)
		}
	}
}

func (t *healthTracker) snapshot() []mqtt.StationHealth {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	out := make([]mqtt.StationHealth, 0, len(t.lastSeen))
	for id, seen := range t.lastSeen {
		out = append(out, mqtt.StationHealth{
			StationID: id,
			LastSeen:  seen,
			Healthy:   now.Sub(seen) <= t.staleAfter,
		})
	}
	return out
}
