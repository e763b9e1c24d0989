package sensor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloudpico/gateway/internal/config"
	"cloudpico/shared/types"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"
)

// Publisher sends telemetry upstream.
type Publisher interface {
	PublishTelemetry(telemetry types.Telemetry) error
}

// Run polls the BME280 wired to the gateway's I2C bus every
// cfg.SensorPollInterval until ctx is done. A failed publish is logged and the
// next poll goes ahead; a failing sensor stops the loop.
func Run(ctx context.Context, cfg config.Config, publisher Publisher) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("host init: %w", err)
	}

	bus, err := i2creg.Open("") // default bus, usually /dev/i2c-1
	if err != nil {
		return fmt.Errorf("open i2c bus: %w", err)
	}
	defer bus.Close()

	dev, err := bmxx80.NewI2C(bus, cfg.BME280Address, &bmxx80.DefaultOpts)
	if err != nil {
		return fmt.Errorf("bme280 at %#x: %w", cfg.BME280Address, err)
	}
	defer dev.Halt()

	slog.Info("sensor: bme280 ready",
		"addr", fmt.Sprintf("%#x", cfg.BME280Address),
		"interval", cfg.SensorPollInterval,
		"station_id", cfg.DeviceStationID,
	)

	ticker := time.NewTicker(cfg.SensorPollInterval)
	defer ticker.Stop()

	sequence := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			var env physic.Env
			if err := dev.Sense(&env); err != nil {
				return fmt.Errorf("sense: %w", err)
			}

			sequence++
			telemetry := TelemetryFromEnv(cfg.DeviceStationID, env, sequence, time.Now())
			if err := publisher.PublishTelemetry(telemetry); err != nil {
				slog.Warn("sensor: failed to publish telemetry", "sequence", sequence, "error", err)
				continue
			}
			slog.Debug("sensor: reading published",
				"sequence", sequence,
				"T", *telemetry.Temperature, "P", *telemetry.Pressure, "H", *telemetry.Humidity,
			)
		}
	}
}

// TelemetryFromEnv converts a periph environment reading into telemetry with
// derived values filled in.
func TelemetryFromEnv(stationID string, env physic.Env, sequence int, at time.Time) types.Telemetry {
	temperature := env.Temperature.Celsius()

	// env.Humidity is stored as an int32 fixed point integer at a precision
	// of 0.00001%rH.
	humidity := float64(env.Humidity) / float64(physic.PercentRH)

	// env.Pressure is stored as an int64 nano Pascal.
	pressure := float64(env.Pressure) / float64(100*physic.Pascal)

	telemetry := types.Telemetry{
		StationID:   stationID,
		Timestamp:   at,
		Temperature: &temperature,
		Humidity:    &humidity,
		Pressure:    &pressure,
		Sequence:    &sequence,
	}
	telemetry.Derive()
	return telemetry
}
