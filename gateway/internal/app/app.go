package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"cloudpico/gateway/internal/ble"
	"cloudpico/gateway/internal/config"
	"cloudpico/gateway/internal/mqtt"
	"cloudpico/gateway/internal/sensor"
)

// Run starts the configured sensor sources and forwards their readings to the
// MQTT broker until ctx is done.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("initializing gateway",
		"mqtt_broker", cfg.MQTTBroker,
		"mqtt_port", cfg.MQTTPort,
		"mqtt_client_id", cfg.MQTTClientID,
		"sensor_source", cfg.SensorSource,
	)

	mqttClient, err := mqtt.NewClient(cfg, logger)
	if err != nil {
		return err
	}
	defer mqttClient.Disconnect()

	go func() {
		// Connect keeps retrying internally until ctx is done.
		if err := mqttClient.Connect(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("mqtt connect failed", "error", err)
		}
	}()

	tracker := newHealthTracker(mqttClient, logger, healthInterval)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		tracker.Run(ctx)
	}()

	if cfg.UsesBLE() {
		bleListener := ble.NewListener(ble.Options{
			Adapter: cfg.BLEAdapter,
			Filter: ble.Filter{
				CompanyID: ble.SensorCompanyID,
				Prefix:    ble.SensorPayloadPrefix(),
			},
			Logger: logger,
		})
		ble.NewSensorHandler(tracker, cfg.BLEStationID).StartListener(ctx, bleListener)
	}

	if cfg.UsesI2C() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := sensor.Run(ctx, cfg, tracker)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("i2c sensor stopped; gateway continues without it", "error", err)
			}
		}()
	}

	<-ctx.Done()
	wg.Wait()

	logger.Info("gateway shutting down")
	return nil
}
