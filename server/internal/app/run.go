package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"cloudpico/server/internal/config"
	"cloudpico/server/internal/db"
	"cloudpico/server/internal/httpapi"
	"cloudpico/server/internal/modules/weather"
	"cloudpico/server/internal/mqtt"
	"cloudpico/tools/migrate"
)

func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"sqliteDriver", cfg.SQLiteDriver,
		"sqlitePath", cfg.SQLitePath,
		"sqliteMaxOpenConns", cfg.SQLiteMaxOpenConns,
		"sqliteMaxIdleConns", cfg.SQLiteMaxIdleConns,
		"sqliteConnMaxLifetime", cfg.SQLiteConnMaxLifetime,
		"sqliteLogSQL", cfg.SQLiteLogSQL,
		"mqttBroker", cfg.MQTTBroker,
		"mqttPort", cfg.MQTTPort,
		"mqttClientID", cfg.MQTTClientID,
		"mqttTopic", cfg.MQTTTopic,
	)

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(dbConn); closeErr != nil {
			logger.Error("db close", "error", closeErr)
		}
	}()

	if err := migrate.Run(ctx, dbConn); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("database ready")

	// The telemetry handler must be set before connecting: the broker may
	// deliver messages as soon as the subscription is acknowledged.
	subscriber := mqtt.NewSubscriber(cfg, logger)
	mux := httpapi.NewMux(dbConn, subscriber)
	weather.RegisterFeature(mux, dbConn, subscriber, logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// Keeps retrying in the background; HTTP serves stored data meanwhile.
		if err := subscriber.Connect(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("mqtt connection failed (continuing without mqtt)", "error", err)
		}
	}()

	srv := httpapi.NewServer(cfg, mux, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		subscriber.Disconnect()
		wg.Wait()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("mqtt disconnecting")
	subscriber.Disconnect()
	wg.Wait()

	logger.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
