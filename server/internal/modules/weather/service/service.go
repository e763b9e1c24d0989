package service

import (
	"log/slog"

	"cloudpico/server/internal/modules/weather/repository"
	"cloudpico/server/internal/mqtt"
	"cloudpico/shared/types"
)

// Service stores telemetry arriving over MQTT.
type Service struct {
	repository repository.WeatherRepository
	logger     *slog.Logger
}

func NewService(repository repository.WeatherRepository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// Register attaches the service as the subscriber's telemetry handler.
func (s *Service) Register(subscriber mqtt.MQTTSubscriber) {
	subscriber.SetMessageHandler(s.HandleTelemetry)
}

// HandleTelemetry fills in derived metrics the sender did not compute and
// stores the reading.
func (s *Service) HandleTelemetry(telemetry types.Telemetry) error {
	s.logger.Debug("processing telemetry message",
		"station_id", telemetry.StationID,
		"timestamp", telemetry.Timestamp,
	)

	telemetry.Derive()

	if err := s.repository.InsertReading(telemetry); err != nil {
		s.logger.Error("failed to insert reading",
			"station_id", telemetry.StationID,
			"error", err,
		)
		return err
	}

	s.logger.Debug("successfully stored telemetry",
		"station_id", telemetry.StationID,
	)
	return nil
}
