package weather

import (
	"database/sql"
	"log/slog"
	"net/http"

	"cloudpico/server/internal/modules/weather/controller"
	"cloudpico/server/internal/modules/weather/repository"
	"cloudpico/server/internal/modules/weather/service"
	"cloudpico/server/internal/mqtt"
)

// RegisterFeature mounts the weather API on mux and, when subscriber is set,
// stores incoming station telemetry.
func RegisterFeature(mux *http.ServeMux, db *sql.DB, subscriber mqtt.MQTTSubscriber, logger *slog.Logger) {
	weatherRepository := repository.NewRepository(db)
	weatherController := controller.NewWeatherController(weatherRepository)
	weatherController.RegisterRoutes(mux)

	if subscriber != nil {
		service.NewService(weatherRepository, logger.With("module", "weather")).Register(subscriber)
	}
}
