package repository

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloudpico/server/internal/modules/weather/types"
	sharedtypes "cloudpico/shared/types"
)

//go:embed sql/get-stations.sql
var getStationsSQL string

//go:embed sql/get-latest-reading.sql
var getLatestReadingSQL string

//go:embed sql/get-readings.sql
var getReadingsSQL string

//go:embed sql/get-readings-count.sql
var getReadingsCountSQL string

//go:embed sql/insert-reading.sql
var insertReadingSQL string

//go:embed sql/get-station-id-by-name.sql
var getStationIDByNameSQL string

//go:embed sql/insert-station.sql
var insertStationSQL string

// tsLayout is fixed width so that ts sorts and compares correctly as TEXT.
const tsLayout = "2006-01-02T15:04:05.000Z"

type WeatherRepository interface {
	GetStations() ([]types.Station, error)
	GetLatestReadings(stationID string, limit int) ([]types.Reading, error)
	// GetReadings returns readings newest first; a zero from or to leaves that
	// side of the range open.
	GetReadings(stationID string, from time.Time, to time.Time, limit int, offset int) ([]types.Reading, error)
	GetReadingsCount(stationID string, from time.Time, to time.Time) (int, error)
	// InsertReading stores telemetry. The telemetry station id is the station
	// name, whatever it looks like; unknown names are registered on first use.
	// Repeated (station, ts) pairs are ignored.
	InsertReading(telemetry sharedtypes.Telemetry) error
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) WeatherRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) GetStations() ([]types.Station, error) {
	rows, err := r.db.Query(getStationsSQL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close stations rows", "error", err)
		}
	}()
	out := []types.Station{}
	for rows.Next() {
		var s types.Station
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetLatestReadings(stationID string, limit int) ([]types.Reading, error) {
	rows, err := r.db.Query(getLatestReadingSQL, stationID, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close latest readings rows", "error", err)
		}
	}()
	return scanReadings(rows)
}

func (r *repositoryImpl) GetReadings(stationID string, from time.Time, to time.Time, limit int, offset int) ([]types.Reading, error) {
	fromArg, toArg := bound(from), bound(to)
	rows, err := r.db.Query(getReadingsSQL, stationID, fromArg, fromArg, toArg, toArg, limit, offset)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close readings rows", "error", err)
		}
	}()
	return scanReadings(rows)
}

func (r *repositoryImpl) GetReadingsCount(stationID string, from time.Time, to time.Time) (int, error) {
	fromArg, toArg := bound(from), bound(to)
	var n int
	err := r.db.QueryRow(getReadingsCountSQL, stationID, fromArg, fromArg, toArg, toArg).Scan(&n)
	return n, err
}

func bound(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(tsLayout)
}

func scanReadings(rows *sql.Rows) ([]types.Reading, error) {
	out := []types.Reading{}
	for rows.Next() {
		var (
			rec      types.Reading
			ts       string
			temp     sql.NullFloat64
			absHum   sql.NullFloat64
			altitude sql.NullFloat64
		)
		if err := rows.Scan(&rec.StationID, &ts, &temp, &rec.HumidityPct, &rec.PressureHpa, &absHum, &altitude); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", ts, err)
		}
		rec.Time = t
		rec.Unit = "C"
		if temp.Valid {
			rec.Temperature = &temp.Float64
		}
		if absHum.Valid {
			rec.AbsoluteHumidity = &absHum.Float64
		}
		if altitude.Valid {
			rec.Altitude = &altitude.Float64
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) InsertReading(telemetry sharedtypes.Telemetry) error {
	if telemetry.Humidity != nil {
		if *telemetry.Humidity < 0 || *telemetry.Humidity > 100 {
			return fmt.Errorf("humidity_pct out of range: %f (must be 0-100)", *telemetry.Humidity)
		}
	}
	if telemetry.Pressure != nil {
		if *telemetry.Pressure <= 0 {
			return fmt.Errorf("pressure_hpa must be positive: %f", *telemetry.Pressure)
		}
	}

	dbStationID, err := r.resolveStation(telemetry.StationID)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(insertReadingSQL,
		dbStationID,
		telemetry.Timestamp.UTC().Format(tsLayout),
		nullable(telemetry.Temperature),
		nullable(telemetry.Humidity),
		nullable(telemetry.Pressure),
		nullable(telemetry.AbsoluteHumidity),
		nullable(telemetry.Altitude),
	)
	if err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

// resolveStation returns the stations.id for a station name, registering the
// name on first use.
func (r *repositoryImpl) resolveStation(name string) (int, error) {
	if name == "" {
		return 0, errors.New("empty station id")
	}

	var id int
	err := r.db.QueryRow(getStationIDByNameSQL, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("lookup station %q: %w", name, err)
	}

	if _, err := r.db.Exec(insertStationSQL, name); err != nil {
		return 0, fmt.Errorf("register station %q: %w", name, err)
	}
	if err := r.db.QueryRow(getStationIDByNameSQL, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("lookup station %q: %w", name, err)
	}
	return id, nil
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
