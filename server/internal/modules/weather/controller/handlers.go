package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"cloudpico/server/internal/utils"
)

var errMissingStationID = errors.New("missing station id")

func (c *weatherControllerImpl) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := c.repository.GetStations()
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err)
		return
	}
	utils.WriteList(w, stations, -1)
}

func (c *weatherControllerImpl) handleLatest(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		utils.WriteError(w, http.StatusBadRequest, errMissingStationID)
		return
	}

	limit, kind, err := parseLatestQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err)
		return
	}

	latest, err := c.repository.GetLatestReadings(id, limit)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err)
		return
	}
	utils.WriteList(w, convertReadings(latest, kind), -1)
}

// handleReadings serves a page of readings, newest first. The total number of
// readings in the range is sent in X-Total-Count.
func (c *weatherControllerImpl) handleReadings(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		utils.WriteError(w, http.StatusBadRequest, errMissingStationID)
		return
	}

	q, err := parseReadingsQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err)
		return
	}

	readings, err := c.repository.GetReadings(id, q.from, q.to, q.limit, q.offset)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err)
		return
	}

	total, err := c.repository.GetReadingsCount(id, q.from, q.to)
	if err != nil {
		slog.Warn("readings: count failed", "station_id", id, "error", err)
		total = -1
	}

	utils.WriteList(w, convertReadings(readings, q.unit), total)
}
