package handler

import (
	"net/http"

	"github.com/lifelane/lifelane/internal/api/models"
	"github.com/lifelane/lifelane/internal/api/response"
	"github.com/lifelane/lifelane/internal/assessment"
)

// WeatherHandler handles weather endpoints.
type WeatherHandler struct {
	svc *assessment.Service
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(svc *assessment.Service) *WeatherHandler {
	return &WeatherHandler{svc: svc}
}

// GetWeather handles GET /v1/weather - classified conditions at a point.
func (h *WeatherHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	pt, errs := queryPoint(r)
	if len(errs) > 0 {
		response.BadRequest(w, r, "invalid location", errs)
		return
	}

	c, err := h.svc.Conditions(r.Context(), pt.Lat, pt.Lon)
	if err != nil {
		writeAssessmentError(w, r, err)
		return
	}

	resp := models.WeatherResponse{
		Location:    pt,
		Category:    string(c.Category),
		Observation: toObservation(c.Observation),
		Temporal:    toTemporal(c.Time, c.Temporal),
		Timestamp:   models.Timestamp(c.Time),
	}
	if c.Reading != nil {
		resp.Label = c.Reading.Label
		resp.Reading = *toReading(c.Reading)
	}
	response.JSON(w, r, http.StatusOK, resp)
}
