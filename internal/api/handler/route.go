package handler

import (
	"fmt"
	"net/http"

	"github.com/lifelane/lifelane/internal/api/models"
	"github.com/lifelane/lifelane/internal/api/response"
	"github.com/lifelane/lifelane/internal/assessment"
	"github.com/lifelane/lifelane/internal/route"
)

// RouteHandler handles route estimation endpoints.
type RouteHandler struct {
	svc *assessment.Service
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(svc *assessment.Service) *RouteHandler {
	return &RouteHandler{svc: svc}
}

// EstimateRoute handles POST /v1/routes:estimate - distance and
// weather-adjusted travel time through the given waypoints.
func (h *RouteHandler) EstimateRoute(w http.ResponseWriter, r *http.Request) {
	var input models.RouteEstimateRequest
	if !decodeJSON(w, r, &input) {
		return
	}

	var errs []models.FieldError
	errs = append(errs, checkPoint("origin", input.Origin)...)
	errs = append(errs, checkPoint("destination", input.Destination)...)
	for i := range input.Via {
		errs = append(errs, checkPoint(fmt.Sprintf("via[%d]", i), &input.Via[i])...)
	}
	if input.BaseSpeedKmh != nil && *input.BaseSpeedKmh < 0 {
		errs = append(errs, models.FieldError{Field: "baseSpeedKmh", Message: "must not be negative", Code: models.CodeOutOfRange})
	}
	if len(errs) > 0 {
		response.BadRequest(w, r, "invalid route request", errs)
		return
	}

	in := assessment.RouteInput{
		Origin:      toWaypoint(*input.Origin),
		Destination: toWaypoint(*input.Destination),
		Label:       input.WeatherLabel,
		HasHazards:  input.HasHazards,
	}
	if len(input.Via) > 0 {
		in.Via = make([]route.Waypoint, len(input.Via))
		for i, p := range input.Via {
			in.Via[i] = toWaypoint(p)
		}
	}
	if input.BaseSpeedKmh != nil {
		in.BaseSpeedKmh = *input.BaseSpeedKmh
	}

	report, err := h.svc.Route(r.Context(), in)
	if err != nil {
		writeAssessmentError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toRouteResponse(report))
}
