package handler

import (
	"net/http"
	"time"

	"github.com/lifelane/lifelane/internal/api/models"
	"github.com/lifelane/lifelane/internal/api/response"
	"github.com/lifelane/lifelane/internal/assessment"
)

// HazardHandler handles hazard detection endpoints.
type HazardHandler struct {
	svc *assessment.Service
}

// NewHazardHandler creates a new HazardHandler.
func NewHazardHandler(svc *assessment.Service) *HazardHandler {
	return &HazardHandler{svc: svc}
}

// ListHazards handles GET /v1/hazards - hazards from live conditions.
func (h *HazardHandler) ListHazards(w http.ResponseWriter, r *http.Request) {
	pt, errs := queryPoint(r)
	if len(errs) > 0 {
		response.BadRequest(w, r, "invalid location", errs)
		return
	}

	report, err := h.svc.Hazards(r.Context(), pt.Lat, pt.Lon)
	if err != nil {
		writeAssessmentError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toHazardsResponse(report))
}

// EvaluateHazards handles POST /v1/hazards:evaluate - hazards for
// caller-supplied weather and time.
func (h *HazardHandler) EvaluateHazards(w http.ResponseWriter, r *http.Request) {
	var input models.EvaluateRequest
	if !decodeJSON(w, r, &input) {
		return
	}

	in, errs := evaluateInput(input)
	if len(errs) > 0 {
		response.BadRequest(w, r, "invalid evaluation request", errs)
		return
	}

	report, err := h.svc.Evaluate(r.Context(), in)
	if err != nil {
		writeAssessmentError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toHazardsResponse(&report.HazardReport))
}

func evaluateInput(input models.EvaluateRequest) (assessment.EvaluateInput, []models.FieldError) {
	var errs []models.FieldError
	if input.Lat == nil {
		errs = append(errs, models.FieldError{Field: "lat", Message: "is required", Code: models.CodeRequired})
	} else if fe := checkRange("lat", *input.Lat, -90, 90); fe != nil {
		errs = append(errs, *fe)
	}
	if input.Lon == nil {
		errs = append(errs, models.FieldError{Field: "lon", Message: "is required", Code: models.CodeRequired})
	} else if fe := checkRange("lon", *input.Lon, -180, 180); fe != nil {
		errs = append(errs, *fe)
	}
	if input.WeatherLabel == "" {
		errs = append(errs, models.FieldError{Field: "weatherLabel", Message: "is required", Code: models.CodeRequired})
	}
	if len(errs) > 0 {
		return assessment.EvaluateInput{}, errs
	}

	var at time.Time
	if input.Time != nil {
		at = input.Time.Time()
	}
	return assessment.EvaluateInput{
		Lat:     *input.Lat,
		Lon:     *input.Lon,
		Label:   input.WeatherLabel,
		Reading: fromWeatherInput(input.Weather, input.WeatherLabel),
		Time:    at,
	}, nil
}
