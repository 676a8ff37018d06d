package handler

import (
	"net/http"

	"github.com/lifelane/lifelane/internal/api/models"
	"github.com/lifelane/lifelane/internal/api/response"
	"github.com/lifelane/lifelane/internal/assessment"
	"github.com/lifelane/lifelane/internal/hazard"
)

// SafetyHandler handles safety scoring endpoints.
type SafetyHandler struct {
	svc *assessment.Service
}

// NewSafetyHandler creates a new SafetyHandler.
func NewSafetyHandler(svc *assessment.Service) *SafetyHandler {
	return &SafetyHandler{svc: svc}
}

// GetSafety handles GET /v1/safety - the safety dashboard for a point.
func (h *SafetyHandler) GetSafety(w http.ResponseWriter, r *http.Request) {
	pt, errs := queryPoint(r)
	if len(errs) > 0 {
		response.BadRequest(w, r, "invalid location", errs)
		return
	}

	report, err := h.svc.Safety(r.Context(), pt.Lat, pt.Lon)
	if err != nil {
		writeAssessmentError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toSafetyResponse(report))
}

// EvaluateSafety handles POST /v1/safety:evaluate - the safety dashboard
// for caller-supplied weather and time.
func (h *SafetyHandler) EvaluateSafety(w http.ResponseWriter, r *http.Request) {
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
	response.JSON(w, r, http.StatusOK, toSafetyResponse(report))
}

// ScoreSafety handles POST /v1/safety:score - a bare score from a weather
// label and hazard summary.
func (h *SafetyHandler) ScoreSafety(w http.ResponseWriter, r *http.Request) {
	var input models.ScoreRequest
	if !decodeJSON(w, r, &input) {
		return
	}

	var errs []models.FieldError
	if input.WeatherLabel == "" {
		errs = append(errs, models.FieldError{Field: "weatherLabel", Message: "is required", Code: models.CodeRequired})
	}
	if input.HazardCount < 0 {
		errs = append(errs, models.FieldError{Field: "hazardCount", Message: "must not be negative", Code: models.CodeOutOfRange})
	}
	if len(errs) > 0 {
		response.BadRequest(w, r, "invalid score request", errs)
		return
	}

	var highest *hazard.Severity
	if input.HighestSeverity != nil {
		if sev, ok := hazard.ParseSeverity(*input.HighestSeverity); ok {
			highest = sev.Ptr()
		}
	}

	score := h.svc.Score(r.Context(), assessment.ScoreInput{
		Label:       input.WeatherLabel,
		HazardCount: input.HazardCount,
		Highest:     highest,
		Reading:     fromWeatherInput(input.Weather, input.WeatherLabel),
	})
	response.JSON(w, r, http.StatusOK, toScore(score))
}
