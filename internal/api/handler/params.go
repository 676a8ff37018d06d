package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/lifelane/lifelane/internal/api/models"
	"github.com/lifelane/lifelane/internal/api/response"
	"github.com/lifelane/lifelane/internal/assessment"
)

const maxBodyBytes = 64 << 10

// queryPoint reads the lat and lon query parameters.
func queryPoint(r *http.Request) (models.Point, []models.FieldError) {
	var errs []models.FieldError
	lat, fe := queryFloat(r, "lat", -90, 90)
	if fe != nil {
		errs = append(errs, *fe)
	}
	lon, fe := queryFloat(r, "lon", -180, 180)
	if fe != nil {
		errs = append(errs, *fe)
	}
	return models.Point{Lat: lat, Lon: lon}, errs
}

func queryFloat(r *http.Request, name string, lo, hi float64) (float64, *models.FieldError) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, &models.FieldError{Field: name, Message: "is required", Code: models.CodeRequired}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &models.FieldError{Field: name, Message: "must be a number", Code: models.CodeInvalid}
	}
	if fe := checkRange(name, v, lo, hi); fe != nil {
		return 0, fe
	}
	return v, nil
}

func checkRange(field string, v, lo, hi float64) *models.FieldError {
	if v < lo || v > hi {
		return &models.FieldError{
			Field:   field,
			Message: fmt.Sprintf("must be between %g and %g", lo, hi),
			Code:    models.CodeOutOfRange,
		}
	}
	return nil
}

// checkPoint validates a body coordinate under the given field prefix.
func checkPoint(prefix string, p *models.Point) []models.FieldError {
	if p == nil {
		return []models.FieldError{{Field: prefix, Message: "is required", Code: models.CodeRequired}}
	}
	var errs []models.FieldError
	if fe := checkRange(prefix+".lat", p.Lat, -90, 90); fe != nil {
		errs = append(errs, *fe)
	}
	if fe := checkRange(prefix+".lon", p.Lon, -180, 180); fe != nil {
		errs = append(errs, *fe)
	}
	return errs
}

// decodeJSON reads a bounded JSON body into dst and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		detail := "invalid JSON body"
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			detail = "request body is required"
		case errors.As(err, &tooLarge):
			detail = "request body too large"
		}
		response.BadRequest(w, r, detail, nil)
		return false
	}
	return true
}

// writeAssessmentError maps orchestrator errors to problem responses.
func writeAssessmentError(w http.ResponseWriter, r *http.Request, err error) {
	if assessment.IsInvalidInput(err) {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}
	response.ServiceUnavailable(w, r, "weather data unavailable")
}
