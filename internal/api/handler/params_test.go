package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifelane/lifelane/internal/api/models"
)

func TestQueryPoint(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		want   models.Point
		fields []string
		codes  []string
	}{
		{name: "valid", query: "lat=52.37&lon=4.89", want: models.Point{Lat: 52.37, Lon: 4.89}},
		{name: "bounds inclusive", query: "lat=-90&lon=180", want: models.Point{Lat: -90, Lon: 180}},
		{name: "missing", query: "", fields: []string{"lat", "lon"}, codes: []string{models.CodeRequired, models.CodeRequired}},
		{name: "not a number", query: "lat=north&lon=4", fields: []string{"lat"}, codes: []string{models.CodeInvalid}},
		{name: "out of range", query: "lat=10&lon=-181", fields: []string{"lon"}, codes: []string{models.CodeOutOfRange}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/v1/weather?"+tt.query, http.NoBody)

			pt, errs := queryPoint(r)

			if len(tt.fields) == 0 {
				assert.Empty(t, errs)
				assert.Equal(t, tt.want, pt)
				return
			}
			require.Len(t, errs, len(tt.fields))
			for i, fe := range errs {
				assert.Equal(t, tt.fields[i], fe.Field)
				assert.Equal(t, tt.codes[i], fe.Code)
			}
		})
	}
}

func TestCheckPoint(t *testing.T) {
	assert.Empty(t, checkPoint("origin", &models.Point{Lat: 1, Lon: 1}))

	errs := checkPoint("origin", nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "origin", errs[0].Field)
	assert.Equal(t, models.CodeRequired, errs[0].Code)

	errs = checkPoint("via[1]", &models.Point{Lat: -91, Lon: 181})
	require.Len(t, errs, 2)
	assert.Equal(t, "via[1].lat", errs[0].Field)
	assert.Equal(t, "via[1].lon", errs[1].Field)
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		ok     bool
		detail string
	}{
		{name: "valid", body: `{"weatherLabel":"sunny"}`, ok: true},
		{name: "empty", body: "", detail: "request body is required"},
		{name: "malformed", body: `{"weatherLabel":`, detail: "invalid JSON body"},
		{name: "too large", body: `{"weatherLabel":"` + strings.Repeat("a", maxBodyBytes) + `"}`, detail: "request body too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/v1/safety:score", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			var dst models.ScoreRequest
			ok := decodeJSON(w, r, &dst)

			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, "sunny", dst.WeatherLabel)
				return
			}
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.detail)
		})
	}
}
