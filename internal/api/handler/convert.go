package handler

import (
	"time"

	"github.com/lifelane/lifelane/internal/api/models"
	"github.com/lifelane/lifelane/internal/assessment"
	"github.com/lifelane/lifelane/internal/hazard"
	"github.com/lifelane/lifelane/internal/route"
	"github.com/lifelane/lifelane/internal/safety"
	"github.com/lifelane/lifelane/internal/weather"
)

func toReading(r *weather.Reading) *models.WeatherReading {
	if r == nil {
		return nil
	}
	return &models.WeatherReading{
		PrecipitationMM: models.Round(r.PrecipitationMM, 2),
		WindKmh:         models.Round(r.WindKmh, 1),
		TempMaxC:        models.Round(r.TempMaxC, 1),
		TempMinC:        models.Round(r.TempMinC, 1),
	}
}

func fromWeatherInput(in *models.WeatherInput, label string) *weather.Reading {
	if in == nil {
		return nil
	}
	return &weather.Reading{
		PrecipitationMM: in.PrecipitationMM,
		WindKmh:         in.WindKmh,
		TempMaxC:        in.TempMaxC,
		TempMinC:        in.TempMinC,
		Label:           label,
	}
}

func toObservation(o *weather.Observation) models.WeatherObservation {
	return models.WeatherObservation{
		TemperatureC:    o.Temperature,
		Humidity:        o.Humidity,
		PressureHPa:     o.Pressure,
		WindSpeedMS:     o.WindSpeed,
		WindGustMS:      o.WindGust,
		PrecipitationMM: o.Precipitation,
		CloudCover:      o.CloudCover,
		VisibilityM:     o.Visibility,
		Condition:       string(o.Condition),
		Description:     o.Description,
		ObservedAt:      models.TimestampPtr(o.ObservedAt),
		FetchedAt:       models.TimestampPtr(o.FetchedAt),
	}
}

func toTemporal(t time.Time, tc hazard.TemporalContext) models.Temporal {
	return models.Temporal{
		Year:      t.Year(),
		Month:     tc.Month,
		Day:       t.Day(),
		Hour:      tc.Hour,
		DayOfYear: t.YearDay(),
		DayOfWeek: tc.DayOfWeek,
		IsWeekend: tc.IsWeekend,
		IsNight:   tc.IsNight(),
		RushHour:  tc.IsRushHour(),
	}
}

func toHazards(hs []hazard.Hazard) []models.Hazard {
	out := make([]models.Hazard, len(hs))
	for i, h := range hs {
		recs := h.Recommendations
		if recs == nil {
			recs = []string{}
		}
		out[i] = models.Hazard{
			ID:                h.ID,
			Category:          string(h.Category),
			Kind:              string(h.Kind),
			Severity:          h.Severity.String(),
			Location:          models.Point{Lat: h.Location.Lat, Lon: h.Location.Lon},
			Description:       h.Description,
			DistanceKm:        h.DistanceKm,
			EstimatedDelayMin: h.EstimatedDelayMin,
			Source:            h.Source,
			Confidence:        h.Confidence,
			CreatedAt:         models.Timestamp(h.CreatedAt),
			Recommendations:   recs,
		}
		if h.ExpiresAt != nil {
			out[i].ExpiresAt = models.TimestampPtr(*h.ExpiresAt)
		}
	}
	return out
}

func toHazardSummary(s hazard.Summary) models.HazardSummary {
	out := models.HazardSummary{Count: s.Count, Recommendation: s.Recommendation}
	if s.Highest != nil {
		label := s.Highest.String()
		out.HighestSeverity = &label
	}
	return out
}

func toHazardsResponse(r *assessment.HazardReport) models.HazardsResponse {
	return models.HazardsResponse{
		Location:  models.Point{Lat: r.Lat, Lon: r.Lon},
		Category:  string(r.Category),
		Reading:   toReading(r.Reading),
		Hazards:   toHazards(r.Hazards),
		Summary:   toHazardSummary(r.Summary),
		Timestamp: models.Timestamp(r.Time),
	}
}

func toScore(a safety.Assessment) models.SafetyScore {
	return models.SafetyScore{
		Score:  a.Score,
		Rating: string(a.Rating),
		Color:  a.Color,
		Penalties: models.Penalties{
			Weather:         a.Penalties.Weather,
			Hazard:          a.Penalties.Hazard,
			MultipleHazards: a.Penalties.MultipleHazards,
		},
	}
}

func toSafetyResponse(r *assessment.SafetyReport) models.SafetyResponse {
	recs := r.Safety.Recommendations
	if recs == nil {
		recs = []string{}
	}
	return models.SafetyResponse{
		Location: models.Point{Lat: r.Lat, Lon: r.Lon},
		Safety: models.Safety{
			SafetyScore:     toScore(r.Safety.Assessment),
			Category:        string(r.Safety.Category),
			HazardCount:     r.Safety.HazardCount,
			HighestSeverity: r.Safety.HighestSeverity,
			Recommendations: recs,
			SummaryText:     r.Safety.Text,
		},
		Reading:   toReading(r.Reading),
		Hazards:   toHazards(r.Hazards),
		Summary:   toHazardSummary(r.Summary),
		Timestamp: models.Timestamp(r.Time),
	}
}

func toWaypoint(p models.Point) route.Waypoint {
	return route.Waypoint{Lat: p.Lat, Lon: p.Lon}
}

func toPoint(w route.Waypoint) models.Point {
	return models.Point{Lat: w.Lat, Lon: w.Lon}
}

func toRouteResponse(r *assessment.RouteReport) models.RouteEstimateResponse {
	p := r.Plan

	via := make([]models.Point, len(p.Via))
	for i, w := range p.Via {
		via[i] = toPoint(w)
	}

	segments := make([]models.RouteSegment, len(p.Distance.Segments))
	for i, s := range p.Distance.Segments {
		segments[i] = models.RouteSegment{
			From:          toPoint(s.From),
			To:            toPoint(s.To),
			DistanceKm:    models.Round(s.DistanceKm, 2),
			DistanceMiles: models.Round(s.DistanceMiles(), 2),
		}
	}

	return models.RouteEstimateResponse{
		Origin:      toPoint(p.Origin),
		Destination: toPoint(p.Destination),
		Via:         via,
		Category:    string(r.Category),
		HasHazards:  r.HasHazards,
		Distance: models.RouteDistance{
			TotalKm:       models.Round(p.Distance.TotalKm, 2),
			TotalMiles:    models.Round(p.Distance.TotalMiles(), 2),
			WaypointCount: p.Distance.WaypointCount(),
			Segments:      segments,
		},
		Time: models.RouteTime{
			EstimatedMinutes: models.Round(p.Time.AdjustedMinutes(), 1),
			EstimatedHours:   models.Round(p.Time.AdjustedHours, 2),
			BaseMinutes:      models.Round(p.Time.BaseMinutes(), 1),
			DelayMinutes:     models.Round(p.Time.DelayMinutes(), 1),
			BaseSpeedKmh:     p.Time.BaseSpeedKmh,
			AverageSpeedKmh:  models.Round(p.Time.EffectiveSpeedKmh, 1),
			SpeedMultiplier:  p.Time.Multiplier,
			SpeedAdjustment:  p.Time.SpeedAdjustment(),
		},
		Polyline: p.Polyline,
	}
}
