package hazard

import (
	"fmt"
	"time"

	"github.com/lifelane/lifelane/internal/weather"
)

// Rule thresholds.
const (
	HeavyRainMM       = 10.0
	StrongWindKmh     = 50.0
	StormWindKmh      = 40.0
	RushHourDelayMin  = 15
	WeekendNightDelay = 10
)

// NightRainSuffix is appended to rain hazards upgraded at night.
const NightRainSuffix = " (at night — increased risk)"

// evaluation is the per-call state shared by the rules.
type evaluation struct {
	loc           Location
	category      weather.Category
	precipitation float64
	wind          float64
	tc            TemporalContext
	now           time.Time
}

func (ev *evaluation) hazard(c Category, k Kind, s Severity, confidence float64, desc string, recs ...string) Hazard {
	return Hazard{
		Category:        c,
		Kind:            k,
		Severity:        s,
		Location:        ev.loc,
		Description:     desc,
		Source:          SourceRuleBased,
		Confidence:      confidence,
		CreatedAt:       ev.now,
		Recommendations: recs,
	}
}

type rule func(ev *evaluation) []op

// standardRules returns the battery in evaluation order. Only fogAtNight and
// rainAtNight depend on earlier output.
func standardRules() []rule {
	return []rule{
		rainRule,
		fogRule,
		snowRule,
		windRule,
		nightRule,
		rushHourRule,
		fogAtNightRule,
		rainAtNightRule,
		weekendNightRule,
		stormRule,
	}
}

func rainRule(ev *evaluation) []op {
	if !ev.category.IsWet() {
		return nil
	}
	if ev.precipitation > HeavyRainMM {
		return []op{add(ev.hazard(CategoryWeather, KindRain, SeverityHigh, 0.85,
			fmt.Sprintf("Heavy rain conditions (%.1fmm) - Increased risk of hydroplaning and reduced visibility", ev.precipitation),
			"Reduce speed", "Increase following distance", "Use headlights"))}
	}
	return []op{add(ev.hazard(CategoryWeather, KindRain, SeverityMedium, 0.75,
		fmt.Sprintf("Rainy conditions (%.1fmm) - Wet roads and reduced visibility", ev.precipitation),
		"Drive cautiously", "Maintain safe distance"))}
}

func fogRule(ev *evaluation) []op {
	if ev.category != weather.CategoryFoggy {
		return nil
	}
	return []op{add(ev.hazard(CategoryVisibility, KindFog, SeverityHigh, 0.90,
		"Foggy conditions - Significantly reduced visibility",
		"Use fog lights", "Reduce speed significantly", "Avoid sudden maneuvers"))}
}

func snowRule(ev *evaluation) []op {
	if ev.category != weather.CategorySnowy {
		return nil
	}
	return []op{add(ev.hazard(CategoryWeather, KindSnow, SeverityCritical, 0.95,
		"Snowy conditions - Icy roads and extremely reduced visibility",
		"Drive very slowly", "Use winter tires", "Avoid unnecessary travel"))}
}

func windRule(ev *evaluation) []op {
	if ev.wind <= StrongWindKmh {
		return nil
	}
	return []op{add(ev.hazard(CategoryWeather, KindWind, SeverityMedium, 0.70,
		fmt.Sprintf("Strong wind conditions (%.1f km/h) - Risk of vehicle instability, especially for high-profile vehicles", ev.wind),
		"Maintain firm grip on steering", "Watch for debris on road"))}
}

// nightRule stays quiet when rain or fog already covers visibility.
func nightRule(ev *evaluation) []op {
	if !ev.tc.IsNight() || ev.category.IsWet() || ev.category == weather.CategoryFoggy {
		return nil
	}
	return []op{add(ev.hazard(CategoryVisibility, KindNight, SeverityLow, 0.60,
		"Night time driving - Reduced visibility and increased fatigue risk",
		"Use headlights", "Stay alert", "Take breaks if tired"))}
}

func rushHourRule(ev *evaluation) []op {
	if !ev.tc.IsRushHour() {
		return nil
	}
	h := ev.hazard(CategoryTraffic, KindRushHour, SeverityLow, 0.65,
		"Rush hour traffic - Increased traffic density and accident risk",
		"Expect delays", "Allow extra time", "Be patient with other drivers")
	h.EstimatedDelayMin = RushHourDelayMin
	return []op{add(h)}
}

func fogAtNightRule(ev *evaluation) []op {
	if ev.category != weather.CategoryFoggy || !ev.tc.IsNight() {
		return nil
	}
	isFog := func(h *Hazard) bool {
		return h.Category == CategoryVisibility && h.Kind == KindFog
	}
	return []op{replace(isFog, ev.hazard(CategoryVisibility, KindFogNight, SeverityCritical, 0.95,
		"Foggy conditions at night - Extremely reduced visibility, exercise extreme caution",
		"Drive very slowly", "Use fog lights", "Consider delaying travel", "Frequent stops to rest eyes"))}
}

func rainAtNightRule(ev *evaluation) []op {
	if !ev.category.IsWet() || !ev.tc.IsNight() {
		return nil
	}
	isDaytimeRain := func(h *Hazard) bool {
		return h.Category == CategoryWeather && h.Kind == KindRain && h.Severity == SeverityMedium
	}
	return []op{upgrade(isDaytimeRain, func(h *Hazard) {
		h.Severity = SeverityHigh
		h.Description += NightRainSuffix
		h.Confidence = 0.85
	})}
}

func weekendNightRule(ev *evaluation) []op {
	if !ev.tc.IsWeekendNight() {
		return nil
	}
	h := ev.hazard(CategoryTraffic, KindWeekendNight, SeverityMedium, 0.70,
		"Weekend evening - Higher risk of impaired drivers and increased traffic",
		"Stay extra vigilant", "Watch for erratic drivers", "Maintain defensive driving")
	h.EstimatedDelayMin = WeekendNightDelay
	return []op{add(h)}
}

func stormRule(ev *evaluation) []op {
	if !ev.category.IsWet() || ev.precipitation <= HeavyRainMM || ev.wind <= StormWindKmh {
		return nil
	}
	return []op{add(ev.hazard(CategoryWeather, KindStorm, SeverityCritical, 0.90,
		fmt.Sprintf("Heavy rain with strong winds (%.1f km/h) - Extreme driving conditions", ev.wind),
		"Avoid driving if possible", "If driving, use extreme caution", "Watch for flooding"))}
}
