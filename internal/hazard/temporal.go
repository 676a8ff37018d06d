package hazard

import "time"

// TemporalContext holds the calendar facts the rules read.
type TemporalContext struct {
	Hour      int // 0-23
	DayOfWeek int // 0 = Monday .. 6 = Sunday
	IsWeekend bool
	Month     int // 1-12
}

// NewTemporalContext derives the context from t in t's own location.
func NewTemporalContext(t time.Time) TemporalContext {
	dow := (int(t.Weekday()) + 6) % 7
	return TemporalContext{
		Hour:      t.Hour(),
		DayOfWeek: dow,
		IsWeekend: dow >= 5,
		Month:     int(t.Month()),
	}
}

// IsNight reports whether the hour is before 06:00 or from 18:00.
func (tc TemporalContext) IsNight() bool {
	return tc.Hour < 6 || tc.Hour >= 18
}

// IsRushHour reports a weekday hour in 07-09 or 17-19 inclusive.
func (tc TemporalContext) IsRushHour() bool {
	if tc.IsWeekend {
		return false
	}
	return (tc.Hour >= 7 && tc.Hour <= 9) || (tc.Hour >= 17 && tc.Hour <= 19)
}

// IsWeekendNight reports the late-evening weekend window.
//
// The day test requires both IsWeekend and Friday-or-Saturday, so in practice
// only Saturday matches; Friday evenings are not weekend days.
func (tc TemporalContext) IsWeekendNight() bool {
	if !tc.IsWeekend || (tc.DayOfWeek != 4 && tc.DayOfWeek != 5) {
		return false
	}
	return tc.Hour >= 20 || tc.Hour < 2
}
