package hazard

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lifelane/lifelane/internal/weather"
)

// Input is one detection request.
type Input struct {
	Lat      float64
	Lon      float64
	Category weather.Category

	// Reading may be nil; precipitation and wind are then 0.
	Reading *weather.Reading

	// Time defaults to the engine clock's now when zero.
	Time time.Time
}

// EngineConfig configures an Engine.
type EngineConfig struct {
	// IDs defaults to UUIDSource.
	IDs IDSource

	// Clock defaults to the real clock.
	Clock clockwork.Clock
}

// Engine evaluates the rule battery. It holds no per-call state and is safe
// for concurrent use if its IDSource is.
type Engine struct {
	ids   IDSource
	clock clockwork.Clock
	rules []rule
}

// NewEngine creates an engine with the standard rule battery.
func NewEngine(cfg EngineConfig) *Engine {
	ids := cfg.IDs
	if ids == nil {
		ids = UUIDSource{}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Engine{
		ids:   ids,
		clock: clock,
		rules: standardRules(),
	}
}

// Detect returns the hazards for the input, in rule order.
func (e *Engine) Detect(in Input) []Hazard {
	now := in.Time
	if now.IsZero() {
		now = e.clock.Now()
	}

	ev := evaluation{
		loc:      Location{Lat: in.Lat, Lon: in.Lon},
		category: in.Category,
		tc:       NewTemporalContext(now),
		now:      now,
	}
	if in.Reading != nil {
		ev.precipitation = in.Reading.PrecipitationMM
		ev.wind = in.Reading.WindKmh
	}

	var ops []op
	for _, r := range e.rules {
		ops = append(ops, r(&ev)...)
	}
	return e.fold(ops)
}

type opKind int

const (
	opAdd opKind = iota
	opUpgrade
	opReplace
)

// op is one proposal against the hazards accumulated so far.
//
//	Add:     append hazard
//	Upgrade: apply patch to every hazard matching match
//	Replace: drop every hazard matching match, then append hazard
type op struct {
	kind   opKind
	match  func(*Hazard) bool
	patch  func(*Hazard)
	hazard Hazard
}

func add(h Hazard) op {
	return op{kind: opAdd, hazard: h}
}

func upgrade(match func(*Hazard) bool, patch func(*Hazard)) op {
	return op{kind: opUpgrade, match: match, patch: patch}
}

func replace(match func(*Hazard) bool, h Hazard) op {
	return op{kind: opReplace, match: match, hazard: h}
}

// fold applies ops in order. Every hazard gets an identifier as it enters
// the list, including ones a later replace drops.
func (e *Engine) fold(ops []op) []Hazard {
	hazards := make([]Hazard, 0, len(ops))
	for _, o := range ops {
		switch o.kind {
		case opAdd:
			hazards = append(hazards, e.withID(o.hazard))
		case opUpgrade:
			for i := range hazards {
				if o.match(&hazards[i]) {
					o.patch(&hazards[i])
				}
			}
		case opReplace:
			kept := hazards[:0]
			for _, h := range hazards {
				if !o.match(&h) {
					kept = append(kept, h)
				}
			}
			hazards = append(kept, e.withID(o.hazard))
		}
	}
	return hazards
}

func (e *Engine) withID(h Hazard) Hazard {
	h.ID = e.ids.NextID()
	return h
}
