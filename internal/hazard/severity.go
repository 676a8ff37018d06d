package hazard

import (
	"fmt"
	"strings"
)

// Severity is a totally ordered hazard severity. Compare with Rank, never by
// label.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

var severityLabels = [...]string{"low", "medium", "high", "critical"}

// Severities returns every severity in ascending rank.
func Severities() []Severity {
	return []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
}

// Rank returns the position of s in the ordering low < medium < high < critical.
func (s Severity) Rank() int {
	if s < SeverityLow || s > SeverityCritical {
		return int(SeverityLow)
	}
	return int(s)
}

// Valid reports whether s is one of the four defined severities.
func (s Severity) Valid() bool {
	return s >= SeverityLow && s <= SeverityCritical
}

func (s Severity) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityLabels[s]
}

// Ptr returns a pointer to a copy of s.
func (s Severity) Ptr() *Severity {
	return &s
}

// ParseSeverity parses a case-insensitive label.
func ParseSeverity(label string) (Severity, bool) {
	l := strings.ToLower(strings.TrimSpace(label))
	for i, name := range severityLabels {
		if name == l {
			return Severity(i), true
		}
	}
	return SeverityLow, false
}

// RankLabel ranks a severity label. Unknown or malformed labels rank as low,
// which can hide a real severity behind a typo.
func RankLabel(label string) int {
	s, _ := ParseSeverity(label)
	return s.Rank()
}

// MarshalText encodes the severity as its lowercase label.
func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a lowercase label.
func (s *Severity) UnmarshalText(text []byte) error {
	v, ok := ParseSeverity(string(text))
	if !ok {
		return fmt.Errorf("unknown severity %q", string(text))
	}
	*s = v
	return nil
}
