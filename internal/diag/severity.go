package diag

import (
	"fmt"
	"strings"
)

// Severity orders diagnostics. Only SevError fails a run; SevWarning covers
// trouble fnqual works around, such as an unusable expansion cache.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// ParseSeverity reads the spelling used in fnqual.toml and on the command
// line: info, warning (or warn), error. Case does not matter.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "info":
		return SevInfo, nil
	case "warning", "warn":
		return SevWarning, nil
	case "error":
		return SevError, nil
	}
	return SevInfo, fmt.Errorf("unknown severity %q (expected info|warning|error)", name)
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(s.String())), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	v, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// AtLeast returns the diagnostics of severity min or higher, keeping their
// order. items is returned as is when nothing is filtered out.
func AtLeast(items []Diagnostic, min Severity) []Diagnostic {
	if min == SevInfo {
		return items
	}
	out := make([]Diagnostic, 0, len(items))
	for _, d := range items {
		if d.Severity >= min {
			out = append(out, d)
		}
	}
	return out
}
