package diag

import "fmt"

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// MarshalText keeps JSON/YAML output readable.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSeverity accepts "info", "warning" or "error" in any case.
func ParseSeverity(v string) (Severity, error) {
	switch v {
	case "info", "INFO":
		return SevInfo, nil
	case "warning", "WARNING", "warn":
		return SevWarning, nil
	case "error", "ERROR":
		return SevError, nil
	}
	return SevInfo, fmt.Errorf("unknown severity %q", v)
}

func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
