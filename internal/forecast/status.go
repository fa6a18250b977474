package forecast

import (
	"fmt"
	"strings"
)

// Status classifies the ending balance of a year against the reserve the
// fund should hold for upcoming projects.
type Status int

const (
	// StatusUnderfunded means the balance is below the adequate fraction of the ideal reserve.
	StatusUnderfunded Status = iota
	// StatusAdequate means the balance covers at least the adequate fraction of the ideal reserve.
	StatusAdequate
	// StatusFullyFunded means the balance covers the whole ideal reserve.
	StatusFullyFunded
)

var statusNames = map[Status]string{
	StatusUnderfunded: "UNDERFUNDED",
	StatusAdequate:    "ADEQUATE",
	StatusFullyFunded: "FULLY_FUNDED",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Label returns a short human label, e.g. "Fully funded".
func (s Status) Label() string {
	switch s {
	case StatusFullyFunded:
		return "Fully funded"
	case StatusAdequate:
		return "Adequate"
	case StatusUnderfunded:
		return "Underfunded"
	}
	return s.String()
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if _, ok := statusNames[s]; !ok {
		return nil, fmt.Errorf("unknown funding status %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	want := strings.ToUpper(strings.TrimSpace(string(text)))
	for st, name := range statusNames {
		if name == want {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown funding status %q", string(text))
}
