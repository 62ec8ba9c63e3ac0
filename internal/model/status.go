package model

import "fmt"

// Status is the workflow state of an epic or story.
// Any status may replace any other; there are no transition rules.
type Status uint8

// Status values, in the order the status prompt lists them.
const (
	StatusOpen Status = iota
	StatusInProgress
	StatusResolved
	StatusClosed
)

// Statuses lists every status in prompt order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

// statusNames are the persisted identifiers.
var statusNames = map[Status]string{
	StatusOpen:       "Open",
	StatusInProgress: "InProgress",
	StatusResolved:   "Resolved",
	StatusClosed:     "Closed",
}

// statusLabels are the on-screen labels.
var statusLabels = map[Status]string{
	StatusOpen:       "OPEN",
	StatusInProgress: "IN PROGRESS",
	StatusResolved:   "RESOLVED",
	StatusClosed:     "CLOSED",
}

// String returns the display label, e.g. "IN PROGRESS".
func (s Status) String() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}

	return fmt.Sprintf("Status(%d)", uint8(s))
}

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	_, ok := statusNames[s]

	return ok
}

// MarshalText encodes the status as its identifier, e.g. "InProgress".
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: unknown status %d", ErrMalformed, uint8(s))
	}

	return []byte(statusNames[s]), nil
}

// UnmarshalText decodes an identifier produced by MarshalText.
func (s *Status) UnmarshalText(text []byte) error {
	for status, name := range statusNames {
		if name == string(text) {
			*s = status

			return nil
		}
	}

	return fmt.Errorf("%w: unknown status %q", ErrMalformed, string(text))
}
