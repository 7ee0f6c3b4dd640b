package parse

import (
	"strings"
	"unicode"

	"cspkit/internal/event"
)

// ParseEvents parses a comma-separated event list such as "coin,coffee,tick".
// The name "tick" denotes successful termination. The hidden event cannot be
// written, so "tau" is rejected.
func ParseEvents(s string) ([]event.Event, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var events []event.Event
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		switch {
		case name == "":
			return nil, resolvef("<events>", 0, "empty event name in %q", s)
		case name == "tau":
			return nil, resolvef("<events>", 0, "%q is reserved: the hidden event cannot appear in a trace", name)
		case name == "tick":
			events = append(events, event.Tick)
		case validEventName(name):
			events = append(events, event.Event(name))
		default:
			return nil, resolvef("<events>", 0, "invalid event name %q", name)
		}
	}
	return events, nil
}

func validEventName(s string) bool {
	for i, r := range s {
		switch {
		case unicode.IsLower(r), r == '_':
		case r == '\'' && i > 0:
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
	}
	return true
}
