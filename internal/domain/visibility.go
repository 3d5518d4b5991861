package domain

import (
	"errors"
	"fmt"
)

// Visibility of the suggestion dropdown.
type Visibility int

const (
	Hidden Visibility = iota
	Visible
)

func (v Visibility) String() string {
	if v == Visible {
		return "visible"
	}
	return "hidden"
}

// MarshalText renders the visibility as "hidden" or "visible".
func (v Visibility) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText parses "hidden" or "visible".
func (v *Visibility) UnmarshalText(text []byte) error {
	switch string(text) {
	case "hidden":
		*v = Hidden
	case "visible":
		*v = Visible
	default:
		return fmt.Errorf("unknown visibility %q", text)
	}
	return nil
}

// Event is a URL bar interaction that may toggle the dropdown.
type Event string

const (
	EventInput   Event = "input"
	EventEscape  Event = "escape"
	EventBlur    Event = "blur"
	EventFindbar Event = "findbar"
	EventPreview Event = "preview"
	EventDelete  Event = "delete"
)

var ErrUnknownEvent = errors.New("unknown url bar event")

// ParseEvent validates an event name coming from a client.
func ParseEvent(name string) (Event, error) {
	switch ev := Event(name); ev {
	case EventInput, EventEscape, EventBlur, EventFindbar, EventPreview, EventDelete:
		return ev, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
}

// Next returns the visibility after ev. input is the URL bar text once the
// event has been applied.
func (v Visibility) Next(ev Event, input string) Visibility {
	switch ev {
	case EventInput:
		if input == "" {
			return Hidden
		}
		return Visible
	case EventPreview:
		return Visible
	case EventEscape, EventBlur, EventFindbar:
		return Hidden
	default:
		return v
	}
}
