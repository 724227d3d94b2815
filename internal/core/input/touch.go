package input

import (
	"golang.org/x/mobile/event/touch"

	"github.com/zeusync/quadworld/internal/core/geometry"
)

// Phase is the lifecycle stage of a touch sample.
type Phase uint8

const (
	PhaseInvalid Phase = iota
	PhasePressed
	PhaseMoved
	PhaseReleased
)

func (p Phase) String() string {
	switch p {
	case PhasePressed:
		return "pressed"
	case PhaseMoved:
		return "moved"
	case PhaseReleased:
		return "released"
	default:
		return "invalid"
	}
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(s string) Phase {
	switch s {
	case "pressed":
		return PhasePressed
	case "moved":
		return PhaseMoved
	case "released":
		return PhaseReleased
	default:
		return PhaseInvalid
	}
}

// Touch is one sample of a finger on the screen for the current frame.
type Touch struct {
	ID       int64
	Position geometry.Vec2
	Phase    Phase
}

// FromMobile converts a platform touch event.
func FromMobile(e touch.Event) Touch {
	t := Touch{
		ID:       int64(e.Sequence),
		Position: geometry.V2(e.X, e.Y),
	}
	switch e.Type {
	case touch.TypeBegin:
		t.Phase = PhasePressed
	case touch.TypeMove:
		t.Phase = PhaseMoved
	case touch.TypeEnd:
		t.Phase = PhaseReleased
	}
	return t
}

// Collect converts the events gathered during one frame, keeping their order.
func Collect(events []touch.Event) []Touch {
	touches := make([]Touch, 0, len(events))
	for _, e := range events {
		touches = append(touches, FromMobile(e))
	}
	return touches
}
