package server

import (
	"github.com/pkg/errors"

	"github.com/zeusync/quadworld/internal/core/geometry"
	"github.com/zeusync/quadworld/internal/core/gesture"
	"github.com/zeusync/quadworld/internal/core/input"
)

// TouchMessage is one inbound touch sample.
type TouchMessage struct {
	ID    int64   `json:"id"`
	X     float32 `json:"x"`
	Y     float32 `json:"y"`
	Phase string  `json:"phase"`
}

// GestureMessage reports a finished stroke back to the client.
type GestureMessage struct {
	ID      int64      `json:"id"`
	Gesture string     `json:"gesture"`
	Center  [2]float32 `json:"center"`
	Samples int        `json:"samples"`
}

// ErrorMessage is sent for samples that could not be used.
type ErrorMessage struct {
	Error string `json:"error"`
}

func (m TouchMessage) Touch() (input.Touch, error) {
	phase := input.ParsePhase(m.Phase)
	if phase == input.PhaseInvalid {
		return input.Touch{}, errors.Wrapf(ErrInvalidMessage, "unknown phase %q", m.Phase)
	}
	return input.Touch{ID: m.ID, Position: geometry.V2(m.X, m.Y), Phase: phase}, nil
}

func gestureMessage(t *gesture.Tracker) GestureMessage {
	c := t.Center()
	return GestureMessage{
		ID:      t.ID(),
		Gesture: t.Kind().String(),
		Center:  [2]float32{c.X, c.Y},
		Samples: len(t.Points()),
	}
}
