package system

import (
	"time"

	"github.com/zeusync/quadworld/internal/core/collision"
	"github.com/zeusync/quadworld/internal/core/events/bus"
	"github.com/zeusync/quadworld/internal/core/geometry"
	"github.com/zeusync/quadworld/internal/core/gesture"
	"github.com/zeusync/quadworld/internal/core/observability/log"
)

// Event types published on the world bus.
const (
	EventGestureCircle       = "gesture.circle"
	EventGestureUnrecognized = "gesture.unrecognized"
	EventCollisionResolved   = "collision.resolved"
)

const eventSource = "world"

// GestureEvent is the payload of gesture.* events.
type GestureEvent struct {
	TouchID int64
	Kind    gesture.Kind
	Center  geometry.Vec2
	Samples int
}

// CollisionEvent is the payload of collision.resolved events.
type CollisionEvent struct {
	collision.Resolution
}

func gestureEventType(k gesture.Kind) string {
	if k == gesture.Circle {
		return EventGestureCircle
	}
	return EventGestureUnrecognized
}

// eventLogger reports failed event deliveries with the frame that raised them.
type eventLogger struct {
	log log.Log
}

func (l eventLogger) OnEnqueue(e bus.Event) {
	l.log.Debug("event queued", log.String("type", e.Type()), log.Uint64("frame", e.Frame()))
}

func (l eventLogger) OnDelivered(e bus.Event, handlers int, err error, d time.Duration) {
	if err == nil {
		return
	}
	l.log.Warn("event handlers failed",
		log.String("type", e.Type()),
		log.Uint64("frame", e.Frame()),
		log.Int("handlers", handlers),
		log.Duration("took", d),
		log.Error(err),
	)
}
