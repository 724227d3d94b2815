package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/zeusync/quadworld/internal/core/collision"
	"github.com/zeusync/quadworld/internal/core/events/bus"
	"github.com/zeusync/quadworld/internal/core/gesture"
	"github.com/zeusync/quadworld/internal/core/input"
	"github.com/zeusync/quadworld/internal/core/models"
	"github.com/zeusync/quadworld/internal/core/observability/log"
	"github.com/zeusync/quadworld/internal/core/scene"
)

// FrameStats summarizes one Step.
type FrameStats struct {
	Frame       uint64
	Updated     int
	Gestures    int
	Moved       int
	Resolutions int
	Events      int
	Collision   collision.Stats
	Scene       scene.Stats
	Duration    time.Duration
}

// World is the explicit per-scene context: it owns the scene, its collider
// registry, the gesture dispatcher, the event bus and the frame clock.
// A World is driven from a single goroutine.
type World struct {
	scene      *scene.Scene
	collisions *collision.Context
	gestures   *gesture.Dispatcher
	bus        bus.EventBus
	clock      Clock
	systems    registry
	closed     bool
	log        log.Log
}

func New(opts scene.Options, logger log.Log) *World {
	logger = log.OrNop(logger).With(log.String("component", "world"))
	events := bus.New()
	events.AddObserver(eventLogger{log: logger})
	return &World{
		scene:      scene.New(opts, logger),
		collisions: collision.NewContext(logger),
		gestures:   gesture.NewDispatcher(logger),
		bus:        events,
		log:        logger,
	}
}

func (w *World) Scene() *scene.Scene            { return w.scene }
func (w *World) Collisions() *collision.Context { return w.collisions }
func (w *World) Gestures() *gesture.Dispatcher  { return w.gestures }
func (w *World) Bus() bus.EventBus              { return w.bus }
func (w *World) Clock() *Clock                  { return &w.clock }

// EventMetrics returns the delivery counters of the world bus.
func (w *World) EventMetrics() bus.EventBusMetrics {
	return w.bus.GetMetrics()
}

// Spawn queues e for insertion at the next flush.
func (w *World) Spawn(e *models.Entity) {
	w.scene.SafeInsert(e)
}

// SpawnUI queues e for the UI list.
func (w *World) SpawnUI(e *models.Entity) {
	w.scene.SafeInsertUI(e)
}

// Despawn queues e for removal and drops its colliders immediately.
func (w *World) Despawn(e *models.Entity) {
	w.scene.SafeRemove(e)
	w.collisions.DeregisterEntity(e)
}

// AddCollider registers a collider with the world's collision context.
func (w *World) AddCollider(c *collision.Collider) {
	w.collisions.Register(c)
}

// AddSystem registers per-frame logic.
func (w *World) AddSystem(s System, p Priority) error {
	if err := w.systems.add(s, p); err != nil {
		return fmt.Errorf("%w: %s", err, s.Name())
	}
	return nil
}

func (w *World) RemoveSystem(name string) bool {
	return w.systems.remove(name)
}

func (w *World) EnableSystem(name string, enabled bool) bool {
	return w.systems.setEnabled(name, enabled)
}

// Systems returns system names in execution order.
func (w *World) Systems() []string {
	return w.systems.order()
}

// Step runs one frame:
//  1. touches are fed to the gesture dispatcher
//  2. components are updated, then registered systems run
//  3. queued scene changes are flushed
//  4. every moved entity is pushed out of its collisions and re-homed
//  5. queued events are dispatched
//
// Errors from each stage are joined; the frame always completes.
func (w *World) Step(dt float32, touches []input.Touch) (FrameStats, error) {
	if w.closed {
		return FrameStats{}, ErrClosed
	}
	started := time.Now()
	frame := w.clock.Tick(dt)
	stats := FrameStats{Frame: frame}
	var errs []error

	for _, tracker := range w.gestures.Feed(touches) {
		stats.Gestures++
		w.enqueue(gestureEventType(tracker.Kind()), GestureEvent{
			TouchID: tracker.ID(),
			Kind:    tracker.Kind(),
			Center:  tracker.Center(),
			Samples: len(tracker.Points()),
		})
	}

	stats.Updated = w.scene.Update(dt, touches)
	for _, entry := range w.systems.entries {
		if !entry.enabled {
			continue
		}
		if err := entry.system.Update(dt, w); err != nil {
			w.log.Error("system update failed", log.String("system", entry.system.Name()), log.Error(err))
			errs = append(errs, fmt.Errorf("system %s: %w", entry.system.Name(), err))
		}
	}

	if err := w.scene.Flush(); err != nil {
		errs = append(errs, err)
	}

	moved := w.scene.Moved()
	stats.Moved = len(moved)
	for _, t := range moved {
		resolutions, err := w.collisions.HandleMovement(t.Owner())
		if err != nil {
			errs = append(errs, err)
		}
		for _, r := range resolutions {
			w.enqueue(EventCollisionResolved, CollisionEvent{Resolution: r})
		}
		stats.Resolutions += len(resolutions)
	}
	// Pushes made by collision resolution are recorded as further moves of the
	// same transforms; reconcile covers them along with the first entries.
	for _, t := range w.scene.Moved() {
		if err := t.Reconcile(); err != nil {
			errs = append(errs, err)
		}
	}
	w.scene.ClearMoved()

	stats.Events = w.bus.Pending()
	if err := w.bus.Dispatch(); err != nil {
		errs = append(errs, err)
	}

	stats.Collision = w.collisions.Stats()
	w.collisions.ResetStats()
	stats.Scene = w.scene.Stats()
	stats.Duration = time.Since(started)

	err := errors.Join(errs...)
	if err != nil {
		w.log.Debug("frame completed with errors", log.Uint64("frame", frame), log.Error(err))
	}
	return stats, err
}

// Draw forwards the draw traversal to the scene.
func (w *World) Draw(camera models.Camera, batch models.Batch) int {
	return w.scene.Draw(camera, batch)
}

// Reload restarts the since-reload clock and runs every start hook again.
func (w *World) Reload() int {
	w.clock.Reload()
	return w.scene.Start()
}

// Close stops further steps. Pending events are dropped.
func (w *World) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	metrics := w.bus.GetMetrics()
	w.log.Info("world closed",
		log.Uint64("frames", w.clock.Frame()),
		log.Duration("simulated", w.clock.Total()),
		log.Uint64("delivered_events", metrics.Delivered),
		log.Uint64("failed_events", metrics.Errors),
		log.Int("dropped_events", w.bus.Pending()),
	)
	return nil
}

func (w *World) enqueue(eventType string, data any) {
	w.bus.Enqueue(bus.NewEvent(eventType, eventSource, w.clock.Frame(), data, nil))
}
