package gesture

import (
	"slices"

	"github.com/zeusync/quadworld/internal/core/input"
	"github.com/zeusync/quadworld/internal/core/observability/log"
)

// Dispatcher keeps one Tracker per live touch id. A tracker stays visible for
// the frame in which it finished and is dropped at the start of the next Feed.
type Dispatcher struct {
	trackers map[int64]*Tracker
	finished []int64
	reserved map[int64]struct{}
	log      log.Log
}

func NewDispatcher(logger log.Log) *Dispatcher {
	return &Dispatcher{
		trackers: make(map[int64]*Tracker),
		reserved: make(map[int64]struct{}),
		log:      log.OrNop(logger),
	}
}

// Reserve excludes a touch id from gesture tracking, for example while it
// steers movement.
func (d *Dispatcher) Reserve(id int64) {
	d.reserved[id] = struct{}{}
	delete(d.trackers, id)
}

func (d *Dispatcher) Release(id int64) {
	delete(d.reserved, id)
}

func (d *Dispatcher) Tracker(id int64) (*Tracker, bool) {
	t, ok := d.trackers[id]
	return t, ok
}

// Active returns the number of trackers currently held.
func (d *Dispatcher) Active() int {
	return len(d.trackers)
}

// Feed applies one frame of touch samples and returns the trackers that
// finished during it.
func (d *Dispatcher) Feed(touches []input.Touch) []*Tracker {
	for _, id := range d.finished {
		delete(d.trackers, id)
	}
	d.finished = d.finished[:0]

	var done []*Tracker
	for _, touch := range touches {
		if _, ok := d.reserved[touch.ID]; ok {
			continue
		}

		if touch.Phase == input.PhasePressed {
			// A finished tracker has already been reported; a reused id starts
			// a new stroke.
			if t, ok := d.trackers[touch.ID]; !ok || t.Finished() {
				d.trackers[touch.ID] = NewTracker(touch.ID)
				d.finished = slices.DeleteFunc(d.finished, func(id int64) bool { return id == touch.ID })
			}
		}

		tracker, ok := d.trackers[touch.ID]
		if !ok || tracker.Finished() {
			continue
		}

		switch touch.Phase {
		case input.PhasePressed, input.PhaseMoved:
			tracker.Add(touch.Position)
		case input.PhaseReleased:
			tracker.Add(touch.Position)
			kind := tracker.Finish()
			d.log.Debug("gesture finished",
				log.Int64("touch", touch.ID),
				log.Stringer("gesture", kind),
				log.Int("samples", len(tracker.Points())),
			)
			d.finished = append(d.finished, touch.ID)
			done = append(done, tracker)
		}
	}
	return done
}
