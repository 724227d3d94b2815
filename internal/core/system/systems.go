package system

import (
	"errors"
	"slices"
)

var ErrDuplicateSystem = errors.New("system already registered")

// System is per-frame game logic that runs after component updates and before
// queued scene changes are flushed.
type System interface {
	Name() string
	Update(dt float32, w *World) error
}

// Priority orders systems; higher priorities run first. Systems with equal
// priority keep their registration order.
type Priority uint16

const (
	PriorityLow    Priority = 500
	PriorityNormal Priority = 600
	PriorityHigh   Priority = 1000
)

type registered struct {
	system   System
	priority Priority
	enabled  bool
}

// registry keeps systems in execution order.
type registry struct {
	entries []*registered
}

func (r *registry) add(s System, p Priority) error {
	if r.index(s.Name()) >= 0 {
		return ErrDuplicateSystem
	}
	r.entries = append(r.entries, &registered{system: s, priority: p, enabled: true})
	slices.SortStableFunc(r.entries, func(a, b *registered) int {
		return int(b.priority) - int(a.priority)
	})
	return nil
}

func (r *registry) remove(name string) bool {
	i := r.index(name)
	if i < 0 {
		return false
	}
	r.entries = slices.Delete(r.entries, i, i+1)
	return true
}

func (r *registry) setEnabled(name string, enabled bool) bool {
	i := r.index(name)
	if i < 0 {
		return false
	}
	r.entries[i].enabled = enabled
	return true
}

func (r *registry) index(name string) int {
	return slices.IndexFunc(r.entries, func(e *registered) bool { return e.system.Name() == name })
}

func (r *registry) order() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.system.Name()
	}
	return names
}
