package models

import (
	"github.com/zeusync/quadworld/internal/core/geometry"
	"github.com/zeusync/quadworld/internal/core/input"
)

// Component is a behavior attached to an entity. Lifecycle hooks are optional
// and discovered through the Starter, Updater and Drawer interfaces.
type Component interface {
	IsActive() bool
}

// Starter runs once when the owning entity enters a scene.
type Starter interface {
	Start(scene Scene)
}

// Updater advances the component by one frame.
type Updater interface {
	Update(dt float32, touches []input.Touch)
}

// Drawer forwards the component to the rendering layer.
type Drawer interface {
	Draw(camera Camera, batch Batch)
}

// Camera is supplied by the rendering layer.
type Camera interface {
	ViewBounds() geometry.BoundingBox
}

// Batch is an opaque render batch handed through to Drawer implementations.
type Batch any

// Scene is the view of the spatial scene that entities and components see.
type Scene interface {
	SafeInsert(e *Entity)
	SafeRemove(e *Entity)
	FindByName(name string) *Entity
	Query(box geometry.BoundingBox) []*Entity
	TransformMoved(t *Transform)
	Reconcile(t *Transform) error
}

// Base carries the owner and active flag shared by most components.
type Base struct {
	owner    *Entity
	disabled bool
}

func NewBase(owner *Entity) Base {
	return Base{owner: owner}
}

func (b *Base) Owner() *Entity        { return b.owner }
func (b *Base) IsActive() bool        { return !b.disabled }
func (b *Base) SetActive(active bool) { b.disabled = !active }

// ComponentOf returns the first component of type T on the entity.
func ComponentOf[T any](e *Entity) (T, bool) {
	for _, c := range e.components {
		if typed, ok := c.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}

// ComponentsOf returns every component of type T on the entity.
func ComponentsOf[T any](e *Entity) []T {
	var out []T
	for _, c := range e.components {
		if typed, ok := c.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}
