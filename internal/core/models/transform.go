package models

import "github.com/zeusync/quadworld/internal/core/geometry"

// Transform holds the spatial state of an entity. Changing the position of an
// indexed entity marks it dirty and reports it to the scene's moved list.
type Transform struct {
	owner    *Entity
	position geometry.Vec3
	previous geometry.Vec3
	rotation geometry.Vec3
	scale    geometry.Vec3
	dirty    bool
}

func newTransform(owner *Entity, position geometry.Vec3) *Transform {
	return &Transform{
		owner:    owner,
		position: position,
		scale:    geometry.One3,
	}
}

func (t *Transform) Owner() *Entity                  { return t.owner }
func (t *Transform) Position() geometry.Vec3         { return t.position }
func (t *Transform) PreviousPosition() geometry.Vec3 { return t.previous }
func (t *Transform) Rotation() geometry.Vec3         { return t.rotation }
func (t *Transform) SetRotation(r geometry.Vec3)     { t.rotation = r }
func (t *Transform) Scale() geometry.Vec3            { return t.scale }
func (t *Transform) SetScale(s geometry.Vec3)        { t.scale = s }
func (t *Transform) Dirty() bool                     { return t.dirty }
func (t *Transform) ClearDirty()                     { t.dirty = false }

// Delta is the displacement caused by the last position change.
func (t *Transform) Delta() geometry.Vec3 {
	return t.position.Sub(t.previous)
}

// SetPosition moves the transform. Every effective change of an indexed
// entity is reported to the scene; repeated moves are reported repeatedly.
func (t *Transform) SetPosition(p geometry.Vec3) {
	if p == t.position {
		return
	}
	t.previous = t.position
	t.position = p

	if t.owner.InTree() {
		t.dirty = true
		t.owner.scene.TransformMoved(t)
	}
}

func (t *Transform) Translate(by geometry.Vec3) {
	t.SetPosition(t.position.Add(by))
}

// Reconcile asks the owning scene to re-home the entity if it has left its
// leaf. Transforms outside any scene just drop their dirty mark.
func (t *Transform) Reconcile() error {
	if t.owner.scene == nil {
		t.dirty = false
		return nil
	}
	return t.owner.scene.Reconcile(t)
}
