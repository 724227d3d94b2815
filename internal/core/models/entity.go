package models

import (
	"github.com/google/uuid"

	"github.com/zeusync/quadworld/internal/core/geometry"
)

// NodeID is a handle into a quad-tree node arena.
type NodeID int32

// NoNode marks an entity that is not indexed by any tree leaf.
const NoNode NodeID = -1

// Entity is a scene-graph node: a transform, behavior components and child
// entities. The leaf that indexes it is recorded as a NodeID handle.
type Entity struct {
	id         uuid.UUID
	name       string
	active     bool
	transform  *Transform
	components []Component
	parent     *Entity
	children   []*Entity

	scene Scene
	node  NodeID
}

// NewEntity creates an active entity at the given position with unit scale.
func NewEntity(name string, position geometry.Vec3) *Entity {
	e := &Entity{
		id:     uuid.New(),
		name:   name,
		active: true,
		node:   NoNode,
	}
	e.transform = newTransform(e, position)
	return e
}

func (e *Entity) ID() uuid.UUID           { return e.id }
func (e *Entity) Name() string            { return e.name }
func (e *Entity) SetName(name string)     { e.name = name }
func (e *Entity) IsActive() bool          { return e.active }
func (e *Entity) Transform() *Transform   { return e.transform }
func (e *Entity) Position() geometry.Vec3 { return e.transform.position }

// SetActive toggles the entity and all of its descendants.
func (e *Entity) SetActive(active bool) {
	e.active = active
	for _, child := range e.children {
		child.SetActive(active)
	}
}

func (e *Entity) AddComponent(c Component) {
	e.components = append(e.components, c)
}

func (e *Entity) RemoveComponent(c Component) bool {
	for i, existing := range e.components {
		if existing == c {
			e.components = append(e.components[:i], e.components[i+1:]...)
			return true
		}
	}
	return false
}

func (e *Entity) Components() []Component {
	return e.components
}

func (e *Entity) Parent() *Entity { return e.parent }

func (e *Entity) Children() []*Entity { return e.children }

func (e *Entity) AddChild(child *Entity) {
	child.parent = e
	e.children = append(e.children, child)
}

func (e *Entity) RemoveChild(child *Entity) bool {
	for i, existing := range e.children {
		if existing == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Scene returns the scene currently indexing the entity, or nil.
func (e *Entity) Scene() Scene { return e.scene }

// TreeNode returns the leaf handle, or NoNode when the entity is not indexed.
func (e *Entity) TreeNode() NodeID { return e.node }

// InTree reports whether a tree leaf currently holds the entity.
func (e *Entity) InTree() bool { return e.node != NoNode && e.scene != nil }

// Bind records the leaf that now holds the entity. Called by the tree.
func (e *Entity) Bind(scene Scene, node NodeID) {
	e.scene = scene
	e.node = node
}

// Unbind clears the leaf handle. The scene reference is kept so that a
// pending destroy still reaches it.
func (e *Entity) Unbind() {
	e.node = NoNode
}

// Destroy queues the entity for removal at the end of the frame.
func (e *Entity) Destroy() {
	if e.scene != nil {
		e.scene.SafeRemove(e)
	}
}
