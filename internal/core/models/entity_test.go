package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/quadworld/internal/core/geometry"
)

type recordingScene struct {
	moved      []*Transform
	removed    []*Entity
	reconciled int
}

func (s *recordingScene) SafeInsert(*Entity)                   {}
func (s *recordingScene) SafeRemove(e *Entity)                 { s.removed = append(s.removed, e) }
func (s *recordingScene) FindByName(string) *Entity            { return nil }
func (s *recordingScene) Query(geometry.BoundingBox) []*Entity { return nil }
func (s *recordingScene) TransformMoved(t *Transform)          { s.moved = append(s.moved, t) }
func (s *recordingScene) Reconcile(t *Transform) error         { s.reconciled++; t.ClearDirty(); return nil }

type tag struct {
	Base
	label string
}

type marker struct{ Base }

func TestTransformReportsMovesOnlyWhenIndexed(t *testing.T) {
	e := NewEntity("crate", geometry.V3(1, 0, 1))
	scene := &recordingScene{}

	e.Transform().SetPosition(geometry.V3(2, 0, 2))
	assert.Empty(t, scene.moved, "unindexed entity must not be reported")
	assert.False(t, e.Transform().Dirty())

	e.Bind(scene, 3)
	e.Transform().SetPosition(geometry.V3(3, 0, 3))
	e.Transform().Translate(geometry.V3(1, 0, 0))
	e.Transform().SetPosition(geometry.V3(4, 0, 3)) // unchanged

	require.Len(t, scene.moved, 2, "each effective move is reported, without dedup")
	assert.True(t, e.Transform().Dirty())
	assert.Equal(t, geometry.V3(3, 0, 3), e.Transform().PreviousPosition())
	assert.Equal(t, geometry.V3(1, 0, 0), e.Transform().Delta())

	require.NoError(t, e.Transform().Reconcile())
	assert.Equal(t, 1, scene.reconciled)
	assert.False(t, e.Transform().Dirty())
}

func TestEntityHierarchyAndComponents(t *testing.T) {
	parent := NewEntity("room", geometry.Zero3)
	child := NewEntity("plant", geometry.Zero3)
	parent.AddChild(child)
	assert.Same(t, parent, child.Parent())

	parent.SetActive(false)
	assert.False(t, child.IsActive())
	parent.SetActive(true)
	assert.True(t, child.IsActive())

	first := &tag{Base: NewBase(parent), label: "first"}
	second := &tag{Base: NewBase(parent), label: "second"}
	parent.AddComponent(first)
	parent.AddComponent(&marker{Base: NewBase(parent)})
	parent.AddComponent(second)

	got, ok := ComponentOf[*tag](parent)
	require.True(t, ok)
	assert.Equal(t, "first", got.label)
	assert.Len(t, ComponentsOf[*tag](parent), 2)

	_, ok = ComponentOf[*tag](child)
	assert.False(t, ok, "missing components yield an empty result")

	assert.True(t, parent.RemoveComponent(first))
	assert.False(t, parent.RemoveComponent(first))
	got, _ = ComponentOf[*tag](parent)
	assert.Equal(t, "second", got.label)

	assert.True(t, parent.RemoveChild(child))
	assert.Nil(t, child.Parent())
}

func TestDestroyQueuesRemoval(t *testing.T) {
	e := NewEntity("dust", geometry.Zero3)
	e.Destroy() // no scene, nothing happens

	scene := &recordingScene{}
	e.Bind(scene, 0)
	e.Destroy()
	assert.Equal(t, []*Entity{e}, scene.removed)

	e.Unbind()
	assert.Equal(t, NoNode, e.TreeNode())
	assert.False(t, e.InTree())
	assert.NotNil(t, e.Scene())
}
