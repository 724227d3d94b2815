package scene

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zeusync/quadworld/internal/core/geometry"
	"github.com/zeusync/quadworld/internal/core/models"
	"github.com/zeusync/quadworld/internal/core/observability/log"
)

const rootNode models.NodeID = 0

var noChildren = [4]models.NodeID{models.NoNode, models.NoNode, models.NoNode, models.NoNode}

// DefaultMaxDepth stops subdivision once midpoints no longer fit the float32
// mantissa. A leaf at this depth keeps growing past capacity.
const DefaultMaxDepth = 24

// quadNode is either a leaf holding entities or an internal node holding four
// children. Nodes are never freed, so depth only grows.
type quadNode struct {
	bounds   geometry.BoundingBox
	entities []*models.Entity
	children [4]models.NodeID
	leaf     bool
	depth    int
}

// TreeOptions configures a Tree at construction time.
type TreeOptions struct {
	Bounds   geometry.BoundingBox
	Capacity int
	MaxDepth int
	// Strict keeps an overflowing leaf intact when subdivision would drop an
	// entity, instead of dropping it and recording an orphan.
	Strict bool
}

// Stats is a snapshot of the tree shape.
type Stats struct {
	Nodes    int
	Leaves   int
	Entities int
	Depth    int
	Orphans  int
}

// Tree is a point quad-tree stored in an arena. Entities keep the NodeID of
// the leaf that holds them.
type Tree struct {
	nodes    []quadNode
	capacity int
	maxDepth int
	strict   bool
	depth    int
	owner    models.Scene
	orphans  []*models.Entity
	log      log.Log
}

func NewTree(owner models.Scene, opts TreeOptions, logger log.Log) *Tree {
	if opts.Capacity < 1 {
		opts.Capacity = 1
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	t := &Tree{
		capacity: opts.Capacity,
		maxDepth: opts.MaxDepth,
		strict:   opts.Strict,
		owner:    owner,
		log:      log.OrNop(logger),
	}
	t.nodes = append(t.nodes, newLeaf(opts.Bounds, 0))
	return t
}

func newLeaf(bounds geometry.BoundingBox, depth int) quadNode {
	return quadNode{
		bounds:   bounds,
		children: noChildren,
		leaf:     true,
		depth:    depth,
	}
}

func (t *Tree) Bounds() geometry.BoundingBox {
	return t.nodes[rootNode].bounds
}

func (t *Tree) Capacity() int {
	return t.capacity
}

// LeafBounds returns the bound of the node behind a handle.
func (t *Tree) LeafBounds(id models.NodeID) (geometry.BoundingBox, bool) {
	if !t.valid(id) {
		return geometry.BoundingBox{}, false
	}
	return t.nodes[id].bounds, true
}

// IsLeaf reports whether the handle currently names a leaf.
func (t *Tree) IsLeaf(id models.NodeID) bool {
	return t.valid(id) && t.nodes[id].leaf
}

func (t *Tree) valid(id models.NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Insert places the entity in the single leaf whose bound contains its
// position. Overflowing the leaf subdivides it.
func (t *Tree) Insert(e *models.Entity) error {
	if e.InTree() {
		return fmt.Errorf("%w: %s", ErrAlreadyIndexed, e.Name())
	}
	pos := e.Position()
	if !t.nodes[rootNode].bounds.ContainsXZ(pos) {
		return fmt.Errorf("%w: %s at (%g, %g)", ErrOutOfBounds, e.Name(), pos.X, pos.Z)
	}

	id := rootNode
	for !t.nodes[id].leaf {
		next := t.childFor(id, pos)
		if next == models.NoNode {
			return fmt.Errorf("%w: %s at (%g, %g)", ErrNotContained, e.Name(), pos.X, pos.Z)
		}
		id = next
	}

	t.nodes[id].entities = append(t.nodes[id].entities, e)
	e.Bind(t.owner, id)
	t.forgetOrphan(e)

	if len(t.nodes[id].entities) > t.capacity {
		return t.subdivide(id)
	}
	return nil
}

// childFor returns the first child, in quadrant order, containing pos.
func (t *Tree) childFor(id models.NodeID, pos geometry.Vec3) models.NodeID {
	for _, child := range t.nodes[id].children {
		if t.nodes[child].bounds.ContainsXZ(pos) {
			return child
		}
	}
	return models.NoNode
}

func (t *Tree) subdivide(id models.NodeID) error {
	node := t.nodes[id]
	if node.depth >= t.maxDepth {
		t.log.Debug("quad-tree leaf at max depth",
			log.Int("depth", node.depth),
			log.Int("entities", len(node.entities)),
		)
		return nil
	}

	first := models.NodeID(len(t.nodes))
	for i, quadrant := range node.bounds.Split() {
		t.nodes = append(t.nodes, newLeaf(quadrant, node.depth+1))
		node.children[i] = first + models.NodeID(i)
	}

	// The children are wired in before redistribution so childFor can be used.
	t.nodes[id].children = node.children
	held := node.entities

	if t.strict {
		for _, e := range held {
			if t.childFor(id, e.Position()) == models.NoNode {
				t.nodes = t.nodes[:first]
				t.nodes[id].children = noChildren
				return fmt.Errorf("%w: %s kept in overflowing leaf", ErrSubdivisionLostEntity, e.Name())
			}
		}
	}

	var errs []error
	for _, e := range held {
		child := t.childFor(id, e.Position())
		if child == models.NoNode {
			errs = append(errs, t.orphan(e, ErrSubdivisionLostEntity))
			continue
		}
		t.nodes[child].entities = append(t.nodes[child].entities, e)
		e.Bind(t.owner, child)
	}

	t.nodes[id].entities = nil
	t.nodes[id].leaf = false
	if node.depth+1 > t.depth {
		t.depth = node.depth + 1
	}

	return errors.Join(errs...)
}

// orphan drops the tree handle of an entity that no leaf can hold.
func (t *Tree) orphan(e *models.Entity, cause error) error {
	e.Unbind()
	t.addOrphan(e)
	pos := e.Position()
	t.log.Error("entity lost from quad-tree",
		log.Stringer("id", e.ID()),
		log.String("name", e.Name()),
		log.Float32("x", pos.X),
		log.Float32("z", pos.Z),
		log.Error(cause),
	)
	return fmt.Errorf("%w: %s", cause, e.Name())
}

func (t *Tree) addOrphan(e *models.Entity) {
	if !slices.Contains(t.orphans, e) {
		t.orphans = append(t.orphans, e)
	}
}

func (t *Tree) forgetOrphan(e *models.Entity) bool {
	n := len(t.orphans)
	t.orphans = slices.DeleteFunc(t.orphans, func(o *models.Entity) bool { return o == e })
	return len(t.orphans) != n
}

// Remove detaches the entity through its leaf handle, or by searching every
// leaf when the handle is stale. Orphans are forgotten as well.
func (t *Tree) Remove(e *models.Entity) error {
	if id := e.TreeNode(); t.IsLeaf(id) && t.detach(id, e) {
		return nil
	}
	for i := range t.nodes {
		if t.nodes[i].leaf && t.detach(models.NodeID(i), e) {
			return nil
		}
	}
	if t.forgetOrphan(e) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotFound, e.Name())
}

func (t *Tree) detach(id models.NodeID, e *models.Entity) bool {
	entities := t.nodes[id].entities
	for i, held := range entities {
		if held == e {
			t.nodes[id].entities = append(entities[:i], entities[i+1:]...)
			e.Unbind()
			return true
		}
	}
	return false
}

// Query returns the contents of every leaf whose bound intersects box. Leaf
// contents are not filtered against box.
func (t *Tree) Query(box geometry.BoundingBox) []*models.Entity {
	return t.query(rootNode, box, nil)
}

func (t *Tree) query(id models.NodeID, box geometry.BoundingBox, out []*models.Entity) []*models.Entity {
	node := &t.nodes[id]
	if node.leaf {
		return append(out, node.entities...)
	}
	for _, child := range node.children {
		if t.nodes[child].bounds.Intersects(box) {
			out = t.query(child, box, out)
		}
	}
	return out
}

// Walk visits every indexed entity depth-first in quadrant order until fn
// returns false.
func (t *Tree) Walk(fn func(e *models.Entity) bool) {
	t.walk(rootNode, fn)
}

func (t *Tree) walk(id models.NodeID, fn func(e *models.Entity) bool) bool {
	node := &t.nodes[id]
	if node.leaf {
		for _, e := range node.entities {
			if !fn(e) {
				return false
			}
		}
		return true
	}
	for _, child := range node.children {
		if !t.walk(child, fn) {
			return false
		}
	}
	return true
}

// Find returns the first entity matching the predicate.
func (t *Tree) Find(match func(e *models.Entity) bool) *models.Entity {
	var found *models.Entity
	t.Walk(func(e *models.Entity) bool {
		if match(e) {
			found = e
			return false
		}
		return true
	})
	return found
}

// FindAll appends every matching entity to out.
func (t *Tree) FindAll(match func(e *models.Entity) bool, out []*models.Entity) []*models.Entity {
	t.Walk(func(e *models.Entity) bool {
		if match(e) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// Leaves visits every leaf handle with its bound.
func (t *Tree) Leaves(fn func(id models.NodeID, bounds geometry.BoundingBox, entities []*models.Entity)) {
	for i := range t.nodes {
		if t.nodes[i].leaf {
			fn(models.NodeID(i), t.nodes[i].bounds, t.nodes[i].entities)
		}
	}
}

func (t *Tree) Orphans() []*models.Entity {
	return t.orphans
}

func (t *Tree) Stats() Stats {
	s := Stats{Nodes: len(t.nodes), Depth: t.depth, Orphans: len(t.orphans)}
	for i := range t.nodes {
		if t.nodes[i].leaf {
			s.Leaves++
			s.Entities += len(t.nodes[i].entities)
		}
	}
	return s
}
