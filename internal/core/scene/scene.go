package scene

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/quadworld/internal/core/geometry"
	"github.com/zeusync/quadworld/internal/core/input"
	"github.com/zeusync/quadworld/internal/core/models"
	"github.com/zeusync/quadworld/internal/core/observability/log"
)

var _ models.Scene = (*Scene)(nil)

// Options configures a Scene.
type Options struct {
	Capacity int
	Bounds   geometry.BoundingBox
	MaxDepth int
	Strict   bool
}

// DefaultOptions covers the whole int32 coordinate range with four entities
// per leaf.
func DefaultOptions() Options {
	return Options{
		Capacity: 4,
		Bounds: geometry.NewBoundingBox(
			geometry.V2(math.MinInt32, math.MinInt32),
			geometry.V2(math.MaxInt32, math.MaxInt32),
		),
		MaxDepth: DefaultMaxDepth,
	}
}

// Scene owns the quad-tree of world entities and a flat list of UI entities.
// Structural changes requested during a frame are queued and applied by Flush.
type Scene struct {
	tree *Tree
	ui   []*models.Entity

	pendingInsert   []*models.Entity
	pendingInsertUI []*models.Entity
	pendingRemove   []*models.Entity
	moved           []*models.Transform

	names      map[uint64][]*models.Entity
	traversals int
	log        log.Log
}

func New(opts Options, logger log.Log) *Scene {
	s := &Scene{
		names: make(map[uint64][]*models.Entity),
		log:   log.OrNop(logger),
	}
	s.tree = NewTree(s, TreeOptions{
		Bounds:   opts.Bounds,
		Capacity: opts.Capacity,
		MaxDepth: opts.MaxDepth,
		Strict:   opts.Strict,
	}, s.log)
	return s
}

func (s *Scene) Tree() *Tree {
	return s.tree
}

// Traversing reports whether an update, draw, start or query pass is running.
func (s *Scene) Traversing() bool {
	return s.traversals > 0
}

func (s *Scene) enter() func() {
	s.traversals++
	return func() { s.traversals-- }
}

// Insert adds the entity to the tree immediately.
func (s *Scene) Insert(e *models.Entity) error {
	if s.Traversing() {
		return ErrTraversalInProgress
	}
	return s.insert(e)
}

func (s *Scene) insert(e *models.Entity) error {
	err := s.tree.Insert(e)
	if e.TreeNode() != models.NoNode {
		s.index(e)
	}
	return err
}

// Remove detaches the entity from the tree, or from the UI list, immediately.
func (s *Scene) Remove(e *models.Entity) error {
	if s.Traversing() {
		return ErrTraversalInProgress
	}
	return s.remove(e)
}

func (s *Scene) remove(e *models.Entity) error {
	if i := slices.Index(s.ui, e); i >= 0 {
		s.ui = slices.Delete(s.ui, i, i+1)
		s.unindex(e)
		return nil
	}
	if err := s.tree.Remove(e); err != nil {
		return err
	}
	s.unindex(e)
	return nil
}

// SafeInsert queues the entity for insertion at the next Flush.
func (s *Scene) SafeInsert(e *models.Entity) {
	s.pendingInsert = append(s.pendingInsert, e)
}

// SafeInsertUI queues the entity for the UI list at the next Flush.
func (s *Scene) SafeInsertUI(e *models.Entity) {
	s.pendingInsertUI = append(s.pendingInsertUI, e)
}

// SafeRemove queues the entity for removal at the next Flush.
func (s *Scene) SafeRemove(e *models.Entity) {
	s.pendingRemove = append(s.pendingRemove, e)
}

// Pending returns the number of queued structural changes.
func (s *Scene) Pending() int {
	return len(s.pendingInsert) + len(s.pendingInsertUI) + len(s.pendingRemove)
}

// Flush applies queued removals, then queued insertions, then runs the start
// hooks of everything inserted. Failures are logged and joined.
func (s *Scene) Flush() error {
	if s.Traversing() {
		return ErrTraversalInProgress
	}

	var errs []error

	removals := s.pendingRemove
	s.pendingRemove = nil
	for _, e := range removals {
		if err := s.remove(e); err != nil {
			s.log.Warn("queued removal failed", log.String("name", e.Name()), log.Error(err))
			errs = append(errs, err)
		}
	}

	inserts := s.pendingInsert
	s.pendingInsert = nil
	started := make([]*models.Entity, 0, len(inserts))
	for _, e := range inserts {
		if err := s.insert(e); err != nil {
			pos := e.Position()
			s.log.Error("queued insert failed",
				log.String("name", e.Name()),
				log.Float32("x", pos.X),
				log.Float32("z", pos.Z),
				log.Error(err),
			)
			errs = append(errs, err)
		}
		if e.TreeNode() != models.NoNode {
			started = append(started, e)
		}
	}
	if failed := len(inserts) - len(started); failed > 0 {
		s.log.Error("queued inserts incomplete",
			log.Int("inserted", len(started)),
			log.Int("failed", failed),
		)
	}

	uiInserts := s.pendingInsertUI
	s.pendingInsertUI = nil
	for _, e := range uiInserts {
		s.ui = append(s.ui, e)
		e.Bind(s, models.NoNode)
		s.index(e)
	}
	started = append(started, uiInserts...)

	s.start(started)

	return errors.Join(errs...)
}

// TransformMoved records a transform that needs reconciliation this frame.
// Repeated moves are recorded repeatedly.
func (s *Scene) TransformMoved(t *models.Transform) {
	s.moved = append(s.moved, t)
}

// Moved returns a copy of the transforms recorded since the last ClearMoved.
func (s *Scene) Moved() []*models.Transform {
	return slices.Clone(s.moved)
}

func (s *Scene) ClearMoved() {
	s.moved = s.moved[:0]
}

// Reconcile re-homes the entity if its position left its leaf. An entity that
// still fits its leaf, or whose position is NaN, is left in place.
func (s *Scene) Reconcile(t *models.Transform) error {
	defer t.ClearDirty()

	e := t.Owner()
	if !e.InTree() || e.Scene() != models.Scene(s) {
		return nil
	}
	pos := t.Position()
	if math.IsNaN(float64(pos.X)) {
		return nil
	}
	if bounds, ok := s.tree.LeafBounds(e.TreeNode()); ok && bounds.ContainsXZ(pos) {
		return nil
	}
	if s.Traversing() {
		return ErrTraversalInProgress
	}

	if err := s.tree.Remove(e); err != nil {
		s.log.Warn("reconcile remove failed", log.String("name", e.Name()), log.Error(err))
	}
	if err := s.tree.Insert(e); err != nil {
		if e.TreeNode() != models.NoNode {
			// Inserted, but a later subdivision step reported a loss.
			return err
		}
		s.log.Error("moved entity could not be reinserted",
			log.Stringer("id", e.ID()),
			log.String("name", e.Name()),
			log.Float32("x", pos.X),
			log.Float32("z", pos.Z),
			log.Error(err),
		)
		s.tree.addOrphan(e)
		return fmt.Errorf("%w: %w", ErrReinsertFailed, err)
	}
	return nil
}

// Update runs every active updater on active entities, tree first, then UI.
// It returns the number of components updated.
func (s *Scene) Update(dt float32, touches []input.Touch) int {
	defer s.enter()()

	count := 0
	visit := func(e *models.Entity) bool {
		if !e.IsActive() {
			return true
		}
		for _, c := range e.Components() {
			if u, ok := c.(models.Updater); ok && c.IsActive() {
				u.Update(dt, touches)
				count++
			}
		}
		return true
	}
	s.tree.Walk(visit)
	for _, e := range s.ui {
		visit(e)
	}
	return count
}

// Draw hands every active drawer the camera and batch. It returns the number
// of components drawn.
func (s *Scene) Draw(camera models.Camera, batch models.Batch) int {
	defer s.enter()()

	count := 0
	visit := func(e *models.Entity) bool {
		if !e.IsActive() {
			return true
		}
		for _, c := range e.Components() {
			if d, ok := c.(models.Drawer); ok && c.IsActive() {
				d.Draw(camera, batch)
				count++
			}
		}
		return true
	}
	s.tree.Walk(visit)
	for _, e := range s.ui {
		visit(e)
	}
	return count
}

// Start runs the start hook of every component in the scene.
func (s *Scene) Start() int {
	var all []*models.Entity
	s.tree.Walk(func(e *models.Entity) bool {
		all = append(all, e)
		return true
	})
	return s.start(append(all, s.ui...))
}

func (s *Scene) start(entities []*models.Entity) int {
	defer s.enter()()

	count := 0
	for _, e := range entities {
		for _, c := range e.Components() {
			if st, ok := c.(models.Starter); ok {
				st.Start(s)
				count++
			}
		}
	}
	return count
}

// Query returns tree entities from every leaf intersecting box. Callers
// filter the result themselves.
func (s *Scene) Query(box geometry.BoundingBox) []*models.Entity {
	defer s.enter()()
	return s.tree.Query(box)
}

// FindByName returns a tree entity with the name, then a UI entity, or nil.
func (s *Scene) FindByName(name string) *models.Entity {
	var uiMatch *models.Entity
	for _, e := range s.names[xxhash.Sum64String(name)] {
		if e.Name() != name {
			continue
		}
		if e.InTree() {
			return e
		}
		if uiMatch == nil && slices.Contains(s.ui, e) {
			uiMatch = e
		}
	}
	if uiMatch != nil {
		return uiMatch
	}
	// Renamed entities are missing from the index.
	return s.Find(func(e *models.Entity) bool { return e.Name() == name })
}

// Find returns the first tree entity, then UI entity, matching the predicate.
func (s *Scene) Find(match func(e *models.Entity) bool) *models.Entity {
	if e := s.tree.Find(match); e != nil {
		return e
	}
	for _, e := range s.ui {
		if match(e) {
			return e
		}
	}
	return nil
}

// FindAll returns every tree and UI entity matching the predicate.
func (s *Scene) FindAll(match func(e *models.Entity) bool) []*models.Entity {
	out := s.tree.FindAll(match, nil)
	for _, e := range s.ui {
		if match(e) {
			out = append(out, e)
		}
	}
	return out
}

// FindAllComponents collects the first component of type T from every tree
// entity that has one.
func FindAllComponents[T any](s *Scene) []T {
	var out []T
	s.tree.Walk(func(e *models.Entity) bool {
		if c, ok := models.ComponentOf[T](e); ok {
			out = append(out, c)
		}
		return true
	})
	return out
}

func (s *Scene) UI() []*models.Entity {
	return s.ui
}

// Orphans lists entities dropped from the tree by a failed subdivision or a
// failed reinsertion.
func (s *Scene) Orphans() []*models.Entity {
	return s.tree.Orphans()
}

func (s *Scene) Stats() Stats {
	return s.tree.Stats()
}

func (s *Scene) index(e *models.Entity) {
	key := xxhash.Sum64String(e.Name())
	if !slices.Contains(s.names[key], e) {
		s.names[key] = append(s.names[key], e)
	}
}

func (s *Scene) unindex(e *models.Entity) {
	if s.unindexKey(xxhash.Sum64String(e.Name()), e) {
		return
	}
	// Renamed since it was indexed.
	for key := range s.names {
		if s.unindexKey(key, e) {
			return
		}
	}
}

func (s *Scene) unindexKey(key uint64, e *models.Entity) bool {
	bucket := s.names[key]
	i := slices.Index(bucket, e)
	if i < 0 {
		return false
	}
	bucket = slices.Delete(bucket, i, i+1)
	if len(bucket) == 0 {
		delete(s.names, key)
	} else {
		s.names[key] = bucket
	}
	return true
}
