package collision

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zeusync/quadworld/internal/core/geometry"
	"github.com/zeusync/quadworld/internal/core/models"
	"github.com/zeusync/quadworld/internal/core/observability/log"
	"github.com/zeusync/quadworld/pkg/generic"
)

var snapshots = generic.NewSlicePool[*Collider](64)

// Resolution describes one push applied to a moving entity.
type Resolution struct {
	Mover *models.Entity
	Other *models.Entity
	Kinds [2]Kind
	Axis  geometry.Vec2
	Depth float32
}

// Stats counts broad-phase work since the last ResetStats.
type Stats struct {
	ChecksMade     int
	PossibleChecks int
	Resolved       int
}

// Context is the collider registry of one scene. Every moving collider is
// checked against every other registered collider.
type Context struct {
	colliders []*Collider
	stats     Stats
	log       log.Log
}

func NewContext(logger log.Log) *Context {
	return &Context{log: log.OrNop(logger)}
}

func (c *Context) Register(col *Collider) {
	c.colliders = append(c.colliders, col)
}

// Deregister removes the collider. Entities do not deregister on destroy.
func (c *Context) Deregister(col *Collider) bool {
	i := slices.Index(c.colliders, col)
	if i < 0 {
		return false
	}
	c.colliders = slices.Delete(c.colliders, i, i+1)
	return true
}

// DeregisterEntity removes every collider owned by e.
func (c *Context) DeregisterEntity(e *models.Entity) int {
	before := len(c.colliders)
	c.colliders = slices.DeleteFunc(c.colliders, func(col *Collider) bool { return col.Owner() == e })
	return before - len(c.colliders)
}

func (c *Context) Colliders() []*Collider {
	return c.colliders
}

func (c *Context) Len() int {
	return len(c.colliders)
}

func (c *Context) Stats() Stats {
	return c.stats
}

func (c *Context) ResetStats() {
	c.stats = Stats{}
}

// HandleMovement checks the first collider of e against the registry and
// pushes e out of everything it overlaps. Each overlap is resolved once, in
// registration order. Unsupported pairings are logged and reported.
func (c *Context) HandleMovement(e *models.Entity) ([]Resolution, error) {
	mover, ok := models.ComponentOf[*Collider](e)
	if !ok || !mover.IsActive() {
		return nil, nil
	}

	buf := snapshots.Get()
	defer snapshots.Put(buf)
	*buf = append(*buf, c.colliders...)
	others := *buf
	c.stats.PossibleChecks += len(others)

	var (
		resolved []Resolution
		errs     []error
	)
	for _, other := range others {
		if other.Owner() == e || !other.IsActive() || !other.Owner().IsActive() {
			continue
		}
		c.stats.ChecksMade++

		if !mover.WorldBounds().Intersects(other.WorldBounds()) {
			continue
		}

		r, err := c.narrowPhase(mover, other)
		if err != nil {
			c.log.Error("cannot resolve collider pair",
				log.String("mover", e.Name()),
				log.String("other", other.Owner().Name()),
				log.Stringer("mover_kind", mover.Kind()),
				log.Stringer("other_kind", other.Kind()),
			)
			errs = append(errs, err)
			continue
		}
		if r == nil {
			continue
		}

		e.Transform().Translate(r.Axis.Scale(r.Depth).XZ())
		c.stats.Resolved++
		resolved = append(resolved, *r)
	}

	return resolved, errors.Join(errs...)
}

func (c *Context) narrowPhase(mover, other *Collider) (*Resolution, error) {
	r := &Resolution{
		Mover: mover.Owner(),
		Other: other.Owner(),
		Kinds: [2]Kind{mover.Kind(), other.Kind()},
	}

	switch {
	case mover.kind == KindAABB && other.kind == KindAABB:
		r.Axis, r.Depth = ResolveAABB(mover.WorldBounds(), other.WorldBounds())
		return r, nil

	case valid(mover.kind) && valid(other.kind):
		res := Test(mover.WorldVertices(), other.WorldVertices())
		if !res.Collides {
			return nil, nil
		}
		r.Axis, r.Depth = res.Axis, res.Depth
		return r, nil

	default:
		return nil, fmt.Errorf("%w: %s vs %s", ErrUnsupportedPair, mover.kind, other.kind)
	}
}

func valid(k Kind) bool {
	return k == KindAABB || k == KindConvex
}

// Raycast returns the active colliders whose world bounds the ray crosses.
func (c *Context) Raycast(ray geometry.Ray) []*Collider {
	var hits []*Collider
	for _, col := range c.colliders {
		if col.IsActive() && col.WorldBounds().IntersectsRay(ray) {
			hits = append(hits, col)
		}
	}
	return hits
}
