package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/quadworld/internal/core/collision"
	"github.com/zeusync/quadworld/internal/core/geometry"
	"github.com/zeusync/quadworld/internal/core/input"
	"github.com/zeusync/quadworld/internal/core/models"
	"github.com/zeusync/quadworld/internal/core/system"
	"github.com/zeusync/quadworld/internal/core/systems/physics"
)

var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is a scripted simulation: a set of entities, a number of frames to
// run and touch strokes replayed frame by frame.
type Scenario struct {
	Name     string         `yaml:"name"`
	Frames   int            `yaml:"frames"`
	DT       float32        `yaml:"dt"`
	Entities []EntityConfig `yaml:"entities"`
	Strokes  []StrokeConfig `yaml:"strokes"`
}

type EntityConfig struct {
	Name     string          `yaml:"name"`
	Position [3]float32      `yaml:"position"`
	Scale    *[3]float32     `yaml:"scale"`
	Velocity [2]float32      `yaml:"velocity"`
	Static   bool            `yaml:"static"`
	UI       bool            `yaml:"ui"`
	Collider *ColliderConfig `yaml:"collider"`
}

// ColliderConfig holds exactly one shape.
type ColliderConfig struct {
	AABB   *BoundsConfig `yaml:"aabb"`
	Convex [][2]float32  `yaml:"convex"`
}

// StrokeConfig is one finger. Either Points or Circle describes the path; one
// sample is emitted per frame starting at StartFrame.
type StrokeConfig struct {
	ID         int64         `yaml:"id"`
	StartFrame int           `yaml:"start_frame"`
	Points     [][2]float32  `yaml:"points"`
	Circle     *CircleStroke `yaml:"circle"`
}

type CircleStroke struct {
	Center  [2]float32 `yaml:"center"`
	Radius  float32    `yaml:"radius"`
	Samples int        `yaml:"samples"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scenario")
	}
	return DecodeScenario(bytes.NewReader(data))
}

func DecodeScenario(r io.Reader) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "parse scenario")
	}
	if s.DT == 0 {
		s.DT = 1.0 / 60
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) Validate() error {
	if s.Frames < 0 {
		return errors.Wrapf(ErrInvalidScenario, "frames must not be negative, got %d", s.Frames)
	}
	if s.DT < 0 {
		return errors.Wrapf(ErrInvalidScenario, "dt must not be negative, got %v", s.DT)
	}
	for i, e := range s.Entities {
		if e.Name == "" {
			return errors.Wrapf(ErrInvalidScenario, "entity %d has no name", i)
		}
		if c := e.Collider; c != nil {
			if (c.AABB == nil) == (len(c.Convex) == 0) {
				return errors.Wrapf(ErrInvalidScenario, "entity %q needs exactly one collider shape", e.Name)
			}
			if len(c.Convex) > 0 && len(c.Convex) < 3 {
				return errors.Wrapf(ErrInvalidScenario, "entity %q convex collider needs 3 vertices", e.Name)
			}
		}
	}
	for i, st := range s.Strokes {
		if (st.Circle == nil) == (len(st.Points) == 0) {
			return errors.Wrapf(ErrInvalidScenario, "stroke %d needs either points or circle", i)
		}
		if st.StartFrame < 0 {
			return errors.Wrapf(ErrInvalidScenario, "stroke %d starts before frame 0", i)
		}
		if st.Circle != nil && st.Circle.Samples < 2 {
			return errors.Wrapf(ErrInvalidScenario, "stroke %d circle needs at least 2 samples", i)
		}
	}
	return nil
}

// Populate spawns the scenario entities into w and returns them by name.
func (s *Scenario) Populate(w *system.World) (map[string]*models.Entity, error) {
	out := make(map[string]*models.Entity, len(s.Entities))
	for _, ec := range s.Entities {
		e := models.NewEntity(ec.Name, geometry.V3(ec.Position[0], ec.Position[1], ec.Position[2]))
		if ec.Scale != nil {
			e.Transform().SetScale(geometry.V3(ec.Scale[0], ec.Scale[1], ec.Scale[2]))
		}

		switch {
		case ec.Static:
			physics.NewStatic(e)
		case ec.Velocity != [2]float32{}:
			physics.NewBody(e, geometry.V2(ec.Velocity[0], ec.Velocity[1]))
		}

		if c := ec.Collider; c != nil {
			col, err := buildCollider(e, c)
			if err != nil {
				return nil, fmt.Errorf("entity %q: %w", ec.Name, err)
			}
			w.AddCollider(col)
		}

		if ec.UI {
			w.SpawnUI(e)
		} else {
			w.Spawn(e)
		}
		out[ec.Name] = e
	}
	return out, nil
}

func buildCollider(e *models.Entity, c *ColliderConfig) (*collision.Collider, error) {
	if c.AABB != nil {
		return collision.NewAABB(e, c.AABB.Box()), nil
	}
	vertices := make([]geometry.Vec2, len(c.Convex))
	for i, v := range c.Convex {
		vertices[i] = geometry.V2(v[0], v[1])
	}
	return collision.NewConvex(e, vertices)
}

// Touches returns the touch samples of every stroke for frame. A stroke with a
// single point is a tap, pressed and released in the same frame.
func (s *Scenario) Touches(frame int) []input.Touch {
	var touches []input.Touch
	for _, st := range s.Strokes {
		path := st.path()
		i := frame - st.StartFrame
		if i < 0 || i >= len(path) {
			continue
		}
		if len(path) == 1 {
			touches = append(touches,
				input.Touch{ID: st.ID, Position: path[0], Phase: input.PhasePressed},
				input.Touch{ID: st.ID, Position: path[0], Phase: input.PhaseReleased},
			)
			continue
		}
		phase := input.PhaseMoved
		switch i {
		case 0:
			phase = input.PhasePressed
		case len(path) - 1:
			phase = input.PhaseReleased
		}
		touches = append(touches, input.Touch{ID: st.ID, Position: path[i], Phase: phase})
	}
	return touches
}

func (st StrokeConfig) path() []geometry.Vec2 {
	if c := st.Circle; c != nil {
		center := geometry.V2(c.Center[0], c.Center[1])
		points := make([]geometry.Vec2, c.Samples)
		for i := range points {
			angle := 2 * math32.Pi * float32(i) / float32(c.Samples)
			points[i] = center.Add(geometry.V2(math32.Cos(angle), math32.Sin(angle)).Scale(c.Radius))
		}
		return points
	}
	points := make([]geometry.Vec2, len(st.Points))
	for i, p := range st.Points {
		points[i] = geometry.V2(p[0], p[1])
	}
	return points
}
