package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/quadworld/internal/core/geometry"
	"github.com/zeusync/quadworld/internal/core/observability/log"
	"github.com/zeusync/quadworld/internal/core/scene"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the process configuration.
type Config struct {
	LogLevel string       `yaml:"log_level"`
	Scene    SceneConfig  `yaml:"scene"`
	Server   ServerConfig `yaml:"server"`
}

type SceneConfig struct {
	Capacity int          `yaml:"capacity"`
	MaxDepth int          `yaml:"max_depth"`
	Strict   bool         `yaml:"strict_subdivision"`
	Bounds   BoundsConfig `yaml:"bounds"`
}

// BoundsConfig is a box on the X/Z plane given as [x, z] pairs.
type BoundsConfig struct {
	Min [2]float32 `yaml:"min"`
	Max [2]float32 `yaml:"max"`
}

type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	// ReadLimit caps the size of a single inbound message in bytes.
	ReadLimit int64 `yaml:"read_limit"`
	// Token, when set, must accompany every touch feed connection.
	Token string `yaml:"token"`
}

func Default() Config {
	opts := scene.DefaultOptions()
	return Config{
		LogLevel: log.LevelInfo.String(),
		Scene: SceneConfig{
			Capacity: opts.Capacity,
			MaxDepth: opts.MaxDepth,
			Bounds: BoundsConfig{
				Min: [2]float32{opts.Bounds.Min.X, opts.Bounds.Min.Y},
				Max: [2]float32{opts.Bounds.Max.X, opts.Bounds.Max.Y},
			},
		},
		Server: ServerConfig{
			ListenAddr: "127.0.0.1:8090",
			ReadLimit:  4096,
		},
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	return Decode(bytes.NewReader(data))
}

// Decode reads YAML on top of the defaults and validates the result. An empty
// document yields the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "log_level: %v", err)
	}
	if c.Scene.Capacity < 1 {
		return errors.Wrapf(ErrInvalidConfig, "scene.capacity must be at least 1, got %d", c.Scene.Capacity)
	}
	if c.Scene.MaxDepth < 0 {
		return errors.Wrapf(ErrInvalidConfig, "scene.max_depth must not be negative, got %d", c.Scene.MaxDepth)
	}
	b := c.Scene.Bounds
	if b.Min[0] >= b.Max[0] || b.Min[1] >= b.Max[1] {
		return errors.Wrapf(ErrInvalidConfig, "scene.bounds min %v must be below max %v", b.Min, b.Max)
	}
	if c.Server.ReadLimit < 0 {
		return errors.Wrapf(ErrInvalidConfig, "server.read_limit must not be negative, got %d", c.Server.ReadLimit)
	}
	return nil
}

// Level returns the parsed log level. It assumes Validate passed.
func (c Config) Level() log.Level {
	level, _ := log.ParseLevel(c.LogLevel)
	return level
}

// SceneOptions converts the scene section.
func (c Config) SceneOptions() scene.Options {
	return scene.Options{
		Capacity: c.Scene.Capacity,
		MaxDepth: c.Scene.MaxDepth,
		Strict:   c.Scene.Strict,
		Bounds:   c.Scene.Bounds.Box(),
	}
}

func (b BoundsConfig) Box() geometry.BoundingBox {
	return geometry.NewBoundingBox(geometry.V2(b.Min[0], b.Min[1]), geometry.V2(b.Max[0], b.Max[1]))
}
