// Package scene builds visibility test worlds from a YAML description.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

const (
	KindPerspective  = "perspective"
	KindOrthographic = "orthographic"
)

// Config describes one world: a camera and groups of randomly placed entities.
type Config struct {
	Seed   uint64        `yaml:"seed"`
	Camera CameraConfig  `yaml:"camera"`
	Groups []GroupConfig `yaml:"groups"`
}

// CameraConfig places the single scene camera.
type CameraConfig struct {
	Kind string `yaml:"kind"`
	// FovY is the vertical field of view in degrees (perspective only).
	FovY   float32 `yaml:"fovy"`
	Aspect float32 `yaml:"aspect"`
	// Extent is the half-height of the view volume (orthographic only).
	Extent   float32    `yaml:"extent"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	Position mgl32.Vec3 `yaml:"position"`
	Target   mgl32.Vec3 `yaml:"target"`
	// OrbitSpeed in radians per second; zero keeps the camera still.
	OrbitSpeed float32 `yaml:"orbit_speed"`
}

// GroupConfig spawns Count entities uniformly inside a cube of half-size
// Spread around Center.
type GroupConfig struct {
	Name   string     `yaml:"name"`
	Count  int        `yaml:"count"`
	Center mgl32.Vec3 `yaml:"center"`
	Spread float32    `yaml:"spread"`
	// Radius of the bounding sphere. Zero spawns no BoundingSphere, so the
	// unit default applies.
	Radius float32 `yaml:"radius"`
	// Scale is the [min, max] range of uniform scale.
	Scale [2]float32 `yaml:"scale"`
	// Transparent and Hidden are the fractions of the group given those markers.
	Transparent float64 `yaml:"transparent"`
	Hidden      float64 `yaml:"hidden"`
}

// Default is the scene used when no file is given.
func Default() Config {
	return Config{
		Seed: 1,
		Camera: CameraConfig{
			Kind:       KindPerspective,
			FovY:       60,
			Aspect:     16.0 / 9.0,
			Near:       0.1,
			Far:        400,
			Position:   mgl32.Vec3{0, 40, 150},
			OrbitSpeed: 0.25,
		},
		Groups: []GroupConfig{
			{Name: "boulders", Count: 2000, Spread: 200, Radius: 2, Scale: [2]float32{1, 3}},
			{Name: "glass", Count: 500, Spread: 120, Radius: 1, Scale: [2]float32{1, 2}, Transparent: 1},
			{Name: "markers", Count: 300, Spread: 150, Scale: [2]float32{0.5, 1}, Transparent: 0.3},
			{Name: "ghosts", Count: 100, Spread: 100, Radius: 1, Scale: [2]float32{1, 1}, Hidden: 1},
		},
	}
}

// Load reads and validates a scene file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("scene: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the default camera. Groups given in the
// document replace the default groups. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	cfg.Groups = nil

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("scene: decode: %w", err)
	}

	if cfg.Groups == nil {
		cfg.Groups = Default().Groups
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem found, each wrapping ErrInvalidScene.
func (c Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidScene}, args...)...))
	}

	cam := c.Camera
	switch cam.Kind {
	case KindPerspective:
		if cam.FovY <= 0 || cam.FovY >= 180 {
			fail("camera.fovy %v not in (0, 180)", cam.FovY)
		}
	case KindOrthographic:
		if cam.Extent <= 0 {
			fail("camera.extent must be positive")
		}
	default:
		fail("camera.kind %q is not %q or %q", cam.Kind, KindPerspective, KindOrthographic)
	}
	if cam.Aspect <= 0 {
		fail("camera.aspect must be positive")
	}
	if cam.Near <= 0 || cam.Far <= cam.Near {
		fail("camera needs 0 < near < far, got near=%v far=%v", cam.Near, cam.Far)
	}
	if cam.Position.ApproxEqual(cam.Target) {
		fail("camera.position and camera.target coincide")
	}

	names := make(map[string]bool, len(c.Groups))
	for i, g := range c.Groups {
		if g.Name == "" {
			fail("groups[%d] has no name", i)
		} else if names[g.Name] {
			fail("group %q defined twice", g.Name)
		}
		names[g.Name] = true

		if g.Count < 0 {
			fail("group %q: count is negative", g.Name)
		}
		if g.Spread < 0 || g.Radius < 0 {
			fail("group %q: spread and radius must not be negative", g.Name)
		}
		if g.Scale[0] <= 0 || g.Scale[1] < g.Scale[0] {
			fail("group %q: scale needs 0 < min <= max, got %v", g.Name, g.Scale)
		}
		if g.Transparent < 0 || g.Transparent > 1 || g.Hidden < 0 || g.Hidden > 1 {
			fail("group %q: transparent and hidden are fractions in [0, 1]", g.Name)
		}
	}

	return errors.Join(errs...)
}

// Total is the number of entities the groups will spawn.
func (c Config) Total() int {
	n := 0
	for _, g := range c.Groups {
		n += g.Count
	}
	return n
}
