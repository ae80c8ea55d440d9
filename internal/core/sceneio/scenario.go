// Package sceneio loads scene descriptions from disk and instantiates
// them into the simulation. Two formats are supported: YAML scenarios
// and the legacy block format (`Type { key = value ... }`).
package sceneio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"github.com/robosim/robosim/internal/core/arena"
	"github.com/robosim/robosim/internal/core/engine"
	"github.com/robosim/robosim/internal/core/geo"
	"github.com/robosim/robosim/internal/core/observability/log"
	"github.com/robosim/robosim/internal/core/robot"
)

// Robot type names accepted in scenario files.
const (
	TypeAutonomous = "autonomous"
	TypeRemote     = "remote"
)

// RobotSpec describes one robot in a scenario file.
type RobotSpec struct {
	Type            string  `yaml:"type"`
	X               float64 `yaml:"x"`
	Y               float64 `yaml:"y"`
	Orientation     string  `yaml:"orientation,omitempty"`
	Speed           int     `yaml:"speed"`
	DetectionRadius float64 `yaml:"detection_radius"`
	AvoidanceAngle  float64 `yaml:"avoidance_angle,omitempty"`
}

// ObstacleSpec describes one obstacle in a scenario file.
type ObstacleSpec struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Size float64 `yaml:"size"`
}

// Scenario is a full scene description loaded from disk.
type Scenario struct {
	Robots    []RobotSpec    `yaml:"robots"`
	Obstacles []ObstacleSpec `yaml:"obstacles"`

	fingerprint uint64
}

// Fingerprint returns the xxhash64 digest of the raw scenario bytes.
// Snapshot consumers use it to detect scene swaps.
func (s *Scenario) Fingerprint() uint64 {
	return s.fingerprint
}

// Validate checks every spec for values the constructors assume valid.
func (s *Scenario) Validate() error {
	for i, r := range s.Robots {
		if r.Type != TypeAutonomous && r.Type != TypeRemote {
			return fmt.Errorf("robot %d: unknown type %q", i, r.Type)
		}
		if r.Speed < 0 {
			return fmt.Errorf("robot %d: speed must not be negative, got %d", i, r.Speed)
		}
		if r.DetectionRadius <= 0 {
			return fmt.Errorf("robot %d: detection radius must be positive, got %v", i, r.DetectionRadius)
		}
		if r.Orientation != "" {
			if _, err := parseOrientation(r.Orientation); err != nil {
				return fmt.Errorf("robot %d: %w", i, err)
			}
		}
	}
	for i, o := range s.Obstacles {
		if o.Size <= 0 {
			return fmt.Errorf("obstacle %d: size must be positive, got %v", i, o.Size)
		}
	}
	return nil
}

// LoadYAML reads a YAML scenario.
func LoadYAML(r io.Reader) (*Scenario, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	s.fingerprint = xxhash.Sum64(data)
	return &s, nil
}

// Load reads a scenario from path, choosing the format by extension:
// .yaml/.yml scenarios, anything else the legacy block format.
func Load(path string, logger log.Log) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(f)
	default:
		return ParseRoboFile(f, logger)
	}
}

// Populate instantiates the scenario into the engine's scene. Entities
// that would land on occupied space are skipped with a warning, in the
// same way the interactive creation dialogs reject such placements.
func (s *Scenario) Populate(eng *engine.Engine, logger log.Log) error {
	if logger == nil {
		logger = log.Nop()
	}
	scene := eng.Scene()

	for i, spec := range s.Obstacles {
		bounds := geo.R(spec.X, spec.Y, spec.Size, spec.Size)
		if scene.Occupied(bounds) {
			logger.Warn("skipping obstacle on occupied space",
				log.Int("index", i),
				log.Float64("x", spec.X),
				log.Float64("y", spec.Y))
			continue
		}

		obstacle, err := arena.NewObstacle(spec.X, spec.Y, spec.Size)
		if err != nil {
			return fmt.Errorf("obstacle %d: %w", i, err)
		}
		if err := scene.Add(obstacle); err != nil {
			return fmt.Errorf("obstacle %d: %w", i, err)
		}
	}

	for i, spec := range s.Robots {
		bounds := geo.RectAround(geo.V(spec.X, spec.Y), robot.Radius)
		if scene.Occupied(bounds) {
			logger.Warn("skipping robot on occupied space",
				log.Int("index", i),
				log.Float64("x", spec.X),
				log.Float64("y", spec.Y))
			continue
		}

		agent, err := spec.build(scene)
		if err != nil {
			return fmt.Errorf("robot %d: %w", i, err)
		}
		if err := eng.AddRobot(agent); err != nil {
			return fmt.Errorf("robot %d: %w", i, err)
		}
	}

	return nil
}

func (spec RobotSpec) build(scene robot.SpatialQuery) (robot.Agent, error) {
	switch spec.Type {
	case TypeAutonomous:
		orient := robot.OrientationRight
		if spec.Orientation != "" {
			var err error
			orient, err = parseOrientation(spec.Orientation)
			if err != nil {
				return nil, err
			}
		}
		return robot.NewAutonomous(scene, spec.X, spec.Y, orient,
			spec.DetectionRadius, spec.AvoidanceAngle, spec.Speed), nil
	case TypeRemote:
		return robot.NewRemote(scene, spec.X, spec.Y, spec.Speed, spec.DetectionRadius), nil
	default:
		return nil, fmt.Errorf("unknown robot type %q", spec.Type)
	}
}

func parseOrientation(name string) (robot.Orientation, error) {
	switch strings.ToLower(name) {
	case "top":
		return robot.OrientationTop, nil
	case "right":
		return robot.OrientationRight, nil
	case "bottom":
		return robot.OrientationBottom, nil
	case "left":
		return robot.OrientationLeft, nil
	default:
		return 0, fmt.Errorf("unknown orientation %q", name)
	}
}
