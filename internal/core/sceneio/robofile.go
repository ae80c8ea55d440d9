package sceneio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/robosim/robosim/internal/core/observability/log"
)

// Legacy block type names.
const (
	blockAutonomous = "AutonomousRobot"
	blockRemote     = "RemoteRobot"
	blockObstacle   = "Obstacle"
)

// ParseRoboFile reads the legacy text format: named blocks of
// `key = value` lines wrapped in `Type {` ... `}`, with `#` comment
// lines. Unknown block types and malformed lines are logged and
// skipped, never fatal; only an unreadable stream is an error.
func ParseRoboFile(r io.Reader, logger log.Log) (*Scenario, error) {
	if logger == nil {
		logger = log.Nop()
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	s := &Scenario{fingerprint: xxhash.Sum64(data)}

	var (
		currentType string
		attrs       map[string]string
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case strings.HasSuffix(line, "{"):
			currentType = strings.TrimSpace(strings.TrimSuffix(line, "{"))
			attrs = make(map[string]string)
		case strings.HasPrefix(line, "}"):
			if currentType != "" {
				s.appendBlock(currentType, attrs, logger)
				currentType = ""
			}
		default:
			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 || attrs == nil {
				logger.Warn("skipping malformed scenario line", log.String("line", line))
				continue
			}
			attrs[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan scenario: %w", err)
	}
	return s, nil
}

// appendBlock turns one parsed block into a spec. Blocks that would
// violate the constructors' assumptions are reported and dropped, the
// rest of the file still loads.
func (s *Scenario) appendBlock(blockType string, attrs map[string]string, logger log.Log) {
	switch blockType {
	case blockAutonomous:
		spec := RobotSpec{
			Type:            TypeAutonomous,
			X:               attrFloat(attrs, "positionX"),
			Y:               attrFloat(attrs, "positionY"),
			Orientation:     orientationName(attrInt(attrs, "orientation")),
			Speed:           attrInt(attrs, "speed"),
			DetectionRadius: attrFloat(attrs, "detectionRadius"),
			AvoidanceAngle:  attrFloat(attrs, "avoidanceAngle"),
		}
		if spec.Speed < 0 || spec.DetectionRadius <= 0 {
			logger.Warn("skipping invalid robot block", log.String("type", blockType))
			return
		}
		s.Robots = append(s.Robots, spec)
	case blockRemote:
		spec := RobotSpec{
			Type:            TypeRemote,
			X:               attrFloat(attrs, "positionX"),
			Y:               attrFloat(attrs, "positionY"),
			Speed:           attrInt(attrs, "speed"),
			DetectionRadius: attrFloat(attrs, "detectionRadius"),
		}
		if spec.Speed < 0 || spec.DetectionRadius <= 0 {
			logger.Warn("skipping invalid robot block", log.String("type", blockType))
			return
		}
		s.Robots = append(s.Robots, spec)
	case blockObstacle:
		spec := ObstacleSpec{
			X:    attrFloat(attrs, "positionX"),
			Y:    attrFloat(attrs, "positionY"),
			Size: attrFloat(attrs, "width"),
		}
		if spec.Size <= 0 {
			logger.Warn("skipping invalid obstacle block", log.String("type", blockType))
			return
		}
		s.Obstacles = append(s.Obstacles, spec)
	default:
		logger.Warn("skipping unknown scenario block", log.String("type", blockType))
	}
}

// orientationName maps the legacy orientation index to its name:
// 0 top, 1 right, 2 bottom, 3 left. Out-of-range values face right.
func orientationName(index int) string {
	switch index {
	case 0:
		return "top"
	case 1:
		return "right"
	case 2:
		return "bottom"
	case 3:
		return "left"
	default:
		return "right"
	}
}

func attrFloat(attrs map[string]string, key string) float64 {
	v, err := strconv.ParseFloat(attrs[key], 64)
	if err != nil {
		return 0
	}
	return v
}

func attrInt(attrs map[string]string, key string) int {
	v, err := strconv.Atoi(attrs[key])
	if err != nil {
		return 0
	}
	return v
}
