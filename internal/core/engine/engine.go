package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robosim/robosim/internal/core/arena"
	"github.com/robosim/robosim/internal/core/events/bus"
	"github.com/robosim/robosim/internal/core/observability/log"
	"github.com/robosim/robosim/internal/core/robot"
	"github.com/robosim/robosim/pkg/sequence"
)

// DefaultTickInterval is the reference cadence of the simulation.
const DefaultTickInterval = 10 * time.Millisecond

// Event types the engine publishes on its bus.
const (
	EventStarted      = "engine.started"
	EventStopped      = "engine.stopped"
	EventPaused       = "engine.paused"
	EventResumed      = "engine.resumed"
	EventRobotAvoided = "robot.avoided"
	EventRobotHalted  = "robot.halted"
)

// Op is a control operation targeting one remote robot.
type Op string

const (
	OpMoveForward Op = "move_forward"
	OpStop        Op = "stop"
	OpRotateLeft  Op = "rotate_left"
	OpRotateRight Op = "rotate_right"
)

// Command targets a remote robot by ID. Commands are queued and applied
// at the start of the next tick, so an update pass never observes a
// half-applied intent.
type Command struct {
	RobotID uuid.UUID
	Op      Op
}

// Engine advances every registered robot exactly once per tick, in
// insertion order. All robot mutation happens on the tick goroutine;
// the command queue is the only cross-goroutine entry point.
type Engine struct {
	mu       sync.Mutex
	scene    *arena.Scene
	robots   []robot.Agent
	commands *sequence.Queue[Command]

	eventBus *bus.Bus
	logger   log.Log

	tickInterval time.Duration
	tickCount    uint64
	fingerprint  uint64

	running  bool
	paused   bool
	stopChan chan struct{}
	stopOnce *sync.Once
}

// New creates an engine over the given scene. A nil logger silences the
// engine and a non-positive tick interval falls back to the default.
func New(scene *arena.Scene, eventBus *bus.Bus, logger log.Log, tickInterval time.Duration) *Engine {
	if logger == nil {
		logger = log.Nop()
	}
	if tickInterval <= 0 {
		tickInterval = DefaultTickInterval
	}
	return &Engine{
		scene:        scene,
		commands:     sequence.NewQueue[Command](),
		eventBus:     eventBus,
		logger:       logger,
		tickInterval: tickInterval,
	}
}

// Scene returns the scene the engine simulates over.
func (e *Engine) Scene() *arena.Scene {
	return e.scene
}

// AddRobot registers a robot with both the scene and the engine's
// deterministic tick order.
func (e *Engine) AddRobot(a robot.Agent) error {
	if err := e.scene.Add(a); err != nil {
		return fmt.Errorf("failed to add robot to scene: %w", err)
	}

	e.mu.Lock()
	e.robots = append(e.robots, a)
	e.mu.Unlock()
	return nil
}

// RemoveRobot removes a robot from the tick order and the scene.
// Returns false if the robot is unknown.
func (e *Engine) RemoveRobot(id uuid.UUID) bool {
	e.mu.Lock()
	found := false
	for i, a := range e.robots {
		if a.ID() == id {
			e.robots = append(e.robots[:i], e.robots[i+1:]...)
			found = true
			break
		}
	}
	e.mu.Unlock()

	if found {
		e.scene.Remove(id)
	}
	return found
}

// Clear removes every robot and obstacle. Queued commands are dropped
// along with their targets.
func (e *Engine) Clear() {
	e.mu.Lock()
	e.robots = nil
	e.commands = sequence.NewQueue[Command]()
	e.mu.Unlock()

	e.scene.Clear()
	e.logger.Info("scene cleared")
}

// Robots returns the robots in tick order.
func (e *Engine) Robots() []robot.Agent {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]robot.Agent, len(e.robots))
	copy(out, e.robots)
	return out
}

// Enqueue queues a command for application at the next tick boundary.
func (e *Engine) Enqueue(cmd Command) {
	e.mu.Lock()
	e.commands.Enqueue(cmd)
	e.mu.Unlock()
}

// SetFingerprint records the fingerprint of the loaded scenario so
// snapshot consumers can detect scene swaps.
func (e *Engine) SetFingerprint(fp uint64) {
	e.mu.Lock()
	e.fingerprint = fp
	e.mu.Unlock()
}

// TickAll advances the simulation by exactly one tick: queued commands
// first, then every robot once, in insertion order. Autonomous robots
// self-drive; remote robots get their pending rotation applied and then
// update only while moving.
func (e *Engine) TickAll() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.drainCommandsLocked()

	for _, a := range e.robots {
		switch r := a.(type) {
		case *robot.Remote:
			r.ApplyRotation()
			if !r.Moving() {
				continue
			}
			r.Update()
			if !r.Moving() {
				e.publish(EventRobotHalted, r.ID())
				e.logger.Debug("remote robot halted on obstacle",
					log.String("robot_id", r.ID().String()))
			}
		case *robot.Autonomous:
			r.Update()
			if r.Avoiding() {
				e.publish(EventRobotAvoided, r.ID())
			}
		default:
			a.Update()
		}
	}

	e.tickCount++
}

func (e *Engine) drainCommandsLocked() {
	for {
		cmd, ok := e.commands.Dequeue()
		if !ok {
			return
		}
		e.applyLocked(cmd)
	}
}

func (e *Engine) applyLocked(cmd Command) {
	target := e.remoteLocked(cmd.RobotID)
	if target == nil {
		e.logger.Warn("command for unknown remote robot",
			log.String("robot_id", cmd.RobotID.String()),
			log.String("op", string(cmd.Op)))
		return
	}

	switch cmd.Op {
	case OpMoveForward:
		target.MoveForward()
	case OpStop:
		target.Stop()
	case OpRotateLeft:
		target.RotateLeft()
	case OpRotateRight:
		target.RotateRight()
	default:
		e.logger.Warn("unknown command op", log.String("op", string(cmd.Op)))
	}
}

func (e *Engine) remoteLocked(id uuid.UUID) *robot.Remote {
	for _, a := range e.robots {
		if r, ok := a.(*robot.Remote); ok && r.ID() == id {
			return r
		}
	}
	return nil
}

func (e *Engine) publish(eventType string, source uuid.UUID) {
	if e.eventBus == nil {
		return
	}
	e.eventBus.Publish(bus.Event{Type: eventType, Source: source})
}
