// Package craft implements the control layer of a single piloted body: pilot input
// becomes forces, and level contacts become crash, success, shield and bounce
// transitions.
package craft

import (
	"context"
	"time"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-craft/pkg/event"
	"github.com/opd-ai/go-craft/pkg/logging"
	"github.com/opd-ai/go-craft/pkg/timer"
)

// Craft is the piloted entity of one level instance.
// It is not safe for concurrent use; the engine serializes all calls.
type Craft struct {
	ecs.BasicEntity

	deps      Dependencies
	settings  Settings
	motion    *MotionController
	scheduler *timer.Scheduler

	ctx    context.Context
	logger *logging.Logger
	bus    *event.Bus

	controllable bool
	collidable   bool
	invincible   bool
	hasShield    bool

	// fixedY is the world height held during freeze recovery
	fixedY float64

	destroyed bool
}

// Snapshot is a read-only copy of the craft's control flags
type Snapshot struct {
	Controllable  bool
	Collidable    bool
	Invincible    bool
	HasShield     bool
	Frozen        bool
	MotionEnabled bool
	Recovering    bool
}

// New creates a craft with full control, no shield and no invincibility.
// It fails if any required collaborator is missing.
func New(ctx context.Context, deps Dependencies, settings Settings) (*Craft, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	c := &Craft{
		BasicEntity:  ecs.NewBasic(),
		deps:         deps,
		settings:     settings,
		scheduler:    timer.NewScheduler(),
		ctx:          ctx,
		logger:       logger,
		bus:          deps.Bus,
		controllable: true,
		collidable:   true,
	}
	c.motion = NewMotionController(deps, c, c.scheduler, settings)
	c.motion.onFreeze = c.onFreezeChanged

	deps.Shield.SetActive(false)
	return c, nil
}

// Controllable reports whether pilot input is honored
func (c *Craft) Controllable() bool { return c.controllable }

// Collidable reports whether solid contacts are processed
func (c *Craft) Collidable() bool { return c.collidable }

// Invincible reports whether crash classification is suppressed
func (c *Craft) Invincible() bool { return c.invincible }

// HasShield reports whether a shield pickup is held
func (c *Craft) HasShield() bool { return c.hasShield }

// Motion returns the craft's motion controller
func (c *Craft) Motion() *MotionController { return c.motion }

// Body returns the physical body handle
func (c *Craft) Body() Body { return c.deps.Body }

// Scheduler returns the craft's timer scheduler
func (c *Craft) Scheduler() *timer.Scheduler { return c.scheduler }

// Destroyed reports whether Destroy has been called
func (c *Craft) Destroyed() bool { return c.destroyed }

// Snapshot copies the current flags
func (c *Craft) Snapshot() Snapshot {
	return Snapshot{
		Controllable:  c.controllable,
		Collidable:    c.collidable,
		Invincible:    c.invincible,
		HasShield:     c.hasShield,
		Frozen:        c.motion.Frozen(),
		MotionEnabled: c.motion.Enabled(),
		Recovering:    c.scheduler.Active(timer.FreezeRecovery),
	}
}

// FixedUpdate runs the motion controller for one physics tick of dt seconds
func (c *Craft) FixedUpdate(dt float64) MotionOutput {
	if c.destroyed {
		return MotionOutput{Skipped: true}
	}
	return c.motion.FixedUpdate(dt)
}

// PostStep is called after each body integration step and holds the recovery height
func (c *Craft) PostStep() {
	if c.destroyed || !c.scheduler.Active(timer.FreezeRecovery) {
		return
	}
	c.pinHeight()
}

// Update runs the per-frame work: queued debug commands, then timers
func (c *Craft) Update(dt time.Duration) {
	if c.destroyed {
		return
	}
	c.drainDebug()
	c.scheduler.Advance(dt)
}

// Destroy removes the craft from play. Every pending timer is dropped.
func (c *Craft) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.scheduler.Close()
	c.logger.Debug(c.ctx, "craft destroyed", "craft_id", c.ID())
}

func (c *Craft) drainDebug() {
	if c.deps.Debug == nil {
		return
	}
	for {
		cmd, ok := c.deps.Debug.NextDebug()
		if !ok {
			return
		}
		c.HandleDebug(cmd)
	}
}

// HandleDebug applies one developer command
func (c *Craft) HandleDebug(cmd DebugCommand) {
	if c.destroyed {
		return
	}
	switch cmd {
	case DebugAdvanceLevel:
		c.logger.Info(c.ctx, "debug: advancing level", "craft_id", c.ID())
		c.deps.Scenes.LoadNext()
	case DebugToggleCollidable:
		c.collidable = !c.collidable
		c.logger.Info(c.ctx, "debug: collision toggled", "craft_id", c.ID(), "collidable", c.collidable)
		c.publish(event.CollisionToggled)
	default:
		c.logger.Warn(c.ctx, "unknown debug command", "command", int(cmd))
	}
}

func (c *Craft) onFreezeChanged(frozen bool) {
	if frozen {
		c.publish(event.ControlsFrozen)
		return
	}
	c.publish(event.ControlsUnfrozen)
}

func (c *Craft) publish(eventType event.Type) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(event.NewCraftEvent(eventType, c, c.ID()))
}
