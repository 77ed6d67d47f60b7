// pkg/engine/game.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/EngoEngine/ecs"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-craft/pkg/audio"
	"github.com/opd-ai/go-craft/pkg/camera"
	"github.com/opd-ai/go-craft/pkg/config"
	"github.com/opd-ai/go-craft/pkg/craft"
	"github.com/opd-ai/go-craft/pkg/effect"
	"github.com/opd-ai/go-craft/pkg/entity"
	"github.com/opd-ai/go-craft/pkg/event"
	"github.com/opd-ai/go-craft/pkg/logging"
	"github.com/opd-ai/go-craft/pkg/physics"
	"github.com/opd-ai/go-craft/pkg/scene"
)

// FrameAdvancer is implemented by inputs that play back against frame time
type FrameAdvancer interface {
	Advance(dt time.Duration)
}

// Options are the collaborators a game is built with.
// Input is required; the rest default to headless implementations.
type Options struct {
	Input      craft.Input
	Debug      craft.DebugSource
	Audio      *audio.Engine
	Camera     *camera.Rig
	Logger     *logging.Logger
	StartLevel int
}

// Game owns the ECS world, the active level and the craft flying through it
type Game struct {
	Config      *config.GameConfig
	World       *ecs.World
	EventBus    *event.Bus
	Scenes      *scene.Manager
	Objects     *entity.Registry
	Camera      *camera.Rig
	Audio       *audio.Engine
	Effects     effect.Set
	Shield      *effect.Shield
	Locomotion  *audio.Source
	EntityLock  sync.Mutex
	TimeStep    time.Duration // fixed physics step
	CurrentTick uint64
	Frame       uint64
	Running     bool

	input  craft.Input
	debug  craft.DebugSource
	sounds craft.Sounds

	level scene.Level
	craft *craft.Craft
	body  *physics.RigidBody

	clock    *frameClock
	physics  *PhysicsSystem
	pilot    *CraftSystem
	follow   *CameraSystem

	ctx    context.Context
	logger *logging.Logger
}

// NewGame validates cfg, builds the world and loads the start level
func NewGame(ctx context.Context, cfg *config.GameConfig, opts Options) (*Game, error) {
	if cfg == nil {
		return nil, errors.New("game config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Input == nil {
		return nil, errors.New("game input is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	scenes, err := scene.NewManager(cfg.Levels, opts.StartLevel)
	if err != nil {
		return nil, logging.WrapError(err, "failed to create scene manager")
	}

	g := &Game{
		Config:   cfg,
		World:    &ecs.World{},
		EventBus: event.NewEventBus(),
		Scenes:   scenes,
		Objects:  entity.NewRegistry(),
		Camera:   opts.Camera,
		Audio:    opts.Audio,
		Effects:  effect.NewSet(),
		TimeStep: cfg.Physics.FixedTimeStep.Duration(),
		input:    opts.Input,
		debug:    opts.Debug,
		sounds:   DefaultSounds(),
		clock:    &frameClock{},
		ctx:      ctx,
		logger:   opts.Logger,
	}
	if g.logger == nil {
		g.logger = logging.Discard()
	}
	if g.Camera == nil {
		g.Camera = camera.NewRig(mgl64.Vec3(cfg.Camera.Offset))
	}
	if g.Audio == nil {
		g.Audio = audio.NewEngine(cfg.Audio.SampleRate, false, g.Camera.Focus)
	}
	if err := g.Audio.Validate(g.sounds.Thrust, g.sounds.Success, g.sounds.Crash,
		g.sounds.ShieldPickup, g.sounds.ShieldBreak); err != nil {
		return nil, logging.WrapError(err, "invalid audio setup")
	}
	g.Locomotion = g.Audio.NewSource(cfg.Audio.VolumeScale)
	g.Shield = effect.NewShield(g.craftPosition)

	g.initSystems()
	if err := g.loadLevel(g.Scenes.Current(), "start"); err != nil {
		return nil, err
	}
	return g, nil
}

// DefaultSounds maps the craft's cues onto the built-in audio clips
func DefaultSounds() craft.Sounds {
	return craft.Sounds{
		Thrust:       audio.ClipThrust,
		Success:      audio.ClipSuccess,
		Crash:        audio.ClipCrash,
		ShieldPickup: audio.ClipShieldPickup,
		ShieldBreak:  audio.ClipShieldBreak,
	}
}

func (g *Game) initSystems() {
	g.physics = &PhysicsSystem{
		clock:    g.clock,
		step:     g.TimeStep,
		objects:  g.Objects,
		detector: NewContactDetector(),
		outcomes: make(map[craft.Outcome]int),
	}
	g.pilot = &CraftSystem{clock: g.clock}
	g.follow = &CameraSystem{clock: g.clock, rig: g.Camera}

	g.World.AddSystem(g.physics)
	g.World.AddSystem(g.pilot)
	g.World.AddSystem(g.follow)
}

func (g *Game) craftPosition() mgl64.Vec3 {
	if g.body == nil {
		return mgl64.Vec3{}
	}
	return g.body.Position()
}

// Start marks the game as running
func (g *Game) Start() {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()
	g.Running = true
	g.logger.Info(g.ctx, "game started", "level", g.level.Index, "level_name", g.level.Name)
}

// Stop halts the game and destroys the craft
func (g *Game) Stop() {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()
	if !g.Running {
		return
	}
	g.Running = false
	g.removeCraft()
	g.Locomotion.Stop()
	g.logger.Info(g.ctx, "game stopped", "frames", g.Frame, "ticks", g.physics.Ticks())
}

// Update advances the game by one frame of dt
func (g *Game) Update(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}

	// Lock the entire update to keep the frame consistent
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	if adv, ok := g.input.(FrameAdvancer); ok {
		adv.Advance(dt)
	}

	g.clock.dt = dt
	g.World.Update(float32(dt.Seconds()))
	g.CurrentTick = g.physics.Ticks()
	g.Frame++

	g.applyTransition()
}

// applyTransition builds the level a protocol or debug command asked for
func (g *Game) applyTransition() {
	req, level, ok := g.Scenes.Take()
	if !ok {
		return
	}

	from := g.level.Index
	if err := g.loadLevel(level, req.String()); err != nil {
		g.logger.Error(g.ctx, "level transition failed", err, "from", from, "to", level.Index)
		return
	}
	g.EventBus.Publish(event.NewLevelEvent(event.LevelTransition, g, from, level.Index, req.String()))
}

// loadLevel replaces the craft and objects with a fresh copy of level
func (g *Game) loadLevel(level scene.Level, reason string) error {
	from := g.level.Index
	g.removeCraft()
	g.resetCollaborators()

	g.Objects.Clear()
	g.Objects.Add(level.Objects()...)

	g.body = physics.NewRigidBody(level.Spawn, physics.BodyConfig{
		Mass:    g.Config.Physics.Mass,
		Drag:    g.Config.Physics.Drag,
		Gravity: mgl64.Vec3{0, -g.Config.Physics.Gravity, 0},
	})
	g.body.SetConstraints(physics.FreezeRotation | physics.FreezePositionZ)

	c, err := craft.New(g.ctx, g.dependencies(), craft.SettingsFromConfig(g.Config))
	if err != nil {
		return logging.WrapError(err, "failed to create craft for level %d", level.Index)
	}
	g.craft = c
	g.level = level

	g.physics.Add(c, g.body, g.Config.Craft.Radius)
	g.pilot.Add(c)
	g.follow.Add(g.body)

	g.logger.Info(g.ctx, "level loaded",
		"level", level.Index,
		"level_name", level.Name,
		"reason", reason,
		"objects", g.Objects.Len(),
		"craft_id", c.ID(),
	)
	g.EventBus.Publish(event.NewLevelEvent(event.LevelLoaded, g, from, level.Index, reason))
	return nil
}

func (g *Game) removeCraft() {
	if g.craft == nil {
		return
	}
	g.World.RemoveEntity(g.craft.BasicEntity)
	g.craft = nil
}

func (g *Game) resetCollaborators() {
	g.Locomotion.Stop()
	for _, e := range []*effect.Emitter{
		g.Effects.MainThruster, g.Effects.LeftThruster, g.Effects.RightThruster,
		g.Effects.Success, g.Effects.Crash,
	} {
		e.Stop()
	}
	g.Shield.SetActive(false)
}

func (g *Game) dependencies() craft.Dependencies {
	return craft.Dependencies{
		Body:       g.body,
		Input:      g.input,
		Audio:      g.Audio,
		Locomotion: g.Locomotion,
		Effects: craft.Effects{
			MainThruster:  g.Effects.MainThruster,
			LeftThruster:  g.Effects.LeftThruster,
			RightThruster: g.Effects.RightThruster,
			Success:       g.Effects.Success,
			Crash:         g.Effects.Crash,
		},
		Shield:  g.Shield,
		Scenes:  g.Scenes,
		Objects: g.Objects,
		Camera:  g.Camera,
		Sounds:  g.sounds,
		Debug:   g.debug,
		Bus:     g.EventBus,
		Logger:  g.logger,
	}
}

// Craft returns the craft of the active level
func (g *Game) Craft() *craft.Craft {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()
	return g.craft
}

// Body returns the rigid body of the active craft
func (g *Game) Body() *physics.RigidBody {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()
	return g.body
}

// Level returns the active level
func (g *Game) Level() scene.Level {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()
	return g.level
}

// Outcomes returns how often each contact outcome has occurred
func (g *Game) Outcomes() map[craft.Outcome]int {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()
	return g.physics.Outcomes()
}

// GetGameState returns a snapshot for display
func (g *Game) GetGameState() *GameState {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	state := &GameState{
		Frame:     g.Frame,
		Tick:      g.CurrentTick,
		Level:     g.level.Index,
		LevelName: g.level.Name,
		Camera:    g.Camera.Focus(),
		Effects:   g.Effects.Active(),
		Shield:    g.Shield.Active(),
	}
	if g.body != nil {
		state.Position = g.body.Position()
		state.Velocity = g.body.Velocity()
		state.Up = g.body.Up()
	}
	if g.craft != nil {
		state.Craft = g.craft.Snapshot()
	}
	for _, o := range g.Objects.Active() {
		state.Objects = append(state.Objects, ObjectState{
			ID:      o.ID,
			Name:    o.Name,
			Tag:     o.Tag,
			Trigger: o.Kind == entity.Trigger,
			Box:     o.Collider,
		})
	}
	return state
}

// GameState is a snapshot of the running game
type GameState struct {
	Frame     uint64
	Tick      uint64
	Level     int
	LevelName string
	Position  mgl64.Vec3
	Velocity  mgl64.Vec3
	Up        mgl64.Vec3
	Camera    mgl64.Vec3
	Craft     craft.Snapshot
	Effects   []string
	Shield    bool
	Objects   []ObjectState
}

// ObjectState is a snapshot of a level object
type ObjectState struct {
	ID      entity.ID
	Name    string
	Tag     string
	Trigger bool
	Box     physics.Box
}

func (s *GameState) String() string {
	return fmt.Sprintf("level=%d(%s) pos=(%.2f,%.2f) controllable=%v shield=%v invincible=%v",
		s.Level, s.LevelName, s.Position.X(), s.Position.Y(),
		s.Craft.Controllable, s.Craft.HasShield, s.Craft.Invincible)
}
