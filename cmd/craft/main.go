// cmd/craft/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-craft/pkg/audio"
	"github.com/opd-ai/go-craft/pkg/camera"
	"github.com/opd-ai/go-craft/pkg/config"
	"github.com/opd-ai/go-craft/pkg/engine"
	"github.com/opd-ai/go-craft/pkg/event"
	"github.com/opd-ai/go-craft/pkg/input"
	"github.com/opd-ai/go-craft/pkg/logging"
	"github.com/opd-ai/go-craft/pkg/render"
)

type options struct {
	configPath string
	headless   bool
	frames     int
	startLevel int
	frameRate  int
	scale      float64
	logPath    string
}

func main() {
	ctx := logging.WithSessionID(context.Background(), logging.GenerateSessionID())
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.NewLogger()

	envConfig, err := config.LoadConfigFromEnv()
	if err != nil {
		logger.Error(ctx, "Failed to load environment configuration", err)
		os.Exit(1)
	}

	opts := options{}
	flag.StringVar(&opts.configPath, "config", envConfig.ConfigPath, "Path to a JSON or YAML configuration file")
	createDefault := flag.Bool("default", false, "Write the default configuration to -config and exit")
	flag.BoolVar(&opts.headless, "headless", envConfig.Headless, "Fly a scripted route without a terminal")
	flag.IntVar(&opts.frames, "frames", 600, "Frames to run in headless mode")
	flag.IntVar(&opts.startLevel, "level", envConfig.StartLevel, "Index of the first level")
	flag.IntVar(&opts.frameRate, "fps", envConfig.FrameRate, "Frames per second")
	flag.Float64Var(&opts.scale, "scale", 0.5, "World units per terminal row")
	flag.StringVar(&opts.logPath, "log", "", "Log file for terminal mode (default: discard)")
	flag.Parse()

	if *createDefault {
		if opts.configPath == "" {
			opts.configPath = "config.json"
		}
		if err := config.SaveConfig(config.DefaultConfig(), opts.configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err, "config_path", opts.configPath)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file", "config_path", opts.configPath)
		return
	}

	gameConfig, err := loadConfig(ctx, logger, opts.configPath, envConfig)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err, "config_path", opts.configPath)
		os.Exit(1)
	}

	if opts.headless {
		err = runHeadless(ctx, logger, gameConfig, opts)
	} else {
		err = runTerminal(ctx, gameConfig, opts)
	}
	if err != nil {
		logger.Error(ctx, "Game exited with error", err)
		os.Exit(1)
	}
}

func loadConfig(ctx context.Context, logger *logging.Logger, path string, env *config.EnvironmentConfig) (*config.GameConfig, error) {
	var gameConfig *config.GameConfig
	if path == "" {
		logger.Info(ctx, "No configuration file given, using default configuration")
		gameConfig = config.DefaultConfig()
	} else if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Info(ctx, "Configuration file not found, using default configuration", "config_path", path)
		gameConfig = config.DefaultConfig()
	} else {
		gameConfig, err = config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	env.Apply(gameConfig)
	if err := gameConfig.Validate(); err != nil {
		return nil, logging.WrapError(err, "invalid configuration after environment overrides")
	}
	return gameConfig, nil
}

func frameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}

// watchGame logs the level flow
func watchGame(ctx context.Context, logger *logging.Logger, bus *event.Bus) {
	bus.Subscribe(event.LevelTransition, func(e event.Event) {
		if le, ok := e.(*event.LevelEvent); ok {
			logger.Info(ctx, "Level transition", "from", le.From, "to", le.To, "reason", le.Reason)
		}
	})
	for _, t := range []event.Type{event.CraftCrashed, event.LevelCompleted, event.ShieldAbsorbed, event.ShieldPickedUp} {
		bus.Subscribe(t, func(event.Event) {
			logger.Info(ctx, "Craft event", "event", string(t))
		})
	}
}

// demoRoute climbs off the pad, leans right and coasts
func demoRoute() (*input.Script, error) {
	return input.NewScript(
		input.Step{Duration: 1500 * time.Millisecond, Thrust: 1},
		input.Step{Duration: 300 * time.Millisecond, Rotation: 1},
		input.Step{Duration: 1200 * time.Millisecond, Thrust: 1},
		input.Step{Duration: 300 * time.Millisecond, Rotation: -1},
		input.Step{Duration: 2 * time.Second},
	)
}

func runHeadless(ctx context.Context, logger *logging.Logger, gameConfig *config.GameConfig, opts options) error {
	script, err := demoRoute()
	if err != nil {
		return err
	}

	game, err := engine.NewGame(ctx, gameConfig, engine.Options{
		Input:      script,
		Logger:     logger,
		StartLevel: opts.startLevel,
	})
	if err != nil {
		return logging.WrapError(err, "failed to create game")
	}
	watchGame(ctx, logger, game.EventBus)

	renderer := render.NewNullRenderer(logger, 30)
	dt := frameInterval(opts.frameRate)

	game.Start()
	defer game.Stop()
	for i := 0; i < opts.frames; i++ {
		if ctx.Err() != nil {
			break
		}
		game.Update(dt)
		renderer.Render(game.GetGameState())
	}

	state := game.GetGameState()
	logger.Info(ctx, "Headless run finished",
		"frames", state.Frame,
		"ticks", state.Tick,
		"level", state.Level,
		"state", state.String(),
	)
	return nil
}

func runTerminal(ctx context.Context, gameConfig *config.GameConfig, opts options) error {
	logger := logging.Discard()
	if opts.logPath != "" {
		f, err := os.OpenFile(opts.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return logging.WrapError(err, "failed to open log file %s", opts.logPath)
		}
		defer f.Close()
		logger = logging.NewLoggerWithWriter(f, logging.ParseLevel(os.Getenv("CRAFT_LOG_LEVEL")))
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return logging.WrapError(err, "failed to create screen")
	}
	if err := screen.Init(); err != nil {
		return logging.WrapError(err, "failed to initialize screen")
	}
	defer screen.Fini()

	rig := camera.NewRig(mgl64.Vec3(gameConfig.Camera.Offset))
	rig.SetSmoothing(true, 8)

	sound := audio.NewEngine(gameConfig.Audio.SampleRate, gameConfig.Audio.Enabled, rig.Focus)
	closeSpeaker, err := openSpeaker(sound, 100*time.Millisecond)
	if err != nil {
		logger.Warn(ctx, "Audio unavailable, continuing without sound", "error", err.Error())
		sound = audio.NewEngine(gameConfig.Audio.SampleRate, false, rig.Focus)
		closeSpeaker = sound.Close
	}
	defer closeSpeaker()

	keyboard := input.NewKeyboard()
	game, err := engine.NewGame(ctx, gameConfig, engine.Options{
		Input:      keyboard,
		Debug:      keyboard,
		Audio:      sound,
		Camera:     rig,
		Logger:     logger,
		StartLevel: opts.startLevel,
	})
	if err != nil {
		return logging.WrapError(err, "failed to create game")
	}
	watchGame(ctx, logger, game.EventBus)

	width, height := screen.Size()
	renderer := render.NewTerminalRenderer(width, height, opts.scale)

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	dt := frameInterval(opts.frameRate)
	ticker := time.NewTicker(dt)
	defer ticker.Stop()

	game.Start()
	defer game.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if resize, ok := ev.(*tcell.EventResize); ok {
				renderer.Resize(resize.Size())
				screen.Sync()
				continue
			}
			if keyboard.HandleEvent(ev) == input.ActionQuit {
				return nil
			}
		case now := <-ticker.C:
			game.Update(now.Sub(last))
			last = now
			renderer.Render(game.GetGameState())
			renderer.Present(screen)
		}
	}
}
