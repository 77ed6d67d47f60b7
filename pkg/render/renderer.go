// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-craft/pkg/engine"
	"github.com/opd-ai/go-craft/pkg/logging"
)

// Renderer draws game state snapshots
type Renderer interface {
	Render(state *engine.GameState)
}

// NullRenderer logs frames instead of drawing them. Used for headless runs.
type NullRenderer struct {
	logger *logging.Logger
	every  uint64
	frames uint64
}

// NewNullRenderer creates a renderer that logs one in every frames at debug level.
// every below one logs each frame.
func NewNullRenderer(logger *logging.Logger, every uint64) *NullRenderer {
	if logger == nil {
		logger = logging.Discard()
	}
	if every < 1 {
		every = 1
	}
	return &NullRenderer{logger: logger, every: every}
}

// Render implements Renderer.
func (d *NullRenderer) Render(state *engine.GameState) {
	ctx := context.Background()
	if state == nil {
		d.logger.Debug(ctx, "Render called with nil state")
		return
	}
	d.frames++
	if d.frames%d.every != 0 {
		return
	}
	d.logger.Debug(ctx, "frame",
		"frame", state.Frame,
		"level", state.Level,
		"x", state.Position.X(),
		"y", state.Position.Y(),
		"controllable", state.Craft.Controllable,
		"shield", state.Craft.HasShield,
		"invincible", state.Craft.Invincible,
		"effects", state.Effects,
	)
}

// Frames returns how many states have been rendered
func (d *NullRenderer) Frames() uint64 {
	return d.frames
}

var (
	_ Renderer = (*NullRenderer)(nil)
	_ Renderer = (*TerminalRenderer)(nil)
)
