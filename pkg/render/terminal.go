package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-craft/pkg/engine"
	"github.com/opd-ai/go-craft/pkg/entity"
)

// cellAspect is how many columns cover the same world distance as one row
const cellAspect = 2.0

var (
	styleHostile  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleFriendly = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleFinish   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleShield   = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleCraft    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleHUD      = tcell.StyleDefault.Reverse(true)
)

type cell struct {
	r     rune
	style tcell.Style
}

// TerminalRenderer draws a side view of the level into a cell buffer and
// presents it on a tcell screen. The top row holds a status line.
type TerminalRenderer struct {
	width     int
	height    int
	buffer    [][]cell
	scale     float64 // world units per row
	centerPos mgl64.Vec3
}

// NewTerminalRenderer creates a new terminal renderer with the specified dimensions
func NewTerminalRenderer(width, height int, scale float64) *TerminalRenderer {
	r := &TerminalRenderer{scale: scale}
	if r.scale <= 0 {
		r.scale = 1
	}
	r.Resize(width, height)
	return r
}

// Resize reallocates the buffer, typically after a terminal resize event
func (r *TerminalRenderer) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	r.width, r.height = width, height
	r.buffer = make([][]cell, height)
	for i := range r.buffer {
		r.buffer[i] = make([]cell, width)
	}
	r.Clear()
}

// Size returns the buffer dimensions
func (r *TerminalRenderer) Size() (int, int) {
	return r.width, r.height
}

// SetCenter sets the center position of the view
func (r *TerminalRenderer) SetCenter(pos mgl64.Vec3) {
	r.centerPos = pos
}

// worldToScreen maps a world point to a cell. World +Y is screen up.
func (r *TerminalRenderer) worldToScreen(pos mgl64.Vec3) (int, int) {
	sx := (pos.X()-r.centerPos.X())/r.scale*cellAspect + float64(r.width)/2
	sy := float64(r.height)/2 - (pos.Y()-r.centerPos.Y())/r.scale
	return int(math.Floor(sx)), int(math.Floor(sy))
}

func (r *TerminalRenderer) set(x, y int, ch rune, style tcell.Style) {
	// row 0 is reserved for the status line
	if x < 0 || x >= r.width || y < 1 || y >= r.height {
		return
	}
	r.buffer[y][x] = cell{r: ch, style: style}
}

// Clear blanks the buffer
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = cell{r: ' ', style: tcell.StyleDefault}
		}
	}
}

// Cell returns the rune drawn at x, y
func (r *TerminalRenderer) Cell(x, y int) rune {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return 0
	}
	return r.buffer[y][x].r
}

// Render draws a full frame of state into the buffer
func (r *TerminalRenderer) Render(state *engine.GameState) {
	r.Clear()
	if state == nil {
		return
	}
	r.SetCenter(state.Camera)

	for _, obj := range state.Objects {
		r.RenderObject(obj)
	}
	r.RenderCraft(state)
	r.renderStatus(state)
}

// RenderObject fills the object's box with a glyph for its tag
func (r *TerminalRenderer) RenderObject(obj engine.ObjectState) {
	ch, style := objectGlyph(obj)
	lo := obj.Box.Center.Sub(obj.Box.HalfExtents)
	hi := obj.Box.Center.Add(obj.Box.HalfExtents)

	x0, y1 := r.worldToScreen(lo)
	x1, y0 := r.worldToScreen(hi)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			r.set(x, y, ch, style)
		}
	}
}

func objectGlyph(obj engine.ObjectState) (rune, tcell.Style) {
	switch obj.Tag {
	case entity.TagFriendly:
		return '=', styleFriendly
	case entity.TagFinish:
		return 'F', styleFinish
	case entity.TagShield:
		return '+', styleShield
	}
	if obj.Trigger {
		return '.', tcell.StyleDefault
	}
	return '#', styleHostile
}

// RenderCraft draws the craft pointing along its up axis, with the shield
// bubble on either side when one is held
func (r *TerminalRenderer) RenderCraft(state *engine.GameState) {
	x, y := r.worldToScreen(state.Position)

	style := styleCraft
	switch {
	case !state.Craft.Controllable:
		style = styleHostile
	case state.Craft.Invincible:
		style = styleFinish
	}
	r.set(x, y, craftGlyph(state.Up), style)

	if state.Shield {
		r.set(x-1, y, '(', styleShield)
		r.set(x+1, y, ')', styleShield)
	}
}

// craftGlyph picks the arrow closest to the direction of up
func craftGlyph(up mgl64.Vec3) rune {
	if up.X() == 0 && up.Y() == 0 {
		return '^'
	}
	deg := mgl64.RadToDeg(math.Atan2(up.Y(), up.X()))
	glyphs := []rune{'>', '/', '^', '\\', '<', '/', 'v', '\\'}
	i := int(math.Round(deg/45)) % 8
	if i < 0 {
		i += 8
	}
	return glyphs[i]
}

func (r *TerminalRenderer) renderStatus(state *engine.GameState) {
	var flags []string
	if state.Craft.HasShield {
		flags = append(flags, "SHIELD")
	}
	if state.Craft.Invincible {
		flags = append(flags, "INVINCIBLE")
	}
	if state.Craft.Frozen {
		flags = append(flags, "FROZEN")
	}
	if !state.Craft.Collidable {
		flags = append(flags, "NOCLIP")
	}
	line := fmt.Sprintf(" L%d %s  x=%.1f y=%.1f  %s", state.Level+1, state.LevelName,
		state.Position.X(), state.Position.Y(), strings.Join(flags, " "))

	for x := 0; x < r.width; x++ {
		ch := ' '
		if x < len(line) {
			ch = rune(line[x])
		}
		r.buffer[0][x] = cell{r: ch, style: styleHUD}
	}
}

// Present copies the buffer to screen and shows it
func (r *TerminalRenderer) Present(screen tcell.Screen) {
	for y := range r.buffer {
		for x, c := range r.buffer[y] {
			screen.SetContent(x, y, c.r, nil, c.style)
		}
	}
	screen.Show()
}
