// pkg/input/keyboard.go
package input

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-craft/pkg/craft"
)

// DefaultHoldWindow is how long a key counts as held after its last press or repeat.
// Terminals report presses and auto-repeats but no releases.
const DefaultHoldWindow = 150 * time.Millisecond

// Action is what a key event asked for
type Action int

const (
	ActionNone Action = iota
	ActionThrust
	ActionRotateLeft
	ActionRotateRight
	ActionDebug
	ActionQuit
)

// Keyboard maps terminal key events onto the two pilot channels and the debug
// queue. HandleEvent runs on the tcell polling goroutine; Thrust, Rotation and
// NextDebug run on the game loop, so every field is guarded.
type Keyboard struct {
	mu sync.Mutex

	now        func() time.Time
	holdWindow time.Duration

	// Input state
	thrustAt time.Time
	leftAt   time.Time
	rightAt  time.Time

	debug DebugQueue
}

// NewKeyboard creates a keyboard using the wall clock
func NewKeyboard() *Keyboard {
	return NewKeyboardWithClock(time.Now, DefaultHoldWindow)
}

// NewKeyboardWithClock creates a keyboard with an injected clock and hold window
func NewKeyboardWithClock(now func() time.Time, holdWindow time.Duration) *Keyboard {
	return &Keyboard{now: now, holdWindow: holdWindow}
}

// HandleEvent records one tcell event and reports what it asked for
func (k *Keyboard) HandleEvent(ev tcell.Event) Action {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return ActionNone
	}

	action, cmd := classify(key)

	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	switch action {
	case ActionThrust:
		k.thrustAt = now
	case ActionRotateLeft:
		k.leftAt = now
		k.rightAt = time.Time{}
	case ActionRotateRight:
		k.rightAt = now
		k.leftAt = time.Time{}
	case ActionDebug:
		k.debug.Push(cmd)
	}
	return action
}

func classify(key *tcell.EventKey) (Action, craft.DebugCommand) {
	switch key.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit, 0
	case tcell.KeyUp:
		return ActionThrust, 0
	case tcell.KeyLeft:
		return ActionRotateLeft, 0
	case tcell.KeyRight:
		return ActionRotateRight, 0
	case tcell.KeyRune:
	default:
		return ActionNone, 0
	}

	switch key.Rune() {
	case ' ', 'w', 'W':
		return ActionThrust, 0
	case 'a', 'A':
		return ActionRotateLeft, 0
	case 'd', 'D':
		return ActionRotateRight, 0
	case 'l', 'L':
		return ActionDebug, craft.DebugAdvanceLevel
	case 'c', 'C':
		return ActionDebug, craft.DebugToggleCollidable
	case 'q', 'Q':
		return ActionQuit, 0
	}
	return ActionNone, 0
}

func (k *Keyboard) held(at time.Time) bool {
	return !at.IsZero() && k.now().Sub(at) <= k.holdWindow
}

// Thrust returns 1 while the thrust key is held, otherwise 0
func (k *Keyboard) Thrust() float64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.held(k.thrustAt) {
		return 1
	}
	return 0
}

// Rotation returns -1 for left, +1 for right and 0 when neither is held
func (k *Keyboard) Rotation() float64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	switch {
	case k.held(k.leftAt):
		return -1
	case k.held(k.rightAt):
		return 1
	default:
		return 0
	}
}

// NextDebug pops the oldest queued debug command
func (k *Keyboard) NextDebug() (craft.DebugCommand, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.debug.Pop()
}

// DebugQueue is a FIFO of debug commands. The zero value is ready to use.
// It is not safe for concurrent use on its own.
type DebugQueue struct {
	queue []craft.DebugCommand
}

// Push appends a command
func (q *DebugQueue) Push(cmd craft.DebugCommand) {
	q.queue = append(q.queue, cmd)
}

// Pop removes and returns the oldest command
func (q *DebugQueue) Pop() (craft.DebugCommand, bool) {
	if len(q.queue) == 0 {
		return 0, false
	}
	cmd := q.queue[0]
	q.queue = q.queue[1:]
	return cmd, true
}

// NextDebug implements craft.DebugSource
func (q *DebugQueue) NextDebug() (craft.DebugCommand, bool) {
	return q.Pop()
}

// Len returns the number of queued commands
func (q *DebugQueue) Len() int {
	return len(q.queue)
}
