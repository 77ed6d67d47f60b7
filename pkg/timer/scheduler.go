// Package timer runs cooperative timed procedures for a single owner.
//
// Every "wait, then mutate" or "do something each frame for a while" sequence is a
// keyed task advanced by Advance once per frame. Nothing blocks and nothing runs on
// a separate goroutine. Scheduling a key that is already pending restarts it with
// the new duration and callbacks (last call wins, no queuing).
package timer

import "time"

// Task names used across the module.
const (
	Invincibility  = "craft.invincibility"
	FreezeRecovery = "craft.freeze-recovery"
	ControlFreeze  = "motion.freeze"
	CameraShake    = "camera.shake"
	LevelLoad      = "level.load"
)

type task struct {
	key      string
	duration time.Duration
	elapsed  time.Duration
	onTick   func(elapsed time.Duration)
	onDone   func()
}

// Scheduler holds the pending tasks of one owner.
// It is not safe for concurrent use; callers serialize access the same way they
// serialize the frame loop.
type Scheduler struct {
	tasks  []*task
	closed bool
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// After schedules onDone to run once d of frame time has elapsed.
// It returns false when the scheduler is closed.
func (s *Scheduler) After(key string, d time.Duration, onDone func()) bool {
	return s.schedule(&task{key: key, duration: d, onDone: onDone})
}

// During runs onTick on every Advance until d has elapsed, then runs onDone.
// onTick runs on the final frame too, before onDone.
func (s *Scheduler) During(key string, d time.Duration, onTick func(elapsed time.Duration), onDone func()) bool {
	return s.schedule(&task{key: key, duration: d, onTick: onTick, onDone: onDone})
}

func (s *Scheduler) schedule(t *task) bool {
	if s.closed {
		return false
	}
	s.remove(t.key)
	s.tasks = append(s.tasks, t)
	return true
}

// Advance moves every pending task forward by dt, in scheduling order.
// Tasks scheduled by a callback during Advance first run on the next Advance.
func (s *Scheduler) Advance(dt time.Duration) {
	if s.closed || len(s.tasks) == 0 {
		return
	}
	if dt < 0 {
		dt = 0
	}

	snapshot := append([]*task(nil), s.tasks...)
	for _, t := range snapshot {
		if s.closed {
			return
		}
		if !s.pending(t) {
			continue
		}

		t.elapsed += dt
		if t.onTick != nil {
			t.onTick(t.elapsed)
		}
		if t.elapsed < t.duration || !s.pending(t) {
			continue
		}

		s.remove(t.key)
		if t.onDone != nil {
			t.onDone()
		}
	}
}

func (s *Scheduler) pending(t *task) bool {
	for _, cur := range s.tasks {
		if cur == t {
			return true
		}
	}
	return false
}

func (s *Scheduler) remove(key string) bool {
	for i, t := range s.tasks {
		if t.key == key {
			s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Cancel drops the task under key without running its completion.
func (s *Scheduler) Cancel(key string) bool {
	return s.remove(key)
}

// Active reports whether a task is pending under key.
func (s *Scheduler) Active(key string) bool {
	for _, t := range s.tasks {
		if t.key == key {
			return true
		}
	}
	return false
}

// Remaining returns how much frame time is left on key, or 0 if it is not pending.
func (s *Scheduler) Remaining(key string) time.Duration {
	for _, t := range s.tasks {
		if t.key == key {
			if left := t.duration - t.elapsed; left > 0 {
				return left
			}
			return 0
		}
	}
	return 0
}

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int {
	return len(s.tasks)
}

// Close drops every pending task and rejects new ones.
// This is how the owner's destruction cancels its timed procedures.
func (s *Scheduler) Close() {
	s.closed = true
	s.tasks = nil
}

// Closed reports whether Close has been called.
func (s *Scheduler) Closed() bool {
	return s.closed
}
