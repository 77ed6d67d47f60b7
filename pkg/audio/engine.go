// Package audio synthesizes the craft's cues with beep and mixes them into a
// single stream. Cues are positional: they are attenuated by distance from a
// listener and panned by its horizontal offset.
package audio

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// Clip names known to DefaultVoices
const (
	ClipThrust       = "thrust"
	ClipSuccess      = "success"
	ClipCrash        = "crash"
	ClipShieldPickup = "shield-pickup"
	ClipShieldBreak  = "shield-break"
)

// DefaultVoices returns the built-in clip recipes
func DefaultVoices() map[string]Voice {
	return map[string]Voice{
		ClipThrust:       {Freq: 80, EndFreq: 140, Duration: time.Second, Wave: WaveNoise, Gain: 0.15},
		ClipSuccess:      {Freq: 660, Duration: 150 * time.Millisecond, Wave: WaveSine, Gain: 0.3, Release: 50 * time.Millisecond},
		ClipCrash:        {Freq: 200, EndFreq: 40, Duration: 600 * time.Millisecond, Wave: WaveNoise, Gain: 0.4, Release: 300 * time.Millisecond},
		ClipShieldPickup: {Freq: 440, EndFreq: 990, Duration: 200 * time.Millisecond, Wave: WaveSine, Gain: 0.3, Attack: 10 * time.Millisecond, Release: 80 * time.Millisecond},
		ClipShieldBreak:  {Freq: 900, EndFreq: 150, Duration: 300 * time.Millisecond, Wave: WaveSaw, Gain: 0.25, Release: 150 * time.Millisecond},
	}
}

// Engine owns the mixer every cue is played into.
// It implements beep.Streamer so an output device or a test can read it directly.
type Engine struct {
	mu       sync.Mutex
	rate     beep.SampleRate
	mixer    *beep.Mixer
	voices   map[string]Voice
	enabled  bool
	listener func() mgl64.Vec3

	// Distance at which a cue plays at half volume
	Rolloff float64
	// Horizontal offset at which a cue is fully panned
	PanWidth float64

	cues int
}

// NewEngine creates an engine at sampleRate. When enabled is false, cues are
// counted but never mixed. listener may be nil, which places it at the origin.
func NewEngine(sampleRate int, enabled bool, listener func() mgl64.Vec3) *Engine {
	return &Engine{
		rate:     beep.SampleRate(sampleRate),
		mixer:    &beep.Mixer{},
		voices:   DefaultVoices(),
		enabled:  enabled,
		listener: listener,
		Rolloff:  20,
		PanWidth: 15,
	}
}

// SampleRate returns the rate the engine streams at
func (e *Engine) SampleRate() beep.SampleRate { return e.rate }

// Enabled reports whether cues are mixed
func (e *Engine) Enabled() bool { return e.enabled }

// Close silences every playing cue. The engine keeps streaming silence.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mixer.Clear()
}

// Validate reports every clip name that has no voice
func (e *Engine) Validate(clips ...string) error {
	var errs []error
	for _, clip := range clips {
		if _, ok := e.voices[clip]; !ok {
			errs = append(errs, fmt.Errorf("unknown audio clip %q", clip))
		}
	}
	return errors.Join(errs...)
}

// SetVoice registers or replaces a clip recipe
func (e *Engine) SetVoice(clip string, v Voice) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.voices[clip] = v
}

// Stream mixes every playing cue into samples. It never drains.
func (e *Engine) Stream(samples [][2]float64) (n int, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, _ = e.mixer.Stream(samples)
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

// Err implements beep.Streamer
func (e *Engine) Err() error { return nil }

// Active returns the number of streams in the mixer
func (e *Engine) Active() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mixer.Len()
}

// Cues returns how many cues have been requested
func (e *Engine) Cues() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cues
}

// PlayAt plays clip once as if emitted from position
func (e *Engine) PlayAt(clip string, position mgl64.Vec3, volumeScale float64) {
	var listener mgl64.Vec3
	if e.listener != nil {
		listener = e.listener()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.cues++
	s, ok := e.oneShotLocked(clip)
	if !ok || !e.enabled {
		return
	}

	offset := position.Sub(listener)
	s = newVolume(s, volumeScale*Attenuation(offset.Len(), e.Rolloff))
	s = &effects.Pan{Streamer: s, Pan: PanFor(offset.X(), e.PanWidth)}
	e.mixer.Add(s)
}

func (e *Engine) oneShotLocked(clip string) (beep.Streamer, bool) {
	v, ok := e.voices[clip]
	if !ok {
		return nil, false
	}
	if clip == ClipSuccess {
		return e.chime(v), true
	}
	s := beep.Streamer(newOscillator(v, false, e.rate))
	return newEnvelope(s, v.Duration, v.Attack, v.Release, e.rate), true
}

// chime plays the voice then the same voice a fifth higher
func (e *Engine) chime(v Voice) beep.Streamer {
	n := e.rate.N(v.Duration)
	low, err := generators.SineTone(e.rate, v.Freq)
	if err != nil {
		return newOscillator(v, false, e.rate)
	}
	high, err := generators.SineTone(e.rate, v.Freq*1.5)
	if err != nil {
		return newOscillator(v, false, e.rate)
	}
	seq := beep.Seq(beep.Take(n, low), beep.Take(n, high))
	return newVolume(newEnvelope(seq, 2*v.Duration, v.Attack, v.Release, e.rate), v.Gain)
}

func (e *Engine) add(s beep.Streamer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.enabled {
		e.mixer.Add(s)
	}
}

// Attenuation is the gain for a cue at distance with the given rolloff:
// 1 at the listener, 0.5 at rolloff, falling off inversely after that
func Attenuation(distance, rolloff float64) float64 {
	if rolloff <= 0 {
		return 1
	}
	return 1 / (1 + math.Max(distance, 0)/rolloff)
}

// PanFor maps a horizontal offset to a stereo pan in [-1, 1]
func PanFor(dx, width float64) float64 {
	if width <= 0 {
		return 0
	}
	return math.Max(-1, math.Min(1, dx/width))
}

// NewSource creates an audio source that plays through the engine
func (e *Engine) NewSource(volumeScale float64) *Source {
	return &Source{engine: e, volume: volumeScale}
}

// Source is a single voice attached to the craft. Play loops a clip until Stop;
// PlayOneShot layers a finite cue on top without touching the loop.
type Source struct {
	engine *Engine
	volume float64

	mu   sync.Mutex
	ctrl *beep.Ctrl
	clip string
}

// Play starts clip looping, replacing whatever loop was playing
func (s *Source) Play(clip string) {
	s.Stop()

	s.engine.mu.Lock()
	v, ok := s.engine.voices[clip]
	rate := s.engine.rate
	s.engine.mu.Unlock()
	if !ok {
		return
	}

	ctrl := &beep.Ctrl{Streamer: newVolume(newOscillator(v, true, rate), s.volume)}
	s.mu.Lock()
	s.ctrl = ctrl
	s.clip = clip
	s.mu.Unlock()

	s.engine.add(ctrl)
}

// PlayOneShot plays clip once at the listener
func (s *Source) PlayOneShot(clip string) {
	var at mgl64.Vec3
	if s.engine.listener != nil {
		at = s.engine.listener()
	}
	s.engine.PlayAt(clip, at, s.volume)
}

// Stop ends the loop. The stopped stream drains out of the mixer on its next read.
func (s *Source) Stop() {
	s.mu.Lock()
	ctrl := s.ctrl
	s.ctrl = nil
	s.mu.Unlock()

	if ctrl == nil {
		return
	}
	s.engine.mu.Lock()
	ctrl.Paused = true
	ctrl.Streamer = nil
	s.engine.mu.Unlock()
}

// IsPlaying reports whether a loop is active
func (s *Source) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl != nil
}

// Clip returns the last clip passed to Play
func (s *Source) Clip() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clip
}
