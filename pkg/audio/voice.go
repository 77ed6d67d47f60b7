package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// Voice is a synthesized clip recipe
type Voice struct {
	Freq     float64       // starting frequency in Hz
	EndFreq  float64       // frequency reached at the end of Duration; 0 keeps Freq
	Duration time.Duration // one cycle for looping voices
	Wave     WaveType
	Gain     float64
	Attack   time.Duration
	Release  time.Duration
}

// oscillator generates raw audio waves with an optional linear sweep.
// A looping oscillator restarts its sweep every cycle and never drains.
type oscillator struct {
	voice    Voice
	phase    float64
	samples  int
	position int
	loop     bool
	rate     beep.SampleRate
	rng      *rand.Rand
}

func newOscillator(v Voice, loop bool, rate beep.SampleRate) *oscillator {
	samples := rate.N(v.Duration)
	if samples < 1 {
		samples = 1
	}
	return &oscillator{
		voice:   v,
		samples: samples,
		loop:    loop,
		rate:    rate,
		rng:     rand.New(rand.NewSource(int64(v.Freq*1000) + int64(samples))),
	}
}

func (o *oscillator) freq() float64 {
	if o.voice.EndFreq == 0 {
		return o.voice.Freq
	}
	t := float64(o.position) / float64(o.samples)
	return o.voice.Freq + (o.voice.EndFreq-o.voice.Freq)*t
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.samples {
			if !o.loop {
				return i, i > 0
			}
			o.position = 0
		}

		var val float64
		switch o.voice.Wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}
		val *= o.voice.Gain

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq() / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping to a finite stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

func newEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.totalSamples - e.releaseSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = math.Max(0, float64(e.totalSamples-e.position)/float64(e.releaseSamples))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s in a linear volume scale.
// math.Log2(0) is -Inf, so zero volume is made silent instead.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
