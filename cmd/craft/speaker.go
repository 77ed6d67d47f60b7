// cmd/craft/speaker.go
package main

import (
	"time"

	"github.com/gopxl/beep/speaker"

	"github.com/opd-ai/go-craft/pkg/audio"
	"github.com/opd-ai/go-craft/pkg/logging"
)

// openSpeaker plays sound through the system output device. The returned func
// silences the engine and releases the device. A disabled engine never opens it.
func openSpeaker(sound *audio.Engine, buffer time.Duration) (func(), error) {
	if !sound.Enabled() {
		return sound.Close, nil
	}
	rate := sound.SampleRate()
	if err := speaker.Init(rate, rate.N(buffer)); err != nil {
		return nil, logging.WrapError(err, "failed to initialize speaker")
	}
	speaker.Play(sound)
	return func() {
		sound.Close()
		speaker.Close()
	}, nil
}
