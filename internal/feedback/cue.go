// Package feedback gives the user audible confirmation around recordings and
// keeps system audio quiet while the microphone is open.
package feedback

import (
	"math"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog/log"
)

const (
	cueSampleRate = 44100
	cueDuration   = 120 // milliseconds
	cueAmplitude  = 0.2

	startToneHz = 880
	endToneHz   = 440
)

// Cue implements ports.AudioCue with short sine tones. Playback runs in the
// background; the dictation loop never waits on the output device.
type Cue struct {
	mu sync.Mutex
}

func NewCue() *Cue {
	return &Cue{}
}

func (c *Cue) PlayStart() {
	go c.play(startToneHz)
}

func (c *Cue) PlayEnd() {
	go c.play(endToneHz)
}

// play serializes tones so overlapping cues do not fight over the device.
func (c *Cue) play(freq float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := portaudio.Initialize(); err != nil {
		log.Debug().Err(err).Msg("audio cue skipped, portaudio init failed")
		return
	}
	defer portaudio.Terminate()

	tone := sineTone(freq)
	stream, err := portaudio.OpenDefaultStream(0, 1, cueSampleRate, len(tone), func(out []float32) {
		copy(out, tone)
	})
	if err != nil {
		log.Debug().Err(err).Msg("audio cue skipped, no output stream")
		return
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		log.Debug().Err(err).Msg("audio cue skipped, stream start failed")
		return
	}
	defer stream.Stop()

	// One buffer holds the whole tone; a second callback round drains it.
	time.Sleep(cueDuration * 2 * time.Millisecond)
}

func sineTone(freq float64) []float32 {
	samples := cueSampleRate * cueDuration / 1000
	tone := make([]float32, samples)
	for i := range tone {
		// Linear fade-out keeps the tone from clicking at the end.
		fade := 1 - float64(i)/float64(samples)
		tone[i] = float32(cueAmplitude * fade * math.Sin(2*math.Pi*freq*float64(i)/cueSampleRate))
	}
	return tone
}
