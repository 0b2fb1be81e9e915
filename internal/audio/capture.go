// Package audio captures microphone input through PortAudio at the fixed
// dictation profile: 16 kHz, 16-bit signed little-endian PCM, mono.
package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	SampleRate    = 16000
	BitsPerSample = 16
	Channels      = 1

	framesPerBuffer = 1024
)

type captureResult struct {
	pcm []byte
	err error
}

// Capture is a PortAudio-backed ports.Recorder.
type Capture struct {
	mu        sync.Mutex
	recording bool
	cancel    context.CancelFunc
	done      chan captureResult

	chunks chan []byte
}

func NewCapture() *Capture {
	return &Capture{chunks: make(chan []byte, 32)}
}

// Chunks streams raw PCM while recording. The channel is never closed; slow
// consumers miss chunks rather than stalling capture.
func (c *Capture) Chunks() <-chan []byte {
	return c.chunks
}

// Start opens the default input device and begins buffering PCM.
func (c *Capture) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.recording {
		c.mu.Unlock()
		return errors.New("capture already running")
	}
	c.recording = true
	c.done = make(chan captureResult, 1)
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	go c.captureLoop(runCtx)
	return nil
}

// Stop ends capture and returns the complete PCM buffer.
func (c *Capture) Stop() ([]byte, error) {
	c.mu.Lock()
	if !c.recording {
		c.mu.Unlock()
		return nil, errors.New("capture not running")
	}
	cancel := c.cancel
	done := c.done
	c.mu.Unlock()

	cancel()
	res := <-done

	c.mu.Lock()
	c.recording = false
	c.mu.Unlock()

	return res.pcm, res.err
}

func (c *Capture) captureLoop(ctx context.Context) {
	if err := portaudio.Initialize(); err != nil {
		c.done <- captureResult{err: fmt.Errorf("portaudio init failed: %w", err)}
		return
	}
	defer portaudio.Terminate()

	in := make([]int16, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(Channels, 0, float64(SampleRate), len(in), in)
	if err != nil {
		c.done <- captureResult{err: fmt.Errorf("open input stream failed: %w", err)}
		return
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		c.done <- captureResult{err: fmt.Errorf("start input stream failed: %w", err)}
		return
	}

	var buf bytes.Buffer
	for {
		select {
		case <-ctx.Done():
			_ = stream.Stop()
			_ = stream.Close()
			c.done <- captureResult{pcm: buf.Bytes()}
			return
		default:
		}

		if err := stream.Read(); err != nil {
			// Transient overflows are skipped, matching the device cadence.
			continue
		}

		chunk := make([]byte, len(in)*2)
		for i, v := range in {
			binary.LittleEndian.PutUint16(chunk[i*2:], uint16(v))
		}
		buf.Write(chunk)

		select {
		case c.chunks <- chunk:
		default:
		}
	}
}
