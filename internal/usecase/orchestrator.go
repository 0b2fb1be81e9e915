// Package usecase runs the push-to-talk dictation loop.
package usecase

import (
	"context"
	"encoding/binary"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"soundscript/internal/domain"
	"soundscript/internal/ports"
)

// Config controls pipeline behavior.
type Config struct {
	AutoPaste      bool
	SkipPolishing  bool
	Parallel       bool
	RealTimeLevels bool
	Model          string
	ShutdownGrace  time.Duration
}

// Deps are the orchestrator's collaborators.
type Deps struct {
	Hotkeys     ports.HotkeySource
	Recorder    ports.Recorder
	Transcriber ports.Transcriber
	Polisher    ports.Polisher
	Clipboard   ports.Clipboard
	Mute        ports.MuteToggler
	Cue         ports.AudioCue
	Store       ports.SessionStore
	Events      ports.EventSink
}

// Orchestrator drives recording from hotkey events and hands each finished
// capture to a background processing task. All mutable state lives on the Run
// loop goroutine; processing tasks report back through taskDone.
type Orchestrator struct {
	deps Deps
	cfg  Config

	recording      bool
	recordingStart time.Time
	wasSystemMuted bool
	active         int

	taskDone chan struct{}
	quit     chan struct{}
	tasks    sync.WaitGroup

	mu     sync.Mutex
	status domain.Status
}

func New(deps Deps, cfg Config) *Orchestrator {
	if cfg.ShutdownGrace <= 0 {
		cfg.ShutdownGrace = 5 * time.Second
	}
	return &Orchestrator{
		deps:     deps,
		cfg:      cfg,
		taskDone: make(chan struct{}, 64),
		quit:     make(chan struct{}),
		status:   domain.Status{State: domain.CaptureIdle},
	}
}

// Run processes hotkey and capture events until ctx is cancelled, then waits
// for in-flight processing tasks up to the shutdown grace period.
func (o *Orchestrator) Run(ctx context.Context) error {
	hotkeys := o.deps.Hotkeys.Events()
	chunks := o.deps.Recorder.Chunks()

	for {
		select {
		case <-ctx.Done():
			return o.shutdown()
		case ev, ok := <-hotkeys:
			if !ok {
				hotkeys = nil
				continue
			}
			switch ev {
			case ports.HotkeyPressed:
				o.handlePress(ctx)
			case ports.HotkeyReleased:
				o.handleRelease(ctx)
			}
		case chunk, ok := <-chunks:
			if !ok {
				chunks = nil
				continue
			}
			if o.recording && o.cfg.RealTimeLevels {
				o.deps.Events.AudioLevel(peakLevel(chunk))
			}
		case <-o.taskDone:
			o.active--
			o.emitStatus()
		}
	}
}

// Status reports the last published orchestrator state.
func (o *Orchestrator) Status() domain.Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

func (o *Orchestrator) handlePress(ctx context.Context) {
	if o.recording {
		return
	}

	o.muteBackground()
	if err := o.deps.Recorder.Start(ctx); err != nil {
		o.restoreBackground()
		o.deps.Events.Error(domain.ErrorCodeCapture, "could not start recording: "+err.Error())
		return
	}

	o.deps.Cue.PlayStart()
	o.recording = true
	o.recordingStart = time.Now()
	o.emitStatus()
}

func (o *Orchestrator) handleRelease(ctx context.Context) {
	if !o.recording {
		return
	}

	pcm, err := o.deps.Recorder.Stop()
	captured := time.Since(o.recordingStart)
	o.recording = false

	o.restoreBackground()
	o.deps.Cue.PlayEnd()

	if err != nil {
		o.deps.Events.Error(domain.ErrorCodeCapture, "recording failed: "+err.Error())
		o.emitStatus()
		return
	}
	if len(pcm) == 0 || captured <= 0 {
		log.Debug().Msg("discarding empty recording")
		o.emitStatus()
		return
	}

	o.active++
	o.emitStatus()
	o.tasks.Add(1)
	go o.process(ctx, pcm, captured)
}

// muteBackground silences system output for the duration of a recording. The
// flag is only set after a successful toggle so restore stays paired.
func (o *Orchestrator) muteBackground() {
	if err := o.deps.Mute.ToggleMute(); err != nil {
		o.deps.Events.Error(domain.ErrorCodeMute, "could not mute system audio: "+err.Error())
		return
	}
	o.wasSystemMuted = true
}

// restoreBackground undoes muteBackground. A failed toggle is retried once;
// the flag clears either way so a stuck toggle cannot invert later pairings.
func (o *Orchestrator) restoreBackground() {
	if !o.wasSystemMuted {
		return
	}
	o.wasSystemMuted = false

	if err := o.deps.Mute.ToggleMute(); err != nil {
		if err = o.deps.Mute.ToggleMute(); err != nil {
			o.deps.Events.Error(domain.ErrorCodeMute, "could not restore system audio: "+err.Error())
		}
	}
}

func (o *Orchestrator) shutdown() error {
	if o.recording {
		if _, err := o.deps.Recorder.Stop(); err != nil {
			log.Warn().Err(err).Msg("recorder did not stop cleanly on shutdown")
		}
		o.recording = false
	}
	o.restoreBackground()

	// Unblocks task-done sends so the wait below cannot deadlock on them.
	close(o.quit)

	done := make(chan struct{})
	go func() {
		o.tasks.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(o.cfg.ShutdownGrace):
		log.Warn().Dur("grace", o.cfg.ShutdownGrace).Msg("abandoning processing tasks still running at shutdown")
	}
	return nil
}

func (o *Orchestrator) emitStatus() {
	state := domain.CaptureIdle
	if o.recording {
		state = domain.CaptureRecording
	}
	status := domain.Status{State: state, ActiveProcessing: o.active}

	o.mu.Lock()
	o.status = status
	o.mu.Unlock()

	o.deps.Events.StatusChanged(status)
}

// peakLevel returns the loudest sample of a 16-bit little-endian mono chunk,
// normalized to [0, 1].
func peakLevel(chunk []byte) float64 {
	var peak int32
	for i := 0; i+1 < len(chunk); i += 2 {
		sample := int32(int16(binary.LittleEndian.Uint16(chunk[i:])))
		if sample < 0 {
			sample = -sample
		}
		if sample > peak {
			peak = sample
		}
	}
	return float64(peak) / 32768.0
}
