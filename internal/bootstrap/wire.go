// Package bootstrap assembles the runtime dependency graph.
package bootstrap

import (
	"soundscript/internal/audio"
	"soundscript/internal/clipboard"
	"soundscript/internal/config"
	"soundscript/internal/feedback"
	"soundscript/internal/history"
	"soundscript/internal/ports"
	"soundscript/internal/providers/gemini"
	"soundscript/internal/providers/whisper"
	"soundscript/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Orchestrator *usecase.Orchestrator
	Store        *history.Store
	Config       config.Config
}

// Build wires all backend dependencies for the current runtime.
func Build(hotkeys ports.HotkeySource, eventSink ports.EventSink) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return Services{}, err
	}

	orchestrator := usecase.New(
		usecase.Deps{
			Hotkeys:  hotkeys,
			Recorder: audio.NewCapture(),
			Transcriber: whisper.NewClient(whisper.Config{
				APIKey:     cfg.Whisper.APIKey,
				APIBaseURL: cfg.Whisper.APIBaseURL,
				Model:      cfg.Whisper.Model,
				MaxRetries: cfg.Session.MaxRetries,
				Timeout:    cfg.Session.RequestTimeout,
			}),
			Polisher: gemini.NewClient(gemini.Config{
				APIKey:     cfg.Gemini.APIKey,
				APIBaseURL: cfg.Gemini.APIBaseURL,
				Model:      cfg.Gemini.Model,
				MaxRetries: cfg.Session.MaxRetries,
				Timeout:    cfg.Session.RequestTimeout,
			}),
			Clipboard: clipboard.New(),
			Mute:      feedback.NewMuter(),
			Cue:       feedback.NewCue(),
			Store:     store,
			Events:    eventSink,
		},
		usecase.Config{
			AutoPaste:      cfg.Session.AutoPaste,
			SkipPolishing:  cfg.Session.SkipPolishing,
			Parallel:       cfg.Session.Parallel,
			RealTimeLevels: cfg.Session.EnableRealTime,
			Model:          cfg.Whisper.Model,
			ShutdownGrace:  cfg.Session.ShutdownGrace,
		},
	)

	return Services{Orchestrator: orchestrator, Store: store, Config: cfg}, nil
}
