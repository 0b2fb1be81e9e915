package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"soundscript/internal/domain"
)

// process turns one captured recording into a persisted session. It runs
// detached from the event loop so the next recording can start immediately.
func (o *Orchestrator) process(ctx context.Context, pcm []byte, captured time.Duration) {
	defer o.tasks.Done()
	defer func() {
		// The send must not be dropped while the loop runs or the active
		// count never drains; quit unblocks it once the loop is gone.
		select {
		case o.taskDone <- struct{}{}:
		case <-o.quit:
		}
	}()

	logger := log.With().Str("task", uuid.NewString()).Logger()
	logger.Debug().Dur("captured", captured).Int("audioBytes", len(pcm)).Msg("processing recording")

	sess := &domain.Session{
		Timestamp: time.Now().UTC(),
		Duration:  captured,
		Status:    domain.SessionProcessing,
		ModelUsed: o.cfg.Model,
		AudioData: pcm,
	}

	result := o.deps.Transcriber.Transcribe(ctx, pcm)
	sess.Confidence = result.Confidence
	sess.Language = result.Language
	if !result.IsSuccessful() {
		sess.Status = result.Status
		if !sess.Status.Terminal() {
			sess.Status = domain.SessionFailed
		}
		sess.ErrorMessage = result.ErrorMessage
		if sess.Status == domain.SessionFailed {
			o.deps.Events.Error(domain.ErrorCodeTranscribe, result.ErrorMessage)
		}
		o.finish(ctx, sess, logger)
		return
	}

	raw := result.Text
	sess.RawText = raw

	// The raw transcript reaches the clipboard immediately while polishing
	// runs; a polished result re-copies afterwards.
	polished := raw
	copied := false
	if o.cfg.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		if !o.cfg.SkipPolishing {
			g.Go(func() error {
				polished = o.deps.Polisher.Polish(gctx, raw)
				return nil
			})
		}
		g.Go(func() error {
			copied = o.copyRaw(raw)
			return nil
		})
		_ = g.Wait()
	} else {
		copied = o.copyRaw(raw)
		if !o.cfg.SkipPolishing {
			polished = o.deps.Polisher.Polish(ctx, raw)
		}
	}

	if polished == "" {
		polished = raw
	}
	sess.PolishedText = polished
	if polished != raw && o.cfg.AutoPaste && copied {
		// The polished text replaces the pasted transcript on the clipboard
		// but the paste is not repeated. Without auto-paste the raw copy
		// stands.
		if err := o.deps.Clipboard.Copy(polished); err != nil {
			o.deps.Events.Error(domain.ErrorCodeClipboard, "could not update clipboard with polished text: "+err.Error())
		}
	}

	sess.Status = domain.SessionCompleted
	o.finish(ctx, sess, logger)
}

func (o *Orchestrator) copyRaw(text string) bool {
	var err error
	if o.cfg.AutoPaste {
		err = o.deps.Clipboard.CopyAndPaste(text)
	} else {
		err = o.deps.Clipboard.Copy(text)
	}
	if err != nil {
		o.deps.Events.Error(domain.ErrorCodeClipboard, "could not place transcript in clipboard: "+err.Error())
		return false
	}
	return true
}

// finish persists the session and publishes the outcome. Persistence uses a
// detached context so a shutdown or cancelled recording is still recorded.
func (o *Orchestrator) finish(ctx context.Context, sess *domain.Session, logger zerolog.Logger) {
	sess.Finalize()

	saveCtx := context.WithoutCancel(ctx)
	if _, err := o.deps.Store.Save(saveCtx, sess); err != nil {
		logger.Warn().Err(err).Msg("session was not persisted")
		o.deps.Events.Error(domain.ErrorCodePersistence, "could not save session: "+err.Error())
	} else if stats, err := o.deps.Store.Stats(saveCtx); err == nil {
		o.deps.Events.StatsRefreshed(stats)
	} else {
		logger.Warn().Err(err).Msg("stats refresh failed")
	}

	logger.Info().
		Str("status", string(sess.Status)).
		Int("words", sess.WordCount).
		Float64("wpm", sess.WordsPerMinute).
		Msg("session finished")

	// The event copy drops the audio payload; consumers fetch it by id.
	out := *sess
	out.AudioData = nil
	o.deps.Events.SessionFinished(out)
}
