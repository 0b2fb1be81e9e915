package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"soundscript/internal/audio"
	"soundscript/internal/domain"
	"soundscript/internal/history"
	"soundscript/internal/stats"
)

// App is the console front-end. It renders orchestrator events and serves the
// history subcommands.
type App struct {
	store *history.Store
	out   io.Writer
}

func NewApp(store *history.Store, out io.Writer) *App {
	return &App{store: store, out: out}
}

// StatusChanged renders recording state transitions.
func (a *App) StatusChanged(status domain.Status) {
	switch status.State {
	case domain.CaptureRecording:
		fmt.Fprintln(a.out, "● recording... release the hotkey to transcribe")
	case domain.CaptureIdle:
		if status.ActiveProcessing > 0 {
			fmt.Fprintf(a.out, "○ transcribing (%d in flight)\n", status.ActiveProcessing)
		}
	}
	log.Debug().Str("state", string(status.State)).Int("active", status.ActiveProcessing).Msg("status changed")
}

func (a *App) AudioLevel(peak float64) {
	log.Trace().Float64("peak", peak).Msg("audio level")
}

// SessionFinished prints the result of one dictation.
func (a *App) SessionFinished(s domain.Session) {
	switch s.Status {
	case domain.SessionCompleted:
		fmt.Fprintf(a.out, "\n%s\n", s.PolishedText)
		fmt.Fprintf(a.out, "  %d words · %.1f WPM · %s · copied to clipboard\n\n",
			s.WordCount, s.WordsPerMinute, s.Duration.Round(100*time.Millisecond))
	case domain.SessionCancelled:
		fmt.Fprintln(a.out, "dictation cancelled")
	default:
		fmt.Fprintf(a.out, "dictation failed: %s\n", s.ErrorMessage)
	}
}

func (a *App) StatsRefreshed(st domain.Stats) {
	log.Debug().Int("sessions", st.TotalSessions).Int("words", st.TotalWords).Msg("stats refreshed")
}

func (a *App) Error(code domain.ErrorCode, detail string) {
	log.Warn().Str("code", string(code)).Msg(detail)
}

// ShowHistory prints the n most recent sessions.
func (a *App) ShowHistory(ctx context.Context, n int) error {
	sessions, err := a.store.Recent(ctx, n)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(a.out, "no sessions recorded yet")
		return nil
	}
	for _, s := range sessions {
		a.printSession(s)
	}
	return nil
}

// SearchHistory prints sessions whose text contains term.
func (a *App) SearchHistory(ctx context.Context, term string) error {
	sessions, err := a.store.Search(ctx, term)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintf(a.out, "no sessions match %q\n", term)
		return nil
	}
	for _, s := range sessions {
		a.printSession(s)
	}
	return nil
}

// ExportAudio writes a session's recording to a WAV file.
func (a *App) ExportAudio(ctx context.Context, id int64, path string) error {
	sess, err := a.store.ByID(ctx, id)
	if err != nil {
		return err
	}
	if sess == nil {
		return fmt.Errorf("no session with id %d", id)
	}
	if !sess.HasAudio() {
		return fmt.Errorf("session %d has no stored audio", id)
	}
	if err := audio.ExportWAV(sess.AudioData, path); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "wrote %s (%s of audio)\n", path, sess.Duration.Round(100*time.Millisecond))
	return nil
}

// ShowStats prints aggregate figures and usage analytics.
func (a *App) ShowStats(ctx context.Context) error {
	st, err := a.store.Stats(ctx)
	if err != nil {
		return err
	}
	all, err := a.store.All(ctx)
	if err != nil {
		return err
	}
	analytics := stats.Compute(all, st.AverageWPM, time.Now())

	fmt.Fprintf(a.out, "sessions: %d (%d today, %d this week)\n",
		st.TotalSessions, analytics.TodaySessions, analytics.WeekSessions)
	fmt.Fprintf(a.out, "words: %d across %s of recording\n",
		st.TotalWords, st.TotalRecordingTime.Round(time.Second))
	fmt.Fprintf(a.out, "average: %.1f WPM (%.0f%% of the %.0f WPM target)\n",
		st.AverageWPM, analytics.WPMProgress, stats.TargetWPM)
	if len(analytics.TopWords) > 0 {
		var words []string
		for _, wc := range analytics.TopWords {
			words = append(words, fmt.Sprintf("%s (%d)", wc.Word, wc.Count))
		}
		fmt.Fprintf(a.out, "frequent words: %s\n", strings.Join(words, ", "))
	}
	return nil
}

// DeleteSession removes one session from history.
func (a *App) DeleteSession(ctx context.Context, id int64) error {
	if err := a.store.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted session %d\n", id)
	return nil
}

// ClearHistory removes all sessions.
func (a *App) ClearHistory(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "history cleared")
	return nil
}

func (a *App) printSession(s domain.Session) {
	text := s.PolishedText
	if text == "" {
		text = s.RawText
	}
	marker := " "
	if s.Status != domain.SessionCompleted {
		marker = "✗"
	}
	fmt.Fprintf(a.out, "%s #%d  %s  %d words  %.1f WPM\n",
		marker, s.ID, s.Timestamp.Local().Format("2006-01-02 15:04"), s.WordCount, s.WordsPerMinute)
	if text != "" {
		fmt.Fprintf(a.out, "   %s\n", text)
	}
	if s.ErrorMessage != "" {
		fmt.Fprintf(a.out, "   error: %s\n", s.ErrorMessage)
	}
}
