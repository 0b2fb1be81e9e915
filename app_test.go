package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"soundscript/internal/domain"
	"soundscript/internal/history"
)

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	var out bytes.Buffer
	return NewApp(store, &out), &out
}

func saveSession(t *testing.T, app *App, raw, polished string) *domain.Session {
	t.Helper()
	sess := &domain.Session{
		Timestamp:      time.Now().UTC(),
		RawText:        raw,
		PolishedText:   polished,
		Duration:       2 * time.Second,
		WordCount:      len(strings.Fields(raw)),
		WordsPerMinute: 90,
		Confidence:     0.9,
		Status:         domain.SessionCompleted,
	}
	if _, err := app.store.Save(context.Background(), sess); err != nil {
		t.Fatalf("save: %v", err)
	}
	return sess
}

func TestShowHistoryEmpty(t *testing.T) {
	app, out := newTestApp(t)
	if err := app.ShowHistory(context.Background(), 10); err != nil {
		t.Fatalf("ShowHistory: %v", err)
	}
	if !strings.Contains(out.String(), "no sessions") {
		t.Errorf("output = %q", out.String())
	}
}

func TestShowHistoryPrintsSessions(t *testing.T) {
	app, out := newTestApp(t)
	saveSession(t, app, "hello world", "Hello world.")

	if err := app.ShowHistory(context.Background(), 10); err != nil {
		t.Fatalf("ShowHistory: %v", err)
	}
	if !strings.Contains(out.String(), "Hello world.") {
		t.Errorf("output missing polished text: %q", out.String())
	}
	if !strings.Contains(out.String(), "2 words") {
		t.Errorf("output missing word count: %q", out.String())
	}
}

func TestSearchHistory(t *testing.T) {
	app, out := newTestApp(t)
	saveSession(t, app, "buy milk tomorrow", "Buy milk tomorrow.")
	saveSession(t, app, "something else", "Something else.")

	if err := app.SearchHistory(context.Background(), "milk"); err != nil {
		t.Fatalf("SearchHistory: %v", err)
	}
	if !strings.Contains(out.String(), "Buy milk tomorrow.") {
		t.Errorf("output = %q", out.String())
	}
	if strings.Contains(out.String(), "Something else.") {
		t.Errorf("non-matching session printed: %q", out.String())
	}
}

func TestExportAudioRequiresStoredAudio(t *testing.T) {
	app, _ := newTestApp(t)
	sess := saveSession(t, app, "no audio here", "No audio here.")

	err := app.ExportAudio(context.Background(), sess.ID, filepath.Join(t.TempDir(), "out.wav"))
	if err == nil || !strings.Contains(err.Error(), "no stored audio") {
		t.Errorf("ExportAudio err = %v, want no stored audio", err)
	}
}

func TestExportAudioUnknownID(t *testing.T) {
	app, _ := newTestApp(t)
	err := app.ExportAudio(context.Background(), 42, filepath.Join(t.TempDir(), "out.wav"))
	if err == nil || !strings.Contains(err.Error(), "no session") {
		t.Errorf("ExportAudio err = %v, want no session", err)
	}
}

func TestExportAudioWritesFile(t *testing.T) {
	app, out := newTestApp(t)
	sess := &domain.Session{
		Timestamp: time.Now().UTC(),
		RawText:   "with audio",
		Duration:  time.Second,
		Status:    domain.SessionCompleted,
		AudioData: make([]byte, 32000),
	}
	if _, err := app.store.Save(context.Background(), sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.wav")
	if err := app.ExportAudio(context.Background(), sess.ID, path); err != nil {
		t.Fatalf("ExportAudio: %v", err)
	}
	if !strings.Contains(out.String(), "wrote") {
		t.Errorf("output = %q", out.String())
	}
}

func TestShowStats(t *testing.T) {
	app, out := newTestApp(t)
	saveSession(t, app, "working on the project deadline today", "Working on the project deadline today.")

	if err := app.ShowStats(context.Background()); err != nil {
		t.Fatalf("ShowStats: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "sessions: 1") {
		t.Errorf("output missing session count: %q", got)
	}
	if !strings.Contains(got, "WPM") {
		t.Errorf("output missing WPM: %q", got)
	}
	if !strings.Contains(got, "project") {
		t.Errorf("output missing frequent words: %q", got)
	}
}

func TestDeleteAndClearCommands(t *testing.T) {
	app, out := newTestApp(t)
	sess := saveSession(t, app, "first", "First.")
	saveSession(t, app, "second", "Second.")

	if err := app.DeleteSession(context.Background(), sess.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if err := app.ClearHistory(context.Background()); err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	all, err := app.store.All(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Errorf("sessions left after clear: %d", len(all))
	}
	if !strings.Contains(out.String(), "history cleared") {
		t.Errorf("output = %q", out.String())
	}
}

func TestSessionFinishedRendering(t *testing.T) {
	var out bytes.Buffer
	app := NewApp(nil, &out)

	app.SessionFinished(domain.Session{
		Status:         domain.SessionCompleted,
		PolishedText:   "Hello world.",
		WordCount:      2,
		WordsPerMinute: 120,
		Duration:       time.Second,
	})
	if !strings.Contains(out.String(), "Hello world.") || !strings.Contains(out.String(), "120.0 WPM") {
		t.Errorf("completed output = %q", out.String())
	}

	out.Reset()
	app.SessionFinished(domain.Session{Status: domain.SessionFailed, ErrorMessage: "no text"})
	if !strings.Contains(out.String(), "dictation failed: no text") {
		t.Errorf("failed output = %q", out.String())
	}

	out.Reset()
	app.SessionFinished(domain.Session{Status: domain.SessionCancelled})
	if !strings.Contains(out.String(), "cancelled") {
		t.Errorf("cancelled output = %q", out.String())
	}
}
