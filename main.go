package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"soundscript/internal/bootstrap"
	"soundscript/internal/config"
	"soundscript/internal/history"
	"soundscript/internal/hotkey"
)

func main() {
	var (
		historyN  = flag.Int("history", 0, "print the N most recent sessions and exit")
		search    = flag.String("search", "", "search session history and exit")
		exportID  = flag.Int64("export", 0, "export a session's audio by id and exit")
		exportOut = flag.String("out", "session.wav", "output path for -export")
		showStats = flag.Bool("stats", false, "print usage statistics and exit")
		deleteID  = flag.Int64("delete", 0, "delete a session by id and exit")
		clear     = flag.Bool("clear", false, "delete all session history and exit")
		verbose   = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	var err error
	switch {
	case *historyN > 0:
		err = withStore(func(ctx context.Context, app *App) error { return app.ShowHistory(ctx, *historyN) })
	case *search != "":
		err = withStore(func(ctx context.Context, app *App) error { return app.SearchHistory(ctx, *search) })
	case *exportID > 0:
		err = withStore(func(ctx context.Context, app *App) error { return app.ExportAudio(ctx, *exportID, *exportOut) })
	case *showStats:
		err = withStore(func(ctx context.Context, app *App) error { return app.ShowStats(ctx) })
	case *deleteID > 0:
		err = withStore(func(ctx context.Context, app *App) error { return app.DeleteSession(ctx, *deleteID) })
	case *clear:
		err = withStore(func(ctx context.Context, app *App) error { return app.ClearHistory(ctx) })
	default:
		err = runDictation()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "soundscript:", err)
		os.Exit(1)
	}
}

// withStore runs one history command against the configured database.
func withStore(fn func(context.Context, *App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(context.Background(), NewApp(store, os.Stdout))
}

func runDictation() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	hotkeys, err := hotkey.New(cfg.Hotkey.Chord)
	if err != nil {
		return fmt.Errorf("register hotkey %q: %w", cfg.Hotkey.Chord, err)
	}
	defer hotkeys.Close()

	app := NewApp(nil, os.Stdout)
	services, err := bootstrap.Build(hotkeys, app)
	if err != nil {
		return err
	}
	defer services.Store.Close()
	app.store = services.Store

	fmt.Printf("soundscript ready. hold %s to dictate, Ctrl+C to quit.\n", cfg.Hotkey.Chord)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return services.Orchestrator.Run(ctx)
}
