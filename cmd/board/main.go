// board is the interactive terminal ticket board. When stdout is not a
// terminal, or with --plain, it prints the grouped board once and exits.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/spec-kit/ticket-board/internal/config"
	"github.com/spec-kit/ticket-board/internal/events"
	"github.com/spec-kit/ticket-board/internal/observability"
	"github.com/spec-kit/ticket-board/internal/persistence"
	"github.com/spec-kit/ticket-board/internal/preferences"
	"github.com/spec-kit/ticket-board/internal/service"
	"github.com/spec-kit/ticket-board/internal/source"
	"github.com/spec-kit/ticket-board/internal/tui"
	"github.com/spec-kit/ticket-board/internal/worker"
)

const plainWidth = 120

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var (
		logOutput string
		plain     bool
	)
	flagSet := pflag.NewFlagSet("board", pflag.ContinueOnError)
	flagSet.StringVar(&cfg.Source.Endpoint, "endpoint", cfg.Source.Endpoint, "URL returning {tickets, users}")
	flagSet.StringVar(&cfg.Preferences.Backend, "backend", cfg.Preferences.Backend, "preference store: file, redis, postgres or memory")
	flagSet.StringVar(&cfg.Preferences.Profile, "profile", cfg.Preferences.Profile, "preference profile name")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file (logs are discarded when empty)")
	flagSet.BoolVar(&plain, "plain", false, "print the board once instead of starting the interactive view")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The alt-screen owns stdout, so logs only go to an explicit file.
	logger := zap.NewNop()
	if logOutput != "" {
		cfg.Logger.Output = logOutput
		if logger, err = observability.NewLogger(cfg.Logger); err != nil {
			return fmt.Errorf("open log output: %w", err)
		}
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	boardService, cleanup, err := newBoardService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	stdout := int(os.Stdout.Fd())
	if plain || !term.IsTerminal(stdout) {
		fetchCtx, fetchCancel := context.WithTimeout(ctx, cfg.Source.FetchTimeout())
		defer fetchCancel()
		_ = boardService.Load(fetchCtx)

		width := plainWidth
		if w, _, sizeErr := term.GetSize(stdout); sizeErr == nil && w > 0 {
			width = w
		}
		theme := tui.ThemeFor(boardService.State().DarkMode)
		fmt.Println(tui.RenderBoard(boardService.View(), theme, width))
		return nil
	}

	program := tea.NewProgram(tui.NewModel(ctx, boardService), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// newBoardService wires the preference backend, event subscribers and the
// remote source around a BoardService.
func newBoardService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*service.BoardService, func(), error) {
	var (
		pg    *persistence.Postgres
		redis *persistence.Redis
		err   error
	)
	switch cfg.Preferences.Backend {
	case config.BackendPostgres:
		if pg, err = persistence.NewPostgres(ctx, cfg.Postgres, logger); err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, nil, fmt.Errorf("run migrations: %w", err)
			}
		}
	case config.BackendRedis:
		redis = persistence.NewRedis(ctx, cfg.Redis, logger)
	}
	cleanup := func() {
		pg.Close()
		redis.Close()
	}

	store, err := preferences.Open(cfg.Preferences, redis, pg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(ctx, service.NewNotificationService(dispatcher, logger, cfg.Notification))

	boardService := service.NewBoardService(ctx, service.BoardDependencies{
		Fetcher:     source.NewClient(cfg.Source, logger),
		Preferences: preferences.NewAdapter(store, logger),
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	return boardService, cleanup, nil
}
