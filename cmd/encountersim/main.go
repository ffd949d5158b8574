package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/creatureai/internal/ai"
	"github.com/udisondev/creatureai/internal/config"
	"github.com/udisondev/creatureai/internal/encounter"
)

const ConfigPath = "config/encountersim.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadSimulation(config.Path(ConfigPath))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))
	ai.EnableDebugLogging(level <= slog.LevelDebug)

	slog.Info("encounter simulator starting",
		"difficulty", cfg.DifficultyTier(),
		"tick", cfg.TickInterval,
		"source", cfg.DataSource)

	content, err := loadContent(ctx, cfg)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}
	defer content.Close()

	enc := encounter.New(encounter.Config{
		Difficulty:   cfg.DifficultyTier(),
		TickInterval: cfg.TickInterval,
		Tunables:     cfg.AI.Tunables(),
	}, content.abilities, content.templates, content.conditions)

	sc, err := setupScenario(enc)
	if err != nil {
		return fmt.Errorf("setting up scenario: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := enc.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("tick loop: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		sc.play(gctx, enc)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	stats := enc.Stats()
	slog.Info("encounter finished",
		"casts", stats.Casts,
		"swings", stats.Swings,
		"deaths", stats.Deaths,
		"despawns", stats.Despawns)
	return nil
}
