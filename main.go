package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/poissondisk/config"
	"github.com/pthm-cable/poissondisk/driver"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = use config)")
	ticksPerFrame := flag.Int("ticks-per-frame", 0, "Sampler ticks per frame (0 = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *maxFrames > 0 {
		cfg.Driver.MaxFrames = *maxFrames
	}
	if *ticksPerFrame > 0 {
		cfg.Driver.TicksPerFrame = *ticksPerFrame
	}
	cfg.Recompute()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	r, err := driver.NewRunner(cfg, driver.Options{
		Seed:      rngSeed,
		OutputDir: *outputDir,
		LogStats:  *logStats,
	})
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer r.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting sampler",
		"seed", rngSeed,
		"max_frames", cfg.Driver.MaxFrames,
		"ticks_per_frame", cfg.Driver.TicksPerFrame,
	)

	if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run failed", "error", err)
	}
}
