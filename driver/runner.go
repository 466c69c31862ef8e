// Package driver runs a sampler frame by frame and wires it to telemetry and output.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/poissondisk/config"
	"github.com/pthm-cable/poissondisk/sampler"
	"github.com/pthm-cable/poissondisk/telemetry"
)

// Options configures a Runner beyond what the config file holds.
type Options struct {
	Seed      int64  // Sampler RNG seed
	OutputDir string // CSV output directory (empty = disabled)
	LogStats  bool   // Log window stats and milestones via slog

	// StatsCallback, if set, receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Runner advances a sampler in frames of ticks_per_frame ticks.
type Runner struct {
	cfg   *config.Config
	opts  Options
	runID string

	sampler    *sampler.Sampler
	collector  *telemetry.Collector
	timer      *telemetry.FrameTimer
	milestones *telemetry.MilestoneDetector
	output     *telemetry.OutputManager

	frames    int
	ticks     int
	lastFlush int
	finished  bool
}

// NewRunner builds the sampler and telemetry pipeline for cfg. It refreshes
// cfg's derived values first.
func NewRunner(cfg *config.Config, opts Options) (*Runner, error) {
	cfg.Recompute()
	s, err := sampler.New(cfg.SamplerOptions(opts.Seed))
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	om, err := telemetry.NewOutputManager(opts.OutputDir, runID)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	r := &Runner{
		cfg:        cfg,
		opts:       opts,
		runID:      runID,
		sampler:    s,
		collector:  telemetry.NewCollector(runID, cfg.Telemetry.StatsWindow, cfg.Telemetry.SpacingSampleLimit, opts.Seed, s.Counters()),
		timer:      telemetry.NewFrameTimer(cfg.Telemetry.PerfWindow),
		milestones: telemetry.NewMilestoneDetector(cfg.Telemetry.CoverageSteps),
		output:     om,
	}

	sc := s.Config()
	slog.Info("runner created",
		"run_id", runID,
		"seed", sc.Seed,
		"width", sc.Width,
		"height", sc.Height,
		"radius", sc.Radius,
		"candidates", sc.Candidates,
		"max_points", cfg.Derived.MaxPoints,
		"stats_window_frames", r.collector.WindowFrames(),
		"ticks_per_stats", cfg.Derived.TicksPerStats,
		"output_dir", om.Dir(),
	)
	return r, nil
}

// Sampler returns the underlying sampler.
func (r *Runner) Sampler() *sampler.Sampler { return r.sampler }

// Frames returns the number of frames run so far.
func (r *Runner) Frames() int { return r.frames }

// Ticks returns the number of sampler ticks that did work across all frames.
func (r *Runner) Ticks() int { return r.ticks }

// RunID returns the identifier stamped on every output row.
func (r *Runner) RunID() string { return r.runID }

// Done reports whether the run has nothing left to do, either because the
// sampler is exhausted or max_frames was reached.
func (r *Runner) Done() bool {
	if r.sampler.Done() {
		return true
	}
	return r.cfg.Driver.MaxFrames > 0 && r.frames >= r.cfg.Driver.MaxFrames
}

// Frame runs one frame of up to ticks_per_frame sampler ticks, flushing
// telemetry at window boundaries. It returns false once the run is done; the
// final partial window and the point dump are written at that point.
func (r *Runner) Frame() bool {
	if r.finished {
		return false
	}

	r.timer.StartFrame()
	r.timer.StartPhase(telemetry.PhaseSample)
	before := r.sampler.Counters().Ticks
	for i, n := 0, r.cfg.Driver.TicksPerFrame; i < n; i++ {
		if !r.sampler.Tick() {
			break
		}
	}
	// The tick that retires the last active point returns false but still did work.
	ticks := r.sampler.Counters().Ticks - before
	r.ticks += ticks
	r.frames++

	done := r.Done()
	if done || r.collector.ShouldFlush(r.frames) {
		r.timer.StartPhase(telemetry.PhaseTelemetry)
		r.flushTelemetry()
	}
	if done {
		r.timer.StartPhase(telemetry.PhaseOutput)
		r.finish()
	}
	r.timer.EndFrame(ticks)

	return !done
}

// Run calls Frame until the run is done or ctx is cancelled. With a non-zero
// driver.frame_interval frames are paced by a ticker.
func (r *Runner) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if iv := r.cfg.Driver.FrameInterval; iv > 0 {
		t := time.NewTicker(time.Duration(iv * float64(time.Second)))
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("run interrupted", "run_id", r.runID, "frame", r.frames)
			r.flushTelemetry()
			r.finish()
			return ctx.Err()
		default:
		}

		if !r.Frame() {
			return nil
		}

		if tick != nil {
			select {
			case <-ctx.Done():
			case <-tick:
			}
		}
	}
}

// flushTelemetry closes the current stats window and records milestones.
func (r *Runner) flushTelemetry() {
	if r.frames == r.lastFlush {
		return
	}
	r.lastFlush = r.frames

	stats := r.collector.Flush(r.frames, r.sampler)
	perfStats := r.timer.Stats()

	if r.opts.StatsCallback != nil {
		r.opts.StatsCallback(stats)
	}

	if r.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := r.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := r.output.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, m := range r.milestones.Check(stats) {
		if r.opts.LogStats {
			m.LogMilestone()
		}
		if err := r.output.WriteMilestone(m); err != nil {
			slog.Error("failed to write milestone", "error", err)
		}
	}
}

// finish dumps the accepted points and logs a run summary, once.
func (r *Runner) finish() {
	if r.finished {
		return
	}
	r.finished = true

	if err := r.output.WritePoints(r.sampler); err != nil {
		slog.Error("failed to write points", "error", err)
	}

	c := r.sampler.Counters()
	slog.Info("run finished",
		"run_id", r.runID,
		"state", r.sampler.State().String(),
		"frames", r.frames,
		"ticks", c.Ticks,
		"points", r.sampler.NumPoints(),
		"active", r.sampler.NumActive(),
		"coverage", r.sampler.Coverage(),
		"attempts", c.Attempts,
	)
}

// Close flushes and closes the output files.
func (r *Runner) Close() error {
	return r.output.Close()
}
