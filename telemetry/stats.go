// Package telemetry tracks sampling progress: per-window counters, point
// spacing statistics, milestones, frame timing and CSV output.
package telemetry

import (
	"log/slog"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/poissondisk/components"
	"github.com/pthm-cable/poissondisk/sampler"
)

// WindowStats holds aggregated statistics for a window of frames.
type WindowStats struct {
	RunID            string `csv:"run_id"`
	WindowStartFrame int    `csv:"-"`
	WindowEndFrame   int    `csv:"window_end"`
	Tick             int    `csv:"tick"`
	State            string `csv:"state"`

	// Totals at window end
	Points   int     `csv:"points"`
	Active   int     `csv:"active"`
	Coverage float64 `csv:"coverage"`

	// Work done during the window
	Attempts          int     `csv:"attempts"`
	Accepted          int     `csv:"accepted"`
	NeighborRejects   int     `csv:"neighbor_rejects"`
	OutOfBoundsDraws  int     `csv:"oob_draws"`
	OutOfBoundsMisses int     `csv:"oob_misses"`
	Retired           int     `csv:"retired"`
	AcceptRate        float64 `csv:"accept_rate"`

	// Nearest-neighbour spacing, sampled at window end
	Spacing SpacingStats `csv:"spacing"`
}

// SpacingStats summarises nearest-neighbour distances between accepted points.
type SpacingStats struct {
	Samples int     `csv:"samples"`
	Min     float64 `csv:"min"`
	Mean    float64 `csv:"mean"`
	Std     float64 `csv:"std"`
	P10     float64 `csv:"p10"`
	P50     float64 `csv:"p50"`
	P90     float64 `csv:"p90"`
	Ratio   float64 `csv:"ratio"` // Mean / radius
}

// ComputeSpacingStats measures the distance from each point to its nearest
// neighbour within 2*radius. Points with no neighbour in that range (the
// frontier early in a run) are skipped. When limit > 0 and there are more
// points than limit, a random subset of limit points is measured.
func ComputeSpacingStats(pts []components.Point, index sampler.Neighbors, radius float64, limit int, rng *rand.Rand) SpacingStats {
	indices := make([]int, len(pts))
	for i := range indices {
		indices[i] = i
	}
	if limit > 0 && len(indices) > limit && rng != nil {
		rng.Shuffle(len(indices), func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })
		indices = indices[:limit]
	}

	dists := make([]float64, 0, len(indices))
	for _, i := range indices {
		if d, ok := index.Nearest(pts[i], i, 2*radius); ok {
			dists = append(dists, d)
		}
	}
	return SummariseSpacing(dists, radius)
}

// SummariseSpacing computes the spacing summary from raw distances.
func SummariseSpacing(dists []float64, radius float64) SpacingStats {
	if len(dists) == 0 {
		return SpacingStats{}
	}

	sorted := make([]float64, len(dists))
	copy(sorted, dists)
	sort.Float64s(sorted)

	mean, std := stat.PopMeanStdDev(sorted, nil)
	s := SpacingStats{
		Samples: len(sorted),
		Min:     sorted[0],
		Mean:    mean,
		Std:     std,
		P10:     stat.Quantile(0.10, stat.LinInterp, sorted, nil),
		P50:     stat.Quantile(0.50, stat.LinInterp, sorted, nil),
		P90:     stat.Quantile(0.90, stat.LinInterp, sorted, nil),
	}
	if radius > 0 {
		s.Ratio = mean / radius
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", s.RunID),
		slog.Int("window_start", s.WindowStartFrame),
		slog.Int("window_end", s.WindowEndFrame),
		slog.Int("tick", s.Tick),
		slog.String("state", s.State),
		slog.Int("points", s.Points),
		slog.Int("active", s.Active),
		slog.Float64("coverage", s.Coverage),
		slog.Int("attempts", s.Attempts),
		slog.Int("accepted", s.Accepted),
		slog.Int("neighbor_rejects", s.NeighborRejects),
		slog.Int("oob_draws", s.OutOfBoundsDraws),
		slog.Int("oob_misses", s.OutOfBoundsMisses),
		slog.Int("retired", s.Retired),
		slog.Float64("accept_rate", s.AcceptRate),
		slog.Float64("spacing_mean", s.Spacing.Mean),
		slog.Float64("spacing_min", s.Spacing.Min),
		slog.Float64("spacing_ratio", s.Spacing.Ratio),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"tick", s.Tick,
		"state", s.State,
		"points", s.Points,
		"active", s.Active,
		"coverage", s.Coverage,
		"accept_rate", s.AcceptRate,
		"spacing_p50", s.Spacing.P50,
	)
}
