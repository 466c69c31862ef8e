package telemetry

import (
	"math/rand"

	"github.com/pthm-cable/poissondisk/sampler"
)

// seedPoints is how many points a sampler accepts before its first Tick.
const seedPoints = 1

// Collector turns the sampler's cumulative counters into per-window deltas.
type Collector struct {
	runID        string
	windowFrames int
	sampleLimit  int
	rng          *rand.Rand

	// Current window tracking
	windowStartFrame int
	last             sampler.Counters
}

// NewCollector creates a collector that flushes every windowFrames frames.
// start is the sampler's counters when collection begins, so the seed point
// is not reported as work done in the first window. sampleLimit caps the
// points measured for spacing stats (0 = all).
func NewCollector(runID string, windowFrames, sampleLimit int, seed int64, start sampler.Counters) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{
		runID:        runID,
		windowFrames: windowFrames,
		sampleLimit:  sampleLimit,
		rng:          rand.New(rand.NewSource(seed)),
		last:         start,
	}
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(frame int) bool {
	return frame-c.windowStartFrame >= c.windowFrames
}

// WindowFrames returns the number of frames per window.
func (c *Collector) WindowFrames() int {
	return c.windowFrames
}

// Flush produces a WindowStats covering work since the previous flush and
// starts a new window at frame.
func (c *Collector) Flush(frame int, s *sampler.Sampler) WindowStats {
	now := s.Counters()
	// Counters restart on Reset with only the new seed point accepted.
	if now.Ticks < c.last.Ticks {
		c.last = sampler.Counters{Accepted: seedPoints}
	}

	stats := WindowStats{
		RunID:             c.runID,
		WindowStartFrame:  c.windowStartFrame,
		WindowEndFrame:    frame,
		Tick:              now.Ticks,
		State:             s.State().String(),
		Points:            s.NumPoints(),
		Active:            s.NumActive(),
		Coverage:          s.Coverage(),
		Attempts:          now.Attempts - c.last.Attempts,
		Accepted:          now.Accepted - c.last.Accepted,
		NeighborRejects:   now.NeighborRejects - c.last.NeighborRejects,
		OutOfBoundsDraws:  now.OutOfBoundsDraws - c.last.OutOfBoundsDraws,
		OutOfBoundsMisses: now.OutOfBoundsMisses - c.last.OutOfBoundsMisses,
		Retired:           now.Retired - c.last.Retired,
	}
	if stats.Attempts > 0 {
		stats.AcceptRate = float64(stats.Accepted) / float64(stats.Attempts)
	}
	stats.Spacing = ComputeSpacingStats(s.Points(), s.Index(), s.Radius(), c.sampleLimit, c.rng)

	c.windowStartFrame = frame
	c.last = now

	return stats
}
