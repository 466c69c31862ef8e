package telemetry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/pthm-cable/poissondisk/sampler"
)

// MilestoneType identifies the type of milestone.
type MilestoneType string

const (
	MilestoneFirstRetirement MilestoneType = "first_retirement"
	MilestoneFrontierPeak    MilestoneType = "frontier_peak"
	MilestoneCoverage        MilestoneType = "coverage"
	MilestoneExhausted       MilestoneType = "exhausted"
)

// frontierDropFraction is how far the active list must fall below its peak
// before the peak is reported.
const frontierDropFraction = 0.9

// Milestone marks a notable moment in a run.
type Milestone struct {
	RunID       string        `csv:"run_id"`
	Type        MilestoneType `csv:"type"`
	Frame       int           `csv:"frame"`
	Tick        int           `csv:"tick"`
	Points      int           `csv:"points"`
	Description string        `csv:"description"`
}

// LogMilestone logs the milestone using slog.
func (m Milestone) LogMilestone() {
	slog.Info("milestone",
		"type", string(m.Type),
		"frame", m.Frame,
		"tick", m.Tick,
		"points", m.Points,
		"description", m.Description,
	)
}

// MilestoneDetector watches successive WindowStats and reports each
// milestone once per run.
type MilestoneDetector struct {
	coverageSteps []float64
	nextStep      int

	retired   bool
	peak      int
	peakFrame int
	peakTick  int
	peakSent  bool
	exhausted bool
}

// NewMilestoneDetector creates a detector for the given coverage steps.
func NewMilestoneDetector(coverageSteps []float64) *MilestoneDetector {
	steps := append([]float64(nil), coverageSteps...)
	sort.Float64s(steps)
	return &MilestoneDetector{coverageSteps: steps}
}

// Check analyzes the latest stats and returns any triggered milestones.
func (md *MilestoneDetector) Check(stats WindowStats) []Milestone {
	var out []Milestone
	emit := func(t MilestoneType, desc string) {
		out = append(out, Milestone{
			RunID:       stats.RunID,
			Type:        t,
			Frame:       stats.WindowEndFrame,
			Tick:        stats.Tick,
			Points:      stats.Points,
			Description: desc,
		})
	}

	if !md.retired && stats.Retired > 0 {
		md.retired = true
		emit(MilestoneFirstRetirement, fmt.Sprintf("first active point retired with %d points placed", stats.Points))
	}

	if stats.Active > md.peak {
		md.peak = stats.Active
		md.peakFrame = stats.WindowEndFrame
		md.peakTick = stats.Tick
	} else if !md.peakSent && md.peak > 0 && float64(stats.Active) < frontierDropFraction*float64(md.peak) {
		md.peakSent = true
		emit(MilestoneFrontierPeak, fmt.Sprintf("active list peaked at %d (frame %d, tick %d)", md.peak, md.peakFrame, md.peakTick))
	}

	for md.nextStep < len(md.coverageSteps) && stats.Coverage >= md.coverageSteps[md.nextStep] {
		emit(MilestoneCoverage, fmt.Sprintf("grid coverage reached %.0f%%", md.coverageSteps[md.nextStep]*100))
		md.nextStep++
	}

	if !md.exhausted && stats.State == sampler.StateExhausted.String() {
		md.exhausted = true
		emit(MilestoneExhausted, fmt.Sprintf("sampling exhausted with %d points", stats.Points))
	}

	return out
}
