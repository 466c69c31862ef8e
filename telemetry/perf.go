package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one driver frame.
const (
	PhaseSample    = "sample"
	PhaseTelemetry = "telemetry"
	PhaseOutput    = "output"
)

var allPhases = []string{PhaseSample, PhaseTelemetry, PhaseOutput}

// frameSample holds timing data for a single frame.
type frameSample struct {
	duration time.Duration
	ticks    int
	phases   map[string]time.Duration
}

// FrameTimer tracks frame timing over a rolling window.
type FrameTimer struct {
	windowSize  int
	samples     []frameSample
	writeIndex  int
	sampleCount int

	current    map[string]time.Duration
	frameStart time.Time
	phaseStart time.Time
	lastPhase  string

	now func() time.Time
}

// NewFrameTimer creates a timer averaging over the last windowSize frames.
func NewFrameTimer(windowSize int) *FrameTimer {
	if windowSize < 1 {
		windowSize = 60
	}
	return &FrameTimer{
		windowSize: windowSize,
		samples:    make([]frameSample, windowSize),
		current:    make(map[string]time.Duration),
		now:        time.Now,
	}
}

// StartFrame begins timing a new frame.
func (ft *FrameTimer) StartFrame() {
	ft.frameStart = ft.now()
	ft.current = make(map[string]time.Duration)
	ft.lastPhase = ""
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (ft *FrameTimer) StartPhase(phase string) {
	now := ft.now()
	if ft.lastPhase != "" {
		ft.current[ft.lastPhase] += now.Sub(ft.phaseStart)
	}
	ft.phaseStart = now
	ft.lastPhase = phase
}

// EndFrame closes the frame, recording how many sampler ticks it ran.
func (ft *FrameTimer) EndFrame(ticks int) {
	now := ft.now()
	if ft.lastPhase != "" {
		ft.current[ft.lastPhase] += now.Sub(ft.phaseStart)
	}

	ft.samples[ft.writeIndex] = frameSample{
		duration: now.Sub(ft.frameStart),
		ticks:    ticks,
		phases:   ft.current,
	}
	ft.writeIndex = (ft.writeIndex + 1) % ft.windowSize
	if ft.sampleCount < ft.windowSize {
		ft.sampleCount++
	}
}

// PerfStats holds aggregated frame timing.
type PerfStats struct {
	AvgFrame       time.Duration
	MinFrame       time.Duration
	MaxFrame       time.Duration
	TicksPerSecond float64
	PhasePct       map[string]float64
}

// Stats computes aggregated statistics over the current window.
func (ft *FrameTimer) Stats() PerfStats {
	out := PerfStats{PhasePct: make(map[string]float64)}
	if ft.sampleCount == 0 {
		return out
	}

	var total time.Duration
	var ticks int
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < ft.sampleCount; i++ {
		s := ft.samples[i]
		total += s.duration
		ticks += s.ticks
		if i == 0 || s.duration < out.MinFrame {
			out.MinFrame = s.duration
		}
		if s.duration > out.MaxFrame {
			out.MaxFrame = s.duration
		}
		for phase, d := range s.phases {
			phaseSum[phase] += d
		}
	}

	out.AvgFrame = total / time.Duration(ft.sampleCount)
	if total > 0 {
		out.TicksPerSecond = float64(ticks) / total.Seconds()
		for phase, d := range phaseSum {
			out.PhasePct[phase] = float64(d) / float64(total) * 100
		}
	}
	return out
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_frame_us", s.AvgFrame.Microseconds(),
		"min_frame_us", s.MinFrame.Microseconds(),
		"max_frame_us", s.MaxFrame.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	for _, phase := range allPhases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	RunID        string  `csv:"run_id"`
	WindowEnd    int     `csv:"window_end"`
	AvgFrameUS   int64   `csv:"avg_frame_us"`
	MinFrameUS   int64   `csv:"min_frame_us"`
	MaxFrameUS   int64   `csv:"max_frame_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	SamplePct    float64 `csv:"sample_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
	OutputPct    float64 `csv:"output_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(runID string, windowEnd int) PerfStatsCSV {
	return PerfStatsCSV{
		RunID:        runID,
		WindowEnd:    windowEnd,
		AvgFrameUS:   s.AvgFrame.Microseconds(),
		MinFrameUS:   s.MinFrame.Microseconds(),
		MaxFrameUS:   s.MaxFrame.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		SamplePct:    s.PhasePct[PhaseSample],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
		OutputPct:    s.PhasePct[PhaseOutput],
	}
}
