package telemetry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/poissondisk/components"
	"github.com/pthm-cable/poissondisk/sampler"
	"github.com/pthm-cable/poissondisk/systems"
)

func TestSummariseSpacing(t *testing.T) {
	tests := []struct {
		name   string
		dists  []float64
		radius float64
		want   SpacingStats
	}{
		{"empty", nil, 5, SpacingStats{}},
		{"single", []float64{6}, 5, SpacingStats{Samples: 1, Min: 6, Mean: 6, P10: 6, P50: 6, P90: 6, Ratio: 1.2}},
		{"constant", []float64{4, 4, 4, 4}, 2, SpacingStats{Samples: 4, Min: 4, Mean: 4, P10: 4, P50: 4, P90: 4, Ratio: 2}},
		{"zero radius", []float64{3}, 0, SpacingStats{Samples: 1, Min: 3, Mean: 3, P10: 3, P50: 3, P90: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SummariseSpacing(tt.dists, tt.radius)
			if got != tt.want {
				t.Errorf("SummariseSpacing(%v, %v) = %+v, want %+v", tt.dists, tt.radius, got, tt.want)
			}
		})
	}
}

func TestSummariseSpacingOrdering(t *testing.T) {
	dists := []float64{9, 1, 7, 3, 5, 2, 8, 4, 6, 10}
	s := SummariseSpacing(dists, 2)

	if s.Samples != 10 || s.Min != 1 {
		t.Errorf("samples=%d min=%v", s.Samples, s.Min)
	}
	if math.Abs(s.Mean-5.5) > 1e-9 {
		t.Errorf("mean = %v, want 5.5", s.Mean)
	}
	if !(s.P10 <= s.P50 && s.P50 <= s.P90) {
		t.Errorf("percentiles out of order: %v %v %v", s.P10, s.P50, s.P90)
	}
	if s.Std <= 0 {
		t.Errorf("std = %v, want > 0", s.Std)
	}
	// Input must not be reordered.
	if dists[0] != 9 {
		t.Error("input slice was sorted in place")
	}
}

func TestComputeSpacingStatsKnownLayout(t *testing.T) {
	pts := []components.Point{{X: 1, Y: 1}, {X: 4, Y: 1}, {X: 1, Y: 5}, {X: 19, Y: 19}}
	idx := systems.NewSpatialGrid(20, 20, 3)
	for i, p := range pts {
		idx.Insert(i, p)
	}

	s := ComputeSpacingStats(pts, idx, 3, 0, nil)
	// The isolated corner point has no neighbour within 6 and is skipped.
	if s.Samples != 3 {
		t.Fatalf("samples = %d, want 3", s.Samples)
	}
	if s.Min != 3 {
		t.Errorf("min = %v, want 3", s.Min)
	}
	// Nearest distances are 3, 3 and 4.
	if math.Abs(s.Mean-10.0/3) > 1e-9 {
		t.Errorf("mean = %v, want %v", s.Mean, 10.0/3)
	}
}

func TestComputeSpacingStatsOnRun(t *testing.T) {
	const radius = 4.0
	s, err := sampler.New(sampler.Config{Width: 80, Height: 60, Radius: radius, Candidates: 20, Seed: 3})
	if err != nil {
		t.Fatal(err)
	}
	for s.Tick() {
	}

	st := ComputeSpacingStats(s.Points(), s.Index(), radius, 50, rand.New(rand.NewSource(1)))
	if st.Samples == 0 || st.Samples > 50 {
		t.Fatalf("samples = %d, want 1..50", st.Samples)
	}
	if st.Min < radius {
		t.Errorf("min spacing %v below radius %v", st.Min, radius)
	}
	if st.Ratio < 1 || st.Ratio >= 2 {
		t.Errorf("ratio = %v, want within [1, 2)", st.Ratio)
	}
}
