package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/poissondisk/config"
)

func TestParseLists(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []float64
		wantErr bool
	}{
		{"single", "5", []float64{5}, false},
		{"spaces", " 2, 4.5 ,8 ", []float64{2, 4.5, 8}, false},
		{"trailing comma", "3,", []float64{3}, false},
		{"empty", "", nil, true},
		{"garbage", "3,x", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFloatList(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFloatList(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseFloatList(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("parseFloatList(%q)[%d] = %v, want %v", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}

	if _, err := parseIntList("5,1.5"); err == nil {
		t.Error("parseIntList accepted a float")
	}
	ints, err := parseIntList("1,5,30")
	if err != nil || len(ints) != 3 || ints[2] != 30 {
		t.Errorf("parseIntList = %v, %v", ints, err)
	}
}

func TestGrid(t *testing.T) {
	g := Grid([]float64{3, 5}, []int{1, 10, 30})
	if len(g) != 6 {
		t.Fatalf("len = %d, want 6", len(g))
	}
	if g[0] != (SweepPoint{3, 1}) || g[2] != (SweepPoint{3, 30}) || g[3] != (SweepPoint{5, 1}) {
		t.Errorf("grid order = %v", g)
	}
}

func TestEvaluate(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Sampler.Width = 60
	cfg.Sampler.Height = 60

	e := NewEvaluator(cfg, []int64{1, 2, 3}, 0)
	sparse, err := e.Evaluate(SweepPoint{Radius: 6, Candidates: 1})
	if err != nil {
		t.Fatal(err)
	}
	dense, err := e.Evaluate(SweepPoint{Radius: 6, Candidates: 30})
	if err != nil {
		t.Fatal(err)
	}

	for _, res := range []SweepResult{sparse, dense} {
		if res.Seeds != 3 || res.Exhausted != 3 {
			t.Errorf("seeds=%d exhausted=%d, want 3/3", res.Seeds, res.Exhausted)
		}
		if res.PointsMean < 1 || math.IsNaN(res.PointsStd) {
			t.Errorf("points = %v ± %v", res.PointsMean, res.PointsStd)
		}
		if res.SpacingRatio != 0 && res.SpacingRatio < 1 {
			t.Errorf("spacing ratio %v below 1", res.SpacingRatio)
		}
	}
	// More candidates per point fill the domain more tightly.
	if dense.PointsMean <= sparse.PointsMean {
		t.Errorf("k=30 mean points %v not above k=1 mean %v", dense.PointsMean, sparse.PointsMean)
	}
	if dense.PackingDensity <= 0 || dense.PackingDensity > 1 {
		t.Errorf("packing density = %v", dense.PackingDensity)
	}
}

func TestEvaluateInvalidRadius(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	e := NewEvaluator(cfg, []int64{1}, 0)
	if _, err := e.Evaluate(SweepPoint{Radius: 0, Candidates: 5}); err == nil {
		t.Error("expected an error for radius 0")
	}
}

func TestAggregateSingleRun(t *testing.T) {
	res := aggregate(SweepPoint{Radius: 2, Candidates: 5}, 100, []runResult{{points: 11, ticks: 20, attempts: 40, exhausted: true}})
	if res.PointsMean != 11 || res.PointsStd != 0 {
		t.Errorf("points = %v ± %v", res.PointsMean, res.PointsStd)
	}
	if res.AttemptsPerPoint != 4 {
		t.Errorf("attempts per point = %v, want 4", res.AttemptsPerPoint)
	}
	if want := 11 * math.Pi / 100; math.Abs(res.PackingDensity-want) > 1e-12 {
		t.Errorf("packing density = %v, want %v", res.PackingDensity, want)
	}
}
