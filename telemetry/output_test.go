package telemetry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/poissondisk/config"
)

func TestOutputManager_DisabledIsNil(t *testing.T) {
	om, err := NewOutputManager("", "run")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v", om, err)
	}
	// Every method must be safe on nil.
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteMilestone(Milestone{}); err != nil {
		t.Error(err)
	}
	if err := om.WritePoints(nil); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("nil manager has a dir")
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func readCSV[T any](t *testing.T, path string) []T {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var rows []T
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatalf("unmarshal %s: %v", path, err)
	}
	return rows
}

func TestOutputManager_WritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	om, err := NewOutputManager(dir, "run-1")
	if err != nil {
		t.Fatal(err)
	}

	s := newTestSampler(t)
	c := NewCollector("run-1", 1, 0, 1, s.Counters())
	for frame := 1; frame <= 3; frame++ {
		for i := 0; i < 20; i++ {
			s.Tick()
		}
		if err := om.WriteTelemetry(c.Flush(frame, s)); err != nil {
			t.Fatal(err)
		}
	}
	perf := PerfStats{AvgFrame: time.Millisecond, PhasePct: map[string]float64{}}
	if err := om.WritePerf(perf, 3); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteMilestone(Milestone{RunID: "run-1", Type: MilestoneExhausted, Frame: 3}); err != nil {
		t.Fatal(err)
	}
	if err := om.WritePoints(s); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	stats := readCSV[WindowStats](t, filepath.Join(dir, "telemetry.csv"))
	if len(stats) != 3 {
		t.Fatalf("telemetry rows = %d, want 3", len(stats))
	}
	if stats[2].WindowEndFrame != 3 || stats[2].RunID != "run-1" {
		t.Errorf("last telemetry row = %+v", stats[2])
	}

	perfRows := readCSV[PerfStatsCSV](t, filepath.Join(dir, "perf.csv"))
	if len(perfRows) != 1 || perfRows[0].AvgFrameUS != 1000 {
		t.Errorf("perf rows = %+v", perfRows)
	}

	ms := readCSV[Milestone](t, filepath.Join(dir, "milestones.csv"))
	if len(ms) != 1 || ms[0].Type != MilestoneExhausted {
		t.Errorf("milestone rows = %+v", ms)
	}

	pts := readCSV[PointRecord](t, filepath.Join(dir, "points.csv"))
	if len(pts) != s.NumPoints() {
		t.Fatalf("point rows = %d, want %d", len(pts), s.NumPoints())
	}
	for i, row := range pts {
		p, _ := s.PointAt(i)
		if row.Index != i || row.X != p.X || row.Y != p.Y || row.Active != s.IsActive(i) {
			t.Errorf("point row %d = %+v, want %+v active=%v", i, row, p, s.IsActive(i))
		}
	}

	back, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("reload config.yaml: %v", err)
	}
	if back.Sampler != cfg.Sampler {
		t.Errorf("config round trip: %+v vs %+v", back.Sampler, cfg.Sampler)
	}
}
