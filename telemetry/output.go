package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/poissondisk/config"
	"github.com/pthm-cable/poissondisk/sampler"
)

// PointRecord is one row of points.csv.
type PointRecord struct {
	RunID  string  `csv:"run_id"`
	Index  int     `csv:"index"`
	X      float64 `csv:"x"`
	Y      float64 `csv:"y"`
	Active bool    `csv:"active"`
}

// csvLog is an append-only CSV file that writes its header with the first record.
type csvLog struct {
	name          string
	file          *os.File
	headerWritten bool
}

func openCSVLog(dir, name string) (*csvLog, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvLog{name: name, file: f}, nil
}

// write marshals records, which must be a slice of csv-tagged structs.
func (l *csvLog) write(records any) error {
	var err error
	if !l.headerWritten {
		err = gocsv.Marshal(records, l.file)
		l.headerWritten = err == nil
	} else {
		err = gocsv.MarshalWithoutHeaders(records, l.file)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", l.name, err)
	}
	return nil
}

func (l *csvLog) close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// OutputManager handles structured run output with CSV logging.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir        string
	runID      string
	telemetry  *csvLog
	perf       *csvLog
	milestones *csvLog
}

// NewOutputManager creates the output directory and opens the CSV logs.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir, runID string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir, runID: runID}
	var err error
	if om.telemetry, err = openCSVLog(dir, "telemetry.csv"); err != nil {
		return nil, err
	}
	if om.perf, err = openCSVLog(dir, "perf.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.milestones, err = openCSVLog(dir, "milestones.csv"); err != nil {
		om.Close()
		return nil, err
	}
	return om, nil
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry appends a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return om.telemetry.write([]WindowStats{stats})
}

// WritePerf appends a performance record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int) error {
	if om == nil {
		return nil
	}
	return om.perf.write([]PerfStatsCSV{stats.ToCSV(om.runID, windowEnd)})
}

// WriteMilestone appends a milestone record to milestones.csv.
func (om *OutputManager) WriteMilestone(m Milestone) error {
	if om == nil {
		return nil
	}
	return om.milestones.write([]Milestone{m})
}

// WritePoints dumps every accepted point, in insertion order, to points.csv.
// The file is rewritten on each call.
func (om *OutputManager) WritePoints(s *sampler.Sampler) error {
	if om == nil {
		return nil
	}

	pts := s.Points()
	records := make([]PointRecord, len(pts))
	for i, p := range pts {
		records[i] = PointRecord{
			RunID:  om.runID,
			Index:  i,
			X:      p.X,
			Y:      p.Y,
			Active: s.IsActive(i),
		}
	}

	f, err := os.Create(filepath.Join(om.dir, "points.csv"))
	if err != nil {
		return fmt.Errorf("creating points.csv: %w", err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&records, f); err != nil {
		return fmt.Errorf("writing points.csv: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, l := range []*csvLog{om.telemetry, om.perf, om.milestones} {
		if err := l.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
