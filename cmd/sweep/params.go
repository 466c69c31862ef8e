package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pthm-cable/poissondisk/config"
)

// SweepPoint is one combination of sampler parameters to evaluate.
type SweepPoint struct {
	Radius     float64
	Candidates int
}

// ApplyToConfig writes the sweep point into cfg's sampler section.
func (sp SweepPoint) ApplyToConfig(cfg *config.Config) {
	cfg.Sampler.Radius = sp.Radius
	cfg.Sampler.Candidates = sp.Candidates
}

// Grid returns the cartesian product of radii and candidate counts,
// radius-major.
func Grid(radii []float64, candidates []int) []SweepPoint {
	out := make([]SweepPoint, 0, len(radii)*len(candidates))
	for _, r := range radii {
		for _, k := range candidates {
			out = append(out, SweepPoint{Radius: r, Candidates: k})
		}
	}
	return out
}

// parseFloatList parses a comma-separated list such as "2,4.5,8".
func parseFloatList(s string) ([]float64, error) {
	var out []float64
	for _, field := range splitList(s) {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", field, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list %q", s)
	}
	return out, nil
}

// parseIntList parses a comma-separated list such as "5,10,30".
func parseIntList(s string) ([]int, error) {
	var out []int
	for _, field := range splitList(s) {
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", field, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list %q", s)
	}
	return out, nil
}

func splitList(s string) []string {
	var fields []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
