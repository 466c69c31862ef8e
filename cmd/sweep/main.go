// Package main sweeps sampler parameters and reports point counts, cost and
// spacing for every radius and candidate combination.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/poissondisk/config"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	radiiFlag := flag.String("radii", "3,5,8", "Comma-separated radii to sweep")
	candidatesFlag := flag.String("candidates", "1,5,10,30", "Comma-separated candidate counts to sweep")
	seeds := flag.Int("seeds", 3, "Number of seeds per sweep point")
	maxTicks := flag.Int("max-ticks", 0, "Tick cap per run (0 = run to exhaustion)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if *seeds < 1 {
		log.Fatal("--seeds must be at least 1")
	}

	radii, err := parseFloatList(*radiiFlag)
	if err != nil {
		log.Fatalf("invalid --radii: %v", err)
	}
	candidates, err := parseIntList(*candidatesFlag)
	if err != nil {
		log.Fatalf("invalid --candidates: %v", err)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	// Fixed seeds so sweeps are comparable across invocations
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewEvaluator(baseCfg, evalSeeds, *maxTicks)
	grid := Grid(radii, candidates)

	fmt.Printf("Sweeping %d points (%d radii x %d candidate counts), %d seeds each, domain %dx%d\n",
		len(grid), len(radii), len(candidates), *seeds, baseCfg.Sampler.Width, baseCfg.Sampler.Height)

	results := make([]SweepResult, 0, len(grid))
	best := -1
	startTime := time.Now()
	for i, sp := range grid {
		res, err := evaluator.Evaluate(sp)
		if err != nil {
			log.Printf("skipping r=%v k=%d: %v", sp.Radius, sp.Candidates, err)
			continue
		}
		results = append(results, res)
		if best < 0 || res.PackingDensity > results[best].PackingDensity {
			best = len(results) - 1
		}

		elapsed := time.Since(startTime)
		remaining := elapsed / time.Duration(i+1) * time.Duration(len(grid)-i-1)
		fmt.Printf("Point %d/%d: r=%.2f k=%d points=%.0f±%.0f density=%.3f attempts/pt=%.2f | elapsed: %s, ETA: %s\n",
			i+1, len(grid), sp.Radius, sp.Candidates, res.PointsMean, res.PointsStd,
			res.PackingDensity, res.AttemptsPerPoint,
			formatDuration(elapsed), formatDuration(remaining))
	}

	csvPath := filepath.Join(*outputDir, "sweep.csv")
	f, err := os.Create(csvPath)
	if err != nil {
		log.Fatalf("failed to create %s: %v", csvPath, err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&results, f); err != nil {
		log.Fatalf("failed to write %s: %v", csvPath, err)
	}
	fmt.Printf("\nSweep complete in %s, results saved to: %s\n", formatDuration(time.Since(startTime)), csvPath)

	if best < 0 {
		return
	}

	// Save the densest configuration
	bestCfg := *baseCfg
	SweepPoint{Radius: results[best].Radius, Candidates: results[best].Candidates}.ApplyToConfig(&bestCfg)
	configOutPath := filepath.Join(*outputDir, "densest_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write densest config: %v", err)
	} else {
		fmt.Printf("Densest config (r=%v k=%d) saved to: %s\n", results[best].Radius, results[best].Candidates, configOutPath)
	}
}
