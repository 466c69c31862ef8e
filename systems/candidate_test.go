package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/poissondisk/components"
)

func TestGenerateAnnulus(t *testing.T) {
	cg := NewCandidateGenerator(rand.New(rand.NewSource(1)))
	origin := components.Point{X: 100, Y: 100}

	for i := 0; i < 10000; i++ {
		p := cg.Generate(origin, 5)
		d := p.Dist(origin)
		if d < 5-1e-9 || d >= 10+1e-9 {
			t.Fatalf("candidate %+v at distance %v, want [5, 10)", p, d)
		}
	}
}

func TestGenerateCoversAllDirections(t *testing.T) {
	cg := NewCandidateGenerator(rand.New(rand.NewSource(2)))
	origin := components.Point{}

	var quadrants [4]int
	for i := 0; i < 4000; i++ {
		p := cg.Generate(origin, 1)
		q := 0
		if p.X < 0 {
			q |= 1
		}
		if p.Y < 0 {
			q |= 2
		}
		quadrants[q]++
	}
	for q, n := range quadrants {
		if n < 800 {
			t.Errorf("quadrant %d only got %d of 4000 candidates", q, n)
		}
	}
}

func TestGenerateInBounds(t *testing.T) {
	tests := []struct {
		name       string
		origin     components.Point
		maxRedraws int
		wantOK     bool
	}{
		// A 2x2 domain with radius 5 can never contain a candidate.
		{"impossible domain", components.Point{X: 1, Y: 1}, 3, false},
		{"zero redraws impossible", components.Point{X: 1, Y: 1}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cg := NewCandidateGenerator(rand.New(rand.NewSource(4)))
			_, redraws, ok := cg.GenerateInBounds(tt.origin, 5, 2, 2, tt.maxRedraws)
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
			if redraws != tt.maxRedraws+1 {
				t.Errorf("redraws = %d, want %d", redraws, tt.maxRedraws+1)
			}
		})
	}
}

func TestGenerateInBoundsStaysInside(t *testing.T) {
	cg := NewCandidateGenerator(rand.New(rand.NewSource(5)))
	corner := components.Point{X: 0.5, Y: 0.5}

	accepted := 0
	for i := 0; i < 2000; i++ {
		p, _, ok := cg.GenerateInBounds(corner, 5, 40, 40, 16)
		if !ok {
			continue
		}
		accepted++
		if !p.In(40, 40) {
			t.Fatalf("in-bounds candidate %+v outside domain", p)
		}
	}
	if accepted == 0 {
		t.Error("expected some corner candidates to land in bounds")
	}
}

func TestUniform(t *testing.T) {
	cg := NewCandidateGenerator(rand.New(rand.NewSource(6)))
	var sumX, sumY float64
	const n = 20000
	for i := 0; i < n; i++ {
		p := cg.Uniform(10, 20)
		if !p.In(10, 20) {
			t.Fatalf("uniform point %+v outside domain", p)
		}
		sumX += p.X
		sumY += p.Y
	}
	if math.Abs(sumX/n-5) > 0.2 || math.Abs(sumY/n-10) > 0.4 {
		t.Errorf("uniform mean = (%v, %v), want ~(5, 10)", sumX/n, sumY/n)
	}
}
