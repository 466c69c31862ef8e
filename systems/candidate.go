package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/poissondisk/components"
)

// CandidateGenerator draws trial points from the annulus [r, 2r) around an
// active sample.
type CandidateGenerator struct {
	rng *rand.Rand
}

// NewCandidateGenerator wraps rng. The generator does not own rng; the
// sampler shares it with seeding so a fixed seed reproduces a whole run.
func NewCandidateGenerator(rng *rand.Rand) *CandidateGenerator {
	return &CandidateGenerator{rng: rng}
}

// Generate returns origin offset by a uniform angle in [0, 2pi) and a
// uniform distance in [radius, 2*radius).
func (cg *CandidateGenerator) Generate(origin components.Point, radius float64) components.Point {
	theta := 2 * math.Pi * cg.rng.Float64()
	dist := radius * (1 + cg.rng.Float64())
	return origin.Offset(dist, theta)
}

// GenerateInBounds draws candidates until one lands inside the width x height
// domain, giving up once more than maxRedraws draws were discarded. redraws is
// the number of out-of-bounds draws thrown away.
func (cg *CandidateGenerator) GenerateInBounds(origin components.Point, radius, width, height float64, maxRedraws int) (p components.Point, redraws int, ok bool) {
	for {
		p = cg.Generate(origin, radius)
		if p.In(width, height) {
			return p, redraws, true
		}
		redraws++
		if redraws > maxRedraws {
			return p, redraws, false
		}
	}
}

// Uniform returns a point drawn uniformly from [0,width) x [0,height).
func (cg *CandidateGenerator) Uniform(width, height float64) components.Point {
	return components.Point{X: cg.rng.Float64() * width, Y: cg.rng.Float64() * height}
}
