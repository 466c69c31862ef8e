// Package sampler implements an incremental Poisson-disk point sampler.
//
// A Sampler starts from one random seed point and, on each Tick, tries to
// place one more point in the annulus around the oldest point still on its
// active list. Points that fail Candidates attempts in a row retire from the
// active list. Once the list is empty the sampler is exhausted and every
// accepted point is at least Radius away from every other.
package sampler

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/boljen/go-bitmap"

	"github.com/pthm-cable/poissondisk/components"
	"github.com/pthm-cable/poissondisk/systems"
)

var (
	// ErrInvalidConfig is returned by New for a non-positive dimension,
	// radius or candidate count.
	ErrInvalidConfig = errors.New("invalid sampler config")

	// ErrIndexOutOfRange is returned by PointAt for an index outside [0, NumPoints()).
	ErrIndexOutOfRange = errors.New("point index out of range")
)

// DefaultMaxRedraws bounds how many out-of-bounds candidates may be redrawn
// for a single attempt before that attempt counts as failed. It applies when
// Config.MaxRedraws is zero.
const DefaultMaxRedraws = 8

// Config is fixed for the lifetime of a Sampler.
type Config struct {
	Width      int     // domain width, also the occupancy grid width in cells
	Height     int     // domain height, also the occupancy grid height in cells
	Radius     float64 // minimum distance between any two accepted points
	Candidates int     // attempts around an active point before it retires
	Grid       bool    // maintain the occupancy grid
	Seed       int64   // RNG seed; equal seeds reproduce equal runs
	MaxRedraws int     // out-of-bounds redraws per attempt (0 = DefaultMaxRedraws, negative = none)
}

// Validate reports the first invalid field, wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0:
		return fmt.Errorf("%w: width %d must be positive", ErrInvalidConfig, c.Width)
	case c.Height <= 0:
		return fmt.Errorf("%w: height %d must be positive", ErrInvalidConfig, c.Height)
	case !(c.Radius > 0) || math.IsInf(c.Radius, 1):
		return fmt.Errorf("%w: radius %v must be positive and finite", ErrInvalidConfig, c.Radius)
	case c.Candidates <= 0:
		return fmt.Errorf("%w: candidates %d must be positive", ErrInvalidConfig, c.Candidates)
	}
	return nil
}

// redrawBudget resolves MaxRedraws to the number of redraws GenerateInBounds may make.
func (c Config) redrawBudget() int {
	switch {
	case c.MaxRedraws == 0:
		return DefaultMaxRedraws
	case c.MaxRedraws < 0:
		return 0
	}
	return c.MaxRedraws
}

// State is the sampler's lifecycle phase.
type State uint8

const (
	StateSeeding State = iota
	StateSampling
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateSeeding:
		return "seeding"
	case StateSampling:
		return "sampling"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Counters are cumulative since construction or the last Reset.
type Counters struct {
	Ticks             int // Tick calls that did work
	Attempts          int // candidate attempts made
	Accepted          int // points accepted, including the seed
	NeighborRejects   int // in-bounds candidates too close to an accepted point
	OutOfBoundsDraws  int // candidates discarded for leaving the domain
	OutOfBoundsMisses int // attempts that spent their whole redraw budget
	Retired           int // points removed from the active list
}

// Sampler owns the accepted set, the active list, the spatial index and the
// optional occupancy grid. It is not safe for concurrent use.
type Sampler struct {
	cfg        Config
	width      float64
	height     float64
	maxRedraws int

	rng   *rand.Rand
	gen   *systems.CandidateGenerator
	index *systems.SpatialGrid
	grid  *systems.OccupancyGrid // nil when cfg.Grid is false

	points []components.Point
	active []int         // FIFO of indices into points; head is active[0]
	live   bitmap.Bitmap // bit i set while points[i] is on the active list

	state    State
	counters Counters
}

// New validates cfg and returns a sampler holding one uniformly random seed point.
func New(cfg Config) (*Sampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	s := &Sampler{
		cfg:        cfg,
		width:      float64(cfg.Width),
		height:     float64(cfg.Height),
		maxRedraws: cfg.redrawBudget(),
		rng:        rng,
		gen:        systems.NewCandidateGenerator(rng),
		index:      systems.NewSpatialGrid(float64(cfg.Width), float64(cfg.Height), cfg.Radius),
	}
	if cfg.Grid {
		s.grid = systems.NewOccupancyGrid(cfg.Width, cfg.Height)
	}

	// Each background cell holds at most one point, which caps the accepted set.
	capacity := s.index.Capacity()
	s.points = make([]components.Point, 0, min(capacity, 1024))
	s.live = bitmap.New(capacity)

	s.seed()
	return s, nil
}

// seed places the first point and enters the sampling state.
func (s *Sampler) seed() {
	s.state = StateSeeding
	s.accept(s.gen.Uniform(s.width, s.height))
	s.state = StateSampling
}

// Reset discards every point and reseeds, continuing the same random stream.
func (s *Sampler) Reset() {
	for i := range s.points {
		s.live.Set(i, false)
	}
	s.points = s.points[:0]
	s.active = s.active[:0]
	s.index.Reset()
	if s.grid != nil {
		s.grid.Reset()
	}
	s.counters = Counters{}
	s.seed()
}

// Tick performs one unit of work on the oldest active point: at most
// Candidates attempts, stopping at the first acceptance. If every attempt
// fails the point retires. Tick reports whether any active points remain;
// once it has returned false it keeps doing so without touching any state.
func (s *Sampler) Tick() bool {
	if len(s.active) == 0 {
		s.state = StateExhausted
		return false
	}
	s.counters.Ticks++

	origin := s.points[s.active[0]]
	for i, n := 0, s.cfg.Candidates; i < n; i++ {
		s.counters.Attempts++

		c, redraws, ok := s.gen.GenerateInBounds(origin, s.cfg.Radius, s.width, s.height, s.maxRedraws)
		s.counters.OutOfBoundsDraws += redraws
		if !ok {
			s.counters.OutOfBoundsMisses++
			continue
		}
		if s.index.HasNeighborWithin(c, s.cfg.Radius) {
			s.counters.NeighborRejects++
			continue
		}

		s.accept(c)
		return true
	}

	s.retireHead()
	if len(s.active) == 0 {
		s.state = StateExhausted
		return false
	}
	return true
}

// accept appends p to every structure that tracks the accepted set.
func (s *Sampler) accept(p components.Point) {
	idx := len(s.points)
	s.points = append(s.points, p)
	s.active = append(s.active, idx)
	s.live.Set(idx, true)
	s.index.Insert(idx, p)
	if s.grid != nil {
		s.grid.Occupy(p, s.cfg.Radius)
	}
	s.counters.Accepted++
}

// retireHead drops the front of the active list. The point stays accepted.
func (s *Sampler) retireHead() {
	s.live.Set(s.active[0], false)
	s.active = s.active[1:]
	s.counters.Retired++
}
