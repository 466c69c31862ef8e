// Package components defines the plain data types shared by the sampler,
// its systems and the telemetry layer.
package components

import "math"

// Point is an accepted (or candidate) sample position in domain units.
type Point struct {
	X, Y float64
}

// DistSq returns the squared Euclidean distance between p and q.
func (p Point) DistSq(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Sqrt(p.DistSq(q))
}

// Offset returns p moved by distance r along angle theta (radians).
func (p Point) Offset(r, theta float64) Point {
	return Point{X: p.X + r*math.Cos(theta), Y: p.Y + r*math.Sin(theta)}
}

// In reports whether p lies inside [0,width) x [0,height).
func (p Point) In(width, height float64) bool {
	return p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < height
}
