package model

import "math"

// Location is a point in the world, in yards.
// Value type, passed by value (immutable).
type Location struct {
	X float64
	Y float64
	Z float64
}

// NewLocation creates a Location at (x, y, z).
func NewLocation(x, y, z float64) Location {
	return Location{X: x, Y: y, Z: z}
}

// WithCoordinates returns a copy moved to (x, y, z) (immutable pattern).
func (l Location) WithCoordinates(x, y, z float64) Location {
	l.X = x
	l.Y = y
	l.Z = z
	return l
}

// DistanceSquared returns the squared 3D distance to other (no sqrt on the hot path).
func (l Location) DistanceSquared(other Location) float64 {
	dx := l.X - other.X
	dy := l.Y - other.Y
	dz := l.Z - other.Z
	return dx*dx + dy*dy + dz*dz
}

// Distance returns the 3D distance to other.
func (l Location) Distance(other Location) float64 {
	return math.Sqrt(l.DistanceSquared(other))
}

// MoveToward returns the point reached by walking step yards from l toward
// dest, stopping stopAt yards short of it. Never overshoots.
func (l Location) MoveToward(dest Location, step, stopAt float64) Location {
	dist := l.Distance(dest)
	travel := dist - stopAt
	if travel <= 0 || step <= 0 {
		return l
	}
	travel = min(travel, step)
	ratio := travel / dist
	return Location{
		X: l.X + (dest.X-l.X)*ratio,
		Y: l.Y + (dest.Y-l.Y)*ratio,
		Z: l.Z + (dest.Z-l.Z)*ratio,
	}
}
