// Package math provides the small 2D math types shared by the client.
package math

import "math"

// Vec2 is a position or offset in world units.
type Vec2 struct {
	X, Y float64
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Floor rounds both components toward negative infinity, so positions just
// left of or above the origin land on cell -1.
func (v Vec2) Floor() Point {
	return Point{X: int(math.Floor(v.X)), Y: int(math.Floor(v.Y))}
}
