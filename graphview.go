package graphview

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when the color is handed to a drawing surface.
type Color struct {
	R, G, B, A float64
}

// Vec2 is a 2D vector used for positions, offsets, and sizes throughout the API.
type Vec2 struct {
	X, Y float64
}

// Bounds is an axis-aligned rectangle in a single coordinate space (usually
// canvas space). The origin is at the top-left, with Y increasing downward.
// Width and Height are never negative; zero-area bounds describe a point.
type Bounds struct {
	X, Y, Width, Height float64
}

// Right returns the X coordinate of the right edge.
func (b Bounds) Right() float64 { return b.X + b.Width }

// Bottom returns the Y coordinate of the bottom edge.
func (b Bounds) Bottom() float64 { return b.Y + b.Height }

// Center returns the midpoint of the rectangle.
func (b Bounds) Center() Vec2 {
	return Vec2{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.Width &&
		y >= b.Y && y <= b.Y+b.Height
}

// ContainsBounds reports whether other lies entirely inside b. Shared edges
// count as inside.
func (b Bounds) ContainsBounds(other Bounds) bool {
	return other.X >= b.X && other.X+other.Width <= b.X+b.Width &&
		other.Y >= b.Y && other.Y+other.Height <= b.Y+b.Height
}

// Intersects reports whether b and other overlap using closed intervals on
// both axes. Rectangles sharing only an edge or a corner are intersecting.
func (b Bounds) Intersects(other Bounds) bool {
	return b.X <= other.X+other.Width &&
		b.X+b.Width >= other.X &&
		b.Y <= other.Y+other.Height &&
		b.Y+b.Height >= other.Y
}

// Union returns the smallest rectangle containing both b and other.
func (b Bounds) Union(other Bounds) Bounds {
	minX := min(b.X, other.X)
	minY := min(b.Y, other.Y)
	maxX := max(b.Right(), other.Right())
	maxY := max(b.Bottom(), other.Bottom())
	return Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Expand grows the rectangle by dx on the left and right and dy on the top
// and bottom. Negative values shrink it, never below zero size.
func (b Bounds) Expand(dx, dy float64) Bounds {
	out := Bounds{X: b.X - dx, Y: b.Y - dy, Width: b.Width + 2*dx, Height: b.Height + 2*dy}
	if out.Width < 0 {
		out.X += out.Width / 2
		out.Width = 0
	}
	if out.Height < 0 {
		out.Y += out.Height / 2
		out.Height = 0
	}
	return out
}

// valid reports whether the rectangle has non-negative dimensions.
func (b Bounds) valid() bool {
	return b.Width >= 0 && b.Height >= 0
}

// ToRGBA converts c to a premultiplied color.RGBA.
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
