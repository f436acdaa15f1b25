// Package geo provides the integer geometry used by the layout engine.
//
// Diagram coordinates are whole units (pixels on screen, points in vector
// output). All rectangles are axis-aligned and described by their top-left
// corner and size; Y grows downward.
//
// # Overlap Semantics
//
// Overlap tests are inclusive: two rectangles that merely touch on an edge
// count as overlapping. Layout code inflates rectangles by a padding before
// testing, so touching padded rectangles still keeps the drawn boxes apart.
package geo

import "fmt"

// Point is a 2-D integer position.
type Point struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Size is a 2-D extent. Negative sizes are never produced by this package.
type Size struct {
	Width  int `json:"width" bson:"width"`
	Height int `json:"height" bson:"height"`
}

// IsZero reports whether both dimensions are zero.
func (s Size) IsZero() bool { return s.Width == 0 && s.Height == 0 }

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	Min  Point `json:"min" bson:"min"`
	Size Size  `json:"size" bson:"size"`
}

// NewRect builds a rectangle from its top-left corner and size.
func NewRect(x, y, width, height int) Rect {
	return Rect{Min: Point{X: x, Y: y}, Size: Size{Width: width, Height: height}}
}

// Max returns the bottom-right corner.
func (r Rect) Max() Point {
	return Point{X: r.Min.X + r.Size.Width, Y: r.Min.Y + r.Size.Height}
}

// Center returns the midpoint, rounded toward the top-left.
func (r Rect) Center() Point {
	return Point{X: r.Min.X + r.Size.Width/2, Y: r.Min.Y + r.Size.Height/2}
}

// Inflate grows the rectangle by pad on every side.
// Negative pads shrink it; the size is clamped at zero.
func (r Rect) Inflate(pad int) Rect {
	out := Rect{
		Min:  Point{X: r.Min.X - pad, Y: r.Min.Y - pad},
		Size: Size{Width: r.Size.Width + 2*pad, Height: r.Size.Height + 2*pad},
	}
	out.Size.Width = max(out.Size.Width, 0)
	out.Size.Height = max(out.Size.Height, 0)
	return out
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	minX, minY := min(r.Min.X, o.Min.X), min(r.Min.Y, o.Min.Y)
	rm, om := r.Max(), o.Max()
	maxX, maxY := max(rm.X, om.X), max(rm.Y, om.Y)
	return NewRect(minX, minY, maxX-minX, maxY-minY)
}

// Overlaps reports whether r and o intersect, touching edges included.
func (r Rect) Overlaps(o Rect) bool {
	rm, om := r.Max(), o.Max()
	return rm.X >= o.Min.X && r.Min.X <= om.X &&
		rm.Y >= o.Min.Y && r.Min.Y <= om.Y
}

// Contains reports whether p lies inside r or on its border.
func (r Rect) Contains(p Point) bool {
	m := r.Max()
	return p.X >= r.Min.X && p.X <= m.X && p.Y >= r.Min.Y && p.Y <= m.Y
}

// ConnectPoint returns the point where a line from the center of r toward
// target leaves r. If target is the center itself, the center is returned.
func (r Rect) ConnectPoint(target Point) Point {
	c := r.Center()
	dx, dy := target.X-c.X, target.Y-c.Y
	if dx == 0 && dy == 0 {
		return c
	}
	hw, hh := r.Size.Width/2, r.Size.Height/2
	adx, ady := abs(dx), abs(dy)

	// Compare slopes without dividing: the line exits through the left or
	// right side when |dy|/|dx| <= hh/hw.
	if ady*hw <= adx*hh {
		x := c.X + sign(dx)*hw
		y := c.Y + dy*hw/max(adx, 1)
		return Point{X: x, Y: y}
	}
	y := c.Y + sign(dy)*hh
	x := c.X + dx*hh/max(ady, 1)
	return Point{X: x, Y: y}
}

// IntersectsSegment reports whether s touches r: either endpoint lies
// inside r, or s crosses one of r's four borders.
func (r Rect) IntersectsSegment(s Segment) bool {
	if r.Contains(s.Start) || r.Contains(s.End) {
		return true
	}
	m := r.Max()
	tl, tr := r.Min, Point{X: m.X, Y: r.Min.Y}
	bl, br := Point{X: r.Min.X, Y: m.Y}, m
	return s.Intersects(Segment{tl, tr}) ||
		s.Intersects(Segment{tr, br}) ||
		s.Intersects(Segment{br, bl}) ||
		s.Intersects(Segment{bl, tl})
}

func (r Rect) String() string {
	return fmt.Sprintf("{%s %dx%d}", r.Min, r.Size.Width, r.Size.Height)
}

// Bounds returns the union of all rects, or the zero Rect when none are given.
func Bounds(rects ...Rect) Rect {
	if len(rects) == 0 {
		return Rect{}
	}
	b := rects[0]
	for _, r := range rects[1:] {
		b = b.Union(r)
	}
	return b
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
