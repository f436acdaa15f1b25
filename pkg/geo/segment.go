package geo

// Segment is a straight line between two points.
type Segment struct {
	Start, End Point
}

// NewSegment builds a segment from two points.
func NewSegment(from, to Point) Segment {
	return Segment{Start: from, End: to}
}

// Intersects reports whether the two segments share at least one point.
// Collinear segments that overlap or touch at an endpoint intersect.
func (s Segment) Intersects(o Segment) bool {
	o1 := orientation(s.Start, s.End, o.Start)
	o2 := orientation(s.Start, s.End, o.End)
	o3 := orientation(o.Start, o.End, s.Start)
	o4 := orientation(o.Start, o.End, s.End)

	if o1 != o2 && o3 != o4 {
		return true
	}

	// Collinear special cases: an endpoint lying on the other segment.
	switch {
	case o1 == 0 && onSegment(s.Start, o.Start, s.End):
		return true
	case o2 == 0 && onSegment(s.Start, o.End, s.End):
		return true
	case o3 == 0 && onSegment(o.Start, s.Start, o.End):
		return true
	case o4 == 0 && onSegment(o.Start, s.End, o.End):
		return true
	}
	return false
}

// orientation returns 0 when p, q, r are collinear, 1 when clockwise,
// 2 when counter-clockwise. Products are computed in int64 so that
// coordinate-width values never overflow.
func orientation(p, q, r Point) int {
	v := int64(q.Y-p.Y)*int64(r.X-q.X) - int64(q.X-p.X)*int64(r.Y-q.Y)
	switch {
	case v == 0:
		return 0
	case v > 0:
		return 1
	}
	return 2
}

// onSegment reports whether q lies within the bounding box of p and r.
// Only meaningful when p, q, r are collinear.
func onSegment(p, q, r Point) bool {
	return q.X <= max(p.X, r.X) && q.X >= min(p.X, r.X) &&
		q.Y <= max(p.Y, r.Y) && q.Y >= min(p.Y, r.Y)
}
