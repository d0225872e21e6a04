package voxelized2d

import (
	"github.com/deadsy/sdfx/vec/v2"
	"math"
)

// Line2 is a segment. When used as a tangent constraint it stands for the infinite line through both points.
type Line2 struct {
	Start, End v2.Vec
}

// Triangle2 is a triangle of the output mesh.
type Triangle2 struct {
	P1, P2, P3 v2.Vec
}

// Square2 is an axis aligned square given by its center and half side length.
type Square2 struct {
	Center v2.Vec
	Extent float64
}

// Min is the lowest corner of the square.
func (s Square2) Min() v2.Vec {
	return s.Center.Sub(v2.Vec{X: s.Extent, Y: s.Extent})
}

// Contains reports whether p lies in the closed square.
func (s Square2) Contains(p v2.Vec) bool {
	return math.Abs(p.X-s.Center.X) <= s.Extent && math.Abs(p.Y-s.Center.Y) <= s.Extent
}

// distancePointLine is the perpendicular distance from p to the infinite line through l.
func distancePointLine(p v2.Vec, l Line2) float64 {
	d := l.End.Sub(l.Start)
	rel := p.Sub(l.Start)
	length := d.Length()
	if length == 0 {
		return rel.Length()
	}
	return math.Abs(d.X*rel.Y-d.Y*rel.X) / length
}
