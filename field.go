package voxelized2d

import (
	"github.com/deadsy/sdfx/sdf"
	"github.com/deadsy/sdfx/vec/v2"
	"math"
)

// Field is an implicit 2D scene: negative inside, positive outside and zero on the boundary.
// Any sdf.SDF2 is a Field, and every Field defined here is also an sdf.SDF2.
type Field interface {
	Evaluate(p v2.Vec) float64
}

var (
	_ sdf.SDF2 = (*Circle)(nil)
	_ sdf.SDF2 = (*Rectangle)(nil)
	_ sdf.SDF2 = (*UnionField)(nil)
	_ sdf.SDF2 = (*DifferenceField)(nil)
)

//-----------------------------------------------------------------------------
// PRIMITIVES
//-----------------------------------------------------------------------------

// Circle is the exact signed distance to a circle.
type Circle struct {
	Center v2.Vec
	Radius float64
}

// NewCircle see Circle
func NewCircle(center v2.Vec, radius float64) *Circle {
	return &Circle{Center: center, Radius: radius}
}

func (c *Circle) Evaluate(p v2.Vec) float64 {
	return p.Sub(c.Center).Length() - c.Radius
}

func (c *Circle) BoundingBox() sdf.Box2 {
	r := v2.Vec{X: c.Radius, Y: c.Radius}
	return sdf.Box2{Min: c.Center.Sub(r), Max: c.Center.Add(r)}
}

// Rectangle is the exact signed distance to an axis aligned rectangle.
type Rectangle struct {
	Center      v2.Vec
	HalfExtents v2.Vec
}

// NewRectangle see Rectangle
func NewRectangle(center, halfExtents v2.Vec) *Rectangle {
	return &Rectangle{Center: center, HalfExtents: halfExtents}
}

func (r *Rectangle) Evaluate(p v2.Vec) float64 {
	dx := math.Abs(p.X-r.Center.X) - r.HalfExtents.X
	dy := math.Abs(p.Y-r.Center.Y) - r.HalfExtents.Y
	outside := math.Hypot(math.Max(dx, 0), math.Max(dy, 0))
	inside := math.Min(math.Max(dx, dy), 0)
	return outside + inside
}

func (r *Rectangle) BoundingBox() sdf.Box2 {
	return sdf.Box2{Min: r.Center.Sub(r.HalfExtents), Max: r.Center.Add(r.HalfExtents)}
}

//-----------------------------------------------------------------------------
// COMBINATORS
//-----------------------------------------------------------------------------

// UnionField is the region inside A or B.
type UnionField struct {
	A, B Field
}

// Union see UnionField
func Union(a, b Field) *UnionField {
	return &UnionField{A: a, B: b}
}

func (u *UnionField) Evaluate(p v2.Vec) float64 {
	return math.Min(u.A.Evaluate(p), u.B.Evaluate(p))
}

func (u *UnionField) BoundingBox() sdf.Box2 {
	a, okA := boundingBox(u.A)
	b, okB := boundingBox(u.B)
	switch {
	case okA && okB:
		return sdf.Box2{
			Min: v2.Vec{X: math.Min(a.Min.X, b.Min.X), Y: math.Min(a.Min.Y, b.Min.Y)},
			Max: v2.Vec{X: math.Max(a.Max.X, b.Max.X), Y: math.Max(a.Max.Y, b.Max.Y)},
		}
	case okA:
		return a
	default:
		return b // May be empty if neither side knows its bounds
	}
}

// DifferenceField is the region inside A and outside B.
type DifferenceField struct {
	A, B Field
}

// Difference see DifferenceField
func Difference(a, b Field) *DifferenceField {
	return &DifferenceField{A: a, B: b}
}

func (d *DifferenceField) Evaluate(p v2.Vec) float64 {
	return math.Max(d.A.Evaluate(p), -d.B.Evaluate(p))
}

func (d *DifferenceField) BoundingBox() sdf.Box2 {
	bb, _ := boundingBox(d.A)
	return bb
}

// boundingBox returns the bounds of fields that know them (all sdf.SDF2 do).
func boundingBox(f Field) (sdf.Box2, bool) {
	if s, ok := f.(interface{ BoundingBox() sdf.Box2 }); ok {
		return s.BoundingBox(), true
	}
	return sdf.Box2{}, false
}
