package voxelized2d

import (
	"fmt"
	"github.com/deadsy/sdfx/vec/v2"
)

// VoxelGrid2 holds the field sampled at the vertices of a uniform grid of SizeX x SizeY square cells.
type VoxelGrid2 struct {
	A            float64 // Cell size
	SizeX, SizeY int     // Cell count on each axis (there is one more vertex than cells on each axis)
	origin       v2.Vec  // World position of vertex (0, 0), set by Fill
	values       []float64
	filled       bool
}

// NewVoxelGrid2 allocates an unfilled grid. Fill must run before any extraction.
func NewVoxelGrid2(a float64, sizeX, sizeY int) *VoxelGrid2 {
	if a <= 0 || sizeX < 1 || sizeY < 1 {
		panic(fmt.Sprintf("voxelized2d: invalid grid (cell size %v, %dx%d cells)", a, sizeX, sizeY))
	}
	return &VoxelGrid2{
		A:      a,
		SizeX:  sizeX,
		SizeY:  sizeY,
		values: make([]float64, (sizeX+1)*(sizeY+1)),
	}
}

func (g *VoxelGrid2) VerticesX() int { return g.SizeX + 1 }

func (g *VoxelGrid2) VerticesY() int { return g.SizeY + 1 }

// Origin is the world position of vertex (0, 0).
func (g *VoxelGrid2) Origin() v2.Vec { return g.origin }

// Filled reports whether a sampling pass has populated the grid.
func (g *VoxelGrid2) Filled() bool { return g.filled }

// Fill samples f at every vertex. This is the only place where the field is densely sampled.
func (g *VoxelGrid2) Fill(f Field, origin v2.Vec) {
	g.origin = origin
	vx := g.VerticesX()
	for y := 0; y < g.VerticesY(); y++ {
		for x := 0; x < vx; x++ {
			g.values[y*vx+x] = f.Evaluate(origin.Add(v2.Vec{X: g.A * float64(x), Y: g.A * float64(y)}))
		}
	}
	g.filled = true
}

// Get returns the sampled value at vertex (x, y).
func (g *VoxelGrid2) Get(x, y int) float64 {
	return g.values[y*g.VerticesX()+x]
}

// Point returns the world position of vertex (x, y).
func (g *VoxelGrid2) Point(x, y int) v2.Vec {
	return g.origin.Add(v2.Vec{X: g.A * float64(x), Y: g.A * float64(y)})
}

// Square returns the square covered by cell (x, y).
func (g *VoxelGrid2) Square(x, y int) Square2 {
	half := g.A / 2
	return Square2{Center: g.Point(x, y).Add(v2.Vec{X: half, Y: half}), Extent: half}
}

// Bounds returns the world rectangle covered by all cells.
func (g *VoxelGrid2) Bounds() (min, max v2.Vec) {
	return g.Point(0, 0), g.Point(g.SizeX, g.SizeY)
}

func (g *VoxelGrid2) mustBeFilled() {
	if !g.filled {
		panic("voxelized2d: grid must be filled before extracting a contour")
	}
}

//-----------------------------------------------------------------------------
// CELLS
//-----------------------------------------------------------------------------

// Crossing mask bits, one per cell edge.
const (
	EdgeBottom = 1 << iota // p0 -> p1
	EdgeRight              // p1 -> p3
	EdgeTop                // p3 -> p2
	EdgeLeft               // p2 -> p0
)

// cellEdges lists the corner indices of each edge, in mask bit order.
var cellEdges = [4][2]int{{0, 1}, {1, 3}, {3, 2}, {2, 0}}

// SameSign reports whether a and b lie on the same side of the surface. Zero counts as non-positive.
func SameSign(a, b float64) bool {
	if a > 0 {
		return b > 0
	}
	return b <= 0
}

// cell is a snapshot of the 4 corners of a grid cell: 0=(x,y), 1=(x+1,y), 2=(x,y+1), 3=(x+1,y+1).
type cell struct {
	p    [4]float64
	v    [4]v2.Vec
	mask int
}

func (g *VoxelGrid2) cell(x, y int) cell {
	c := cell{
		p: [4]float64{g.Get(x, y), g.Get(x+1, y), g.Get(x, y+1), g.Get(x+1, y+1)},
		v: [4]v2.Vec{g.Point(x, y), g.Point(x+1, y), g.Point(x, y+1), g.Point(x+1, y+1)},
	}
	for bit, e := range cellEdges {
		if !SameSign(c.p[e[0]], c.p[e[1]]) {
			c.mask |= 1 << bit
		}
	}
	return c
}

// CrossingMask returns which edges of cell (x, y) have endpoints of different sign (see EdgeBottom...).
func (g *VoxelGrid2) CrossingMask(x, y int) int {
	g.mustBeFilled()
	return g.cell(x, y).mask
}

// quad returns the two triangles filling a uniform cell, split along the v0-v3 diagonal.
func (c *cell) quad() [2]Triangle2 {
	return [2]Triangle2{
		{P1: c.v[0], P2: c.v[1], P3: c.v[3]},
		{P1: c.v[0], P2: c.v[3], P3: c.v[2]},
	}
}
