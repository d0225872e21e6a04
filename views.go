package voxelized2d

import (
	"github.com/deadsy/sdfx/vec/v2"
)

// MakeLines rebuilds only the dual edges from already computed features, without sampling the field.
func MakeLines(grid *VoxelGrid2, features []Feature) []Line2 {
	grid.mustBeFilled()
	var res []Line2
	for y := 0; y < grid.SizeY; y++ {
		for x := 0; x < grid.SizeX; x++ {
			feature := features[y*grid.SizeX+x]
			if !feature.Valid {
				continue
			}
			mask := grid.cell(x, y).mask
			if mask&EdgeRight != 0 && x+1 < grid.SizeX {
				if right := features[y*grid.SizeX+x+1]; right.Valid {
					res = append(res, Line2{Start: feature.Vertex, End: right.Vertex})
				}
			}
			if mask&EdgeTop != 0 && y+1 < grid.SizeY {
				if up := features[(y+1)*grid.SizeX+x]; up.Valid {
					res = append(res, Line2{Start: feature.Vertex, End: up.Vertex})
				}
			}
		}
	}
	return res
}

// MakeTriangles rebuilds only the inside fill (uniform quads and fan triangles) from already computed caches,
// without sampling the field.
func MakeTriangles(grid *VoxelGrid2, features []Feature, intersections, extras [][]v2.Vec) []Triangle2 {
	grid.mustBeFilled()
	var res []Triangle2
	for y := 0; y < grid.SizeY; y++ {
		for x := 0; x < grid.SizeX; x++ {
			t := y*grid.SizeX + x
			c := grid.cell(x, y)
			if c.mask == 0 {
				if c.p[0] < 0 {
					quad := c.quad()
					res = append(res, quad[0], quad[1])
				}
				continue
			}
			if !features[t].Valid || intersections[t] == nil {
				continue // Not computed by the traversal that produced the caches
			}
			for i := range intersections[t] {
				res = append(res, Triangle2{P1: features[t].Vertex, P2: intersections[t][i], P3: extras[t][i]})
			}
		}
	}
	return res
}

// Views rebuilds the lines and triangles of data from its caches. See MakeLines and MakeTriangles.
func (d *ContourData) Views(grid *VoxelGrid2) ([]Line2, []Triangle2) {
	return MakeLines(grid, d.Features), MakeTriangles(grid, d.Features, d.Intersections, d.Extras)
}
