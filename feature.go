package voxelized2d

import (
	"github.com/deadsy/sdfx/vec/v2"
)

// featureExtractor places the dual vertex of a single cell.
type featureExtractor struct {
	field      Field
	accuracy   int
	tangentExt float64 // Half size of the tangent search window
}

// cellFeature is everything computed for a crossing cell.
type cellFeature struct {
	vertex        v2.Vec
	intersections []v2.Vec // One entry per fan triangle...
	extras        []v2.Vec // ...paired with the corner that closes it
}

// extract computes the feature of cell c covering square, appending one fan triangle per edge record to tris.
// Cells with no sign change have no feature.
func (e *featureExtractor) extract(c *cell, square Square2, tris *[]Triangle2) (cellFeature, bool) {
	if c.mask == 0 {
		return cellFeature{}, false
	}
	res := cellFeature{
		intersections: make([]v2.Vec, 0, 4),
		extras:        make([]v2.Vec, 0, 4),
	}
	tangents := make([]Line2, 0, 4)
	for bit, edge := range cellEdges {
		va, vb := c.v[edge[0]], c.v[edge[1]]
		pa := c.p[edge[0]]
		if c.mask&(1<<bit) != 0 {
			ip := SampleIntersection(Line2{Start: va, End: vb}, e.accuracy, e.field)
			full := vb
			if pa <= 0 {
				full = va
			}
			dir := SampleTangent(Square2{Center: ip, Extent: e.tangentExt}, e.accuracy, e.field)
			tangents = append(tangents, tangentLine(ip, dir, e.tangentExt))
			res.intersections = append(res.intersections, ip)
			res.extras = append(res.extras, full)
		} else if pa < 0 {
			// Fully inside edge: the edge itself constrains the vertex and closes a fan triangle
			tangents = append(tangents, Line2{Start: va, End: vb})
			res.intersections = append(res.intersections, va)
			res.extras = append(res.extras, vb)
		}
	}
	res.vertex = SampleQEF(square, e.accuracy, tangents)
	for i := range res.intersections {
		*tris = append(*tris, Triangle2{P1: res.vertex, P2: res.intersections[i], P3: res.extras[i]})
	}
	return res, true
}
