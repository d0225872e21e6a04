package voxelized2d

import (
	"github.com/deadsy/sdfx/vec/v2"
	"math"
)

// DefaultTangentRatio is the default size of the tangent search window, relative to the cell size.
const DefaultTangentRatio = 1.0 / 100

// SampleIntersection approximates the root of f along the line by sampling n equally spaced points (the end point
// is excluded) and keeping the one with the smallest absolute value. No refinement is performed.
func SampleIntersection(line Line2, n int, f Field) v2.Vec {
	mustSubdivide(n)
	ext := line.End.Sub(line.Start)
	bestAbs := math.Inf(1)
	best := line.Start
	for i := 0; i < n; i++ {
		point := line.Start.Add(ext.MulScalar(float64(i) / float64(n)))
		if abs := math.Abs(f.Evaluate(point)); abs < bestAbs {
			bestAbs = abs
			best = point
		}
	}
	return best
}

// SampleTangent searches an n x n lattice over the square for the point (other than the center) whose value is the
// closest to the value at the center, and returns its offset from the center: an approximate tangent direction.
func SampleTangent(square Square2, n int, f Field) v2.Vec {
	mustSubdivide(n)
	if !(square.Extent > 0) {
		panic("voxelized2d: tangent window must have a positive extent")
	}
	min := square.Min()
	atCenter := f.Evaluate(square.Center)
	closest := math.Inf(1)
	closestPoint := square.Center
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			point := min.Add(v2.Vec{
				X: square.Extent * 2 * float64(i) / float64(n),
				Y: square.Extent * 2 * float64(j) / float64(n),
			})
			if point == square.Center {
				continue
			}
			if attempt := math.Abs(f.Evaluate(point) - atCenter); attempt < closest {
				closest = attempt
				closestPoint = point
			}
		}
	}
	return closestPoint.Sub(square.Center)
}

// tangentLine builds the constraint line through ip along the sampled direction dir of a window of extent ext.
func tangentLine(ip, dir v2.Vec, ext float64) Line2 {
	d := dir.MulScalar(1 / ext)
	return Line2{Start: ip.Sub(d), End: ip.Add(d)}
}

// QEF is the sum of squared distances from point to every line.
func QEF(point v2.Vec, lines []Line2) float64 {
	var qef float64
	for _, line := range lines {
		dist := distancePointLine(point, line)
		qef += dist * dist
	}
	return qef
}

// SampleQEF minimizes QEF over the centers of an n x n subdivision of the square. Ties keep the first point found,
// iterating X in the outer loop.
func SampleQEF(square Square2, n int, lines []Line2) v2.Vec {
	mustSubdivide(n)
	if len(lines) == 0 {
		panic("voxelized2d: QEF needs at least one constraint")
	}
	min := square.Min()
	bestQef := math.Inf(1)
	best := min
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			point := min.Add(v2.Vec{
				X: square.Extent * (2*float64(i) + 1) / float64(n),
				Y: square.Extent * (2*float64(j) + 1) / float64(n),
			})
			if qef := QEF(point, lines); qef < bestQef {
				bestQef = qef
				best = point
			}
		}
	}
	return best
}

func mustSubdivide(n int) {
	if n < 1 {
		panic("voxelized2d: accuracy must be at least 1")
	}
}
