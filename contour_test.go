package voxelized2d

import (
	"github.com/deadsy/sdfx/vec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math/bits"
	"runtime"
	"sync/atomic"
	"testing"
)

type constField float64

func (f constField) Evaluate(v2.Vec) float64 { return float64(f) }

// countingField counts how many times the wrapped field is evaluated.
type countingField struct {
	Field
	calls atomic.Int64
}

func (f *countingField) Evaluate(p v2.Vec) float64 {
	f.calls.Add(1)
	return f.Field.Evaluate(p)
}

func twoCircles() Field {
	return Union(NewCircle(v2.Vec{X: 4, Y: 8}, 2), NewCircle(v2.Vec{X: 8, Y: 8}, 5))
}

// demoScene is a few circles and a rectangle combined with unions and differences.
func demoScene() Field {
	off := v2.Vec{X: 0.1, Y: 0.1}
	c := func(x, y, r float64) Field { return NewCircle(v2.Vec{X: x, Y: y}.Add(off), r) }
	rect := NewRectangle(v2.Vec{X: 8, Y: 10.8}.Add(off), v2.Vec{X: 1, Y: 3})
	var shape Field = Union(Union(c(4, 8, 2), c(8, 8, 5)), rect)
	shape = Difference(shape, c(4, 4, 2))
	shape = Difference(shape, c(8, 12, 4))
	return Difference(shape, c(8, 6, 1.1))
}

func TestUniformCells(t *testing.T) {
	grid := NewVoxelGrid2(1, 1, 1)
	data := Rebuild(constField(-1), grid, v2.Vec{}, 4)
	assert.Len(t, data.Triangles, 2)
	assert.Empty(t, data.Lines)
	assert.False(t, data.Features[0].Valid)
	assert.Nil(t, data.Intersections[0])
	assert.Equal(t, 0, data.Stats.CrossingCells)
	assert.Equal(t, 0, data.Stats.Solves)

	data = Rebuild(constField(1), grid, v2.Vec{}, 4)
	assert.Empty(t, data.Triangles)
	assert.Empty(t, data.Lines)
}

func TestSingleCrossingCell(t *testing.T) {
	grid := NewVoxelGrid2(1, 1, 1)
	f := planeField{normal: v2.Vec{X: 1}, offset: 0.4}
	data := Rebuild(f, grid, v2.Vec{}, 8)
	require.True(t, data.Features[0].Valid)
	assert.True(t, grid.Square(0, 0).Contains(data.Features[0].Vertex))
	// Bottom and top edges cross, the left edge lies fully inside
	assert.Len(t, data.Intersections[0], 3)
	assert.Len(t, data.Extras[0], 3)
	assert.Len(t, data.Triangles, 3)
	assert.Empty(t, data.Lines)
	for _, tri := range data.Triangles {
		assert.Equal(t, data.Features[0].Vertex, tri.P1)
		assert.LessOrEqual(t, f.Evaluate(tri.P3), 0.)
	}
	assert.Equal(t, 1, data.Stats.Solves)
}

func TestFeatureIsMemoized(t *testing.T) {
	grid := NewVoxelGrid2(1, 16, 16)
	grid.Fill(twoCircles(), v2.Vec{})
	counting := &countingField{Field: twoCircles()}
	b := NewBuilder(grid, counting, 8)

	x, y := 0, 0
	for grid.CrossingMask(x, y) == 0 {
		x++
		if x == grid.SizeX {
			x, y = 0, y+1
		}
	}
	first, ok := b.Feature(x, y)
	require.True(t, ok)
	calls := counting.calls.Load()
	assert.Positive(t, calls)
	second, ok := b.Feature(x, y)
	require.True(t, ok)
	assert.Equal(t, first, second)
	assert.Equal(t, calls, counting.calls.Load())

	// Non crossing cells never evaluate the field
	_, ok = b.Feature(0, 0)
	assert.False(t, ok)
	assert.Equal(t, calls, counting.calls.Load())
}

// expectedEvaluations is the number of field evaluations of a build that extracts each crossing cell exactly once.
// The accuracy n must be odd so that no tangent sample coincides with its window center.
func expectedEvaluations(grid *VoxelGrid2, n int) int64 {
	var edges int
	for y := 0; y < grid.SizeY; y++ {
		for x := 0; x < grid.SizeX; x++ {
			edges += bits.OnesCount(uint(grid.CrossingMask(x, y)))
		}
	}
	return int64(edges * (n + 1 + n*n))
}

func TestEachCellIsSolvedOnce(t *testing.T) {
	for _, workers := range []int{1, 4} {
		grid := NewVoxelGrid2(1, 16, 16)
		grid.Fill(twoCircles(), v2.Vec{})
		counting := &countingField{Field: twoCircles()}
		data := Contour(grid, counting, 7, OptWorkers(workers))
		assert.Equal(t, expectedEvaluations(grid, 7), counting.calls.Load(), "workers=%d", workers)
		assert.Equal(t, data.Stats.CrossingCells, data.Stats.Solves, "workers=%d", workers)
		assert.Equal(t, 256, data.Stats.Cells)
	}
}

func TestTwoCirclesScene(t *testing.T) {
	f := twoCircles()
	run := func() *ContourData {
		return Rebuild(f, NewVoxelGrid2(1, 16, 16), v2.Vec{}, 8)
	}
	data := run()
	require.NotEmpty(t, data.Triangles)
	require.NotEmpty(t, data.Lines)
	for _, tri := range data.Triangles {
		outside := f.Evaluate(tri.P1) > 0 && f.Evaluate(tri.P2) > 0 && f.Evaluate(tri.P3) > 0
		assert.False(t, outside, "triangle %v lies outside both circles", tri)
	}
	grid := NewVoxelGrid2(1, 16, 16)
	grid.Fill(f, v2.Vec{})
	for y := 0; y < grid.SizeY; y++ {
		for x := 0; x < grid.SizeX; x++ {
			feature := data.Features[y*grid.SizeX+x]
			assert.Equal(t, grid.CrossingMask(x, y) != 0, feature.Valid)
			if feature.Valid {
				assert.True(t, grid.Square(x, y).Contains(feature.Vertex))
			}
		}
	}
	again := run()
	assert.Equal(t, data.Lines, again.Lines)
	assert.Equal(t, data.Triangles, again.Triangles)
}

func TestParallelMatchesSequential(t *testing.T) {
	f := demoScene()
	seq := Rebuild(f, NewVoxelGrid2(0.25, 64, 64), v2.Vec{}, 8)
	par := Rebuild(f, NewVoxelGrid2(0.25, 64, 64), v2.Vec{}, 8, OptWorkers(runtime.NumCPU()+1))
	assert.Equal(t, seq.Features, par.Features)
	assert.Equal(t, seq.Intersections, par.Intersections)
	assert.Equal(t, seq.Extras, par.Extras)
	assert.Equal(t, seq.Lines, par.Lines)
	assert.ElementsMatch(t, seq.Triangles, par.Triangles)
	assert.Equal(t, seq.Stats.Solves, par.Stats.Solves)
}

func TestAccuracyKeepsTopology(t *testing.T) {
	f := demoScene()
	coarse := Rebuild(f, NewVoxelGrid2(0.5, 32, 32), v2.Vec{}, 4)
	fine := Rebuild(f, NewVoxelGrid2(0.5, 32, 32), v2.Vec{}, 16)
	require.Equal(t, len(coarse.Features), len(fine.Features))
	for i := range coarse.Features {
		assert.Equal(t, coarse.Features[i].Valid, fine.Features[i].Valid)
		assert.Equal(t, len(coarse.Intersections[i]), len(fine.Intersections[i]))
	}
	assert.Equal(t, coarse.Stats.CrossingCells, fine.Stats.CrossingCells)
	assert.Equal(t, len(coarse.Lines), len(fine.Lines))
	assert.Equal(t, len(coarse.Triangles), len(fine.Triangles))
}

func TestBuilderPreconditions(t *testing.T) {
	grid := NewVoxelGrid2(1, 4, 4)
	assert.Panics(t, func() { NewBuilder(grid, constField(1), 8) }, "unfilled grid")
	grid.Fill(constField(1), v2.Vec{})
	assert.Panics(t, func() { NewBuilder(grid, constField(1), 0) }, "zero accuracy")
	assert.Panics(t, func() { NewBuilder(grid, constField(1), 8, OptTangentRatio(0)) })
	b := NewBuilder(grid, constField(1), 8)
	b.Build()
	assert.Panics(t, func() { b.Build() })
	assert.PanicsWithValue(t, "voxelized2d: Builder.Feature called after Build", func() { b.Feature(0, 0) })
}

func TestTangentRatioKeepsTopology(t *testing.T) {
	f := demoScene()
	def := Rebuild(f, NewVoxelGrid2(0.5, 32, 32), v2.Vec{}, 8)
	wide := Rebuild(f, NewVoxelGrid2(0.5, 32, 32), v2.Vec{}, 8, OptTangentRatio(0.25))
	assert.Equal(t, def.Stats.CrossingCells, wide.Stats.CrossingCells)
	for i := range def.Features {
		assert.Equal(t, def.Features[i].Valid, wide.Features[i].Valid)
	}
}

func BenchmarkContour(b *testing.B) {
	f := demoScene()
	grid := NewVoxelGrid2(0.125, 128, 128)
	grid.Fill(f, v2.Vec{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Contour(grid, f, 8)
	}
}

func BenchmarkContourParallel(b *testing.B) {
	f := demoScene()
	grid := NewVoxelGrid2(0.125, 128, 128)
	grid.Fill(f, v2.Vec{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Contour(grid, f, 8, OptWorkers(runtime.NumCPU()))
	}
}
