package voxelized2d

import (
	"github.com/deadsy/sdfx/vec/v2"
	"log"
	"time"
)

//-----------------------------------------------------------------------------
// CONFIGURATION
//-----------------------------------------------------------------------------

// Option configures a Builder.
type Option func(b *Builder)

// OptTangentRatio sets the size of the tangent search window relative to the cell size (defaults to
// DefaultTangentRatio). It must be positive.
func OptTangentRatio(ratio float64) Option {
	return func(b *Builder) {
		b.tangentRatio = ratio
	}
}

// OptWorkers computes the features of crossing cells on this many goroutines (1, the default, is fully sequential).
// With more than one worker the order of the output triangles differs from the sequential order and callers must not
// rely on it.
func OptWorkers(workers int) Option {
	return func(b *Builder) {
		if workers < 1 {
			workers = 1
		}
		b.workers = workers
	}
}

// OptTimed logs how long each Build takes.
func OptTimed(timed bool) Option {
	return func(b *Builder) {
		b.timed = timed
	}
}

//-----------------------------------------------------------------------------
// OUTPUT
//-----------------------------------------------------------------------------

// Feature is the optional dual vertex of a cell.
type Feature struct {
	Vertex v2.Vec
	Valid  bool // False for cells whose corners all share the same sign
}

// Stats summarizes one extraction.
type Stats struct {
	Cells, CrossingCells int
	Solves               int // Number of QEF searches performed (at most one per cell)
	Elapsed              time.Duration
}

// ContourData is the mesh produced by one extraction, together with the per-cell caches it was built from.
// Caches are indexed by y*SizeX+x. Consumers own the value but must treat the caches as read-only.
type ContourData struct {
	Lines         []Line2     // Dual edges between the features of neighboring cells
	Triangles     []Triangle2 // Inside fill: uniform quads and fan triangles around features
	Features      []Feature
	Intersections [][]v2.Vec // Nil for cells without a feature
	Extras        [][]v2.Vec // Nil for cells without a feature
	SizeX, SizeY  int
	Stats         Stats
}

//-----------------------------------------------------------------------------
// BUILDER
//-----------------------------------------------------------------------------

type cellState uint8

const (
	cellUncomputed cellState = iota
	cellNone
	cellSome
)

// featureCache memoizes the result of the feature extraction of every cell for a single traversal.
type featureCache struct {
	state []cellState
	data  *ContourData
	fans  [][]Triangle2 // Only used by the parallel builder
}

func newFeatureCache(data *ContourData) *featureCache {
	n := data.SizeX * data.SizeY
	data.Features = make([]Feature, n)
	data.Intersections = make([][]v2.Vec, n)
	data.Extras = make([][]v2.Vec, n)
	return &featureCache{state: make([]cellState, n), data: data}
}

func (c *featureCache) store(t int, f cellFeature, ok bool) {
	if !ok {
		c.state[t] = cellNone
		return
	}
	c.state[t] = cellSome
	c.data.Features[t] = Feature{Vertex: f.vertex, Valid: true}
	c.data.Intersections[t] = f.intersections
	c.data.Extras[t] = f.extras
}

// Builder extracts the contour of a field sampled on a grid. A Builder performs a single traversal: Build may only be
// called once, as the cache it owns is part of the result.
type Builder struct {
	grid         *VoxelGrid2
	extractor    featureExtractor
	tangentRatio float64
	workers      int
	timed        bool
	cache        *featureCache
	out          *ContourData
	built        bool
}

// NewBuilder prepares the extraction of the contour of f. The grid must have been filled with the same field and
// accuracy (>= 1) controls the resolution of every brute-force search.
func NewBuilder(grid *VoxelGrid2, f Field, accuracy int, opts ...Option) *Builder {
	mustSubdivide(accuracy)
	grid.mustBeFilled()
	b := &Builder{
		grid:         grid,
		tangentRatio: DefaultTangentRatio,
		workers:      1,
	}
	for _, opt := range opts {
		opt(b)
	}
	if !(b.tangentRatio > 0) {
		panic("voxelized2d: tangent ratio must be positive")
	}
	b.extractor = featureExtractor{field: f, accuracy: accuracy, tangentExt: grid.A * b.tangentRatio}
	b.out = &ContourData{SizeX: grid.SizeX, SizeY: grid.SizeY}
	b.cache = newFeatureCache(b.out)
	return b
}

// Feature returns the feature of cell (x, y), computing it only the first time it is requested.
func (b *Builder) Feature(x, y int) (v2.Vec, bool) {
	if b.out == nil {
		panic("voxelized2d: Builder.Feature called after Build")
	}
	return b.feature(x, y, &b.out.Triangles)
}

func (b *Builder) feature(x, y int, tris *[]Triangle2) (v2.Vec, bool) {
	t := y*b.grid.SizeX + x
	switch b.cache.state[t] {
	case cellSome:
		return b.out.Features[t].Vertex, true
	case cellNone:
		return v2.Vec{}, false
	}
	c := b.grid.cell(x, y)
	f, ok := b.extractor.extract(&c, b.grid.Square(x, y), tris)
	if ok {
		b.out.Stats.Solves++
	}
	b.cache.store(t, f, ok)
	return f.vertex, ok
}

// Build traverses every cell in row-major order and returns the mesh. The Builder must not be used afterwards.
func (b *Builder) Build() *ContourData {
	if b.built {
		panic("voxelized2d: Builder.Build called twice")
	}
	b.built = true
	start := time.Now()
	if b.workers > 1 {
		b.precomputeParallel()
	}
	g := b.grid
	for y := 0; y < g.SizeY; y++ {
		for x := 0; x < g.SizeX; x++ {
			c := g.cell(x, y)
			if c.mask == 0 {
				if c.p[0] < 0 { // Fully inside: fill it
					quad := c.quad()
					b.out.Triangles = append(b.out.Triangles, quad[0], quad[1])
				}
				continue
			}
			b.out.Stats.CrossingCells++
			if b.cache.fans != nil { // Features were computed in parallel: only emit their triangles in order
				b.out.Triangles = append(b.out.Triangles, b.cache.fans[y*g.SizeX+x]...)
			}
			vertex, _ := b.Feature(x, y) // Always valid here (mask != 0)
			if c.mask&EdgeRight != 0 && x+1 < g.SizeX {
				if right, ok := b.Feature(x+1, y); ok {
					b.out.Lines = append(b.out.Lines, Line2{Start: vertex, End: right})
				}
			}
			if c.mask&EdgeTop != 0 && y+1 < g.SizeY {
				if up, ok := b.Feature(x, y+1); ok {
					b.out.Lines = append(b.out.Lines, Line2{Start: vertex, End: up})
				}
			}
		}
	}
	b.out.Stats.Cells = g.SizeX * g.SizeY
	b.out.Stats.Elapsed = time.Since(start)
	if b.timed {
		log.Printf("[Voxelized2D] contour took %d ms (%d crossing cells, %d triangles, %d lines)",
			b.out.Stats.Elapsed.Milliseconds(), b.out.Stats.CrossingCells, len(b.out.Triangles), len(b.out.Lines))
	}
	res := b.out
	b.out, b.cache = nil, nil // Ownership moves to the caller
	return res
}

// Contour extracts the contour of f from an already filled grid.
func Contour(grid *VoxelGrid2, f Field, accuracy int, opts ...Option) *ContourData {
	return NewBuilder(grid, f, accuracy, opts...).Build()
}

// Rebuild samples f on the grid starting at origin and extracts its contour.
func Rebuild(f Field, grid *VoxelGrid2, origin v2.Vec, accuracy int, opts ...Option) *ContourData {
	mustSubdivide(accuracy)
	grid.Fill(f, origin)
	return Contour(grid, f, accuracy, opts...)
}
