package voxelized2d

import (
	"sync"
)

type featureJob struct {
	x, y, t int
	c       cell
}

// precomputeParallel fills the feature cache for every crossing cell using the configured number of workers.
// Each cell is submitted once, and each worker only writes the cache slots of the cells it received, so the cache
// needs no locking. Fan triangles are kept per cell, to be concatenated by the (sequential) traversal.
func (b *Builder) precomputeParallel() {
	g := b.grid
	b.cache.fans = make([][]Triangle2, g.SizeX*g.SizeY)
	solved := make([]bool, g.SizeX*g.SizeY)

	// Spawn the workers that will compute 1 cell at a time
	jobs := make(chan *featureJob)
	workerWg := &sync.WaitGroup{}
	for i := 0; i < b.workers; i++ {
		workerWg.Add(1)
		go func() {
			defer workerWg.Done()
			for job := range jobs {
				var fans []Triangle2
				f, ok := b.extractor.extract(&job.c, g.Square(job.x, job.y), &fans)
				b.cache.store(job.t, f, ok)
				b.cache.fans[job.t] = fans
				solved[job.t] = ok
			}
		}()
	}

	// Generate the jobs (only cells that are still uncomputed and cross the surface)
	for y := 0; y < g.SizeY; y++ {
		for x := 0; x < g.SizeX; x++ {
			t := y*g.SizeX + x
			if b.cache.state[t] != cellUncomputed {
				continue
			}
			c := g.cell(x, y)
			if c.mask == 0 {
				b.cache.state[t] = cellNone
				continue
			}
			jobs <- &featureJob{x: x, y: y, t: t, c: c}
		}
	}
	close(jobs) // Close the jobs channel to mark the end
	workerWg.Wait()

	for _, ok := range solved {
		if ok {
			b.out.Stats.Solves++
		}
	}
}
