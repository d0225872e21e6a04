package raster

import (
	"context"
	"github.com/deadsy/sdfx/sdf"
	"github.com/deadsy/sdfx/vec/conv"
	"github.com/deadsy/sdfx/vec/v2"
	"github.com/deadsy/sdfx/vec/v2i"
	"github.com/voxelized2d/voxelized2d"
	"image"
	"image/color"
	"image/color/palette"
	"math"
	"runtime"
	"sync"
)

// FieldRange scans the field on a grid of cells over bb to find its minimum and maximum values, the reference for
// the colors of RenderField.
func FieldRange(f voxelized2d.Field, bb sdf.Box2, cells v2i.Vec) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	step := bb.Size().Div(conv.V2iToV2(cells))
	for y := 0; y <= cells.Y; y++ {
		for x := 0; x <= cells.X; x++ {
			val := f.Evaluate(bb.Min.Add(step.Mul(v2.Vec{X: float64(x), Y: float64(y)})))
			min = math.Min(min, val)
			max = math.Max(max, val)
		}
	}
	return min, max
}

type rowJob struct {
	y   int
	y01 float64
}

// RenderField paints a grayscale heat map of the field seen through bb into img: black deep inside, mid gray on the
// surface and white far outside, given the reference range of FieldRange. Rows are rendered in parallel and the
// render stops early if ctx is cancelled.
func RenderField(ctx context.Context, f voxelized2d.Field, bb sdf.Box2, img *image.NRGBA, evalMin, evalMax float64) error {
	bounds := img.Bounds()
	size := v2i.Vec{X: bounds.Dx(), Y: bounds.Dy()}

	// Spawn the workers that will render 1 row at a time
	jobs := make(chan *rowJob)
	workerWg := &sync.WaitGroup{}
	for i := 0; i < runtime.NumCPU(); i++ {
		workerWg.Add(1)
		go func() {
			defer workerWg.Done()
			for job := range jobs {
				for x := 0; x < size.X; x++ {
					pixel01 := v2.Vec{X: (float64(x) + 0.5) / float64(size.X), Y: job.y01}
					pos := bb.Min.Add(pixel01.Mul(bb.Size()))
					gray := uint8(imageColor2(f.Evaluate(pos), evalMin, evalMax) * 255)
					img.SetNRGBA(bounds.Min.X+x, bounds.Min.Y+job.y, color.NRGBA{R: gray, G: gray, B: gray, A: 255})
				}
			}
		}()
	}

	var err error
loop:
	for y := 0; y < size.Y; y++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break loop
		case jobs <- &rowJob{y: y, y01: 1 - (float64(y)+0.5)/float64(size.Y)}: // Inverted Y
		}
	}
	close(jobs) // Close the jobs channel to mark the end
	workerWg.Wait()
	return err
}

// imageColor2 returns the grayscale color for the returned Field.Evaluate value, given the reference minimum and
// maximum Field.Evaluate values. The returned value is in the range [0, 1].
func imageColor2(dist, dmin, dmax float64) float64 {
	// NOTE: This condition forces the surface to be close to 255/2 gray value, otherwise dmax >>> dmin or viceversa
	// could cause the surface to be visually displaced
	if dist >= 0 {
		if dmax <= 0 {
			return 1
		}
		return math.Max(0.5, math.Min(1, 0.5+0.5*(dist/dmax)))
	}
	if dmin >= 0 {
		return 0
	}
	return math.Max(0, math.Min(0.5, 0.5*((dist-dmin)/(-dmin))))
}

// BoxColor is the default color of the idx-th bounding box.
func BoxColor(idx int) color.Color {
	return palette.WebSafe[(idx+1)%len(palette.WebSafe)]
}

// DrawBoxes outlines the world rectangles boxes, seen through bb, over img.
func DrawBoxes(img *image.NRGBA, bb sdf.Box2, boxes []sdf.Box2, getColor func(idx int) color.Color) {
	size := img.Bounds().Size()
	sizeV2 := v2.Vec{X: float64(size.X), Y: float64(size.Y)}
	for i, box := range boxes {
		posMin := box.Min.Sub(bb.Min).Div(bb.Size()).Mul(sizeV2)
		posMax := box.Max.Sub(bb.Min).Div(bb.Size()).Mul(sizeV2)
		drawRect(img, int(posMin.X), size.Y-int(posMax.Y), int(posMax.X), size.Y-int(posMin.Y), getColor(i))
	}
}

// drawHLine draws a horizontal line
func drawHLine(img *image.NRGBA, x1, y, x2 int, col color.Color) {
	for ; x1 <= x2; x1++ {
		if (image.Point{X: x1, Y: y}).In(img.Bounds()) {
			img.Set(x1, y, col)
		}
	}
}

// drawVLine draws a vertical line
func drawVLine(img *image.NRGBA, x, y1, y2 int, col color.Color) {
	for ; y1 <= y2; y1++ {
		if (image.Point{X: x, Y: y1}).In(img.Bounds()) {
			img.Set(x, y1, col)
		}
	}
}

// drawRect draws a rectangle utilizing drawHLine() and drawVLine()
func drawRect(img *image.NRGBA, x1, y1, x2, y2 int, col color.Color) {
	drawHLine(img, x1, y1, x2, col)
	drawHLine(img, x1, y2, x2, col)
	drawVLine(img, x1, y1, y2, col)
	drawVLine(img, x2, y1, y2, col)
}
