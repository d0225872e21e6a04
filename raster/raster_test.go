package raster

import (
	"context"
	"github.com/deadsy/sdfx/sdf"
	"github.com/deadsy/sdfx/vec/v2"
	"github.com/deadsy/sdfx/vec/v2i"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voxelized2d/voxelized2d"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

var unitBox = sdf.Box2{Max: v2.Vec{X: 16, Y: 16}}

// leftHalf is a mesh covering the left half of unitBox.
func leftHalf() *voxelized2d.ContourData {
	return &voxelized2d.ContourData{Triangles: []voxelized2d.Triangle2{
		{P1: v2.Vec{}, P2: v2.Vec{X: 8}, P3: v2.Vec{X: 8, Y: 16}},
		{P1: v2.Vec{}, P2: v2.Vec{X: 8, Y: 16}, P3: v2.Vec{Y: 16}},
	}}
}

func isColor(t *testing.T, expected color.Color, actual color.Color, msgAndArgs ...interface{}) {
	er, eg, eb, ea := expected.RGBA()
	ar, ag, ab, aa := actual.RGBA()
	assert.Equal(t, [4]uint32{er, eg, eb, ea}, [4]uint32{ar, ag, ab, aa}, msgAndArgs...)
}

func TestRasterizeEmpty(t *testing.T) {
	img := Rasterize(&voxelized2d.ContourData{}, unitBox, 32, 16, DefaultStyle())
	assert.Equal(t, image.Rect(0, 0, 32, 16), img.Bounds())
	for _, p := range []image.Point{{0, 0}, {31, 15}, {16, 8}} {
		isColor(t, color.Black, img.At(p.X, p.Y), "pixel %v", p)
	}
}

func TestRasterizeFillsTriangles(t *testing.T) {
	style := DefaultStyle()
	style.DrawLines = false
	img := Rasterize(leftHalf(), unitBox, 64, 64, style)
	isColor(t, color.White, img.At(10, 32))
	isColor(t, color.White, img.At(20, 5))
	isColor(t, color.Black, img.At(50, 32))
	isColor(t, color.Black, img.At(60, 60))
}

func TestRasterizeContour(t *testing.T) {
	grid := voxelized2d.NewVoxelGrid2(1, 16, 16)
	data := voxelized2d.Rebuild(voxelized2d.NewCircle(v2.Vec{X: 8, Y: 8}, 5), grid, v2.Vec{}, 8)
	style := DefaultStyle()
	img := Rasterize(data, unitBox, 128, 128, style)
	isColor(t, style.Fill, img.At(64, 64), "center of the circle")
	isColor(t, style.Background, img.At(2, 2), "corner")
	lineFound := false
	for x := 0; x < 128 && !lineFound; x++ {
		r, g, b, _ := img.At(x, 64).RGBA()
		lineFound = r == 0 && b == 0 && g > 0
	}
	assert.True(t, lineFound, "a dual edge crosses the middle row")
}

func TestSnapshotPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.png")
	style := DefaultStyle()
	style.DrawLines = false
	require.NoError(t, SnapshotPNG(path, leftHalf(), unitBox, 64, 32, style))
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 32), img.Bounds())
	isColor(t, color.White, img.At(10, 16))
	isColor(t, color.Black, img.At(54, 16))

	assert.Error(t, SnapshotPNG(path, leftHalf(), unitBox, 0, 32, style))
}

func TestImageColor2(t *testing.T) {
	assert.Equal(t, 0.5, imageColor2(0, -2, 4))
	assert.Equal(t, 1., imageColor2(4, -2, 4))
	assert.Equal(t, 0., imageColor2(-2, -2, 4))
	assert.Equal(t, 1., imageColor2(10, -2, 4), "clamped")
	assert.Less(t, imageColor2(-1, -2, 4), imageColor2(-0.5, -2, 4))
	assert.Equal(t, 1., imageColor2(1, -2, 0))
}

func TestRenderField(t *testing.T) {
	f := voxelized2d.NewCircle(v2.Vec{X: 8, Y: 8}, 4)
	evalMin, evalMax := FieldRange(f, unitBox, v2i.Vec{X: 16, Y: 16})
	assert.Equal(t, -4., evalMin)
	assert.Greater(t, evalMax, 0.)

	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	require.NoError(t, RenderField(context.Background(), f, unitBox, img, evalMin, evalMax))
	center := img.NRGBAAt(16, 16)
	corner := img.NRGBAAt(0, 0)
	assert.Less(t, center.R, uint8(128))
	assert.Greater(t, corner.R, uint8(128))
	assert.Equal(t, uint8(255), corner.A)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, RenderField(ctx, f, unitBox, image.NewNRGBA(image.Rect(0, 0, 512, 512)), evalMin, evalMax),
		context.Canceled)
}

func TestDrawBoxes(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	box := sdf.Box2{Min: v2.Vec{X: 4, Y: 4}, Max: v2.Vec{X: 12, Y: 12}}
	DrawBoxes(img, unitBox, []sdf.Box2{box}, func(int) color.Color { return color.White })
	isColor(t, color.White, img.At(4, 4))
	isColor(t, color.White, img.At(12, 8))
	isColor(t, color.Transparent, img.At(8, 8))
}

func BenchmarkRasterize(b *testing.B) {
	grid := voxelized2d.NewVoxelGrid2(0.125, 128, 128)
	data := voxelized2d.Rebuild(voxelized2d.NewCircle(v2.Vec{X: 8, Y: 8}, 5), grid, v2.Vec{}, 8)
	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		Rasterize(data, unitBox, 1024, 1024, DefaultStyle())
	}
}
