// Package raster turns extracted contours into pictures, on the CPU.
package raster

import (
	"github.com/deadsy/sdfx/sdf"
	"github.com/fogleman/fauxgl"
	"github.com/voxelized2d/voxelized2d"
	"image"
	"image/color"
	"image/draw"
)

// Style configures the colors of a picture.
type Style struct {
	Background color.Color // May be transparent to draw over another image
	Fill       color.Color // Inside triangles
	Line       color.Color // Dual edges
	LineWidth  float64
	DrawLines  bool
}

// DefaultStyle draws a white mesh with green edges over black, like the demo window.
func DefaultStyle() Style {
	return Style{
		Background: color.Black,
		Fill:       color.White,
		Line:       color.RGBA{G: 200, A: 255},
		LineWidth:  2,
		DrawLines:  true,
	}
}

// Rasterize draws the mesh of data seen through the world region bb into a new w x h image.
func Rasterize(data *voxelized2d.ContourData, bb sdf.Box2, w, h int, style Style) *image.NRGBA {
	ctx := fauxgl.NewContext(w, h)
	ctx.ClearColorBufferWith(fauxgl.MakeColor(style.Background))
	ctx.Cull = fauxgl.CullNone // Fan triangles have mixed winding
	ctx.ReadDepth = false
	ctx.WriteDepth = false
	matrix := fauxgl.Orthographic(bb.Min.X, bb.Max.X, bb.Min.Y, bb.Max.Y, -1, 1)

	triangles := make([]*fauxgl.Triangle, 0, len(data.Triangles))
	for _, t := range data.Triangles {
		triangles = append(triangles, fauxgl.NewTriangleForPoints(
			fauxgl.V(t.P1.X, t.P1.Y, 0), fauxgl.V(t.P2.X, t.P2.Y, 0), fauxgl.V(t.P3.X, t.P3.Y, 0)))
	}
	ctx.Shader = fauxgl.NewSolidColorShader(matrix, fauxgl.MakeColor(style.Fill))
	ctx.DrawTriangles(triangles)

	if style.DrawLines && len(data.Lines) > 0 {
		lines := make([]*fauxgl.Line, 0, len(data.Lines))
		for _, l := range data.Lines {
			lines = append(lines, fauxgl.NewLineForPoints(fauxgl.V(l.Start.X, l.Start.Y, 0), fauxgl.V(l.End.X, l.End.Y, 0)))
		}
		ctx.Shader = fauxgl.NewSolidColorShader(matrix, fauxgl.MakeColor(style.Line))
		ctx.LineWidth = style.LineWidth
		ctx.DrawLines(lines)
	}

	res := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(res, res.Bounds(), ctx.Image(), image.Point{}, draw.Src)
	return res
}
