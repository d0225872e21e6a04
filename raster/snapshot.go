package raster

import (
	"github.com/deadsy/sdfx/sdf"
	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	"github.com/voxelized2d/voxelized2d"
	"image"
)

// Snapshot draws the mesh with vector graphics (anti-aliased, unlike Rasterize) into a new w x h image.
func Snapshot(data *voxelized2d.ContourData, bb sdf.Box2, w, h int, style Style) image.Image {
	c := gg.NewContext(w, h)
	c.SetColor(style.Background)
	c.Clear()

	// Flip the context so the origin is at the bottom left, then map bb onto the picture
	size := bb.Size()
	c.Translate(0, float64(h))
	c.Scale(1, -1)
	c.Scale(float64(w)/size.X, float64(h)/size.Y)
	c.Translate(-bb.Min.X, -bb.Min.Y)

	c.SetColor(style.Fill)
	for _, t := range data.Triangles {
		c.MoveTo(t.P1.X, t.P1.Y)
		c.LineTo(t.P2.X, t.P2.Y)
		c.LineTo(t.P3.X, t.P3.Y)
		c.ClosePath()
		c.Fill()
	}

	if style.DrawLines {
		c.SetColor(style.Line)
		c.SetLineWidth(style.LineWidth)
		for _, l := range data.Lines {
			c.DrawLine(l.Start.X, l.Start.Y, l.End.X, l.End.Y)
		}
		c.Stroke()
	}
	return c.Image()
}

// SnapshotPNG saves Snapshot as a PNG picture.
func SnapshotPNG(path string, data *voxelized2d.ContourData, bb sdf.Box2, w, h int, style Style) error {
	if w < 1 || h < 1 {
		return errors.Errorf("invalid picture size %dx%d", w, h)
	}
	if err := gg.SavePNG(path, Snapshot(data, bb, w, h, style)); err != nil {
		return errors.Wrap(err, "save snapshot")
	}
	return nil
}
