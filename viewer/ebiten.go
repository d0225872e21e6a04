package viewer

import (
	"github.com/deadsy/sdfx/vec/v2i"
	"github.com/hajimehoshi/ebiten"
	"github.com/hajimehoshi/ebiten/text"
	"golang.org/x/image/font/basicfont"
	"image/color"
	"math"
)

// rendererEbitenGame hides the private ebiten implementation while behaving like a *Renderer internally
type rendererEbitenGame struct {
	*Renderer
}

func (r rendererEbitenGame) Update(_ *ebiten.Image) error {
	// Upload the latest background render: GPU images may only be created from the game loop
	r.cachedRenderLock.Lock()
	if r.cachedRenderCPU != nil {
		img, err := ebiten.NewImageFromImage(r.cachedRenderCPU, ebiten.FilterDefault)
		if err != nil {
			r.cachedRenderLock.Unlock()
			return err
		}
		if r.cachedRender != nil {
			_ = r.cachedRender.Dispose()
		}
		r.cachedRender = img
		r.cachedRenderCPU = nil
	}
	r.cachedRenderLock.Unlock()
	return r.onUpdateInputs()
}

func (r rendererEbitenGame) Draw(screen *ebiten.Image) {
	r.drawContour(screen)
	r.drawUI(screen)
}

func (r rendererEbitenGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	newScreenSize := v2i.Vec{X: outsideWidth, Y: outsideHeight}
	r.stateLock.Lock()
	changed := r.screenSize != newScreenSize
	r.screenSize = newScreenSize
	r.stateLock.Unlock()
	if changed {
		r.rerender()
	}
	return outsideWidth, outsideHeight // Use all available pixels, no re-scaling
}

// drawContour draws the last render, stretched to the screen and displaced while the camera is being moved.
func (r *Renderer) drawContour(screen *ebiten.Image) {
	r.cachedRenderLock.RLock()
	defer r.cachedRenderLock.RUnlock()
	if r.cachedRender == nil {
		return
	}
	r.stateLock.RLock()
	screenSize := r.screenSize
	from, stop := r.translateFrom, r.translateFromStop
	r.stateLock.RUnlock()

	op := &ebiten.DrawImageOptions{}
	w, h := r.cachedRender.Size()
	op.GeoM.Scale(float64(screenSize.X)/float64(w), float64(screenSize.Y)/float64(h))
	if from.X != math.MaxInt {
		to := stop
		if to.X == math.MaxInt {
			cx, cy := getCursor()
			to = v2i.Vec{X: cx, Y: cy}
		}
		op.GeoM.Translate(float64(to.X-from.X), float64(to.Y-from.Y))
	}
	_ = screen.DrawImage(r.cachedRender, op)
}

func drawDefaultTextWithShadow(screen *ebiten.Image, msg string, x, y int, col color.Color) {
	text.Draw(screen, msg, basicfont.Face7x13, x+1, y+1, color.Black)
	text.Draw(screen, msg, basicfont.Face7x13, x, y, col)
}
