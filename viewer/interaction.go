package viewer

import (
	"context"
	"fmt"
	"github.com/deadsy/sdfx/vec/conv"
	"github.com/deadsy/sdfx/vec/v2"
	"github.com/deadsy/sdfx/vec/v2i"
	"github.com/hajimehoshi/ebiten"
	"github.com/hajimehoshi/ebiten/inpututil"
	"github.com/hajimehoshi/ebiten/text"
	"github.com/voxelized2d/voxelized2d/internal"
	"golang.org/x/image/font/basicfont"
	"image/color"
	"log"
	"math"
	"time"
)

// maxAccuracy keeps the brute-force searches interactive.
const maxAccuracy = 256

// onUpdateInputs handles inputs
func (r *Renderer) onUpdateInputs() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errClosed
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		w, h := ebiten.WindowSize()
		log.Printf("[Voxelized2D] Window size: %dx%d", w, h)
	}
	// Accuracy
	if inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) || inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		r.updateState(func(s *internal.ViewerState) {
			s.Accuracy = int(math.Min(maxAccuracy, float64(s.Accuracy*2)))
		})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) || inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		r.updateState(func(s *internal.ViewerState) {
			s.Accuracy = int(math.Max(1, float64(s.Accuracy/2)))
		})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		r.updateState(func(s *internal.ViewerState) { s.DrawBbs = !s.DrawBbs })
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		r.updateState(func(s *internal.ViewerState) { s.DrawLines = !s.DrawLines })
	}
	// Color
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		r.updateState(func(s *internal.ViewerState) { s.ColorMode = (s.ColorMode + 1) % internal.ColorModes })
	}
	// Reset camera transform (the whole grid)
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		r.updateState(func(s *internal.ViewerState) { s.Bb = r.cfg.Bounds() })
	}
	r.onUpdateCamera()
	return nil
}

// updateState applies update under the state lock and rebuilds.
func (r *Renderer) updateState(update func(s *internal.ViewerState)) {
	r.stateLock.Lock()
	update(r.state)
	r.stateLock.Unlock()
	r.rerender()
}

func (r *Renderer) onUpdateCamera() {
	// Zooming
	_, wheelUpDown := ebiten.Wheel()
	if wheelUpDown != 0 {
		r.updateState(func(s *internal.ViewerState) {
			scale := 1 - wheelUpDown*0.1
			scale = math.Max(1/r.zoomFactor, math.Min(r.zoomFactor, scale)) // Apply zoom limits
			s.Bb = s.Bb.ScaleAboutCenter(scale)
		})
	}
	// Translation
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		// Save the cursor's position for previsualization and applying the final translation
		cx, cy := getCursor()
		r.stateLock.Lock()
		if r.translateFrom.X == math.MaxInt { // Only if not already moving...
			r.translateFrom = v2i.Vec{X: cx, Y: cy}
		}
		r.stateLock.Unlock()
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonMiddle) || inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		// Actually apply the translation and force a rerender
		cx, cy := getCursor()
		r.stateLock.Lock()
		if r.translateFrom.X == math.MaxInt || r.translateFromStop.X != math.MaxInt {
			r.stateLock.Unlock()
			return
		}
		r.state.Bb = r.state.Bb.Translate(r.cameraMove(v2i.Vec{X: cx, Y: cy}))
		// Keep displacement until rerender is complete (avoid jump) using callback below + extra variable set here
		r.translateFromStop = v2i.Vec{X: cx, Y: cy}
		r.stateLock.Unlock()
		r.rerender(func(err error) {
			r.stateLock.Lock()
			r.translateFrom = v2i.Vec{X: math.MaxInt, Y: math.MaxInt}
			r.translateFromStop = v2i.Vec{X: math.MaxInt, Y: math.MaxInt}
			r.stateLock.Unlock()
		})
	}
}

// cameraMove is the world displacement of the view for a drag from translateFrom to the cursor at to.
func (r *Renderer) cameraMove(to v2i.Vec) v2.Vec {
	return conv.V2iToV2(r.translateFrom).Sub(conv.V2iToV2(to)).Mul(v2.Vec{X: 1, Y: -1}). // Invert Y
												Div(conv.V2iToV2(r.screenSize)).Mul(r.state.Bb.Size())
}

func getCursor() (int, int) {
	return ebiten.CursorPosition()
}

// drawUI draws the current state and controls
func (r *Renderer) drawUI(screen *ebiten.Image) {
	// Notify when rebuilding
	ctx, cancelFunc := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancelFunc()
	if r.renderingLock.RTryLock(ctx) {
		r.renderingLock.RUnlock()
	} else {
		drawDefaultTextWithShadow(screen, "Rebuilding...", 5, 5+12, color.RGBA{R: 255, A: 255})
	}

	r.cachedRenderLock.RLock()
	stats := r.cachedStats
	r.cachedRenderLock.RUnlock()
	r.stateLock.RLock()
	defer r.stateLock.RUnlock()
	msg := fmt.Sprintf("Voxelized2D\n===========\nTPS: %0.2f/%d\nCells: %d (%d crossing)\nContour: %d ms\n"+
		"Accuracy: %d [+/-]\nColor: %d [C]\nBoxes: %t [B]\nLines: %t [L]\nReset camera [R]\n"+
		"Translate cam [Left/MiddleMouse]\nZoom cam [MouseWheel]\nQuit [Esc]",
		ebiten.CurrentTPS(), ebiten.MaxTPS(), stats.Cells, stats.CrossingCells, stats.Elapsed.Milliseconds(),
		r.state.Accuracy, r.state.ColorMode, r.state.DrawBbs, r.state.DrawLines)
	boundString := text.BoundString(basicfont.Face7x13, msg)
	drawDefaultTextWithShadow(screen, msg, 5, r.screenSize.Y-boundString.Size().Y+10, color.RGBA{G: 255, A: 255})
}
