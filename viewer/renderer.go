// Package viewer shows the contour of a field in an interactive window.
package viewer

import (
	"context"
	"errors"
	"github.com/deadsy/sdfx/sdf"
	"github.com/deadsy/sdfx/vec/v2"
	"github.com/deadsy/sdfx/vec/v2i"
	"github.com/hajimehoshi/ebiten"
	"github.com/subchen/go-trylock/v2"
	"github.com/voxelized2d/voxelized2d"
	"github.com/voxelized2d/voxelized2d/config"
	"github.com/voxelized2d/voxelized2d/internal"
	"github.com/voxelized2d/voxelized2d/raster"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"sync"
)

//-----------------------------------------------------------------------------
// CONFIGURATION
//-----------------------------------------------------------------------------

// Option configures a Renderer.
type Option func(r *Renderer)

// OptWatchFiles rebuilds the contour whenever any of the files changes, loading the new field with reload.
func OptWatchFiles(paths []string, reload func() (voxelized2d.Field, error)) Option {
	return func(r *Renderer) {
		r.watchFiles = paths
		r.reload = reload
	}
}

// OptCam sets the initial visible world region (defaults to the region covered by the grid).
func OptCam(bb sdf.Box2) Option {
	return func(r *Renderer) {
		r.state.Bb = bb
	}
}

// OptStyle sets the colors of the mesh.
func OptStyle(style raster.Style) Option {
	return func(r *Renderer) {
		r.style = style
	}
}

// OptBBColor sets the bounding box colors for the different nodes of the field.
func OptBBColor(getColor func(idx int) color.Color) Option {
	return func(r *Renderer) {
		r.getBBColor = getColor
	}
}

// OptZoomFactor limits how much a single mouse wheel event can zoom.
func OptZoomFactor(zoomFactor float64) Option {
	return func(r *Renderer) {
		r.zoomFactor = zoomFactor
	}
}

//-----------------------------------------------------------------------------
// RENDERER
//-----------------------------------------------------------------------------

// errClosed stops the game loop when the user closes the window.
var errClosed = errors.New("window closed")

// Renderer runs the extraction in the background every time the field or the view changes, and shows the result.
type Renderer struct {
	cfg        *config.Config
	field      voxelized2d.Field
	fieldLock  *sync.RWMutex
	watchFiles []string
	reload     func() (voxelized2d.Field, error)
	style      raster.Style
	getBBColor func(idx int) color.Color
	zoomFactor float64
	// State
	state                            *internal.ViewerState
	stateLock                        *sync.RWMutex
	screenSize                       v2i.Vec
	translateFrom, translateFromStop v2i.Vec // math.MaxInt when not moving the camera
	renderingLock                    trylock.TryLocker
	renderingCancel                  context.CancelFunc
	renderingCancelLock              *sync.Mutex
	// Results
	cachedRenderLock *sync.RWMutex
	cachedRenderCPU  *image.NRGBA // Set by the background rebuild, uploaded by the game loop
	cachedRender     *ebiten.Image
	cachedStats      voxelized2d.Stats
	cachedBb         sdf.Box2 // The view of the cached render
}

// NewRenderer see Renderer. The grid and default accuracy come from cfg, which must be valid.
func NewRenderer(field voxelized2d.Field, cfg *config.Config, opts ...Option) *Renderer {
	r := &Renderer{
		cfg:        cfg.Clone(),
		field:      field,
		fieldLock:  &sync.RWMutex{},
		style:      raster.DefaultStyle(),
		getBBColor: raster.BoxColor,
		zoomFactor: 1.5,
		state: &internal.ViewerState{
			Accuracy:  cfg.Accuracy,
			DrawLines: true,
			Bb:        cfg.Bounds(),
		},
		stateLock:           &sync.RWMutex{},
		translateFrom:       v2i.Vec{X: math.MaxInt, Y: math.MaxInt},
		translateFromStop:   v2i.Vec{X: math.MaxInt, Y: math.MaxInt},
		renderingLock:       trylock.New(),
		renderingCancelLock: &sync.Mutex{},
		cachedRenderLock:    &sync.RWMutex{},
	}
	r.state.Tree = internal.NewReflection(field).FieldTree()
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run opens the window and blocks until it is closed.
func (r *Renderer) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if len(r.watchFiles) > 0 && r.reload != nil {
		go func() {
			err := internal.Watch(ctx, r.watchFiles, r.onFilesChanged)
			if err != nil {
				log.Println("[Voxelized2D] Not watching files:", err)
			}
		}()
	}
	ebiten.SetWindowTitle("Voxelized2D")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	err := ebiten.RunGame(rendererEbitenGame{r})
	if errors.Is(err, errClosed) {
		return nil
	}
	return err
}

func (r *Renderer) onFilesChanged() error {
	f, err := r.reload()
	if err != nil {
		return err
	}
	tree := internal.NewReflection(f).FieldTree()
	r.fieldLock.Lock()
	r.field = f
	r.fieldLock.Unlock()
	r.stateLock.Lock()
	r.state.Tree = tree
	r.stateLock.Unlock()
	log.Println("[Voxelized2D] Field reloaded")
	r.rerender()
	return nil
}

// rerender cancels the rebuild in progress (if any) and starts a new one in the background. Callbacks run after it
// completes. The caller must not hold stateLock for writing.
func (r *Renderer) rerender(callbacks ...func(err error)) {
	ctx, cancel := context.WithCancel(context.Background())
	r.renderingCancelLock.Lock()
	if r.renderingCancel != nil {
		r.renderingCancel()
	}
	r.renderingCancel = cancel
	r.renderingCancelLock.Unlock()

	go func() {
		r.renderingLock.Lock() // Only 1 rebuild at a time (the cancelled one finishes quickly)
		defer r.renderingLock.Unlock()
		err := r.rebuild(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Println("[Voxelized2D] Rebuild failed:", err)
		}
		for _, callback := range callbacks {
			callback(err)
		}
	}()
}

// rebuild extracts the contour with a snapshot of the current state and renders it into cachedRenderCPU.
func (r *Renderer) rebuild(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.stateLock.Lock()
	if r.screenSize.X <= 0 || r.screenSize.Y <= 0 {
		r.stateLock.Unlock()
		return nil // Nothing to show yet
	}
	r.state.Bb = fixAspectRatio(r.state.Bb, r.screenSize)
	state := r.state.Snapshot()
	screenSize := r.screenSize
	r.stateLock.Unlock()
	r.fieldLock.RLock()
	field := r.field
	r.fieldLock.RUnlock()

	_, data := r.cfg.Contour(field, state.Accuracy)
	if err := ctx.Err(); err != nil {
		return err
	}

	img := image.NewNRGBA(image.Rect(0, 0, screenSize.X, screenSize.Y))
	style := r.style
	style.DrawLines = state.DrawLines
	if state.ColorMode == internal.ColorModeField {
		evalMin, evalMax := raster.FieldRange(field, r.cfg.Bounds(), v2i.Vec{X: r.cfg.CellsX, Y: r.cfg.CellsY})
		if err := raster.RenderField(ctx, field, state.Bb, img, evalMin, evalMax); err != nil {
			return err
		}
		style.Background = color.Transparent
		style.Fill = color.NRGBA{R: 255, G: 255, B: 255, A: 160}
		mesh := raster.Rasterize(data, state.Bb, screenSize.X, screenSize.Y, style)
		draw.Draw(img, img.Bounds(), mesh, image.Point{}, draw.Over)
	} else {
		img = raster.Rasterize(data, state.Bb, screenSize.X, screenSize.Y, style)
	}
	if state.DrawBbs && state.Tree != nil {
		raster.DrawBoxes(img, state.Bb, state.Tree.BoundingBoxes(), r.getBBColor)
	}

	r.cachedRenderLock.Lock()
	r.cachedRenderCPU = img
	r.cachedStats = data.Stats
	r.cachedBb = state.Bb
	r.cachedRenderLock.Unlock()
	return nil
}

// fixAspectRatio grows bb so that it has the same aspect ratio as the screen.
func fixAspectRatio(bb sdf.Box2, screenSize v2i.Vec) sdf.Box2 {
	bbAspectRatio := bb.Size().X / bb.Size().Y
	screenAspectRatio := float64(screenSize.X) / float64(screenSize.Y)
	if math.Abs(bbAspectRatio-screenAspectRatio) <= 1e-12 {
		return bb
	}
	if bbAspectRatio > screenAspectRatio {
		return sdf.NewBox2(bb.Center(), bb.Size().Mul(v2.Vec{X: 1, Y: bbAspectRatio / screenAspectRatio}))
	}
	return sdf.NewBox2(bb.Center(), bb.Size().Mul(v2.Vec{X: screenAspectRatio / bbAspectRatio, Y: 1}))
}
