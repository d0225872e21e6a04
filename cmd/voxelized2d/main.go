// Command voxelized2d extracts the contour of a scene with 2D dual contouring, and shows, measures or saves it.
package main

import (
	"context"
	"fmt"
	imgcat "github.com/martinlindhe/imgcat/lib"
	"github.com/logrusorgru/aurora"
	"github.com/unixpickle/essentials"
	"github.com/voxelized2d/voxelized2d"
	"github.com/voxelized2d/voxelized2d/config"
	"github.com/voxelized2d/voxelized2d/internal"
	"github.com/voxelized2d/voxelized2d/raster"
	"github.com/voxelized2d/voxelized2d/scene"
	"github.com/voxelized2d/voxelized2d/viewer"
	"gopkg.in/alecthomas/kingpin.v2"
	"log"
	"math"
	"os"
	"os/signal"
)

var (
	app        = kingpin.New("voxelized2d", "Dual contouring of 2D signed distance fields.")
	configPath = app.Flag("config", "YAML config file (defaults to the demo grid).").Short('c').ExistingFile()
	scenePath  = app.Flag("scene", "Scene script, overriding the one of the config (defaults to the demo scene).").ExistingFile()
	accuracy   = app.Flag("accuracy", "Samples per cell edge of the brute-force searches (0 keeps the config).").Short('a').Int()
	workers    = app.Flag("workers", "Parallel workers (0 uses every CPU, -1 keeps the config).").Short('w').Default("-1").Int()
	timed      = app.Flag("timed", "Log how long each extraction takes.").Bool()

	viewCmd = app.Command("view", "Show the contour in an interactive window, reloading the scene on changes.").Default()

	statsCmd = app.Command("stats", "Print statistics of the contour.")

	watchCmd = app.Command("watch", "Print statistics again every time the config or the scene changes.")

	snapshotCmd    = app.Command("snapshot", "Save a picture of the contour.")
	snapshotOut    = snapshotCmd.Arg("output", "PNG file to write.").Required().String()
	snapshotSize   = snapshotCmd.Flag("size", "Width of the picture in pixels (the height follows the grid).").Default("1024").Int()
	snapshotLines  = snapshotCmd.Flag("lines", "Draw the dual edges over the triangles.").Default("true").Bool()
	snapshotImgcat = snapshotCmd.Flag("imgcat", "Also print the picture to the terminal.").Bool()
)

func main() {
	switch kingpin.MustParse(app.Parse(os.Args[1:])) {
	case viewCmd.FullCommand():
		runView()
	case statsCmd.FullCommand():
		runStats()
	case watchCmd.FullCommand():
		runWatch()
	case snapshotCmd.FullCommand():
		runSnapshot()
	}
}

// load reads the config and the scene, applying the command line overrides.
func load() (*config.Config, voxelized2d.Field, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			return nil, nil, err
		}
	}
	if *scenePath != "" {
		cfg.Scene = *scenePath
	}
	if *accuracy > 0 {
		cfg.Accuracy = *accuracy
	}
	if *workers >= 0 {
		cfg.Workers = *workers
	}
	cfg.Timed = cfg.Timed || *timed
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if cfg.Scene == "" {
		return cfg, scene.Default(), nil
	}
	f, err := scene.Load(cfg.Scene)
	if err != nil {
		return nil, nil, err
	}
	return cfg, f, nil
}

// watchedFiles are the user files that define the current contour.
func watchedFiles(cfg *config.Config) []string {
	var res []string
	if *configPath != "" {
		res = append(res, *configPath)
	}
	if cfg.Scene != "" {
		res = append(res, cfg.Scene)
	}
	return res
}

func runView() {
	cfg, f, err := load()
	app.FatalIfError(err, "load")
	reload := func() (voxelized2d.Field, error) {
		_, f, err := load()
		return f, err
	}
	r := viewer.NewRenderer(f, cfg, viewer.OptWatchFiles(watchedFiles(cfg), reload))
	essentials.Must(r.Run())
}

func runStats() {
	cfg, f, err := load()
	app.FatalIfError(err, "load")
	_, data := cfg.Contour(f, 0)
	printStats(cfg, data)
}

func runWatch() {
	cfg, f, err := load()
	app.FatalIfError(err, "load")
	files := watchedFiles(cfg)
	if len(files) == 0 {
		app.Fatalf("nothing to watch: pass --config or --scene")
	}
	_, data := cfg.Contour(f, 0)
	printStats(cfg, data)

	ctx, cancel := signal.NotifyContext(context.Background(), signals()...)
	defer cancel()
	log.Println("[Voxelized2D] Watching", files)
	essentials.Must(internal.Watch(ctx, files, func() error {
		cfg, f, err := load()
		if err != nil {
			return err
		}
		_, data := cfg.Contour(f, 0)
		printStats(cfg, data)
		return nil
	}))
}

func runSnapshot() {
	cfg, f, err := load()
	app.FatalIfError(err, "load")
	_, data := cfg.Contour(f, 0)
	bb := cfg.Bounds()
	w := *snapshotSize
	h := int(math.Max(1, math.Round(float64(w)*bb.Size().Y/bb.Size().X)))
	style := raster.DefaultStyle()
	style.DrawLines = *snapshotLines
	essentials.Must(raster.SnapshotPNG(*snapshotOut, data, bb, w, h, style))
	log.Printf("[Voxelized2D] Saved %dx%d snapshot to %s", w, h, *snapshotOut)
	if *snapshotImgcat {
		essentials.Must(imgcat.CatFile(*snapshotOut, os.Stdout))
	}
}

func printStats(cfg *config.Config, data *voxelized2d.ContourData) {
	s := data.Stats
	fmt.Printf("%s %dx%d cells of %v at (%v, %v), accuracy %d\n", aurora.Bold(aurora.Cyan("grid")).String(),
		cfg.CellsX, cfg.CellsY, cfg.CellSize, cfg.Origin.X, cfg.Origin.Y, cfg.Accuracy)
	fmt.Printf("%s %d crossing of %d (%d solved)\n", aurora.Cyan("cells").String(),
		s.CrossingCells, s.Cells, s.Solves)
	fmt.Printf("%s %d triangles, %d lines\n", aurora.Green("mesh").String(), len(data.Triangles), len(data.Lines))
	fmt.Printf("%s %v\n", aurora.Yellow("time").String(), s.Elapsed)
}
