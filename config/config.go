// Package config loads the extraction settings of a scene from a YAML file.
package config

import (
	"bytes"
	"github.com/barkimedes/go-deepcopy"
	"github.com/deadsy/sdfx/sdf"
	"github.com/deadsy/sdfx/vec/v2"
	"github.com/pkg/errors"
	"github.com/voxelized2d/voxelized2d"
	"gopkg.in/yaml.v3"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// Defaults of the demo scene.
const (
	DefaultCellSize = 0.125
	DefaultCells    = 128
	DefaultAccuracy = 32
)

// Vec is a YAML friendly 2D vector.
type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Config describes the grid a scene is sampled on and how its contour is extracted.
type Config struct {
	CellSize     float64 `yaml:"cellSize"`
	CellsX       int     `yaml:"cellsX"`
	CellsY       int     `yaml:"cellsY"`
	Origin       Vec     `yaml:"origin"`
	Accuracy     int     `yaml:"accuracy"`
	TangentRatio float64 `yaml:"tangentRatio"`
	Workers      int     `yaml:"workers"` // 0 uses every CPU
	Scene        string  `yaml:"scene"`   // Path of the scene script, relative to the config file. Empty is the demo scene
	Timed        bool    `yaml:"timed"`
}

// Default is a 16x16 world units grid at the origin, sampled with the demo accuracy.
func Default() *Config {
	return &Config{
		CellSize:     DefaultCellSize,
		CellsX:       DefaultCells,
		CellsY:       DefaultCells,
		Accuracy:     DefaultAccuracy,
		TangentRatio: voxelized2d.DefaultTangentRatio,
		Workers:      1,
	}
}

// Load reads the YAML file at path over the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	if cfg.Scene != "" && !filepath.IsAbs(cfg.Scene) {
		cfg.Scene = filepath.Join(filepath.Dir(path), cfg.Scene)
	}
	return cfg, nil
}

// Parse decodes a YAML document over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the preconditions of the extraction engine, so that it never panics on user input.
func (c *Config) Validate() error {
	switch {
	case !(c.CellSize > 0):
		return errors.Errorf("cellSize must be positive, got %v", c.CellSize)
	case c.CellsX < 1 || c.CellsY < 1:
		return errors.Errorf("cellsX and cellsY must be at least 1, got %dx%d", c.CellsX, c.CellsY)
	case c.Accuracy < 1:
		return errors.Errorf("accuracy must be at least 1, got %d", c.Accuracy)
	case !(c.TangentRatio > 0):
		return errors.Errorf("tangentRatio must be positive, got %v", c.TangentRatio)
	case c.Workers < 0:
		return errors.Errorf("workers can't be negative, got %d", c.Workers)
	}
	return nil
}

// Clone returns a deep copy that can be modified freely.
func (c *Config) Clone() *Config {
	return deepcopy.MustAnything(c).(*Config)
}

// OriginVec is the world position of the first grid vertex.
func (c *Config) OriginVec() v2.Vec {
	return v2.Vec{X: c.Origin.X, Y: c.Origin.Y}
}

// NewGrid allocates an unfilled grid with the configured size.
func (c *Config) NewGrid() *voxelized2d.VoxelGrid2 {
	return voxelized2d.NewVoxelGrid2(c.CellSize, c.CellsX, c.CellsY)
}

// Bounds is the world region covered by the grid.
func (c *Config) Bounds() sdf.Box2 {
	min := c.OriginVec()
	return sdf.Box2{Min: min, Max: min.Add(v2.Vec{X: c.CellSize * float64(c.CellsX), Y: c.CellSize * float64(c.CellsY)})}
}

// Options translates the settings into builder options.
func (c *Config) Options() []voxelized2d.Option {
	workers := c.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	return []voxelized2d.Option{
		voxelized2d.OptTangentRatio(c.TangentRatio),
		voxelized2d.OptWorkers(workers),
		voxelized2d.OptTimed(c.Timed),
	}
}

// Contour samples f on a new grid and extracts its contour, using accuracy instead of the configured one if positive.
func (c *Config) Contour(f voxelized2d.Field, accuracy int) (*voxelized2d.VoxelGrid2, *voxelized2d.ContourData) {
	if accuracy < 1 {
		accuracy = c.Accuracy
	}
	grid := c.NewGrid()
	return grid, voxelized2d.Rebuild(f, grid, c.OriginVec(), accuracy, c.Options()...)
}
