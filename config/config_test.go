package config

import (
	"github.com/deadsy/sdfx/vec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voxelized2d/voxelized2d"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	bb := cfg.Bounds()
	assert.Equal(t, v2.Vec{}, bb.Min)
	assert.Equal(t, v2.Vec{X: 16, Y: 16}, bb.Max)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
cellSize: 0.5
cellsX: 32
origin: {x: -1, y: 2.5}
accuracy: 8
workers: 4
`))
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.CellSize)
	assert.Equal(t, 32, cfg.CellsX)
	assert.Equal(t, DefaultCells, cfg.CellsY)
	assert.Equal(t, v2.Vec{X: -1, Y: 2.5}, cfg.OriginVec())
	assert.Equal(t, 8, cfg.Accuracy)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, voxelized2d.DefaultTangentRatio, cfg.TangentRatio)
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejectsInvalid(t *testing.T) {
	for name, doc := range map[string]string{
		"unknown key":    "cellsize: 1",
		"zero accuracy":  "accuracy: 0",
		"negative cells": "cellsY: -3",
		"zero cell size": "cellSize: 0",
		"zero ratio":     "tangentRatio: 0",
		"workers":        "workers: -1",
		"not yaml":       "accuracy: [",
	} {
		_, err := Parse([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestLoadResolvesScenePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scene: shapes.zy\naccuracy: 4\n"), 0644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "shapes.zy"), cfg.Scene)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	cfg := Default()
	clone := cfg.Clone()
	clone.Accuracy = 1
	clone.Origin.X = 3
	assert.Equal(t, DefaultAccuracy, cfg.Accuracy)
	assert.Equal(t, 0., cfg.Origin.X)
}

func TestContourUsesSettings(t *testing.T) {
	cfg := Default()
	cfg.CellSize, cfg.CellsX, cfg.CellsY, cfg.Accuracy = 1, 16, 16, 4
	cfg.Workers = 0
	f := voxelized2d.NewCircle(v2.Vec{X: 8, Y: 8}, 5)
	grid, data := cfg.Contour(f, 0)
	assert.Equal(t, 16, grid.SizeX)
	assert.Equal(t, 256, data.Stats.Cells)
	assert.Equal(t, data.Stats.CrossingCells, data.Stats.Solves)
	assert.NotEmpty(t, data.Lines)
}

func TestDemoExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "examples", "demo", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultCellSize, cfg.CellSize)
	assert.Equal(t, DefaultCells, cfg.CellsX)
	assert.Equal(t, 0, cfg.Workers)
	assert.True(t, cfg.Timed)
	assert.Equal(t, filepath.Join("..", "examples", "demo", "scene.lisp"), cfg.Scene)
}
