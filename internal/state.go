package internal

import (
	"github.com/barkimedes/go-deepcopy"
	"github.com/deadsy/sdfx/sdf"
)

// Color modes of the viewer.
const (
	ColorModeField = iota // Heat map of the field under the mesh
	ColorModeMesh         // Flat mesh only
	ColorModes
)

// ViewerState is everything the user can change interactively. Rebuilds work on snapshots of it.
type ViewerState struct {
	Accuracy  int      // Resolution of the brute-force searches (the grid itself is fixed by the config)
	ColorMode int      // See ColorModeField...
	DrawBbs   bool     // Whether to show the bounding boxes of the field hierarchy
	DrawLines bool     // Whether to show the dual edges over the triangles
	Bb        sdf.Box2 // Controls the scale and displacement
	Tree      *Tree    // Cached read-only reflection metadata of the field hierarchy
}

// Snapshot deep copies the state, sharing the read-only Tree.
func (s *ViewerState) Snapshot() *ViewerState {
	tree := s.Tree
	s.Tree = nil
	res := deepcopy.MustAnything(s).(*ViewerState)
	s.Tree = tree
	res.Tree = tree
	return res
}
