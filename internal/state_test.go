package internal

import (
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestSnapshotIsIndependent(t *testing.T) {
	tree := NewReflection(circle(0, 0, 1)).FieldTree()
	s := &ViewerState{Accuracy: 8, Bb: sdf.Box2{Max: v2.Vec{X: 1, Y: 1}}, Tree: tree}
	snap := s.Snapshot()
	assert.Equal(t, s.Accuracy, snap.Accuracy)
	assert.Same(t, tree, snap.Tree)
	assert.Same(t, tree, s.Tree)
	snap.Accuracy = 2
	snap.Bb.Max.X = 5
	assert.Equal(t, 8, s.Accuracy)
	assert.Equal(t, 1., s.Bb.Max.X)
}
