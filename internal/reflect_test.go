package internal

import (
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voxelized2d/voxelized2d"
	"testing"
)

func preOrderNumChildren(tree *Tree) []int {
	var res []int
	tree.PreOrder(func(node *Tree, _ int) bool {
		res = append(res, len(node.Children))
		return true
	})
	return res
}

func testTreeCommon(t *testing.T, f voxelized2d.Field, expectedPreOrderNumChildren []int) *Tree {
	tree := NewReflection(f).FieldTree()
	require.NotNil(t, tree)
	t.Logf("\n%s", tree)
	assert.Equal(t, expectedPreOrderNumChildren, preOrderNumChildren(tree))
	assert.Equal(t, len(expectedPreOrderNumChildren), tree.Count())
	return tree
}

func circle(x, y, r float64) voxelized2d.Field {
	return voxelized2d.NewCircle(v2.Vec{X: x, Y: y}, r)
}

func TestFieldTreeSingle(t *testing.T) {
	tree := testTreeCommon(t, circle(1, 1, 1), []int{0})
	assert.Equal(t, 0, tree.Info.ID)
	assert.True(t, tree.Info.HasBb)
	assert.Equal(t, sdf.Box2{Max: v2.Vec{X: 2, Y: 2}}, tree.Info.Bb)
}

func TestFieldTreeUnion(t *testing.T) {
	s := voxelized2d.Union(circle(0, 0, 1), voxelized2d.NewRectangle(v2.Vec{X: 3}, v2.Vec{X: 1, Y: 1}))
	tree := testTreeCommon(t, s, []int{2, 0, 0})
	assert.Equal(t, "*voxelized2d.Circle", tree.Children[0].Info.Value.Type().String())
	assert.Equal(t, "*voxelized2d.Rectangle", tree.Children[1].Info.Value.Type().String())
}

func TestFieldTreeMultiLevel(t *testing.T) {
	s := voxelized2d.Difference(voxelized2d.Union(circle(0, 0, 1), circle(2, 0, 1)), circle(1, 0, 0.5))
	tree := testTreeCommon(t, s, []int{2, 2, 0, 0, 0})
	boxes := tree.BoundingBoxes()
	require.Len(t, boxes, 5)
	assert.Equal(t, s.BoundingBox(), boxes[0])
	ids := map[int]bool{}
	tree.PreOrder(func(node *Tree, _ int) bool {
		ids[node.Info.ID] = true
		return true
	})
	assert.Len(t, ids, 5)
}

func TestFieldTreeWithSdfx(t *testing.T) {
	box := sdf.Box2D(v2.Vec{X: 1, Y: 1}, 0.25)
	box2 := sdf.Box2D(v2.Vec{X: 2, Y: 1}, 0.25)
	s := voxelized2d.Union(circle(0, 0, 1), sdf.Union2D(box, box2))
	testTreeCommon(t, s, []int{2, 0, 2, 0, 0})
}

func TestBoundingBoxesStopAtTransforms(t *testing.T) {
	inner := voxelized2d.Union(circle(0, 0, 1), circle(2, 0, 1))
	s := sdf.Transform2D(inner, sdf.Translate2d(v2.Vec{X: 10}))
	tree := testTreeCommon(t, s, []int{1, 2, 0, 0})
	boxes := tree.BoundingBoxes()
	require.Len(t, boxes, 1)
	assert.InDelta(t, 9, boxes[0].Min.X, 1e-9)
}
