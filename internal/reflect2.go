package internal

import (
	"github.com/deadsy/sdfx/sdf"
	"github.com/voxelized2d/voxelized2d"
	"reflect"
	"strings"
)

var fieldType = reflect.TypeOf((*voxelized2d.Field)(nil)).Elem()

// FieldTree is internal: do not use outside this project
func (r *Reflection) FieldTree() *Tree {
	return r.Tree(fieldType)
}

// BoundingBoxes is internal: do not use outside this project
func (t *Tree) BoundingBoxes() []sdf.Box2 {
	var res []sdf.Box2
	t.PreOrder(func(node *Tree, _ int) bool {
		if node.Info.HasBb {
			res = append(res, node.Info.Bb)
		}
		// HACK: Stop condition (apart from finishing the tree): children of transforms live in another space
		switch node.Info.Value.Type().String() {
		case "*sdf.TransformSDF2", "*sdf.ScaleUniformSDF2":
			return false
		}
		return true
	})
	return res
}

// PreOrder visits the tree depth first, parents before children. Returning false skips the children of a node.
func (t *Tree) PreOrder(visit func(node *Tree, depth int) bool) {
	t.preOrder(visit, 0)
}

func (t *Tree) preOrder(visit func(node *Tree, depth int) bool, depth int) {
	if !visit(t, depth) {
		return
	}
	for _, ch := range t.Children {
		ch.preOrder(visit, depth+1)
	}
}

// Count is the number of nodes.
func (t *Tree) Count() int {
	n := 0
	t.PreOrder(func(*Tree, int) bool {
		n++
		return true
	})
	return n
}

// String prints one node type per line, indented by depth.
func (t *Tree) String() string {
	sb := &strings.Builder{}
	t.PreOrder(func(node *Tree, depth int) bool {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(node.Info.Value.Type().String())
		sb.WriteByte('\n')
		return true
	})
	return sb.String()
}
