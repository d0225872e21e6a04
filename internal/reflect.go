package internal

import (
	"github.com/deadsy/sdfx/sdf"
	"github.com/mitchellh/reflectwalk"
	"reflect"
	"unsafe"
)

// Reflection provides reflect-based metadata about the field hierarchy with the provided root: bounding boxes, etc.
// Remember that reflect is relatively slow and results should be cached.
type Reflection struct {
	root interface{}
}

// NewReflection is internal: do not use outside this project
func NewReflection(root interface{}) *Reflection {
	return &Reflection{root: root}
}

type Tree struct {
	Info     *NodeMeta
	Children []*Tree
}

// Tree builds the hierarchy of the values implementing any of targetTypes, in the order they are stored.
func (r *Reflection) Tree(targetTypes ...reflect.Type) *Tree {
	var res *Tree
	parentToSubRes := map[interface{}]*Tree{}
	uniqueID := 0
	err := reflectwalk.Walk([]interface{}{r.root}, /* <-- Wrapper for root to work */
		newTreeWalker(func(parents []*NodeMeta, value *NodeMeta) error {
			value.ID = uniqueID
			uniqueID++
			subTree := &Tree{Info: value, Children: []*Tree{}}
			if len(parents) == 0 { // Single root node
				res = subTree
			} else {
				appendTo := parentToSubRes[parents[len(parents)-1].Node]
				appendTo.Children = append(appendTo.Children, subTree)
			}
			parentToSubRes[value.Node] = subTree
			return nil
		}, targetTypes...))
	if err != nil {
		panic(err) // Shouldn't happen
	}
	return res
}

// NodeMeta describes one node of the hierarchy.
type NodeMeta struct {
	ID    int      // An unique ID for this node (unique for the current tree)
	Level int      // The fake level (it is not consistent across different branches)
	Bb    sdf.Box2 // The cached bounding box, only set if HasBb
	HasBb bool
	Node  interface{}   // The node itself
	Value reflect.Value // The Value (can be modified!)
}

type treeWalker struct {
	impl                        func(parents []*NodeMeta, value *NodeMeta) error
	targetTypes                 []reflect.Type
	curParents                  []*NodeMeta
	lastFound                   *NodeMeta
	curLevel, minLevelSinceLast int
}

func newTreeWalker(impl func(parents []*NodeMeta, value *NodeMeta) error, targetTypes ...reflect.Type) *treeWalker {
	return &treeWalker{impl: impl, targetTypes: targetTypes}
}

func (i *treeWalker) Enter(_ reflectwalk.Location) error {
	i.curLevel++
	return nil
}

func (i *treeWalker) Exit(_ reflectwalk.Location) error {
	i.curLevel--
	if i.curLevel < i.minLevelSinceLast {
		i.minLevelSinceLast = i.curLevel
	}
	return nil
}

func (i *treeWalker) Interface(value reflect.Value) error {
	// Only nodes stored as interfaces are found (the case of every combinator in this module and in sdfx)
	if !value.CanInterface() {
		// HACK: Read-only access to unexported value (Interface() is not allowed due to possible write operations?)
		value = reflect.NewAt(value.Type(), unsafe.Pointer(value.UnsafeAddr())).Elem()
	}
	if value.IsNil() {
		return nil
	}
	value = value.Elem() // The internal element of the interface
	for _, tp := range i.targetTypes {
		if value.Type().Implements(tp) {
			return i.handleNode(value, value.Interface())
		}
	}
	return nil
}

func (i *treeWalker) handleNode(value reflect.Value, node interface{}) error {
	// FIXME: Detect and avoid infinite loops (self-references in hierarchy)

	// Find out which node is the parent of this one
	if i.lastFound != nil && i.curLevel > i.lastFound.Level && i.minLevelSinceLast > i.lastFound.Level { // Below in hierarchy
		i.curParents = append(i.curParents, i.lastFound)
	} else {
		for len(i.curParents) > 0 && i.curLevel <= i.curParents[len(i.curParents)-1].Level { // Above in hierarchy
			i.curParents = i.curParents[:len(i.curParents)-1]
		}
	}

	meta := &NodeMeta{ID: -1, Level: i.curLevel, Node: node, Value: value}
	if s, ok := node.(interface{ BoundingBox() sdf.Box2 }); ok {
		meta.Bb, meta.HasBb = s.BoundingBox(), true
	}

	// Record the last found Level and reset minLevelSinceLast
	i.lastFound = meta
	i.minLevelSinceLast = i.curLevel + 1 // Will be reset on next iteration to curLevel if going back up the tree

	return i.impl(i.curParents, i.lastFound)
}
