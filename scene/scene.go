// Package scene builds fields from small zygomys (Lisp) scripts.
//
// Builtins:
//
//	(vec2 x y)                 a point or offset
//	(vadd a b)                 the sum of two vec2
//	(circle center radius)     a circle
//	(rect center half)         an axis aligned rectangle given its half extents
//	(union a b ...)            the region inside any field
//	(difference a b ...)       the region inside a and outside every other field
//	(translate field offset)   moves a field (sdfx transform)
//
// The value of the last expression is the scene.
package scene

import (
	"fmt"
	"github.com/deadsy/sdfx/sdf"
	"github.com/deadsy/sdfx/vec/v2"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/pkg/errors"
	"github.com/voxelized2d/voxelized2d"
	"os"
	"strings"
)

// DefaultSource describes the demo scene. See Default.
const DefaultSource = `
(def off (vec2 0.1 0.1))
(def c1 (circle (vadd (vec2 4.0 8.0) off) 2.0))
(def c2 (circle (vadd (vec2 8.0 8.0) off) 5.0))
(def c3 (circle (vadd (vec2 4.0 4.0) off) 2.0))
(def c4 (circle (vadd (vec2 8.0 12.0) off) 4.0))
(def c5 (circle (vadd (vec2 8.0 6.0) off) 1.1))
(def bar (rect (vadd (vec2 8.0 10.8) off) (vec2 1.0 3.0)))
(difference (union c1 c2 bar) c3 c4 c5)
`

// Default is the demo scene: a union of two circles and a rectangle, with three circles carved out of it. It fits
// in the 16x16 world units of the default grid.
func Default() voxelized2d.Field {
	off := v2.Vec{X: 0.1, Y: 0.1}
	circle := func(x, y, r float64) voxelized2d.Field {
		return voxelized2d.NewCircle(v2.Vec{X: x, Y: y}.Add(off), r)
	}
	var s voxelized2d.Field = voxelized2d.Union(circle(4, 8, 2), circle(8, 8, 5))
	s = voxelized2d.Union(s, voxelized2d.NewRectangle(v2.Vec{X: 8, Y: 10.8}.Add(off), v2.Vec{X: 1, Y: 3}))
	s = voxelized2d.Difference(s, circle(4, 4, 2))
	s = voxelized2d.Difference(s, circle(8, 12, 4))
	return voxelized2d.Difference(s, circle(8, 6, 1.1))
}

// Load evaluates the script at path.
func Load(path string) (voxelized2d.Field, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scene")
	}
	f, err := Eval(string(source))
	if err != nil {
		return nil, errors.Wrapf(err, "scene %s", path)
	}
	return f, nil
}

// Eval runs source in a fresh sandbox and returns the field of its last expression.
func Eval(source string) (f voxelized2d.Field, err error) {
	if strings.TrimSpace(source) == "" {
		return nil, errors.New("empty scene")
	}
	defer func() {
		if r := recover(); r != nil {
			f, err = nil, errors.Errorf("panic during evaluation: %v", r)
		}
	}()

	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env)

	if err = env.LoadString(source); err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	res, err := env.Run()
	if err != nil {
		return nil, errors.Wrap(err, "run")
	}
	sf, ok := res.(*sexpField)
	if !ok {
		return nil, errors.Errorf("the last expression must be a field, got %s", res.SexpString(nil))
	}
	return sf.f, nil
}

//-----------------------------------------------------------------------------
// VALUES
//-----------------------------------------------------------------------------

type sexpVec struct {
	v v2.Vec
}

func (s *sexpVec) SexpString(*zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %g %g)", s.v.X, s.v.Y)
}
func (s *sexpVec) Type() *zygo.RegisteredType { return nil }

type sexpField struct {
	f voxelized2d.Field
}

func (s *sexpField) SexpString(*zygo.PrintState) string {
	return fmt.Sprintf("(field %T)", s.f)
}
func (s *sexpField) Type() *zygo.RegisteredType { return nil }

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, errors.Errorf("expected number, got %s", s.SexpString(nil))
}

func toVec(s zygo.Sexp) (v2.Vec, error) {
	if v, ok := s.(*sexpVec); ok {
		return v.v, nil
	}
	return v2.Vec{}, errors.Errorf("expected vec2, got %s", s.SexpString(nil))
}

func toField(s zygo.Sexp) (voxelized2d.Field, error) {
	if v, ok := s.(*sexpField); ok {
		return v.f, nil
	}
	return nil, errors.Errorf("expected field, got %s", s.SexpString(nil))
}

//-----------------------------------------------------------------------------
// BUILTINS
//-----------------------------------------------------------------------------

type builtin func(args []zygo.Sexp) (zygo.Sexp, error)

// wrap checks the argument count (max < 0 is unbounded) and prefixes errors with the builtin name.
func wrap(name string, min, max int, impl builtin) zygo.ZlispUserFunction {
	return func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < min || (max >= 0 && len(args) > max) {
			return zygo.SexpNull, errors.Errorf("%s: wrong number of arguments (%d)", name, len(args))
		}
		res, err := impl(args)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, name)
		}
		return res, nil
	}
}

func registerBuiltins(env *zygo.Zlisp) {
	env.AddFunction("vec2", wrap("vec2", 2, 2, func(args []zygo.Sexp) (zygo.Sexp, error) {
		x, err := toFloat64(args[0])
		if err != nil {
			return nil, err
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return nil, err
		}
		return &sexpVec{v: v2.Vec{X: x, Y: y}}, nil
	}))

	env.AddFunction("vadd", wrap("vadd", 2, 2, func(args []zygo.Sexp) (zygo.Sexp, error) {
		a, err := toVec(args[0])
		if err != nil {
			return nil, err
		}
		b, err := toVec(args[1])
		if err != nil {
			return nil, err
		}
		return &sexpVec{v: a.Add(b)}, nil
	}))

	env.AddFunction("circle", wrap("circle", 2, 2, func(args []zygo.Sexp) (zygo.Sexp, error) {
		center, err := toVec(args[0])
		if err != nil {
			return nil, err
		}
		r, err := toFloat64(args[1])
		if err != nil {
			return nil, err
		}
		if r < 0 {
			return nil, errors.Errorf("negative radius %v", r)
		}
		return &sexpField{f: voxelized2d.NewCircle(center, r)}, nil
	}))

	env.AddFunction("rect", wrap("rect", 2, 2, func(args []zygo.Sexp) (zygo.Sexp, error) {
		center, err := toVec(args[0])
		if err != nil {
			return nil, err
		}
		half, err := toVec(args[1])
		if err != nil {
			return nil, err
		}
		if half.X < 0 || half.Y < 0 {
			return nil, errors.Errorf("negative half extents %v", half)
		}
		return &sexpField{f: voxelized2d.NewRectangle(center, half)}, nil
	}))

	fold := func(combine func(a, b voxelized2d.Field) voxelized2d.Field) builtin {
		return func(args []zygo.Sexp) (zygo.Sexp, error) {
			res, err := toField(args[0])
			if err != nil {
				return nil, err
			}
			for _, arg := range args[1:] {
				f, err := toField(arg)
				if err != nil {
					return nil, err
				}
				res = combine(res, f)
			}
			return &sexpField{f: res}, nil
		}
	}
	env.AddFunction("union", wrap("union", 2, -1, fold(func(a, b voxelized2d.Field) voxelized2d.Field {
		return voxelized2d.Union(a, b)
	})))
	env.AddFunction("difference", wrap("difference", 2, -1, fold(func(a, b voxelized2d.Field) voxelized2d.Field {
		return voxelized2d.Difference(a, b)
	})))

	env.AddFunction("translate", wrap("translate", 2, 2, func(args []zygo.Sexp) (zygo.Sexp, error) {
		f, err := toField(args[0])
		if err != nil {
			return nil, err
		}
		s, ok := f.(sdf.SDF2)
		if !ok {
			return nil, errors.Errorf("%T has no bounding box", f)
		}
		offset, err := toVec(args[1])
		if err != nil {
			return nil, err
		}
		return &sexpField{f: sdf.Transform2D(s, sdf.Translate2d(offset))}, nil
	}))
}
