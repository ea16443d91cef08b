package engine

import (
	"fmt"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/blockshape/pkg/geom"
	"github.com/chazu/blockshape/pkg/kernel"
	"github.com/chazu/blockshape/pkg/shape"
	"github.com/chazu/blockshape/pkg/vec"
)

// sexpSolid wraps a kernel.Solid built by the solid builtins.
type sexpSolid struct {
	s kernel.Solid
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	mn, mx := s.s.BoundingBox()
	return fmt.Sprintf("(solid %v %v)", mn, mx)
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

func toSolid(s zygo.Sexp) (kernel.Solid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.s, nil
	}
	return nil, fmt.Errorf("expected solid, got %s", describe(s))
}

func (c call) solid(i int, what string) (kernel.Solid, error) {
	s, err := toSolid(c.positional[i])
	if err != nil {
		return nil, c.wrap(i, what, err)
	}
	return s, nil
}

func (c call) positive(i int, what string) (float64, error) {
	f, err := c.number(i, what)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, fmt.Errorf("%s: %s must be positive, got %g", c.name, what, f)
	}
	return f, nil
}

// atCell moves a solid built around the origin onto the centre of block p.
func atCell(k kernel.Kernel, s kernel.Solid, p vec.Point) kernel.Solid {
	return k.Translate(s, float64(p.X)+0.5, float64(p.Y)+0.5, float64(p.Z)+0.5)
}

// alongAxis turns a kernel cylinder (extruded along Z) onto axis a.
func alongAxis(k kernel.Kernel, s kernel.Solid, a vec.Axis) kernel.Solid {
	switch a {
	case vec.AxisX:
		return k.Rotate(s, 0, 90, 0)
	case vec.AxisY:
		return k.Rotate(s, 90, 0, 0)
	}
	return s
}

// registerSolids installs the builtins that build kernel solids and place
// them. Solids use block coordinates: the unit cube at (x, y, z) is the
// block at (x, y, z), and a block is filled when its centre is inside.
func registerSolids(env *zygo.Zlisp, s *session) {
	k := s.kernel
	w := s.world

	// value returns a solid to the script.
	value := func(name string, fn func(c call) (kernel.Solid, error)) {
		env.AddFunction(symbolName(name), func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
			solid, err := fn(call{name: name, kwArgs: parseArgs(args)})
			if err != nil {
				return zygo.SexpNull, err
			}
			return &sexpSolid{s: solid}, nil
		})
	}

	// -----------------------------------------------------------------------
	// (solid-box (vec3 4 3 2))                    blocks (0..3, 0..2, 0..1)
	// (solid-box (box (vec3 1 0 1) (vec3 4 3 2))) the blocks of the box
	// -----------------------------------------------------------------------
	value("solid-box", func(c call) (kernel.Solid, error) {
		if err := c.arity(1, 1); err != nil {
			return nil, err
		}
		box, ok := c.positional[0].(*sexpBox)
		if !ok {
			size, err := c.point(0, "size")
			if err != nil {
				return nil, err
			}
			box = &sexpBox{box: geom.Box{Size: size}}
		}
		b := box.box
		if b.Size.X <= 0 || b.Size.Y <= 0 || b.Size.Z <= 0 {
			return nil, fmt.Errorf("solid-box: size must be positive, got %v", b.Size)
		}
		solid := k.Box(float64(b.Size.X), float64(b.Size.Y), float64(b.Size.Z))
		return k.Translate(solid, float64(b.Offset.X), float64(b.Offset.Y), float64(b.Offset.Z)), nil
	})

	// -----------------------------------------------------------------------
	// (solid-sphere 3.5) centred on block (0 0 0)
	// -----------------------------------------------------------------------
	value("solid-sphere", func(c call) (kernel.Solid, error) {
		if err := c.arity(1, 1); err != nil {
			return nil, err
		}
		r, err := c.positive(0, "radius")
		if err != nil {
			return nil, err
		}
		return atCell(k, k.Sphere(r), vec.Point{}), nil
	})

	// -----------------------------------------------------------------------
	// (solid-cylinder 6 2.5 :axis :x) centred on block (0 0 0), axis Y by default
	// -----------------------------------------------------------------------
	value("solid-cylinder", func(c call) (kernel.Solid, error) {
		if err := c.arity(2, 2); err != nil {
			return nil, err
		}
		height, err := c.positive(0, "height")
		if err != nil {
			return nil, err
		}
		r, err := c.positive(1, "radius")
		if err != nil {
			return nil, err
		}
		axis, err := c.axis(vec.AxisY)
		if err != nil {
			return nil, err
		}
		return atCell(k, alongAxis(k, k.Cylinder(height, r), axis), vec.Point{}), nil
	})

	// -----------------------------------------------------------------------
	// (solid-union a b ...) (solid-difference a b ...) (solid-intersection a b ...)
	// -----------------------------------------------------------------------
	booleans := map[string]func(a, b kernel.Solid) kernel.Solid{
		"solid-union":        k.Union,
		"solid-difference":   k.Difference,
		"solid-intersection": k.Intersection,
	}
	for name, op := range booleans {
		value(name, func(c call) (kernel.Solid, error) {
			if len(c.positional) < 2 {
				return nil, fmt.Errorf("%s requires at least 2 solids, got %d", c.name, len(c.positional))
			}
			acc, err := c.solid(0, "solid")
			if err != nil {
				return nil, err
			}
			for i := 1; i < len(c.positional); i++ {
				next, err := c.solid(i, "solid")
				if err != nil {
					return nil, err
				}
				acc = op(acc, next)
			}
			return acc, nil
		})
	}

	// -----------------------------------------------------------------------
	// (solid-translate s (vec3 10 0 0))
	// -----------------------------------------------------------------------
	value("solid-translate", func(c call) (kernel.Solid, error) {
		if err := c.arity(2, 2); err != nil {
			return nil, err
		}
		solid, err := c.solid(0, "solid")
		if err != nil {
			return nil, err
		}
		d, err := c.point(1, "offset")
		if err != nil {
			return nil, err
		}
		return k.Translate(solid, float64(d.X), float64(d.Y), float64(d.Z)), nil
	})

	// -----------------------------------------------------------------------
	// (solid-rotate s 0 45 0) Euler angles in degrees about the origin
	// -----------------------------------------------------------------------
	value("solid-rotate", func(c call) (kernel.Solid, error) {
		if err := c.arity(4, 4); err != nil {
			return nil, err
		}
		solid, err := c.solid(0, "solid")
		if err != nil {
			return nil, err
		}
		var deg [3]float64
		for i, axis := range []string{"x", "y", "z"} {
			if deg[i], err = c.number(i+1, axis); err != nil {
				return nil, err
			}
		}
		return k.Rotate(solid, deg[0], deg[1], deg[2]), nil
	})

	// -----------------------------------------------------------------------
	// (place-solid s "minecraft:stone" :replace "minecraft:air")
	// -----------------------------------------------------------------------
	s.add(env, "place-solid", func(c call) error {
		if err := c.arity(2, 2); err != nil {
			return err
		}
		solid, err := c.solid(0, "solid")
		if err != nil {
			return err
		}
		b, err := c.block(1, "block")
		if err != nil {
			return err
		}
		replace, err := c.replace()
		if err != nil {
			return err
		}
		return shape.PlaceSolid(w, solid, b, replace)
	})

	// -----------------------------------------------------------------------
	// (sphere (vec3 0 70 0) 4.5 "minecraft:glass")
	// -----------------------------------------------------------------------
	s.add(env, "sphere", func(c call) error {
		if err := c.arity(3, 3); err != nil {
			return err
		}
		center, err := c.point(0, "center")
		if err != nil {
			return err
		}
		radius, err := c.number(1, "radius")
		if err != nil {
			return err
		}
		if radius <= 0 {
			return fmt.Errorf("sphere: radius must be positive, got %g", radius)
		}
		b, err := c.block(2, "block")
		if err != nil {
			return err
		}
		replace, err := c.replace()
		if err != nil {
			return err
		}
		return shape.PlaceSolid(w, atCell(k, k.Sphere(radius), center), b, replace)
	})
}
