package engine

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/blockshape/pkg/block"
	"github.com/chazu/blockshape/pkg/editor"
	"github.com/chazu/blockshape/pkg/geom"
	"github.com/chazu/blockshape/pkg/kernel"
	"github.com/chazu/blockshape/pkg/shape"
	"github.com/chazu/blockshape/pkg/transform"
	"github.com/chazu/blockshape/pkg/vec"
)

// session is the per-evaluation state the placement builtins act on.
type session struct {
	world    *editor.World
	kernel   kernel.Kernel
	logger   *log.Logger
	restores []func()
}

// unwind pops every transform the script left pushed.
func (s *session) unwind() {
	for i := len(s.restores) - 1; i >= 0; i-- {
		s.restores[i]()
	}
	s.restores = nil
}

// call is one invocation of a placement builtin. Its helpers wrap
// extraction errors with the builtin name and argument position.
type call struct {
	name string
	kwArgs
}

func (c call) arity(min, max int) error {
	n := len(c.positional)
	if n < min || n > max {
		if min == max {
			return fmt.Errorf("%s requires %d arguments, got %d", c.name, min, n)
		}
		return fmt.Errorf("%s requires %d to %d arguments, got %d", c.name, min, max, n)
	}
	return nil
}

func (c call) wrap(i int, what string, err error) error {
	return fmt.Errorf("%s: argument %d (%s): %w", c.name, i+1, what, err)
}

func (c call) point(i int, what string) (vec.Point, error) {
	p, err := toPoint(c.positional[i])
	if err != nil {
		return vec.Point{}, c.wrap(i, what, err)
	}
	return p, nil
}

func (c call) point2(i int, what string) (vec.Point2, error) {
	p, err := toPoint2(c.positional[i])
	if err != nil {
		return vec.Point2{}, c.wrap(i, what, err)
	}
	return p, nil
}

// diameters reads a vec2 or a single integer applied to both axes.
func (c call) diameters(i int) (vec.Point2, error) {
	if n, ok := c.positional[i].(*zygo.SexpInt); ok {
		d := int(n.Val)
		return vec.P2(d, d), nil
	}
	return c.point2(i, "diameters")
}

func (c call) integer(i int, what string) (int, error) {
	n, err := toInt(c.positional[i])
	if err != nil {
		return 0, c.wrap(i, what, err)
	}
	return n, nil
}

func (c call) number(i int, what string) (float64, error) {
	f, err := toFloat64(c.positional[i])
	if err != nil {
		return 0, c.wrap(i, what, err)
	}
	return f, nil
}

func (c call) block(i int, what string) (block.Block, error) {
	b, err := toBlock(c.positional[i])
	if err != nil {
		return block.Block{}, c.wrap(i, what, err)
	}
	return b, nil
}

// optBlock reads an optional trailing block, defaulting to air.
func (c call) optBlock(i int, what string) (block.Block, error) {
	if i >= len(c.positional) {
		return block.Air, nil
	}
	return c.block(i, what)
}

func (c call) box(i int) (geom.Box, error) {
	b, err := toBox(c.positional[i])
	if err != nil {
		return geom.Box{}, c.wrap(i, "box", err)
	}
	return b, nil
}

func (c call) rect(i int) (geom.Rect, error) {
	r, err := toRect(c.positional[i])
	if err != nil {
		return geom.Rect{}, c.wrap(i, "rect", err)
	}
	return r, nil
}

func (c call) points(i int) ([]vec.Point, error) {
	items, err := sexpListToSlice(c.positional[i])
	if err != nil {
		return nil, c.wrap(i, "points", err)
	}
	out := make([]vec.Point, 0, len(items))
	for j, item := range items {
		p, err := toPoint(item)
		if err != nil {
			return nil, c.wrap(i, fmt.Sprintf("point %d", j+1), err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (c call) replace() (editor.Replace, error) {
	v, ok := c.kw["replace"]
	if !ok {
		return nil, nil
	}
	r, err := toReplace(v)
	if err != nil {
		return nil, fmt.Errorf("%s: replace: %w", c.name, err)
	}
	return r, nil
}

func (c call) axis(def vec.Axis) (vec.Axis, error) {
	v, ok := c.kw["axis"]
	if !ok {
		return def, nil
	}
	a, err := toAxis(v)
	if err != nil {
		return 0, fmt.Errorf("%s: axis: %w", c.name, err)
	}
	return a, nil
}

func (c call) flag(key string) (bool, error) {
	v, ok := c.kw[key]
	if !ok {
		return false, nil
	}
	b, err := toBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %s: %w", c.name, key, err)
	}
	return b, nil
}

func (c call) intKW(key string, def int) (int, error) {
	v, ok := c.kw[key]
	if !ok {
		return def, nil
	}
	n, err := toInt(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", c.name, key, err)
	}
	return n, nil
}

func (c call) cylinderOpts() (geom.CylinderOpts, error) {
	opts := shape.DefaultCylinder
	var err error
	if opts.Axis, err = c.axis(opts.Axis); err != nil {
		return opts, err
	}
	if opts.Tube, err = c.flag("tube"); err != nil {
		return opts, err
	}
	if opts.Hollow, err = c.flag("hollow"); err != nil {
		return opts, err
	}
	return opts, nil
}

// symbolName is the zygomys symbol of a DSL name.
func symbolName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// add registers a placement builtin under its DSL name. The zygomys symbol
// uses underscores, matching what preprocessSource produces.
func (s *session) add(env *zygo.Zlisp, name string, fn func(c call) error) {
	env.AddFunction(symbolName(name), func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := fn(call{name: name, kwArgs: parseArgs(args)}); err != nil {
			return zygo.SexpNull, err
		}
		return zygo.SexpNull, nil
	})
}

// cuboidFunc is the common signature of the corner-based placements.
type cuboidFunc func(ed editor.Editor, first, last vec.Point, b block.Block, replace editor.Replace) error

// boxFunc is the common signature of the box-based placements.
type boxFunc func(ed editor.Editor, box geom.Box, b block.Block, replace editor.Replace) error

// rectFunc is the common signature of the rect-based placements.
type rectFunc func(ed editor.Editor, rect geom.Rect, y int, b block.Block, replace editor.Replace) error

// registerPlacements installs the shape placement builtins. Each one
// returns nil; the effect is the blocks written into the session world.
func registerPlacements(env *zygo.Zlisp, s *session) {
	w := s.world

	// -----------------------------------------------------------------------
	// (cuboid (vec3 0 0 0) (vec3 4 4 4) "minecraft:stone" :replace "minecraft:air")
	// -----------------------------------------------------------------------
	cuboids := map[string]cuboidFunc{
		"cuboid":           shape.PlaceCuboid,
		"cuboid-hollow":    shape.PlaceCuboidHollow,
		"cuboid-wireframe": shape.PlaceCuboidWireframe,
	}
	for name, place := range cuboids {
		s.add(env, name, func(c call) error {
			if err := c.arity(3, 3); err != nil {
				return err
			}
			first, err := c.point(0, "first")
			if err != nil {
				return err
			}
			last, err := c.point(1, "last")
			if err != nil {
				return err
			}
			b, err := c.block(2, "block")
			if err != nil {
				return err
			}
			replace, err := c.replace()
			if err != nil {
				return err
			}
			return place(w, first, last, b, replace)
		})
	}

	// -----------------------------------------------------------------------
	// (place-box (box (vec3 0 0 0) (vec3 3 3 3)) "minecraft:stone")
	// -----------------------------------------------------------------------
	boxes := map[string]boxFunc{
		"place-box":           shape.PlaceBox,
		"place-box-hollow":    shape.PlaceBoxHollow,
		"place-box-wireframe": shape.PlaceBoxWireframe,
	}
	for name, place := range boxes {
		s.add(env, name, func(c call) error {
			if err := c.arity(2, 2); err != nil {
				return err
			}
			box, err := c.box(0)
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
			return place(w, box, b, replace)
		})
	}

	// -----------------------------------------------------------------------
	// (place-rect (rect (vec2 0 0) (vec2 5 5)) 64 "minecraft:stone")
	// -----------------------------------------------------------------------
	rects := map[string]rectFunc{
		"place-rect":         shape.PlaceRect,
		"place-rect-outline": shape.PlaceRectOutline,
	}
	for name, place := range rects {
		s.add(env, name, func(c call) error {
			if err := c.arity(3, 3); err != nil {
				return err
			}
			rect, err := c.rect(0)
			if err != nil {
				return err
			}
			y, err := c.integer(1, "y")
			if err != nil {
				return err
			}
			b, err := c.block(2, "block")
			if err != nil {
				return err
			}
			replace, err := c.replace()
			if err != nil {
				return err
			}
			return place(w, rect, y, b, replace)
		})
	}

	// -----------------------------------------------------------------------
	// (checkered-cuboid first last "minecraft:white_wool" "minecraft:black_wool")
	// (checkered-box box b1 [b2])
	// -----------------------------------------------------------------------
	s.add(env, "checkered-cuboid", func(c call) error {
		if err := c.arity(3, 4); err != nil {
			return err
		}
		first, err := c.point(0, "first")
		if err != nil {
			return err
		}
		last, err := c.point(1, "last")
		if err != nil {
			return err
		}
		b1, b2, replace, err := c.pattern(2)
		if err != nil {
			return err
		}
		return shape.PlaceCheckeredCuboid(w, first, last, b1, b2, replace)
	})
	s.add(env, "checkered-box", func(c call) error {
		if err := c.arity(2, 3); err != nil {
			return err
		}
		box, err := c.box(0)
		if err != nil {
			return err
		}
		b1, b2, replace, err := c.pattern(1)
		if err != nil {
			return err
		}
		return shape.PlaceCheckeredBox(w, box, b1, b2, replace)
	})

	// -----------------------------------------------------------------------
	// (striped-cuboid first last b1 [b2] :axis :x)
	// (striped-box box b1 [b2] :axis :z)
	// -----------------------------------------------------------------------
	s.add(env, "striped-cuboid", func(c call) error {
		if err := c.arity(3, 4); err != nil {
			return err
		}
		first, err := c.point(0, "first")
		if err != nil {
			return err
		}
		last, err := c.point(1, "last")
		if err != nil {
			return err
		}
		axis, err := c.axis(vec.AxisY)
		if err != nil {
			return err
		}
		b1, b2, replace, err := c.pattern(2)
		if err != nil {
			return err
		}
		return shape.PlaceStripedCuboid(w, first, last, axis, b1, b2, replace)
	})
	s.add(env, "striped-box", func(c call) error {
		if err := c.arity(2, 3); err != nil {
			return err
		}
		box, err := c.box(0)
		if err != nil {
			return err
		}
		axis, err := c.axis(vec.AxisY)
		if err != nil {
			return err
		}
		b1, b2, replace, err := c.pattern(1)
		if err != nil {
			return err
		}
		return shape.PlaceStripedBox(w, box, axis, b1, b2, replace)
	})

	// -----------------------------------------------------------------------
	// (line (vec3 0 0 0) (vec3 10 5 3) "minecraft:stone" :width 2)
	// -----------------------------------------------------------------------
	s.add(env, "line", func(c call) error {
		if err := c.arity(3, 3); err != nil {
			return err
		}
		first, err := c.point(0, "first")
		if err != nil {
			return err
		}
		last, err := c.point(1, "last")
		if err != nil {
			return err
		}
		b, err := c.block(2, "block")
		if err != nil {
			return err
		}
		width, err := c.intKW("width", 1)
		if err != nil {
			return err
		}
		replace, err := c.replace()
		if err != nil {
			return err
		}
		return shape.PlaceLine(w, first, last, b, width, replace)
	})

	// -----------------------------------------------------------------------
	// (line-sequence (list (vec3 0 0 0) (vec3 5 0 0) (vec3 5 0 5)) "minecraft:stone" :closed true)
	// -----------------------------------------------------------------------
	s.add(env, "line-sequence", func(c call) error {
		if err := c.arity(2, 2); err != nil {
			return err
		}
		pts, err := c.points(0)
		if err != nil {
			return err
		}
		b, err := c.block(1, "block")
		if err != nil {
			return err
		}
		closed, err := c.flag("closed")
		if err != nil {
			return err
		}
		replace, err := c.replace()
		if err != nil {
			return err
		}
		return shape.PlaceLineSequence(w, pts, b, closed, replace)
	})

	// -----------------------------------------------------------------------
	// (cylinder (vec3 0 64 0) (vec2 7 7) 10 "minecraft:stone" :axis :y :tube true)
	// (cylinder (vec3 0 64 0) 7 10 "minecraft:stone")
	// -----------------------------------------------------------------------
	s.add(env, "cylinder", func(c call) error {
		if err := c.arity(4, 4); err != nil {
			return err
		}
		base, err := c.point(0, "base center")
		if err != nil {
			return err
		}
		diameters, err := c.diameters(1)
		if err != nil {
			return err
		}
		length, err := c.integer(2, "length")
		if err != nil {
			return err
		}
		b, err := c.block(3, "block")
		if err != nil {
			return err
		}
		opts, err := c.cylinderOpts()
		if err != nil {
			return err
		}
		replace, err := c.replace()
		if err != nil {
			return err
		}
		return shape.PlaceCylinder(w, base, diameters, length, b, opts, replace)
	})

	// -----------------------------------------------------------------------
	// (fitting-cylinder (vec3 0 0 0) (vec3 6 10 6) "minecraft:stone" :hollow true)
	// -----------------------------------------------------------------------
	s.add(env, "fitting-cylinder", func(c call) error {
		if err := c.arity(3, 3); err != nil {
			return err
		}
		c1, err := c.point(0, "corner1")
		if err != nil {
			return err
		}
		c2, err := c.point(1, "corner2")
		if err != nil {
			return err
		}
		b, err := c.block(2, "block")
		if err != nil {
			return err
		}
		opts, err := c.cylinderOpts()
		if err != nil {
			return err
		}
		replace, err := c.replace()
		if err != nil {
			return err
		}
		return shape.PlaceFittingCylinder(w, c1, c2, b, opts, replace)
	})

	// -----------------------------------------------------------------------
	// (push-transform :translate (vec3 10 0 0) :rotate 1 :flip (list :x))
	// (pop-transform)
	// -----------------------------------------------------------------------
	s.add(env, "push-transform", func(c call) error {
		if err := c.arity(0, 0); err != nil {
			return err
		}
		var translation vec.Point
		if v, ok := c.kw["translate"]; ok {
			p, err := toPoint(v)
			if err != nil {
				return fmt.Errorf("push-transform: translate: %w", err)
			}
			translation = p
		}
		rotation, err := c.intKW("rotate", 0)
		if err != nil {
			return err
		}
		var flip vec.Bool3
		if v, ok := c.kw["flip"]; ok {
			if flip, err = toFlip(v); err != nil {
				return fmt.Errorf("push-transform: flip: %w", err)
			}
		}
		t := transform.New(translation, rotation, flip)
		s.restores = append(s.restores, w.PushTransform(t))
		s.logger.Debug("pushed transform", "transform", t, "depth", len(s.restores))
		return nil
	})
	s.add(env, "pop-transform", func(c call) error {
		if err := c.arity(0, 0); err != nil {
			return err
		}
		if len(s.restores) == 0 {
			return fmt.Errorf("pop-transform without a matching push-transform")
		}
		last := len(s.restores) - 1
		s.restores[last]()
		s.restores = s.restores[:last]
		return nil
	})

	// -----------------------------------------------------------------------
	// (global-point (vec3 1 0 0)) local to global under the current transform
	// (local-point (vec3 11 0 0)) global to local
	// (get-block (vec3 1 0 0))    the block at a local position
	// -----------------------------------------------------------------------
	lookups := map[string]func(p vec.Point) zygo.Sexp{
		"global-point": func(p vec.Point) zygo.Sexp { return &sexpPoint{p: w.Transform().Apply(p)} },
		"local-point":  func(p vec.Point) zygo.Sexp { return &sexpPoint{p: w.Transform().ApplyInverse(p)} },
		"get-block":    func(p vec.Point) zygo.Sexp { return &sexpBlock{b: w.GetBlock(p)} },
	}
	for name, fn := range lookups {
		env.AddFunction(symbolName(name), func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires 1 argument, got %d", name, len(args))
			}
			p, err := toPoint(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return fn(p), nil
		})
	}
}

// pattern reads the blocks of a two-block pattern starting at positional
// index i (the second block defaults to air) and the replace filter.
func (c call) pattern(i int) (b1, b2 block.Block, replace editor.Replace, err error) {
	if b1, err = c.block(i, "block1"); err != nil {
		return
	}
	if b2, err = c.optBlock(i+1, "block2"); err != nil {
		return
	}
	replace, err = c.replace()
	return
}

// toFlip reads a single axis or a list of axes to mirror.
func toFlip(s zygo.Sexp) (vec.Bool3, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		items = []zygo.Sexp{s}
	}
	var flip vec.Bool3
	for _, item := range items {
		a, err := toAxis(item)
		if err != nil {
			return vec.Bool3{}, err
		}
		switch a {
		case vec.AxisX:
			flip.X = true
		case vec.AxisY:
			flip.Y = true
		case vec.AxisZ:
			flip.Z = true
		}
	}
	return flip, nil
}
