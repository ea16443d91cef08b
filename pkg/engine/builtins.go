package engine

import (
	"fmt"
	"math"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/blockshape/pkg/block"
	"github.com/chazu/blockshape/pkg/editor"
	"github.com/chazu/blockshape/pkg/geom"
	"github.com/chazu/blockshape/pkg/vec"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms blockshape Lisp source code before passing it
// to zygomys. It performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: place-box -> place_box
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator).
//
//  3. Line comments: ; and ;; become //, the zygomys comment syntax.
//
// All transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, kwPrefix...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Only a hyphen between identifier characters is part of a name;
		// anything else is the minus operator or a negative literal.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPoint wraps a vec.Point.
type sexpPoint struct {
	p vec.Point
}

func (v *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %d %d %d)", v.p.X, v.p.Y, v.p.Z)
}
func (v *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpPoint2 wraps a vec.Point2.
type sexpPoint2 struct {
	p vec.Point2
}

func (v *sexpPoint2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %d %d)", v.p.X, v.p.Y)
}
func (v *sexpPoint2) Type() *zygo.RegisteredType { return nil }

// sexpBlock wraps a block.Block.
type sexpBlock struct {
	b block.Block
}

func (b *sexpBlock) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(block %q)", b.b.String())
}
func (b *sexpBlock) Type() *zygo.RegisteredType { return nil }

// sexpBox wraps a geom.Box.
type sexpBox struct {
	box geom.Box
}

func (b *sexpBox) SexpString(ps *zygo.PrintState) string {
	o, s := b.box.Offset, b.box.Size
	return fmt.Sprintf("(box (vec3 %d %d %d) (vec3 %d %d %d))", o.X, o.Y, o.Z, s.X, s.Y, s.Z)
}
func (b *sexpBox) Type() *zygo.RegisteredType { return nil }

// sexpRect wraps a geom.Rect.
type sexpRect struct {
	rect geom.Rect
}

func (r *sexpRect) SexpString(ps *zygo.PrintState) string {
	o, s := r.rect.Offset, r.rect.Size
	return fmt.Sprintf("(rect (vec2 %d %d) (vec2 %d %d))", o.X, o.Y, s.X, s.Y)
}
func (r *sexpRect) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
// A keyword in last position has no value and is recorded as SexpNull,
// which the flag helpers read as true.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func describe(s zygo.Sexp) string {
	if s == nil {
		return "nil"
	}
	return fmt.Sprintf("%T (%s)", s, s.SexpString(nil))
}

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", describe(s))
}

// toInt extracts an integer. Floats are accepted when they hold a whole
// number.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected integer, got %g", v.Val)
	}
	return 0, fmt.Errorf("expected integer, got %s", describe(s))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %s", describe(s))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %s", describe(s))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toAxis converts a keyword, string or integer to a vec.Axis.
func toAxis(s zygo.Sexp) (vec.Axis, error) {
	if i, ok := s.(*zygo.SexpInt); ok {
		a := vec.Axis(i.Val)
		if !a.Valid() {
			return 0, fmt.Errorf("invalid axis %d, expected 0, 1 or 2", i.Val)
		}
		return a, nil
	}
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected axis keyword (:x, :y, :z): %w", err)
	}
	return vec.ParseAxis(name)
}

// toBool reads a flag value. A bare keyword (SexpNull) counts as set.
func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpInt:
		return v.Val != 0, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return true, nil
		}
	}
	return false, fmt.Errorf("expected true or false, got %s", describe(s))
}

// toPoint extracts a vec.Point from a sexpPoint or a 3-element list.
func toPoint(s zygo.Sexp) (vec.Point, error) {
	if v, ok := s.(*sexpPoint); ok {
		return v.p, nil
	}
	if items, err := sexpListToSlice(s); err == nil && len(items) == 3 {
		var c [3]int
		for i, item := range items {
			n, err := toInt(item)
			if err != nil {
				return vec.Point{}, fmt.Errorf("vec3 component %d: %w", i, err)
			}
			c[i] = n
		}
		return vec.P(c[0], c[1], c[2]), nil
	}
	return vec.Point{}, fmt.Errorf("expected vec3, got %s", describe(s))
}

// toPoint2 extracts a vec.Point2 from a sexpPoint2 or a 2-element list.
func toPoint2(s zygo.Sexp) (vec.Point2, error) {
	if v, ok := s.(*sexpPoint2); ok {
		return v.p, nil
	}
	if items, err := sexpListToSlice(s); err == nil && len(items) == 2 {
		x, err := toInt(items[0])
		if err != nil {
			return vec.Point2{}, fmt.Errorf("vec2 component 0: %w", err)
		}
		y, err := toInt(items[1])
		if err != nil {
			return vec.Point2{}, fmt.Errorf("vec2 component 1: %w", err)
		}
		return vec.P2(x, y), nil
	}
	return vec.Point2{}, fmt.Errorf("expected vec2, got %s", describe(s))
}

// toBlock extracts a block from a sexpBlock or a block string such as
// "minecraft:oak_log[axis=x]".
func toBlock(s zygo.Sexp) (block.Block, error) {
	switch v := s.(type) {
	case *sexpBlock:
		return v.b, nil
	case *zygo.SexpStr:
		if _, kw := isKW(v); kw {
			return block.Block{}, fmt.Errorf("expected block, got keyword :%s", strings.TrimPrefix(v.S, kwPrefix))
		}
		return block.Parse(v.S)
	}
	return block.Block{}, fmt.Errorf("expected block, got %s", describe(s))
}

// toBox extracts a geom.Box from a sexpBox.
func toBox(s zygo.Sexp) (geom.Box, error) {
	if b, ok := s.(*sexpBox); ok {
		return b.box, nil
	}
	return geom.Box{}, fmt.Errorf("expected box, got %s", describe(s))
}

// toRect extracts a geom.Rect from a sexpRect.
func toRect(s zygo.Sexp) (geom.Rect, error) {
	if r, ok := s.(*sexpRect); ok {
		return r.rect, nil
	}
	return geom.Rect{}, fmt.Errorf("expected rect, got %s", describe(s))
}

// toReplace reads a replace filter: a block id string or a list of them.
func toReplace(s zygo.Sexp) (editor.Replace, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return editor.ReplaceAny(str.S), nil
	}
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, fmt.Errorf("expected block id or list of block ids: %w", err)
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		id, err := toString(item)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return editor.ReplaceAny(ids...), nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Value builtins
// ---------------------------------------------------------------------------

// registerBuiltins installs the value constructors of the DSL: points,
// blocks, boxes and rects.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var c [3]int
		for i, axis := range []string{"x", "y", "z"} {
			n, err := toInt(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
			}
			c[i] = n
		}
		return &sexpPoint{p: vec.P(c[0], c[1], c[2])}, nil
	})

	// -----------------------------------------------------------------------
	// (vec2 x z)
	// -----------------------------------------------------------------------
	env.AddFunction("vec2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vec2 requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: x: %w", err)
		}
		y, err := toInt(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: y: %w", err)
		}
		return &sexpPoint2{p: vec.P2(x, y)}, nil
	})

	// -----------------------------------------------------------------------
	// (block "minecraft:oak_stairs" :facing "north" :half "top")
	// -----------------------------------------------------------------------
	env.AddFunction("block", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("block requires a block id")
		}
		id, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("block: id: %w", err)
		}
		b, err := block.Parse(id)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("block: %w", err)
		}
		for key, v := range pa.kw {
			val, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("block: %s: %w", key, err)
			}
			if key == "data" {
				b.Data = val
				continue
			}
			b = b.WithState(key, val)
		}
		return &sexpBlock{b: b}, nil
	})

	// -----------------------------------------------------------------------
	// (box (vec3 0 0 0) (vec3 4 3 4)) offset and size
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("box requires an offset and a size")
		}
		offset, err := toPoint(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: offset: %w", err)
		}
		size, err := toPoint(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
		}
		return &sexpBox{box: geom.Box{Offset: offset, Size: size}}, nil
	})

	// -----------------------------------------------------------------------
	// (box-between (vec3 4 0 4) (vec3 0 3 0)) the box spanning two corners
	// -----------------------------------------------------------------------
	env.AddFunction("box_between", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("box-between requires two corners")
		}
		a, err := toPoint(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box-between: corner 1: %w", err)
		}
		b, err := toPoint(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box-between: corner 2: %w", err)
		}
		return &sexpBox{box: geom.Between(a, b)}, nil
	})

	// -----------------------------------------------------------------------
	// (rect-between (vec2 4 4) (vec2 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("rect_between", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("rect-between requires two corners")
		}
		a, err := toPoint2(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rect-between: corner 1: %w", err)
		}
		b, err := toPoint2(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rect-between: corner 2: %w", err)
		}
		return &sexpRect{rect: geom.RectBetween(a, b)}, nil
	})

	// -----------------------------------------------------------------------
	// (rect (vec2 0 0) (vec2 5 5)) offset and size in the XZ plane
	// -----------------------------------------------------------------------
	env.AddFunction("rect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("rect requires an offset and a size")
		}
		offset, err := toPoint2(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rect: offset: %w", err)
		}
		size, err := toPoint2(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rect: size: %w", err)
		}
		return &sexpRect{rect: geom.Rect{Offset: offset, Size: size}}, nil
	})
}
