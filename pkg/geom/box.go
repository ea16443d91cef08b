// Package geom provides the integer geometry primitives used to enumerate
// block positions: boxes, rectangles, lines, ellipses and cylinders.
//
// Point sets are returned as iter.Seq values. They are finite and can be
// ranged over any number of times; each range re-runs the enumeration.
package geom

import (
	"fmt"
	"iter"

	"github.com/chazu/blockshape/pkg/vec"
)

// Box is an axis-aligned region of blocks starting at Offset and spanning
// Size blocks along each axis. A box with a non-positive size component is
// empty.
type Box struct {
	Offset vec.Point `json:"offset"`
	Size   vec.Point `json:"size"`
}

// Between returns the smallest box containing both corners (inclusive).
// The order of the corners does not matter.
func Between(a, b vec.Point) Box {
	lo := a.Min(b)
	return Box{Offset: lo, Size: a.Max(b).Sub(lo).Add(vec.Splat(1))}
}

// Begin returns the minimum corner.
func (b Box) Begin() vec.Point { return b.Offset }

// End returns Offset+Size, one past the maximum corner.
func (b Box) End() vec.Point { return b.Offset.Add(b.Size) }

// Last returns the maximum corner, End()-1. It is meaningless for an empty
// box.
func (b Box) Last() vec.Point { return b.End().Sub(vec.Splat(1)) }

// Empty reports whether the box holds no blocks.
func (b Box) Empty() bool {
	return b.Size.X <= 0 || b.Size.Y <= 0 || b.Size.Z <= 0
}

// Volume returns the number of blocks in the box.
func (b Box) Volume() int {
	if b.Empty() {
		return 0
	}
	return b.Size.X * b.Size.Y * b.Size.Z
}

// Contains reports whether p lies inside the box.
func (b Box) Contains(p vec.Point) bool {
	e := b.End()
	return p.X >= b.Offset.X && p.X < e.X &&
		p.Y >= b.Offset.Y && p.Y < e.Y &&
		p.Z >= b.Offset.Z && p.Z < e.Z
}

// Union returns the smallest box containing b and o. Empty boxes are
// ignored.
func (b Box) Union(o Box) Box {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	return Between(b.Offset.Min(o.Offset), b.Last().Max(o.Last()))
}

func (b Box) String() string {
	return fmt.Sprintf("Box(offset=%v, size=%v)", b.Offset, b.Size)
}

// Inner yields every point of the box.
func (b Box) Inner() iter.Seq[vec.Point] {
	return b.boundary(0)
}

// Shell yields the points with at least one coordinate on the box boundary:
// the hollow box with walls one block thick.
func (b Box) Shell() iter.Seq[vec.Point] {
	return b.boundary(1)
}

// Wireframe yields the points with at least two coordinates on the box
// boundary: the twelve edges.
func (b Box) Wireframe() iter.Seq[vec.Point] {
	return b.boundary(2)
}

// boundary yields the points that lie on the boundary along at least need
// axes. Only Z is scanned selectively, so each point is yielded once.
func (b Box) boundary(need int) iter.Seq[vec.Point] {
	return func(yield func(vec.Point) bool) {
		if b.Empty() {
			return
		}
		lo, hi := b.Offset, b.Last()
		for x := lo.X; x <= hi.X; x++ {
			bx := boolInt(x == lo.X || x == hi.X)
			for y := lo.Y; y <= hi.Y; y++ {
				onEdges := bx + boolInt(y == lo.Y || y == hi.Y)
				switch {
				case onEdges >= need:
					for z := lo.Z; z <= hi.Z; z++ {
						if !yield(vec.Point{X: x, Y: y, Z: z}) {
							return
						}
					}
				case onEdges+1 == need:
					if !yield(vec.Point{X: x, Y: y, Z: lo.Z}) {
						return
					}
					if hi.Z != lo.Z {
						if !yield(vec.Point{X: x, Y: y, Z: hi.Z}) {
							return
						}
					}
				}
			}
		}
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Collect drains a point sequence into a slice.
func Collect(seq iter.Seq[vec.Point]) []vec.Point {
	var out []vec.Point
	for p := range seq {
		out = append(out, p)
	}
	return out
}

// Points returns a sequence over a fixed slice of points.
func Points(ps ...vec.Point) iter.Seq[vec.Point] {
	return func(yield func(vec.Point) bool) {
		for _, p := range ps {
			if !yield(p) {
				return
			}
		}
	}
}
