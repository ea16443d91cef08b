package geom

import (
	"iter"

	"github.com/chazu/blockshape/pkg/vec"
)

// Line3D yields the points of a 3D Bresenham line from a to b, both ends
// included. A width above one thickens every raster point into a cube of
// that side; a width below one yields nothing.
func Line3D(a, b vec.Point, width int) iter.Seq[vec.Point] {
	if width <= 1 {
		return func(yield func(vec.Point) bool) {
			if width < 1 {
				return
			}
			bresenham(a, b, yield)
		}
	}
	lo, hi := -(width-1)/2, width/2
	return func(yield func(vec.Point) bool) {
		seen := make(map[vec.Point]struct{})
		bresenham(a, b, func(p vec.Point) bool {
			for dx := lo; dx <= hi; dx++ {
				for dy := lo; dy <= hi; dy++ {
					for dz := lo; dz <= hi; dz++ {
						q := vec.Point{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
						if _, ok := seen[q]; ok {
							continue
						}
						seen[q] = struct{}{}
						if !yield(q) {
							return false
						}
					}
				}
			}
			return true
		})
	}
}

// bresenham walks the dominant axis one step at a time and accumulates the
// error terms of the other two.
func bresenham(a, b vec.Point, yield func(vec.Point) bool) bool {
	d := b.Sub(a).Abs()
	s := vec.Point{X: sign(b.X - a.X), Y: sign(b.Y - a.Y), Z: sign(b.Z - a.Z)}
	p := a
	if !yield(p) {
		return false
	}
	switch {
	case d.X >= d.Y && d.X >= d.Z:
		e1, e2 := 2*d.Y-d.X, 2*d.Z-d.X
		for p.X != b.X {
			p.X += s.X
			if e1 >= 0 {
				p.Y += s.Y
				e1 -= 2 * d.X
			}
			if e2 >= 0 {
				p.Z += s.Z
				e2 -= 2 * d.X
			}
			e1 += 2 * d.Y
			e2 += 2 * d.Z
			if !yield(p) {
				return false
			}
		}
	case d.Y >= d.X && d.Y >= d.Z:
		e1, e2 := 2*d.X-d.Y, 2*d.Z-d.Y
		for p.Y != b.Y {
			p.Y += s.Y
			if e1 >= 0 {
				p.X += s.X
				e1 -= 2 * d.Y
			}
			if e2 >= 0 {
				p.Z += s.Z
				e2 -= 2 * d.Y
			}
			e1 += 2 * d.X
			e2 += 2 * d.Z
			if !yield(p) {
				return false
			}
		}
	default:
		e1, e2 := 2*d.Y-d.Z, 2*d.X-d.Z
		for p.Z != b.Z {
			p.Z += s.Z
			if e1 >= 0 {
				p.Y += s.Y
				e1 -= 2 * d.Z
			}
			if e2 >= 0 {
				p.X += s.X
				e2 -= 2 * d.Z
			}
			e1 += 2 * d.Y
			e2 += 2 * d.X
			if !yield(p) {
				return false
			}
		}
	}
	return true
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// LineSequence3D yields the lines between consecutive points. Shared joints
// are yielded once. When closed is set the last point is joined back to the
// first.
func LineSequence3D(points []vec.Point, closed bool) iter.Seq[vec.Point] {
	return func(yield func(vec.Point) bool) {
		switch len(points) {
		case 0:
			return
		case 1:
			yield(points[0])
			return
		}
		seen := make(map[vec.Point]struct{})
		emit := func(p vec.Point) bool {
			if _, ok := seen[p]; ok {
				return true
			}
			seen[p] = struct{}{}
			return yield(p)
		}
		for i := 0; i+1 < len(points); i++ {
			if !bresenham(points[i], points[i+1], emit) {
				return
			}
		}
		if closed {
			bresenham(points[len(points)-1], points[0], emit)
		}
	}
}
