// Package kernel defines the abstract solid-modeling kernel used to build
// freeform shapes, and the voxelizer that turns its solids into block
// positions. Backends (sdfx) provide primitives and boolean operations
// behind the Kernel interface, so the rest of the system never depends on a
// particular geometry library.
package kernel

import (
	"iter"
	"math"

	"github.com/chazu/blockshape/pkg/vec"
)

// Solid is an opaque handle to a kernel solid. Coordinates are in blocks:
// the unit cube [x, x+1) x [y, y+1) x [z, z+1) is the block at (x, y, z).
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
	// Contains reports whether the point lies inside or on the surface.
	Contains(x, y, z float64) bool
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid // minimum corner at the origin
	Cylinder(height, radius float64) Solid
	Sphere(radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees
}

// Voxelize yields the position of every block whose centre lies inside s.
// Only the cells overlapping the bounding box are sampled.
func Voxelize(s Solid) iter.Seq[vec.Point] {
	return func(yield func(vec.Point) bool) {
		lo, hi := cellRange(s)
		for x := lo.X; x < hi.X; x++ {
			for y := lo.Y; y < hi.Y; y++ {
				for z := lo.Z; z < hi.Z; z++ {
					if !s.Contains(float64(x)+0.5, float64(y)+0.5, float64(z)+0.5) {
						continue
					}
					if !yield(vec.Point{X: x, Y: y, Z: z}) {
						return
					}
				}
			}
		}
	}
}

// cellRange returns the half-open block range covering the bounding box.
func cellRange(s Solid) (lo, hi vec.Point) {
	mn, mx := s.BoundingBox()
	lo = vec.P(floor(mn[0]), floor(mn[1]), floor(mn[2]))
	hi = vec.P(ceil(mx[0]), ceil(mx[1]), ceil(mx[2]))
	return lo, hi
}

func floor(v float64) int { return int(math.Floor(v)) }
func ceil(v float64) int  { return int(math.Ceil(v)) }
