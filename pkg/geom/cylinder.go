package geom

import (
	"iter"
	"math"

	"github.com/chazu/blockshape/pkg/vec"
)

// Ellipse yields the cells of an axis-aligned ellipse with the given
// diameters centred on center. Along each axis the cells span
// [c-(d-1)/2, c-(d-1)/2+d-1], and every row and column of that span holds at
// least one cell. Unfilled ellipses keep only the cells with a 4-neighbour
// outside the filled set.
func Ellipse(center, diameters vec.Point2, filled bool) iter.Seq[vec.Point2] {
	return func(yield func(vec.Point2) bool) {
		mask := ellipseMask(diameters.X, diameters.Y)
		if mask == nil {
			return
		}
		origin := center.Sub(vec.P2((diameters.X-1)/2, (diameters.Y-1)/2))
		for i := range mask {
			for j := range mask[i] {
				if !mask[i][j] {
					continue
				}
				if !filled && !maskEdge(mask, i, j) {
					continue
				}
				if !yield(origin.Add(vec.P2(i, j))) {
					return
				}
			}
		}
	}
}

// ellipseMask rasterizes a dx by dy ellipse into a grid indexed [i][j]. A
// cell is in when its centre lies within the row half-width, measured at
// the row edge nearest the centre and never narrower than one cell.
func ellipseMask(dx, dy int) [][]bool {
	if dx <= 0 || dy <= 0 {
		return nil
	}
	rx, ry := float64(dx)/2, float64(dy)/2
	mask := make([][]bool, dx)
	for i := range mask {
		mask[i] = make([]bool, dy)
	}
	for j := 0; j < dy; j++ {
		yn := math.Max(0, math.Abs(float64(j)+0.5-ry)-0.5)
		hw := rx * math.Sqrt(math.Max(0, 1-(yn/ry)*(yn/ry)))
		hw = math.Max(hw, 1)
		for i := 0; i < dx; i++ {
			if math.Abs(float64(i)+0.5-rx) < hw {
				mask[i][j] = true
			}
		}
	}
	return mask
}

func maskEdge(mask [][]bool, i, j int) bool {
	in := func(i, j int) bool {
		return i >= 0 && i < len(mask) && j >= 0 && j < len(mask[i]) && mask[i][j]
	}
	return !in(i-1, j) || !in(i+1, j) || !in(i, j-1) || !in(i, j+1)
}

// CylinderOpts selects the extrusion axis and the fill style of a cylinder.
type CylinderOpts struct {
	Axis vec.Axis `json:"axis"`
	// Tube draws the outline on every layer and leaves the ends open.
	Tube bool `json:"tube"`
	// Hollow fills the first and last layers and draws the outline in
	// between. Tube takes precedence.
	Hollow bool `json:"hollow"`
}

// Cylinder yields an elliptic cylinder whose base ellipse is centred on
// baseCenter and which extends length blocks along opts.Axis. The ellipse
// lies in the plane of the two remaining axes, in order.
func Cylinder(baseCenter vec.Point, diameters vec.Point2, length int, opts CylinderOpts) iter.Seq[vec.Point] {
	return func(yield func(vec.Point) bool) {
		if length <= 0 || diameters.X <= 0 || diameters.Y <= 0 {
			return
		}
		axis := opts.Axis
		plane := vec.DropDimension(baseCenter, axis)
		start := baseCenter.Get(axis)
		filled := Collect2(Ellipse(plane, diameters, true))
		outline := Collect2(Ellipse(plane, diameters, false))
		for k := 0; k < length; k++ {
			layer := filled
			switch {
			case opts.Tube:
				layer = outline
			case opts.Hollow && k > 0 && k < length-1:
				layer = outline
			}
			for _, q := range layer {
				if !yield(vec.AddDimension(q, axis, start+k)) {
					return
				}
			}
		}
	}
}

// FittingCylinder yields the cylinder along opts.Axis whose bounding box is
// exactly Between(c1, c2).
func FittingCylinder(c1, c2 vec.Point, opts CylinderOpts) iter.Seq[vec.Point] {
	box := Between(c1, c2)
	axis := opts.Axis
	diameters := vec.DropDimension(box.Size, axis)
	offset := vec.DropDimension(box.Offset, axis)
	center := offset.Add(vec.P2((diameters.X-1)/2, (diameters.Y-1)/2))
	base := vec.AddDimension(center, axis, box.Offset.Get(axis))
	return Cylinder(base, diameters, box.Size.Get(axis), opts)
}

// Collect2 drains a 2D point sequence into a slice.
func Collect2(seq iter.Seq[vec.Point2]) []vec.Point2 {
	var out []vec.Point2
	for p := range seq {
		out = append(out, p)
	}
	return out
}
