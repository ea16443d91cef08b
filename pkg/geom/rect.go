package geom

import (
	"fmt"

	"github.com/chazu/blockshape/pkg/vec"
)

// Rect is an axis-aligned rectangle in the XZ plane. Offset.X and Offset.Y
// hold the world X and Z coordinates.
type Rect struct {
	Offset vec.Point2 `json:"offset"`
	Size   vec.Point2 `json:"size"`
}

// RectBetween returns the smallest rectangle containing both corners.
func RectBetween(a, b vec.Point2) Rect {
	lo := a.Min(b)
	return Rect{Offset: lo, Size: a.Max(b).Sub(lo).Add(vec.P2(1, 1))}
}

// ToBox lifts the rectangle into a box starting at height y.
func (r Rect) ToBox(y, height int) Box {
	return Box{
		Offset: vec.AddDimension(r.Offset, vec.AxisY, y),
		Size:   vec.AddDimension(r.Size, vec.AxisY, height),
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect(offset=%v, size=%v)", r.Offset, r.Size)
}
