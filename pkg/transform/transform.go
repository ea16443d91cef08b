// Package transform implements the rigid block-grid transforms an editor
// applies to placements: a flip, a clockwise quarter-turn rotation about
// the Y axis, and a translation, applied in that order.
package transform

import (
	"fmt"

	"github.com/chazu/blockshape/pkg/vec"
)

// Transform maps local points to global points.
type Transform struct {
	Translation vec.Point `json:"translation"`
	Rotation    int       `json:"rotation"` // clockwise quarter turns seen from +Y, 0..3 once normalized
	Flip        vec.Bool3 `json:"flip"`
}

// Identity leaves every point unchanged.
var Identity = Transform{}

// New returns a normalized transform.
func New(translation vec.Point, rotation int, flip vec.Bool3) Transform {
	return Transform{Translation: translation, Rotation: normRotation(rotation), Flip: flip}
}

// Translate returns a pure translation.
func Translate(offset vec.Point) Transform {
	return Transform{Translation: offset}
}

// Apply maps p through t: flip, rotate, then translate.
func (t Transform) Apply(p vec.Point) vec.Point {
	return t.applyLinear(p).Add(t.Translation)
}

// ApplyInverse maps a global point back to local space.
func (t Transform) ApplyInverse(p vec.Point) vec.Point {
	return t.Inverse().Apply(p)
}

func (t Transform) applyLinear(p vec.Point) vec.Point {
	if t.Flip.X {
		p.X = -p.X
	}
	if t.Flip.Y {
		p.Y = -p.Y
	}
	if t.Flip.Z {
		p.Z = -p.Z
	}
	return RotateXZ(p, t.Rotation)
}

// Compose returns t∘o: the transform that applies o first and then t.
func (t Transform) Compose(o Transform) Transform {
	r := o.Rotation
	if t.Flip.X != t.Flip.Z {
		// A mirror in the XZ plane reverses the sense of rotation.
		r = -r
	}
	return Transform{
		Translation: t.Apply(o.Translation),
		Rotation:    normRotation(t.Rotation + r),
		Flip:        t.Flip.Xor(o.Flip),
	}
}

// Inverse returns the transform that undoes t.
func (t Transform) Inverse() Transform {
	r := -t.Rotation
	if t.Flip.X != t.Flip.Z {
		r = t.Rotation
	}
	inv := Transform{Rotation: normRotation(r), Flip: t.Flip}
	inv.Translation = inv.applyLinear(t.Translation).Neg()
	return inv
}

// IsIdentity reports whether t leaves every point unchanged.
func (t Transform) IsIdentity() bool {
	return t.Translation == (vec.Point{}) && normRotation(t.Rotation) == 0 && !t.Flip.Any()
}

func (t Transform) String() string {
	return fmt.Sprintf("Transform(translation=%v, rotation=%d, flip=%+v)", t.Translation, t.Rotation, t.Flip)
}

// RotateXZ rotates p clockwise (seen from +Y) by rotation quarter turns
// about the Y axis. North (-Z) turns into east (+X).
func RotateXZ(p vec.Point, rotation int) vec.Point {
	switch normRotation(rotation) {
	case 1:
		return vec.Point{X: -p.Z, Y: p.Y, Z: p.X}
	case 2:
		return vec.Point{X: -p.X, Y: p.Y, Z: -p.Z}
	case 3:
		return vec.Point{X: p.Z, Y: p.Y, Z: -p.X}
	}
	return p
}

func normRotation(r int) int {
	return ((r % 4) + 4) % 4
}
