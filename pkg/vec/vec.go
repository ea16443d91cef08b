// Package vec defines the integer vector types used for block coordinates.
package vec

import "fmt"

// Axis selects one component of a Point.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Valid reports whether a is one of AxisX, AxisY or AxisZ.
func (a Axis) Valid() bool {
	return a >= AxisX && a <= AxisZ
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// ParseAxis converts "x", "y" or "z" (or "0", "1", "2") to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "x", "0":
		return AxisX, nil
	case "y", "1":
		return AxisY, nil
	case "z", "2":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("invalid axis %q, expected x, y, or z", s)
}

// Point is a block position. Y points up.
type Point struct {
	X, Y, Z int
}

// P is shorthand for Point{x, y, z}.
func P(x, y, z int) Point {
	return Point{X: x, Y: y, Z: z}
}

// Splat returns a Point with all components set to v.
func Splat(v int) Point {
	return Point{v, v, v}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y, p.Z + q.Z}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// Neg returns -p.
func (p Point) Neg() Point {
	return Point{-p.X, -p.Y, -p.Z}
}

// Scale multiplies every component by s.
func (p Point) Scale(s int) Point {
	return Point{p.X * s, p.Y * s, p.Z * s}
}

// Mul multiplies p and q component-wise.
func (p Point) Mul(q Point) Point {
	return Point{p.X * q.X, p.Y * q.Y, p.Z * q.Z}
}

// Min returns the component-wise minimum of p and q.
func (p Point) Min(q Point) Point {
	return Point{min(p.X, q.X), min(p.Y, q.Y), min(p.Z, q.Z)}
}

// Max returns the component-wise maximum of p and q.
func (p Point) Max(q Point) Point {
	return Point{max(p.X, q.X), max(p.Y, q.Y), max(p.Z, q.Z)}
}

// Abs returns the component-wise absolute value.
func (p Point) Abs() Point {
	return Point{abs(p.X), abs(p.Y), abs(p.Z)}
}

// Sum returns X+Y+Z.
func (p Point) Sum() int {
	return p.X + p.Y + p.Z
}

// Get returns the component selected by a. It panics on an invalid axis.
func (p Point) Get(a Axis) int {
	switch a {
	case AxisX:
		return p.X
	case AxisY:
		return p.Y
	case AxisZ:
		return p.Z
	}
	panic(fmt.Sprintf("vec: invalid axis %d", int(a)))
}

// With returns a copy of p with the component selected by a set to v.
// It panics on an invalid axis.
func (p Point) With(a Axis, v int) Point {
	switch a {
	case AxisX:
		p.X = v
	case AxisY:
		p.Y = v
	case AxisZ:
		p.Z = v
	default:
		panic(fmt.Sprintf("vec: invalid axis %d", int(a)))
	}
	return p
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}

// Point2 is a 2D integer vector. For horizontal shapes X is world X and Y
// is world Z.
type Point2 struct {
	X, Y int
}

// P2 is shorthand for Point2{x, y}.
func P2(x, y int) Point2 {
	return Point2{X: x, Y: y}
}

// Add returns p+q.
func (p Point2) Add(q Point2) Point2 {
	return Point2{p.X + q.X, p.Y + q.Y}
}

// Sub returns p-q.
func (p Point2) Sub(q Point2) Point2 {
	return Point2{p.X - q.X, p.Y - q.Y}
}

// Min returns the component-wise minimum of p and q.
func (p Point2) Min(q Point2) Point2 {
	return Point2{min(p.X, q.X), min(p.Y, q.Y)}
}

// Max returns the component-wise maximum of p and q.
func (p Point2) Max(q Point2) Point2 {
	return Point2{max(p.X, q.X), max(p.Y, q.Y)}
}

// Abs returns the component-wise absolute value.
func (p Point2) Abs() Point2 {
	return Point2{abs(p.X), abs(p.Y)}
}

func (p Point2) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// DropDimension removes the component selected by a, keeping the other two
// in order.
func DropDimension(p Point, a Axis) Point2 {
	switch a {
	case AxisX:
		return Point2{p.Y, p.Z}
	case AxisY:
		return Point2{p.X, p.Z}
	case AxisZ:
		return Point2{p.X, p.Y}
	}
	panic(fmt.Sprintf("vec: invalid axis %d", int(a)))
}

// AddDimension is the inverse of DropDimension: it inserts v as the
// component selected by a.
func AddDimension(p Point2, a Axis, v int) Point {
	switch a {
	case AxisX:
		return Point{v, p.X, p.Y}
	case AxisY:
		return Point{p.X, v, p.Y}
	case AxisZ:
		return Point{p.X, p.Y, v}
	}
	panic(fmt.Sprintf("vec: invalid axis %d", int(a)))
}

// Bool3 holds one flag per axis. It is used for flips.
type Bool3 struct {
	X, Y, Z bool
}

// Xor returns the component-wise exclusive or of b and c.
func (b Bool3) Xor(c Bool3) Bool3 {
	return Bool3{b.X != c.X, b.Y != c.Y, b.Z != c.Z}
}

// Any reports whether any flag is set.
func (b Bool3) Any() bool {
	return b.X || b.Y || b.Z
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
