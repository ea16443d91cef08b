package geom

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/chazu/blockshape/pkg/vec"
)

func sortedPoints(ps []vec.Point) []vec.Point {
	out := slices.Clone(ps)
	slices.SortFunc(out, func(a, b vec.Point) int {
		if a.X != b.X {
			return a.X - b.X
		}
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.Z - b.Z
	})
	return out
}

func assertUnique(t *testing.T, ps []vec.Point) {
	t.Helper()
	seen := make(map[vec.Point]bool, len(ps))
	for _, p := range ps {
		if seen[p] {
			t.Fatalf("point %v yielded twice", p)
		}
		seen[p] = true
	}
}

func boundsOf(ps []vec.Point) Box {
	var b Box
	for _, p := range ps {
		b = b.Union(Box{Offset: p, Size: vec.Splat(1)})
	}
	return b
}

// --- Box ---

func TestBetweenNormalizesCorners(t *testing.T) {
	got := Between(vec.P(3, -1, 2), vec.P(0, 4, 2))
	want := Box{Offset: vec.P(0, -1, 2), Size: vec.P(4, 6, 1)}
	if got != want {
		t.Errorf("Between = %v, want %v", got, want)
	}
	if got.Last() != vec.P(3, 4, 2) {
		t.Errorf("Last = %v", got.Last())
	}
}

func TestBoxSequences(t *testing.T) {
	tests := []struct {
		name      string
		size      vec.Point
		inner     int
		shell     int
		wireframe int
	}{
		{"cube 3", vec.P(3, 3, 3), 27, 26, 20},
		{"cube 4", vec.P(4, 4, 4), 64, 56, 32},
		{"flat", vec.P(3, 1, 3), 9, 9, 8},
		{"rod", vec.P(1, 1, 5), 5, 5, 5},
		{"single", vec.P(1, 1, 1), 1, 1, 1},
		{"zero", vec.P(3, 0, 3), 0, 0, 0},
		{"negative", vec.P(-2, 2, 2), 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Box{Offset: vec.P(-1, 5, 2), Size: tt.size}
			for _, c := range []struct {
				kind string
				pts  []vec.Point
				want int
			}{
				{"inner", Collect(b.Inner()), tt.inner},
				{"shell", Collect(b.Shell()), tt.shell},
				{"wireframe", Collect(b.Wireframe()), tt.wireframe},
			} {
				if len(c.pts) != c.want {
					t.Errorf("%s: %d points, want %d", c.kind, len(c.pts), c.want)
				}
				assertUnique(t, c.pts)
				for _, p := range c.pts {
					if !b.Contains(p) {
						t.Errorf("%s: %v outside %v", c.kind, p, b)
					}
				}
			}
		})
	}
}

func TestWireframeIsShellSubset(t *testing.T) {
	b := Box{Size: vec.P(4, 3, 5)}
	shell := make(map[vec.Point]bool)
	for p := range b.Shell() {
		shell[p] = true
	}
	for p := range b.Wireframe() {
		if !shell[p] {
			t.Errorf("wireframe point %v not in shell", p)
		}
	}
}

func TestSequenceRestartsAndStopsEarly(t *testing.T) {
	b := Box{Size: vec.P(2, 2, 2)}
	seq := b.Inner()
	if a, c := len(Collect(seq)), len(Collect(seq)); a != c || a != 8 {
		t.Errorf("two ranges gave %d and %d points", a, c)
	}
	n := 0
	for range seq {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("early break counted %d", n)
	}
}

func TestBoxUnion(t *testing.T) {
	a := Box{Offset: vec.P(0, 0, 0), Size: vec.P(1, 1, 1)}
	b := Box{Offset: vec.P(4, -2, 1), Size: vec.P(2, 1, 1)}
	want := Box{Offset: vec.P(0, -2, 0), Size: vec.P(6, 3, 2)}
	if got := a.Union(b); got != want {
		t.Errorf("Union = %v, want %v", got, want)
	}
	if got := (Box{}).Union(b); got != b {
		t.Errorf("empty Union = %v, want %v", got, b)
	}
}

// --- Rect ---

func TestRect(t *testing.T) {
	r := RectBetween(vec.P2(2, 3), vec.P2(0, 0))
	if want := (Rect{Offset: vec.P2(0, 0), Size: vec.P2(3, 4)}); r != want {
		t.Errorf("RectBetween = %v, want %v", r, want)
	}
	box := r.ToBox(7, 1)
	want := Box{Offset: vec.P(0, 7, 0), Size: vec.P(3, 1, 4)}
	if box != want {
		t.Errorf("ToBox = %v, want %v", box, want)
	}
}

// --- Lines ---

func TestLine3D(t *testing.T) {
	tests := []struct {
		name string
		a, b vec.Point
		want []vec.Point
	}{
		{"single", vec.P(1, 1, 1), vec.P(1, 1, 1), []vec.Point{vec.P(1, 1, 1)}},
		{"axis", vec.P(0, 0, 0), vec.P(0, 3, 0), []vec.Point{vec.P(0, 0, 0), vec.P(0, 1, 0), vec.P(0, 2, 0), vec.P(0, 3, 0)}},
		{"diagonal", vec.P(0, 0, 0), vec.P(2, -2, 2), []vec.Point{vec.P(0, 0, 0), vec.P(1, -1, 1), vec.P(2, -2, 2)}},
		{"reverse", vec.P(3, 0, 0), vec.P(0, 0, 0), []vec.Point{vec.P(3, 0, 0), vec.P(2, 0, 0), vec.P(1, 0, 0), vec.P(0, 0, 0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Collect(Line3D(tt.a, tt.b, 1))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Line3D mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLine3DIsConnected(t *testing.T) {
	a, b := vec.P(-3, 7, 2), vec.P(11, -2, 5)
	pts := Collect(Line3D(a, b, 1))
	if pts[0] != a || pts[len(pts)-1] != b {
		t.Fatalf("endpoints = %v, %v", pts[0], pts[len(pts)-1])
	}
	if len(pts) != 15 {
		t.Errorf("len = %d, want 15 (one per step on the dominant axis)", len(pts))
	}
	for i := 1; i < len(pts); i++ {
		d := pts[i].Sub(pts[i-1]).Abs()
		if d.X > 1 || d.Y > 1 || d.Z > 1 {
			t.Fatalf("gap between %v and %v", pts[i-1], pts[i])
		}
	}
}

func TestLine3DWidth(t *testing.T) {
	if n := len(Collect(Line3D(vec.P(0, 0, 0), vec.P(5, 0, 0), 0))); n != 0 {
		t.Errorf("width 0 yielded %d points", n)
	}
	pts := Collect(Line3D(vec.P(0, 0, 0), vec.P(3, 0, 0), 2))
	assertUnique(t, pts)
	want := Box{Offset: vec.P(0, 0, 0), Size: vec.P(5, 2, 2)}
	if got := boundsOf(pts); got != want {
		t.Errorf("width 2 bounds = %v, want %v", got, want)
	}
	if len(pts) != want.Volume() {
		t.Errorf("width 2 yielded %d points, want %d", len(pts), want.Volume())
	}
	pts = Collect(Line3D(vec.P(0, 0, 0), vec.P(0, 0, 0), 3))
	if got := boundsOf(pts); got != Between(vec.P(-1, -1, -1), vec.P(1, 1, 1)) {
		t.Errorf("width 3 bounds = %v", got)
	}
}

func TestLineSequence3D(t *testing.T) {
	square := []vec.Point{vec.P(0, 0, 0), vec.P(3, 0, 0), vec.P(3, 0, 3), vec.P(0, 0, 3)}

	open := Collect(LineSequence3D(square, false))
	assertUnique(t, open)
	if len(open) != 10 {
		t.Errorf("open sequence yielded %d points, want 10", len(open))
	}

	closed := Collect(LineSequence3D(square, true))
	assertUnique(t, closed)
	if len(closed) != 12 {
		t.Errorf("closed sequence yielded %d points, want 12", len(closed))
	}
	// A one-high wireframe is the square's outline.
	want := sortedPoints(Collect(Box{Size: vec.P(4, 1, 4)}.Wireframe()))
	if diff := cmp.Diff(want, sortedPoints(closed)); diff != "" {
		t.Errorf("closed square mismatch (-want +got):\n%s", diff)
	}

	if got := Collect(LineSequence3D(square[:1], true)); len(got) != 1 || got[0] != square[0] {
		t.Errorf("single point sequence = %v", got)
	}
	if got := Collect(LineSequence3D(nil, true)); len(got) != 0 {
		t.Errorf("empty sequence = %v", got)
	}
}

// --- Ellipse / cylinder ---

func TestEllipseRows(t *testing.T) {
	rows := map[int]int{}
	for p := range Ellipse(vec.P2(10, 10), vec.P2(5, 5), true) {
		rows[p.Y]++
	}
	want := map[int]int{8: 3, 9: 5, 10: 5, 11: 5, 12: 3}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("row widths mismatch (-want +got):\n%s", diff)
	}
	if n := len(Collect2(Ellipse(vec.P2(10, 10), vec.P2(5, 5), false))); n != 12 {
		t.Errorf("outline has %d cells, want 12", n)
	}
}

func TestEllipseExtent(t *testing.T) {
	for dx := 1; dx <= 9; dx++ {
		for dy := 1; dy <= 9; dy++ {
			c := vec.P2(-4, 6)
			lo := c.Sub(vec.P2((dx-1)/2, (dy-1)/2))
			hi := lo.Add(vec.P2(dx-1, dy-1))
			gotLo, gotHi := vec.P2(1<<30, 1<<30), vec.P2(-1<<30, -1<<30)
			for p := range Ellipse(c, vec.P2(dx, dy), false) {
				gotLo, gotHi = gotLo.Min(p), gotHi.Max(p)
			}
			if gotLo != lo || gotHi != hi {
				t.Errorf("%dx%d: extent %v..%v, want %v..%v", dx, dy, gotLo, gotHi, lo, hi)
			}
		}
	}
}

func TestCylinderStyles(t *testing.T) {
	base := vec.P(0, 64, 0)
	d := vec.P2(5, 5)
	solid := Collect(Cylinder(base, d, 4, CylinderOpts{Axis: vec.AxisY}))
	tube := Collect(Cylinder(base, d, 4, CylinderOpts{Axis: vec.AxisY, Tube: true}))
	hollow := Collect(Cylinder(base, d, 4, CylinderOpts{Axis: vec.AxisY, Hollow: true}))
	both := Collect(Cylinder(base, d, 4, CylinderOpts{Axis: vec.AxisY, Tube: true, Hollow: true}))

	if len(solid) != 4*21 {
		t.Errorf("solid = %d, want %d", len(solid), 4*21)
	}
	if len(tube) != 4*12 {
		t.Errorf("tube = %d, want %d", len(tube), 4*12)
	}
	if len(hollow) != 2*21+2*12 {
		t.Errorf("hollow = %d, want %d", len(hollow), 2*21+2*12)
	}
	if len(both) != len(tube) {
		t.Errorf("tube should win over hollow: %d vs %d", len(both), len(tube))
	}
	for _, pts := range [][]vec.Point{solid, tube, hollow} {
		assertUnique(t, pts)
	}
	want := Box{Offset: vec.P(-2, 64, -2), Size: vec.P(5, 4, 5)}
	if got := boundsOf(solid); got != want {
		t.Errorf("bounds = %v, want %v", got, want)
	}
	if n := len(Collect(Cylinder(base, d, 0, CylinderOpts{Axis: vec.AxisY}))); n != 0 {
		t.Errorf("zero length yielded %d", n)
	}
}

func TestCylinderAxes(t *testing.T) {
	for _, axis := range []vec.Axis{vec.AxisX, vec.AxisY, vec.AxisZ} {
		t.Run(axis.String(), func(t *testing.T) {
			pts := Collect(Cylinder(vec.P(0, 0, 0), vec.P2(3, 5), 6, CylinderOpts{Axis: axis}))
			b := boundsOf(pts)
			if b.Size.Get(axis) != 6 || b.Offset.Get(axis) != 0 {
				t.Errorf("axis extent = %d from %d", b.Size.Get(axis), b.Offset.Get(axis))
			}
			if got := vec.DropDimension(b.Size, axis); got != vec.P2(3, 5) {
				t.Errorf("plane size = %v, want (3, 5)", got)
			}
		})
	}
}

func TestFittingCylinderBounds(t *testing.T) {
	tests := []struct {
		name   string
		c1, c2 vec.Point
		opts   CylinderOpts
	}{
		{"y", vec.P(0, 0, 0), vec.P(4, 9, 4), CylinderOpts{Axis: vec.AxisY}},
		{"x even", vec.P(10, 3, -6), vec.P(2, 8, -1), CylinderOpts{Axis: vec.AxisX}},
		{"z hollow", vec.P(-5, -5, -5), vec.P(1, 2, 3), CylinderOpts{Axis: vec.AxisZ, Hollow: true}},
		{"thin tube", vec.P(0, 0, 0), vec.P(1, 5, 0), CylinderOpts{Axis: vec.AxisY, Tube: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := Collect(FittingCylinder(tt.c1, tt.c2, tt.opts))
			assertUnique(t, pts)
			if got, want := boundsOf(pts), Between(tt.c1, tt.c2); got != want {
				t.Errorf("bounds = %v, want %v", got, want)
			}
		})
	}
}
