package sdfx

import (
	"math"
	"testing"

	"github.com/chazu/blockshape/pkg/kernel"
	"github.com/chazu/blockshape/pkg/vec"
)

func voxels(s kernel.Solid) map[vec.Point]bool {
	set := make(map[vec.Point]bool)
	for p := range kernel.Voxelize(s) {
		set[p] = true
	}
	return set
}

func assertBounds(t *testing.T, s kernel.Solid, wantMin, wantMax [3]float64) {
	t.Helper()
	const tol = 0.01
	min, max := s.BoundingBox()
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-wantMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], wantMin[i])
		}
		if math.Abs(max[i]-wantMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], wantMax[i])
		}
	}
}

func TestBox(t *testing.T) {
	k := New()
	box := k.Box(4, 3, 2)
	assertBounds(t, box, [3]float64{0, 0, 0}, [3]float64{4, 3, 2})

	set := voxels(box)
	if len(set) != 24 {
		t.Fatalf("voxel count = %d, want 24", len(set))
	}
	for _, p := range []vec.Point{vec.P(0, 0, 0), vec.P(3, 2, 1)} {
		if !set[p] {
			t.Errorf("corner %v missing", p)
		}
	}
	if !box.Contains(2, 1.5, 1) || box.Contains(5, 1, 1) {
		t.Error("Contains disagrees with the box extent")
	}
}

func TestSphere(t *testing.T) {
	k := New()
	ball := k.Translate(k.Sphere(3), 0.5, 0.5, 0.5)
	set := voxels(ball)
	if len(set) == 0 {
		t.Fatal("sphere produced no voxels")
	}
	for p := range set {
		for _, m := range []vec.Point{vec.P(-p.X, p.Y, p.Z), vec.P(p.X, -p.Y, p.Z), vec.P(p.X, p.Y, -p.Z)} {
			if !set[m] {
				t.Fatalf("%v present but mirror %v missing", p, m)
			}
		}
	}
	if !set[vec.P(0, 0, 0)] || !set[vec.P(2, 0, 0)] || set[vec.P(3, 3, 0)] {
		t.Errorf("unexpected sphere membership (%d voxels)", len(set))
	}
}

func TestCylinder(t *testing.T) {
	k := New()
	cyl := k.Cylinder(10, 2)
	assertBounds(t, cyl, [3]float64{-2, -2, -5}, [3]float64{2, 2, 5})
	if !cyl.Contains(0, 0, 4.5) || cyl.Contains(1.9, 1.9, 0) {
		t.Error("Contains disagrees with the cylinder extent")
	}
}

func TestDifference(t *testing.T) {
	k := New()
	box := k.Box(5, 5, 5)
	hole := k.Translate(k.Cylinder(20, 1), 2.5, 2.5, 0)
	diff := k.Difference(box, hole)

	full, cut := voxels(box), voxels(diff)
	if len(cut) >= len(full) {
		t.Fatalf("difference has %d voxels, box has %d", len(cut), len(full))
	}
	if cut[vec.P(2, 2, 2)] {
		t.Error("centre column should be removed")
	}
	if !cut[vec.P(0, 0, 2)] {
		t.Error("corner column should remain")
	}
}

func TestUnionAndIntersection(t *testing.T) {
	k := New()
	a := k.Box(4, 1, 1)
	b := k.Translate(k.Box(4, 1, 1), 2, 0, 0)

	if n := len(voxels(k.Union(a, b))); n != 6 {
		t.Errorf("union voxels = %d, want 6", n)
	}
	inter := voxels(k.Intersection(a, b))
	if len(inter) != 2 || !inter[vec.P(2, 0, 0)] || !inter[vec.P(3, 0, 0)] {
		t.Errorf("intersection voxels = %v", inter)
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	moved := k.Translate(k.Box(1, 1, 1), 100, 200, 300)
	assertBounds(t, moved, [3]float64{100, 200, 300}, [3]float64{101, 201, 301})
	set := voxels(moved)
	if len(set) != 1 || !set[vec.P(100, 200, 300)] {
		t.Errorf("translated unit box voxels = %v", set)
	}
}

func TestRotate(t *testing.T) {
	k := New()
	box := k.Box(100, 10, 10)

	// A long box along X rotated 90 degrees around Z should extend along Y instead.
	rotated := k.Rotate(box, 0, 0, 90)
	min, max := rotated.BoundingBox()

	xExtent := max[0] - min[0]
	yExtent := max[1] - min[1]

	const tol = 1.0
	if math.Abs(xExtent-10) > tol {
		t.Errorf("rotated X extent = %f, expected ~10", xExtent)
	}
	if math.Abs(yExtent-100) > tol {
		t.Errorf("rotated Y extent = %f, expected ~100", yExtent)
	}
}
