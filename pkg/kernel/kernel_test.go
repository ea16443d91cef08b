package kernel

import (
	"math"
	"testing"

	"github.com/chazu/blockshape/pkg/vec"
)

// --- Mesh helper method tests ---

func TestMeshCounts(t *testing.T) {
	tests := []struct {
		name      string
		mesh      Mesh
		vertices  int
		triangles int
		empty     bool
	}{
		{"empty", Mesh{}, 0, 0, true},
		{"one vertex", Mesh{Vertices: []float32{1, 2, 3}}, 1, 0, false},
		{"two triangles", Mesh{Vertices: make([]float32, 12), Indices: []uint32{0, 1, 2, 2, 3, 0}}, 4, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mesh.VertexCount(); got != tt.vertices {
				t.Errorf("VertexCount() = %d, want %d", got, tt.vertices)
			}
			if got := tt.mesh.TriangleCount(); got != tt.triangles {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.triangles)
			}
			if got := tt.mesh.IsEmpty(); got != tt.empty {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.empty)
			}
		})
	}
}

func TestMeshAddQuad(t *testing.T) {
	var m Mesh
	up := [3]float32{0, 1, 0}
	m.AddQuad([3]float32{0, 1, 0}, [3]float32{0, 1, 1}, [3]float32{1, 1, 1}, [3]float32{1, 1, 0}, up)
	m.AddQuad([3]float32{0, 2, 0}, [3]float32{0, 2, 1}, [3]float32{1, 2, 1}, [3]float32{1, 2, 0}, up)
	if m.VertexCount() != 8 || m.TriangleCount() != 4 {
		t.Fatalf("got %d vertices, %d triangles", m.VertexCount(), m.TriangleCount())
	}
	if len(m.Normals) != len(m.Vertices) {
		t.Errorf("normals length %d != vertices length %d", len(m.Normals), len(m.Vertices))
	}
	want := []uint32{4, 5, 6, 6, 7, 4}
	for i, idx := range m.Indices[6:] {
		if idx != want[i] {
			t.Fatalf("second quad indices = %v, want %v", m.Indices[6:], want)
		}
	}
}

// --- Voxelize with stub solids ---

// ballSolid is an exact sphere used to test voxelization without a backend.
type ballSolid struct {
	c [3]float64
	r float64
}

func (s *ballSolid) BoundingBox() (min, max [3]float64) {
	for i := range 3 {
		min[i], max[i] = s.c[i]-s.r, s.c[i]+s.r
	}
	return min, max
}

func (s *ballSolid) Contains(x, y, z float64) bool {
	return math.Hypot(math.Hypot(x-s.c[0], y-s.c[1]), z-s.c[2]) <= s.r
}

// boxSolid is an axis-aligned box.
type boxSolid struct {
	minBB, maxBB [3]float64
}

func (s *boxSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

func (s *boxSolid) Contains(x, y, z float64) bool {
	p := [3]float64{x, y, z}
	for i := range 3 {
		if p[i] < s.minBB[i] || p[i] > s.maxBB[i] {
			return false
		}
	}
	return true
}

var (
	_ Solid = (*ballSolid)(nil)
	_ Solid = (*boxSolid)(nil)
)

func TestVoxelizeBox(t *testing.T) {
	tests := []struct {
		name   string
		solid  *boxSolid
		count  int
		corner vec.Point
	}{
		{"unit", &boxSolid{[3]float64{0, 0, 0}, [3]float64{1, 1, 1}}, 1, vec.P(0, 0, 0)},
		{"4x3x2", &boxSolid{[3]float64{0, 0, 0}, [3]float64{4, 3, 2}}, 24, vec.P(0, 0, 0)},
		{"negative", &boxSolid{[3]float64{-3, -1, -2}, [3]float64{-1, 0, 0}}, 4, vec.P(-3, -1, -2)},
		{"thin slab misses centres", &boxSolid{[3]float64{0, 0, 0}, [3]float64{4, 0.2, 4}}, 0, vec.Point{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := 0
			first := true
			var lo vec.Point
			for p := range Voxelize(tt.solid) {
				if first {
					lo, first = p, false
				}
				lo = lo.Min(p)
				n++
			}
			if n != tt.count {
				t.Errorf("voxel count = %d, want %d", n, tt.count)
			}
			if n > 0 && lo != tt.corner {
				t.Errorf("min voxel = %v, want %v", lo, tt.corner)
			}
		})
	}
}

func TestVoxelizeBallIsSymmetric(t *testing.T) {
	ball := &ballSolid{c: [3]float64{0.5, 0.5, 0.5}, r: 3}
	set := make(map[vec.Point]bool)
	for p := range Voxelize(ball) {
		set[p] = true
	}
	if !set[vec.P(0, 0, 0)] || !set[vec.P(3, 0, 0)] || set[vec.P(3, 3, 0)] {
		t.Errorf("unexpected ball membership: %d voxels", len(set))
	}
	for p := range set {
		mirror := vec.P(-p.X, p.Y, p.Z)
		if !set[mirror] {
			t.Errorf("%v present but mirror %v missing", p, mirror)
		}
	}
}

func TestVoxelizeStopsEarly(t *testing.T) {
	n := 0
	for range Voxelize(&boxSolid{[3]float64{0, 0, 0}, [3]float64{10, 10, 10}}) {
		n++
		if n == 5 {
			break
		}
	}
	if n != 5 {
		t.Errorf("n = %d", n)
	}
}
