// Package preview turns placed blocks into triangle meshes for display.
// One mesh is produced per block id; only faces between a block and an
// empty neighbour are emitted.
package preview

import (
	"fmt"
	"iter"
	"math"
	"sort"

	"github.com/chazu/blockshape/pkg/block"
	"github.com/chazu/blockshape/pkg/kernel"
	"github.com/chazu/blockshape/pkg/vec"
)

// Source is anything that can enumerate placed blocks. *editor.World
// satisfies it.
type Source interface {
	Blocks() iter.Seq2[vec.Point, block.Block]
}

// face describes one side of the unit cube: the neighbour offset, the
// outward normal and the four corners, counter-clockwise seen from outside.
type face struct {
	dir     vec.Point
	normal  [3]float32
	corners [4][3]float32
}

var faces = [6]face{
	{vec.P(1, 0, 0), [3]float32{1, 0, 0}, [4][3]float32{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}}},
	{vec.P(-1, 0, 0), [3]float32{-1, 0, 0}, [4][3]float32{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}}},
	{vec.P(0, 1, 0), [3]float32{0, 1, 0}, [4][3]float32{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}}},
	{vec.P(0, -1, 0), [3]float32{0, -1, 0}, [4][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}},
	{vec.P(0, 0, 1), [3]float32{0, 0, 1}, [4][3]float32{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}},
	{vec.P(0, 0, -1), [3]float32{0, 0, -1}, [4][3]float32{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}}},
}

// Build produces one mesh per block id, sorted by id. Each exposed face of
// a block becomes two triangles. A nil source yields no meshes.
func Build(src Source) ([]*kernel.Mesh, error) {
	if src == nil {
		return nil, nil
	}

	occupied := make(map[vec.Point]bool)
	byID := make(map[string][]vec.Point)
	for p, b := range src.Blocks() {
		if b.IsAir() {
			continue
		}
		occupied[p] = true
		byID[b.ID] = append(byID[b.ID], p)
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	meshes := make([]*kernel.Mesh, 0, len(ids))
	for _, id := range ids {
		m := &kernel.Mesh{PartName: id}
		for _, p := range byID[id] {
			for _, f := range faces {
				if occupied[p.Add(f.dir)] {
					continue
				}
				if uint64(m.VertexCount())+4 > math.MaxUint32 {
					return nil, fmt.Errorf("preview: mesh for %s exceeds the index range", id)
				}
				m.AddQuad(
					offset(f.corners[0], p), offset(f.corners[1], p),
					offset(f.corners[2], p), offset(f.corners[3], p),
					f.normal,
				)
			}
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

func offset(c [3]float32, p vec.Point) [3]float32 {
	return [3]float32{c[0] + float32(p.X), c[1] + float32(p.Y), c[2] + float32(p.Z)}
}
