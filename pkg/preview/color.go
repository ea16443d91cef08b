package preview

import (
	"fmt"
	"hash/fnv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/chazu/blockshape/pkg/kernel"
)

// DefaultPalette assigns distinct colours to the first few block ids.
var DefaultPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// MeshData is the JSON form of a coloured mesh.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// Palette maps block ids to display colours.
type Palette struct {
	fixed    map[string]string
	sequence []colorful.Color
}

// NewPalette builds a palette. fixed pins colours for specific block ids;
// the remaining ids take colours from sequence in order and fall back to a
// hue derived from the id once sequence runs out. All colours are hex
// strings such as "#4A90D9".
func NewPalette(fixed map[string]string, sequence []string) (*Palette, error) {
	p := &Palette{fixed: make(map[string]string, len(fixed))}
	for id, hex := range fixed {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("preview: colour for %s: %w", id, err)
		}
		p.fixed[id] = c.Hex()
	}
	for _, hex := range sequence {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("preview: palette colour %q: %w", hex, err)
		}
		p.sequence = append(p.sequence, c)
	}
	return p, nil
}

// Color returns the colour of the i-th mesh, built from block id.
func (p *Palette) Color(i int, id string) string {
	if hex, ok := p.fixed[id]; ok {
		return hex
	}
	if i < len(p.sequence) {
		return p.sequence[i].Hex()
	}
	return HashColor(id)
}

// HashColor derives a stable, readable colour from a block id.
func HashColor(id string) string {
	h := fnv.New32a()
	h.Write([]byte(id))
	hue := float64(h.Sum32() % 360)
	return colorful.Hcl(hue, 0.6, 0.65).Clamped().Hex()
}

// Colorize pairs each mesh with its palette colour.
func (p *Palette) Colorize(meshes []*kernel.Mesh) []MeshData {
	out := make([]MeshData, 0, len(meshes))
	for i, m := range meshes {
		out = append(out, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    p.Color(i, m.PartName),
		})
	}
	return out
}
