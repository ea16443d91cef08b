package cli

import (
	"context"
	"iter"
	"slices"

	"github.com/chazu/blockshape/pkg/block"
	"github.com/chazu/blockshape/pkg/editor"
	"github.com/chazu/blockshape/pkg/transform"
	"github.com/chazu/blockshape/pkg/vec"
)

// dumpEntry is one placed block in the --dump output.
type dumpEntry struct {
	Pos   [3]int `json:"pos"`
	Block string `json:"block"`
	Data  string `json:"data,omitempty"`
}

// dumpSink is an editor that records every placement as dump entries.
type dumpSink struct {
	entries []dumpEntry
}

var _ editor.Editor = (*dumpSink)(nil)

func (d *dumpSink) Transform() transform.Transform { return transform.Identity }

func (d *dumpSink) PlaceBlock(points iter.Seq[vec.Point], b block.Block, replace editor.Replace) error {
	return d.PlaceBlockGlobal(points, b, replace)
}

func (d *dumpSink) PlaceBlockGlobal(points iter.Seq[vec.Point], b block.Block, _ editor.Replace) error {
	for p := range points {
		d.entries = append(d.entries, dumpEntry{
			Pos:   [3]int{p.X, p.Y, p.Z},
			Block: b.String(),
			Data:  b.Data,
		})
	}
	return nil
}

// dumpWorld flushes w into a dump sink and returns the entries in world
// order.
func dumpWorld(ctx context.Context, w *editor.World) ([]dumpEntry, error) {
	sink := &dumpSink{entries: []dumpEntry{}}
	if err := w.Flush(ctx, sink); err != nil {
		return nil, err
	}
	slices.SortFunc(sink.entries, func(a, b dumpEntry) int {
		return editor.ComparePoints(vec.P(a.Pos[0], a.Pos[1], a.Pos[2]), vec.P(b.Pos[0], b.Pos[1], b.Pos[2]))
	})
	return sink.entries, nil
}
