package editor

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/chazu/blockshape/pkg/block"
	"github.com/chazu/blockshape/pkg/geom"
	"github.com/chazu/blockshape/pkg/transform"
	"github.com/chazu/blockshape/pkg/vec"
)

// ErrOutOfBounds is returned (wrapped) when a placement touches a position
// outside the world's build limits.
var ErrOutOfBounds = errors.New("position out of bounds")

// World is an in-memory Editor. The zero value is not usable; call NewWorld.
// A World is safe for concurrent use.
type World struct {
	mu     sync.Mutex
	blocks map[vec.Point]block.Block
	tr     transform.Transform
	limit  *geom.Box
	calls  int
	logger *log.Logger
}

// Option configures a World.
type Option func(*World)

// WithBounds restricts placements to the given box.
func WithBounds(b geom.Box) Option {
	return func(w *World) { w.limit = &b }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithTransform sets the initial local-to-global transform.
func WithTransform(t transform.Transform) Option {
	return func(w *World) { w.tr = t }
}

// NewWorld creates an empty world.
func NewWorld(opts ...Option) *World {
	w := &World{
		blocks: make(map[vec.Point]block.Block),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

var _ Editor = (*World)(nil)

// Transform returns the current local-to-global transform.
func (w *World) Transform() transform.Transform {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tr
}

// PushTransform composes t onto the current transform, so that subsequent
// local points are mapped by t first. The returned func restores the
// previous transform.
func (w *World) PushTransform(t transform.Transform) (restore func()) {
	w.mu.Lock()
	prev := w.tr
	w.tr = prev.Compose(t)
	w.mu.Unlock()
	return func() {
		w.mu.Lock()
		w.tr = prev
		w.mu.Unlock()
	}
}

// PlaceBlock transforms points and block through the current transform and
// writes them.
func (w *World) PlaceBlock(points iter.Seq[vec.Point], b block.Block, replace Replace) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	tr := w.tr
	return w.place(func(yield func(vec.Point) bool) {
		for p := range points {
			if !yield(tr.Apply(p)) {
				return
			}
		}
	}, b.Transformed(tr.Rotation, tr.Flip), replace)
}

// PlaceBlockGlobal writes points and block as given.
func (w *World) PlaceBlockGlobal(points iter.Seq[vec.Point], b block.Block, replace Replace) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.place(points, b, replace)
}

// place must be called with mu held.
func (w *World) place(points iter.Seq[vec.Point], b block.Block, replace Replace) error {
	w.calls++
	air := b.IsAir()
	n := 0
	for p := range points {
		if w.limit != nil && !w.limit.Contains(p) {
			w.logger.Debug("placement out of bounds", "pos", p, "bounds", *w.limit, "placed", n)
			return fmt.Errorf("placing %s at %v: %w", b.ID, p, ErrOutOfBounds)
		}
		if !replace.Matches(w.blocks[p].ID) {
			continue
		}
		if air {
			delete(w.blocks, p)
		} else {
			w.blocks[p] = b
		}
		n++
	}
	w.logger.Debug("placed blocks", "block", b, "count", n, "call", w.calls)
	return nil
}

// GetBlock returns the block at local position p. Unset positions hold Air.
func (w *World) GetBlock(p vec.Point) block.Block {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.get(w.tr.Apply(p))
}

// GetBlockGlobal returns the block at global position p.
func (w *World) GetBlockGlobal(p vec.Point) block.Block {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.get(p)
}

func (w *World) get(p vec.Point) block.Block {
	if b, ok := w.blocks[p]; ok {
		return b
	}
	return block.Air
}

// Len returns the number of non-air positions.
func (w *World) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.blocks)
}

// Calls returns how many placement calls the world has received.
func (w *World) Calls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calls
}

// Counts returns the number of placed blocks per block id.
func (w *World) Counts() map[string]int {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[string]int)
	for _, b := range w.blocks {
		out[b.ID]++
	}
	return out
}

// Bounds returns the bounding box of all placed blocks. It is empty when
// the world is.
func (w *World) Bounds() geom.Box {
	w.mu.Lock()
	defer w.mu.Unlock()
	var box geom.Box
	first := true
	for p := range w.blocks {
		if first {
			box = geom.Box{Offset: p, Size: vec.Splat(1)}
			first = false
			continue
		}
		box = geom.Between(box.Offset.Min(p), box.Last().Max(p))
	}
	return box
}

// Limits returns the configured build limits, if any.
func (w *World) Limits() (geom.Box, bool) {
	if w.limit == nil {
		return geom.Box{}, false
	}
	return *w.limit, true
}

// Blocks yields every placed block in ascending (y, x, z) order. It works
// on a snapshot, so the world may be modified while ranging.
func (w *World) Blocks() iter.Seq2[vec.Point, block.Block] {
	w.mu.Lock()
	keys := make([]vec.Point, 0, len(w.blocks))
	snap := make(map[vec.Point]block.Block, len(w.blocks))
	for p, b := range w.blocks {
		keys = append(keys, p)
		snap[p] = b
	}
	w.mu.Unlock()
	slices.SortFunc(keys, ComparePoints)
	return func(yield func(vec.Point, block.Block) bool) {
		for _, p := range keys {
			if !yield(p, snap[p]) {
				return
			}
		}
	}
}

// ComparePoints orders points by y, then x, then z.
func ComparePoints(a, b vec.Point) int {
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	return cmp.Compare(a.Z, b.Z)
}

// Flush copies every placed block into sink with PlaceBlockGlobal, one
// call per distinct block. It stops at the first sink error or when ctx is
// done.
func (w *World) Flush(ctx context.Context, sink Editor) error {
	type group struct {
		b   block.Block
		pts []vec.Point
	}
	var groups []*group
	byID := make(map[string][]*group)
	for p, b := range w.Blocks() {
		var g *group
		for _, c := range byID[b.ID] {
			if c.b.Equal(b) {
				g = c
				break
			}
		}
		if g == nil {
			g = &group{b: b}
			byID[b.ID] = append(byID[b.ID], g)
			groups = append(groups, g)
		}
		g.pts = append(g.pts, p)
	}
	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sink.PlaceBlockGlobal(geom.Points(g.pts...), g.b, nil); err != nil {
			return fmt.Errorf("flushing %s: %w", g.b, err)
		}
	}
	w.logger.Debug("flushed world", "groups", len(groups))
	return nil
}
