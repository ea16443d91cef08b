// Package editor defines the collaborator the shape layer writes blocks
// through, and an in-memory implementation of it.
package editor

import (
	"iter"
	"slices"

	"github.com/chazu/blockshape/pkg/block"
	"github.com/chazu/blockshape/pkg/transform"
	"github.com/chazu/blockshape/pkg/vec"
)

// Editor writes blocks into a world.
//
// PlaceBlock interprets points in the editor's local space: every point and
// the block orientation go through Transform() before being written.
// PlaceBlockGlobal writes points and block exactly as given.
type Editor interface {
	Transform() transform.Transform
	PlaceBlock(points iter.Seq[vec.Point], b block.Block, replace Replace) error
	PlaceBlockGlobal(points iter.Seq[vec.Point], b block.Block, replace Replace) error
}

// Replace restricts which existing blocks a placement may overwrite. An
// empty filter overwrites anything.
type Replace []string

// ReplaceAny builds a filter that allows overwriting the listed block ids.
func ReplaceAny(ids ...string) Replace {
	if len(ids) == 0 {
		return nil
	}
	return Replace(slices.Clone(ids))
}

// Matches reports whether a position currently holding id may be written.
// Unset positions hold block.AirID.
func (r Replace) Matches(id string) bool {
	if len(r) == 0 {
		return true
	}
	if id == "" {
		id = block.AirID
	}
	return slices.Contains(r, id)
}

// Single returns a sequence holding only p.
func Single(p vec.Point) iter.Seq[vec.Point] {
	return func(yield func(vec.Point) bool) {
		yield(p)
	}
}
