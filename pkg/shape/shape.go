// Package shape places geometric shapes of blocks through an editor.Editor.
//
// The functions hold no state. Each one builds a point set from package
// geom and hands it to the editor, returning the editor's error unchanged.
//
// Two placement styles coexist. The cuboid family, PlaceLine and
// PlaceFittingCylinder map their key points and the block through the
// editor's transform themselves and then place globally; the shape is built
// between the transformed corners. PlaceLineSequence, PlaceCylinder,
// PlaceSolid and the patterned placements hand local points to
// PlaceBlock and let the editor transform each one.
package shape

import (
	"github.com/chazu/blockshape/pkg/block"
	"github.com/chazu/blockshape/pkg/editor"
	"github.com/chazu/blockshape/pkg/geom"
	"github.com/chazu/blockshape/pkg/kernel"
	"github.com/chazu/blockshape/pkg/vec"
)

// DefaultCylinder extrudes along Y and fills every layer.
var DefaultCylinder = geom.CylinderOpts{Axis: vec.AxisY}

// globalBetween transforms two local corners and the block through the
// editor's transform and returns the global box between them.
func globalBetween(ed editor.Editor, first, last vec.Point, b block.Block) (geom.Box, block.Block) {
	tr := ed.Transform()
	return geom.Between(tr.Apply(first), tr.Apply(last)), b.Transformed(tr.Rotation, tr.Flip)
}

// --- Cuboids ---

// PlaceCuboid fills the cuboid between first and last (inclusive).
func PlaceCuboid(ed editor.Editor, first, last vec.Point, b block.Block, replace editor.Replace) error {
	box, gb := globalBetween(ed, first, last, b)
	return ed.PlaceBlockGlobal(box.Inner(), gb, replace)
}

// PlaceCuboidHollow places the one-block-thick shell of the cuboid between
// first and last.
func PlaceCuboidHollow(ed editor.Editor, first, last vec.Point, b block.Block, replace editor.Replace) error {
	box, gb := globalBetween(ed, first, last, b)
	return ed.PlaceBlockGlobal(box.Shell(), gb, replace)
}

// PlaceCuboidWireframe places the twelve edges of the cuboid between first
// and last.
func PlaceCuboidWireframe(ed editor.Editor, first, last vec.Point, b block.Block, replace editor.Replace) error {
	box, gb := globalBetween(ed, first, last, b)
	return ed.PlaceBlockGlobal(box.Wireframe(), gb, replace)
}

// zeroSize reports whether any size component of box is exactly zero.
// Negative sizes are passed on: the corners are normalized downstream.
func zeroSize(box geom.Box) bool {
	return box.Size.X == 0 || box.Size.Y == 0 || box.Size.Z == 0
}

// PlaceBox fills box. A box with a zero size component places nothing.
func PlaceBox(ed editor.Editor, box geom.Box, b block.Block, replace editor.Replace) error {
	if zeroSize(box) {
		return nil
	}
	return PlaceCuboid(ed, box.Begin(), box.Last(), b, replace)
}

// PlaceBoxHollow places the shell of box.
func PlaceBoxHollow(ed editor.Editor, box geom.Box, b block.Block, replace editor.Replace) error {
	if zeroSize(box) {
		return nil
	}
	return PlaceCuboidHollow(ed, box.Begin(), box.Last(), b, replace)
}

// PlaceBoxWireframe places the edges of box.
func PlaceBoxWireframe(ed editor.Editor, box geom.Box, b block.Block, replace editor.Replace) error {
	if zeroSize(box) {
		return nil
	}
	return PlaceCuboidWireframe(ed, box.Begin(), box.Last(), b, replace)
}

// --- Rects ---

// PlaceRect fills rect in the XZ plane at height y.
func PlaceRect(ed editor.Editor, rect geom.Rect, y int, b block.Block, replace editor.Replace) error {
	return PlaceBox(ed, rect.ToBox(y, 1), b, replace)
}

// PlaceRectOutline places the border of rect at height y. Every point of a
// one-block-high box lies on its Y boundary, so its wireframe is the outline.
func PlaceRectOutline(ed editor.Editor, rect geom.Rect, y int, b block.Block, replace editor.Replace) error {
	return PlaceBoxWireframe(ed, rect.ToBox(y, 1), b, replace)
}

// --- Patterns ---

// PlaceCheckeredCuboid fills the cuboid between first and last with a 3D
// checkerboard of b1 and b2.
func PlaceCheckeredCuboid(ed editor.Editor, first, last vec.Point, b1, b2 block.Block, replace editor.Replace) error {
	return PlaceCheckeredBox(ed, geom.Between(first, last), b1, b2, replace)
}

// PlaceCheckeredBox fills box with a 3D checkerboard: b1 where the
// box-relative coordinates sum to an even number, b2 elsewhere. The pattern
// is anchored to the box, not to the world. Pass block.Air as b2 to leave
// every other block empty.
func PlaceCheckeredBox(ed editor.Editor, box geom.Box, b1, b2 block.Block, replace editor.Replace) error {
	for pos := range (geom.Box{Size: box.Size}).Inner() {
		b := b2
		if pos.Sum()%2 == 0 {
			b = b1
		}
		if err := ed.PlaceBlock(editor.Single(box.Offset.Add(pos)), b, replace); err != nil {
			return err
		}
	}
	return nil
}

// PlaceStripedCuboid fills the cuboid between first and last with layers
// alternating between b1 and b2 along axis.
func PlaceStripedCuboid(ed editor.Editor, first, last vec.Point, axis vec.Axis, b1, b2 block.Block, replace editor.Replace) error {
	return PlaceStripedBox(ed, geom.Between(first, last), axis, b1, b2, replace)
}

// PlaceStripedBox fills box with stripes perpendicular to axis: b1 on even
// box-relative layers, b2 on odd ones.
func PlaceStripedBox(ed editor.Editor, box geom.Box, axis vec.Axis, b1, b2 block.Block, replace editor.Replace) error {
	for pos := range (geom.Box{Size: box.Size}).Inner() {
		b := b2
		if pos.Get(axis)%2 == 0 {
			b = b1
		}
		if err := ed.PlaceBlock(editor.Single(box.Offset.Add(pos)), b, replace); err != nil {
			return err
		}
	}
	return nil
}

// --- Lines ---

// PlaceLine places a line from first to last. Width 1 is a plain line;
// wider lines are thickened into cubes of that side. Width below 1 places
// nothing, but the editor is still called.
func PlaceLine(ed editor.Editor, first, last vec.Point, b block.Block, width int, replace editor.Replace) error {
	tr := ed.Transform()
	gb := b.Transformed(tr.Rotation, tr.Flip)
	return ed.PlaceBlockGlobal(geom.Line3D(tr.Apply(first), tr.Apply(last), width), gb, replace)
}

// PlaceLineSequence places lines between consecutive points, and from the
// last point back to the first when closed is set.
func PlaceLineSequence(ed editor.Editor, points []vec.Point, b block.Block, closed bool, replace editor.Replace) error {
	return ed.PlaceBlock(geom.LineSequence3D(points, closed), b, replace)
}

// --- Cylinders ---

// PlaceCylinder places an elliptic cylinder whose base ellipse, of the given
// diameters, is centred on baseCenter and which extends length blocks along
// opts.Axis.
func PlaceCylinder(ed editor.Editor, baseCenter vec.Point, diameters vec.Point2, length int, b block.Block, opts geom.CylinderOpts, replace editor.Replace) error {
	return ed.PlaceBlock(geom.Cylinder(baseCenter, diameters, length, opts), b, replace)
}

// PlaceFittingCylinder places the largest cylinder along opts.Axis that fits
// the cuboid between the two corners. The corners are transformed first,
// opts.Axis is taken in global space.
func PlaceFittingCylinder(ed editor.Editor, corner1, corner2 vec.Point, b block.Block, opts geom.CylinderOpts, replace editor.Replace) error {
	tr := ed.Transform()
	gb := b.Transformed(tr.Rotation, tr.Flip)
	return ed.PlaceBlockGlobal(geom.FittingCylinder(tr.Apply(corner1), tr.Apply(corner2), opts), gb, replace)
}

// --- Solids ---

// PlaceSolid voxelizes s and places every cell whose centre lies inside it.
func PlaceSolid(ed editor.Editor, s kernel.Solid, b block.Block, replace editor.Replace) error {
	return ed.PlaceBlock(kernel.Voxelize(s), b, replace)
}
