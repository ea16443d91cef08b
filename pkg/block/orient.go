package block

import (
	"strconv"

	"github.com/chazu/blockshape/pkg/vec"
)

// horizontal lists the cardinal directions in clockwise order seen from +Y.
var horizontal = [4]string{"north", "east", "south", "west"}

func horizontalIndex(dir string) int {
	for i, d := range horizontal {
		if d == dir {
			return i
		}
	}
	return -1
}

// Transformed returns a copy of b re-oriented by flip and then by rotation
// clockwise quarter turns about the Y axis. This is the block-state
// counterpart of transform.Transform.Apply.
func (b Block) Transformed(rotation int, flip vec.Bool3) Block {
	rotation = ((rotation % 4) + 4) % 4
	if rotation == 0 && !flip.Any() || len(b.States) == 0 {
		return b
	}
	c := b.clone()

	if v, ok := c.States["facing"]; ok {
		c.States["facing"] = transformFacing(v, rotation, flip)
	}
	if v, ok := c.States["axis"]; ok && rotation%2 == 1 {
		switch v {
		case "x":
			c.States["axis"] = "z"
		case "z":
			c.States["axis"] = "x"
		}
	}
	if v, ok := c.States["rotation"]; ok {
		if r, err := strconv.Atoi(v); err == nil {
			c.States["rotation"] = strconv.Itoa(transformRotation16(r, rotation, flip))
		}
	}
	if flip.Y {
		for _, key := range []string{"half", "type"} {
			switch c.States[key] {
			case "top":
				c.States[key] = "bottom"
			case "bottom":
				c.States[key] = "top"
			}
		}
	}
	if flip.X != flip.Z {
		if v, ok := c.States["shape"]; ok {
			c.States["shape"] = swapLeftRight(v)
		}
	}
	transformConnections(c.States, rotation, flip)
	return c
}

func transformFacing(v string, rotation int, flip vec.Bool3) string {
	switch {
	case flip.X && v == "east":
		v = "west"
	case flip.X && v == "west":
		v = "east"
	case flip.Z && v == "north":
		v = "south"
	case flip.Z && v == "south":
		v = "north"
	case flip.Y && v == "up":
		v = "down"
	case flip.Y && v == "down":
		v = "up"
	}
	if i := horizontalIndex(v); i >= 0 {
		return horizontal[(i+rotation)%4]
	}
	return v
}

// transformRotation16 handles the 16-step rotation used by signs, banners
// and skulls: 0 faces south and values grow clockwise.
func transformRotation16(r, rotation int, flip vec.Bool3) int {
	if flip.X {
		r = (16 - r) % 16
	}
	if flip.Z {
		r = ((8-r)%16 + 16) % 16
	}
	return (r + 4*rotation) % 16
}

func swapLeftRight(shape string) string {
	switch shape {
	case "inner_left":
		return "inner_right"
	case "inner_right":
		return "inner_left"
	case "outer_left":
		return "outer_right"
	case "outer_right":
		return "outer_left"
	}
	return shape
}

// transformConnections remaps the per-side states of fences, panes and
// walls ("north=true" and friends).
func transformConnections(states map[string]string, rotation int, flip vec.Bool3) {
	var old [4]string
	var present [4]bool
	found := false
	for i, d := range horizontal {
		if v, ok := states[d]; ok {
			old[i], present[i] = v, true
			found = true
			delete(states, d)
		}
	}
	if !found {
		return
	}
	for i, d := range horizontal {
		if !present[i] {
			continue
		}
		dir := transformFacing(d, rotation, vec.Bool3{X: flip.X, Z: flip.Z})
		states[dir] = old[i]
	}
}
