// Package block defines the placeable block value and its orientation
// transform.
package block

import (
	"fmt"
	"sort"
	"strings"
)

// AirID is the identifier of the empty block.
const AirID = "minecraft:air"

// Air is the empty block. It is the default secondary block of the
// patterned placements and the value of every unset world position.
var Air = Block{ID: AirID}

// Block is a placeable unit: an identifier plus block states. Values are
// treated as immutable; methods that change a block return a copy.
type Block struct {
	ID     string            `json:"id"`
	States map[string]string `json:"states,omitempty"`
	Data   string            `json:"data,omitempty"` // block entity payload, passed through verbatim
}

// New creates a block with the given id and states.
func New(id string, states map[string]string) Block {
	b := Block{ID: id}
	if len(states) > 0 {
		b.States = make(map[string]string, len(states))
		for k, v := range states {
			b.States[k] = v
		}
	}
	return b
}

// IsAir reports whether b is the empty block.
func (b Block) IsAir() bool {
	return b.ID == AirID || b.ID == ""
}

// State returns the value of a block state and whether it is set.
func (b Block) State(key string) (string, bool) {
	v, ok := b.States[key]
	return v, ok
}

// WithState returns a copy of b with key set to value.
func (b Block) WithState(key, value string) Block {
	c := b.clone()
	if c.States == nil {
		c.States = make(map[string]string, 1)
	}
	c.States[key] = value
	return c
}

// Equal reports whether two blocks have the same id, states and data.
func (b Block) Equal(o Block) bool {
	if b.ID != o.ID || b.Data != o.Data || len(b.States) != len(o.States) {
		return false
	}
	for k, v := range b.States {
		if ov, ok := o.States[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// String renders the block as id[k=v,...] with states sorted by key.
func (b Block) String() string {
	if len(b.States) == 0 {
		return b.ID
	}
	keys := make([]string, 0, len(b.States))
	for k := range b.States {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + b.States[k]
	}
	return b.ID + "[" + strings.Join(parts, ",") + "]"
}

// Parse reads the form produced by String: "id" or "id[k=v,...]".
func Parse(s string) (Block, error) {
	s = strings.TrimSpace(s)
	open := strings.IndexByte(s, '[')
	if open < 0 {
		if s == "" {
			return Block{}, fmt.Errorf("block: empty id")
		}
		return Block{ID: s}, nil
	}
	if !strings.HasSuffix(s, "]") {
		return Block{}, fmt.Errorf("block: unterminated state list in %q", s)
	}
	b := Block{ID: s[:open]}
	if b.ID == "" {
		return Block{}, fmt.Errorf("block: empty id in %q", s)
	}
	body := s[open+1 : len(s)-1]
	if body == "" {
		return b, nil
	}
	b.States = make(map[string]string)
	for _, kv := range strings.Split(body, ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return Block{}, fmt.Errorf("block: malformed state %q in %q", kv, s)
		}
		b.States[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return b, nil
}

func (b Block) clone() Block {
	c := b
	if b.States != nil {
		c.States = make(map[string]string, len(b.States))
		for k, v := range b.States {
			c.States[k] = v
		}
	}
	return c
}
