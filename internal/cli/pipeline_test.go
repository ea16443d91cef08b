package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/chazu/blockshape/internal/config"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := NewPipeline(config.Default(), log.NewWithOptions(io.Discard, log.Options{}))
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	return p
}

// TestE2ETowerExample exercises the full pipeline: script -> engine ->
// world -> preview meshes.
func TestE2ETowerExample(t *testing.T) {
	p := newTestPipeline(t)

	source, err := os.ReadFile("../../examples/tower.shape")
	if err != nil {
		t.Fatalf("failed to read tower.shape: %v", err)
	}

	result := p.Evaluate(string(source))
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}

	expected := map[string]bool{
		"minecraft:black_wool":   false,
		"minecraft:glass":        false,
		"minecraft:grass_block":  false,
		"minecraft:oak_fence":    false,
		"minecraft:oak_planks":   false,
		"minecraft:stone_bricks": false,
		"minecraft:white_wool":   false,
	}
	if len(result.Meshes) != len(expected) {
		t.Fatalf("expected %d meshes, got %d", len(expected), len(result.Meshes))
	}

	for i, m := range result.Meshes {
		if _, ok := expected[m.PartName]; !ok {
			t.Errorf("unexpected block id: %q", m.PartName)
			continue
		}
		expected[m.PartName] = true

		if i > 0 && result.Meshes[i-1].PartName >= m.PartName {
			t.Errorf("meshes not sorted: %q before %q", result.Meshes[i-1].PartName, m.PartName)
		}
		if len(m.Vertices) == 0 || len(m.Normals) == 0 || len(m.Indices) == 0 {
			t.Errorf("%q: empty geometry", m.PartName)
		}
		if m.Color == "" {
			t.Errorf("%q: no color assigned", m.PartName)
		}
	}
	for id, found := range expected {
		if !found {
			t.Errorf("missing mesh for %q", id)
		}
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	result := newTestPipeline(t).Evaluate("")

	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
	// JSON should serialize as [] not null.
	if result.Meshes == nil {
		t.Error("Meshes should be non-nil empty slice, got nil")
	}
	if result.Errors == nil {
		t.Error("Errors should be non-nil empty slice, got nil")
	}
}

func TestE2ECommentsOnly(t *testing.T) {
	source := `
;; This is a comment
  ; indented	with a tab
`
	result := newTestPipeline(t).Evaluate(source)
	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for comments-only source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	result := newTestPipeline(t).Evaluate("(+ 1 2)\n(cuboid (vec3 0 0 0)")

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
	if result.World != nil {
		t.Error("expected no world on error")
	}
	t.Logf("syntax error: line=%d, message=%q", result.Errors[0].Line, result.Errors[0].Message)
}

func TestE2EDegenerateShapes(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"zero size box", `(place-box (box (vec3 0 0 0) (vec3 0 4 4)) "minecraft:stone")`},
		{"zero length cylinder", `(cylinder (vec3 0 0 0) (vec2 5 5) 0 "minecraft:stone")`},
		{"zero width line", `(line (vec3 0 0 0) (vec3 5 5 5) "minecraft:stone" :width 0)`},
		{"empty line sequence", `(line-sequence (list) "minecraft:stone")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := newTestPipeline(t).Evaluate(tt.source)
			if len(result.Errors) > 0 {
				t.Fatalf("unexpected errors: %v", result.Errors)
			}
			if len(result.Meshes) != 0 {
				t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
			}
		})
	}
}

func TestE2EAirRemovesBlocks(t *testing.T) {
	source := `
(cuboid (vec3 0 0 0) (vec3 2 2 2) "minecraft:stone")
(cuboid (vec3 0 0 0) (vec3 2 2 2) "minecraft:air")
`
	result := newTestPipeline(t).Evaluate(source)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.World.Len() != 0 {
		t.Errorf("world holds %d blocks after clearing", result.World.Len())
	}
}

// Alternates between valid and invalid sources. Calls are sequential:
// zygomys keeps global state that is not safe for concurrent sandboxes.
func TestE2ERapidEvaluationAlternating(t *testing.T) {
	p := newTestPipeline(t)

	sources := []string{
		`(cuboid (vec3 0 0 0) (vec3 3 3 3) "minecraft:stone")`,
		`(cuboid (vec3 0 0 0)`,
		``,
		`(pop-transform)`,
		`(cylinder (vec3 0 0 0) (vec2 5 5) 3 "minecraft:glass")`,
		`(+ 1 2)`,
		`;; just a comment`,
		`(undefined-func 1 2 3)`,
		`(line (vec3 0 0 0) (vec3 9 9 9) "minecraft:stone")`,
	}

	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked on source %q: %v", i, source, r)
				}
			}()
			_ = p.Evaluate(source)
		}()
	}
}

func TestE2EColorPaletteOverflow(t *testing.T) {
	// More block ids than the default palette has colours.
	var b strings.Builder
	for i := range 12 {
		fmt.Fprintf(&b, "(cuboid (vec3 %d 0 0) (vec3 %d 0 0) \"test:block_%02d\")\n", i*2, i*2, i)
	}
	result := newTestPipeline(t).Evaluate(b.String())
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 12 {
		t.Fatalf("expected 12 meshes, got %d", len(result.Meshes))
	}
	for _, m := range result.Meshes {
		if m.Color == "" {
			t.Errorf("mesh %q has no color once the palette runs out", m.PartName)
		}
	}
}

func TestPipelineConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.Timeout = config.Duration{Duration: time.Second}
	cfg.World = config.World{Min: []int{0, 0, 0}, Max: []int{3, 3, 3}}
	cfg.Preview.Colors = map[string]string{"minecraft:stone": "#808080"}

	p, err := NewPipeline(cfg, log.NewWithOptions(io.Discard, log.Options{}))
	if err != nil {
		t.Fatal(err)
	}

	result := p.Evaluate(`(cuboid (vec3 0 0 0) (vec3 1 1 1) "minecraft:stone")`)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if got := result.Meshes[0].Color; got != "#808080" {
		t.Errorf("color = %s, want the configured #808080", got)
	}

	result = p.Evaluate(`(cuboid (vec3 0 0 0) (vec3 4 0 0) "minecraft:stone")`)
	if len(result.Errors) == 0 {
		t.Error("expected an error for a placement outside the configured world")
	}

	cfg.Preview.Colors = map[string]string{"minecraft:stone": "grey"}
	if _, err := NewPipeline(cfg, log.NewWithOptions(io.Discard, log.Options{})); err == nil {
		t.Error("expected error for a bad configured colour")
	}
}
