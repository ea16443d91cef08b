package cli

import (
	"github.com/charmbracelet/log"

	"github.com/chazu/blockshape/internal/config"
	"github.com/chazu/blockshape/pkg/editor"
	"github.com/chazu/blockshape/pkg/engine"
	"github.com/chazu/blockshape/pkg/preview"
)

// Pipeline runs a script through the engine and turns the resulting world
// into coloured preview meshes.
type Pipeline struct {
	engine  *engine.Engine
	palette *preview.Palette
	logger  *log.Logger
}

// Result is the outcome of one evaluation. Meshes and Errors are never nil
// so they encode as [] rather than null.
type Result struct {
	Meshes []preview.MeshData `json:"meshes"`
	Errors []engine.EvalError `json:"errors"`
	World  *editor.World      `json:"-"`
}

// NewPipeline builds a pipeline from cfg.
func NewPipeline(cfg config.Config, logger *log.Logger) (*Pipeline, error) {
	opts := []engine.Option{
		engine.WithTimeout(cfg.Engine.Timeout.Duration),
		engine.WithLogger(logger),
	}
	box, ok, err := cfg.Bounds()
	if err != nil {
		return nil, err
	}
	if ok {
		opts = append(opts, engine.WithBounds(box))
	}

	sequence := cfg.Preview.Palette
	if len(sequence) == 0 {
		sequence = preview.DefaultPalette
	}
	palette, err := preview.NewPalette(cfg.Preview.Colors, sequence)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		engine:  engine.NewEngine(opts...),
		palette: palette,
		logger:  logger,
	}, nil
}

// Evaluate runs source and builds the preview meshes of the placed blocks.
func (p *Pipeline) Evaluate(source string) Result {
	res := p.Check(source)
	if len(res.Errors) > 0 {
		return res
	}

	meshes, err := preview.Build(res.World)
	if err != nil {
		p.logger.Error("building preview", "err", err)
		res.Errors = append(res.Errors, engine.EvalError{Message: "preview failed: " + err.Error()})
		return res
	}
	res.Meshes = p.palette.Colorize(meshes)
	return res
}

// Check runs source without building meshes.
func (p *Pipeline) Check(source string) Result {
	res := Result{
		Meshes: []preview.MeshData{},
		Errors: []engine.EvalError{},
	}

	w, evalErrs, err := p.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		p.logger.Error("evaluation failed", "err", err)
		res.Errors = append(res.Errors, engine.EvalError{Message: err.Error()})
		return res
	}
	if len(evalErrs) > 0 {
		res.Errors = append(res.Errors, evalErrs...)
		return res
	}

	res.World = w
	return res
}
