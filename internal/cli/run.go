package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/chazu/blockshape/pkg/engine"
)

// runOpts holds the command-line flags for the run command.
type runOpts struct {
	mesh string // preview mesh JSON output path
	dump string // block list JSON output path
}

func (c *CLI) runCommand() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Evaluate a shape script and summarize the placed blocks",
		Long: `Evaluate a shape script into a fresh world and print the block counts.

Examples:
  blockshape run tower.shape
  blockshape run tower.shape --mesh tower.mesh.json
  blockshape run tower.shape --dump tower.blocks.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.mesh, "mesh", "", "write preview meshes as JSON to `file`")
	cmd.Flags().StringVar(&opts.dump, "dump", "", "write placed blocks as JSON to `file`")

	return cmd
}

func (c *CLI) run(ctx context.Context, path string, opts runOpts) error {
	source, err := readScript(path)
	if err != nil {
		return err
	}
	p, err := NewPipeline(c.cfg, c.Logger)
	if err != nil {
		return err
	}

	start := time.Now()
	var res Result
	if opts.mesh != "" {
		res = p.Evaluate(source)
	} else {
		res = p.Check(source)
	}
	if err := c.reportErrors(path, res.Errors); err != nil {
		return err
	}

	w := res.World
	printSuccess(c.out, "%s: placed %d blocks in %d calls (%s)",
		path, w.Len(), w.Calls(), time.Since(start).Round(time.Millisecond))
	if w.Len() > 0 {
		b := w.Bounds()
		printKeyValue(c.out, "bounds", fmt.Sprintf("%v .. %v", b.Begin(), b.Last()))
	}
	if lim, ok := w.Limits(); ok {
		printKeyValue(c.out, "limits", fmt.Sprintf("%v .. %v", lim.Begin(), lim.Last()))
	}
	counts := w.Counts()
	for _, id := range slices.Sorted(maps.Keys(counts)) {
		printCount(c.out, id, counts[id])
	}

	if opts.mesh != "" {
		if err := writeJSON(opts.mesh, res.Meshes); err != nil {
			return err
		}
		printFile(c.out, opts.mesh)
	}
	if opts.dump != "" {
		entries, err := dumpWorld(ctx, w)
		if err != nil {
			return err
		}
		if err := writeJSON(opts.dump, entries); err != nil {
			return err
		}
		printFile(c.out, opts.dump)
	}
	return nil
}

// reportErrors prints each evaluation error and returns a summary error when
// there are any.
func (c *CLI) reportErrors(path string, errs []engine.EvalError) error {
	if len(errs) == 0 {
		return nil
	}
	for _, e := range errs {
		printError(c.out, "%s: %s", path, e.Error())
	}
	return fmt.Errorf("%s: %d evaluation error(s)", path, len(errs))
}

func readScript(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading script: %w", err)
	}
	return string(data), nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
