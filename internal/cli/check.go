package cli

import (
	"github.com/spf13/cobra"
)

func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <script>...",
		Short: "Evaluate shape scripts and report errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := NewPipeline(c.cfg, c.Logger)
			if err != nil {
				return err
			}
			var firstErr error
			for _, path := range args {
				if err := c.check(p, path); err != nil && firstErr == nil {
					firstErr = err
				}
			}
			return firstErr
		},
	}
}

func (c *CLI) check(p *Pipeline, path string) error {
	source, err := readScript(path)
	if err != nil {
		printError(c.out, "%s: %v", path, err)
		return err
	}
	res := p.Check(source)
	if err := c.reportErrors(path, res.Errors); err != nil {
		return err
	}
	printSuccess(c.out, "%s: ok, %d blocks", path, res.World.Len())
	return nil
}
