package commands

import (
	"fmt"

	"git.home.luguber.info/inful/markupdown/internal/pipeline"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	BuildFlags
}

func (b *BuildCmd) Run(g *Global, _ *CLI) error {
	cfg, err := b.Config()
	if err != nil {
		return err
	}
	report, err := pipeline.New().Build(g.context(), cfg)
	if err != nil {
		return err
	}
	out := g.out()
	_, _ = fmt.Fprintf(out, "Rendered %d pages into %s\n", report.Rendered, report.OutputDir)
	if n := len(report.BrokenLinks); n > 0 {
		_, _ = fmt.Fprintf(out, "%d broken internal links\n", n)
	}
	return nil
}
