package commands

import (
	"fmt"

	"git.home.luguber.info/inful/markupdown/internal/scaffold"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Dir   string `arg:"" optional:"" default:"." help:"Directory to create the project in."`
	Force bool   `help:"Overwrite files that already exist"`
}

func (i *InitCmd) Run(g *Global, _ *CLI) error {
	out := g.out()
	_, _ = fmt.Fprintf(out, "Initializing markupdown project in %s\n", i.Dir)
	written, err := scaffold.Init(i.Dir, scaffold.Options{Force: i.Force})
	if err != nil {
		_, _ = fmt.Fprintln(out, "Initialization failed")
		return err
	}
	for _, p := range written {
		_, _ = fmt.Fprintf(out, "  created %s\n", p)
	}
	_, _ = fmt.Fprintln(out, "initialized successfully")
	return nil
}
