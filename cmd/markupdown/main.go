package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/markupdown/cmd/markupdown/commands"
	"git.home.luguber.info/inful/markupdown/internal/config"
	"git.home.luguber.info/inful/markupdown/internal/foundation/errors"
	"git.home.luguber.info/inful/markupdown/internal/version"
)

func main() {
	// .env files feed the MARKUPDOWN_* flag defaults, so they load before parsing.
	if _, err := config.LoadEnvFiles("."); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("markupdown"),
		kong.Description("Build a static site from a directory of Markdown documents."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	err := parser.Run(&commands.Global{Ctx: context.Background(), Out: os.Stdout})
	errors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
}
