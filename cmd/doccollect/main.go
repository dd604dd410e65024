package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/doccollect/cmd/doccollect/commands"
	"git.home.luguber.info/inful/doccollect/internal/foundation/errors"
	"git.home.luguber.info/inful/doccollect/internal/version"
)

func main() {
	var cli commands.CLI
	global := &commands.Global{Out: os.Stdout, In: os.Stdin}

	ctx := kong.Parse(&cli,
		kong.Name("doccollect"),
		kong.Description("Collect documentation records from source comments"),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)

	if err := ctx.Run(&cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
