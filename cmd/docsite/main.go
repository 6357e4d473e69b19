package main

import (
	"os"

	"git.home.luguber.info/inful/docsite/cmd/docsite/commands"
	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

func main() {
	var cli commands.CLI
	parser, err := commands.NewParser(&cli)
	if err != nil {
		ferrors.NewCLIErrorAdapter(false, nil).HandleError(
			ferrors.InternalError(err.Error()).Build())
	}

	ctx, err := commands.Parse(parser, os.Args[1:])
	if err == nil {
		err = ctx.Run(&commands.Global{Out: os.Stdout}, &cli)
	}
	ferrors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
}
