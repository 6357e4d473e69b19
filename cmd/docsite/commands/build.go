package commands

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/docsite/internal/build"
	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory (overrides build.output_dir)" type:"path"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()

	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}

	res, err := build.NewService().Run(ctx, build.Request{Config: cfg, OutputDir: b.Output})
	for _, p := range res.Problems {
		_, _ = fmt.Fprintln(g.out(), p.String())
	}
	if err != nil {
		return err
	}
	if !res.Status.IsSuccess() {
		return ferrors.InternalError("build finished without usable output").
			WithContext("status", string(res.Status)).Build()
	}

	slog.Info("Build finished",
		logfields.BuildID(res.BuildID),
		logfields.Documents(res.Index.Len()),
		logfields.NavNodes(res.NavNodes()),
		logfields.DurationMS(float64(res.Duration.Microseconds())/1000))
	_, _ = fmt.Fprintf(g.out(), "%s: built %d documents with %d plugins into %s (%s)\n",
		res.Site.Title, res.Index.Len(), len(res.Plugins), res.OutputPath, res.Status)
	return nil
}
