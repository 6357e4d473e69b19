package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"git.home.luguber.info/inful/docsite/internal/build"
	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/watch"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Watch   bool `help:"Re-run the check whenever the project file changes"`
	Content bool `help:"Also index the content directory and verify slugs and assets"`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()

	svc := build.NewService()
	err := RunCheck(ctx, g.out(), svc, root.Config, c.Content)
	if !c.Watch {
		return err
	}
	if err != nil {
		// Config mistakes are expected while the file is being edited.
		level := slog.LevelError
		if ferrors.HasCategory(err, ferrors.CategoryConfig) {
			level = slog.LevelWarn
		}
		slog.Log(ctx, level, "Check failed, watching for changes", logfields.Error(err))
	}

	w, werr := watch.NewConfigWatcher(root.Config, watch.DefaultDebounce, func(ctx context.Context) error {
		return RunCheck(ctx, g.out(), svc, root.Config, c.Content)
	})
	if werr != nil {
		return ferrors.WrapError(werr, ferrors.CategoryRuntime, "failed to watch project file").Build()
	}
	if err := w.Run(ctx); err != nil && !isCancelled(err) {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to watch project file").Build()
	}
	return nil
}

// RunCheck loads and checks the project file once and prints a summary to out.
func RunCheck(ctx context.Context, out io.Writer, svc *build.Service, configPath string, withContent bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	res, err := svc.Check(ctx, build.Request{Config: cfg, Content: withContent})
	for _, p := range res.Problems {
		_, _ = fmt.Fprintln(out, p.String())
	}
	if err != nil {
		return err
	}

	summary := fmt.Sprintf("%s: ok (%d sidebar entries", res.Site.Title, res.NavNodes())
	if res.Index != nil {
		summary += fmt.Sprintf(", %d documents", res.Index.Len())
	}
	if n := len(res.Warnings()); n > 0 {
		summary += fmt.Sprintf(", %d warnings", n)
	}
	_, _ = fmt.Fprintln(out, summary+")")
	return nil
}
