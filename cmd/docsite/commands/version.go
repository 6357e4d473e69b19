package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docsite/internal/build"
	"git.home.luguber.info/inful/docsite/internal/version"
)

// VersionCmd implements the 'version' command.
type VersionCmd struct {
	Plugins bool `help:"Also list the built-in plugins"`
}

func (v *VersionCmd) Run(g *Global, _ *CLI) error {
	out := g.out()
	_, _ = fmt.Fprintf(out, "docsite %s\n", version.String())
	if !v.Plugins {
		return nil
	}
	for _, p := range build.DefaultRegistry().List() {
		meta := p.Metadata()
		_, _ = fmt.Fprintf(out, "  %s %s (%s)\n", meta.Name, meta.Version, meta.Type)
	}
	return nil
}
