package commands

import (
	"encoding/json"

	"git.home.luguber.info/inful/docsite/internal/build"
	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"gopkg.in/yaml.v3"
)

// PrintCmd implements the 'print' command.
type PrintCmd struct {
	Expand bool   `help:"Fill autogenerated groups from the content directory"`
	Format string `help:"Output format (yaml|json)" enum:"yaml,json" default:"yaml"`
}

func (p *PrintCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()

	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	res, err := build.NewService().Check(ctx, build.Request{Config: cfg, Content: p.Expand})
	if err != nil {
		return err
	}

	out := res.Site
	if p.Expand {
		out = res.Expanded
	}

	var data []byte
	switch p.Format {
	case "json":
		data, err = json.MarshalIndent(out, "", "  ")
		data = append(data, '\n')
	default:
		data, err = yaml.Marshal(out)
	}
	if err != nil {
		return ferrors.InternalError("failed to encode site configuration").WithCause(err).Build()
	}
	_, err = g.out().Write(data)
	return err
}
