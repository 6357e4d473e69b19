// Package llmstxt writes llms.txt, a Markdown index of the site meant for
// language models, and optionally llms-full.txt with every page's source.
package llmstxt

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/plugin"
	"git.home.luguber.info/inful/docsite/internal/site"
)

const (
	Name     = "llms-txt"
	IndexTxt = "llms.txt"
	FullTxt  = "llms-full.txt"
)

var knownOptions = []string{"description", "full"}

// Plugin generates llms.txt and llms-full.txt.
type Plugin struct{}

// New creates the llms-txt plugin.
func New() *Plugin { return &Plugin{} }

func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        Name,
		Version:     "v1.0.0",
		Type:        plugin.PluginTypeGenerator,
		Description: "Markdown site index for language models",
		Outputs:     []string{IndexTxt, FullTxt},
	}
}

// Validate accepts a string description and a boolean full flag.
func (p *Plugin) Validate(options map[string]any) error {
	for k, v := range options {
		switch k {
		case "description":
			if _, ok := v.(string); !ok {
				return fmt.Errorf("description must be a string, got %T", v)
			}
		case "full":
			if _, ok := v.(bool); !ok {
				return fmt.Errorf("full must be a boolean, got %T", v)
			}
		default:
			return fmt.Errorf("unknown option %q (known: %s)", k, strings.Join(knownOptions, ", "))
		}
	}
	return nil
}

// OutputsFor drops llms-full.txt when full is false.
func (p *Plugin) OutputsFor(options map[string]any) []string {
	if full, ok := options["full"].(bool); ok && !full {
		return []string{IndexTxt}
	}
	return []string{IndexTxt, FullTxt}
}

func (p *Plugin) Execute(ctx context.Context, pc *plugin.PluginContext) error {
	if pc.Site == nil {
		return fmt.Errorf("no site configuration")
	}
	if _, err := pc.WriteFile(IndexTxt, Index(pc.Site, pc.Index, pc.String("description", ""))); err != nil {
		return err
	}
	if !pc.Bool("full", true) {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := pc.WriteFile(FullTxt, Full(pc.Site, pc.Index))
	return err
}

// Index renders llms.txt: the site title, an optional summary, and one link
// section per top-level sidebar group. Top-level leaves are listed first
// under "Pages".
func Index(cfg *site.SiteConfig, idx *content.Index, description string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s\n", cfg.Title)
	if description = strings.TrimSpace(description); description != "" {
		fmt.Fprintf(&b, "\n> %s\n", oneLine(description))
	}

	var pages []site.NavNode
	for _, n := range cfg.Sidebar {
		if n.IsLeaf() {
			pages = append(pages, n)
		}
	}
	if len(pages) > 0 {
		b.WriteString("\n## Pages\n\n")
		writeList(&b, cfg, idx, pages, 0)
	}
	for _, n := range cfg.Sidebar {
		if !n.IsGroup() || len(n.Items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n", n.Label)
		writeList(&b, cfg, idx, n.Items, 0)
	}
	if len(cfg.Social) > 0 {
		b.WriteString("\n## Optional\n\n")
		for _, s := range cfg.Social {
			fmt.Fprintf(&b, "- [%s](%s)\n", s.Label, s.Href)
		}
	}
	return b.Bytes()
}

func writeList(b *bytes.Buffer, cfg *site.SiteConfig, idx *content.Index, nodes []site.NavNode, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		switch {
		case n.IsGroup():
			fmt.Fprintf(b, "%s- %s\n", indent, n.Label)
			writeList(b, cfg, idx, n.Items, depth+1)
		case n.Link != "":
			fmt.Fprintf(b, "%s- [%s](%s)\n", indent, n.Label, n.Link)
		default:
			fmt.Fprintf(b, "%s- [%s](%s)", indent, n.Label, pageURL(cfg, n.Slug))
			if d, ok := lookup(idx, n.Slug); ok && d.Description != "" {
				fmt.Fprintf(b, ": %s", oneLine(d.Description))
			}
			b.WriteByte('\n')
		}
	}
}

// Full renders llms-full.txt: every document referenced by the sidebar, in
// navigation order, with its Markdown body.
func Full(cfg *site.SiteConfig, idx *content.Index) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s\n", cfg.Title)

	var seen []string
	_ = cfg.Walk(func(_ []string, n site.NavNode) error {
		if !n.IsLeaf() || n.Slug == "" || slices.Contains(seen, n.Slug) {
			return nil
		}
		seen = append(seen, n.Slug)
		d, ok := lookup(idx, n.Slug)
		if !ok {
			return nil
		}
		fmt.Fprintf(&b, "\n## %s\n\nSource: %s\n\n", d.Title, pageURL(cfg, d.Slug))
		if body := bytes.TrimSpace(d.Body); len(body) > 0 {
			b.Write(body)
			b.WriteByte('\n')
		}
		return nil
	})
	return b.Bytes()
}

func lookup(idx *content.Index, slug string) (*content.Doc, bool) {
	if idx == nil {
		return nil, false
	}
	return idx.Lookup(slug)
}

// pageURL is the public URL of a slug, absolute when the site URL is known.
func pageURL(cfg *site.SiteConfig, slug string) string {
	p := "/" + slug
	if slug != "" {
		p += "/"
	}
	if u := cfg.SiteURL(); u != nil {
		return strings.TrimSuffix(u.String(), "/") + p
	}
	return p
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
