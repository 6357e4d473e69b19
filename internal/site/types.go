package site

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"slices"
)

// LogoMode is a theme mode a logo variant applies to.
type LogoMode string

const (
	LogoDark  LogoMode = "dark"
	LogoLight LogoMode = "light"
)

// LogoModes lists the accepted logo keys in canonical order.
var LogoModes = []LogoMode{LogoDark, LogoLight}

// NodeKind tells groups and leaves apart.
type NodeKind string

const (
	KindGroup NodeKind = "group"
	KindLeaf  NodeKind = "leaf"
)

// SiteConfig is the validated site description handed to the rendering
// pipeline and plugins. It is built once by Resolve and must be treated as
// read-only; use Clone before making a modified copy.
type SiteConfig struct {
	Title     string              `json:"title" yaml:"title"`
	Site      string              `json:"site,omitempty" yaml:"site,omitempty"`
	Logo      map[LogoMode]string `json:"logo,omitempty" yaml:"logo,omitempty"`
	CustomCSS []string            `json:"customCss,omitempty" yaml:"customCss,omitempty"`
	Social    []SocialLink        `json:"social,omitempty" yaml:"social,omitempty"`
	Plugins   []PluginRef         `json:"plugins,omitempty" yaml:"plugins,omitempty"`
	Sidebar   []NavNode           `json:"sidebar,omitempty" yaml:"sidebar,omitempty"`
}

// SocialLink is a header link to an external profile.
type SocialLink struct {
	Icon  string `json:"icon" yaml:"icon"`
	Label string `json:"label" yaml:"label"`
	Href  string `json:"href" yaml:"href"`
}

// PluginRef enables a plugin. Options are opaque to the resolver.
type PluginRef struct {
	Name    string         `json:"name" yaml:"name"`
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// NavNode is a sidebar entry. Groups carry Items or Autogenerate (never both);
// leaves carry exactly one of Slug or Link.
type NavNode struct {
	Kind         NodeKind      `json:"kind" yaml:"kind"`
	Label        string        `json:"label" yaml:"label"`
	Collapsed    bool          `json:"collapsed,omitempty" yaml:"collapsed,omitempty"`
	Items        []NavNode     `json:"items,omitempty" yaml:"items,omitempty"`
	Autogenerate *Autogenerate `json:"autogenerate,omitempty" yaml:"autogenerate,omitempty"`
	Slug         string        `json:"slug,omitempty" yaml:"slug,omitempty"`
	Link         string        `json:"link,omitempty" yaml:"link,omitempty"`
}

// Autogenerate is an unexpanded directive; the pipeline turns it into leaves.
type Autogenerate struct {
	Directory string `json:"directory" yaml:"directory"`
}

func (n NavNode) IsGroup() bool { return n.Kind == KindGroup }
func (n NavNode) IsLeaf() bool  { return n.Kind == KindLeaf }

// SiteURL returns the parsed site URL, or nil when none is configured.
func (c *SiteConfig) SiteURL() *url.URL {
	if c.Site == "" {
		return nil
	}
	u, err := url.Parse(c.Site)
	if err != nil {
		return nil
	}
	return u
}

// Walk visits every sidebar node depth-first in declared order. path holds the
// labels from the root to the visited node inclusive. Returning a non-nil
// error stops the walk.
func (c *SiteConfig) Walk(fn func(path []string, n NavNode) error) error {
	return walkNodes(c.Sidebar, nil, fn)
}

func walkNodes(nodes []NavNode, parent []string, fn func([]string, NavNode) error) error {
	for _, n := range nodes {
		path := append(slices.Clip(parent), n.Label)
		if err := fn(path, n); err != nil {
			return err
		}
		if n.IsGroup() {
			if err := walkNodes(n.Items, path, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (c *SiteConfig) Clone() *SiteConfig {
	if c == nil {
		return nil
	}
	out := &SiteConfig{
		Title:     c.Title,
		Site:      c.Site,
		CustomCSS: slices.Clone(c.CustomCSS),
		Social:    slices.Clone(c.Social),
		Sidebar:   cloneNodes(c.Sidebar),
	}
	if c.Logo != nil {
		out.Logo = make(map[LogoMode]string, len(c.Logo))
		for k, v := range c.Logo {
			out.Logo[k] = v
		}
	}
	for _, p := range c.Plugins {
		out.Plugins = append(out.Plugins, PluginRef{Name: p.Name, Options: cloneOptions(p.Options)})
	}
	return out
}

func cloneNodes(nodes []NavNode) []NavNode {
	if nodes == nil {
		return nil
	}
	out := make([]NavNode, len(nodes))
	for i, n := range nodes {
		out[i] = n
		if n.Items != nil {
			out[i].Items = cloneNodes(n.Items)
		}
		if n.Autogenerate != nil {
			ag := *n.Autogenerate
			out[i].Autogenerate = &ag
		}
	}
	return out
}

func cloneOptions(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneOptions(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Fingerprint is a stable hash of the resolved configuration. Map keys are
// sorted by encoding/json, so equal configs hash equally.
func (c *SiteConfig) Fingerprint() string {
	if c == nil {
		return ""
	}
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
