package site

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Resolve validates raw and returns the canonical SiteConfig. It performs no
// I/O: autogenerate directives stay unexpanded and slugs/assets are not
// checked against the filesystem. The first problem aborts resolution with a
// *ConfigError.
func Resolve(raw RawConfig) (*SiteConfig, error) {
	cfg := &SiteConfig{}

	cfg.Title = strings.TrimSpace(raw.Title)
	if cfg.Title == "" {
		return nil, missing("title", nil, "site title is required")
	}

	site, err := resolveSiteURL(raw.Site)
	if err != nil {
		return nil, err
	}
	cfg.Site = site

	if cfg.Logo, err = resolveLogo(raw.Logo); err != nil {
		return nil, err
	}
	if cfg.CustomCSS, err = resolveCustomCSS(raw.CustomCSS); err != nil {
		return nil, err
	}
	if cfg.Social, err = resolveSocial(raw.Social); err != nil {
		return nil, err
	}
	if cfg.Plugins, err = resolvePlugins(raw.Plugins); err != nil {
		return nil, err
	}
	if cfg.Sidebar, err = resolveNodes(raw.Sidebar, nil, "sidebar"); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveSiteURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", newConfigError(KindInvalidValue, "site", nil, "malformed URL %q: %v", raw, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", newConfigError(KindInvalidValue, "site", nil, "site must be an absolute URL, got %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", newConfigError(KindInvalidValue, "site", nil, "unsupported scheme %q", u.Scheme)
	}
	return u.String(), nil
}

func resolveLogo(raw map[string]string) (map[LogoMode]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make(map[LogoMode]string, len(raw))
	for _, k := range keys {
		mode := LogoMode(k)
		if !slices.Contains(LogoModes, mode) {
			return nil, newConfigError(KindInvalidKey, "logo."+k, nil, "logo mode must be one of dark, light")
		}
		p := strings.TrimSpace(raw[k])
		if p == "" {
			return nil, missing("logo."+k, nil, "logo path is empty")
		}
		out[mode] = p
	}
	return out, nil
}

func resolveCustomCSS(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(raw))
	for i, p := range raw {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, missing(fmt.Sprintf("customCss[%d]", i), nil, "stylesheet path is empty")
		}
		out = append(out, p)
	}
	return out, nil
}

func resolveSocial(raw []RawSocialLink) ([]SocialLink, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]SocialLink, 0, len(raw))
	for i, s := range raw {
		field := fmt.Sprintf("social[%d]", i)
		link := SocialLink{
			Icon:  strings.TrimSpace(s.Icon),
			Label: strings.TrimSpace(s.Label),
			Href:  strings.TrimSpace(s.Href),
		}
		switch {
		case link.Icon == "":
			return nil, missing(field+".icon", nil, "social link icon is required")
		case link.Label == "":
			return nil, missing(field+".label", nil, "social link label is required")
		case link.Href == "":
			return nil, missing(field+".href", nil, "social link href is required")
		}
		if !IsSocialIcon(link.Icon) {
			return nil, newConfigError(KindInvalidKey, field+".icon", nil, "unknown social icon %q", link.Icon)
		}
		if err := checkExternalURL(link.Href); err != nil {
			return nil, newConfigError(KindInvalidValue, field+".href", nil, "%v", err)
		}
		out = append(out, link)
	}
	return out, nil
}

// checkExternalURL accepts http and https URLs with a host and mailto
// addresses.
func checkExternalURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("malformed URL %q", raw)
	}
	switch u.Scheme {
	case "":
		return fmt.Errorf("URL %q has no scheme", raw)
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("URL %q has no host", raw)
		}
	case "mailto":
		if u.Opaque == "" {
			return fmt.Errorf("URL %q has no address", raw)
		}
	default:
		return fmt.Errorf("URL %q has unsupported scheme %q", raw, u.Scheme)
	}
	return nil
}

func resolvePlugins(raw []RawPlugin) ([]PluginRef, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]PluginRef, 0, len(raw))
	seen := make(map[string]int, len(raw))
	for i, p := range raw {
		field := fmt.Sprintf("plugins[%d].name", i)
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, missing(field, nil, "plugin name is required")
		}
		if first, dup := seen[name]; dup {
			return nil, newConfigError(KindDuplicateLabel, field, nil, "plugin %q already enabled at plugins[%d]", name, first)
		}
		seen[name] = i
		out = append(out, PluginRef{Name: name, Options: cloneOptions(p.Options)})
	}
	return out, nil
}

// resolveNodes walks one sibling list top-down. parent is the label path of
// the enclosing group; field is the document location of the list.
func resolveNodes(raw []RawNavNode, parent []string, field string) ([]NavNode, error) {
	if raw == nil {
		return nil, nil
	}
	out := make([]NavNode, 0, len(raw))
	seen := make(map[string]int, len(raw))
	for i, rn := range raw {
		nodeField := fmt.Sprintf("%s[%d]", field, i)
		label := strings.TrimSpace(rn.Label)
		if label == "" {
			return nil, missing(nodeField+".label", parent, "navigation entry needs a label")
		}
		path := append(slices.Clip(parent), label)
		if first, dup := seen[label]; dup {
			return nil, newConfigError(KindDuplicateLabel, nodeField+".label", path,
				"label %q already used by sibling %s[%d]", label, field, first)
		}
		seen[label] = i

		node, err := resolveNode(rn, label, path, nodeField)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	return out, nil
}

func resolveNode(rn RawNavNode, label string, path []string, field string) (NavNode, error) {
	slug := normalizeSlug(rn.Slug)
	link := strings.TrimSpace(rn.Link)
	hasLeaf := rn.Slug != "" || link != ""
	hasGroup := rn.Items != nil || rn.Autogenerate != nil

	switch {
	case hasLeaf && hasGroup:
		return NavNode{}, newConfigError(KindConflictingNavDirective, field, path,
			"entry mixes leaf fields (slug/link) with group fields (items/autogenerate)")
	case rn.Slug != "" && link != "":
		return NavNode{}, newConfigError(KindConflictingNavDirective, field, path, "leaf sets both slug and link")
	case rn.Items != nil && rn.Autogenerate != nil:
		return NavNode{}, newConfigError(KindConflictingNavDirective, field, path,
			"group declares both items and autogenerate")
	case !hasLeaf && !hasGroup:
		return NavNode{}, missing(field, path, "entry needs one of slug, link, items or autogenerate")
	}

	if hasLeaf {
		if rn.Collapsed != nil {
			return NavNode{}, newConfigError(KindInvalidKey, field+".collapsed", path, "only groups can be collapsed")
		}
		if rn.Slug != "" && slug == "" {
			return NavNode{}, missing(field+".slug", path, "slug is empty")
		}
		if link != "" {
			if err := checkLink(link); err != nil {
				return NavNode{}, newConfigError(KindInvalidValue, field+".link", path, "%v", err)
			}
		}
		return NavNode{Kind: KindLeaf, Label: label, Slug: slug, Link: link}, nil
	}

	node := NavNode{Kind: KindGroup, Label: label}
	if rn.Collapsed != nil {
		node.Collapsed = *rn.Collapsed
	}
	if rn.Autogenerate != nil {
		dir := normalizeSlug(rn.Autogenerate.Directory)
		if dir == "" {
			return NavNode{}, missing(field+".autogenerate.directory", path, "autogenerate directory is empty")
		}
		node.Autogenerate = &Autogenerate{Directory: dir}
		return node, nil
	}

	items, err := resolveNodes(rn.Items, path, field+".items")
	if err != nil {
		return NavNode{}, err
	}
	node.Items = items
	return node, nil
}

// checkLink accepts absolute URLs and site-root paths.
func checkLink(link string) error {
	if strings.HasPrefix(link, "/") && !strings.HasPrefix(link, "//") {
		if _, err := url.Parse(link); err != nil {
			return fmt.Errorf("malformed link %q", link)
		}
		return nil
	}
	return checkExternalURL(link)
}

// normalizeSlug trims whitespace and surrounding slashes.
func normalizeSlug(s string) string {
	return strings.Trim(strings.TrimSpace(s), "/")
}
