package site

// Raw converts a resolved config back to its authored form, so that
// Resolve(cfg.Raw()) yields a config equal to cfg.
func (c *SiteConfig) Raw() RawConfig {
	raw := RawConfig{
		Title:     c.Title,
		Site:      c.Site,
		CustomCSS: append([]string(nil), c.CustomCSS...),
		Sidebar:   rawNodes(c.Sidebar),
	}
	if c.Logo != nil {
		raw.Logo = make(map[string]string, len(c.Logo))
		for k, v := range c.Logo {
			raw.Logo[string(k)] = v
		}
	}
	for _, s := range c.Social {
		raw.Social = append(raw.Social, RawSocialLink(s))
	}
	for _, p := range c.Plugins {
		raw.Plugins = append(raw.Plugins, RawPlugin{Name: p.Name, Options: cloneOptions(p.Options)})
	}
	return raw
}

func rawNodes(nodes []NavNode) []RawNavNode {
	if nodes == nil {
		return nil
	}
	out := make([]RawNavNode, 0, len(nodes))
	for _, n := range nodes {
		rn := RawNavNode{Label: n.Label}
		if n.IsLeaf() {
			rn.Slug = n.Slug
			rn.Link = n.Link
			out = append(out, rn)
			continue
		}
		if n.Collapsed {
			collapsed := true
			rn.Collapsed = &collapsed
		}
		if n.Autogenerate != nil {
			rn.Autogenerate = &RawAutogenerate{Directory: n.Autogenerate.Directory}
		} else {
			rn.Items = rawNodes(n.Items)
			if rn.Items == nil {
				rn.Items = []RawNavNode{}
			}
		}
		out = append(out, rn)
	}
	return out
}
