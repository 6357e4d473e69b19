package content

import (
	"cmp"
	"fmt"
	"path"
	"slices"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/site"
)

// Expand returns a copy of cfg whose autogenerated groups are filled with the
// documents found under their directory. Documents are ordered by
// sidebar.order (lowest first, unordered last), then by label. Subdirectories
// become nested groups that inherit the parent's collapsed state. Drafts and
// documents marked sidebar.hidden are left out. cfg itself is not modified.
func Expand(cfg *site.SiteConfig, idx *Index) (*site.SiteConfig, error) {
	out := cfg.Clone()
	items, err := expandNodes(out.Sidebar, nil, idx)
	if err != nil {
		return nil, err
	}
	out.Sidebar = items
	return out, nil
}

func expandNodes(nodes []site.NavNode, parent []string, idx *Index) ([]site.NavNode, error) {
	for i := range nodes {
		n := &nodes[i]
		if !n.IsGroup() {
			continue
		}
		p := append(slices.Clip(parent), n.Label)
		if n.Autogenerate != nil {
			items, err := generate(n.Autogenerate.Directory, n.Collapsed, p, idx)
			if err != nil {
				return nil, err
			}
			n.Items = items
			n.Autogenerate = nil
			continue
		}
		if _, err := expandNodes(n.Items, p, idx); err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

// dirTree is the document hierarchy below one autogenerated directory.
type dirTree struct {
	name    string
	path    string
	docs    []*Doc
	subdirs map[string]*dirTree
}

func generate(dir string, collapsed bool, groupPath []string, idx *Index) ([]site.NavNode, error) {
	root := &dirTree{subdirs: map[string]*dirTree{}}
	for _, d := range idx.Under(dir) {
		if d.Draft || d.Hidden {
			continue
		}
		t := root
		rel := strings.TrimPrefix(strings.TrimPrefix(d.Dir(), dir), "/")
		if rel != "" {
			names := strings.Split(path.Dir(d.Path), "/")
			segs := strings.Split(rel, "/")
			base := len(names) - len(segs)
			for i, seg := range segs {
				sub, ok := t.subdirs[seg]
				if !ok {
					sub = &dirTree{
						name:    names[base+i],
						path:    strings.Join(names[:base+i+1], "/"),
						subdirs: map[string]*dirTree{},
					}
					t.subdirs[seg] = sub
				}
				t = sub
			}
		}
		t.docs = append(t.docs, d)
	}
	items, err := root.nodes(collapsed, groupPath)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []site.NavNode{}
	}
	return items, nil
}

type entry struct {
	node  site.NavNode
	order *int
	slug  string
	// source names the page file or directory the entry came from.
	source string
}

func (t *dirTree) nodes(collapsed bool, parent []string) ([]site.NavNode, error) {
	entries := make([]entry, 0, len(t.docs)+len(t.subdirs))
	for _, d := range t.docs {
		entries = append(entries, entry{
			node:  site.NavNode{Kind: site.KindLeaf, Label: d.Label(), Slug: d.Slug},
			order:  d.Order,
			slug:   d.Slug,
			source: "page " + d.Path,
		})
	}
	for seg, sub := range t.subdirs {
		label := labelFromName(sub.name)
		items, err := sub.nodes(collapsed, append(slices.Clip(parent), label))
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			continue
		}
		entries = append(entries, entry{
			node:   site.NavNode{Kind: site.KindGroup, Label: label, Collapsed: collapsed, Items: items},
			slug:   seg,
			source: "directory " + sub.path + "/",
		})
	}

	col := labelCollator()
	slices.SortFunc(entries, func(a, b entry) int {
		switch {
		case a.order != nil && b.order != nil:
			if c := cmp.Compare(*a.order, *b.order); c != 0 {
				return c
			}
		case a.order != nil:
			return -1
		case b.order != nil:
			return 1
		}
		if c := col.CompareString(a.node.Label, b.node.Label); c != 0 {
			return c
		}
		return strings.Compare(a.slug, b.slug)
	})

	var out []site.NavNode
	seen := make(map[string]string, len(entries))
	for _, e := range entries {
		if first, dup := seen[e.node.Label]; dup {
			return nil, &site.ConfigError{
				Kind:   site.KindDuplicateLabel,
				Path:   append(slices.Clone(parent), e.node.Label),
				Detail: fmt.Sprintf("generated label %q is used by both %s and %s", e.node.Label, first, e.source),
			}
		}
		seen[e.node.Label] = e.source
		out = append(out, e.node)
	}
	return out, nil
}
