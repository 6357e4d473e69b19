package content

import (
	"testing"

	"git.home.luguber.info/inful/docsite/internal/site"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolved(t *testing.T, sidebar ...site.RawNavNode) *site.SiteConfig {
	t.Helper()
	cfg, err := site.Resolve(site.RawConfig{Title: "Alita Robot", Sidebar: sidebar})
	require.NoError(t, err)
	return cfg
}

func leaf(label, slug string) site.NavNode {
	return site.NavNode{Kind: site.KindLeaf, Label: label, Slug: slug}
}

func TestExpandCommands(t *testing.T) {
	yes := true
	cfg := resolved(t,
		site.RawNavNode{Label: "Getting Started", Items: []site.RawNavNode{
			{Label: "Introduction", Slug: "getting-started/introduction"},
		}},
		site.RawNavNode{Label: "Commands", Autogenerate: &site.RawAutogenerate{Directory: "commands"}},
		site.RawNavNode{Label: "Self-Hosting", Collapsed: &yes, Autogenerate: &site.RawAutogenerate{Directory: "self-hosting"}},
	)

	out, err := Expand(cfg, scan(t, alitaContent()))
	require.NoError(t, err)

	want := []site.NavNode{
		{Kind: site.KindGroup, Label: "Getting Started", Items: []site.NavNode{
			leaf("Introduction", "getting-started/introduction"),
		}},
		{Kind: site.KindGroup, Label: "Commands", Items: []site.NavNode{
			leaf("Overview", "commands"),
			leaf("Admin", "commands/admin"),
			{Kind: site.KindGroup, Label: "Anti Spam", Items: []site.NavNode{
				leaf("Blacklists", "commands/anti-spam/blacklist"),
				leaf("Flood", "commands/anti-spam/flood"),
			}},
			leaf("Bans", "commands/bans"),
		}},
		{Kind: site.KindGroup, Label: "Self-Hosting", Collapsed: true, Items: []site.NavNode{
			leaf("Docker Compose", "self-hosting/docker_compose"),
		}},
	}
	if diff := cmp.Diff(want, out.Sidebar); diff != "" {
		t.Fatalf("expanded sidebar mismatch (-want +got):\n%s", diff)
	}

	require.NotNil(t, cfg.Sidebar[1].Autogenerate, "input config must not be modified")
	assert.Nil(t, cfg.Sidebar[1].Items)
}

func TestExpandInheritsCollapsed(t *testing.T) {
	yes := true
	cfg := resolved(t, site.RawNavNode{
		Label: "Commands", Collapsed: &yes,
		Autogenerate: &site.RawAutogenerate{Directory: "commands"},
	})
	out, err := Expand(cfg, scan(t, alitaContent()))
	require.NoError(t, err)

	var groups []site.NavNode
	_ = out.Walk(func(_ []string, n site.NavNode) error {
		if n.IsGroup() {
			groups = append(groups, n)
		}
		return nil
	})
	require.Len(t, groups, 2)
	for _, g := range groups {
		assert.True(t, g.Collapsed, g.Label)
	}
}

func TestExpandOrderThenLabel(t *testing.T) {
	idx, err := NewIndex(
		&Doc{Slug: "ref/zeta", Path: "ref/zeta.md", Title: "zeta"},
		&Doc{Slug: "ref/alpha", Path: "ref/alpha.md", Title: "Alpha"},
		&Doc{Slug: "ref/beta", Path: "ref/beta.md", Title: "beta"},
		&Doc{Slug: "ref/last", Path: "ref/last.md", Title: "Last", Order: intPtr(9)},
		&Doc{Slug: "ref/first", Path: "ref/first.md", Title: "First", Order: intPtr(-1)},
		&Doc{Slug: "ref/renamed", Path: "ref/renamed.md", Title: "Renamed", SidebarLabel: "Aardvark"},
	)
	require.NoError(t, err)

	cfg := resolved(t, site.RawNavNode{Label: "Reference", Autogenerate: &site.RawAutogenerate{Directory: "ref"}})
	out, err := Expand(cfg, idx)
	require.NoError(t, err)

	var labels []string
	for _, n := range out.Sidebar[0].Items {
		labels = append(labels, n.Label)
	}
	assert.Equal(t, []string{"First", "Last", "Aardvark", "Alpha", "beta", "zeta"}, labels)
}

func TestExpandEmptyDirectory(t *testing.T) {
	cfg := resolved(t, site.RawNavNode{Label: "API Reference", Autogenerate: &site.RawAutogenerate{Directory: "api"}})
	out, err := Expand(cfg, scan(t, alitaContent()))
	require.NoError(t, err)

	g := out.Sidebar[0]
	assert.True(t, g.IsGroup())
	assert.Nil(t, g.Autogenerate)
	assert.NotNil(t, g.Items)
	assert.Empty(t, g.Items)
}

func TestExpandDuplicateGeneratedLabel(t *testing.T) {
	idx, err := NewIndex(
		&Doc{Slug: "faq/a", Path: "faq/a.md", Title: "Same"},
		&Doc{Slug: "faq/b", Path: "faq/b.md", Title: "Same"},
	)
	require.NoError(t, err)

	cfg := resolved(t, site.RawNavNode{Label: "FAQ", Autogenerate: &site.RawAutogenerate{Directory: "faq"}})
	_, err = Expand(cfg, idx)
	require.Error(t, err)
	assert.ErrorIs(t, err, &site.ConfigError{Kind: site.KindDuplicateLabel, Path: []string{"FAQ", "Same"}})
	assert.Contains(t, err.Error(), "page faq/a.md and page faq/b.md")
}

func TestExpandPageAndDirectorySameLabel(t *testing.T) {
	idx, err := NewIndex(
		&Doc{Slug: "commands/admin", Path: "commands/admin.md", Title: "Admin"},
		&Doc{Slug: "commands/admin/ban", Path: "commands/admin/ban.md", Title: "Ban"},
	)
	require.NoError(t, err)

	cfg := resolved(t, site.RawNavNode{Label: "Commands", Autogenerate: &site.RawAutogenerate{Directory: "commands"}})
	_, err = Expand(cfg, idx)
	require.Error(t, err)
	assert.ErrorIs(t, err, &site.ConfigError{Kind: site.KindDuplicateLabel, Path: []string{"Commands", "Admin"}})
	assert.Contains(t, err.Error(), "commands/admin.md")
	assert.Contains(t, err.Error(), "directory commands/admin/")
}

func TestExpandResultResolves(t *testing.T) {
	cfg := resolved(t, site.RawNavNode{Label: "Commands", Autogenerate: &site.RawAutogenerate{Directory: "commands"}})
	out, err := Expand(cfg, scan(t, alitaContent()))
	require.NoError(t, err)

	again, err := site.Resolve(out.Raw())
	require.NoError(t, err)
	if diff := cmp.Diff(out, again); diff != "" {
		t.Fatalf("expanded config does not round-trip (-want +got):\n%s", diff)
	}
}

func intPtr(v int) *int { return &v }
