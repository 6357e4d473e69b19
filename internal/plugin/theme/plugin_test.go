package theme

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"git.home.luguber.info/inful/docsite/internal/plugin"
	"git.home.luguber.info/inful/docsite/internal/site"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alita(t *testing.T) *site.SiteConfig {
	t.Helper()
	cfg, err := site.Resolve(site.RawConfig{
		Title:     "Alita Robot",
		Logo:      map[string]string{"dark": "./src/assets/logo-dark.svg", "light": "./src/assets/logo-light.svg"},
		CustomCSS: []string{"./src/styles/custom.css"},
	})
	require.NoError(t, err)
	return cfg
}

func TestValidate(t *testing.T) {
	p := New()
	require.NoError(t, p.Validate(nil))
	require.NoError(t, p.Validate(map[string]any{"accent": "Indigo", "default_mode": " Dark "}))
	require.NoError(t, p.Validate(map[string]any{"accent": "#3b82f6"}))
	require.NoError(t, p.Validate(map[string]any{"default_mode": "system"}))

	for name, opts := range map[string]map[string]any{
		"bad accent":    {"accent": "chartreuse"},
		"bad hex":       {"accent": "#12345"},
		"accent type":   {"accent": 7},
		"bad mode":      {"default_mode": "sepia"},
		"mode type":     {"default_mode": true},
		"unknown field": {"font": "Inter"},
	} {
		assert.Error(t, p.Validate(opts), name)
	}
}

func TestBuild(t *testing.T) {
	m, err := Build(alita(t), " Indigo", "")
	require.NoError(t, err)
	assert.Equal(t, &Manifest{
		Title:       "Alita Robot",
		Logo:        map[string]string{"dark": "./src/assets/logo-dark.svg", "light": "./src/assets/logo-light.svg"},
		CustomCSS:   []string{"./src/styles/custom.css"},
		Accent:      "indigo",
		DefaultMode: ModeAuto,
	}, m)

	m, err = Build(alita(t), "", "LIGHT")
	require.NoError(t, err)
	assert.Equal(t, ModeLight, m.DefaultMode)
	assert.Empty(t, m.Accent)
}

func TestExecuteWritesManifest(t *testing.T) {
	out := t.TempDir()
	pc := plugin.NewPluginContext(nil, alita(t), nil, out, "b").
		ForPlugin(Name, map[string]any{"accent": "#ABC", "default_mode": "dark"})

	require.NoError(t, New().Execute(context.Background(), pc))

	data, err := os.ReadFile(filepath.Join(out, OutputFile))
	require.NoError(t, err)
	var m Manifest
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "#abc", m.Accent)
	assert.Equal(t, ModeDark, m.DefaultMode)
	assert.Equal(t, "./src/assets/logo-light.svg", m.Logo["light"])
}
