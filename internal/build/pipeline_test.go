package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"git.home.luguber.info/inful/docsite/internal/config"
	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/manifest"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/plugin"
	"git.home.luguber.info/inful/docsite/internal/plugin/llmstxt"
	"git.home.luguber.info/inful/docsite/internal/plugin/theme"
	"git.home.luguber.info/inful/docsite/internal/site"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectYAML = `title: Alita Robot
site: https://docs.example.org
social:
  - icon: github
    label: GitHub
    href: https://github.com/example/alita
plugins:
  - name: llms-txt
    options:
      description: Telegram group management bot
  - name: theme
    options:
      accent: blue
sidebar:
  - label: Getting Started
    items:
      - label: Introduction
        slug: getting-started/introduction
  - label: Commands
    autogenerate:
      directory: commands
`

func writeProject(t *testing.T, yaml string, files map[string]string) *config.Config {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		full := filepath.Join(root, "src/content/docs", filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte(body), 0o600))
	}
	path := filepath.Join(root, config.DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	return cfg
}

func alitaFiles() map[string]string {
	return map[string]string{
		"getting-started/introduction.md": "---\ntitle: Introduction\n---\nWelcome to Alita.\n",
		"commands/index.md":               "---\ntitle: Overview\nsidebar:\n  order: 0\n---\nAll commands.\n",
		"commands/admin.md":               "# Admin\n\nPromote and demote.\n",
		"commands/bans.md":                "# Bans\n\nBan users.\n",
	}
}

func fixedService() *Service {
	s := NewService()
	s.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	s.newID = func() string { return "build-1" }
	return s
}

func TestRunWritesOutputs(t *testing.T) {
	cfg := writeProject(t, projectYAML, alitaFiles())

	res, err := fixedService().Run(context.Background(), Request{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, BuildStatusSuccess, res.Status)
	assert.Equal(t, "build-1", res.BuildID)
	assert.Equal(t, 4, res.Index.Len())

	require.Len(t, res.Expanded.Sidebar, 2)
	commands := res.Expanded.Sidebar[1]
	assert.Nil(t, commands.Autogenerate)
	require.Len(t, commands.Items, 3)
	assert.Equal(t, "commands", commands.Items[0].Slug)

	for _, name := range []string{llmstxt.IndexTxt, llmstxt.FullTxt, manifest.FileName} {
		_, err := os.Stat(filepath.Join(cfg.OutputPath(), name))
		assert.NoError(t, err, name)
	}

	m, err := manifest.Read(cfg.OutputPath())
	require.NoError(t, err)
	assert.Equal(t, manifest.StatusSuccess, m.Status)
	assert.Equal(t, res.Site.Fingerprint(), m.Inputs.ConfigHash)
	assert.Len(t, m.Inputs.Documents, 4)
	require.Len(t, m.Plugins, 2)
	assert.Equal(t, llmstxt.Name, m.Plugins[0].Name)
	assert.Equal(t, manifest.StatusSuccess, m.Plugins[1].Status)
	assert.Contains(t, m.Outputs.Artifacts, llmstxt.IndexTxt)
	assert.Equal(t, res.NavNodes(), m.Outputs.NavNodes)
}

func TestRunOutputDirOverride(t *testing.T) {
	cfg := writeProject(t, projectYAML, alitaFiles())
	out := filepath.Join(t.TempDir(), "public")

	res, err := fixedService().Run(context.Background(), Request{Config: cfg, OutputDir: out})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, manifest.FileName), res.ManifestPath)
}

func TestCheckDoesNotWrite(t *testing.T) {
	cfg := writeProject(t, projectYAML, alitaFiles())

	res, err := fixedService().Check(context.Background(), Request{Config: cfg, Content: true})
	require.NoError(t, err)
	assert.Equal(t, BuildStatusSuccess, res.Status)
	assert.NotNil(t, res.Expanded)

	_, err = os.Stat(cfg.OutputPath())
	assert.True(t, os.IsNotExist(err))
}

func TestCheckWithoutContent(t *testing.T) {
	// No content directory exists; only the configuration is checked.
	cfg := writeProject(t, projectYAML, nil)

	res, err := fixedService().Check(context.Background(), Request{Config: cfg})
	require.NoError(t, err)
	assert.NotNil(t, res.Site)
	assert.Nil(t, res.Index)
	assert.Nil(t, res.Expanded)
}

func TestConfigErrorIsClassified(t *testing.T) {
	yaml := strings.Replace(projectYAML, "        slug: getting-started/introduction\n", "", 1)
	cfg := writeProject(t, yaml, alitaFiles())

	res, err := fixedService().Check(context.Background(), Request{Config: cfg})
	require.Error(t, err)
	assert.Equal(t, BuildStatusFailed, res.Status)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.ErrorIs(t, err, site.ErrMissingField)

	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	path, _ := ce.Context().GetString("path")
	assert.Equal(t, `["Getting Started" "Introduction"]`, path)
}

func TestUnknownPluginIsConfigError(t *testing.T) {
	yaml := strings.Replace(projectYAML, "name: theme", "name: search", 1)
	cfg := writeProject(t, yaml, alitaFiles())

	_, err := fixedService().Check(context.Background(), Request{Config: cfg})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.ErrorIs(t, err, site.ErrInvalidKey)
}

func TestUnresolvedSlugFailsContentCheck(t *testing.T) {
	files := alitaFiles()
	delete(files, "getting-started/introduction.md")
	cfg := writeProject(t, projectYAML, files)

	res, err := fixedService().Run(context.Background(), Request{Config: cfg})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryContent))
	assert.Equal(t, BuildStatusFailed, res.Status)
	require.Len(t, res.Problems, 1)
	assert.Equal(t, "getting-started/introduction", res.Problems[0].Target)

	_, err = os.Stat(filepath.Join(cfg.OutputPath(), manifest.FileName))
	assert.True(t, os.IsNotExist(err), "no manifest for a build that never reached plugins")
}

func TestEmptyAutogenerateIsWarning(t *testing.T) {
	files := alitaFiles()
	for name := range files {
		if strings.HasPrefix(name, "commands/") {
			delete(files, name)
		}
	}
	cfg := writeProject(t, projectYAML, files)

	res, err := fixedService().Run(context.Background(), Request{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, BuildStatusWarning, res.Status)
	assert.True(t, res.Status.IsSuccess())
	require.Len(t, res.Warnings(), 1)
	assert.Empty(t, res.Expanded.Sidebar[1].Items)
	assert.Equal(t, manifest.StatusWarning, res.Manifest.Status)
	assert.Len(t, res.Manifest.Warnings, 1)
}

func TestFailingPluginStillWritesManifest(t *testing.T) {
	cfg := writeProject(t, projectYAML, alitaFiles())
	broken := &brokenTheme{Plugin: theme.New()}
	svc := fixedService().WithRegistry(plugin.NewRegistry(llmstxt.New(), broken))

	res, err := svc.Run(context.Background(), Request{Config: cfg})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryPlugin))
	assert.Equal(t, BuildStatusFailed, res.Status)

	m, rerr := manifest.Read(cfg.OutputPath())
	require.NoError(t, rerr)
	assert.Equal(t, manifest.StatusFailed, m.Status)
	require.Len(t, m.Plugins, 2)
	assert.Equal(t, manifest.StatusSuccess, m.Plugins[0].Status)
	assert.Equal(t, manifest.StatusFailed, m.Plugins[1].Status)
	assert.Contains(t, m.Plugins[1].Error, "palette unavailable")
	assert.NotContains(t, m.Outputs.Artifacts, "theme.json")
}

// stageResults records the last result of each stage.
type stageResults struct {
	metrics.NoopRecorder
	results map[string]metrics.ResultLabel
}

func (r *stageResults) IncStageResult(stage string, result metrics.ResultLabel) {
	r.results[stage] = result
}

func TestFailingPluginRecordsStageWarning(t *testing.T) {
	cfg := writeProject(t, projectYAML, alitaFiles())
	rec := &stageResults{results: map[string]metrics.ResultLabel{}}
	broken := &brokenTheme{Plugin: theme.New()}
	svc := fixedService().WithRegistry(plugin.NewRegistry(llmstxt.New(), broken)).WithRecorder(rec)

	_, err := svc.Run(context.Background(), Request{Config: cfg})
	require.Error(t, err)
	assert.Equal(t, metrics.ResultSuccess, rec.results[StageResolve])
	assert.Equal(t, metrics.ResultWarning, rec.results[StagePlugins])
	assert.Equal(t, metrics.ResultSuccess, rec.results[StageManifest])
}

func TestRunDetectsUnchangedInputs(t *testing.T) {
	cfg := writeProject(t, projectYAML, alitaFiles())

	first, err := fixedService().Run(context.Background(), Request{Config: cfg})
	require.NoError(t, err)
	assert.False(t, first.Unchanged)

	second, err := fixedService().Run(context.Background(), Request{Config: cfg})
	require.NoError(t, err)
	assert.True(t, second.Unchanged)

	page := filepath.Join(cfg.ContentPath(), "commands", "bans.md")
	require.NoError(t, os.WriteFile(page, []byte("# Bans\n\nBan and unban users.\n"), 0o600))
	third, err := fixedService().Run(context.Background(), Request{Config: cfg})
	require.NoError(t, err)
	assert.False(t, third.Unchanged)
}

func TestRunWritesMetricsTextfile(t *testing.T) {
	yaml := projectYAML + "build:\n  metrics_file: metrics/docsite.prom\n"
	cfg := writeProject(t, yaml, alitaFiles())

	_, err := fixedService().Run(context.Background(), Request{Config: cfg})
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.MetricsPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "docsite_build_outcomes_total")
	assert.Contains(t, string(data), "docsite_content_documents 4")
}

func TestRunCancelled(t *testing.T) {
	cfg := writeProject(t, projectYAML, alitaFiles())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewService().WithRecorder(metrics.NoopRecorder{}).Run(ctx, Request{Config: cfg})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, BuildStatusCancelled, res.Status)
}

type brokenTheme struct {
	*theme.Plugin
}

func (b *brokenTheme) Execute(context.Context, *plugin.PluginContext) error {
	return errors.New("palette unavailable")
}

func TestRunWithoutConfig(t *testing.T) {
	res, err := fixedService().Run(context.Background(), Request{})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.Equal(t, BuildStatusFailed, res.Status)
}
