// Package theme writes theme.json, the appearance settings handed to the
// site renderer: logos per color mode, custom stylesheets, accent color and
// the default color mode.
package theme

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/foundation/normalization"
	"git.home.luguber.info/inful/docsite/internal/plugin"
	"git.home.luguber.info/inful/docsite/internal/site"
)

const (
	Name       = "theme"
	OutputFile = "theme.json"
)

// Mode is the color mode a visitor sees before choosing one.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
)

var modeNormalizer = normalization.NewNormalizer(map[string]Mode{
	"auto":   ModeAuto,
	"system": ModeAuto,
	"dark":   ModeDark,
	"light":  ModeLight,
}, ModeAuto)

// namedAccents are the palette names accepted besides hex colors.
var namedAccents = []string{"blue", "cyan", "green", "indigo", "orange", "pink", "purple", "red", "teal", "yellow"}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Manifest is the content of theme.json.
type Manifest struct {
	Title       string            `json:"title"`
	Logo        map[string]string `json:"logo,omitempty"`
	CustomCSS   []string          `json:"customCss,omitempty"`
	Social      []site.SocialLink `json:"social,omitempty"`
	Accent      string            `json:"accent,omitempty"`
	DefaultMode Mode              `json:"defaultMode"`
}

// Plugin generates theme.json.
type Plugin struct{}

// New creates the theme plugin.
func New() *Plugin { return &Plugin{} }

func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        Name,
		Version:     "v1.0.0",
		Type:        plugin.PluginTypeTheme,
		Description: "Theme manifest for the site renderer",
		Outputs:     []string{OutputFile},
	}
}

func (p *Plugin) Validate(options map[string]any) error {
	for k, v := range options {
		s, ok := v.(string)
		switch k {
		case "accent":
			if !ok {
				return fmt.Errorf("accent must be a string, got %T", v)
			}
			if _, err := normalizeAccent(s); err != nil {
				return err
			}
		case "default_mode":
			if !ok {
				return fmt.Errorf("default_mode must be a string, got %T", v)
			}
			if _, err := modeNormalizer.NormalizeWithError(s); err != nil {
				return fmt.Errorf("default_mode: %w", err)
			}
		default:
			return fmt.Errorf("unknown option %q (known: accent, default_mode)", k)
		}
	}
	return nil
}

func (p *Plugin) Execute(_ context.Context, pc *plugin.PluginContext) error {
	if pc.Site == nil {
		return fmt.Errorf("no site configuration")
	}
	m, err := Build(pc.Site, pc.String("accent", ""), pc.String("default_mode", ""))
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal theme manifest: %w", err)
	}
	_, err = pc.WriteFile(OutputFile, append(data, '\n'))
	return err
}

// Build assembles the manifest. An empty mode means auto.
func Build(cfg *site.SiteConfig, accent, mode string) (*Manifest, error) {
	m := &Manifest{
		Title:       cfg.Title,
		CustomCSS:   cfg.CustomCSS,
		Social:      cfg.Social,
		DefaultMode: modeNormalizer.Normalize(mode),
	}
	if len(cfg.Logo) > 0 {
		m.Logo = make(map[string]string, len(cfg.Logo))
		for k, v := range cfg.Logo {
			m.Logo[string(k)] = v
		}
	}
	if accent != "" {
		a, err := normalizeAccent(accent)
		if err != nil {
			return nil, err
		}
		m.Accent = a
	}
	return m, nil
}

func normalizeAccent(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if hexColor.MatchString(s) {
		return s, nil
	}
	for _, name := range namedAccents {
		if s == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("accent %q is neither a hex color nor one of %s", raw, strings.Join(namedAccents, ", "))
}
