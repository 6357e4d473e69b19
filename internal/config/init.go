package config

import (
	"errors"
	"fmt"
	"os"

	"git.home.luguber.info/inful/docsite/internal/site"
	"gopkg.in/yaml.v3"
)

// Example returns the starter project used by Init.
func Example() *Config {
	collapsed := true
	expanded := false
	group := func(label, dir string, c *bool) site.RawNavNode {
		return site.RawNavNode{Label: label, Collapsed: c, Autogenerate: &site.RawAutogenerate{Directory: dir}}
	}
	return &Config{
		RawConfig: site.RawConfig{
			Title: "Alita Robot",
			Social: []site.RawSocialLink{
				{Icon: "github", Label: "GitHub", Href: "https://github.com/divkix/Alita_Robot"},
			},
			Plugins: []site.RawPlugin{
				{Name: "theme", Options: map[string]any{"accent": "blue", "default_mode": "auto"}},
				{Name: "llms-txt", Options: map[string]any{"description": "Documentation for Alita Robot"}},
			},
			Sidebar: []site.RawNavNode{
				{
					Label: "Getting Started",
					Items: []site.RawNavNode{
						{Label: "Introduction", Slug: "getting-started/introduction"},
						{Label: "Quick Start", Slug: "getting-started/quick-start"},
					},
				},
				group("Commands", "commands", &expanded),
				group("Self-Hosting", "self-hosting", &collapsed),
				group("Architecture", "architecture", &collapsed),
				group("API Reference", "api-reference", &collapsed),
				group("Contributing", "contributing", &collapsed),
			},
		},
		Build: BuildConfig{
			ContentDir: DefaultContentDir,
			OutputDir:  DefaultOutputDir,
		},
	}
}

// Init writes the example project file. An existing file is only replaced when force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
