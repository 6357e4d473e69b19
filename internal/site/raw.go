package site

import "encoding/json"

// RawConfig is the site description as authored in the project file. It is
// decoded verbatim and carries no guarantees until passed through Resolve.
type RawConfig struct {
	Title     string            `yaml:"title" json:"title"`
	Site      string            `yaml:"site,omitempty" json:"site,omitempty"`
	Logo      map[string]string `yaml:"logo,omitempty" json:"logo,omitempty"`
	CustomCSS []string          `yaml:"customCss,omitempty" json:"customCss,omitempty"`
	Social    []RawSocialLink   `yaml:"social,omitempty" json:"social,omitempty"`
	Plugins   []RawPlugin       `yaml:"plugins,omitempty" json:"plugins,omitempty"`
	Sidebar   []RawNavNode      `yaml:"sidebar,omitempty" json:"sidebar,omitempty"`
}

// RawSocialLink is an authored social link entry.
type RawSocialLink struct {
	Icon  string `yaml:"icon" json:"icon"`
	Label string `yaml:"label" json:"label"`
	Href  string `yaml:"href" json:"href"`
}

// RawPlugin enables a plugin by name with plugin-specific options.
type RawPlugin struct {
	Name    string         `yaml:"name" json:"name"`
	Options map[string]any `yaml:"options,omitempty" json:"options,omitempty"`
}

// RawNavNode is an authored sidebar entry. Which fields are set decides
// whether it becomes a group or a leaf.
//
// Items distinguishes absent (nil) from an explicitly empty list, since
// "items: []" next to autogenerate is still a conflicting directive.
type RawNavNode struct {
	Label        string           `yaml:"label" json:"label"`
	Slug         string           `yaml:"slug,omitempty" json:"slug,omitempty"`
	Link         string           `yaml:"link,omitempty" json:"link,omitempty"`
	Collapsed    *bool            `yaml:"collapsed,omitempty" json:"collapsed,omitempty"`
	Items        []RawNavNode     `yaml:"items,omitempty" json:"items,omitempty"`
	Autogenerate *RawAutogenerate `yaml:"autogenerate,omitempty" json:"autogenerate,omitempty"`
}

// RawAutogenerate names a content directory to derive sidebar leaves from.
type RawAutogenerate struct {
	Directory string `yaml:"directory" json:"directory"`
}

// rawNavNodeOut mirrors RawNavNode for encoding, keeping a present but empty
// items list visible in the output.
type rawNavNodeOut struct {
	Label        string           `yaml:"label" json:"label"`
	Slug         string           `yaml:"slug,omitempty" json:"slug,omitempty"`
	Link         string           `yaml:"link,omitempty" json:"link,omitempty"`
	Collapsed    *bool            `yaml:"collapsed,omitempty" json:"collapsed,omitempty"`
	Items        *[]RawNavNode    `yaml:"items,omitempty" json:"items,omitempty"`
	Autogenerate *RawAutogenerate `yaml:"autogenerate,omitempty" json:"autogenerate,omitempty"`
}

func (n RawNavNode) out() rawNavNodeOut {
	o := rawNavNodeOut{
		Label:        n.Label,
		Slug:         n.Slug,
		Link:         n.Link,
		Collapsed:    n.Collapsed,
		Autogenerate: n.Autogenerate,
	}
	if n.Items != nil {
		items := n.Items
		o.Items = &items
	}
	return o
}

// MarshalYAML implements yaml.Marshaler.
func (n RawNavNode) MarshalYAML() (any, error) {
	return n.out(), nil
}

// MarshalJSON implements json.Marshaler.
func (n RawNavNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.out())
}
