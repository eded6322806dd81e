package scraper

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Selectors holds the CSS selectors that drive extraction. Container
// matches one quote block; the rest are evaluated relative to it,
// except NextPage which is evaluated against the whole document.
type Selectors struct {
	Container string `yaml:"container"`
	Text      string `yaml:"text"`
	Author    string `yaml:"author"`
	Tag       string `yaml:"tag"`
	NextPage  string `yaml:"next_page"`
}

// Profile describes one target site: where pagination starts, how to
// select records, and the ordered output field names. The field list is
// resolved once at configuration time so the CSV header is
// deterministic even when a run collects zero records.
type Profile struct {
	Name      string    `yaml:"name"`
	BaseURL   string    `yaml:"base_url"`
	StartPath string    `yaml:"start_path"`
	Selectors Selectors `yaml:"selectors"`
	Fields    []string  `yaml:"fields"`
}

// DefaultProfile targets quotes.toscrape.com, a site intended for
// scraping practice.
func DefaultProfile() Profile {
	return Profile{
		Name:      "quotes.toscrape.com",
		BaseURL:   "https://quotes.toscrape.com",
		StartPath: "/",
		Selectors: Selectors{
			Container: "div.quote",
			Text:      "span.text",
			Author:    "small.author",
			Tag:       "div.tags a.tag",
			NextPage:  "li.next a",
		},
		Fields: []string{"quote", "author", "tags"},
	}
}

// LoadProfile reads a YAML profile from path. Fields left empty in the
// file fall back to the corresponding DefaultProfile values, so a
// profile only needs to state what differs from the default target.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}

	p := Profile{}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile %s: %w", path, err)
	}
	p.setDefaults()

	if err := p.validate(); err != nil {
		return Profile{}, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return p, nil
}

func (p *Profile) setDefaults() {
	def := DefaultProfile()
	if p.Name == "" {
		p.Name = def.Name
	}
	if p.BaseURL == "" {
		p.BaseURL = def.BaseURL
	}
	if p.StartPath == "" {
		p.StartPath = def.StartPath
	}
	if p.Selectors.Container == "" {
		p.Selectors.Container = def.Selectors.Container
	}
	if p.Selectors.Text == "" {
		p.Selectors.Text = def.Selectors.Text
	}
	if p.Selectors.Author == "" {
		p.Selectors.Author = def.Selectors.Author
	}
	if p.Selectors.Tag == "" {
		p.Selectors.Tag = def.Selectors.Tag
	}
	if p.Selectors.NextPage == "" {
		p.Selectors.NextPage = def.Selectors.NextPage
	}
	if len(p.Fields) == 0 {
		p.Fields = def.Fields
	}
}

func (p *Profile) validate() error {
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("base_url must be absolute, got %q", p.BaseURL)
	}
	if !strings.HasPrefix(p.StartPath, "/") {
		return fmt.Errorf("start_path must begin with /, got %q", p.StartPath)
	}
	return nil
}

// StartURL resolves the pagination entry point against the base URL.
func (p Profile) StartURL() string {
	return strings.TrimSuffix(p.BaseURL, "/") + p.StartPath
}
