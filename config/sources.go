package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source is one configured listing page. Sources are fetched in the order
// they are listed; that order also decides which duplicate wins.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// sourcesFile is the YAML shape of an external source list
type sourcesFile struct {
	Sources []Source `yaml:"sources"`
}

// DefaultSources returns the built-in listing pages to scrape
func DefaultSources() []Source {
	return []Source{
		{Name: "goldbox", URL: "https://www.amazon.com/gp/goldbox"},
		{Name: "deals", URL: "https://www.amazon.com/deals"},
		{Name: "todays-deals", URL: "https://www.amazon.com/gp/todays-deals"},
		{Name: "search-deals", URL: "https://www.amazon.com/s?k=deals+of+the+day"},
		{Name: "search-clearance", URL: "https://www.amazon.com/s?k=clearance+sale"},
	}
}

// LoadSources returns the source list from path, or the defaults when path
// is empty.
func LoadSources(path string) ([]Source, error) {
	if path == "" {
		return DefaultSources(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var sf sourcesFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	if len(sf.Sources) == 0 {
		return nil, fmt.Errorf("sources file %s lists no sources", path)
	}

	for i, s := range sf.Sources {
		if s.Name == "" || s.URL == "" {
			return nil, fmt.Errorf("source %d is missing a name or url", i)
		}
	}

	return sf.Sources, nil
}
