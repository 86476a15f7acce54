// Package sources holds the static registry mapping news outlets to an
// editorial bias. Bias is assigned per source, never inferred from content.
package sources

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Bias is one of the three editorial leanings a source can be filed under.
type Bias string

const (
	BiasProgressive  Bias = "progressive"
	BiasCentrist     Bias = "centrist"
	BiasConservative Bias = "conservative"
)

// AllBiases returns the bias categories in canonical order.
func AllBiases() []Bias {
	return []Bias{BiasProgressive, BiasCentrist, BiasConservative}
}

// Source describes a configured news outlet.
type Source struct {
	ID      string `yaml:"id" json:"id"`
	Name    string `yaml:"name" json:"name"`
	URL     string `yaml:"url" json:"url"`
	FeedURL string `yaml:"feedUrl" json:"feedUrl"`
}

// registryFile is the YAML layout of the sources config:
//
// progressive:
//   - id: eldiario
//     name: elDiario.es
//     url: https://www.eldiario.es
//     feedUrl: https://www.eldiario.es/rss/
type registryFile struct {
	Progressive  []Source `yaml:"progressive"`
	Centrist     []Source `yaml:"centrist"`
	Conservative []Source `yaml:"conservative"`
}

// Registry is a pure lookup of sources by bias.
type Registry struct {
	byBias map[Bias][]Source
}

// Load reads the per-bias source lists from a YAML file.
func Load(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sources config: %w", err)
	}
	defer f.Close()

	var file registryFile
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode sources config: %w", err)
	}

	return &Registry{byBias: map[Bias][]Source{
		BiasProgressive:  file.Progressive,
		BiasCentrist:     file.Centrist,
		BiasConservative: file.Conservative,
	}}, nil
}

// ForBias returns the configured sources for one bias. An unknown or empty
// category yields an empty list, not an error.
func (r *Registry) ForBias(b Bias) []Source {
	return r.byBias[b]
}

// All returns every source grouped by bias, for the sources API.
func (r *Registry) All() map[Bias][]Source {
	out := make(map[Bias][]Source, len(r.byBias))
	for b, list := range r.byBias {
		out[b] = list
	}
	return out
}

// Count returns the total number of configured sources.
func (r *Registry) Count() int {
	n := 0
	for _, list := range r.byBias {
		n += len(list)
	}
	return n
}
