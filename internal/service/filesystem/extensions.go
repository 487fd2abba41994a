package filesystem

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed config/extensions.yaml
var extensionFiles embed.FS

// ExtensionRegistry holds the allow-list of file extensions for created
// file items, loaded from the embedded YAML.
type ExtensionRegistry struct {
	extensions map[string]string // dotted lowercase suffix -> display name
	examples   []string          // first few suffixes, for error messages
}

type extensionFile struct {
	Extensions map[string]string `yaml:"extensions"`
}

// NewExtensionRegistry loads the embedded extension allow-list.
func NewExtensionRegistry() (*ExtensionRegistry, error) {
	data, err := extensionFiles.ReadFile("config/extensions.yaml")
	if err != nil {
		return nil, fmt.Errorf("read extensions config: %w", err)
	}

	var file extensionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal extensions config: %w", err)
	}

	if len(file.Extensions) == 0 {
		return nil, fmt.Errorf("extensions config is empty")
	}

	suffixes := make([]string, 0, len(file.Extensions))
	for suffix := range file.Extensions {
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)

	examples := suffixes
	if len(examples) > 10 {
		examples = examples[:10]
	}

	return &ExtensionRegistry{
		extensions: file.Extensions,
		examples:   examples,
	}, nil
}

// Match returns the recognized dotted suffix for a file name. Matching is
// case-insensitive and tries the longest dotted suffix first, so
// "bundle.tar.gz" resolves to ".tar.gz" rather than ".gz".
func (r *ExtensionRegistry) Match(name string) (string, bool) {
	lower := strings.ToLower(name)

	for i := 0; i < len(lower); i++ {
		if lower[i] != '.' {
			continue
		}
		if suffix := lower[i:]; r.extensions[suffix] != "" {
			return suffix, true
		}
	}

	return "", false
}

// DisplayName returns the human-readable name for a recognized suffix.
func (r *ExtensionRegistry) DisplayName(suffix string) string {
	return r.extensions[strings.ToLower(suffix)]
}

// Examples returns a handful of accepted suffixes for error messages.
func (r *ExtensionRegistry) Examples() []string {
	return r.examples
}

// All returns a copy of the full suffix to display-name table.
func (r *ExtensionRegistry) All() map[string]string {
	out := make(map[string]string, len(r.extensions))
	for k, v := range r.extensions {
		out[k] = v
	}
	return out
}
