package homepage

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// templateVar matches Homepage template variables ({{HOMEPAGE_VAR_...}})
var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// Loader reads one Homepage YAML file into T.
type Loader[T any] struct {
	filePath string
	kind     string // used in error messages
}

type (
	ServicesLoader = Loader[ServicesConfig]
	BookmarkLoader = Loader[BookmarksConfig]
)

// NewServicesLoader loads services.yaml, the source of top sites.
func NewServicesLoader(filePath string) *ServicesLoader {
	return &ServicesLoader{filePath: filePath, kind: "services"}
}

// NewBookmarkLoader loads bookmarks.yaml.
func NewBookmarkLoader(filePath string) *BookmarkLoader {
	return &BookmarkLoader{filePath: filePath, kind: "bookmarks"}
}

// Path returns the file being loaded.
func (l *Loader[T]) Path() string { return l.filePath }

// Load reads the file, blanks template variables and parses it.
func (l *Loader[T]) Load() (T, error) {
	var config T

	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return config, fmt.Errorf("failed to read %s file: %w", l.kind, err)
	}
	if err := yaml.Unmarshal(stripTemplateVariables(data), &config); err != nil {
		return config, fmt.Errorf("failed to parse %s yaml: %w", l.kind, err)
	}
	return config, nil
}

// stripTemplateVariables replaces Homepage template variables with an
// empty YAML string: {{HOMEPAGE_VAR_ADGUARD_USER}} -> ""
func stripTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAll(data, []byte(`""`))
}
