package models

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the YAML metadata header prepended to an exported
// Markdown file. Empty fields are omitted from the serialized output
// entirely, including empty tag lists.
type Frontmatter struct {
	Title       string   `yaml:"title,omitempty"`
	Date        string   `yaml:"date,omitempty"`
	LastEdited  string   `yaml:"last_edited,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

// Render serializes the frontmatter as a YAML document delimited by
// `---` markers, followed by a blank line separating it from the body.
func (f *Frontmatter) Render() (string, error) {
	out, err := yaml.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("failed to serialize frontmatter: %w", err)
	}
	return "---\n" + string(out) + "---\n\n", nil
}

// ExportPage is the result of converting one Notion page: the rendered
// Markdown body, its frontmatter, and the image URL substitutions made
// while rendering (original URL to local relative path).
type ExportPage struct {
	Frontmatter Frontmatter
	Markdown    string
	Images      map[string]string
}
