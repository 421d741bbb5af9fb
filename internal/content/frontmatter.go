package content

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// FrontMatter is the YAML header recognised at the top of a markdown RFC.
type FrontMatter struct {
	ID              string `yaml:"id"`
	Title           string `yaml:"title"`
	SidebarLabel    string `yaml:"sidebar_label"`
	SidebarPosition int    `yaml:"sidebar_position"`
	Slug            string `yaml:"slug"`
	Description     string `yaml:"description"`
}

var fence = []byte("---")

// SplitFrontMatter separates a leading "---" delimited YAML block from the
// markdown body. Documents without front matter are returned unchanged.
func SplitFrontMatter(data []byte) (FrontMatter, []byte, error) {
	var fm FrontMatter
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	first, rest, ok := cutLine(data)
	if !ok || !bytes.Equal(bytes.TrimSpace(first), fence) {
		return fm, data, nil
	}

	var header []byte
	for {
		line, next, more := cutLine(rest)
		if bytes.Equal(bytes.TrimSpace(line), fence) {
			if err := yaml.Unmarshal(header, &fm); err != nil {
				return fm, nil, fmt.Errorf("front matter: %w", err)
			}
			return fm, next, nil
		}
		header = append(header, line...)
		header = append(header, '\n')
		if !more {
			// Unterminated block: treat the whole file as body.
			return FrontMatter{}, data, nil
		}
		rest = next
	}
}

func cutLine(b []byte) (line, rest []byte, ok bool) {
	if len(b) == 0 {
		return nil, nil, false
	}
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return bytes.TrimSuffix(b[:i], []byte("\r")), b[i+1:], true
	}
	return b, nil, false
}

type categoryFile struct {
	Label    string `yaml:"label"`
	Position int    `yaml:"position"`
}

// parseCategory reads a _category_ file. JSON is valid YAML, so both
// formats go through the same decoder.
func parseCategory(data []byte) (Category, error) {
	var cf categoryFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return Category{}, err
	}
	return Category{Label: cf.Label, Position: cf.Position}, nil
}
