package mailer

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Template is a template file split into YAML front matter and a markdown
// body. Metadata["Subject"] holds the subject template.
type Template struct {
	Metadata map[string]any
	Body     string
}

const fence = "---"

// ParseTemplate splits content at a leading "---" fence. The front matter
// ends at the next line consisting of "---"; content without an opening
// fence is all body.
func ParseTemplate(content []byte) (*Template, error) {
	first, rest, _ := cutLine(content)
	if string(first) != fence {
		return &Template{Metadata: map[string]any{}, Body: string(content)}, nil
	}

	var front []byte
	for len(rest) > 0 {
		line, next, _ := cutLine(rest)
		if string(line) == fence {
			meta := map[string]any{}
			if len(bytes.TrimSpace(front)) > 0 {
				if err := yaml.Unmarshal(front, &meta); err != nil {
					return nil, fmt.Errorf("%w: %w", ErrInvalidFrontmatter, err)
				}
			}
			return &Template{Metadata: meta, Body: string(next)}, nil
		}
		front = append(front, rest[:len(rest)-len(next)]...)
		rest = next
	}
	return nil, fmt.Errorf("%w: closing %q not found", ErrInvalidFrontmatter, fence)
}

// cutLine returns the first line without its terminator and the remainder.
func cutLine(b []byte) (line, rest []byte, found bool) {
	line, rest, found = bytes.Cut(b, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r")), rest, found
}
