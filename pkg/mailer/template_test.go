package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		subject  any
		body     string
		metaSize int
	}{
		{
			name:     "front matter",
			content:  "---\nSubject: New message from {{.Name}}\nPriority: 1\n---\n**Name:** {{.Name}}\n",
			subject:  "New message from {{.Name}}",
			body:     "**Name:** {{.Name}}\n",
			metaSize: 2,
		},
		{
			name:    "no front matter",
			content: "# Hello\n\nplain body",
			body:    "# Hello\n\nplain body",
		},
		{
			name:    "empty front matter",
			content: "---\n---\nbody\n",
			body:    "body\n",
		},
		{
			name:     "windows line endings",
			content:  "---\r\nSubject: Hi\r\n---\r\nbody\r\n",
			subject:  "Hi",
			body:     "body\r\n",
			metaSize: 1,
		},
		{
			name:     "horizontal rule in body",
			content:  "---\nSubject: Hi\n---\nabove\n\n---\n\nbelow\n",
			subject:  "Hi",
			body:     "above\n\n---\n\nbelow\n",
			metaSize: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tmpl, err := ParseTemplate([]byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.body, tmpl.Body)
			assert.Len(t, tmpl.Metadata, tt.metaSize)
			if tt.subject != nil {
				assert.Equal(t, tt.subject, tmpl.Metadata["Subject"])
			}
		})
	}
}

func TestParseTemplate_Invalid(t *testing.T) {
	t.Parallel()

	for name, content := range map[string]string{
		"missing closing delimiter": "---\nSubject: Hi\nbody",
		"nothing after opening":     "---",
		"invalid yaml":              "---\nSubject: [unclosed\n---\nbody",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseTemplate([]byte(content))
			require.ErrorIs(t, err, ErrInvalidFrontmatter)
		})
	}
}
