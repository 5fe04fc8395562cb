package i18n

import (
	"fmt"
	"maps"
	"strings"
)

// M holds placeholder values.
type M map[string]any

// ReplacePlaceholders substitutes {{name}} markers in template.
// Unknown markers are left as they are.
//
//	ReplacePlaceholders("Hello, {{name}}!", M{"name": "Ada"}) // "Hello, Ada!"
func ReplacePlaceholders(template string, placeholders M) string {
	if len(placeholders) == 0 || !strings.Contains(template, "{{") {
		return template
	}

	pairs := make([]string, 0, len(placeholders)*2)
	for key, value := range placeholders {
		pairs = append(pairs, "{{"+key+"}}", fmt.Sprint(value))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func merge(ms ...M) M {
	switch len(ms) {
	case 0:
		return nil
	case 1:
		return ms[0]
	}
	out := make(M)
	for _, m := range ms {
		maps.Copy(out, m)
	}
	return out
}
