package id_test

import (
	"regexp"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactsite/pkg/id"
)

var crockford = regexp.MustCompile(`^[0-9A-HJ-NP-TV-Z]{26}$`)

func TestNewULID(t *testing.T) {
	t.Parallel()

	refs := make([]string, 500)
	for i := range refs {
		refs[i] = id.NewULID()
		require.Regexp(t, crockford, refs[i])
	}

	assert.True(t, sort.StringsAreSorted(refs), "references must sort by creation")

	seen := make(map[string]struct{}, len(refs))
	for _, r := range refs {
		seen[r] = struct{}{}
	}
	assert.Len(t, seen, len(refs))
}

func TestNewUUID(t *testing.T) {
	t.Parallel()

	a, b := id.NewUUID(), id.NewUUID()
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`, a)
	assert.NotEqual(t, a, b)
}
