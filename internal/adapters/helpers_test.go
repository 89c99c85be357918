package adapters

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// newMemResources returns a resource adapter rooted at a mem:// URL
// private to the test.
func newMemResources(t *testing.T) AFSResourceAdapter {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	adapter, err := NewAFSResourceAdapter("mem://localhost/" + name)
	require.NoError(t, err)
	return adapter
}

func writeResource(t *testing.T, resources AFSResourceAdapter, location string, content string) {
	t.Helper()
	require.NoError(t, resources.Write(t.Context(), location, []byte(content)))
}
