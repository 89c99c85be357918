package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceAdapter_FindProjects(t *testing.T) {
	root := t.TempDir()
	mkfile := func(rel string, content string) {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	mkfile("app/"+ObjectPathFileName, "entries: []\n")
	mkfile("base/"+ManifestPath, "Model-BasePackage: org.base\n")
	// Plain folders and build output are not projects.
	mkfile("docs/readme.md", "docs")
	mkfile("build/"+ObjectPathFileName, "entries: []\n")
	mkfile(".hidden/"+ObjectPathFileName, "entries: []\n")
	mkfile("notes.txt", "notes")

	resources, err := NewAFSResourceAdapter(root)
	require.NoError(t, err)
	projects, err := NewWorkspaceAdapter(resources).FindProjects(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"app", "base"}, projects)
}

func TestWorkspaceAdapter_Mem(t *testing.T) {
	resources := newMemResources(t)
	writeResource(t, resources, "zeta/"+ObjectPathFileName, "entries: []\n")
	writeResource(t, resources, "alpha/"+ObjectPathFileName, "entries: []\n")

	projects, err := NewWorkspaceAdapter(resources).FindProjects(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, projects)
}

func TestWorkspaceAdapter_NoResources(t *testing.T) {
	_, err := WorkspaceAdapter{}.FindProjects(t.Context())
	require.Error(t, err)
}
