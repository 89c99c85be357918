package adapters

import (
	"context"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"objectpath/internal/ports"
	"objectpath/internal/types"
)

func TestContainerRegistryLibDir(t *testing.T) {
	resources := newMemResources(t)
	for _, name := range []string{"base-1.0.zip", "base-1.10.zip", "base-1.9.zip", "util.jar", "readme.txt"} {
		writeResource(t, resources, "app/lib/"+name, "zip")
	}
	registry := NewContainerRegistryAdapter(resources)

	handle, ok := registry.Resolve(t.Context(), "LibDir", "lib", "app")
	require.True(t, ok)
	assert.Equal(t, "libdir:app/lib", handle.Description())

	records, err := handle.ResolveEntries(t.Context())
	require.NoError(t, err)
	want := []types.EntryRecord{
		{Type: types.EntryTypeArchive, Archive: "lib/base-1.10.zip"},
		{Type: types.EntryTypeArchive, Archive: "lib/util.jar"},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("unexpected records (-want +got):\n%s", diff)
	}
}

func TestContainerRegistryWorkspaceRelativeLibDir(t *testing.T) {
	resources := newMemResources(t)
	writeResource(t, resources, "shared/lib/core-2.0.zip", "zip")
	registry := NewContainerRegistryAdapter(resources)

	handle, ok := registry.Resolve(t.Context(), ContainerTypeLibDir, "/shared/lib", "app")
	require.True(t, ok)
	records, err := handle.ResolveEntries(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []types.EntryRecord{{Type: types.EntryTypeArchive, Archive: "/shared/lib/core-2.0.zip"}}, records)
}

func TestContainerRegistryDescriptor(t *testing.T) {
	resources := newMemResources(t)
	writeResource(t, resources, "app/deps.yaml", `entries:
  - type: archive
    archive: lib/base.zip
  - type: project
    project: base
    reexported: true
`)
	writeResource(t, resources, "app/broken.yaml", "entries: [\n")
	registry := NewContainerRegistryAdapter(resources)

	handle, ok := registry.Resolve(t.Context(), ContainerTypeDescriptor, "deps.yaml", "app")
	require.True(t, ok)
	records, err := handle.ResolveEntries(t.Context())
	require.NoError(t, err)
	want := []types.EntryRecord{
		{Type: types.EntryTypeArchive, Archive: "lib/base.zip"},
		{Type: types.EntryTypeProject, Project: "base", Reexported: true},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("unexpected records (-want +got):\n%s", diff)
	}

	handle, ok = registry.Resolve(t.Context(), ContainerTypeDescriptor, "broken.yaml", "app")
	require.True(t, ok)
	_, err = handle.ResolveEntries(t.Context())
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestContainerRegistryUnresolvable(t *testing.T) {
	resources := newMemResources(t)
	writeResource(t, resources, "app/lib/a.zip", "zip")
	registry := NewContainerRegistryAdapter(resources)

	tests := []struct {
		name          string
		containerType string
		discriminator string
	}{
		{name: "unknown type", containerType: "maven", discriminator: "lib"},
		{name: "missing folder", containerType: ContainerTypeLibDir, discriminator: "missing"},
		{name: "empty discriminator", containerType: ContainerTypeLibDir, discriminator: " "},
		{name: "missing descriptor", containerType: ContainerTypeDescriptor, discriminator: "deps.yaml"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, ok := registry.Resolve(t.Context(), tt.containerType, tt.discriminator, "app")
			assert.False(t, ok)
		})
	}
}

type fixedContainer struct {
	records []types.EntryRecord
}

func (c fixedContainer) Description() string { return "fixed" }

func (c fixedContainer) ResolveEntries(context.Context) ([]types.EntryRecord, error) {
	return c.records, nil
}

func TestContainerRegistryRegister(t *testing.T) {
	registry := NewContainerRegistryAdapter(newMemResources(t))
	registry.Register("Fixed", func(_ context.Context, _ ports.ResourcePort, discriminator string, project string) (ports.ContainerHandle, bool) {
		return fixedContainer{records: []types.EntryRecord{{Type: types.EntryTypeProject, Project: discriminator}}}, true
	})

	assert.Equal(t, []string{"descriptor", "fixed", "libdir"}, registry.Types())
	handle, ok := registry.Resolve(t.Context(), "fixed", "base", "app")
	require.True(t, ok)
	records, err := handle.ResolveEntries(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []types.EntryRecord{{Type: types.EntryTypeProject, Project: "base"}}, records)
}
