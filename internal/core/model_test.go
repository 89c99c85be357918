package core

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelProjects(t *testing.T) {
	model := newTestModel(t, newMemResources())

	_, err := model.AddProject("zeta")
	require.NoError(t, err)
	_, err = model.AddProject("alpha")
	require.NoError(t, err)

	_, err = model.AddProject("alpha")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeAlreadyExists, errbuilder.CodeOf(err))

	_, err = model.AddProject(" ")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	assert.Equal(t, []string{"alpha", "zeta"}, projectNames(model.Projects()))
	assert.False(t, model.DeleteProject(t.Context(), "missing"))
}

func TestModelSharesArchiveIndices(t *testing.T) {
	resources := newMemResources()
	resources.put("shared/lib.zip", buildArchive(t, map[string]string{
		"objects/lib/Lib.policytype": "",
	}))
	model := newTestModel(t, resources)
	first := addTestProject(t, model, "first", archiveRecord("/shared/lib.zip"))
	second := addTestProject(t, model, "second", archiveRecord("../shared/lib.zip"))
	ctx := t.Context()

	for _, project := range []*Project{first, second} {
		_, ok, err := project.FindSourceFile(ctx, policyType("lib.Lib"))
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Equal(t, 1, resources.openCount("shared/lib.zip"))

	firstEntry := first.ObjectPath().Entries()[0].(*ArchiveEntry)
	secondEntry := second.ObjectPath().Entries()[0].(*ArchiveEntry)
	assert.Same(t, firstEntry.Index(), secondEntry.Index())
}

func TestArchiveEntryResolvedLocation(t *testing.T) {
	model := newTestModel(t, newMemResources())
	project, err := model.AddProject("app")
	require.NoError(t, err)

	tests := []struct {
		location string
		want     string
	}{
		{location: "lib/a.zip", want: "app/lib/a.zip"},
		{location: "/shared/a.zip", want: "shared/a.zip"},
		{location: "../shared/a.zip", want: "shared/a.zip"},
		{location: "file:///opt/libs/a.zip", want: "file:///opt/libs/a.zip"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.location, func(t *testing.T) {
			entry := NewArchiveEntry(project.ObjectPath(), tt.location)
			assert.Equal(t, tt.want, entry.ResolvedLocation())
		})
	}
}
