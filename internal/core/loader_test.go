package core

import (
	"context"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"objectpath/internal/types"
)

type memStore struct {
	records map[string]types.ObjectPathRecord
}

func (s *memStore) Load(_ context.Context, project string) (types.ObjectPathRecord, bool, error) {
	record, ok := s.records[project]
	return record, ok, nil
}

func (s *memStore) Save(_ context.Context, project string, record types.ObjectPathRecord) error {
	s.records[project] = record
	return nil
}

type memManifests map[string]types.Manifest

func (m memManifests) Read(_ context.Context, project string) (types.Manifest, bool, error) {
	manifest, ok := m[project]
	return manifest, ok, nil
}

func TestObjectPathLoader(t *testing.T) {
	store := &memStore{records: map[string]types.ObjectPathRecord{
		"explicit": {Entries: []types.EntryRecord{srcRecord("src"), projectRecord("manifest", true)}},
		"flagged":  {ManifestDriven: true},
	}}
	manifests := memManifests{
		"manifest": {ObjectDirs: []types.ManifestObjectDir{{Folder: "model"}}},
		"flagged":  {Requires: []types.ManifestRequire{{Project: "explicit"}}},
	}
	loader := NewObjectPathLoader(store, manifests)
	model := newTestModel(t, newMemResources())
	ctx := t.Context()

	require.NoError(t, loader.LoadModel(ctx, model, []string{"explicit", "manifest", "flagged"}))

	tests := []struct {
		project        string
		manifestDriven bool
		entries        []types.EntryType
	}{
		{project: "explicit", manifestDriven: false, entries: []types.EntryType{types.EntryTypeSourceFolder, types.EntryTypeProject}},
		{project: "manifest", manifestDriven: true, entries: []types.EntryType{types.EntryTypeSourceFolder}},
		{project: "flagged", manifestDriven: true, entries: []types.EntryType{types.EntryTypeProject}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.project, func(t *testing.T) {
			project, ok := model.Project(tt.project)
			require.True(t, ok)
			assert.Equal(t, tt.manifestDriven, project.ObjectPath().ManifestDriven())
			var got []types.EntryType
			for _, entry := range project.ObjectPath().Entries() {
				got = append(got, entry.Type())
			}
			if diff := cmp.Diff(tt.entries, got); diff != "" {
				t.Fatalf("unexpected entries (-want +got):\n%s", diff)
			}
		})
	}

	explicit, _ := model.Project("explicit")
	explicit.ObjectPath().SetOutputFolder(types.ArtifactKindMergable, "gen")
	require.NoError(t, loader.Save(ctx, explicit))
	assert.Equal(t, "gen", store.records["explicit"].OutputFolderMergable)

	orphan, err := model.AddProject("orphan")
	require.NoError(t, err)
	_, err = loader.Load(ctx, orphan)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}
