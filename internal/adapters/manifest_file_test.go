package adapters

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"objectpath/internal/types"
)

func TestParseManifest(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    types.Manifest
	}{
		{
			name: "full",
			content: "Manifest-Version: 1.0\n" +
				"Model-BasePackage: org.motor\n" +
				"Model-OutputMergable: src\n" +
				"Model-OutputDerived: gen\n" +
				"Model-ObjectDir: model;toc=\"model-toc.xml\";messages=\"messages\",\n" +
				" extra\n" +
				"Model-RequiredProjects: base;visibility:=reexport,util\n",
			want: types.Manifest{
				BasePackage:          "org.motor",
				OutputFolderMergable: "src",
				OutputFolderDerived:  "gen",
				ObjectDirs: []types.ManifestObjectDir{
					{Folder: "model", TocPath: "model-toc.xml", MessagesBundle: "messages"},
					{Folder: "extra"},
				},
				Requires: []types.ManifestRequire{
					{Project: "base", Reexported: true},
					{Project: "util"},
				},
			},
		},
		{
			name: "windows line endings and reexport parameter",
			content: "Model-BasePackage: org.base\r\n" +
				"Model-RequiredProjects: core;reexport=true\r\n",
			want: types.Manifest{
				BasePackage: "org.base",
				Requires:    []types.ManifestRequire{{Project: "core", Reexported: true}},
			},
		},
		{
			name: "only main section",
			content: "Model-BasePackage: org.base\n" +
				"\n" +
				"Name: section\n" +
				"Model-ObjectDir: ignored\n",
			want: types.Manifest{BasePackage: "org.base"},
		},
		{
			name:    "no headers",
			content: "Manifest-Version: 1.0\n",
			want:    types.Manifest{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseManifest([]byte(tt.content))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("unexpected manifest (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSplitClausesKeepsQuotedCommas(t *testing.T) {
	got := splitClauses(`a;toc="x,y", b ,,c`)
	assert.Equal(t, []string{`a;toc="x,y"`, "b", "c"}, got)
}

func TestManifestFileAdapterRead(t *testing.T) {
	resources := newMemResources(t)
	writeResource(t, resources, "app/"+ManifestPath, "Model-BasePackage: org.app\nModel-ObjectDir: model\n")
	adapter := NewManifestFileAdapter(resources)

	manifest, ok, err := adapter.Read(t.Context(), "app")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "org.app", manifest.BasePackage)
	assert.Equal(t, []types.ManifestObjectDir{{Folder: "model"}}, manifest.ObjectDirs)

	_, ok, err = adapter.Read(t.Context(), "other")
	require.NoError(t, err)
	assert.False(t, ok)
}
