package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"objectpath/internal/types"
)

func diagnosticCodes(diags types.Diagnostics) []types.DiagnosticCode {
	codes := make([]types.DiagnosticCode, 0, len(diags))
	for _, diag := range diags {
		codes = append(codes, diag.Code)
	}
	return codes
}

func TestObjectPathValidate(t *testing.T) {
	resources := newMemResources()
	resources.putString("app/src/pkg/Dup.policytype", "")
	resources.put("app/lib/lib.zip", buildArchive(t, map[string]string{"objects/pkg/Dup.policytype": ""}))
	resources.put("app/lib/broken.zip", []byte("broken"))
	model := newTestModel(t, resources, WithNaming(staticNaming{reserved: []string{"case"}}))
	app, err := model.AddProject("app")
	require.NoError(t, err)

	objectPath, err := ObjectPathFromRecord(app, types.ObjectPathRecord{
		OutputFolderMergable: "src-gen",
		BasePackageMergable:  "org.case",
		BasePackageDerived:   "org.app",
		Entries: []types.EntryRecord{
			srcRecord("src"),
			srcRecord("missing"),
			archiveRecord("lib/lib.zip"),
			archiveRecord("lib/absent.zip"),
			archiveRecord("lib/broken.zip"),
			projectRecord("ghost", false),
		},
	})
	require.NoError(t, err)
	require.NoError(t, app.SetObjectPath(objectPath))

	diags, err := app.Validate(t.Context())
	require.NoError(t, err)

	want := []types.DiagnosticCode{
		types.CodeSourceFolderMissing,
		types.CodeArchiveMissing,
		types.CodeArchiveInvalid,
		types.CodeProjectMissing,
		types.CodeDuplicateQualifiedName,
		types.CodeOutputFolderMissing,
		types.CodeInvalidBasePackage,
	}
	if diff := cmp.Diff(want, diagnosticCodes(diags), cmpopts.SortSlices(func(a, b types.DiagnosticCode) bool { return a < b })); diff != "" {
		t.Fatalf("unexpected diagnostics (-want +got):\n%s", diff)
	}
	duplicate := diags.WithCode(types.CodeDuplicateQualifiedName)
	require.Len(t, duplicate, 1)
	assert.Equal(t, types.SeverityWarning, duplicate[0].Severity)
	assert.Equal(t, "policytype:pkg.Dup", duplicate[0].Object)
	assert.True(t, diags.HasErrors())
}

func TestObjectPathValidateCycle(t *testing.T) {
	model := newTestModel(t, newMemResources())
	p1 := addTestProject(t, model, "p1", projectRecord("p2", true))
	addTestProject(t, model, "p2", projectRecord("p1", true))

	diags, err := p1.Validate(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []types.DiagnosticCode{types.CodeCycleInReferences}, diagnosticCodes(diags))
}

func TestObjectPathValidateOutputFolders(t *testing.T) {
	resources := newMemResources()
	resources.putString("app/model/pkg/A.policytype", "")
	resources.putString("app/other/pkg/B.policytype", "")
	resources.putString("base/src/base/C.policytype", "")
	model := newTestModel(t, resources)

	base, err := model.AddProject("base")
	require.NoError(t, err)
	basePath, err := ObjectPathFromRecord(base, types.ObjectPathRecord{
		OutputFolderMergable: "../shared/gen",
		OutputFolderDerived:  "derived",
		BasePackageMergable:  "org.base",
		BasePackageDerived:   "org.base",
		Entries:              []types.EntryRecord{srcRecord("src")},
	})
	require.NoError(t, err)
	require.NoError(t, base.SetObjectPath(basePath))

	app, err := model.AddProject("app")
	require.NoError(t, err)
	appPath, err := ObjectPathFromRecord(app, types.ObjectPathRecord{
		OutputDefinedPerSourceFolder: true,
		Entries: []types.EntryRecord{
			{Type: types.EntryTypeSourceFolder, Folder: "model", OutputFolderMergable: "gen", OutputFolderDerived: "derived", BasePackageMergable: "org.app", BasePackageDerived: "org.app"},
			{Type: types.EntryTypeSourceFolder, Folder: "other", OutputFolderMergable: "../shared/gen", OutputFolderDerived: "derived", BasePackageMergable: "org.app", BasePackageDerived: "org.app"},
			projectRecord("base", false),
		},
	})
	require.NoError(t, err)
	require.NoError(t, app.SetObjectPath(appPath))

	diags, err := app.Validate(t.Context())
	require.NoError(t, err)
	duplicates := diags.WithCode(types.CodeDuplicateOutputFolder)
	objects := make([]string, 0, len(duplicates))
	for _, diag := range duplicates {
		objects = append(objects, diag.Object)
	}
	assert.ElementsMatch(t, []string{"app/derived", "shared/gen"}, objects)
	assert.Len(t, diags, len(duplicates))
}
