package integration

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"objectpath/internal/adapters"
	"objectpath/internal/app"
	"objectpath/internal/core"
	"objectpath/internal/types"
	"objectpath/tests/testutil"
)

func TestValidateFixtureWorkspace(t *testing.T) {
	service, err := app.NewService(app.Config{Workspace: testutil.FixtureWorkspace(t)})
	require.NoError(t, err)

	result, err := service.Validate(t.Context(), app.ValidateRequest{})
	require.NoError(t, err)
	assert.False(t, result.HasErrors)
	for _, report := range result.Report.Projects {
		assert.Empty(t, report.Diagnostics, "project %s", report.Project)
	}
}

// loadFixtureModel wires the adapters the way the service does and keeps
// the model so tests can observe cache behavior across changes.
func loadFixtureModel(t *testing.T, workspace string) *core.Model {
	t.Helper()
	resources, err := adapters.NewAFSResourceAdapter(workspace)
	require.NoError(t, err)
	model, err := core.NewModel(resources,
		core.WithContainerResolver(adapters.NewContainerRegistryAdapter(resources)),
		core.WithNaming(adapters.NewNamingAdapter()),
	)
	require.NoError(t, err)
	names, err := adapters.NewWorkspaceAdapter(resources).FindProjects(t.Context())
	require.NoError(t, err)
	loader := core.NewObjectPathLoader(adapters.NewObjectPathFileAdapter(resources), adapters.NewManifestFileAdapter(resources))
	require.NoError(t, loader.LoadModel(t.Context(), model, names))
	return model
}

func TestArchiveBasePackages(t *testing.T) {
	model := loadFixtureModel(t, testutil.FixtureWorkspace(t))
	project, ok := model.Project("app")
	require.True(t, ok)

	file, found, err := project.FindSourceFileByName(t.Context(), types.KindPolicyType, "org.rules.Rule")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, types.EntryTypeArchive, file.EntryType)

	for _, entry := range project.ObjectPath().Entries() {
		container, ok := entry.(*core.ContainerEntry)
		if !ok {
			continue
		}
		children, err := container.ResolveEntries(t.Context())
		require.NoError(t, err)
		require.Len(t, children, 1)
		archive := children[0].(*core.ArchiveEntry)
		pkg, ok, err := archive.BasePackage(t.Context(), file.QualifiedName, types.ArtifactKindDerived)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "org.rules.internal", pkg)
	}
}

func TestArchiveChangesArePickedUp(t *testing.T) {
	workspace := testutil.CopyFixtureWorkspace(t)
	model := loadFixtureModel(t, workspace)
	project, ok := model.Project("app")
	require.True(t, ok)
	ctx := t.Context()

	_, found, err := project.FindSourceFileByName(ctx, types.KindPolicyType, "org.rules.Added")
	require.NoError(t, err)
	assert.False(t, found)

	archivePath := filepath.Join(workspace, "app", "lib", "rules-1.2.zip")
	writeArchive(t, archivePath, map[string]string{
		"objects.properties":                 "",
		"objects/org/rules/Rule.policytype":  "",
		"objects/org/rules/Added.policytype": "",
	})
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(archivePath, later, later))

	_, found, err = project.FindSourceFileByName(ctx, types.KindPolicyType, "org.rules.Added")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestReferencingProjectLeaves(t *testing.T) {
	model := loadFixtureModel(t, testutil.FixtureWorkspace(t))
	base, ok := model.Project("base")
	require.True(t, ok)

	leaves, err := base.FindReferencingProjectLeavesOrSelf(t.Context())
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.Equal(t, "app", leaves[0].Name())
}

func writeArchive(t *testing.T, path string, files map[string]string) {
	t.Helper()
	out, err := os.Create(path)
	require.NoError(t, err)
	writer := zip.NewWriter(out)
	for name, content := range files {
		w, err := writer.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	require.NoError(t, out.Close())
}
