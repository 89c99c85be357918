package app

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"objectpath/internal/types"
)

// newTestService seeds an in-memory workspace with four projects:
//
//	base    record driven, source folder "model"
//	app     manifest driven, references base (re-exported)
//	ext     record driven, libdir container "lib" and a reference to app
//	broken  manifest driven record without a manifest
func newTestService(t *testing.T, cfg Config) Service {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg.Workspace = "mem://localhost/app-tests/" + name
	service, err := NewService(cfg)
	require.NoError(t, err)

	put := func(location string, content string) {
		require.NoError(t, service.Resources.Write(t.Context(), location, []byte(content)))
	}
	put("base/.objectpath.yaml", `output_folder_mergable: src
output_folder_derived: gen
base_package_mergable: org.base
base_package_derived: org.base
entries:
  - type: src
    folder: model
`)
	put("base/model/org/base/Coverage.policytype", "")
	put("base/model/org/base/Rates.tablestructure", "")
	put("base/model/org/base/Rates2024.tablecontents", "table_structure: org.base.Rates\n")

	put("app/META-INF/MANIFEST.MF", `Manifest-Version: 1.0
Model-BasePackage: org.app
Model-OutputMergable: src
Model-OutputDerived: gen
Model-ObjectDir: model
Model-RequiredProjects: base;reexport=true
`)
	put("app/model/org/app/Motor.policytype", "")
	put("app/model/org/app/MotorProduct.productcmpt", "runtime_id: motor\n")

	put("ext/.objectpath.yaml", `entries:
  - type: container
    container_type: libdir
    container_path: lib
  - type: project
    project: app
`)
	put("ext/lib/ext-1.0.zip", string(buildArchive(t, map[string]string{
		"objects/org/ext/Old.policytype": "",
	})))
	put("ext/lib/ext-2.0.zip", string(buildArchive(t, map[string]string{
		"objects/org/ext/TariffProduct.productcmpt": "runtime_id: motor\n",
	})))

	put("broken/.objectpath.yaml", "manifest_driven: true\n")
	return service
}

func buildArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	files["objects.properties"] = ""
	for name, content := range files {
		w, err := writer.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return buf.Bytes()
}

func sourceNames(sources []types.ResolvedSource) []string {
	names := make([]string, 0, len(sources))
	for _, source := range sources {
		names = append(names, source.QualifiedName)
	}
	return names
}
