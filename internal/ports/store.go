package ports

import (
	"context"

	"objectpath/internal/types"
)

// ObjectPathStorePort persists the object path record of a project.
// Load reports false when the project has no record.
type ObjectPathStorePort interface {
	Load(ctx context.Context, project string) (types.ObjectPathRecord, bool, error)
	Save(ctx context.Context, project string, record types.ObjectPathRecord) error
}

// ManifestPort reads the object path declarations of a project manifest.
type ManifestPort interface {
	Read(ctx context.Context, project string) (types.Manifest, bool, error)
}

// ReportPort writes command results for other tools to pick up.
type ReportPort interface {
	WriteValidationReport(report types.ValidationReport) error
	WriteResolution(sources []types.ResolvedSource) error
}
