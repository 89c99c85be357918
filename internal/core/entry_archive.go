package core

import (
	"context"
	"io"
	"sync"

	"objectpath/internal/shared"
	"objectpath/internal/types"
)

// ArchiveEntry resolves objects from an indexed archive. The index is
// bound on first use and shared with every entry naming the same
// archive.
type ArchiveEntry struct {
	path     *ObjectPath
	location string

	bind  sync.Once
	index *ArchiveIndex
}

var _ Entry = (*ArchiveEntry)(nil)

func NewArchiveEntry(objectPath *ObjectPath, location string) *ArchiveEntry {
	return &ArchiveEntry{path: objectPath, location: location}
}

func (e *ArchiveEntry) Type() types.EntryType {
	return types.EntryTypeArchive
}

func (e *ArchiveEntry) ObjectPath() *ObjectPath {
	return e.path
}

// Location is the archive location as declared.
func (e *ArchiveEntry) Location() string {
	return e.location
}

// ResolvedLocation is the resource path the archive is read from.
func (e *ArchiveEntry) ResolvedLocation() string {
	return shared.ResolveLocation(e.path.ProjectName(), e.location)
}

func (e *ArchiveEntry) Index() *ArchiveIndex {
	e.bind.Do(func() {
		e.index = e.path.model().archiveIndex(e.ResolvedLocation())
	})
	return e.index
}

func (e *ArchiveEntry) Exists(ctx context.Context, qn types.QualifiedName) (bool, error) {
	_, ok, err := findSourceFileIn(ctx, e, qn)
	return ok, err
}

func (e *ArchiveEntry) FindSourceFile(ctx context.Context, qn types.QualifiedName) (SourceFile, bool, error) {
	return findSourceFileIn(ctx, e, qn)
}

func (e *ArchiveEntry) FindAllSourceFiles(ctx context.Context, kind types.ObjectKind) ([]SourceFile, error) {
	return findAllSourceFilesIn(ctx, e, kind)
}

func (e *ArchiveEntry) PackageRoot() (PackageRoot, bool) {
	return PackageRoot{Name: e.ResolvedLocation(), Entry: e}, true
}

func (e *ArchiveEntry) ContainsResource(ctx context.Context, relative string) (bool, error) {
	return e.Index().Contains(ctx, relative)
}

func (e *ArchiveEntry) Resource(ctx context.Context, relative string) (io.ReadCloser, error) {
	return findResourceIn(ctx, e, relative)
}

// BasePackage returns the base package the archive records for an object.
func (e *ArchiveEntry) BasePackage(ctx context.Context, qn types.QualifiedName, kind types.ArtifactKind) (string, bool, error) {
	return e.Index().BasePackage(ctx, qn, kind)
}

func (e *ArchiveEntry) findSourceFile(ctx context.Context, _ *searchContext, qn types.QualifiedName) (SourceFile, bool, error) {
	if qn.IsZero() {
		return SourceFile{}, false, nil
	}
	ok, err := e.Index().containsObject(ctx, qn)
	if err != nil || !ok {
		return SourceFile{}, false, err
	}
	return e.sourceFile(qn), true, nil
}

func (e *ArchiveEntry) findAllSourceFiles(ctx context.Context, _ *searchContext, kind types.ObjectKind) ([]SourceFile, error) {
	names, err := e.Index().QualifiedNames(ctx)
	if err != nil {
		return nil, err
	}
	var files []SourceFile
	for _, qn := range names {
		if qn.Kind == kind {
			files = append(files, e.sourceFile(qn))
		}
	}
	return files, nil
}

func (e *ArchiveEntry) findResource(ctx context.Context, _ *searchContext, relative string) (io.ReadCloser, error) {
	return e.Index().Content(ctx, relative)
}

func (e *ArchiveEntry) sourceFile(qn types.QualifiedName) SourceFile {
	index := e.Index()
	relative := qn.Path()
	return SourceFile{
		QualifiedName: qn,
		Root:          index.Location(),
		Path:          relative,
		EntryType:     types.EntryTypeArchive,
		open: func(ctx context.Context) (io.ReadCloser, error) {
			return index.Content(ctx, relative)
		},
	}
}

func (e *ArchiveEntry) Validate(ctx context.Context) types.Diagnostics {
	valid, err := e.Index().IsValid(ctx)
	if err != nil {
		return types.Diagnostics{{
			Severity: types.SeverityError,
			Code:     types.CodeArchiveInvalid,
			Message:  "archive cannot be read",
			Object:   e.ResolvedLocation(),
			Cause:    err,
		}}
	}
	if !valid {
		return types.Diagnostics{{
			Severity: types.SeverityError,
			Code:     types.CodeArchiveMissing,
			Message:  "archive does not exist",
			Object:   e.ResolvedLocation(),
		}}
	}
	return nil
}

func (e *ArchiveEntry) Record() types.EntryRecord {
	return types.EntryRecord{Type: types.EntryTypeArchive, Archive: e.location}
}

func (e *ArchiveEntry) String() string {
	return "archive:" + e.ResolvedLocation()
}
