package core

import (
	"context"
	"io"

	"objectpath/internal/types"
)

// ProjectReferenceEntry makes the objects of another project visible.
// Beyond the first project boundary only re-exported references are
// followed.
type ProjectReferenceEntry struct {
	path       *ObjectPath
	project    string
	reexported bool
}

var _ Entry = (*ProjectReferenceEntry)(nil)

func NewProjectReferenceEntry(objectPath *ObjectPath, project string, reexported bool) *ProjectReferenceEntry {
	return &ProjectReferenceEntry{path: objectPath, project: project, reexported: reexported}
}

func (e *ProjectReferenceEntry) Type() types.EntryType {
	return types.EntryTypeProject
}

func (e *ProjectReferenceEntry) ObjectPath() *ObjectPath {
	return e.path
}

func (e *ProjectReferenceEntry) ProjectName() string {
	return e.project
}

func (e *ProjectReferenceEntry) Reexported() bool {
	return e.reexported
}

// Project looks the referenced project up in the owning model.
func (e *ProjectReferenceEntry) Project() (*Project, bool) {
	return e.path.model().Project(e.project)
}

func (e *ProjectReferenceEntry) Exists(ctx context.Context, qn types.QualifiedName) (bool, error) {
	_, ok, err := findSourceFileIn(ctx, e, qn)
	return ok, err
}

func (e *ProjectReferenceEntry) FindSourceFile(ctx context.Context, qn types.QualifiedName) (SourceFile, bool, error) {
	return findSourceFileIn(ctx, e, qn)
}

func (e *ProjectReferenceEntry) FindAllSourceFiles(ctx context.Context, kind types.ObjectKind) ([]SourceFile, error) {
	return findAllSourceFilesIn(ctx, e, kind)
}

func (e *ProjectReferenceEntry) PackageRoot() (PackageRoot, bool) {
	return PackageRoot{}, false
}

func (e *ProjectReferenceEntry) ContainsResource(ctx context.Context, relative string) (bool, error) {
	reader, err := findResourceIn(ctx, e, relative)
	if err != nil || reader == nil {
		return false, err
	}
	return true, reader.Close()
}

func (e *ProjectReferenceEntry) Resource(ctx context.Context, relative string) (io.ReadCloser, error) {
	return findResourceIn(ctx, e, relative)
}

// descend returns the referenced object path when the search may enter
// it. The returned func restores the search depth.
func (e *ProjectReferenceEntry) descend(sc *searchContext) (*ObjectPath, func(), bool) {
	if sc.depth > 0 && !e.reexported {
		return nil, nil, false
	}
	project, ok := e.Project()
	if !ok || !sc.enter(project.Name()) {
		return nil, nil, false
	}
	sc.depth++
	return project.ObjectPath(), func() { sc.depth-- }, true
}

func (e *ProjectReferenceEntry) findSourceFile(ctx context.Context, sc *searchContext, qn types.QualifiedName) (SourceFile, bool, error) {
	target, leave, ok := e.descend(sc)
	if !ok {
		return SourceFile{}, false, nil
	}
	defer leave()
	return target.findSourceFile(ctx, sc, qn)
}

func (e *ProjectReferenceEntry) findAllSourceFiles(ctx context.Context, sc *searchContext, kind types.ObjectKind) ([]SourceFile, error) {
	target, leave, ok := e.descend(sc)
	if !ok {
		return nil, nil
	}
	defer leave()
	return target.findAllSourceFiles(ctx, sc, kind)
}

func (e *ProjectReferenceEntry) findResource(ctx context.Context, sc *searchContext, relative string) (io.ReadCloser, error) {
	target, leave, ok := e.descend(sc)
	if !ok {
		return nil, nil
	}
	defer leave()
	return target.findResource(ctx, sc, relative)
}

func (e *ProjectReferenceEntry) Validate(context.Context) types.Diagnostics {
	if _, ok := e.Project(); ok {
		return nil
	}
	return types.Diagnostics{{
		Severity: types.SeverityError,
		Code:     types.CodeProjectMissing,
		Message:  "referenced project does not exist",
		Object:   e.project,
	}}
}

func (e *ProjectReferenceEntry) Record() types.EntryRecord {
	return types.EntryRecord{Type: types.EntryTypeProject, Project: e.project, Reexported: e.reexported}
}

func (e *ProjectReferenceEntry) String() string {
	return "project:" + e.project
}
