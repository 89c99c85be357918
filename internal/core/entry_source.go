package core

import (
	"context"
	"io"
	"path"
	"strings"
	"sync"

	"objectpath/internal/ports"
	"objectpath/internal/types"
)

// SourceFolderEntry resolves objects from a folder of the owning project.
type SourceFolderEntry struct {
	path   *ObjectPath
	folder string

	mu                  sync.RWMutex

	outputMergable      string
	outputDerived       string
	basePackageMergable string
	basePackageDerived  string
	uniqueQualifier     string
	tocPath             string
	messagesBundle      string
}

var _ Entry = (*SourceFolderEntry)(nil)

func NewSourceFolderEntry(objectPath *ObjectPath, folder string) *SourceFolderEntry {
	return &SourceFolderEntry{
		path:   objectPath,
		folder: strings.Trim(path.Clean("/"+folder), "/"),
	}
}

func (e *SourceFolderEntry) Type() types.EntryType {
	return types.EntryTypeSourceFolder
}

func (e *SourceFolderEntry) ObjectPath() *ObjectPath {
	return e.path
}

func (e *SourceFolderEntry) Folder() string {
	return e.folder
}

// Root is the resource path of the folder.
func (e *SourceFolderEntry) Root() string {
	return path.Join(e.path.ProjectName(), e.folder)
}

func (e *SourceFolderEntry) OutputFolder(kind types.ArtifactKind) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if kind == types.ArtifactKindDerived {
		return e.outputDerived
	}
	return e.outputMergable
}

func (e *SourceFolderEntry) SetOutputFolder(kind types.ArtifactKind, folder string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if kind == types.ArtifactKindDerived {
		e.outputDerived = folder
		return
	}
	e.outputMergable = folder
}

func (e *SourceFolderEntry) BasePackage(kind types.ArtifactKind) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if kind == types.ArtifactKindDerived {
		return e.basePackageDerived
	}
	return e.basePackageMergable
}

func (e *SourceFolderEntry) SetBasePackage(kind types.ArtifactKind, pkg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if kind == types.ArtifactKindDerived {
		e.basePackageDerived = pkg
		return
	}
	e.basePackageMergable = pkg
}

func (e *SourceFolderEntry) UniqueQualifier() string { return e.uniqueQualifier }
func (e *SourceFolderEntry) TocPath() string         { return e.tocPath }
func (e *SourceFolderEntry) MessagesBundle() string  { return e.messagesBundle }

func (e *SourceFolderEntry) Exists(ctx context.Context, qn types.QualifiedName) (bool, error) {
	_, ok, err := findSourceFileIn(ctx, e, qn)
	return ok, err
}

func (e *SourceFolderEntry) FindSourceFile(ctx context.Context, qn types.QualifiedName) (SourceFile, bool, error) {
	return findSourceFileIn(ctx, e, qn)
}

func (e *SourceFolderEntry) FindAllSourceFiles(ctx context.Context, kind types.ObjectKind) ([]SourceFile, error) {
	return findAllSourceFilesIn(ctx, e, kind)
}

func (e *SourceFolderEntry) PackageRoot() (PackageRoot, bool) {
	return PackageRoot{Name: e.Root(), Entry: e}, true
}

func (e *SourceFolderEntry) ContainsResource(ctx context.Context, relative string) (bool, error) {
	return e.resources().Exists(ctx, path.Join(e.Root(), relative))
}

func (e *SourceFolderEntry) Resource(ctx context.Context, relative string) (io.ReadCloser, error) {
	return findResourceIn(ctx, e, relative)
}

func (e *SourceFolderEntry) findSourceFile(ctx context.Context, _ *searchContext, qn types.QualifiedName) (SourceFile, bool, error) {
	if qn.IsZero() {
		return SourceFile{}, false, nil
	}
	// walk never descends into invalid package folders
	if qn.Namespace != "" && !validName(e.path.naming(), qn.Namespace) {
		return SourceFile{}, false, nil
	}
	file := e.sourceFile(qn)
	exists, err := e.resources().Exists(ctx, path.Join(file.Root, file.Path))
	if err != nil || !exists {
		return SourceFile{}, false, err
	}
	return file, true, nil
}

func (e *SourceFolderEntry) findAllSourceFiles(ctx context.Context, _ *searchContext, kind types.ObjectKind) ([]SourceFile, error) {
	root := e.Root()
	exists, err := e.resources().Exists(ctx, root)
	if err != nil || !exists {
		return nil, err
	}
	var files []SourceFile
	if err := e.walk(ctx, root, "", kind, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// walk collects the files of one kind below dir. Folders whose name is
// not a valid package segment are skipped.
func (e *SourceFolderEntry) walk(ctx context.Context, dir string, relative string, kind types.ObjectKind, files *[]SourceFile) error {
	children, err := e.resources().List(ctx, dir)
	if err != nil {
		return err
	}
	for _, child := range children {
		childRelative := child.Name
		if relative != "" {
			childRelative = relative + "/" + child.Name
		}
		if child.IsDir {
			if !validName(e.path.naming(), child.Name) {
				continue
			}
			if err := e.walk(ctx, path.Join(dir, child.Name), childRelative, kind, files); err != nil {
				return err
			}
			continue
		}
		qn, ok := types.QualifiedNameFromPath(childRelative)
		if !ok || qn.Kind != kind {
			continue
		}
		*files = append(*files, e.sourceFile(qn))
	}
	return nil
}

func (e *SourceFolderEntry) findResource(ctx context.Context, _ *searchContext, relative string) (io.ReadCloser, error) {
	location := path.Join(e.Root(), relative)
	exists, err := e.resources().Exists(ctx, location)
	if err != nil || !exists {
		return nil, err
	}
	return e.resources().Open(ctx, location)
}

func (e *SourceFolderEntry) sourceFile(qn types.QualifiedName) SourceFile {
	root := e.Root()
	relative := qn.Path()
	resources := e.resources()
	return SourceFile{
		QualifiedName: qn,
		Root:          root,
		Path:          relative,
		EntryType:     types.EntryTypeSourceFolder,
		open: func(ctx context.Context) (io.ReadCloser, error) {
			return resources.Open(ctx, path.Join(root, relative))
		},
	}
}

func (e *SourceFolderEntry) Validate(ctx context.Context) types.Diagnostics {
	var diags types.Diagnostics
	exists, err := e.resources().Exists(ctx, e.Root())
	if err != nil || !exists {
		diags = append(diags, types.Diagnostic{
			Severity: types.SeverityError,
			Code:     types.CodeSourceFolderMissing,
			Message:  "source folder does not exist",
			Object:   e.Root(),
			Cause:    err,
		})
	}
	if !e.path.OutputDefinedPerSourceFolder() {
		return diags
	}
	for _, kind := range []types.ArtifactKind{types.ArtifactKindMergable, types.ArtifactKindDerived} {
		if e.OutputFolder(kind) == "" {
			diags = append(diags, types.Diagnostic{
				Severity: types.SeverityError,
				Code:     types.CodeOutputFolderMissing,
				Message:  "no " + string(kind) + " output folder set",
				Object:   e.Root(),
			})
		}
		diags = append(diags, validateBasePackage(e.path.naming(), e.BasePackage(kind), kind, e.Root())...)
	}
	return diags
}

func (e *SourceFolderEntry) Record() types.EntryRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return types.EntryRecord{
		Type:                 types.EntryTypeSourceFolder,
		Folder:               e.folder,
		OutputFolderMergable: e.outputMergable,
		OutputFolderDerived:  e.outputDerived,
		BasePackageMergable:  e.basePackageMergable,
		BasePackageDerived:   e.basePackageDerived,
		UniqueQualifier:      e.uniqueQualifier,
		TocPath:              e.tocPath,
		MessagesBundle:       e.messagesBundle,
	}
}

func (e *SourceFolderEntry) String() string {
	return "src:" + e.Root()
}

func (e *SourceFolderEntry) resources() ports.ResourcePort {
	return e.path.resources()
}
