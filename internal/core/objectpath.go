package core

import (
	"context"
	"io"
	"slices"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"objectpath/internal/ports"
	"objectpath/internal/types"
)

// ObjectPath is the ordered list of entries objects of a project are
// resolved against. Earlier entries shadow later ones.
type ObjectPath struct {
	project *Project

	mu                           sync.RWMutex
	entries                      []Entry
	manifestDriven               bool
	outputDefinedPerSourceFolder bool
	outputFolderMergable         string
	outputFolderDerived          string
	basePackageMergable          string
	basePackageDerived           string
}

func NewObjectPath(project *Project) *ObjectPath {
	return &ObjectPath{project: project}
}

func (p *ObjectPath) Project() *Project {
	return p.project
}

func (p *ObjectPath) ProjectName() string {
	return p.project.Name()
}

func (p *ObjectPath) model() *Model {
	return p.project.model
}

func (p *ObjectPath) resources() ports.ResourcePort {
	return p.project.model.resources
}

func (p *ObjectPath) naming() ports.NamingPort {
	return p.project.model.naming
}

// Entries returns a copy of the declared entries.
func (p *ObjectPath) Entries() []Entry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.entries)
}

// ExplicitEntries returns the declared entries of an explicitly
// configured path. Manifest-driven paths have none to edit.
func (p *ObjectPath) ExplicitEntries() ([]Entry, error) {
	if p.ManifestDriven() {
		return nil, preconditionError("object path of " + p.ProjectName() + " is manifest driven")
	}
	return p.Entries(), nil
}

func (p *ObjectPath) Append(entry Entry) error {
	if err := p.checkOwner(entry); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, entry)
	return nil
}

// SetEntries replaces all entries.
func (p *ObjectPath) SetEntries(entries []Entry) error {
	for _, entry := range entries {
		if err := p.checkOwner(entry); err != nil {
			return err
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = slices.Clone(entries)
	return nil
}

func (p *ObjectPath) checkOwner(entry Entry) error {
	if entry == nil || entry.ObjectPath() != p {
		return preconditionError("entry does not belong to the object path of " + p.ProjectName())
	}
	return nil
}

func (p *ObjectPath) ManifestDriven() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.manifestDriven
}

func (p *ObjectPath) SetManifestDriven(manifestDriven bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.manifestDriven = manifestDriven
}

func (p *ObjectPath) OutputDefinedPerSourceFolder() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.outputDefinedPerSourceFolder
}

func (p *ObjectPath) SetOutputDefinedPerSourceFolder(perFolder bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.outputDefinedPerSourceFolder = perFolder
}

// OutputFolder returns the path-wide default output folder.
func (p *ObjectPath) OutputFolder(kind types.ArtifactKind) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if kind == types.ArtifactKindDerived {
		return p.outputFolderDerived
	}
	return p.outputFolderMergable
}

func (p *ObjectPath) SetOutputFolder(kind types.ArtifactKind, folder string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if kind == types.ArtifactKindDerived {
		p.outputFolderDerived = folder
		return
	}
	p.outputFolderMergable = folder
}

// BasePackage returns the path-wide default base package.
func (p *ObjectPath) BasePackage(kind types.ArtifactKind) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if kind == types.ArtifactKindDerived {
		return p.basePackageDerived
	}
	return p.basePackageMergable
}

func (p *ObjectPath) SetBasePackage(kind types.ArtifactKind, pkg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if kind == types.ArtifactKindDerived {
		p.basePackageDerived = pkg
		return
	}
	p.basePackageMergable = pkg
}

// FindSourceFile returns the file of the first entry holding qn.
func (p *ObjectPath) FindSourceFile(ctx context.Context, qn types.QualifiedName) (SourceFile, bool, error) {
	return p.findSourceFile(ctx, newSearchContext(p.ProjectName()), qn)
}

// FindAllSourceFiles returns the files of one kind from all entries in
// order. Shadowed files are included.
func (p *ObjectPath) FindAllSourceFiles(ctx context.Context, kind types.ObjectKind) ([]SourceFile, error) {
	return p.findAllSourceFiles(ctx, newSearchContext(p.ProjectName()), kind)
}

// Resource returns the first resource found at the relative path, or nil.
func (p *ObjectPath) Resource(ctx context.Context, relative string) (io.ReadCloser, error) {
	return p.findResource(ctx, newSearchContext(p.ProjectName()), relative)
}

func (p *ObjectPath) ContainsResource(ctx context.Context, relative string) (bool, error) {
	reader, err := p.Resource(ctx, relative)
	if err != nil || reader == nil {
		return false, err
	}
	return true, reader.Close()
}

func (p *ObjectPath) findSourceFile(ctx context.Context, sc *searchContext, qn types.QualifiedName) (SourceFile, bool, error) {
	for _, entry := range p.Entries() {
		file, ok, err := entry.findSourceFile(ctx, sc, qn)
		if err != nil || ok {
			return file, ok, err
		}
	}
	return SourceFile{}, false, nil
}

func (p *ObjectPath) findAllSourceFiles(ctx context.Context, sc *searchContext, kind types.ObjectKind) ([]SourceFile, error) {
	var files []SourceFile
	for _, entry := range p.Entries() {
		found, err := entry.findAllSourceFiles(ctx, sc, kind)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

func (p *ObjectPath) findResource(ctx context.Context, sc *searchContext, relative string) (io.ReadCloser, error) {
	for _, entry := range p.Entries() {
		reader, err := entry.findResource(ctx, sc, relative)
		if err != nil || reader != nil {
			return reader, err
		}
	}
	return nil, nil
}

// FindDuplicateSourceFile reports whether more than one entry claims qn.
// Containers count through the entries they resolve to.
func (p *ObjectPath) FindDuplicateSourceFile(ctx context.Context, qn types.QualifiedName) (bool, error) {
	leaves, err := p.leafEntries(ctx)
	if err != nil {
		return false, err
	}
	sc := newSearchContext(p.ProjectName())
	claims := 0
	for _, entry := range leaves {
		_, ok, err := entry.findSourceFile(ctx, sc, qn)
		if err != nil {
			return false, err
		}
		if ok {
			claims++
			if claims > 1 {
				return true, nil
			}
		}
	}
	return false, nil
}

// leafEntries expands containers into the entries they resolve to.
func (p *ObjectPath) leafEntries(ctx context.Context) ([]Entry, error) {
	var leaves []Entry
	var expand func(entries []Entry) error
	expand = func(entries []Entry) error {
		for _, entry := range entries {
			container, ok := entry.(*ContainerEntry)
			if !ok {
				leaves = append(leaves, entry)
				continue
			}
			resolved, err := container.ResolveEntries(ctx)
			if err != nil {
				return err
			}
			if err := expand(resolved); err != nil {
				return err
			}
		}
		return nil
	}
	if err := expand(p.Entries()); err != nil {
		return nil, err
	}
	return leaves, nil
}

func (p *ObjectPath) projectReferences(ctx context.Context) ([]*ProjectReferenceEntry, error) {
	leaves, err := p.leafEntries(ctx)
	if err != nil {
		return nil, err
	}
	var refs []*ProjectReferenceEntry
	for _, entry := range leaves {
		if ref, ok := entry.(*ProjectReferenceEntry); ok {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

// ReferencedProjects lists the projects this path references, in
// declaration order and without duplicates. The transitive walk follows
// only re-exported references beyond the first hop. Missing projects are
// left out.
func (p *ObjectPath) ReferencedProjects(ctx context.Context, transitive bool) ([]*Project, error) {
	seen := map[string]struct{}{p.ProjectName(): {}}
	var projects []*Project
	if err := p.collectReferences(ctx, transitive, false, seen, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (p *ObjectPath) collectReferences(ctx context.Context, transitive bool, reexportedOnly bool, seen map[string]struct{}, projects *[]*Project) error {
	refs, err := p.projectReferences(ctx)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if reexportedOnly && !ref.Reexported() {
			continue
		}
		target, ok := ref.Project()
		if !ok {
			continue
		}
		if _, ok := seen[target.Name()]; ok {
			continue
		}
		seen[target.Name()] = struct{}{}
		*projects = append(*projects, target)
		if !transitive {
			continue
		}
		if err := target.ObjectPath().collectReferences(ctx, true, true, seen, projects); err != nil {
			return err
		}
	}
	return nil
}

// DetectCycle reports whether a cycle of re-exported project references
// is reachable from the owning project.
func (p *ObjectPath) DetectCycle(ctx context.Context) (bool, error) {
	return p.detectCycle(ctx, map[string]bool{}, map[string]bool{})
}

func (p *ObjectPath) detectCycle(ctx context.Context, onStack map[string]bool, done map[string]bool) (bool, error) {
	name := p.ProjectName()
	onStack[name] = true
	defer delete(onStack, name)

	refs, err := p.projectReferences(ctx)
	if err != nil {
		return false, err
	}
	for _, ref := range refs {
		if !ref.Reexported() {
			continue
		}
		target, ok := ref.Project()
		if !ok {
			continue
		}
		if onStack[target.Name()] {
			return true, nil
		}
		if done[target.Name()] {
			continue
		}
		found, err := target.ObjectPath().detectCycle(ctx, onStack, done)
		if err != nil || found {
			return found, err
		}
	}
	done[name] = true
	return false, nil
}

// OutputFolders returns the project relative output folders in sorted
// order: the overrides of the declared source folders in per-folder
// mode, the path-wide defaults otherwise.
func (p *ObjectPath) OutputFolders() []string {
	var folders []string
	add := func(folder string) {
		if folder != "" {
			folders = append(folders, folder)
		}
	}
	if p.OutputDefinedPerSourceFolder() {
		for _, entry := range p.Entries() {
			if src, ok := entry.(*SourceFolderEntry); ok {
				add(src.OutputFolder(types.ArtifactKindMergable))
				add(src.OutputFolder(types.ArtifactKindDerived))
			}
		}
	} else {
		add(p.OutputFolder(types.ArtifactKindMergable))
		add(p.OutputFolder(types.ArtifactKindDerived))
	}
	slices.Sort(folders)
	return slices.Compact(folders)
}

// PackageRoots returns the roots of the declared entries in order.
func (p *ObjectPath) PackageRoots() []PackageRoot {
	var roots []PackageRoot
	for _, entry := range p.Entries() {
		if root, ok := entry.PackageRoot(); ok {
			roots = append(roots, root)
		}
	}
	return roots
}

// EntryFromRecord builds an entry owned by this path.
func (p *ObjectPath) EntryFromRecord(record types.EntryRecord) (Entry, error) {
	return p.entryFromRecord(record, 0)
}

func (p *ObjectPath) entryFromRecord(record types.EntryRecord, level int) (Entry, error) {
	switch record.Type {
	case types.EntryTypeSourceFolder:
		if record.Folder == "" {
			return nil, invalidRecord(record, "folder is required")
		}
		entry := NewSourceFolderEntry(p, record.Folder)
		entry.outputMergable = record.OutputFolderMergable
		entry.outputDerived = record.OutputFolderDerived
		entry.basePackageMergable = record.BasePackageMergable
		entry.basePackageDerived = record.BasePackageDerived
		entry.uniqueQualifier = record.UniqueQualifier
		entry.tocPath = record.TocPath
		entry.messagesBundle = record.MessagesBundle
		return entry, nil
	case types.EntryTypeArchive:
		if record.Archive == "" {
			return nil, invalidRecord(record, "archive is required")
		}
		return NewArchiveEntry(p, record.Archive), nil
	case types.EntryTypeProject:
		if record.Project == "" {
			return nil, invalidRecord(record, "project is required")
		}
		return NewProjectReferenceEntry(p, record.Project, record.Reexported), nil
	case types.EntryTypeContainer:
		if record.ContainerType == "" {
			return nil, invalidRecord(record, "container_type is required")
		}
		entry := NewContainerEntry(p, record.ContainerType, record.ContainerPath)
		entry.level = level
		return entry, nil
	default:
		return nil, invalidRecord(record, "unknown entry type")
	}
}

func invalidRecord(record types.EntryRecord, msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("invalid " + string(record.Type) + " entry: " + msg)
}
