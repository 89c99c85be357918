package core

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"objectpath/internal/types"
)

// Project owns an object path and the resolution caches derived from it.
type Project struct {
	name  string
	model *Model

	mu   sync.RWMutex
	path *ObjectPath

	cacheMu       sync.Mutex
	disposed      bool
	unqualified   *UnqualifiedNameCache
	runtimeIDs    *RuntimeIDCache
	tableContents *TableContentsCache
}

func newProject(model *Model, name string) *Project {
	project := &Project{name: name, model: model}
	project.path = NewObjectPath(project)
	return project
}

func (p *Project) Name() string {
	return p.name
}

func (p *Project) Model() *Model {
	return p.model
}

func (p *Project) ObjectPath() *ObjectPath {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.path
}

// SetObjectPath replaces the object path and clears all caches.
func (p *Project) SetObjectPath(path *ObjectPath) error {
	if path == nil || path.project != p {
		return preconditionError("object path does not belong to project " + p.name)
	}
	p.mu.Lock()
	p.path = path
	p.mu.Unlock()
	p.ClearCaches()
	return nil
}

func (p *Project) FindSourceFile(ctx context.Context, qn types.QualifiedName) (SourceFile, bool, error) {
	return p.ObjectPath().FindSourceFile(ctx, qn)
}

// FindSourceFileByName parses a dotted name of the given kind and looks
// it up.
func (p *Project) FindSourceFileByName(ctx context.Context, kind types.ObjectKind, qualified string) (SourceFile, bool, error) {
	qn, err := types.ParseQualifiedName(qualified, kind)
	if err != nil {
		return SourceFile{}, false, invalidArgument(err)
	}
	return p.FindSourceFile(ctx, qn)
}

func (p *Project) FindAllSourceFiles(ctx context.Context, kind types.ObjectKind) ([]SourceFile, error) {
	return p.ObjectPath().FindAllSourceFiles(ctx, kind)
}

func (p *Project) ReferencedProjects(ctx context.Context, transitive bool) ([]*Project, error) {
	return p.ObjectPath().ReferencedProjects(ctx, transitive)
}

// Validate reports the problems of the object path and runtime id
// collisions between product components.
func (p *Project) Validate(ctx context.Context) (types.Diagnostics, error) {
	diags, err := p.ObjectPath().Validate(ctx)
	if err != nil {
		return nil, err
	}
	collisions, err := p.RuntimeIDs().Collisions(ctx)
	if IsArchiveReadError(err) {
		log.Ctx(ctx).Debug().Err(err).Str("project", p.name).Msg("runtime id check skipped")
		return diags, nil
	}
	if err != nil {
		return nil, err
	}
	for _, collision := range collisions {
		names := make([]string, 0, len(collision.Files))
		for _, file := range collision.Files {
			names = append(names, file.QualifiedName.Qualified())
		}
		diags = append(diags, types.Diagnostic{
			Severity: types.SeverityWarning,
			Code:     types.CodeRuntimeIDCollision,
			Message:  fmt.Sprintf("runtime id %q is used by %s", collision.RuntimeID, strings.Join(names, ", ")),
			Object:   p.name,
		})
	}
	return diags, nil
}

func (p *Project) UnqualifiedNames() *UnqualifiedNameCache {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	if p.unqualified == nil {
		p.unqualified = newUnqualifiedNameCache(p)
		if p.disposed {
			p.unqualified.Dispose()
		}
	}
	return p.unqualified
}

func (p *Project) RuntimeIDs() *RuntimeIDCache {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	if p.runtimeIDs == nil {
		p.runtimeIDs = newRuntimeIDCache(p)
		if p.disposed {
			p.runtimeIDs.Dispose()
		}
	}
	return p.runtimeIDs
}

func (p *Project) TableContents() *TableContentsCache {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	if p.tableContents == nil {
		p.tableContents = newTableContentsCache(p)
		if p.disposed {
			p.tableContents.Dispose()
		}
	}
	return p.tableContents
}

func (p *Project) FindByUnqualifiedName(ctx context.Context, kind types.ObjectKind, name string) ([]SourceFile, error) {
	return p.UnqualifiedNames().Find(ctx, kind, name)
}

func (p *Project) FindByRuntimeID(ctx context.Context, runtimeID string) ([]SourceFile, error) {
	return p.RuntimeIDs().Find(ctx, runtimeID)
}

func (p *Project) FindTableContents(ctx context.Context, structure types.QualifiedName) ([]SourceFile, error) {
	return p.TableContents().Find(ctx, structure)
}

// ClearCaches drops the content of every resolution cache.
func (p *Project) ClearCaches() {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	if p.unqualified != nil {
		p.unqualified.Clear()
	}
	if p.runtimeIDs != nil {
		p.runtimeIDs.Clear()
	}
	if p.tableContents != nil {
		p.tableContents.Clear()
	}
	log.Debug().Str("project", p.name).Msg("resolution caches cleared")
}

// Dispose releases the caches. Cache queries fail afterwards.
func (p *Project) Dispose() {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	p.disposed = true
	if p.unqualified != nil {
		p.unqualified.Dispose()
	}
	if p.runtimeIDs != nil {
		p.runtimeIDs.Dispose()
	}
	if p.tableContents != nil {
		p.tableContents.Dispose()
	}
}

func (p *Project) String() string {
	return p.name
}
