package core

import (
	"context"
	"io"

	"objectpath/internal/types"
)

// Entry is one contributor to an object path. The set of variants is
// closed: source folders, archives, project references and containers.
type Entry interface {
	Type() types.EntryType
	ObjectPath() *ObjectPath
	Exists(ctx context.Context, qn types.QualifiedName) (bool, error)
	FindSourceFile(ctx context.Context, qn types.QualifiedName) (SourceFile, bool, error)
	FindAllSourceFiles(ctx context.Context, kind types.ObjectKind) ([]SourceFile, error)
	// PackageRoot reports the single root the entry owns. Project
	// references and containers own none.
	PackageRoot() (PackageRoot, bool)
	ContainsResource(ctx context.Context, relative string) (bool, error)
	// Resource returns nil when the entry does not hold the resource.
	Resource(ctx context.Context, relative string) (io.ReadCloser, error)
	Validate(ctx context.Context) types.Diagnostics
	Record() types.EntryRecord
	String() string

	findSourceFile(ctx context.Context, sc *searchContext, qn types.QualifiedName) (SourceFile, bool, error)
	findAllSourceFiles(ctx context.Context, sc *searchContext, kind types.ObjectKind) ([]SourceFile, error)
	findResource(ctx context.Context, sc *searchContext, relative string) (io.ReadCloser, error)
}

// PackageRoot is the root folder or archive objects are resolved against.
type PackageRoot struct {
	Name  string
	Entry Entry
}

// searchContext carries the state of one query across project
// boundaries. Depth counts the project references descended through.
type searchContext struct {
	visited map[string]struct{}
	depth   int
}

func newSearchContext(owner string) *searchContext {
	return &searchContext{visited: map[string]struct{}{owner: {}}}
}

// enter marks a project as searched. It reports false when the project
// was already searched during this query.
func (sc *searchContext) enter(project string) bool {
	if _, ok := sc.visited[project]; ok {
		return false
	}
	sc.visited[project] = struct{}{}
	return true
}

func findSourceFileIn(ctx context.Context, entry Entry, qn types.QualifiedName) (SourceFile, bool, error) {
	return entry.findSourceFile(ctx, newSearchContext(entry.ObjectPath().ProjectName()), qn)
}

func findAllSourceFilesIn(ctx context.Context, entry Entry, kind types.ObjectKind) ([]SourceFile, error) {
	return entry.findAllSourceFiles(ctx, newSearchContext(entry.ObjectPath().ProjectName()), kind)
}

func findResourceIn(ctx context.Context, entry Entry, relative string) (io.ReadCloser, error) {
	return entry.findResource(ctx, newSearchContext(entry.ObjectPath().ProjectName()), relative)
}
