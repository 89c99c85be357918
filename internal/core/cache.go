package core

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"objectpath/internal/types"
)

// sourceIndex maps a derived key to source files. It is filled by one
// full scan on first use and only emptied as a whole.
type sourceIndex[K comparable] struct {
	name string
	scan func(ctx context.Context) (map[K][]SourceFile, error)

	mu       sync.Mutex
	entries  map[K][]SourceFile
	built    bool
	disposed bool
}

func newSourceIndex[K comparable](name string, scan func(ctx context.Context) (map[K][]SourceFile, error)) *sourceIndex[K] {
	return &sourceIndex[K]{name: name, scan: scan}
}

func (c *sourceIndex[K]) ensure(ctx context.Context) error {
	if c.disposed {
		return preconditionError(c.name + " cache is disposed")
	}
	if c.built {
		return nil
	}
	entries, err := c.scan(ctx)
	if err != nil {
		return err
	}
	c.entries = entries
	c.built = true
	log.Ctx(ctx).Debug().Str("cache", c.name).Int("keys", len(entries)).Msg("cache populated")
	return nil
}

func (c *sourceIndex[K]) lookup(ctx context.Context, key K) ([]SourceFile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensure(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(c.entries[key]), nil
}

func (c *sourceIndex[K]) snapshot(ctx context.Context) (map[K][]SourceFile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensure(ctx); err != nil {
		return nil, err
	}
	out := make(map[K][]SourceFile, len(c.entries))
	for key, files := range c.entries {
		out[key] = slices.Clone(files)
	}
	return out, nil
}

func (c *sourceIndex[K]) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.built = false
}

func (c *sourceIndex[K]) dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.built = false
	c.disposed = true
}

// reachableSourceFiles returns the files of one kind a lookup by
// qualified name can reach: shadowed duplicates are dropped.
func reachableSourceFiles(ctx context.Context, project *Project, kind types.ObjectKind) ([]SourceFile, error) {
	files, err := project.FindAllSourceFiles(ctx, kind)
	if err != nil {
		return nil, err
	}
	seen := map[types.QualifiedName]struct{}{}
	reachable := files[:0]
	for _, file := range files {
		if _, ok := seen[file.QualifiedName]; ok {
			continue
		}
		seen[file.QualifiedName] = struct{}{}
		reachable = append(reachable, file)
	}
	return reachable, nil
}

// readProperties returns the declared properties of a file. Files that do
// not parse are skipped.
func readProperties(ctx context.Context, file SourceFile) (types.SourceProperties, bool, error) {
	props, err := file.Properties(ctx)
	if err == nil {
		return props, true, nil
	}
	if errbuilder.CodeOf(err) == errbuilder.CodeInvalidArgument {
		log.Ctx(ctx).Debug().Err(err).Str("file", file.Key()).Msg("skipping unparsable source file")
		return types.SourceProperties{}, false, nil
	}
	return types.SourceProperties{}, false, err
}

// UnqualifiedNameCache finds objects of one kind by their simple name.
// Each kind is scanned on its first query.
type UnqualifiedNameCache struct {
	project *Project

	mu       sync.Mutex
	byKind   map[types.ObjectKind]*sourceIndex[string]
	disposed bool
}

func newUnqualifiedNameCache(project *Project) *UnqualifiedNameCache {
	return &UnqualifiedNameCache{project: project, byKind: map[types.ObjectKind]*sourceIndex[string]{}}
}

func (c *UnqualifiedNameCache) Find(ctx context.Context, kind types.ObjectKind, name string) ([]SourceFile, error) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return nil, preconditionError("unqualified name cache is disposed")
	}
	index, ok := c.byKind[kind]
	if !ok {
		index = newSourceIndex("unqualified:"+string(kind), func(ctx context.Context) (map[string][]SourceFile, error) {
			files, err := reachableSourceFiles(ctx, c.project, kind)
			if err != nil {
				return nil, err
			}
			entries := map[string][]SourceFile{}
			for _, file := range files {
				entries[file.QualifiedName.Name] = append(entries[file.QualifiedName.Name], file)
			}
			return entries, nil
		})
		c.byKind[kind] = index
	}
	c.mu.Unlock()
	return index.lookup(ctx, name)
}

func (c *UnqualifiedNameCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, index := range c.byKind {
		index.clear()
	}
}

func (c *UnqualifiedNameCache) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, index := range c.byKind {
		index.dispose()
	}
	c.byKind = map[types.ObjectKind]*sourceIndex[string]{}
	c.disposed = true
}

// RuntimeIDCollision is a runtime id declared by more than one product
// component.
type RuntimeIDCollision struct {
	RuntimeID string
	Files     []SourceFile
}

// RuntimeIDCache maps the runtime ids declared by product components to
// their files.
type RuntimeIDCache struct {
	index *sourceIndex[string]
}

func newRuntimeIDCache(project *Project) *RuntimeIDCache {
	return &RuntimeIDCache{index: newSourceIndex("runtime_id", func(ctx context.Context) (map[string][]SourceFile, error) {
		files, err := reachableSourceFiles(ctx, project, types.KindProductCmpt)
		if err != nil {
			return nil, err
		}
		entries := map[string][]SourceFile{}
		for _, file := range files {
			props, ok, err := readProperties(ctx, file)
			if err != nil {
				return nil, err
			}
			if !ok || props.RuntimeID == "" {
				continue
			}
			entries[props.RuntimeID] = append(entries[props.RuntimeID], file)
		}
		return entries, nil
	})}
}

func (c *RuntimeIDCache) Find(ctx context.Context, runtimeID string) ([]SourceFile, error) {
	return c.index.lookup(ctx, runtimeID)
}

// Collisions returns the runtime ids used more than once, sorted by id.
func (c *RuntimeIDCache) Collisions(ctx context.Context) ([]RuntimeIDCollision, error) {
	entries, err := c.index.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	var collisions []RuntimeIDCollision
	for id, files := range entries {
		if len(files) > 1 {
			collisions = append(collisions, RuntimeIDCollision{RuntimeID: id, Files: files})
		}
	}
	slices.SortFunc(collisions, func(a, b RuntimeIDCollision) int {
		return strings.Compare(a.RuntimeID, b.RuntimeID)
	})
	return collisions, nil
}

func (c *RuntimeIDCache) Clear() {
	c.index.clear()
}

func (c *RuntimeIDCache) Dispose() {
	c.index.dispose()
}

// TableContentsCache maps a table structure to the table contents
// declaring it.
type TableContentsCache struct {
	index *sourceIndex[types.QualifiedName]
}

func newTableContentsCache(project *Project) *TableContentsCache {
	return &TableContentsCache{index: newSourceIndex("table_contents", func(ctx context.Context) (map[types.QualifiedName][]SourceFile, error) {
		files, err := reachableSourceFiles(ctx, project, types.KindTableContents)
		if err != nil {
			return nil, err
		}
		entries := map[types.QualifiedName][]SourceFile{}
		for _, file := range files {
			props, ok, err := readProperties(ctx, file)
			if err != nil {
				return nil, err
			}
			if !ok || props.TableStructure == "" {
				continue
			}
			structure, err := types.ParseQualifiedName(props.TableStructure, types.KindTableStructure)
			if err != nil {
				log.Ctx(ctx).Debug().Err(err).Str("file", file.Key()).Msg("skipping invalid table structure reference")
				continue
			}
			entries[structure] = append(entries[structure], file)
		}
		return entries, nil
	})}
}

// Find returns the contents of a structure. Only the namespace and name
// of the structure are significant.
func (c *TableContentsCache) Find(ctx context.Context, structure types.QualifiedName) ([]SourceFile, error) {
	structure.Kind = types.KindTableStructure
	return c.index.lookup(ctx, structure)
}

func (c *TableContentsCache) Clear() {
	c.index.clear()
}

func (c *TableContentsCache) Dispose() {
	c.index.dispose()
}
