package core

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"objectpath/internal/ports"
)

const (
	defaultArchiveCacheSize = 64
	// maxContainerDepth bounds nested container expansion.
	maxContainerDepth = 8
)

// Model owns every known project and the archive indices shared between
// their archive entries.
type Model struct {
	resources  ports.ResourcePort
	containers ports.ContainerResolverPort
	naming     ports.NamingPort

	mu       sync.RWMutex
	projects map[string]*Project

	archiveMu sync.Mutex
	archives  *lru.Cache[string, *ArchiveIndex]
}

type ModelOption func(*modelOptions)

type modelOptions struct {
	archiveCacheSize int
	containers       ports.ContainerResolverPort
	naming           ports.NamingPort
}

func WithArchiveCacheSize(size int) ModelOption {
	return func(o *modelOptions) {
		o.archiveCacheSize = size
	}
}

func WithContainerResolver(resolver ports.ContainerResolverPort) ModelOption {
	return func(o *modelOptions) {
		o.containers = resolver
	}
}

func WithNaming(naming ports.NamingPort) ModelOption {
	return func(o *modelOptions) {
		o.naming = naming
	}
}

func NewModel(resources ports.ResourcePort, opts ...ModelOption) (*Model, error) {
	if resources == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("model requires a resource port")
	}
	options := modelOptions{archiveCacheSize: defaultArchiveCacheSize}
	for _, opt := range opts {
		opt(&options)
	}
	if options.archiveCacheSize <= 0 {
		options.archiveCacheSize = defaultArchiveCacheSize
	}
	archives, err := lru.New[string, *ArchiveIndex](options.archiveCacheSize)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid archive cache size").
			WithCause(err)
	}
	return &Model{
		resources:  resources,
		containers: options.containers,
		naming:     options.naming,
		projects:   map[string]*Project{},
		archives:   archives,
	}, nil
}

// AddProject registers a project with an empty object path. Adding a
// name twice fails with CodeAlreadyExists.
func (m *Model) AddProject(name string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project name is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[name]; ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeAlreadyExists).
			WithMsg("project already exists: " + name)
	}
	project := newProject(m, name)
	m.projects[name] = project
	return project, nil
}

func (m *Model) Project(name string) (*Project, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	project, ok := m.projects[name]
	return project, ok
}

// Projects returns all projects ordered by name.
func (m *Model) Projects() []*Project {
	m.mu.RLock()
	projects := make([]*Project, 0, len(m.projects))
	for _, project := range m.projects {
		projects = append(projects, project)
	}
	m.mu.RUnlock()
	slices.SortFunc(projects, func(a, b *Project) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return projects
}

// DeleteProject removes the project and disposes its caches. Entries of
// other projects referencing it resolve to nothing afterwards.
func (m *Model) DeleteProject(ctx context.Context, name string) bool {
	m.mu.Lock()
	project, ok := m.projects[name]
	delete(m.projects, name)
	m.mu.Unlock()
	if !ok {
		return false
	}
	project.Dispose()
	log.Ctx(ctx).Debug().Str("project", name).Msg("project deleted")
	return true
}

// ClearCaches clears the resolution caches of every project.
func (m *Model) ClearCaches() {
	for _, project := range m.Projects() {
		project.ClearCaches()
	}
}

// archiveIndex returns the shared index for an archive location.
func (m *Model) archiveIndex(location string) *ArchiveIndex {
	m.archiveMu.Lock()
	defer m.archiveMu.Unlock()
	if index, ok := m.archives.Get(location); ok {
		return index
	}
	index := NewArchiveIndex(location, m.resources, m.naming)
	m.archives.Add(location, index)
	return index
}

func validName(naming ports.NamingPort, candidate string) bool {
	if naming == nil {
		return true
	}
	return len(naming.Validate(candidate)) == 0
}
