package adapters

import (
	"context"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"objectpath/internal/policies"
	"objectpath/internal/ports"
	"objectpath/internal/shared"
	"objectpath/internal/types"
)

const (
	ContainerTypeLibDir     = "libdir"
	ContainerTypeDescriptor = "descriptor"
)

// ContainerFactory creates the container of one type for a discriminator
// and the owning project. It reports false when the combination does not
// name a usable container.
type ContainerFactory func(ctx context.Context, resources ports.ResourcePort, discriminator string, project string) (ports.ContainerHandle, bool)

// ContainerRegistryAdapter resolves containers by type id. The libdir and
// descriptor types are registered by default.
type ContainerRegistryAdapter struct {
	resources ports.ResourcePort

	mu        sync.RWMutex
	factories map[string]ContainerFactory
}

func NewContainerRegistryAdapter(resources ports.ResourcePort) *ContainerRegistryAdapter {
	registry := &ContainerRegistryAdapter{
		resources: resources,
		factories: map[string]ContainerFactory{},
	}
	registry.Register(ContainerTypeLibDir, newLibDirContainer)
	registry.Register(ContainerTypeDescriptor, newDescriptorContainer)
	return registry
}

func (r *ContainerRegistryAdapter) Register(containerType string, factory ContainerFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(containerType)] = factory
}

func (r *ContainerRegistryAdapter) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *ContainerRegistryAdapter) Resolve(ctx context.Context, containerType string, discriminator string, project string) (ports.ContainerHandle, bool) {
	r.mu.RLock()
	factory, ok := r.factories[strings.ToLower(containerType)]
	r.mu.RUnlock()
	if !ok {
		log.Debug().Str("type", containerType).Msg("unknown container type")
		return nil, false
	}
	return factory(ctx, r.resources, discriminator, project)
}

// libDirContainer exposes the newest version of every archive in a
// folder.
type libDirContainer struct {
	resources ports.ResourcePort
	folder    string
	declared  string
}

func newLibDirContainer(ctx context.Context, resources ports.ResourcePort, discriminator string, project string) (ports.ContainerHandle, bool) {
	if strings.TrimSpace(discriminator) == "" {
		return nil, false
	}
	folder := shared.ResolveLocation(project, discriminator)
	exists, err := resources.Exists(ctx, folder)
	if err != nil || !exists {
		return nil, false
	}
	return libDirContainer{resources: resources, folder: folder, declared: discriminator}, true
}

func (c libDirContainer) Description() string {
	return ContainerTypeLibDir + ":" + c.folder
}

func (c libDirContainer) ResolveEntries(ctx context.Context) ([]types.EntryRecord, error) {
	children, err := c.resources.List(ctx, c.folder)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, child := range children {
		if !child.IsDir {
			names = append(names, child.Name)
		}
	}
	var records []types.EntryRecord
	for _, name := range policies.NewestArchives(names) {
		records = append(records, types.EntryRecord{
			Type:    types.EntryTypeArchive,
			Archive: path.Join(c.declared, name),
		})
	}
	return records, nil
}

// descriptorContainer reads its entries from a YAML file.
type descriptorContainer struct {
	resources ports.ResourcePort
	location  string
}

func newDescriptorContainer(ctx context.Context, resources ports.ResourcePort, discriminator string, project string) (ports.ContainerHandle, bool) {
	if strings.TrimSpace(discriminator) == "" {
		return nil, false
	}
	location := shared.ResolveLocation(project, discriminator)
	exists, err := resources.Exists(ctx, location)
	if err != nil || !exists {
		return nil, false
	}
	return descriptorContainer{resources: resources, location: location}, true
}

func (c descriptorContainer) Description() string {
	return ContainerTypeDescriptor + ":" + c.location
}

func (c descriptorContainer) ResolveEntries(ctx context.Context) ([]types.EntryRecord, error) {
	reader, err := c.resources.Open(ctx, c.location)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read container descriptor").
			WithCause(err)
	}
	var descriptor types.ContainerDescriptor
	if err := yaml.Unmarshal(data, &descriptor); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse container descriptor: " + c.location).
			WithCause(err)
	}
	return descriptor.Entries, nil
}

var _ ports.ContainerResolverPort = (*ContainerRegistryAdapter)(nil)
