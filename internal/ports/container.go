package ports

import (
	"context"

	"objectpath/internal/types"
)

// ContainerHandle is a resolved container. Entries are computed on every
// call; any caching is up to the implementation.
type ContainerHandle interface {
	Description() string
	ResolveEntries(ctx context.Context) ([]types.EntryRecord, error)
}

// ContainerResolverPort maps a container type id and discriminator, in
// the context of the owning project, to a container. It reports false
// when the combination does not name a usable container.
type ContainerResolverPort interface {
	Resolve(ctx context.Context, containerType string, discriminator string, project string) (ContainerHandle, bool)
}
