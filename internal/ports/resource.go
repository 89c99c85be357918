package ports

import (
	"context"
	"io"
	"time"

	"objectpath/internal/types"
)

// ResourcePort gives access to one logical root: a workspace folder, the
// local filesystem or an in-memory store. Paths are slash separated and
// relative to the root unless they carry a URL scheme.
type ResourcePort interface {
	Exists(ctx context.Context, path string) (bool, error)
	// ModTime returns the modification stamp used for staleness checks.
	ModTime(ctx context.Context, path string) (time.Time, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	// List returns the direct children of a folder.
	List(ctx context.Context, path string) ([]types.ResourceInfo, error)
	Write(ctx context.Context, path string, data []byte) error
}
