package adapters

import (
	"bytes"
	"context"
	"io"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"objectpath/internal/ports"
	"objectpath/internal/shared"
	"objectpath/internal/types"
)

// AFSResourceAdapter serves resources below a base URL through afs. Any
// afs scheme works; plain directories are mapped to file URLs.
type AFSResourceAdapter struct {
	fs      afs.Service
	baseURL string
}

func NewAFSResourceAdapter(base string) (AFSResourceAdapter, error) {
	baseURL, err := normalizeBaseURL(base)
	if err != nil {
		return AFSResourceAdapter{}, err
	}
	return AFSResourceAdapter{fs: afs.New(), baseURL: baseURL}, nil
}

func normalizeBaseURL(base string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("workspace location is empty")
	}
	if shared.HasScheme(base) {
		return strings.TrimSuffix(base, "/"), nil
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid workspace location").
			WithCause(err)
	}
	return "file://" + filepath.ToSlash(abs), nil
}

func (a AFSResourceAdapter) BaseURL() string {
	return a.baseURL
}

// URL maps a resource path to its URL. Paths carrying a scheme are
// returned unchanged.
func (a AFSResourceAdapter) URL(location string) string {
	if shared.HasScheme(location) {
		return location
	}
	location = shared.CleanResourcePath(location)
	if location == "" {
		return a.baseURL
	}
	return url.Join(a.baseURL, location)
}

func (a AFSResourceAdapter) Exists(ctx context.Context, location string) (bool, error) {
	exists, err := a.fs.Exists(ctx, a.URL(location))
	if err != nil {
		return false, resourceError("failed to check resource", location, err)
	}
	return exists, nil
}

func (a AFSResourceAdapter) ModTime(ctx context.Context, location string) (time.Time, error) {
	object, err := a.fs.Object(ctx, a.URL(location))
	if err != nil {
		return time.Time{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("resource not found: " + location).
			WithCause(err)
	}
	return object.ModTime(), nil
}

func (a AFSResourceAdapter) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	reader, err := a.fs.OpenURL(ctx, a.URL(location))
	if err != nil {
		return nil, resourceError("failed to open resource", location, err)
	}
	return reader, nil
}

// List returns the direct children of a folder sorted by name. The folder
// itself is not included.
func (a AFSResourceAdapter) List(ctx context.Context, location string) ([]types.ResourceInfo, error) {
	folderURL := a.URL(location)
	objects, err := a.fs.List(ctx, folderURL)
	if err != nil {
		return nil, resourceError("failed to list resource", location, err)
	}
	infos := make([]types.ResourceInfo, 0, len(objects))
	for _, object := range objects {
		if samePath(object.URL(), folderURL) {
			continue
		}
		infos = append(infos, types.ResourceInfo{
			Name:    object.Name(),
			Path:    path.Join(location, object.Name()),
			IsDir:   object.IsDir(),
			ModTime: object.ModTime(),
			Size:    object.Size(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func (a AFSResourceAdapter) Write(ctx context.Context, location string, data []byte) error {
	if err := a.fs.Upload(ctx, a.URL(location), file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return resourceError("failed to write resource", location, err)
	}
	log.Debug().Str("resource", location).Int("bytes", len(data)).Msg("resource written")
	return nil
}

// samePath ignores the host part: file listings report the folder itself
// as file://localhost/... while the adapter builds file:///... URLs.
func samePath(a, b string) bool {
	return strings.Trim(url.Path(a), "/") == strings.Trim(url.Path(b), "/")
}

func resourceError(msg string, location string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(msg + ": " + location).
		WithCause(err)
}

var _ ports.ResourcePort = AFSResourceAdapter{}
