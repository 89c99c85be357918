package core

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/magiconair/properties"
	"github.com/rs/zerolog/log"

	"objectpath/internal/ports"
	"objectpath/internal/types"
)

const (
	archiveObjectsRoot    = "objects/"
	archivePropertiesName = "objects.properties"

	keyBasePackageMergable = ".basePackageMergable"
	keyBasePackageDerived  = ".basePackageDerived"
	// Keys written by older archive builders.
	legacyKeyBasePackageMergable = ".basePackageGenerated"
	legacyKeyBasePackageDerived  = ".basePackageExtension"
)

var assetExtensions = []string{".gif", ".png", ".jpg", ".jpeg", ".svg", ".ico"}

type archiveMetadata struct {
	basePackageMergable string
	basePackageDerived  string
}

type archiveContent struct {
	files    map[string][]byte
	packages map[string]map[types.QualifiedName]struct{}
	metadata map[string]archiveMetadata
}

// ArchiveIndex indexes the content of one archive. It is rebuilt when the
// modification stamp of the archive changes. A missing archive indexes
// as empty.
type ArchiveIndex struct {
	location  string
	resources ports.ResourcePort
	naming    ports.NamingPort

	mu      sync.Mutex
	indexed bool
	exists  bool
	stamp   time.Time
	content archiveContent
}

func NewArchiveIndex(location string, resources ports.ResourcePort, naming ports.NamingPort) *ArchiveIndex {
	return &ArchiveIndex{
		location:  location,
		resources: resources,
		naming:    naming,
	}
}

func (a *ArchiveIndex) Location() string {
	return a.location
}

// snapshot returns the current content, rebuilding it first when the
// archive changed. A failed rebuild leaves the previous content in place.
func (a *ArchiveIndex) snapshot(ctx context.Context) (archiveContent, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	exists, err := a.resources.Exists(ctx, a.location)
	if err != nil {
		return a.content, a.exists, archiveReadError(a.location, err)
	}
	if !exists {
		if a.exists || !a.indexed {
			log.Ctx(ctx).Debug().Str("archive", a.location).Msg("archive missing, index emptied")
		}
		a.indexed = true
		a.exists = false
		a.stamp = time.Time{}
		a.content = archiveContent{}
		return a.content, false, nil
	}
	stamp, err := a.resources.ModTime(ctx, a.location)
	if err != nil {
		return a.content, a.exists, archiveReadError(a.location, err)
	}
	if a.indexed && a.exists && stamp.Equal(a.stamp) {
		return a.content, true, nil
	}

	content, err := a.build(ctx)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("archive", a.location).Msg("archive rebuild failed")
		return a.content, a.exists, err
	}
	a.indexed = true
	a.exists = true
	a.stamp = stamp
	a.content = content
	log.Ctx(ctx).Debug().
		Str("archive", a.location).
		Int("files", len(content.files)).
		Int("packages", len(content.packages)).
		Msg("archive indexed")
	return a.content, true, nil
}

func (a *ArchiveIndex) build(ctx context.Context) (archiveContent, error) {
	reader, err := a.resources.Open(ctx, a.location)
	if err != nil {
		return archiveContent{}, archiveReadError(a.location, err)
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return archiveContent{}, archiveReadError(a.location, err)
	}
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return archiveContent{}, archiveReadError(a.location, err)
	}

	content := archiveContent{
		files:    map[string][]byte{},
		packages: map[string]map[types.QualifiedName]struct{}{},
		metadata: map[string]archiveMetadata{},
	}
	var props *properties.Properties
	for _, file := range archive.File {
		if file.FileInfo().IsDir() || strings.HasSuffix(file.Name, "/") {
			continue
		}
		name := strings.TrimPrefix(path.Clean("/"+file.Name), "/")
		if name == archivePropertiesName {
			raw, err := readZipFile(file)
			if err != nil {
				return archiveContent{}, archiveReadError(a.location, err)
			}
			props, err = properties.Load(raw, properties.UTF8)
			if err != nil {
				return archiveContent{}, archiveReadError(a.location, err)
			}
			continue
		}
		relative, ok := archiveRelativePath(name)
		if !ok {
			continue
		}
		raw, err := readZipFile(file)
		if err != nil {
			return archiveContent{}, archiveReadError(a.location, err)
		}
		content.files[relative] = raw
	}
	if props == nil {
		return archiveContent{}, archiveReadError(a.location, errMissingArchiveProperties)
	}

	for relative := range content.files {
		if meta, ok := readArchiveMetadata(props, relative); ok {
			content.metadata[relative] = meta
		}
		qn, ok := types.QualifiedNameFromPath(relative)
		if !ok {
			continue
		}
		if qn.Namespace != "" && !validName(a.naming, qn.Namespace) {
			continue
		}
		names, ok := content.packages[qn.Namespace]
		if !ok {
			names = map[types.QualifiedName]struct{}{}
			content.packages[qn.Namespace] = names
		}
		names[qn] = struct{}{}
	}
	return content, nil
}

// archiveRelativePath strips the objects root. Files outside of it are
// kept only when they are assets.
func archiveRelativePath(name string) (string, bool) {
	if strings.HasPrefix(name, archiveObjectsRoot) {
		relative := strings.TrimPrefix(name, archiveObjectsRoot)
		return relative, relative != ""
	}
	ext := strings.ToLower(path.Ext(name))
	return name, slices.Contains(assetExtensions, ext)
}

func readArchiveMetadata(props *properties.Properties, relative string) (archiveMetadata, bool) {
	mergable, okMergable := lookupWithLegacy(props, relative+keyBasePackageMergable, relative+legacyKeyBasePackageMergable)
	derived, okDerived := lookupWithLegacy(props, relative+keyBasePackageDerived, relative+legacyKeyBasePackageDerived)
	if !okMergable && !okDerived {
		return archiveMetadata{}, false
	}
	return archiveMetadata{basePackageMergable: mergable, basePackageDerived: derived}, true
}

func lookupWithLegacy(props *properties.Properties, key string, legacyKey string) (string, bool) {
	if value, ok := props.Get(key); ok {
		return value, true
	}
	return props.Get(legacyKey)
}

func readZipFile(file *zip.File) ([]byte, error) {
	reader, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

// IsValid reports whether the archive exists and could be indexed.
func (a *ArchiveIndex) IsValid(ctx context.Context) (bool, error) {
	_, exists, err := a.snapshot(ctx)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// NonEmptyPackages returns the packages holding at least one object,
// sorted by name.
func (a *ArchiveIndex) NonEmptyPackages(ctx context.Context) ([]string, error) {
	content, _, err := a.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	packages := make([]string, 0, len(content.packages))
	for pkg, names := range content.packages {
		if len(names) > 0 {
			packages = append(packages, pkg)
		}
	}
	slices.Sort(packages)
	return packages, nil
}

func (a *ArchiveIndex) Contains(ctx context.Context, relative string) (bool, error) {
	content, _, err := a.snapshot(ctx)
	if err != nil {
		return false, err
	}
	_, ok := content.files[relative]
	return ok, nil
}

// QualifiedNames returns every object of the archive in sorted order.
func (a *ArchiveIndex) QualifiedNames(ctx context.Context) ([]types.QualifiedName, error) {
	content, _, err := a.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	var names []types.QualifiedName
	for _, pkgNames := range content.packages {
		for qn := range pkgNames {
			names = append(names, qn)
		}
	}
	types.SortQualifiedNames(names)
	return names, nil
}

// containsObject reports whether the archive holds qn.
func (a *ArchiveIndex) containsObject(ctx context.Context, qn types.QualifiedName) (bool, error) {
	content, _, err := a.snapshot(ctx)
	if err != nil {
		return false, err
	}
	_, ok := content.packages[qn.Namespace][qn]
	return ok, nil
}

func (a *ArchiveIndex) PackageQualifiedNames(ctx context.Context, pkg string) ([]types.QualifiedName, error) {
	content, _, err := a.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]types.QualifiedName, 0, len(content.packages[pkg]))
	for qn := range content.packages[pkg] {
		names = append(names, qn)
	}
	types.SortQualifiedNames(names)
	return names, nil
}

// Content returns a reader for a file of the archive, or nil when the
// archive does not hold it.
func (a *ArchiveIndex) Content(ctx context.Context, relative string) (io.ReadCloser, error) {
	content, _, err := a.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	data, ok := content.files[relative]
	if !ok {
		return nil, nil
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// BasePackage returns the base package recorded for an object.
func (a *ArchiveIndex) BasePackage(ctx context.Context, qn types.QualifiedName, kind types.ArtifactKind) (string, bool, error) {
	content, _, err := a.snapshot(ctx)
	if err != nil {
		return "", false, err
	}
	meta, ok := content.metadata[qn.Path()]
	if !ok {
		return "", false, nil
	}
	value := meta.basePackageMergable
	if kind == types.ArtifactKindDerived {
		value = meta.basePackageDerived
	}
	return value, value != "", nil
}
