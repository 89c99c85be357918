package core

import (
	"context"
	"fmt"
	"io"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"objectpath/internal/types"
)

// ContainerEntry stands for the entries a container type produces for
// the owning project. The entries are resolved again on every query.
type ContainerEntry struct {
	path          *ObjectPath
	containerType string
	discriminator string
	level         int
}

var _ Entry = (*ContainerEntry)(nil)

func NewContainerEntry(objectPath *ObjectPath, containerType string, discriminator string) *ContainerEntry {
	return &ContainerEntry{path: objectPath, containerType: containerType, discriminator: discriminator}
}

func (e *ContainerEntry) Type() types.EntryType {
	return types.EntryTypeContainer
}

func (e *ContainerEntry) ObjectPath() *ObjectPath {
	return e.path
}

func (e *ContainerEntry) ContainerType() string {
	return e.containerType
}

func (e *ContainerEntry) Discriminator() string {
	return e.discriminator
}

// ResolveEntries asks the container resolver for the current entries. An
// unknown container or one nested too deeply yields no entries.
func (e *ContainerEntry) ResolveEntries(ctx context.Context) ([]Entry, error) {
	records, err := e.resolveRecords(ctx)
	if err != nil {
		if errbuilder.CodeOf(err) == errbuilder.CodeInvalidArgument {
			log.Ctx(ctx).Debug().Err(err).Str("container", e.String()).Msg("container contributes nothing")
			return nil, nil
		}
		return nil, err
	}
	entries := make([]Entry, 0, len(records))
	for _, record := range records {
		entry, err := e.path.entryFromRecord(record, e.level+1)
		if err != nil {
			log.Ctx(ctx).Debug().Err(err).Str("container", e.String()).Msg("skipping container entry")
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (e *ContainerEntry) resolveRecords(ctx context.Context) ([]types.EntryRecord, error) {
	if e.level >= maxContainerDepth {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("container nesting exceeds %d levels", maxContainerDepth))
	}
	resolver := e.path.model().containers
	if resolver == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no container resolver configured")
	}
	handle, ok := resolver.Resolve(ctx, e.containerType, e.discriminator, e.path.ProjectName())
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unknown container " + e.describe())
	}
	records, err := handle.ResolveEntries(ctx)
	if err != nil {
		return nil, err
	}
	log.Ctx(ctx).Debug().
		Str("container", handle.Description()).
		Int("entries", len(records)).
		Msg("container resolved")
	return records, nil
}

func (e *ContainerEntry) Exists(ctx context.Context, qn types.QualifiedName) (bool, error) {
	_, ok, err := findSourceFileIn(ctx, e, qn)
	return ok, err
}

func (e *ContainerEntry) FindSourceFile(ctx context.Context, qn types.QualifiedName) (SourceFile, bool, error) {
	return findSourceFileIn(ctx, e, qn)
}

func (e *ContainerEntry) FindAllSourceFiles(ctx context.Context, kind types.ObjectKind) ([]SourceFile, error) {
	return findAllSourceFilesIn(ctx, e, kind)
}

func (e *ContainerEntry) PackageRoot() (PackageRoot, bool) {
	return PackageRoot{}, false
}

func (e *ContainerEntry) ContainsResource(ctx context.Context, relative string) (bool, error) {
	reader, err := findResourceIn(ctx, e, relative)
	if err != nil || reader == nil {
		return false, err
	}
	return true, reader.Close()
}

func (e *ContainerEntry) Resource(ctx context.Context, relative string) (io.ReadCloser, error) {
	return findResourceIn(ctx, e, relative)
}

func (e *ContainerEntry) findSourceFile(ctx context.Context, sc *searchContext, qn types.QualifiedName) (SourceFile, bool, error) {
	entries, err := e.ResolveEntries(ctx)
	if err != nil {
		return SourceFile{}, false, err
	}
	for _, entry := range entries {
		file, ok, err := entry.findSourceFile(ctx, sc, qn)
		if err != nil || ok {
			return file, ok, err
		}
	}
	return SourceFile{}, false, nil
}

func (e *ContainerEntry) findAllSourceFiles(ctx context.Context, sc *searchContext, kind types.ObjectKind) ([]SourceFile, error) {
	entries, err := e.ResolveEntries(ctx)
	if err != nil {
		return nil, err
	}
	var files []SourceFile
	for _, entry := range entries {
		found, err := entry.findAllSourceFiles(ctx, sc, kind)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

func (e *ContainerEntry) findResource(ctx context.Context, sc *searchContext, relative string) (io.ReadCloser, error) {
	entries, err := e.ResolveEntries(ctx)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		reader, err := entry.findResource(ctx, sc, relative)
		if err != nil || reader != nil {
			return reader, err
		}
	}
	return nil, nil
}

func (e *ContainerEntry) Validate(ctx context.Context) types.Diagnostics {
	records, err := e.resolveRecords(ctx)
	if err != nil {
		return types.Diagnostics{{
			Severity: types.SeverityError,
			Code:     types.CodeContainerInvalid,
			Message:  "container cannot be resolved",
			Object:   e.describe(),
			Cause:    err,
		}}
	}
	var diags types.Diagnostics
	for _, record := range records {
		entry, err := e.path.entryFromRecord(record, e.level+1)
		if err != nil {
			diags = append(diags, types.Diagnostic{
				Severity: types.SeverityError,
				Code:     types.CodeContainerInvalid,
				Message:  "container produced an invalid entry",
				Object:   e.describe(),
				Cause:    err,
			})
			continue
		}
		diags = append(diags, entry.Validate(ctx)...)
	}
	return diags
}

func (e *ContainerEntry) Record() types.EntryRecord {
	return types.EntryRecord{
		Type:          types.EntryTypeContainer,
		ContainerType: e.containerType,
		ContainerPath: e.discriminator,
	}
}

func (e *ContainerEntry) String() string {
	return "container:" + e.describe()
}

func (e *ContainerEntry) describe() string {
	if e.discriminator == "" {
		return e.containerType
	}
	return e.containerType + "/" + e.discriminator
}
