package core

import (
	"context"
	"io"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"objectpath/internal/types"
)

// SourceFile is a handle to the source artifact a qualified name resolved
// to. Root names the package root (source folder or archive) and Path is
// relative to it.
type SourceFile struct {
	QualifiedName types.QualifiedName
	Root          string
	Path          string
	EntryType     types.EntryType

	open func(ctx context.Context) (io.ReadCloser, error)
}

// Key identifies the file across roots.
func (f SourceFile) Key() string {
	return f.Root + "!" + f.Path
}

func (f SourceFile) Open(ctx context.Context) (io.ReadCloser, error) {
	if f.open == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("source file has no content: " + f.Key())
	}
	reader, err := f.open(ctx)
	if err != nil {
		return nil, err
	}
	if reader == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("source file vanished: " + f.Key())
	}
	return reader, nil
}

// Properties decodes the declared properties of the file. Empty files
// yield zero properties.
func (f SourceFile) Properties(ctx context.Context) (types.SourceProperties, error) {
	reader, err := f.Open(ctx)
	if err != nil {
		return types.SourceProperties{}, err
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return types.SourceProperties{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read source file: " + f.Key()).
			WithCause(err)
	}
	var props types.SourceProperties
	if err := yaml.Unmarshal(data, &props); err != nil {
		return types.SourceProperties{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse source file: " + f.Key()).
			WithCause(err)
	}
	return props, nil
}

func (f SourceFile) Resolved() types.ResolvedSource {
	return types.ResolvedSource{
		QualifiedName: f.QualifiedName.Qualified(),
		Kind:          f.QualifiedName.Kind,
		Root:          f.Root,
		Path:          f.Path,
		EntryType:     f.EntryType,
	}
}

func sourceFileKeys(files []SourceFile) []string {
	keys := make([]string, 0, len(files))
	for _, file := range files {
		keys = append(keys, file.Key())
	}
	return keys
}
