package adapters

import (
	"context"
	"io"
	"path"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"objectpath/internal/ports"
	"objectpath/internal/types"
)

// ObjectPathFileName is the per-project object path record.
const ObjectPathFileName = ".objectpath.yaml"

type ObjectPathFileAdapter struct {
	resources ports.ResourcePort
}

func NewObjectPathFileAdapter(resources ports.ResourcePort) ObjectPathFileAdapter {
	return ObjectPathFileAdapter{resources: resources}
}

func (a ObjectPathFileAdapter) Load(ctx context.Context, project string) (types.ObjectPathRecord, bool, error) {
	location := path.Join(project, ObjectPathFileName)
	exists, err := a.resources.Exists(ctx, location)
	if err != nil || !exists {
		return types.ObjectPathRecord{}, false, err
	}
	reader, err := a.resources.Open(ctx, location)
	if err != nil {
		return types.ObjectPathRecord{}, false, err
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return types.ObjectPathRecord{}, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read object path file").
			WithCause(err)
	}
	var record types.ObjectPathRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		return types.ObjectPathRecord{}, false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse object path yaml: " + location).
			WithCause(err)
	}
	return record, true, nil
}

func (a ObjectPathFileAdapter) Save(ctx context.Context, project string, record types.ObjectPathRecord) error {
	data, err := yaml.Marshal(record)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode object path").
			WithCause(err)
	}
	return a.resources.Write(ctx, path.Join(project, ObjectPathFileName), data)
}

var _ ports.ObjectPathStorePort = ObjectPathFileAdapter{}
