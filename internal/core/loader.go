package core

import (
	"context"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"objectpath/internal/ports"
)

// ObjectPathLoader builds object paths from the persisted record of a
// project, or from its manifest when the record is manifest driven or
// absent.
type ObjectPathLoader struct {
	Store     ports.ObjectPathStorePort
	Manifests ports.ManifestPort
}

func NewObjectPathLoader(store ports.ObjectPathStorePort, manifests ports.ManifestPort) ObjectPathLoader {
	return ObjectPathLoader{Store: store, Manifests: manifests}
}

func (l ObjectPathLoader) Load(ctx context.Context, project *Project) (*ObjectPath, error) {
	if l.Store == nil || l.Manifests == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("loader requires store and manifest ports")
	}
	assert.NotEmpty(ctx, project.Name(), "project name must be set")

	record, found, err := l.Store.Load(ctx, project.Name())
	if err != nil {
		return nil, err
	}
	if found && !record.ManifestDriven {
		log.Ctx(ctx).Debug().Str("project", project.Name()).Int("entries", len(record.Entries)).Msg("object path loaded from record")
		return ObjectPathFromRecord(project, record)
	}

	manifest, ok, err := l.Manifests.Read(ctx, project.Name())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("project " + project.Name() + " has neither an object path record nor a manifest")
	}
	log.Ctx(ctx).Debug().Str("project", project.Name()).Int("object_dirs", len(manifest.ObjectDirs)).Msg("object path derived from manifest")
	return ObjectPathFromManifest(project, manifest), nil
}

// LoadInto loads and installs the object path of a project.
func (l ObjectPathLoader) LoadInto(ctx context.Context, project *Project) error {
	path, err := l.Load(ctx, project)
	if err != nil {
		return err
	}
	return project.SetObjectPath(path)
}

// LoadModel registers the named projects and loads their object paths.
func (l ObjectPathLoader) LoadModel(ctx context.Context, model *Model, names []string) error {
	projects := make([]*Project, 0, len(names))
	for _, name := range names {
		project, err := model.AddProject(name)
		if err != nil {
			return err
		}
		projects = append(projects, project)
	}
	for _, project := range projects {
		if err := l.LoadInto(ctx, project); err != nil {
			return err
		}
	}
	return nil
}

func (l ObjectPathLoader) Save(ctx context.Context, project *Project) error {
	if l.Store == nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("loader requires a store port")
	}
	return l.Store.Save(ctx, project.Name(), project.ObjectPath().Record())
}
