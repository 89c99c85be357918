package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"objectpath/internal/core"
	"objectpath/internal/types"
)

// workspaceModel is a model loaded from the workspace. Projects without
// any object path configuration stay registered with an empty path and
// are listed in unconfigured.
type workspaceModel struct {
	model        *core.Model
	unconfigured map[string]error
}

func (s Service) loadWorkspace(ctx context.Context) (workspaceModel, error) {
	if s.Resources == nil || s.Workspace == nil {
		return workspaceModel{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("workspace is not configured")
	}
	names, err := s.Workspace.FindProjects(ctx)
	if err != nil {
		return workspaceModel{}, err
	}
	model, err := core.NewModel(s.Resources,
		core.WithArchiveCacheSize(s.ArchiveCacheSize),
		core.WithContainerResolver(s.Containers),
		core.WithNaming(s.Naming),
	)
	if err != nil {
		return workspaceModel{}, err
	}
	for _, name := range names {
		if _, err := model.AddProject(name); err != nil {
			return workspaceModel{}, err
		}
	}

	loader := core.NewObjectPathLoader(s.Store, s.Manifests)
	loaded := workspaceModel{model: model, unconfigured: map[string]error{}}
	for _, project := range model.Projects() {
		err := loader.LoadInto(ctx, project)
		if errbuilder.CodeOf(err) == errbuilder.CodeNotFound {
			loaded.unconfigured[project.Name()] = err
			continue
		}
		if err != nil {
			return workspaceModel{}, err
		}
	}
	log.Ctx(ctx).Debug().
		Int("projects", len(names)).
		Int("unconfigured", len(loaded.unconfigured)).
		Msg("workspace loaded")
	return loaded, nil
}

func (w workspaceModel) project(name string) (*core.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project is required")
	}
	project, ok := w.model.Project(name)
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("project not found: " + name)
	}
	return project, nil
}

// selected returns the named projects, or all of them when names is
// empty.
func (w workspaceModel) selected(names []string) ([]*core.Project, error) {
	if len(names) == 0 {
		return w.model.Projects(), nil
	}
	projects := make([]*core.Project, 0, len(names))
	for _, name := range names {
		project, err := w.project(name)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, nil
}

func parseKind(value string) (types.ObjectKind, error) {
	kind, ok := types.KindForExtension(strings.TrimSpace(value))
	if !ok {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unknown object kind: " + value)
	}
	return kind, nil
}

func resolvedSources(files []core.SourceFile) []types.ResolvedSource {
	sources := make([]types.ResolvedSource, 0, len(files))
	for _, file := range files {
		sources = append(sources, resolvedSource(file))
	}
	return sources
}

func resolvedSource(file core.SourceFile) types.ResolvedSource {
	return types.ResolvedSource{
		QualifiedName: file.QualifiedName.Qualified(),
		Kind:          file.QualifiedName.Kind,
		Root:          file.Root,
		Path:          file.Path,
		EntryType:     file.EntryType,
	}
}

func projectNames(projects []*core.Project) []string {
	names := make([]string, 0, len(projects))
	for _, project := range projects {
		names = append(names, project.Name())
	}
	return names
}
