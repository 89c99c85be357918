package adapters

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"objectpath/internal/ports"
)

// WorkspaceAdapter finds projects among the top level folders of a
// workspace: folders holding an object path file or a manifest.
type WorkspaceAdapter struct {
	resources ports.ResourcePort
}

func NewWorkspaceAdapter(resources ports.ResourcePort) WorkspaceAdapter {
	return WorkspaceAdapter{resources: resources}
}

func (a WorkspaceAdapter) FindProjects(ctx context.Context) ([]string, error) {
	if a.resources == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("workspace resources are not configured")
	}
	children, err := a.resources.List(ctx, "")
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to scan workspace").
			WithCause(err)
	}
	var projects []string
	for _, child := range children {
		if !child.IsDir || shouldSkipWorkspaceDir(child.Name) {
			continue
		}
		ok, err := a.isProject(ctx, child.Name)
		if err != nil {
			return nil, err
		}
		if ok {
			projects = append(projects, child.Name)
		}
	}
	sort.Strings(projects)
	log.Debug().Int("projects", len(projects)).Msg("workspace scanned")
	return projects, nil
}

func (a WorkspaceAdapter) isProject(ctx context.Context, name string) (bool, error) {
	for _, marker := range []string{ObjectPathFileName, ManifestPath} {
		exists, err := a.resources.Exists(ctx, path.Join(name, marker))
		if err != nil {
			return false, err
		}
		if exists {
			return true, nil
		}
	}
	return false, nil
}

func shouldSkipWorkspaceDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	switch name {
	case "bin", "build", "target", "node_modules", "out":
		return true
	default:
		return false
	}
}

var _ ports.WorkspacePort = WorkspaceAdapter{}
