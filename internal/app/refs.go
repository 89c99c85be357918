package app

import (
	"context"

	"objectpath/internal/core"
)

func (s Service) Refs(ctx context.Context, req RefsRequest) (RefsResult, error) {
	workspace, err := s.loadWorkspace(ctx)
	if err != nil {
		return RefsResult{}, err
	}
	project, err := workspace.project(req.Project)
	if err != nil {
		return RefsResult{}, err
	}

	var projects []*core.Project
	switch {
	case req.Leaves:
		projects, err = project.FindReferencingProjectLeavesOrSelf(ctx)
	case req.Reverse:
		projects, err = project.FindReferencingProjects(ctx, req.Transitive)
	default:
		projects, err = project.ReferencedProjects(ctx, req.Transitive)
	}
	if err != nil {
		return RefsResult{}, err
	}
	cycle, err := project.ObjectPath().DetectCycle(ctx)
	if err != nil {
		return RefsResult{}, err
	}
	return RefsResult{
		Project:  project.Name(),
		Projects: projectNames(projects),
		Cycle:    cycle,
	}, nil
}
