package app

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"objectpath/internal/types"
)

// Resolve lists every source file visible from a project, in object path
// order, and optionally writes them to the output directory.
func (s Service) Resolve(ctx context.Context, req ResolveRequest) (ResolveResult, error) {
	kinds := types.AllKinds()
	if len(req.Kinds) > 0 {
		kinds = kinds[:0]
		for _, value := range req.Kinds {
			kind, err := parseKind(value)
			if err != nil {
				return ResolveResult{}, err
			}
			kinds = append(kinds, kind)
		}
	}
	workspace, err := s.loadWorkspace(ctx)
	if err != nil {
		return ResolveResult{}, err
	}
	project, err := workspace.project(req.Project)
	if err != nil {
		return ResolveResult{}, err
	}

	sources := []types.ResolvedSource{}
	for _, kind := range kinds {
		files, err := project.FindAllSourceFiles(ctx, kind)
		if err != nil {
			return ResolveResult{}, err
		}
		sources = append(sources, resolvedSources(files)...)
	}
	log.Ctx(ctx).Debug().Str("project", project.Name()).Int("sources", len(sources)).Msg("project resolved")

	result := ResolveResult{Project: project.Name(), Sources: sources}
	if outputDir := strings.TrimSpace(req.OutputDir); outputDir != "" {
		if err := s.Reports(outputDir).WriteResolution(sources); err != nil {
			return ResolveResult{}, err
		}
		result.OutputDir = outputDir
	}
	return result, nil
}
