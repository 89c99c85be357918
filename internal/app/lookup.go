package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"objectpath/internal/core"
	"objectpath/internal/types"
)

// Lookup finds source files through a project's resolution caches or its
// object path. Exactly one of RuntimeID, TableStructure or Name selects
// the query.
func (s Service) Lookup(ctx context.Context, req LookupRequest) (LookupResult, error) {
	workspace, err := s.loadWorkspace(ctx)
	if err != nil {
		return LookupResult{}, err
	}
	project, err := workspace.project(req.Project)
	if err != nil {
		return LookupResult{}, err
	}
	files, err := lookupFiles(ctx, project, req)
	if err != nil {
		return LookupResult{}, err
	}
	return LookupResult{Sources: resolvedSources(files)}, nil
}

func lookupFiles(ctx context.Context, project *core.Project, req LookupRequest) ([]core.SourceFile, error) {
	switch {
	case strings.TrimSpace(req.RuntimeID) != "":
		return project.FindByRuntimeID(ctx, strings.TrimSpace(req.RuntimeID))
	case strings.TrimSpace(req.TableStructure) != "":
		structure, err := types.ParseQualifiedName(req.TableStructure, types.KindTableStructure)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid table structure name").
				WithCause(err)
		}
		return project.FindTableContents(ctx, structure)
	case strings.TrimSpace(req.Name) != "":
		kind, err := parseKind(req.Kind)
		if err != nil {
			return nil, err
		}
		if req.Unqualified {
			return project.FindByUnqualifiedName(ctx, kind, strings.TrimSpace(req.Name))
		}
		file, ok, err := project.FindSourceFileByName(ctx, kind, req.Name)
		if err != nil || !ok {
			return nil, err
		}
		return []core.SourceFile{file}, nil
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("lookup requires a name, runtime id or table structure")
	}
}
