package app

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"objectpath/internal/core"
	"objectpath/internal/types"
)

// Validate checks the object paths of the selected projects and returns
// one report per project, after severity overrides are applied.
func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	workspace, err := s.loadWorkspace(ctx)
	if err != nil {
		return ValidateResult{}, err
	}
	projects, err := workspace.selected(req.Projects)
	if err != nil {
		return ValidateResult{}, err
	}

	result := ValidateResult{}
	for _, project := range projects {
		diags, err := s.validateProject(ctx, workspace, project)
		if err != nil {
			return ValidateResult{}, err
		}
		diags = s.Severity.Apply(diags)
		report := types.ProjectReport{Project: project.Name(), Diagnostics: diags}
		for _, diag := range diags {
			switch diag.Severity {
			case types.SeverityError:
				report.Errors++
			case types.SeverityWarning:
				report.Warnings++
			}
		}
		result.HasErrors = result.HasErrors || report.Errors > 0
		result.Report.Projects = append(result.Report.Projects, report)
	}
	log.Ctx(ctx).Debug().Int("projects", len(projects)).Bool("errors", result.HasErrors).Msg("workspace validated")

	if outputDir := strings.TrimSpace(req.OutputDir); outputDir != "" {
		if err := s.Reports(outputDir).WriteValidationReport(result.Report); err != nil {
			return ValidateResult{}, err
		}
		result.OutputDir = outputDir
	}
	return result, nil
}

func (s Service) validateProject(ctx context.Context, workspace workspaceModel, project *core.Project) (types.Diagnostics, error) {
	if cause, missing := workspace.unconfigured[project.Name()]; missing {
		return types.Diagnostics{{
			Severity: types.SeverityError,
			Code:     types.CodeManifestMissing,
			Message:  "project has neither an object path file nor a manifest",
			Object:   project.Name(),
			Cause:    cause,
		}}, nil
	}
	return project.Validate(ctx)
}
