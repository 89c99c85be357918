package core

import (
	"context"
	"fmt"
	"path"
	"strings"

	"objectpath/internal/ports"
	"objectpath/internal/types"
)

var artifactKinds = []types.ArtifactKind{types.ArtifactKindMergable, types.ArtifactKindDerived}

// Validate reports the configuration problems of the path. Errors are
// returned only when resources could not be read.
func (p *ObjectPath) Validate(ctx context.Context) (types.Diagnostics, error) {
	var diags types.Diagnostics
	entries := p.Entries()
	for _, entry := range entries {
		diags = append(diags, entry.Validate(ctx)...)
	}

	cycle, err := p.DetectCycle(ctx)
	if err != nil {
		return nil, err
	}
	if cycle {
		diags = append(diags, types.Diagnostic{
			Severity: types.SeverityError,
			Code:     types.CodeCycleInReferences,
			Message:  "project references form a cycle",
			Object:   p.ProjectName(),
		})
	}

	duplicates, err := p.duplicateQualifiedNames(ctx)
	if err != nil {
		return nil, err
	}
	diags = append(diags, duplicates...)

	outputs, err := p.outputCollisions(ctx)
	if err != nil {
		return nil, err
	}
	diags = append(diags, outputs...)

	if !p.OutputDefinedPerSourceFolder() && hasSourceFolder(entries) {
		for _, kind := range artifactKinds {
			if p.OutputFolder(kind) == "" {
				diags = append(diags, types.Diagnostic{
					Severity: types.SeverityError,
					Code:     types.CodeOutputFolderMissing,
					Message:  "no default " + string(kind) + " output folder set",
					Object:   p.ProjectName(),
				})
			}
			diags = append(diags, validateBasePackage(p.naming(), p.BasePackage(kind), kind, p.ProjectName())...)
		}
	}
	return diags, nil
}

// duplicateQualifiedNames reports objects held by more than one package
// root of this project.
func (p *ObjectPath) duplicateQualifiedNames(ctx context.Context) (types.Diagnostics, error) {
	leaves, err := p.leafEntries(ctx)
	if err != nil {
		return nil, err
	}
	owners := map[types.QualifiedName][]string{}
	var order []types.QualifiedName
	for _, entry := range leaves {
		root, ok := entry.PackageRoot()
		if !ok {
			continue
		}
		if archive, ok := entry.(*ArchiveEntry); ok {
			if exists, err := archive.Index().IsValid(ctx); err != nil || !exists {
				continue
			}
		}
		for _, kind := range types.AllKinds() {
			files, err := entry.FindAllSourceFiles(ctx, kind)
			if err != nil {
				return nil, err
			}
			for _, file := range files {
				if _, seen := owners[file.QualifiedName]; !seen {
					order = append(order, file.QualifiedName)
				}
				owners[file.QualifiedName] = append(owners[file.QualifiedName], root.Name)
			}
		}
	}
	types.SortQualifiedNames(order)
	var diags types.Diagnostics
	for _, qn := range order {
		roots := owners[qn]
		if len(roots) < 2 {
			continue
		}
		diags = append(diags, types.Diagnostic{
			Severity: types.SeverityWarning,
			Code:     types.CodeDuplicateQualifiedName,
			Message:  fmt.Sprintf("found in %s, later roots are shadowed", strings.Join(roots, ", ")),
			Object:   qn.String(),
		})
	}
	return diags, nil
}

// outputCollisions reports output folders declared twice in this project
// or shared with a transitively referenced project.
func (p *ObjectPath) outputCollisions(ctx context.Context) (types.Diagnostics, error) {
	var diags types.Diagnostics
	own := map[string]struct{}{}
	if p.OutputDefinedPerSourceFolder() {
		counts := map[string]int{}
		for _, entry := range p.Entries() {
			src, ok := entry.(*SourceFolderEntry)
			if !ok {
				continue
			}
			for _, kind := range artifactKinds {
				if folder := src.OutputFolder(kind); folder != "" {
					counts[folder]++
				}
			}
		}
		for _, folder := range p.OutputFolders() {
			if counts[folder] > 1 {
				diags = append(diags, types.Diagnostic{
					Severity: types.SeverityError,
					Code:     types.CodeDuplicateOutputFolder,
					Message:  "output folder is used more than once",
					Object:   path.Join(p.ProjectName(), folder),
				})
			}
		}
	}
	for _, folder := range p.OutputFolders() {
		own[path.Join(p.ProjectName(), folder)] = struct{}{}
	}
	if len(own) == 0 {
		return diags, nil
	}

	referenced, err := p.ReferencedProjects(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, project := range referenced {
		for _, folder := range project.ObjectPath().OutputFolders() {
			location := path.Join(project.Name(), folder)
			if _, ok := own[location]; ok {
				diags = append(diags, types.Diagnostic{
					Severity: types.SeverityError,
					Code:     types.CodeDuplicateOutputFolder,
					Message:  "output folder is also used by project " + project.Name(),
					Object:   location,
				})
			}
		}
	}
	return diags, nil
}

func validateBasePackage(naming ports.NamingPort, pkg string, kind types.ArtifactKind, object string) types.Diagnostics {
	if pkg == "" {
		return types.Diagnostics{{
			Severity: types.SeverityError,
			Code:     types.CodeInvalidBasePackage,
			Message:  "no " + string(kind) + " base package set",
			Object:   object,
		}}
	}
	if naming == nil {
		return nil
	}
	var diags types.Diagnostics
	for _, problem := range naming.Validate(pkg) {
		diags = append(diags, types.Diagnostic{
			Severity: types.SeverityError,
			Code:     types.CodeInvalidBasePackage,
			Message:  fmt.Sprintf("%s base package %q: %s", kind, pkg, problem.Message),
			Object:   object,
		})
	}
	return diags
}

func hasSourceFolder(entries []Entry) bool {
	for _, entry := range entries {
		if entry.Type() == types.EntryTypeSourceFolder {
			return true
		}
	}
	return false
}
