package core

import (
	"context"
	"slices"
	"strings"
)

// IsReferencedBy reports whether other references this project, directly
// or, when considerIndirect is set, through re-exported references.
func (p *Project) IsReferencedBy(ctx context.Context, other *Project, considerIndirect bool) (bool, error) {
	if other == nil || other == p {
		return false, nil
	}
	referenced, err := other.ReferencedProjects(ctx, considerIndirect)
	if err != nil {
		return false, err
	}
	return slices.Contains(referenced, p), nil
}

// FindReferencingProjects returns the projects of the model referencing
// this project, ordered by name.
func (p *Project) FindReferencingProjects(ctx context.Context, includeIndirect bool) ([]*Project, error) {
	var referencing []*Project
	for _, candidate := range p.model.Projects() {
		ok, err := p.IsReferencedBy(ctx, candidate, includeIndirect)
		if err != nil {
			return nil, err
		}
		if ok {
			referencing = append(referencing, candidate)
		}
	}
	return referencing, nil
}

// FindReferencingProjectLeavesOrSelf returns the outermost projects that
// reference this project, or the project itself when nothing references
// it. The result is ordered by name.
func (p *Project) FindReferencingProjectLeavesOrSelf(ctx context.Context) ([]*Project, error) {
	candidates, err := p.FindReferencingProjects(ctx, true)
	if err != nil {
		return nil, err
	}
	leaves := []*Project{p}
	for _, candidate := range candidates {
		kept := make([]*Project, 0, len(leaves)+1)
		for _, leaf := range leaves {
			covered, err := leaf.IsReferencedBy(ctx, candidate, true)
			if err != nil {
				return nil, err
			}
			if !covered {
				kept = append(kept, leaf)
			}
		}
		downstream := false
		for _, leaf := range kept {
			referenced, err := candidate.IsReferencedBy(ctx, leaf, true)
			if err != nil {
				return nil, err
			}
			if referenced {
				downstream = true
				break
			}
		}
		if !downstream {
			kept = append(kept, candidate)
		}
		leaves = kept
	}
	slices.SortFunc(leaves, func(a, b *Project) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return leaves, nil
}
