package app

import "context"

func (s Service) List(ctx context.Context, req ListRequest) (ListResult, error) {
	workspace, err := s.loadWorkspace(ctx)
	if err != nil {
		return ListResult{}, err
	}
	projects, err := workspace.selected(req.Projects)
	if err != nil {
		return ListResult{}, err
	}
	result := ListResult{}
	for _, project := range projects {
		summary := ProjectSummary{Name: project.Name()}
		if _, missing := workspace.unconfigured[project.Name()]; missing {
			result.Projects = append(result.Projects, summary)
			continue
		}
		path := project.ObjectPath()
		summary.Configured = true
		summary.ManifestDriven = path.ManifestDriven()
		for _, entry := range path.Entries() {
			summary.Entries = append(summary.Entries, entry.String())
		}
		for _, root := range path.PackageRoots() {
			summary.PackageRoots = append(summary.PackageRoots, root.Name)
		}
		summary.OutputFolders = path.OutputFolders()
		result.Projects = append(result.Projects, summary)
	}
	return result, nil
}
