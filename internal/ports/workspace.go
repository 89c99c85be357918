package ports

import "context"

// WorkspacePort discovers the projects of a workspace.
type WorkspacePort interface {
	FindProjects(ctx context.Context) ([]string, error)
}
