package app

import "objectpath/internal/types"

type ResolveRequest struct {
	Project string
	// Kinds limits the result; empty means every kind.
	Kinds     []string
	OutputDir string
}

type ResolveResult struct {
	Project   string
	Sources   []types.ResolvedSource
	OutputDir string
}

type ListRequest struct {
	Projects []string
}

type ProjectSummary struct {
	Name string
	// Configured is false when the project has neither an object path
	// record nor a manifest.
	Configured     bool
	ManifestDriven bool
	Entries        []string
	PackageRoots   []string
	OutputFolders  []string
}

type ListResult struct {
	Projects []ProjectSummary
}

type ValidateRequest struct {
	Projects  []string
	OutputDir string
}

type ValidateResult struct {
	Report    types.ValidationReport
	HasErrors bool
	OutputDir string
}

type RefsRequest struct {
	Project    string
	Transitive bool
	// Reverse lists the projects referencing Project instead.
	Reverse bool
	// Leaves lists the outermost referencing projects, or Project itself.
	Leaves bool
}

type RefsResult struct {
	Project  string
	Projects []string
	Cycle    bool
}

type LookupRequest struct {
	Project        string
	Kind           string
	Name           string
	Unqualified    bool
	RuntimeID      string
	TableStructure string
}

type LookupResult struct {
	Sources []types.ResolvedSource
}
