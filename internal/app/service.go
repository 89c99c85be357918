package app

import (
	"strings"

	"objectpath/internal/adapters"
	"objectpath/internal/policies"
	"objectpath/internal/ports"
)

// Config carries the settings a Service is built from.
type Config struct {
	// Workspace is a directory or an afs URL (mem://, file://, ...).
	Workspace        string
	ArchiveCacheSize int
	// Severity maps diagnostic codes or code prefixes ("archive_*") to a
	// severity or "ignore".
	Severity      map[string]string
	ReservedWords []string
}

type Service struct {
	Resources        ports.ResourcePort
	Workspace        ports.WorkspacePort
	Store            ports.ObjectPathStorePort
	Manifests        ports.ManifestPort
	Containers       ports.ContainerResolverPort
	Naming           ports.NamingPort
	Severity         policies.SeverityPolicy
	ArchiveCacheSize int
	Reports          func(dir string) ports.ReportPort
}

func NewService(cfg Config) (Service, error) {
	workspace := strings.TrimSpace(cfg.Workspace)
	if workspace == "" {
		workspace = "."
	}
	resources, err := adapters.NewAFSResourceAdapter(workspace)
	if err != nil {
		return Service{}, err
	}
	severity, err := policies.NewSeverityPolicy(cfg.Severity)
	if err != nil {
		return Service{}, err
	}
	return Service{
		Resources:        resources,
		Workspace:        adapters.NewWorkspaceAdapter(resources),
		Store:            adapters.NewObjectPathFileAdapter(resources),
		Manifests:        adapters.NewManifestFileAdapter(resources),
		Containers:       adapters.NewContainerRegistryAdapter(resources),
		Naming:           adapters.NewNamingAdapter(cfg.ReservedWords...),
		Severity:         severity,
		ArchiveCacheSize: cfg.ArchiveCacheSize,
		Reports: func(dir string) ports.ReportPort {
			return adapters.NewOutputFileAdapter(dir)
		},
	}, nil
}
