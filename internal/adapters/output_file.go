package adapters

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"objectpath/internal/ports"
	"objectpath/internal/types"
)

const (
	ValidationReportFile = "validation.yaml"
	ResolutionReportFile = "resolution.yaml"
)

// OutputFileAdapter writes reports into a directory.
type OutputFileAdapter struct {
	Dir string
}

func NewOutputFileAdapter(dir string) OutputFileAdapter {
	return OutputFileAdapter{Dir: dir}
}

func (a OutputFileAdapter) WriteValidationReport(report types.ValidationReport) error {
	path, err := a.ensurePath(ValidationReportFile)
	if err != nil {
		return err
	}
	ordered := append([]types.ProjectReport(nil), report.Projects...)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Project < ordered[j].Project
	})
	return writeYAML(path, types.ValidationReport{Projects: ordered})
}

func (a OutputFileAdapter) WriteResolution(sources []types.ResolvedSource) error {
	path, err := a.ensurePath(ResolutionReportFile)
	if err != nil {
		return err
	}
	return writeYAML(path, struct {
		Sources []types.ResolvedSource `yaml:"sources"`
	}{Sources: sources})
}

func (a OutputFileAdapter) ensurePath(filename string) (string, error) {
	if a.Dir == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is empty")
	}
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	return filepath.Join(a.Dir, filename), nil
}

func writeYAML(path string, value any) error {
	data, err := yaml.Marshal(value)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode report").
			WithCause(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write report").
			WithCause(err)
	}
	return nil
}

var _ ports.ReportPort = OutputFileAdapter{}
