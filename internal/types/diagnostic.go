package types

import "fmt"

type DiagnosticCode string

const (
	CodeSourceFolderMissing    DiagnosticCode = "source_folder_missing"
	CodeArchiveMissing         DiagnosticCode = "archive_missing"
	CodeArchiveInvalid         DiagnosticCode = "archive_invalid"
	CodeProjectMissing         DiagnosticCode = "project_missing"
	CodeContainerInvalid       DiagnosticCode = "container_invalid"
	CodeCycleInReferences      DiagnosticCode = "cycle_in_references"
	CodeDuplicateQualifiedName DiagnosticCode = "duplicate_qualified_name"
	CodeDuplicateOutputFolder  DiagnosticCode = "duplicate_output_folder"
	CodeOutputFolderMissing    DiagnosticCode = "output_folder_missing"
	CodeInvalidBasePackage     DiagnosticCode = "invalid_base_package"
	CodeInvalidName            DiagnosticCode = "invalid_name"
	CodeRuntimeIDCollision     DiagnosticCode = "runtime_id_collision"
	CodeManifestMissing        DiagnosticCode = "manifest_missing"
)

// Diagnostic is a configuration problem reported by validation. Queries
// never fail for configuration problems; they surface here instead.
type Diagnostic struct {
	Severity Severity       `yaml:"severity"`
	Code     DiagnosticCode `yaml:"code"`
	Message  string         `yaml:"message"`
	// Object names the offending project, entry or artifact.
	Object string `yaml:"object,omitempty"`
	Cause  error  `yaml:"-"`
}

func (d Diagnostic) String() string {
	if d.Object != "" {
		return fmt.Sprintf("[%s] %s: %s (%s)", d.Severity, d.Code, d.Message, d.Object)
	}
	return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Code, d.Message)
}

type Diagnostics []Diagnostic

func (d Diagnostics) HasErrors() bool {
	for _, diag := range d {
		if diag.Severity == SeverityError {
			return true
		}
	}
	return false
}

// WithCode returns the diagnostics carrying the given code.
func (d Diagnostics) WithCode(code DiagnosticCode) Diagnostics {
	var out Diagnostics
	for _, diag := range d {
		if diag.Code == code {
			out = append(out, diag)
		}
	}
	return out
}
