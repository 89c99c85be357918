package types

type ValidationReport struct {
	Projects []ProjectReport `yaml:"projects"`
}

type ProjectReport struct {
	Project     string       `yaml:"project"`
	Errors      int          `yaml:"errors"`
	Warnings    int          `yaml:"warnings"`
	Diagnostics []Diagnostic `yaml:"diagnostics,omitempty"`
}

type ResolvedSource struct {
	QualifiedName string     `yaml:"qualified_name"`
	Kind          ObjectKind `yaml:"kind"`
	Root          string     `yaml:"root"`
	Path          string     `yaml:"path"`
	EntryType     EntryType  `yaml:"entry_type"`
}
