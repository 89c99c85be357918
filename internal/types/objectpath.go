package types

// EntryRecord is the persisted form of one object path entry. Only the
// attributes of the entry's type are set.
type EntryRecord struct {
	Type EntryType `yaml:"type"`

	Folder               string `yaml:"folder,omitempty"`
	OutputFolderMergable string `yaml:"output_folder_mergable,omitempty"`
	OutputFolderDerived  string `yaml:"output_folder_derived,omitempty"`
	BasePackageMergable  string `yaml:"base_package_mergable,omitempty"`
	BasePackageDerived   string `yaml:"base_package_derived,omitempty"`
	UniqueQualifier      string `yaml:"unique_qualifier,omitempty"`
	TocPath              string `yaml:"toc_path,omitempty"`
	MessagesBundle       string `yaml:"messages_bundle,omitempty"`

	Archive string `yaml:"archive,omitempty"`

	Project    string `yaml:"project,omitempty"`
	Reexported bool   `yaml:"reexported,omitempty"`

	ContainerType string `yaml:"container_type,omitempty"`
	ContainerPath string `yaml:"container_path,omitempty"`
}

// ObjectPathRecord is the persisted object path of a project. A
// manifest-driven record carries the flag only.
type ObjectPathRecord struct {
	ManifestDriven               bool          `yaml:"manifest_driven,omitempty"`
	OutputDefinedPerSourceFolder bool          `yaml:"output_defined_per_source_folder,omitempty"`
	OutputFolderMergable         string        `yaml:"output_folder_mergable,omitempty"`
	OutputFolderDerived          string        `yaml:"output_folder_derived,omitempty"`
	BasePackageMergable          string        `yaml:"base_package_mergable,omitempty"`
	BasePackageDerived           string        `yaml:"base_package_derived,omitempty"`
	Entries                      []EntryRecord `yaml:"entries,omitempty"`
}

// ContainerDescriptor is the file format of the "descriptor" container
// type: an ordered list of entry records.
type ContainerDescriptor struct {
	Entries []EntryRecord `yaml:"entries"`
}

// SourceProperties holds the declared properties of a source file that
// the resolution caches index.
type SourceProperties struct {
	RuntimeID      string `yaml:"runtime_id,omitempty"`
	TableStructure string `yaml:"table_structure,omitempty"`
}
