package types

type ManifestObjectDir struct {
	Folder         string
	TocPath        string
	MessagesBundle string
}

type ManifestRequire struct {
	Project    string
	Reexported bool
}

// Manifest holds the object path relevant declarations of a project
// manifest.
type Manifest struct {
	BasePackage          string
	OutputFolderMergable string
	OutputFolderDerived  string
	ObjectDirs           []ManifestObjectDir
	Requires             []ManifestRequire
}
