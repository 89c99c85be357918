package core

import (
	"objectpath/internal/types"
)

// Record returns the persisted form. A manifest-driven path records the
// flag only.
func (p *ObjectPath) Record() types.ObjectPathRecord {
	if p.ManifestDriven() {
		return types.ObjectPathRecord{ManifestDriven: true}
	}
	p.mu.RLock()
	record := types.ObjectPathRecord{
		OutputDefinedPerSourceFolder: p.outputDefinedPerSourceFolder,
		OutputFolderMergable:         p.outputFolderMergable,
		OutputFolderDerived:          p.outputFolderDerived,
		BasePackageMergable:          p.basePackageMergable,
		BasePackageDerived:           p.basePackageDerived,
	}
	entries := p.entries
	p.mu.RUnlock()
	for _, entry := range entries {
		record.Entries = append(record.Entries, entry.Record())
	}
	return record
}

// ObjectPathFromRecord builds an explicit object path. Manifest-driven
// records carry no entries and are rejected here.
func ObjectPathFromRecord(project *Project, record types.ObjectPathRecord) (*ObjectPath, error) {
	if record.ManifestDriven {
		return nil, preconditionError("record of " + project.Name() + " is manifest driven")
	}
	path := NewObjectPath(project)
	path.outputDefinedPerSourceFolder = record.OutputDefinedPerSourceFolder
	path.outputFolderMergable = record.OutputFolderMergable
	path.outputFolderDerived = record.OutputFolderDerived
	path.basePackageMergable = record.BasePackageMergable
	path.basePackageDerived = record.BasePackageDerived
	for _, entryRecord := range record.Entries {
		entry, err := path.EntryFromRecord(entryRecord)
		if err != nil {
			return nil, err
		}
		path.entries = append(path.entries, entry)
	}
	return path, nil
}

// ObjectPathFromManifest derives a manifest-driven object path: one
// source folder per object dir followed by the required projects.
func ObjectPathFromManifest(project *Project, manifest types.Manifest) *ObjectPath {
	path := NewObjectPath(project)
	path.manifestDriven = true
	path.outputFolderMergable = manifest.OutputFolderMergable
	path.outputFolderDerived = manifest.OutputFolderDerived
	path.basePackageMergable = manifest.BasePackage
	path.basePackageDerived = manifest.BasePackage
	for _, dir := range manifest.ObjectDirs {
		entry := NewSourceFolderEntry(path, dir.Folder)
		entry.tocPath = dir.TocPath
		entry.messagesBundle = dir.MessagesBundle
		path.entries = append(path.entries, entry)
	}
	for _, require := range manifest.Requires {
		path.entries = append(path.entries, NewProjectReferenceEntry(path, require.Project, require.Reexported))
	}
	return path
}
