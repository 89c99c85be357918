package types

type EntryType string

const (
	EntryTypeSourceFolder EntryType = "src"
	EntryTypeArchive      EntryType = "archive"
	EntryTypeProject      EntryType = "project"
	EntryTypeContainer    EntryType = "container"
)

// ArtifactKind selects between hand-maintained (mergable) and fully
// generated (derived) artifacts when looking up output folders and base
// packages.
type ArtifactKind string

const (
	ArtifactKindMergable ArtifactKind = "mergable"
	ArtifactKindDerived  ArtifactKind = "derived"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}
