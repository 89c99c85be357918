package types

import "time"

// ResourceInfo describes one child returned when listing a folder.
type ResourceInfo struct {
	Name    string
	Path    string
	IsDir   bool
	ModTime time.Time
	Size    int64
}
