// Package shared provides common utility functions used across multiple
// packages in the objectpath codebase.
package shared

import (
	"path"
	"strings"
)

// HasScheme reports whether a location is a URL rather than a workspace
// path.
func HasScheme(location string) bool {
	return strings.Contains(location, "://")
}

// ResolveLocation turns a location declared by a project into a
// workspace resource path. URLs are kept, a leading slash makes the
// location workspace relative, anything else is relative to the project.
func ResolveLocation(project string, location string) string {
	location = strings.TrimSpace(location)
	if HasScheme(location) {
		return location
	}
	if strings.HasPrefix(location, "/") {
		return strings.TrimPrefix(path.Clean(location), "/")
	}
	return path.Join(project, location)
}

// CleanResourcePath normalizes a slash separated resource path: no
// leading or trailing slash, no dot segments, backslashes converted.
func CleanResourcePath(location string) string {
	location = strings.ReplaceAll(location, "\\", "/")
	return strings.Trim(path.Clean("/"+location), "/")
}
