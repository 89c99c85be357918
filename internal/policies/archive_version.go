package policies

import (
	"path"
	"slices"
	"strings"
	"unicode"

	pep440 "github.com/aquasecurity/go-pep440-version"
	debversion "github.com/knqyf263/go-deb-version"
)

// ArchiveExtensions are the file extensions recognized as archives.
var ArchiveExtensions = []string{".zip", ".jar"}

// IsArchiveFile reports whether name carries an archive extension.
func IsArchiveFile(name string) bool {
	return slices.Contains(ArchiveExtensions, strings.ToLower(path.Ext(name)))
}

// SplitArchiveName splits "motor-model-1.2.0.zip" into the artifact
// "motor-model" and the version "1.2.0". The version starts at the first
// dash followed by a digit; names without one have no version.
func SplitArchiveName(name string) (string, string) {
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	for i := 0; i < len(base)-1; i++ {
		if base[i] == '-' && unicode.IsDigit(rune(base[i+1])) {
			return base[:i], base[i+1:]
		}
	}
	return base, ""
}

// versionCache memoizes parsed versions while sorting candidates.
type versionCache struct {
	deb map[string]debversion.Version
	pep map[string]pep440.Version
}

func newVersionCache() *versionCache {
	return &versionCache{
		deb: map[string]debversion.Version{},
		pep: map[string]pep440.Version{},
	}
}

func (c *versionCache) debVersion(value string) (debversion.Version, bool) {
	if parsed, ok := c.deb[value]; ok {
		return parsed, true
	}
	parsed, err := debversion.NewVersion(value)
	if err != nil {
		return debversion.Version{}, false
	}
	c.deb[value] = parsed
	return parsed, true
}

func (c *versionCache) pepVersion(value string) (pep440.Version, bool) {
	if parsed, ok := c.pep[value]; ok {
		return parsed, true
	}
	parsed, err := pep440.Parse(value)
	if err != nil {
		return pep440.Version{}, false
	}
	c.pep[value] = parsed
	return parsed, true
}

// compare orders two versions by PEP 440 when both parse, by Debian
// rules when both parse that way, and lexically otherwise. An empty
// version sorts first.
func (c *versionCache) compare(a string, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return -1
	case b == "":
		return 1
	}
	if v1, ok := c.pepVersion(a); ok {
		if v2, ok := c.pepVersion(b); ok {
			return v1.Compare(v2)
		}
	}
	if v1, ok := c.debVersion(a); ok {
		if v2, ok := c.debVersion(b); ok {
			return v1.Compare(v2)
		}
	}
	return strings.Compare(a, b)
}

// CompareArchiveVersions orders two archive versions.
func CompareArchiveVersions(a string, b string) int {
	return newVersionCache().compare(a, b)
}

// NewestArchives keeps the newest version of every artifact among the
// archive file names and returns them ordered by artifact name.
func NewestArchives(names []string) []string {
	cache := newVersionCache()
	type candidate struct {
		name    string
		version string
	}
	newest := map[string]candidate{}
	for _, name := range names {
		if !IsArchiveFile(name) {
			continue
		}
		artifact, version := SplitArchiveName(name)
		current, ok := newest[artifact]
		if !ok || cache.compare(version, current.version) > 0 ||
			(cache.compare(version, current.version) == 0 && name > current.name) {
			newest[artifact] = candidate{name: name, version: version}
		}
	}
	artifacts := make([]string, 0, len(newest))
	for artifact := range newest {
		artifacts = append(artifacts, artifact)
	}
	slices.Sort(artifacts)
	out := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		out = append(out, newest[artifact].name)
	}
	return out
}
