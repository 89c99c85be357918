package adapters

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/magiconair/properties"

	"objectpath/internal/ports"
	"objectpath/internal/types"
)

const (
	ManifestPath = "META-INF/MANIFEST.MF"

	headerBasePackage      = "Model-BasePackage"
	headerOutputMergable   = "Model-OutputMergable"
	headerOutputDerived    = "Model-OutputDerived"
	headerObjectDir        = "Model-ObjectDir"
	headerRequiredProjects = "Model-RequiredProjects"
)

// ManifestFileAdapter reads the object path headers of a project's
// META-INF/MANIFEST.MF.
type ManifestFileAdapter struct {
	resources ports.ResourcePort
}

func NewManifestFileAdapter(resources ports.ResourcePort) ManifestFileAdapter {
	return ManifestFileAdapter{resources: resources}
}

func (a ManifestFileAdapter) Read(ctx context.Context, project string) (types.Manifest, bool, error) {
	location := path.Join(project, ManifestPath)
	exists, err := a.resources.Exists(ctx, location)
	if err != nil || !exists {
		return types.Manifest{}, false, err
	}
	reader, err := a.resources.Open(ctx, location)
	if err != nil {
		return types.Manifest{}, false, err
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return types.Manifest{}, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read manifest").
			WithCause(err)
	}
	manifest, err := ParseManifest(data)
	if err != nil {
		return types.Manifest{}, false, err
	}
	return manifest, true, nil
}

// ParseManifest reads the main section of a manifest. Continuation lines
// start with a single space.
func ParseManifest(data []byte) (types.Manifest, error) {
	loader := properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	props, err := loader.LoadBytes([]byte(mainSection(string(data))))
	if err != nil {
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse manifest").
			WithCause(err)
	}
	manifest := types.Manifest{
		BasePackage:          props.GetString(headerBasePackage, ""),
		OutputFolderMergable: props.GetString(headerOutputMergable, ""),
		OutputFolderDerived:  props.GetString(headerOutputDerived, ""),
	}
	for _, clause := range splitClauses(props.GetString(headerObjectDir, "")) {
		value, params := parseClause(clause)
		manifest.ObjectDirs = append(manifest.ObjectDirs, types.ManifestObjectDir{
			Folder:         value,
			TocPath:        params["toc"],
			MessagesBundle: params["messages"],
		})
	}
	for _, clause := range splitClauses(props.GetString(headerRequiredProjects, "")) {
		value, params := parseClause(clause)
		manifest.Requires = append(manifest.Requires, types.ManifestRequire{
			Project:    value,
			Reexported: strings.EqualFold(params["reexport"], "true") || params["visibility"] == "reexport",
		})
	}
	return manifest, nil
}

func mainSection(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(lines) > 0 {
				break
			}
			continue
		}
		if strings.HasPrefix(line, " ") && len(lines) > 0 {
			lines[len(lines)-1] += line[1:]
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// splitClauses splits a header value at commas outside of quotes.
func splitClauses(value string) []string {
	var clauses []string
	var current strings.Builder
	quoted := false
	flush := func() {
		if clause := strings.TrimSpace(current.String()); clause != "" {
			clauses = append(clauses, clause)
		}
		current.Reset()
	}
	for _, r := range value {
		switch {
		case r == '"':
			quoted = !quoted
			current.WriteRune(r)
		case r == ',' && !quoted:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return clauses
}

// parseClause splits "value;key=\"v\";other:=v" into the value and its
// parameters.
func parseClause(clause string) (string, map[string]string) {
	parts := strings.Split(clause, ";")
	params := map[string]string{}
	for _, part := range parts[1:] {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		key = strings.TrimSuffix(strings.TrimSpace(key), ":")
		params[key] = strings.Trim(strings.TrimSpace(value), "\"")
	}
	return strings.TrimSpace(parts[0]), params
}

var _ ports.ManifestPort = ManifestFileAdapter{}
