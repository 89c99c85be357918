package core

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"path"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/require"

	"objectpath/internal/ports"
	"objectpath/internal/types"
)

type memFile struct {
	data    []byte
	modTime time.Time
}

// memResources is an in-memory resource port. Folders exist implicitly
// when a file lives below them.
type memResources struct {
	mu    sync.Mutex
	files map[string]memFile
	opens map[string]int
	clock time.Time
}

var _ ports.ResourcePort = (*memResources)(nil)

func newMemResources() *memResources {
	return &memResources{
		files: map[string]memFile{},
		opens: map[string]int{},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memResources) put(location string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Second)
	m.files[location] = memFile{data: data, modTime: m.clock}
}

func (m *memResources) putString(location string, data string) {
	m.put(location, []byte(data))
}

func (m *memResources) remove(location string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, location)
}

func (m *memResources) openCount(location string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens[location]
}

func (m *memResources) isDir(location string) bool {
	prefix := location + "/"
	for name := range m.files {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func (m *memResources) Exists(_ context.Context, location string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[location]; ok {
		return true, nil
	}
	return m.isDir(location), nil
}

func (m *memResources) ModTime(_ context.Context, location string) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	file, ok := m.files[location]
	if !ok {
		return time.Time{}, errbuilder.New().WithCode(errbuilder.CodeNotFound).WithMsg("missing " + location)
	}
	return file.modTime, nil
}

func (m *memResources) Open(_ context.Context, location string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	file, ok := m.files[location]
	if !ok {
		return nil, errbuilder.New().WithCode(errbuilder.CodeNotFound).WithMsg("missing " + location)
	}
	m.opens[location]++
	return io.NopCloser(bytes.NewReader(file.data)), nil
}

func (m *memResources) List(_ context.Context, location string) ([]types.ResourceInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := location + "/"
	children := map[string]types.ResourceInfo{}
	for name, file := range m.files {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		rest := strings.TrimPrefix(name, prefix)
		child, _, nested := strings.Cut(rest, "/")
		children[child] = types.ResourceInfo{
			Name:    child,
			Path:    path.Join(location, child),
			IsDir:   nested,
			ModTime: file.modTime,
			Size:    int64(len(file.data)),
		}
	}
	infos := make([]types.ResourceInfo, 0, len(children))
	for _, info := range children {
		infos = append(infos, info)
	}
	slices.SortFunc(infos, func(a, b types.ResourceInfo) int {
		return strings.Compare(a.Name, b.Name)
	})
	return infos, nil
}

func (m *memResources) Write(_ context.Context, location string, data []byte) error {
	m.put(location, data)
	return nil
}

// buildArchive zips files. Unless the caller provides one, an empty
// objects.properties is added.
func buildArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	if _, ok := files[archivePropertiesName]; !ok {
		names = append(names, archivePropertiesName)
	}
	slices.Sort(names)
	for _, name := range names {
		w, err := writer.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return buf.Bytes()
}

func buildArchiveWithoutProperties(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := writer.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return buf.Bytes()
}

type staticNaming struct {
	reserved []string
}

func (n staticNaming) Validate(candidate string) []types.Diagnostic {
	for _, segment := range strings.Split(candidate, ".") {
		if segment == "" || slices.Contains(n.reserved, segment) || strings.ContainsAny(segment, " -") {
			return []types.Diagnostic{{
				Severity: types.SeverityError,
				Code:     types.CodeInvalidName,
				Message:  "invalid segment " + segment,
				Object:   candidate,
			}}
		}
	}
	return nil
}

type staticContainer struct {
	description string
	records     []types.EntryRecord
	err         error
}

func (c staticContainer) Description() string {
	return c.description
}

func (c staticContainer) ResolveEntries(context.Context) ([]types.EntryRecord, error) {
	return c.records, c.err
}

// staticContainers resolves "type/discriminator" keys. Calls are counted
// per key.
type staticContainers struct {
	mu         sync.Mutex
	containers map[string]staticContainer
	calls      map[string]int
}

func newStaticContainers() *staticContainers {
	return &staticContainers{containers: map[string]staticContainer{}, calls: map[string]int{}}
}

func (s *staticContainers) add(containerType string, discriminator string, records ...types.EntryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := containerType + "/" + discriminator
	s.containers[key] = staticContainer{description: key, records: records}
}

func (s *staticContainers) Resolve(_ context.Context, containerType string, discriminator string, _ string) (ports.ContainerHandle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := containerType + "/" + discriminator
	s.calls[key]++
	container, ok := s.containers[key]
	if !ok {
		return nil, false
	}
	return container, true
}

func (s *staticContainers) callCount(containerType string, discriminator string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[containerType+"/"+discriminator]
}

func newTestModel(t *testing.T, resources ports.ResourcePort, opts ...ModelOption) *Model {
	t.Helper()
	model, err := NewModel(resources, opts...)
	require.NoError(t, err)
	return model
}

func addTestProject(t *testing.T, model *Model, name string, records ...types.EntryRecord) *Project {
	t.Helper()
	project, err := model.AddProject(name)
	require.NoError(t, err)
	setEntries(t, project, records...)
	return project
}

func setEntries(t *testing.T, project *Project, records ...types.EntryRecord) {
	t.Helper()
	objectPath, err := ObjectPathFromRecord(project, types.ObjectPathRecord{Entries: records})
	require.NoError(t, err)
	require.NoError(t, project.SetObjectPath(objectPath))
}

func srcRecord(folder string) types.EntryRecord {
	return types.EntryRecord{Type: types.EntryTypeSourceFolder, Folder: folder}
}

func archiveRecord(location string) types.EntryRecord {
	return types.EntryRecord{Type: types.EntryTypeArchive, Archive: location}
}

func projectRecord(project string, reexported bool) types.EntryRecord {
	return types.EntryRecord{Type: types.EntryTypeProject, Project: project, Reexported: reexported}
}

func containerRecord(containerType string, discriminator string) types.EntryRecord {
	return types.EntryRecord{Type: types.EntryTypeContainer, ContainerType: containerType, ContainerPath: discriminator}
}

func policyType(qualified string) types.QualifiedName {
	qn, err := types.ParseQualifiedName(qualified, types.KindPolicyType)
	if err != nil {
		panic(err)
	}
	return qn
}

func projectNames(projects []*Project) []string {
	names := make([]string, 0, len(projects))
	for _, project := range projects {
		names = append(names, project.Name())
	}
	return names
}

func qualifiedNames(files []SourceFile) []string {
	names := make([]string, 0, len(files))
	for _, file := range files {
		names = append(names, file.QualifiedName.Qualified())
	}
	return names
}
