package types

import (
	"fmt"
	"path"
	"slices"
	"strings"
)

// QualifierSeparator separates namespace segments and the simple name in
// the textual form of a qualified name.
const QualifierSeparator = "."

// ObjectKind identifies the artifact type of a model object. The kind
// doubles as the file extension of the object's source file.
type ObjectKind string

const (
	KindPolicyType     ObjectKind = "policytype"
	KindProductType    ObjectKind = "producttype"
	KindEnumType       ObjectKind = "enumtype"
	KindTableStructure ObjectKind = "tablestructure"
	KindTableContents  ObjectKind = "tablecontents"
	KindProductCmpt    ObjectKind = "productcmpt"
	KindTestCase       ObjectKind = "testcase"
)

var knownKinds = []ObjectKind{
	KindPolicyType,
	KindProductType,
	KindEnumType,
	KindTableStructure,
	KindTableContents,
	KindProductCmpt,
	KindTestCase,
}

// AllKinds returns every known object kind in a stable order.
func AllKinds() []ObjectKind {
	return slices.Clone(knownKinds)
}

func (k ObjectKind) FileExtension() string {
	return string(k)
}

func (k ObjectKind) Valid() bool {
	return slices.Contains(knownKinds, k)
}

// KindForExtension maps a file extension (with or without the leading
// dot) to its object kind.
func KindForExtension(ext string) (ObjectKind, bool) {
	kind := ObjectKind(strings.TrimPrefix(strings.ToLower(ext), "."))
	if !kind.Valid() {
		return "", false
	}
	return kind, true
}

// QualifiedName addresses one logical artifact: namespace, simple name
// and kind. The zero value is the null name.
type QualifiedName struct {
	Namespace string
	Name      string
	Kind      ObjectKind
}

func NewQualifiedName(namespace string, name string, kind ObjectKind) QualifiedName {
	return QualifiedName{Namespace: namespace, Name: name, Kind: kind}
}

// ParseQualifiedName splits "a.b.Name" into namespace "a.b" and simple
// name "Name". A value without separator lives in the default namespace.
func ParseQualifiedName(value string, kind ObjectKind) (QualifiedName, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return QualifiedName{}, fmt.Errorf("qualified name is empty")
	}
	if strings.HasPrefix(trimmed, QualifierSeparator) || strings.HasSuffix(trimmed, QualifierSeparator) ||
		strings.Contains(trimmed, QualifierSeparator+QualifierSeparator) {
		return QualifiedName{}, fmt.Errorf("qualified name %q has an empty segment", value)
	}
	if !kind.Valid() {
		return QualifiedName{}, fmt.Errorf("unknown object kind %q", kind)
	}
	idx := strings.LastIndex(trimmed, QualifierSeparator)
	if idx < 0 {
		return NewQualifiedName("", trimmed, kind), nil
	}
	return NewQualifiedName(trimmed[:idx], trimmed[idx+1:], kind), nil
}

// QualifiedNameFromPath parses a root-relative source path such as
// "motor/coverage/Policy.policytype". It reports false for paths that do
// not carry a known object kind.
func QualifiedNameFromPath(relPath string) (QualifiedName, bool) {
	clean := strings.Trim(path.Clean("/"+strings.ReplaceAll(relPath, "\\", "/")), "/")
	if clean == "" {
		return QualifiedName{}, false
	}
	dir, file := path.Split(clean)
	ext := path.Ext(file)
	if ext == "" {
		return QualifiedName{}, false
	}
	kind, ok := KindForExtension(ext)
	if !ok {
		return QualifiedName{}, false
	}
	name := strings.TrimSuffix(file, ext)
	if name == "" {
		return QualifiedName{}, false
	}
	namespace := strings.ReplaceAll(strings.Trim(dir, "/"), "/", QualifierSeparator)
	return NewQualifiedName(namespace, name, kind), true
}

func (q QualifiedName) IsZero() bool {
	return q == QualifiedName{}
}

// Qualified returns the dotted form without the kind.
func (q QualifiedName) Qualified() string {
	if q.Namespace == "" {
		return q.Name
	}
	return q.Namespace + QualifierSeparator + q.Name
}

// Path returns the root-relative source path of the artifact.
func (q QualifiedName) Path() string {
	file := q.Name + "." + q.Kind.FileExtension()
	if q.Namespace == "" {
		return file
	}
	return strings.ReplaceAll(q.Namespace, QualifierSeparator, "/") + "/" + file
}

func (q QualifiedName) String() string {
	return string(q.Kind) + ":" + q.Qualified()
}

// CompareQualifiedName orders by namespace, then simple name, then kind.
func CompareQualifiedName(a, b QualifiedName) int {
	if c := strings.Compare(a.Namespace, b.Namespace); c != 0 {
		return c
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(string(a.Kind), string(b.Kind))
}

func SortQualifiedNames(names []QualifiedName) {
	slices.SortFunc(names, CompareQualifiedName)
}
