package adapters

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"objectpath/internal/ports"
	"objectpath/internal/types"
)

var segmentPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// defaultReservedWords cannot be used as package segments since they
// clash with generated code.
var defaultReservedWords = []string{
	"abstract", "boolean", "break", "byte", "case", "catch", "char", "class",
	"const", "continue", "default", "do", "double", "else", "enum", "extends",
	"final", "finally", "float", "for", "goto", "if", "implements", "import",
	"instanceof", "int", "interface", "long", "native", "new", "package",
	"private", "protected", "public", "return", "short", "static", "super",
	"switch", "synchronized", "this", "throw", "throws", "transient", "try",
	"void", "volatile", "while", "true", "false", "null",
}

// NamingAdapter validates dotted package names segment by segment.
type NamingAdapter struct {
	reserved []string
}

func NewNamingAdapter(extraReserved ...string) NamingAdapter {
	reserved := slices.Clone(defaultReservedWords)
	reserved = append(reserved, extraReserved...)
	return NamingAdapter{reserved: reserved}
}

func (a NamingAdapter) Validate(candidate string) []types.Diagnostic {
	if strings.TrimSpace(candidate) == "" {
		return []types.Diagnostic{a.problem(candidate, "name is empty")}
	}
	var diags []types.Diagnostic
	for _, segment := range strings.Split(candidate, types.QualifierSeparator) {
		switch {
		case segment == "":
			diags = append(diags, a.problem(candidate, "name has an empty segment"))
		case !segmentPattern.MatchString(segment):
			diags = append(diags, a.problem(candidate, fmt.Sprintf("segment %q is not an identifier", segment)))
		case slices.Contains(a.reserved, segment):
			diags = append(diags, a.problem(candidate, fmt.Sprintf("segment %q is a reserved word", segment)))
		}
	}
	return diags
}

func (a NamingAdapter) problem(candidate string, msg string) types.Diagnostic {
	return types.Diagnostic{
		Severity: types.SeverityError,
		Code:     types.CodeInvalidName,
		Message:  msg,
		Object:   candidate,
	}
}

var _ ports.NamingPort = NamingAdapter{}
