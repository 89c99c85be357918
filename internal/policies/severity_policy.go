package policies

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"objectpath/internal/types"
)

// SeverityIgnore drops matching diagnostics instead of re-grading them.
const SeverityIgnore = "ignore"

// SeverityPolicy overrides the severity of diagnostics by code. Patterns
// are an exact code, a prefix ending in "*" or "*" alone. The most
// specific pattern wins: exact, then the longest prefix, then "*".
type SeverityPolicy struct {
	exact    map[types.DiagnosticCode]string
	prefixes []prefixPattern
	wildcard string
}

type prefixPattern struct {
	prefix   string
	severity string
}

func NewSeverityPolicy(overrides map[string]string) (SeverityPolicy, error) {
	policy := SeverityPolicy{exact: map[types.DiagnosticCode]string{}}
	for pattern, value := range overrides {
		severity, err := parseSeverity(value)
		if err != nil {
			return SeverityPolicy{}, err
		}
		trimmed := strings.ToLower(strings.TrimSpace(pattern))
		switch {
		case trimmed == "":
			return SeverityPolicy{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("severity override needs a diagnostic code")
		case trimmed == "*":
			policy.wildcard = severity
		case strings.HasSuffix(trimmed, "*"):
			policy.prefixes = append(policy.prefixes, prefixPattern{prefix: strings.TrimSuffix(trimmed, "*"), severity: severity})
		default:
			policy.exact[types.DiagnosticCode(trimmed)] = severity
		}
	}
	slices.SortFunc(policy.prefixes, func(a, b prefixPattern) int {
		if len(a.prefix) != len(b.prefix) {
			return len(b.prefix) - len(a.prefix)
		}
		return strings.Compare(a.prefix, b.prefix)
	})
	return policy, nil
}

func parseSeverity(value string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == SeverityIgnore || types.Severity(normalized).Valid() {
		return normalized, nil
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("unknown severity %q", value))
}

// Resolve returns the override for a code, if any.
func (p SeverityPolicy) Resolve(code types.DiagnosticCode) (string, bool) {
	if severity, ok := p.exact[code]; ok {
		return severity, true
	}
	for _, pattern := range p.prefixes {
		if strings.HasPrefix(string(code), pattern.prefix) {
			return pattern.severity, true
		}
	}
	if p.wildcard != "" {
		return p.wildcard, true
	}
	return "", false
}

// Apply re-grades diagnostics and drops ignored ones.
func (p SeverityPolicy) Apply(diags types.Diagnostics) types.Diagnostics {
	out := make(types.Diagnostics, 0, len(diags))
	for _, diag := range diags {
		severity, ok := p.Resolve(diag.Code)
		if !ok {
			out = append(out, diag)
			continue
		}
		if severity == SeverityIgnore {
			continue
		}
		diag.Severity = types.Severity(severity)
		out = append(out, diag)
	}
	return out
}
