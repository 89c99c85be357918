package policies

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"objectpath/internal/types"
)

func TestSeverityPolicyResolve(t *testing.T) {
	policy, err := NewSeverityPolicy(map[string]string{
		"archive_missing": "Warning",
		"archive_*":       "info",
		"duplicate_*":     "error",
		"duplicate_qual*": "ignore",
		"*":               "warning",
	})
	require.NoError(t, err)

	tests := []struct {
		code types.DiagnosticCode
		want string
	}{
		{code: types.CodeArchiveMissing, want: "warning"},
		{code: types.CodeArchiveInvalid, want: "info"},
		{code: types.CodeDuplicateOutputFolder, want: "error"},
		{code: types.CodeDuplicateQualifiedName, want: SeverityIgnore},
		{code: types.CodeProjectMissing, want: "warning"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.code), func(t *testing.T) {
			got, ok := policy.Resolve(tt.code)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeverityPolicyApply(t *testing.T) {
	policy, err := NewSeverityPolicy(map[string]string{
		"runtime_id_collision":     "error",
		"duplicate_qualified_name": "ignore",
	})
	require.NoError(t, err)

	got := policy.Apply(types.Diagnostics{
		{Severity: types.SeverityWarning, Code: types.CodeRuntimeIDCollision, Object: "app"},
		{Severity: types.SeverityWarning, Code: types.CodeDuplicateQualifiedName, Object: "pkg.A"},
		{Severity: types.SeverityError, Code: types.CodeProjectMissing, Object: "ghost"},
	})
	want := types.Diagnostics{
		{Severity: types.SeverityError, Code: types.CodeRuntimeIDCollision, Object: "app"},
		{Severity: types.SeverityError, Code: types.CodeProjectMissing, Object: "ghost"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected diagnostics (-want +got):\n%s", diff)
	}
}

func TestSeverityPolicyRejectsUnknownSeverity(t *testing.T) {
	_, err := NewSeverityPolicy(map[string]string{"archive_missing": "fatal"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
