package ports

import "objectpath/internal/types"

// NamingPort validates package-style names. An empty result means the
// candidate is well formed.
type NamingPort interface {
	Validate(candidate string) []types.Diagnostic
}
