// # internal/resolver/resolver.go
package resolver

import (
	"strings"

	"metascan/internal/parser"
)

// ImportBinding maps one locally-bound name to its fully-qualified origin.
type ImportBinding struct {
	LocalName    string
	OriginModule string // leading dots preserved for relative paths
	OriginSymbol string // empty for whole-module imports
	IsRelative   bool
	Location     parser.Location
}

// BindingConflict records a duplicate local name within one module scope.
// The first binding stays in the map; the clash is reported, never silently
// overwritten.
type BindingConflict struct {
	LocalName string
	First     parser.Location
	Second    parser.Location
}

// Resolution holds the binding map for one source unit plus the diagnostics
// produced while building it.
type Resolution struct {
	Bindings  map[string]ImportBinding
	Order     []string // local names in binding order
	Conflicts []BindingConflict
	Wildcards []parser.ImportRecord
}

// Resolve builds local-name bindings from a parsed file's import records.
// Wildcard imports cannot be enumerated and are carried separately.
func Resolve(file *parser.File) *Resolution {
	res := &Resolution{
		Bindings:  make(map[string]ImportBinding),
		Order:     []string{},
		Conflicts: []BindingConflict{},
		Wildcards: []parser.ImportRecord{},
	}

	for _, record := range file.Imports {
		if record.IsWildcard {
			res.Wildcards = append(res.Wildcards, record)
			continue
		}

		binding := ImportBinding{
			LocalName:    LocalName(record),
			OriginModule: record.Module,
			OriginSymbol: record.Symbol,
			IsRelative:   record.IsRelative,
			Location:     record.Location,
		}
		if binding.LocalName == "" {
			continue
		}

		if existing, ok := res.Bindings[binding.LocalName]; ok {
			res.Conflicts = append(res.Conflicts, BindingConflict{
				LocalName: binding.LocalName,
				First:     existing.Location,
				Second:    binding.Location,
			})
			continue
		}

		res.Bindings[binding.LocalName] = binding
		res.Order = append(res.Order, binding.LocalName)
	}

	return res
}

// LocalName determines the name an import record binds in its scope:
// alias over symbol over the module's first path segment.
func LocalName(record parser.ImportRecord) string {
	if record.Alias != "" {
		return record.Alias
	}
	if record.Symbol != "" {
		return record.Symbol
	}
	return moduleBindingName(record.Module)
}

// moduleBindingName reduces a module path to the name a whole-module import
// binds: `import a.b.c` binds `a`, `use std::fmt` binds `fmt` at the end of
// its path, a Go or JS path binds its last segment.
func moduleBindingName(module string) string {
	module = strings.TrimLeft(module, ".")
	if module == "" {
		return ""
	}
	if strings.Contains(module, "::") {
		parts := strings.Split(module, "::")
		return parts[len(parts)-1]
	}
	if strings.Contains(module, "/") {
		parts := strings.Split(module, "/")
		return parts[len(parts)-1]
	}
	if idx := strings.Index(module, "."); idx > 0 {
		return module[:idx]
	}
	return module
}
