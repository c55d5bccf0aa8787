// # internal/parser/types.go
package parser

import (
	"time"
)

type File struct {
	Path      string
	Language  string
	Functions []FunctionRecord
	Imports   []ImportRecord
	ParsedAt  time.Time
}

// FunctionRecord captures the extracted metadata for one function definition.
// Records appear in source order, one per definition at any scope depth.
type FunctionRecord struct {
	Name       string
	Scope      string // dotted enclosing definition names, empty at module level
	Decorators []Decorator
	Docstring  string
	Params     []Param
	ReturnType string
	Location   Location
}

// DecoratorNames returns decorator callee names in written top-to-bottom order.
func (f FunctionRecord) DecoratorNames() []string {
	names := make([]string, 0, len(f.Decorators))
	for _, d := range f.Decorators {
		names = append(names, d.Name)
	}
	return names
}

// QualifiedName joins the enclosing scope and the function name.
func (f FunctionRecord) QualifiedName() string {
	if f.Scope == "" {
		return f.Name
	}
	return f.Scope + "." + f.Name
}

type Decorator struct {
	Name          string // callee name only, arguments stripped
	Parameterized bool   // true for call-form decorators like @retry(times=3)
	Location      Location
}

type Param struct {
	Name       string
	Annotation string // optional type annotation text
}

// ImportRecord is one bound name from an import statement. A statement that
// binds several names yields several records.
type ImportRecord struct {
	Module     string // origin module, leading dots preserved for relative paths
	Symbol     string // imported symbol, empty for whole-module imports
	Alias      string // optional rebinding via "as"
	IsRelative bool
	IsWildcard bool
	Location   Location
}

type Location struct {
	File   string
	Line   int
	Column int
}
