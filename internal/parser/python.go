// # internal/parser/python.go
package parser

import (
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// PythonExtractor emits one FunctionRecord per function definition at any
// scope depth, in source order, plus one ImportRecord per bound name.
type PythonExtractor struct{}

func (e *PythonExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*File, error) {
	file := &File{
		Path:      filePath,
		Language:  "python",
		Functions: []FunctionRecord{},
		Imports:   []ImportRecord{},
		ParsedAt:  time.Now(),
	}

	ctx := &ExtractionContext{Source: source, File: file}
	engine := NewExtractorEngine(map[string]NodeHandler{
		"function_definition":   e.extractFunction,
		"import_statement":      e.extractImport,
		"import_from_statement": e.extractFromImport,
	})
	engine.Walk(ctx, root)

	return file, nil
}

func (e *PythonExtractor) extractFunction(ctx *ExtractionContext, node *sitter.Node) {
	name := ctx.FieldText(node, "name")
	if name == "" {
		return
	}

	record := FunctionRecord{
		Name:       name,
		Scope:      pythonScope(ctx, node),
		Decorators: e.extractDecorators(ctx, node),
		Docstring:  e.extractDocstring(ctx, node.ChildByFieldName("body")),
		Params:     e.extractParams(ctx, node.ChildByFieldName("parameters")),
		ReturnType: ctx.FieldText(node, "return_type"),
		Location:   ctx.Location(node),
	}

	ctx.File.Functions = append(ctx.File.Functions, record)
}

// extractDecorators collects the decorator lines directly above a definition,
// in written top-to-bottom order. Each contributes only its callee name; call
// arguments are dropped and flagged via Parameterized.
func (e *PythonExtractor) extractDecorators(ctx *ExtractionContext, node *sitter.Node) []Decorator {
	decorators := []Decorator{}

	parent := node.Parent()
	if parent == nil || parent.Kind() != "decorated_definition" {
		return decorators
	}

	for i := uint(0); i < parent.ChildCount(); i++ {
		child := parent.Child(i)
		if child.Kind() != "decorator" {
			continue
		}
		for j := uint(0); j < child.ChildCount(); j++ {
			expr := child.Child(j)
			switch expr.Kind() {
			case "identifier", "attribute":
				decorators = append(decorators, Decorator{
					Name:     ctx.Text(expr),
					Location: ctx.Location(child),
				})
			case "call":
				callee := expr.ChildByFieldName("function")
				if callee == nil {
					continue
				}
				decorators = append(decorators, Decorator{
					Name:          ctx.Text(callee),
					Parameterized: true,
					Location:      ctx.Location(child),
				})
			}
		}
	}

	return decorators
}

// extractDocstring returns the first string-literal statement of a body
// block, quotes stripped. Empty when the body opens with anything else.
func (e *PythonExtractor) extractDocstring(ctx *ExtractionContext, body *sitter.Node) string {
	if body == nil || body.ChildCount() == 0 {
		return ""
	}
	first := body.Child(0)
	if first.Kind() != "expression_statement" || first.ChildCount() == 0 {
		return ""
	}
	str := first.Child(0)
	if str.Kind() != "string" {
		return ""
	}
	return stripStringQuotes(ctx.Text(str))
}

func (e *PythonExtractor) extractParams(ctx *ExtractionContext, params *sitter.Node) []Param {
	if params == nil {
		return nil
	}

	out := []Param{}
	for i := uint(0); i < params.ChildCount(); i++ {
		child := params.Child(i)
		switch child.Kind() {
		case "identifier":
			out = append(out, Param{Name: ctx.Text(child)})
		case "typed_parameter":
			// first named child is the pattern, type carries the annotation
			name := ""
			if child.NamedChildCount() > 0 {
				name = ctx.Text(child.NamedChild(0))
			}
			out = append(out, Param{Name: name, Annotation: ctx.FieldText(child, "type")})
		case "default_parameter":
			out = append(out, Param{Name: ctx.FieldText(child, "name")})
		case "typed_default_parameter":
			out = append(out, Param{
				Name:       ctx.FieldText(child, "name"),
				Annotation: ctx.FieldText(child, "type"),
			})
		case "list_splat_pattern", "dictionary_splat_pattern":
			out = append(out, Param{Name: ctx.Text(child)})
		}
	}
	return out
}

func (e *PythonExtractor) extractImport(ctx *ExtractionContext, node *sitter.Node) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "dotted_name", "identifier":
			ctx.File.Imports = append(ctx.File.Imports, ImportRecord{
				Module:   ctx.Text(child),
				Location: ctx.Location(child),
			})
		case "aliased_import":
			module := ctx.FieldText(child, "name")
			alias := ctx.FieldText(child, "alias")
			ctx.File.Imports = append(ctx.File.Imports, ImportRecord{
				Module:   module,
				Alias:    alias,
				Location: ctx.Location(child),
			})
		}
	}
}

// extractFromImport handles "from M import ..." in all its fixture forms:
// plain, aliased, wildcard, relative with leading dots, and multi-line
// parenthesized lists, which the grammar flattens to the same children.
func (e *PythonExtractor) extractFromImport(ctx *ExtractionContext, node *sitter.Node) {
	module := ""
	isRelative := false
	sawImport := false

	emit := func(symbol, alias string, wildcard bool, at *sitter.Node) {
		ctx.File.Imports = append(ctx.File.Imports, ImportRecord{
			Module:     module,
			Symbol:     symbol,
			Alias:      alias,
			IsRelative: isRelative,
			IsWildcard: wildcard,
			Location:   ctx.Location(at),
		})
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "import":
			sawImport = true
		case "relative_import":
			// leading dots are part of the module path
			isRelative = true
			module = ctx.Text(child)
		case "dotted_name", "identifier":
			if !sawImport {
				module = ctx.Text(child)
			} else {
				emit(ctx.Text(child), "", false, child)
			}
		case "aliased_import":
			emit(ctx.FieldText(child, "name"), ctx.FieldText(child, "alias"), false, child)
		case "wildcard_import":
			emit("", "", true, child)
		}
	}
}

// pythonScope walks enclosing function and class definitions, outermost
// first, so nested closures are reported at their own scope.
func pythonScope(ctx *ExtractionContext, node *sitter.Node) string {
	scope := ""
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		kind := parent.Kind()
		if kind != "function_definition" && kind != "class_definition" {
			continue
		}
		name := ctx.FieldText(parent, "name")
		if name == "" {
			continue
		}
		if scope == "" {
			scope = name
		} else {
			scope = name + "." + scope
		}
	}
	return scope
}
