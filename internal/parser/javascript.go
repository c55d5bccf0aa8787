package parser

import (
	"strings"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// jsExtractor covers JavaScript and, through tsExtractor, TypeScript/TSX.
// Decorator syntax is shared with Python in spirit: ordered @names above a
// definition, parameterized when written as a call.
type jsExtractor struct {
	language string
}

func newJavaScriptExtractor(language string) *jsExtractor {
	return &jsExtractor{language: language}
}

func (e *jsExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*File, error) {
	file := &File{
		Path:      filePath,
		Language:  e.language,
		Functions: []FunctionRecord{},
		Imports:   []ImportRecord{},
		ParsedAt:  time.Now(),
	}

	ctx := &ExtractionContext{Source: source, File: file}
	engine := NewExtractorEngine(e.handlers())
	engine.Walk(ctx, root)

	return file, nil
}

func (e *jsExtractor) handlers() map[string]NodeHandler {
	return map[string]NodeHandler{
		"import_statement":               e.extractImport,
		"function_declaration":           e.extractFunction,
		"generator_function_declaration": e.extractFunction,
		"method_definition":              e.extractFunction,
	}
}

func (e *jsExtractor) extractImport(ctx *ExtractionContext, node *sitter.Node) {
	module := trimQuoted(ctx.FieldText(node, "source"))
	if module == "" {
		return
	}
	isRelative := strings.HasPrefix(module, ".")

	clause := ctx.FirstChildOfKind(node, "import_clause")
	if clause == nil {
		// side-effect import binds nothing
		ctx.File.Imports = append(ctx.File.Imports, ImportRecord{
			Module:     module,
			IsRelative: isRelative,
			Location:   ctx.Location(node),
		})
		return
	}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Kind() {
		case "identifier":
			if n.Parent() != nil && n.Parent().Kind() == "import_clause" {
				ctx.File.Imports = append(ctx.File.Imports, ImportRecord{
					Module:     module,
					Symbol:     "default",
					Alias:      ctx.Text(n),
					IsRelative: isRelative,
					Location:   ctx.Location(n),
				})
			}
			return
		case "namespace_import":
			ctx.File.Imports = append(ctx.File.Imports, ImportRecord{
				Module:     module,
				Alias:      ctx.ChildText(n, "identifier"),
				IsRelative: isRelative,
				Location:   ctx.Location(n),
			})
			return
		case "import_specifier":
			ctx.File.Imports = append(ctx.File.Imports, ImportRecord{
				Module:     module,
				Symbol:     ctx.FieldText(n, "name"),
				Alias:      ctx.FieldText(n, "alias"),
				IsRelative: isRelative,
				Location:   ctx.Location(n),
			})
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(clause)
}

func (e *jsExtractor) extractFunction(ctx *ExtractionContext, node *sitter.Node) {
	name := ctx.FieldText(node, "name")
	if name == "" {
		return
	}

	returnType := strings.TrimSpace(ctx.FieldText(node, "return_type"))
	returnType = strings.TrimSpace(strings.TrimPrefix(returnType, ":"))

	ctx.File.Functions = append(ctx.File.Functions, FunctionRecord{
		Name:       name,
		Scope:      jsScope(ctx, node),
		Decorators: e.extractDecorators(ctx, node),
		Docstring:  leadingCommentBlock(ctx, node, ""),
		Params:     e.extractParams(ctx, node.ChildByFieldName("parameters")),
		ReturnType: returnType,
		Location:   ctx.Location(node),
	})
}

// extractDecorators reads decorator children of the definition itself plus
// decorator siblings directly above it inside a class body.
func (e *jsExtractor) extractDecorators(ctx *ExtractionContext, node *sitter.Node) []Decorator {
	decorators := []Decorator{}

	appendDecorator := func(dec *sitter.Node) {
		for i := uint(0); i < dec.ChildCount(); i++ {
			expr := dec.Child(i)
			switch expr.Kind() {
			case "identifier", "member_expression":
				decorators = append(decorators, Decorator{
					Name:     ctx.Text(expr),
					Location: ctx.Location(dec),
				})
			case "call_expression":
				callee := expr.ChildByFieldName("function")
				if callee == nil {
					continue
				}
				decorators = append(decorators, Decorator{
					Name:          ctx.Text(callee),
					Parameterized: true,
					Location:      ctx.Location(dec),
				})
			}
		}
	}

	leading := []*sitter.Node{}
	for prev := node.PrevSibling(); prev != nil; prev = prev.PrevSibling() {
		if prev.Kind() != "decorator" {
			break
		}
		leading = append([]*sitter.Node{prev}, leading...)
	}
	for _, dec := range leading {
		appendDecorator(dec)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "decorator" {
			appendDecorator(child)
		}
	}

	return decorators
}

func (e *jsExtractor) extractParams(ctx *ExtractionContext, params *sitter.Node) []Param {
	if params == nil {
		return nil
	}

	out := []Param{}
	for i := uint(0); i < params.ChildCount(); i++ {
		child := params.Child(i)
		switch child.Kind() {
		case "identifier", "rest_pattern", "object_pattern", "array_pattern":
			out = append(out, Param{Name: ctx.Text(child)})
		case "assignment_pattern":
			out = append(out, Param{Name: ctx.FieldText(child, "left")})
		case "required_parameter", "optional_parameter":
			annotation := strings.TrimSpace(ctx.FieldText(child, "type"))
			annotation = strings.TrimSpace(strings.TrimPrefix(annotation, ":"))
			out = append(out, Param{
				Name:       ctx.FieldText(child, "pattern"),
				Annotation: annotation,
			})
		}
	}
	return out
}

func jsScope(ctx *ExtractionContext, node *sitter.Node) string {
	scope := ""
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		switch parent.Kind() {
		case "class_declaration", "function_declaration", "generator_function_declaration", "method_definition":
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
	}
	return scope
}

// tsExtractor reuses the JavaScript handlers; the TypeScript grammars share
// their node kinds and add typed parameter and return annotations, which the
// shared handlers already read.
type tsExtractor struct {
	language string
	js       *jsExtractor
}

func newTypeScriptExtractor(language string) *tsExtractor {
	return &tsExtractor{
		language: language,
		js:       newJavaScriptExtractor(language),
	}
}

func (e *tsExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*File, error) {
	return e.js.Extract(root, source, filePath)
}
