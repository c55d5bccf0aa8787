package parser

import (
	"strings"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// javaExtractor treats annotations as the decorator analogue and the
// preceding javadoc block as the docstring.
type javaExtractor struct{}

func (e *javaExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*File, error) {
	file := &File{
		Path:      filePath,
		Language:  "java",
		Functions: []FunctionRecord{},
		Imports:   []ImportRecord{},
		ParsedAt:  time.Now(),
	}

	ctx := &ExtractionContext{Source: source, File: file}
	engine := NewExtractorEngine(map[string]NodeHandler{
		"import_declaration":      e.extractImport,
		"method_declaration":      e.extractMethod,
		"constructor_declaration": e.extractMethod,
	})
	engine.Walk(ctx, root)

	return file, nil
}

func (e *javaExtractor) extractImport(ctx *ExtractionContext, node *sitter.Node) {
	isStatic := false
	isWildcard := false
	path := ""

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "static":
			isStatic = true
		case "asterisk":
			isWildcard = true
		case "scoped_identifier", "identifier":
			path = ctx.Text(child)
		}
	}
	if path == "" {
		return
	}

	record := ImportRecord{
		Module:     path,
		IsWildcard: isWildcard,
		Location:   ctx.Location(node),
	}
	if isStatic && !isWildcard {
		// static single-member imports bind the trailing member name
		if idx := strings.LastIndex(path, "."); idx > 0 {
			record.Module = path[:idx]
			record.Symbol = path[idx+1:]
		}
	}
	ctx.File.Imports = append(ctx.File.Imports, record)
}

func (e *javaExtractor) extractMethod(ctx *ExtractionContext, node *sitter.Node) {
	name := ctx.FieldText(node, "name")
	if name == "" {
		return
	}

	ctx.File.Functions = append(ctx.File.Functions, FunctionRecord{
		Name:       name,
		Scope:      javaScope(ctx, node),
		Decorators: e.extractAnnotations(ctx, node),
		Docstring:  leadingCommentBlock(ctx, node, ""),
		Params:     e.extractParams(ctx, node.ChildByFieldName("parameters")),
		ReturnType: strings.TrimSpace(ctx.FieldText(node, "type")),
		Location:   ctx.Location(node),
	})
}

// extractAnnotations reads the modifiers child in written order. Marker
// annotations and call-form annotations both contribute the bare name.
func (e *javaExtractor) extractAnnotations(ctx *ExtractionContext, node *sitter.Node) []Decorator {
	decorators := []Decorator{}
	modifiers := ctx.FirstChildOfKind(node, "modifiers")
	if modifiers == nil {
		return decorators
	}

	for i := uint(0); i < modifiers.ChildCount(); i++ {
		child := modifiers.Child(i)
		switch child.Kind() {
		case "marker_annotation":
			decorators = append(decorators, Decorator{
				Name:     ctx.FieldText(child, "name"),
				Location: ctx.Location(child),
			})
		case "annotation":
			decorators = append(decorators, Decorator{
				Name:          ctx.FieldText(child, "name"),
				Parameterized: true,
				Location:      ctx.Location(child),
			})
		}
	}
	return decorators
}

func (e *javaExtractor) extractParams(ctx *ExtractionContext, params *sitter.Node) []Param {
	if params == nil {
		return nil
	}

	out := []Param{}
	for i := uint(0); i < params.ChildCount(); i++ {
		child := params.Child(i)
		if child.Kind() != "formal_parameter" && child.Kind() != "spread_parameter" {
			continue
		}
		out = append(out, Param{
			Name:       ctx.FieldText(child, "name"),
			Annotation: strings.TrimSpace(ctx.FieldText(child, "type")),
		})
	}
	return out
}

func javaScope(ctx *ExtractionContext, node *sitter.Node) string {
	scope := ""
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		switch parent.Kind() {
		case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
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
