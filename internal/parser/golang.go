// # internal/parser/golang.go
package parser

import (
	"strings"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// GoExtractor maps Go declarations onto the shared record shapes. Go has no
// decorators, so every record carries an empty decorator list; the leading
// comment block stands in for the docstring.
type GoExtractor struct{}

func (e *GoExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*File, error) {
	file := &File{
		Path:      filePath,
		Language:  "go",
		Functions: []FunctionRecord{},
		Imports:   []ImportRecord{},
		ParsedAt:  time.Now(),
	}

	ctx := &ExtractionContext{Source: source, File: file}
	engine := NewExtractorEngine(map[string]NodeHandler{
		"import_spec":          e.extractImportSpec,
		"function_declaration": e.extractFunction,
		"method_declaration":   e.extractMethod,
	})
	engine.Walk(ctx, root)

	return file, nil
}

func (e *GoExtractor) extractImportSpec(ctx *ExtractionContext, node *sitter.Node) {
	path := trimQuoted(ctx.FieldText(node, "path"))
	if path == "" {
		return
	}
	ctx.File.Imports = append(ctx.File.Imports, ImportRecord{
		Module:   path,
		Alias:    ctx.FieldText(node, "name"),
		Location: ctx.Location(node),
	})
}

func (e *GoExtractor) extractFunction(ctx *ExtractionContext, node *sitter.Node) {
	e.addFunction(ctx, node, "")
}

func (e *GoExtractor) extractMethod(ctx *ExtractionContext, node *sitter.Node) {
	scope := receiverTypeName(ctx, node.ChildByFieldName("receiver"))
	e.addFunction(ctx, node, scope)
}

func (e *GoExtractor) addFunction(ctx *ExtractionContext, node *sitter.Node, scope string) {
	name := ctx.FieldText(node, "name")
	if name == "" {
		return
	}

	ctx.File.Functions = append(ctx.File.Functions, FunctionRecord{
		Name:       name,
		Scope:      scope,
		Decorators: []Decorator{},
		Docstring:  leadingCommentBlock(ctx, node, "//"),
		Params:     e.extractParams(ctx, node.ChildByFieldName("parameters")),
		ReturnType: strings.TrimSpace(ctx.FieldText(node, "result")),
		Location:   ctx.Location(node),
	})
}

func (e *GoExtractor) extractParams(ctx *ExtractionContext, params *sitter.Node) []Param {
	if params == nil {
		return nil
	}

	out := []Param{}
	for i := uint(0); i < params.ChildCount(); i++ {
		child := params.Child(i)
		if child.Kind() != "parameter_declaration" && child.Kind() != "variadic_parameter_declaration" {
			continue
		}
		annotation := strings.TrimSpace(ctx.FieldText(child, "type"))
		named := false
		for j := uint(0); j < child.ChildCount(); j++ {
			ident := child.Child(j)
			if ident.Kind() == "identifier" {
				out = append(out, Param{Name: ctx.Text(ident), Annotation: annotation})
				named = true
			}
		}
		if !named && annotation != "" {
			out = append(out, Param{Annotation: annotation})
		}
	}
	return out
}

func receiverTypeName(ctx *ExtractionContext, receiver *sitter.Node) string {
	if receiver == nil {
		return ""
	}
	for i := uint(0); i < receiver.ChildCount(); i++ {
		child := receiver.Child(i)
		if child.Kind() != "parameter_declaration" {
			continue
		}
		typ := ctx.FieldText(child, "type")
		typ = strings.TrimPrefix(typ, "*")
		if idx := strings.Index(typ, "["); idx > 0 {
			typ = typ[:idx]
		}
		return typ
	}
	return ""
}

// leadingCommentBlock gathers the contiguous comment siblings directly above
// a declaration.
func leadingCommentBlock(ctx *ExtractionContext, node *sitter.Node, marker string) string {
	lines := []string{}
	expected := int(node.StartPosition().Row)

	for prev := node.PrevSibling(); prev != nil; prev = prev.PrevSibling() {
		kind := prev.Kind()
		if kind != "comment" && kind != "line_comment" && kind != "block_comment" {
			break
		}
		if int(prev.EndPosition().Row) < expected-1 {
			break
		}
		text := ctx.Text(prev)
		if marker != "" && !strings.HasPrefix(text, marker) && !strings.HasPrefix(text, "/*") {
			break
		}
		lines = append([]string{text}, lines...)
		expected = int(prev.StartPosition().Row)
	}

	if len(lines) == 0 {
		return ""
	}
	block := strings.Join(lines, "\n")
	block = strings.TrimPrefix(block, "/**")
	block = strings.TrimPrefix(block, "/*")
	block = strings.TrimSuffix(block, "*/")
	return joinDocLines(strings.Split(block, "\n"))
}
