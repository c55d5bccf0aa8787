package parser

import (
	"strings"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// rustExtractor treats outer attributes as the decorator analogue and ///
// doc comments as the docstring. Use declarations expand to one record per
// bound name, including grouped lists and `as` renames.
type rustExtractor struct{}

func (e *rustExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*File, error) {
	file := &File{
		Path:      filePath,
		Language:  "rust",
		Functions: []FunctionRecord{},
		Imports:   []ImportRecord{},
		ParsedAt:  time.Now(),
	}

	ctx := &ExtractionContext{Source: source, File: file}
	engine := NewExtractorEngine(map[string]NodeHandler{
		"use_declaration": e.extractUse,
		"function_item":   e.extractFunction,
	})
	engine.Walk(ctx, root)

	return file, nil
}

func (e *rustExtractor) extractUse(ctx *ExtractionContext, node *sitter.Node) {
	arg := node.ChildByFieldName("argument")
	if arg == nil {
		return
	}
	e.emitUse(ctx, arg, "")
}

func (e *rustExtractor) emitUse(ctx *ExtractionContext, node *sitter.Node, prefix string) {
	switch node.Kind() {
	case "identifier", "crate", "self", "super":
		if prefix == "" {
			ctx.File.Imports = append(ctx.File.Imports, ImportRecord{
				Module:   ctx.Text(node),
				Location: ctx.Location(node),
			})
			return
		}
		ctx.File.Imports = append(ctx.File.Imports, ImportRecord{
			Module:   prefix,
			Symbol:   ctx.Text(node),
			Location: ctx.Location(node),
		})
	case "scoped_identifier":
		module := joinRustPath(prefix, ctx.FieldText(node, "path"))
		ctx.File.Imports = append(ctx.File.Imports, ImportRecord{
			Module:   module,
			Symbol:   ctx.FieldText(node, "name"),
			Location: ctx.Location(node),
		})
	case "use_as_clause":
		path := node.ChildByFieldName("path")
		alias := ctx.FieldText(node, "alias")
		module, symbol := prefix, ""
		if path != nil {
			if path.Kind() == "scoped_identifier" {
				module = joinRustPath(prefix, ctx.FieldText(path, "path"))
				symbol = ctx.FieldText(path, "name")
			} else {
				symbol = ctx.Text(path)
				if prefix == "" {
					module, symbol = ctx.Text(path), ""
				}
			}
		}
		ctx.File.Imports = append(ctx.File.Imports, ImportRecord{
			Module:   module,
			Symbol:   symbol,
			Alias:    alias,
			Location: ctx.Location(node),
		})
	case "use_wildcard":
		module := prefix
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child.Kind() == "scoped_identifier" || child.Kind() == "identifier" || child.Kind() == "crate" {
				module = joinRustPath(prefix, ctx.Text(child))
			}
		}
		ctx.File.Imports = append(ctx.File.Imports, ImportRecord{
			Module:     module,
			IsWildcard: true,
			Location:   ctx.Location(node),
		})
	case "scoped_use_list":
		newPrefix := joinRustPath(prefix, ctx.FieldText(node, "path"))
		if list := node.ChildByFieldName("list"); list != nil {
			e.emitUse(ctx, list, newPrefix)
		}
	case "use_list":
		for i := uint(0); i < node.NamedChildCount(); i++ {
			e.emitUse(ctx, node.NamedChild(i), prefix)
		}
	}
}

func (e *rustExtractor) extractFunction(ctx *ExtractionContext, node *sitter.Node) {
	name := ctx.FieldText(node, "name")
	if name == "" {
		return
	}

	decorators, doc := e.leadingAttributes(ctx, node)
	ctx.File.Functions = append(ctx.File.Functions, FunctionRecord{
		Name:       name,
		Scope:      rustScope(ctx, node),
		Decorators: decorators,
		Docstring:  doc,
		Params:     e.extractParams(ctx, node.ChildByFieldName("parameters")),
		ReturnType: strings.TrimSpace(ctx.FieldText(node, "return_type")),
		Location:   ctx.Location(node),
	})
}

// leadingAttributes walks the siblings directly above a function item,
// collecting #[...] attributes in written order and /// doc lines.
func (e *rustExtractor) leadingAttributes(ctx *ExtractionContext, node *sitter.Node) ([]Decorator, string) {
	decorators := []Decorator{}
	docLines := []string{}

	leading := []*sitter.Node{}
	for prev := node.PrevSibling(); prev != nil; prev = prev.PrevSibling() {
		kind := prev.Kind()
		if kind != "attribute_item" && kind != "line_comment" && kind != "block_comment" {
			break
		}
		leading = append([]*sitter.Node{prev}, leading...)
	}

	for _, item := range leading {
		switch item.Kind() {
		case "attribute_item":
			attr := ctx.FirstChildOfKind(item, "attribute")
			if attr == nil {
				continue
			}
			name := ""
			parameterized := false
			for i := uint(0); i < attr.ChildCount(); i++ {
				child := attr.Child(i)
				switch child.Kind() {
				case "identifier", "scoped_identifier":
					if name == "" {
						name = ctx.Text(child)
					}
				case "token_tree":
					parameterized = true
				}
			}
			if name == "" {
				continue
			}
			decorators = append(decorators, Decorator{
				Name:          name,
				Parameterized: parameterized,
				Location:      ctx.Location(item),
			})
		case "line_comment":
			text := ctx.Text(item)
			if strings.HasPrefix(text, "///") {
				docLines = append(docLines, text)
			}
		}
	}

	return decorators, joinDocLines(docLines)
}

func (e *rustExtractor) extractParams(ctx *ExtractionContext, params *sitter.Node) []Param {
	if params == nil {
		return nil
	}

	out := []Param{}
	for i := uint(0); i < params.ChildCount(); i++ {
		child := params.Child(i)
		switch child.Kind() {
		case "parameter":
			out = append(out, Param{
				Name:       ctx.FieldText(child, "pattern"),
				Annotation: strings.TrimSpace(ctx.FieldText(child, "type")),
			})
		case "self_parameter":
			out = append(out, Param{Name: ctx.Text(child)})
		}
	}
	return out
}

func rustScope(ctx *ExtractionContext, node *sitter.Node) string {
	scope := ""
	prependScope := func(name string) {
		if name == "" {
			return
		}
		if scope == "" {
			scope = name
		} else {
			scope = name + "." + scope
		}
	}

	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		switch parent.Kind() {
		case "impl_item":
			typ := ctx.FieldText(parent, "type")
			if idx := strings.Index(typ, "<"); idx > 0 {
				typ = typ[:idx]
			}
			prependScope(typ)
		case "mod_item", "function_item", "trait_item":
			prependScope(ctx.FieldText(parent, "name"))
		}
	}
	return scope
}

func joinRustPath(prefix, path string) string {
	path = strings.TrimSpace(path)
	if prefix == "" {
		return path
	}
	if path == "" {
		return prefix
	}
	return prefix + "::" + path
}
