// # internal/parser/parser.go
package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type Parser struct {
	loader     *GrammarLoader
	extractors map[string]Extractor // language -> extractor
}

type Extractor interface {
	Extract(root *sitter.Node, source []byte, filePath string) (*File, error)
}

func NewParser(loader *GrammarLoader) *Parser {
	return &Parser{
		loader:     loader,
		extractors: make(map[string]Extractor),
	}
}

func (p *Parser) RegisterExtractor(lang string, e Extractor) {
	p.extractors[lang] = e
}

// RegisterDefaults wires the built-in extractor for every loaded grammar.
func (p *Parser) RegisterDefaults() {
	for _, lang := range p.loader.Supported() {
		if e, ok := DefaultExtractorForLanguage(lang); ok {
			p.extractors[lang] = e
		}
	}
}

// ParseFile parses one source unit and extracts its metadata. Malformed
// source fails the whole unit with a *ParseError carrying the location of
// the first syntax error; there is no partial extraction.
func (p *Parser) ParseFile(path string, content []byte) (*File, error) {
	lang := p.detectLanguage(path)
	if lang == "" {
		return nil, fmt.Errorf("unsupported language for %s", path)
	}

	grammar := p.loader.Language(lang)
	if grammar == nil {
		return nil, fmt.Errorf("grammar not loaded: %s", lang)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, &ParseError{Path: path, Reason: "parse failed"}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		line, col, detail := locateSyntaxError(root)
		return nil, &ParseError{Path: path, Line: line, Column: col, Reason: detail}
	}

	extractor := p.extractors[lang]
	if extractor == nil {
		return nil, fmt.Errorf("no extractor for: %s", lang)
	}

	return extractor.Extract(root, content, path)
}

// Supports reports whether the file extension maps to a loaded grammar.
func (p *Parser) Supports(path string) bool {
	return p.detectLanguage(path) != ""
}

func (p *Parser) detectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".py", ".pyi":
		return "python"
	case ".go":
		return "go"
	case ".java":
		return "java"
	case ".rs":
		return "rust"
	case ".js", ".mjs", ".cjs":
		return "javascript"
	case ".ts":
		return "typescript"
	case ".tsx":
		return "tsx"
	default:
		return ""
	}
}

// locateSyntaxError descends toward the first ERROR or MISSING node and
// reports its position.
func locateSyntaxError(node *sitter.Node) (line, col int, detail string) {
	if node.IsError() {
		return int(node.StartPosition().Row) + 1, int(node.StartPosition().Column) + 1, "syntax error"
	}
	if node.IsMissing() {
		return int(node.StartPosition().Row) + 1, int(node.StartPosition().Column) + 1, "missing " + node.Kind()
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.HasError() || child.IsMissing() {
			return locateSyntaxError(child)
		}
	}
	return int(node.StartPosition().Row) + 1, int(node.StartPosition().Column) + 1, "syntax error"
}
