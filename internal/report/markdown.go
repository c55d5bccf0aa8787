// # internal/report/markdown.go
package report

import (
	"fmt"
	"strings"
	"time"
)

type MarkdownOptions struct {
	ProjectName string
	Version     string
	GeneratedAt time.Time
}

type MarkdownGenerator struct{}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

func (m *MarkdownGenerator) Generate(data Data, opts MarkdownOptions) (string, error) {
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = data.GeneratedAt
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: Source Metadata Report\n")
	b.WriteString("project: " + nonEmpty(opts.ProjectName, "unknown") + "\n")
	b.WriteString("run_id: " + data.RunID + "\n")
	b.WriteString("generated_at: " + opts.GeneratedAt.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("version: " + nonEmpty(opts.Version, "unknown") + "\n")
	b.WriteString("---\n\n")

	b.WriteString("# Extraction Report\n\n")
	b.WriteString("## Summary\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | --- |\n")
	b.WriteString(fmt.Sprintf("| Files | %d |\n", len(data.Files)))
	b.WriteString(fmt.Sprintf("| Functions | %d |\n", data.FunctionCount()))
	b.WriteString(fmt.Sprintf("| Decorated Functions | %d |\n", data.DecoratedCount()))
	b.WriteString(fmt.Sprintf("| Import Bindings | %d |\n", data.BindingCount()))
	b.WriteString(fmt.Sprintf("| Binding Conflicts | %d |\n\n", data.ConflictCount()))

	b.WriteString("## Functions\n")
	b.WriteString("| Function | File | Decorators | Docstring |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, file := range data.Files {
		for _, fn := range file.Functions {
			decorators := strings.Join(fn.DecoratorNames(), ", ")
			if decorators == "" {
				decorators = "-"
			}
			b.WriteString(fmt.Sprintf("| `%s` | %s:%d | %s | %s |\n",
				fn.QualifiedName(), file.Path, fn.Location.Line,
				escapeCell(decorators), escapeCell(firstDocLine(fn.Docstring))))
		}
	}
	b.WriteString("\n")

	conflicts := 0
	for _, file := range data.Files {
		if file.Resolution == nil {
			continue
		}
		for _, c := range file.Resolution.Conflicts {
			if conflicts == 0 {
				b.WriteString("## Binding Conflicts\n")
				b.WriteString("| Name | File | First | Second |\n")
				b.WriteString("| --- | --- | --- | --- |\n")
			}
			conflicts++
			b.WriteString(fmt.Sprintf("| `%s` | %s | line %d | line %d |\n",
				c.LocalName, file.Path, c.First.Line, c.Second.Line))
		}
	}
	if conflicts == 0 {
		b.WriteString("## Binding Conflicts\nNone detected.\n")
	}

	return b.String(), nil
}

// escapeCell keeps literal pipes from terminating a table cell.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func firstDocLine(doc string) string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return "-"
	}
	if idx := strings.IndexByte(doc, '\n'); idx >= 0 {
		doc = doc[:idx]
	}
	return strings.TrimSpace(doc)
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
