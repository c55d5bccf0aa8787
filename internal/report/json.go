// # internal/report/json.go
package report

import (
	"encoding/json"
	"time"
)

// The JSON document mirrors the record shapes consumers index on: per-file
// function records and local-name bindings, field names stable.

type jsonDocument struct {
	RunID       string     `json:"run_id"`
	GeneratedAt string     `json:"generated_at"`
	Files       []jsonFile `json:"files"`
}

type jsonFile struct {
	Path      string         `json:"path"`
	Language  string         `json:"language"`
	Functions []jsonFunction `json:"functions"`
	Bindings  []jsonBinding  `json:"bindings"`
	Conflicts []jsonConflict `json:"conflicts"`
}

type jsonFunction struct {
	Name           string          `json:"name"`
	Scope          string          `json:"scope,omitempty"`
	DecoratorNames []string        `json:"decorator_names"`
	Decorators     []jsonDecorator `json:"decorators,omitempty"`
	Docstring      string          `json:"docstring,omitempty"`
	Parameters     []jsonParam     `json:"parameters"`
	ReturnType     string          `json:"return_type,omitempty"`
	Line           int             `json:"line"`
	Column         int             `json:"column"`
}

type jsonDecorator struct {
	Name          string `json:"name"`
	Parameterized bool   `json:"parameterized"`
}

type jsonParam struct {
	Name       string `json:"name"`
	Annotation string `json:"annotation,omitempty"`
}

type jsonBinding struct {
	LocalName    string `json:"local_name"`
	OriginModule string `json:"origin_module"`
	OriginSymbol string `json:"origin_symbol,omitempty"`
	IsRelative   bool   `json:"is_relative"`
	Line         int    `json:"line"`
}

type jsonConflict struct {
	LocalName  string `json:"local_name"`
	FirstLine  int    `json:"first_line"`
	SecondLine int    `json:"second_line"`
}

type JSONGenerator struct{}

func NewJSONGenerator() *JSONGenerator {
	return &JSONGenerator{}
}

func (g *JSONGenerator) Generate(data Data) (string, error) {
	doc := jsonDocument{
		RunID:       data.RunID,
		GeneratedAt: data.GeneratedAt.UTC().Format(time.RFC3339),
		Files:       make([]jsonFile, 0, len(data.Files)),
	}

	for _, file := range data.Files {
		jf := jsonFile{
			Path:      file.Path,
			Language:  file.Language,
			Functions: make([]jsonFunction, 0, len(file.Functions)),
			Bindings:  []jsonBinding{},
			Conflicts: []jsonConflict{},
		}

		for _, fn := range file.Functions {
			jfn := jsonFunction{
				Name:           fn.Name,
				Scope:          fn.Scope,
				DecoratorNames: fn.DecoratorNames(),
				Docstring:      fn.Docstring,
				Parameters:     make([]jsonParam, 0, len(fn.Params)),
				ReturnType:     fn.ReturnType,
				Line:           fn.Location.Line,
				Column:         fn.Location.Column,
			}
			for _, d := range fn.Decorators {
				jfn.Decorators = append(jfn.Decorators, jsonDecorator{Name: d.Name, Parameterized: d.Parameterized})
			}
			for _, p := range fn.Params {
				jfn.Parameters = append(jfn.Parameters, jsonParam{Name: p.Name, Annotation: p.Annotation})
			}
			jf.Functions = append(jf.Functions, jfn)
		}

		if res := file.Resolution; res != nil {
			for _, local := range res.Order {
				b := res.Bindings[local]
				jf.Bindings = append(jf.Bindings, jsonBinding{
					LocalName:    b.LocalName,
					OriginModule: b.OriginModule,
					OriginSymbol: b.OriginSymbol,
					IsRelative:   b.IsRelative,
					Line:         b.Location.Line,
				})
			}
			for _, c := range res.Conflicts {
				jf.Conflicts = append(jf.Conflicts, jsonConflict{
					LocalName:  c.LocalName,
					FirstLine:  c.First.Line,
					SecondLine: c.Second.Line,
				})
			}
		}

		doc.Files = append(doc.Files, jf)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}
