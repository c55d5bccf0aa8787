// # internal/report/tsv.go
package report

import (
	"fmt"
	"strings"
)

type TSVGenerator struct{}

func NewTSVGenerator() *TSVGenerator {
	return &TSVGenerator{}
}

func (t *TSVGenerator) Generate(data Data) (string, error) {
	var buf strings.Builder

	buf.WriteString("File\tLanguage\tFunction\tDecorators\tParams\tReturnType\tLine\n")
	for _, file := range data.Files {
		for _, fn := range file.Functions {
			buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%s\t%d\t%s\t%d\n",
				file.Path,
				file.Language,
				fn.QualifiedName(),
				strings.Join(fn.DecoratorNames(), ","),
				len(fn.Params),
				fn.ReturnType,
				fn.Location.Line,
			))
		}
	}

	return buf.String(), nil
}

func (t *TSVGenerator) GenerateBindings(data Data) (string, error) {
	var buf strings.Builder

	buf.WriteString("File\tLocalName\tOriginModule\tOriginSymbol\tRelative\tLine\n")
	for _, file := range data.Files {
		if file.Resolution == nil {
			continue
		}
		for _, local := range file.Resolution.Order {
			b := file.Resolution.Bindings[local]
			buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%s\t%t\t%d\n",
				file.Path,
				b.LocalName,
				b.OriginModule,
				b.OriginSymbol,
				b.IsRelative,
				b.Location.Line,
			))
		}
	}

	return buf.String(), nil
}
