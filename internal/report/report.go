// # internal/report/report.go
package report

import (
	"time"

	"metascan/internal/parser"
	"metascan/internal/resolver"
)

// Data is the material every generator renders: one entry per scanned file,
// in scan order.
type Data struct {
	RunID       string
	GeneratedAt time.Time
	Files       []FileReport
}

type FileReport struct {
	Path       string
	Language   string
	Functions  []parser.FunctionRecord
	Resolution *resolver.Resolution
}

func (d Data) FunctionCount() int {
	n := 0
	for _, f := range d.Files {
		n += len(f.Functions)
	}
	return n
}

func (d Data) DecoratedCount() int {
	n := 0
	for _, f := range d.Files {
		for _, fn := range f.Functions {
			if len(fn.Decorators) > 0 {
				n++
			}
		}
	}
	return n
}

func (d Data) BindingCount() int {
	n := 0
	for _, f := range d.Files {
		if f.Resolution != nil {
			n += len(f.Resolution.Order)
		}
	}
	return n
}

func (d Data) ConflictCount() int {
	n := 0
	for _, f := range d.Files {
		if f.Resolution != nil {
			n += len(f.Resolution.Conflicts)
		}
	}
	return n
}
