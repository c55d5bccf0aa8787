// # internal/resolver/resolver_test.go
package resolver

import (
	"testing"

	"metascan/internal/parser"
)

func TestResolveAliasWins(t *testing.T) {
	file := &parser.File{
		Imports: []parser.ImportRecord{
			{Module: "math_utils", Symbol: "pow", Alias: "power", Location: parser.Location{Line: 2}},
			{Module: "json", Location: parser.Location{Line: 1}},
		},
	}

	res := Resolve(file)

	if len(res.Order) != 2 {
		t.Fatalf("Expected 2 bindings, got %d", len(res.Order))
	}

	power, ok := res.Bindings["power"]
	if !ok {
		t.Fatal("Expected binding under the alias, not the symbol")
	}
	if power.OriginModule != "math_utils" || power.OriginSymbol != "pow" {
		t.Errorf("Unexpected origin %+v", power)
	}
	if _, ok := res.Bindings["pow"]; ok {
		t.Error("Original symbol name must not be bound when aliased")
	}

	if _, ok := res.Bindings["json"]; !ok {
		t.Error("Whole-module import should bind the module name")
	}
}

func TestResolveRelativePreserved(t *testing.T) {
	file := &parser.File{
		Imports: []parser.ImportRecord{
			{Module: ".local_module", Symbol: "helper", IsRelative: true, Location: parser.Location{Line: 3}},
		},
	}

	res := Resolve(file)

	b, ok := res.Bindings["helper"]
	if !ok {
		t.Fatal("Expected helper binding")
	}
	if b.OriginModule != ".local_module" {
		t.Errorf("Leading dots must be preserved, got %q", b.OriginModule)
	}
	if !b.IsRelative {
		t.Error("Binding should be marked relative")
	}
}

func TestResolveConflictFirstWins(t *testing.T) {
	file := &parser.File{
		Imports: []parser.ImportRecord{
			{Module: "alpha", Symbol: "thing", Location: parser.Location{Line: 1}},
			{Module: "beta", Symbol: "thing", Location: parser.Location{Line: 5}},
		},
	}

	res := Resolve(file)

	if len(res.Conflicts) != 1 {
		t.Fatalf("Expected 1 conflict, got %d", len(res.Conflicts))
	}
	c := res.Conflicts[0]
	if c.LocalName != "thing" || c.First.Line != 1 || c.Second.Line != 5 {
		t.Errorf("Unexpected conflict %+v", c)
	}

	b := res.Bindings["thing"]
	if b.OriginModule != "alpha" {
		t.Errorf("First binding must survive, got origin %q", b.OriginModule)
	}
	if len(res.Order) != 1 {
		t.Errorf("Conflicting binding must not extend the order, got %v", res.Order)
	}
}

func TestResolveWildcardSeparated(t *testing.T) {
	file := &parser.File{
		Imports: []parser.ImportRecord{
			{Module: "os", IsWildcard: true, Location: parser.Location{Line: 1}},
			{Module: "sys", Location: parser.Location{Line: 2}},
		},
	}

	res := Resolve(file)

	if len(res.Wildcards) != 1 || res.Wildcards[0].Module != "os" {
		t.Errorf("Wildcard imports must be carried separately: %v", res.Wildcards)
	}
	if len(res.Bindings) != 1 {
		t.Errorf("Wildcard must not produce a binding, got %v", res.Bindings)
	}
}

func TestLocalName(t *testing.T) {
	cases := []struct {
		record parser.ImportRecord
		want   string
	}{
		{parser.ImportRecord{Module: "json"}, "json"},
		{parser.ImportRecord{Module: "os.path"}, "os"},
		{parser.ImportRecord{Module: "numpy", Alias: "np"}, "np"},
		{parser.ImportRecord{Module: "math_utils", Symbol: "sqrt"}, "sqrt"},
		{parser.ImportRecord{Module: "std::fmt"}, "fmt"},
		{parser.ImportRecord{Module: "github.com/pkg/errors"}, "errors"},
		{parser.ImportRecord{Module: "..pkg", Symbol: "thing"}, "thing"},
	}

	for _, c := range cases {
		if got := LocalName(c.record); got != c.want {
			t.Errorf("LocalName(%+v) = %q, want %q", c.record, got, c.want)
		}
	}
}
