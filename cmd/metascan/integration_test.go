// # cmd/metascan/integration_test.go
package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metascan/internal/config"
)

func createProjectFiles(t *testing.T, tmpDir string) {
	pyService := `from storage import connect as open_db
from storage import connect
from .models import Record

@app.route("/records")
@cached(ttl=30)
def list_records(limit: int = 50) -> list:
    """List stored records."""
    return []
`
	err := os.WriteFile(filepath.Join(tmpDir, "service.py"), []byte(pyService), 0644)
	require.NoError(t, err)

	err = os.Mkdir(filepath.Join(tmpDir, "pkg"), 0755)
	require.NoError(t, err)

	goHelper := `package pkg

import "strconv"

// Format renders an id.
func Format(id int) string {
	return strconv.Itoa(id)
}
`
	err = os.WriteFile(filepath.Join(tmpDir, "pkg", "helper.go"), []byte(goHelper), 0644)
	require.NoError(t, err)
}

func TestFullPipelineIntegration(t *testing.T) {
	tmpDir := t.TempDir()
	createProjectFiles(t, tmpDir)

	cfg := &config.Config{
		ScanPaths: []string{tmpDir},
		Output: config.Output{
			JSON:     filepath.Join(tmpDir, "out", "records.json"),
			Markdown: filepath.Join(tmpDir, "out", "report.md"),
			TSV:      filepath.Join(tmpDir, "out", "functions.tsv"),
		},
		History: config.History{Path: filepath.Join(tmpDir, "out", "history.db")},
	}

	app, err := NewApp(cfg, "test")
	require.NoError(t, err)
	defer app.Close()

	ctx := context.Background()
	require.NoError(t, app.InitialScan(ctx))

	require.NoError(t, app.GenerateOutputs())
	app.RecordSnapshot()

	// JSON output carries every extracted record
	raw, err := os.ReadFile(cfg.Output.JSON)
	require.NoError(t, err)

	var doc struct {
		RunID string `json:"run_id"`
		Files []struct {
			Path      string `json:"path"`
			Language  string `json:"language"`
			Functions []struct {
				Name           string   `json:"name"`
				DecoratorNames []string `json:"decorator_names"`
				Docstring      string   `json:"docstring"`
				ReturnType     string   `json:"return_type"`
			} `json:"functions"`
			Bindings []struct {
				LocalName    string `json:"local_name"`
				OriginModule string `json:"origin_module"`
				IsRelative   bool   `json:"is_relative"`
			} `json:"bindings"`
			Conflicts []struct {
				LocalName string `json:"local_name"`
			} `json:"conflicts"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Len(t, doc.Files, 2)
	assert.NotEmpty(t, doc.RunID)

	var pyFile, goFile int = -1, -1
	for i, f := range doc.Files {
		switch f.Language {
		case "python":
			pyFile = i
		case "go":
			goFile = i
		}
	}
	require.GreaterOrEqual(t, pyFile, 0, "python file missing from report")
	require.GreaterOrEqual(t, goFile, 0, "go file missing from report")

	py := doc.Files[pyFile]
	require.Len(t, py.Functions, 1)
	assert.Equal(t, []string{"app.route", "cached"}, py.Functions[0].DecoratorNames)
	assert.Equal(t, "List stored records.", py.Functions[0].Docstring)
	assert.Equal(t, "list", py.Functions[0].ReturnType)

	locals := make(map[string]bool)
	for _, b := range py.Bindings {
		locals[b.LocalName] = true
	}
	assert.True(t, locals["open_db"])
	assert.True(t, locals["connect"])
	assert.True(t, locals["Record"])

	relative := false
	for _, b := range py.Bindings {
		if b.LocalName == "Record" {
			relative = b.IsRelative
			assert.Equal(t, ".models", b.OriginModule)
		}
	}
	assert.True(t, relative, "relative import should stay marked relative")

	gf := doc.Files[goFile]
	require.Len(t, gf.Functions, 1)
	assert.Equal(t, "Format", gf.Functions[0].Name)
	assert.Empty(t, gf.Functions[0].DecoratorNames)
	assert.Equal(t, "Format renders an id.", gf.Functions[0].Docstring)

	// markdown and tsv written alongside
	_, err = os.Stat(cfg.Output.Markdown)
	assert.NoError(t, err)
	_, err = os.Stat(cfg.Output.TSV)
	assert.NoError(t, err)

	// snapshot landed in the history store
	snaps, err := app.store.LoadSnapshots(time.Time{})
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, 2, snaps[0].FileCount)
	assert.Equal(t, 2, snaps[0].FunctionCount)
	assert.Equal(t, 1, snaps[0].DecoratedCount)
}
