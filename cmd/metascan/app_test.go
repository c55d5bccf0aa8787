// # cmd/metascan/app_test.go
package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"metascan/internal/config"
)

const pythonSample = `import json
from math_utils import pow as power

@retry(times=3)
@log_call
def fetch(key: str) -> str:
    """Fetch a record."""
    return json.dumps(key)

def helper():
    pass
`

func TestApp(t *testing.T) {
	tmpDir, _ := os.MkdirTemp("", "apptest")
	defer os.RemoveAll(tmpDir)

	os.WriteFile(filepath.Join(tmpDir, "service.py"), []byte(pythonSample), 0644)
	os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("not source"), 0644)

	cfg := &config.Config{
		ScanPaths: []string{tmpDir},
		Output: config.Output{
			JSON: filepath.Join(tmpDir, "records.json"),
			TSV:  filepath.Join(tmpDir, "functions.tsv"),
		},
	}

	app, err := NewApp(cfg, "test")
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	// Test InitialScan
	err = app.InitialScan(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	data := app.BuildReport()
	if len(data.Files) != 1 {
		t.Fatalf("Expected 1 file, got %d", len(data.Files))
	}
	if data.FunctionCount() != 2 {
		t.Errorf("Expected 2 functions, got %d", data.FunctionCount())
	}
	if data.DecoratedCount() != 1 {
		t.Errorf("Expected 1 decorated function, got %d", data.DecoratedCount())
	}

	// Test GenerateOutputs
	err = app.GenerateOutputs()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(cfg.Output.JSON); os.IsNotExist(err) {
		t.Error("JSON file was not generated")
	}
	tsvData, err := os.ReadFile(cfg.Output.TSV)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(tsvData), "retry,log_call") {
		t.Errorf("TSV missing decorator list:\n%s", tsvData)
	}
	if !strings.Contains(string(tsvData), "power\tmath_utils\tpow") {
		t.Errorf("TSV missing aliased binding row:\n%s", tsvData)
	}

	// Test HandleChanges
	app.HandleChanges(context.Background(), []string{filepath.Join(tmpDir, "service.py")})
	// Should not crash and should re-process
}

func TestApp_ParseErrorRejectsWholeFile(t *testing.T) {
	tmpDir, _ := os.MkdirTemp("", "appparseerr")
	defer os.RemoveAll(tmpDir)

	os.WriteFile(filepath.Join(tmpDir, "good.py"), []byte("def ok():\n    pass\n"), 0644)
	os.WriteFile(filepath.Join(tmpDir, "bad.py"), []byte("def broken(:\n    pass\n"), 0644)

	cfg := &config.Config{ScanPaths: []string{tmpDir}}
	app, err := NewApp(cfg, "test")
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	if err := app.InitialScan(context.Background()); err != nil {
		t.Fatal(err)
	}

	data := app.BuildReport()
	if len(data.Files) != 1 {
		t.Fatalf("expected only the valid file in the report, got %d", len(data.Files))
	}
	if filepath.Base(data.Files[0].Path) != "good.py" {
		t.Errorf("unexpected surviving file %s", data.Files[0].Path)
	}

	failures := app.failureList()
	if len(failures) != 1 {
		t.Fatalf("expected 1 parse failure, got %d", len(failures))
	}
	if !strings.Contains(failures[0], "bad.py") {
		t.Errorf("failure should name the file: %s", failures[0])
	}

	health := app.HealthStatus(context.Background())
	if health.FilesScanned != 1 || health.ParseFailures != 1 {
		t.Errorf("unexpected health status %+v", health)
	}
}

func TestApp_TrendReport(t *testing.T) {
	tmpDir, _ := os.MkdirTemp("", "apptrend")
	defer os.RemoveAll(tmpDir)

	os.WriteFile(filepath.Join(tmpDir, "service.py"), []byte(pythonSample), 0644)

	cfg := &config.Config{
		ScanPaths: []string{tmpDir},
		History:   config.History{Path: filepath.Join(tmpDir, "history.db")},
	}

	app, err := NewApp(cfg, "test")
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	if err := app.InitialScan(context.Background()); err != nil {
		t.Fatal(err)
	}
	app.BuildReport()
	app.RecordSnapshot()

	extra := filepath.Join(tmpDir, "extra.py")
	os.WriteFile(extra, []byte("def added():\n    pass\n"), 0644)
	if err := app.ProcessFile(context.Background(), extra); err != nil {
		t.Fatal(err)
	}
	app.BuildReport()
	app.RecordSnapshot()

	trend, err := app.TrendReport(time.Time{}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if trend.ScanCount != 2 {
		t.Fatalf("expected 2 trend points, got %d", trend.ScanCount)
	}
	last := trend.Points[1]
	if last.FunctionCount != 3 {
		t.Errorf("expected 3 functions in latest point, got %d", last.FunctionCount)
	}
	if last.DeltaFunctions != 1 {
		t.Errorf("expected delta of 1 function, got %d", last.DeltaFunctions)
	}
}

func TestApp_RecordSnapshot(t *testing.T) {
	tmpDir, _ := os.MkdirTemp("", "appsnap")
	defer os.RemoveAll(tmpDir)

	os.WriteFile(filepath.Join(tmpDir, "service.py"), []byte(pythonSample), 0644)

	cfg := &config.Config{
		ScanPaths: []string{tmpDir},
		History:   config.History{Path: filepath.Join(tmpDir, "history.db")},
	}

	app, err := NewApp(cfg, "test")
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	if err := app.InitialScan(context.Background()); err != nil {
		t.Fatal(err)
	}
	app.BuildReport()
	app.RecordSnapshot()

	snaps, err := app.store.LoadSnapshots(time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snaps))
	}
	if snaps[0].FunctionCount != 2 || snaps[0].DecoratedCount != 1 {
		t.Errorf("unexpected snapshot counts %+v", snaps[0])
	}
}
