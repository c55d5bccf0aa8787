// # cmd/metascan/app.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gobwas/glob"
	"github.com/google/uuid"

	"metascan/internal/config"
	"metascan/internal/history"
	"metascan/internal/parser"
	"metascan/internal/report"
	"metascan/internal/resolver"
	"metascan/internal/shared/observability"
	"metascan/internal/shared/util"
	"metascan/internal/watcher"
)

type App struct {
	Config  *config.Config
	Parser  *parser.Parser
	version string

	mu       sync.Mutex
	results  map[string]*fileResult
	failures map[string]string // path -> parse error text
	lastScan time.Time
	lastRun  report.Data

	store      *history.Store
	teaProgram *tea.Program
}

type fileResult struct {
	file       *parser.File
	resolution *resolver.Resolution
}

func NewApp(cfg *config.Config, version string) (*App, error) {
	p := parser.NewParser(parser.NewGrammarLoader())
	p.RegisterDefaults()

	a := &App{
		Config:   cfg,
		Parser:   p,
		version:  version,
		results:  make(map[string]*fileResult),
		failures: make(map[string]string),
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		a.store = store
	}

	return a, nil
}

func (a *App) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			slog.Warn("failed to close history store", "error", err)
		}
	}
}

func (a *App) InitialScan(ctx context.Context) error {
	ctx, span := observability.Tracer.Start(ctx, "app.InitialScan")
	defer span.End()

	start := time.Now()
	files, err := a.ScanDirectories(a.Config.ScanPaths, a.Config.Exclude.Dirs, a.Config.Exclude.Files)
	if err != nil {
		return err
	}

	for _, filePath := range files {
		if err := a.ProcessFile(ctx, filePath); err != nil {
			slog.Warn("failed to process file", "path", filePath, "error", err)
		}
	}

	a.mu.Lock()
	a.lastScan = time.Now().UTC()
	a.mu.Unlock()

	observability.ScanDuration.Observe(time.Since(start).Seconds())
	return nil
}

func (a *App) ScanDirectories(paths []string, excludeDirs, excludeFiles []string) ([]string, error) {
	var files []string

	dirGlobs := make([]glob.Glob, 0, len(excludeDirs))
	for _, p := range excludeDirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		dirGlobs = append(dirGlobs, g)
	}

	fileGlobs := make([]glob.Glob, 0, len(excludeFiles))
	for _, p := range excludeFiles {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
		fileGlobs = append(fileGlobs, g)
	}

	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			base := filepath.Base(path)

			if d.IsDir() {
				for _, g := range dirGlobs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				return nil
			}

			if !a.Parser.Supports(path) {
				return nil
			}

			for _, g := range fileGlobs {
				if g.Match(base) {
					return nil
				}
			}

			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// ProcessFile parses one file and resolves its import bindings. A syntax
// error rejects the whole file; previous results for the path are dropped so
// stale records never outlive the source that produced them.
func (a *App) ProcessFile(ctx context.Context, path string) error {
	_, span := observability.Tracer.Start(ctx, "app.ProcessFile")
	defer span.End()

	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	start := time.Now()
	file, err := a.Parser.ParseFile(path, content)
	if err != nil {
		a.mu.Lock()
		delete(a.results, path)
		a.failures[path] = err.Error()
		a.mu.Unlock()

		var parseErr *parser.ParseError
		if errors.As(err, &parseErr) {
			observability.ParseErrors.WithLabelValues(languageForPath(path)).Inc()
		}
		return err
	}
	observability.ParsingDuration.WithLabelValues(file.Language).Observe(time.Since(start).Seconds())

	res := resolver.Resolve(file)

	observability.FunctionsExtracted.WithLabelValues(file.Language).Add(float64(len(file.Functions)))
	decorated := 0
	for _, fn := range file.Functions {
		if len(fn.Decorators) > 0 {
			decorated++
		}
	}
	observability.DecoratedFunctions.WithLabelValues(file.Language).Add(float64(decorated))
	observability.ImportBindings.WithLabelValues(file.Language).Add(float64(len(res.Order)))
	observability.BindingConflicts.Add(float64(len(res.Conflicts)))

	a.mu.Lock()
	a.results[path] = &fileResult{file: file, resolution: res}
	delete(a.failures, path)
	a.mu.Unlock()
	return nil
}

func (a *App) HandleChanges(ctx context.Context, paths []string) {
	slog.Info("detected changes", "count", len(paths))
	start := time.Now()

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			a.mu.Lock()
			delete(a.results, path)
			delete(a.failures, path)
			a.mu.Unlock()
			continue
		}

		if err := a.ProcessFile(ctx, path); err != nil {
			slog.Warn("failed to re-process file", "path", path, "error", err)
		}
	}

	a.mu.Lock()
	a.lastScan = time.Now().UTC()
	a.mu.Unlock()

	if err := a.GenerateOutputs(); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}
	a.RecordSnapshot()

	slog.Debug("rescan complete", "files", len(paths), "duration", time.Since(start))
	a.PrintSummary()

	if a.teaProgram != nil {
		data := a.lastReport()
		a.teaProgram.Send(updateMsg{data: data, failures: a.failureList()})
	}
}

// BuildReport assembles the report snapshot for the current results, files
// sorted by path so output is stable across runs.
func (a *App) BuildReport() report.Data {
	a.mu.Lock()
	defer a.mu.Unlock()

	data := report.Data{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Files:       make([]report.FileReport, 0, len(a.results)),
	}

	for _, path := range util.SortedStringKeys(a.results) {
		r := a.results[path]
		data.Files = append(data.Files, report.FileReport{
			Path:       path,
			Language:   r.file.Language,
			Functions:  r.file.Functions,
			Resolution: r.resolution,
		})
	}

	a.lastRun = data
	return data
}

func (a *App) lastReport() report.Data {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastRun
}

func (a *App) failureList() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]string, 0, len(a.failures))
	for _, path := range util.SortedStringKeys(a.failures) {
		out = append(out, a.failures[path])
	}
	return out
}

func (a *App) GenerateOutputs() error {
	data := a.BuildReport()

	if a.Config.Output.JSON != "" {
		out, err := report.NewJSONGenerator().Generate(data)
		if err != nil {
			return err
		}
		if err := util.WriteStringWithDirs(a.Config.Output.JSON, out, 0644); err != nil {
			return err
		}
	}

	if a.Config.Output.Markdown != "" {
		out, err := report.NewMarkdownGenerator().Generate(data, report.MarkdownOptions{
			ProjectName: projectName(a.Config.ScanPaths),
			Version:     a.version,
		})
		if err != nil {
			return err
		}
		if err := util.WriteStringWithDirs(a.Config.Output.Markdown, out, 0644); err != nil {
			return err
		}
	}

	if a.Config.Output.TSV != "" {
		gen := report.NewTSVGenerator()
		functionsTSV, err := gen.Generate(data)
		if err != nil {
			return err
		}
		tsv := functionsTSV

		if data.BindingCount() > 0 {
			bindingsTSV, err := gen.GenerateBindings(data)
			if err != nil {
				return err
			}
			tsv = strings.TrimRight(functionsTSV, "\n") + "\n\n" + strings.TrimRight(bindingsTSV, "\n") + "\n"
		}

		if err := util.WriteStringWithDirs(a.Config.Output.TSV, tsv, 0644); err != nil {
			return err
		}
	}

	return nil
}

func (a *App) RecordSnapshot() {
	if a.store == nil {
		return
	}

	data := a.lastReport()
	if data.RunID == "" {
		data = a.BuildReport()
	}

	commitHash, commitTS := history.ResolveGitMetadata(projectRoot(a.Config.ScanPaths))
	snap := history.Snapshot{
		RunID:           data.RunID,
		Timestamp:       data.GeneratedAt,
		CommitHash:      commitHash,
		CommitTimestamp: commitTS,
		FileCount:       len(data.Files),
		FunctionCount:   data.FunctionCount(),
		DecoratedCount:  data.DecoratedCount(),
		BindingCount:    data.BindingCount(),
		ConflictCount:   data.ConflictCount(),
		ParseErrorCount: len(a.failureList()),
	}
	if err := a.store.SaveSnapshot(snap); err != nil {
		slog.Warn("failed to record history snapshot", "error", err)
	}
}

// TrendReport builds the per-run trend series from recorded snapshots.
func (a *App) TrendReport(since time.Time, window time.Duration) (history.TrendReport, error) {
	if a.store == nil {
		return history.TrendReport{}, fmt.Errorf("history store not configured")
	}

	snapshots, err := a.store.LoadSnapshots(since)
	if err != nil {
		return history.TrendReport{}, fmt.Errorf("load history snapshots: %w", err)
	}

	return history.BuildTrendReport(snapshots, window)
}

func (a *App) PrintTrends(window time.Duration) error {
	trend, err := a.TrendReport(time.Time{}, window)
	if err != nil {
		return err
	}

	fmt.Printf("History: %d snapshots from %s to %s\n",
		trend.ScanCount,
		trend.Since.Format("2006-01-02 15:04:05"),
		trend.Until.Format("2006-01-02 15:04:05"))

	out, err := report.RenderTrendTSV(trend)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}

func (a *App) PrintSummary() {
	data := a.lastReport()
	failures := a.failureList()

	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Scan: %d files, %d functions (%d decorated)\n",
		len(data.Files), data.FunctionCount(), data.DecoratedCount())
	fmt.Printf("Imports: %d bindings\n", data.BindingCount())

	conflicts := 0
	for _, f := range data.Files {
		if f.Resolution == nil {
			continue
		}
		for _, c := range f.Resolution.Conflicts {
			if conflicts == 0 {
				fmt.Printf("⚠️  FOUND %d DUPLICATE IMPORT NAMES:\n", data.ConflictCount())
			}
			conflicts++
			fmt.Printf("   %s in %s (lines %d and %d)\n", c.LocalName, f.Path, c.First.Line, c.Second.Line)
		}
	}
	if conflicts == 0 {
		fmt.Println("✅ No duplicate import names found.")
	}

	if len(failures) > 0 {
		fmt.Printf("❌ %d FILES FAILED TO PARSE:\n", len(failures))
		for _, f := range failures {
			fmt.Printf("   %s\n", f)
		}
	} else {
		fmt.Println("✅ All files parsed cleanly.")
	}
	fmt.Println(strings.Repeat("-", 40))
}

func (a *App) HealthStatus(ctx context.Context) observability.HealthStatus {
	a.mu.Lock()
	defer a.mu.Unlock()

	return observability.HealthStatus{
		Status:        "up",
		LastScan:      a.lastScan,
		FilesScanned:  len(a.results),
		ParseFailures: len(a.failures),
	}
}

func (a *App) StartWatcher(ctx context.Context) error {
	w, err := watcher.NewWatcher(watcher.Options{
		Debounce:     a.Config.Watch.Debounce,
		ExcludeDirs:  a.Config.Exclude.Dirs,
		ExcludeFiles: a.Config.Exclude.Files,
		SourceFile:   a.Parser.Supports,
		Limiter:      util.NewLimiter(a.Config.Watch.RescansPerSecond, a.Config.Watch.RescanBurst),
	}, func(paths []string) {
		observability.WatcherEventsTotal.Inc()
		a.HandleChanges(ctx, paths)
	})
	if err != nil {
		return err
	}
	// Note: We don't close here, it should run forever
	return w.Watch(a.Config.ScanPaths)
}

func (a *App) RunUI() error {
	m := initialModel()
	p := tea.NewProgram(m, tea.WithAltScreen())
	a.teaProgram = p

	go func() {
		a.teaProgram.Send(updateMsg{data: a.lastReport(), failures: a.failureList()})
	}()

	_, err := p.Run()
	return err
}

func languageForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
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
		return "unknown"
	}
}

func projectName(scanPaths []string) string {
	root := projectRoot(scanPaths)
	abs, err := filepath.Abs(root)
	if err != nil {
		return filepath.Base(root)
	}
	return filepath.Base(abs)
}

func projectRoot(scanPaths []string) string {
	if len(scanPaths) == 0 {
		return "."
	}
	return scanPaths[0]
}
