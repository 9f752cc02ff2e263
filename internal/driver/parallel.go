package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"trivia/internal/diag"
	"trivia/internal/source"
	"trivia/internal/trace"
)

// ScanOptions configures ScanPaths.
type ScanOptions struct {
	Request ScanRequest
	// Extensions filter files found by walking directories; explicitly
	// named files are always scanned.
	Extensions []string
	Jobs       int
	Cache      *DiskCache
	Progress   ProgressSink
}

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
}

// ListFiles expands paths into a sorted, de-duplicated file list.
func ListFiles(paths, exts []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if path != root && (skipDirs[name] || (strings.HasPrefix(name, ".") && name != ".")) {
					return filepath.SkipDir
				}
				return nil
			}
			if len(exts) == 0 || slices.Contains(exts, strings.ToLower(filepath.Ext(path))) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ScanPaths scans files and directories in parallel. Results are ordered by
// path regardless of completion order. Per-file read failures become
// IOReadFailed diagnostics; only cancellation and listing errors are returned.
func ScanPaths(ctx context.Context, paths []string, opts ScanOptions) (*ScanResult, error) {
	started := time.Now()
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "scan", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)

	files, err := ListFiles(paths, opts.Extensions)
	if err != nil {
		trace.Error(tracer, trace.ScopePass, "list", err, span.ID())
		span.End("list failed")
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	// Загружаем файлы последовательно; дальше FileSet только читается
	fileSet := source.NewFileSet()
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make(map[int]error)
	for i, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[i] = err
			fileID = fileSet.Add(path, nil, source.FileVirtual)
		}
		fileIDs[i] = fileID
		emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индекс i уникален для каждой горутины, мьютекс не нужен
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fileStarted := time.Now()
			file := fileSet.Get(fileIDs[i])

			if loadErr, failed := loadErrors[i]; failed {
				bag := diag.NewBag(opts.Request.MaxDiagnostics)
				diag.ReportError(diag.BagReporter{Bag: bag}, diag.IOReadFailed, source.Span{File: file.ID},
					"failed to read file: "+loadErr.Error()).Emit()
				results[i] = FileResult{Path: file.Path, FileID: file.ID, Bag: bag}
				trace.Error(tracer, trace.ScopeFile, "read:"+file.Path, loadErr, span.ID())
				emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusError, Err: loadErr, Elapsed: time.Since(fileStarted)})
				return nil
			}

			results[i] = *scanOne(gctx, file, opts, path)
			emit(opts.Progress, Event{File: path, Stage: StageScan, Status: StatusDone, Elapsed: time.Since(fileStarted)})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.End("cancelled")
		return &ScanResult{FileSet: fileSet, Files: results, Elapsed: time.Since(started)}, err
	}

	span.WithExtra("files", fmt.Sprint(len(files))).End("")
	return &ScanResult{FileSet: fileSet, Files: results, Elapsed: time.Since(started)}, nil
}

func scanOne(ctx context.Context, file *source.File, opts ScanOptions, displayPath string) *FileResult {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "file:"+file.Path, trace.CurrentSpan(ctx))
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)

	if opts.Cache == nil {
		emit(opts.Progress, Event{File: displayPath, Stage: StageScan, Status: StatusWorking})
		return ScanText(ctx, file, opts.Request)
	}

	emit(opts.Progress, Event{File: displayPath, Stage: StageCache, Status: StatusWorking})
	key := CacheKey(file.Hash, opts.Request)
	var payload CachePayload
	hit, err := opts.Cache.Get(key, &payload)
	if err != nil {
		// битая запись: пересканируем и перезапишем
		trace.Error(tracer, trace.ScopeFile, "cache:get", err, span.ID())
	}
	if hit && payload.Size == file.Size() {
		span.WithExtra("cache", "hit")
		res := &FileResult{
			Path:    file.Path,
			FileID:  file.ID,
			Size:    payload.Size,
			Shebang: payload.Shebang,
			Queries: payload.Queries,
			Cached:  true,
		}
		res.Bag = diagnose(file, res, opts.Request)
		return res
	}

	emit(opts.Progress, Event{File: displayPath, Stage: StageScan, Status: StatusWorking})
	res := ScanText(ctx, file, opts.Request)
	if err := opts.Cache.Put(key, payloadFromResult(res)); err != nil && !errors.Is(err, context.Canceled) {
		trace.Error(tracer, trace.ScopeFile, "cache:put", err, span.ID())
	}
	span.WithExtra("cache", "miss")
	return res
}
