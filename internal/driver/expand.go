package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"fnqual/internal/diag"
	"fnqual/internal/expand"
	"fnqual/internal/fix"
	"fnqual/internal/observ"
	"fnqual/internal/source"
	"fnqual/internal/trace"
)

// DefaultExtensions are the file suffixes ExpandDir picks up when Options
// leaves Extensions empty.
var DefaultExtensions = []string{".fq"}

// Options configures ExpandFile and ExpandDir.
type Options struct {
	Expand expand.Options
	// Extensions filters the files of a directory walk.
	Extensions []string
	// Jobs bounds how many files expand at once; <= 0 means GOMAXPROCS.
	Jobs int
	// Cache is optional; nil disables caching.
	Cache *DiskCache
	// Write replaces changed files on disk.
	Write bool

	Progress      ProgressSink
	PhaseObserver PhaseObserver
}

func (o Options) annotation() string {
	if o.Expand.Annotation == "" {
		return expand.DefaultAnnotation
	}
	return o.Expand.Annotation
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions
	}
	return o.Extensions
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path string
	// File is nil when the file could not be loaded.
	File *source.File
	// Expansion is nil for cache hits and load failures.
	Expansion *expand.Result
	Bag       *diag.Bag
	Output    []byte
	Expanded  int
	Failed    int
	Changed   bool
	Cached    bool
	Written   bool
	Timer     *observ.Timer
	// Err is set when processing was interrupted (cancellation, edit conflict).
	Err error
}

// Result is the outcome of ExpandFile or ExpandDir.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// Diagnostics returns the diagnostics of every file, sorted.
func (r *Result) Diagnostics() []diag.Diagnostic {
	if r == nil {
		return nil
	}
	all := diag.NewBag(0)
	for i := range r.Files {
		all.Merge(r.Files[i].Bag)
	}
	all.Sort()
	return all.Items()
}

// HasErrors reports whether any file produced an error diagnostic.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	for i := range r.Files {
		if r.Files[i].Bag.HasErrors() || r.Files[i].Err != nil {
			return true
		}
	}
	return false
}

// Totals sums expanded and failed sites and counts changed files.
func (r *Result) Totals() (expanded, failed, changed int) {
	if r == nil {
		return 0, 0, 0
	}
	for i := range r.Files {
		fr := &r.Files[i]
		expanded += fr.Expanded
		failed += fr.Failed
		if fr.Changed {
			changed++
		}
	}
	return expanded, failed, changed
}

// ExpandFile expands the annotations of a single file.
func ExpandFile(ctx context.Context, path string, opts Options) (*Result, error) {
	fileSet := source.NewFileSetWithBase(filepath.Dir(path))
	fileID, err := fileSet.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "expand-file")

	emitQueued(opts.Progress, []string{path})
	res := &Result{FileSet: fileSet, Files: make([]FileResult, 1)}
	res.Files[0] = expandOne(ctx, fileSet.Get(fileID), path, opts)
	span.End("")
	return res, res.Files[0].Err
}

// ExpandDir expands every matching file under dir in parallel. Files that
// cannot be read get an IO diagnostic; the walk itself failing is an error.
func ExpandDir(ctx context.Context, dir string, opts Options) (*Result, error) {
	files, err := listFiles(dir, opts.extensions())
	if err != nil {
		return nil, err
	}

	fileSet := source.NewFileSetWithBase(dir)
	res := &Result{FileSet: fileSet, Files: make([]FileResult, len(files))}
	if len(files) == 0 {
		return res, nil
	}

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "expand-dir")
	span.WithExtra("files", fmt.Sprint(len(files)))

	// FileSet не потокобезопасен: загружаем всё до запуска воркеров
	loaded := make([]*source.File, len(files))
	loadErrors := make(map[int]error)
	for i, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[i] = err
			continue
		}
		loaded[i] = fileSet.Get(fileID)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	emitQueued(opts.Progress, files)

	// индексы уникальны для каждой горутины, мьютекс не нужен
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if loadErr, failed := loadErrors[i]; failed {
				res.Files[i] = loadFailure(path, loadErr, opts)
				return nil
			}
			res.Files[i] = expandOne(gctx, loaded[i], path, opts)
			return res.Files[i].Err
		})
	}
	err = g.Wait()

	expanded, failed, changed := res.Totals()
	span.WithExtra("expanded", fmt.Sprint(expanded)).
		WithExtra("failed", fmt.Sprint(failed)).
		WithExtra("changed", fmt.Sprint(changed))
	status := StatusDone
	if err != nil || res.HasErrors() {
		status = StatusError
	}
	emit(opts.Progress, Event{Stage: StageExpand, Status: status, Err: err})
	if err != nil {
		span.End(err.Error())
		return res, err
	}
	span.End("")
	return res, nil
}

func loadFailure(path string, err error, opts Options) FileResult {
	bag := diag.NewBag(opts.Expand.MaxDiagnostics)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.NoSpan, "failed to load "+path+": "+err.Error()))
	emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
	return FileResult{Path: path, Bag: bag}
}

// expandOne runs one loaded file through cache lookup, expansion and the
// optional write-back.
func expandOne(ctx context.Context, file *source.File, path string, opts Options) FileResult {
	fr := FileResult{
		Path:   path,
		File:   file,
		Bag:    diag.NewBag(opts.Expand.MaxDiagnostics),
		Output: file.Content,
	}
	pt := newPhaseTimer(path, opts.PhaseObserver)
	fr.Timer = pt.timer

	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+path)
	emit(opts.Progress, Event{File: path, Stage: StageExpand, Status: StatusWorking})

	key := CacheKey(file.Hash, opts.annotation())
	if opts.Cache != nil {
		idx := pt.Begin("cache")
		var payload CachePayload
		hit, err := opts.Cache.Get(key, &payload)
		switch {
		case err != nil:
			fr.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{File: file.ID}, "cache read failed: "+err.Error()))
			pt.End(idx, "cache", "error")
		case hit:
			trace.Point(trace.FromContext(ctx), trace.ScopeFile, "cache-hit", span.ID(), path)
			fr.Output = payload.Output
			fr.Expanded = payload.Expanded
			fr.Changed = payload.Changed
			fr.Cached = true
			pt.End(idx, "cache", "hit")
		default:
			pt.End(idx, "cache", "miss")
		}
	}

	if !fr.Cached {
		idx := pt.Begin("expand")
		r, err := expand.File(ctx, file, opts.Expand)
		pt.End(idx, "expand", fmt.Sprintf("%d sites", len(r.Sites)))
		fr.Expansion = r
		fr.Bag.Merge(r.Diags)
		if err != nil {
			fr.Err = err
			span.End(err.Error())
			emit(opts.Progress, Event{File: path, Stage: StageExpand, Status: StatusError, Err: err})
			return fr
		}
		fr.Output = r.Output
		fr.Expanded = r.Expanded()
		fr.Failed = r.Failed()
		fr.Changed = r.Changed()
		if opts.Cache != nil && r.Diags.Len() == 0 {
			payload := &CachePayload{Path: path, Output: r.Output, Expanded: fr.Expanded, Changed: fr.Changed}
			if err := opts.Cache.Put(key, payload); err != nil {
				fr.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{File: file.ID}, "cache write failed: "+err.Error()))
			}
		}
	}

	if opts.Write && fr.Changed {
		idx := pt.Begin("write")
		emit(opts.Progress, Event{File: path, Stage: StageWrite, Status: StatusWorking})
		if err := fix.WriteFile(path, file.RestoreLayout(fr.Output)); err != nil {
			fr.Bag.Add(diag.NewError(diag.IOWriteFileError, source.Span{File: file.ID}, err.Error()))
			pt.End(idx, "write", "error")
		} else {
			fr.Written = true
			pt.End(idx, "write", "")
		}
	}

	span.WithExtra("expanded", fmt.Sprint(fr.Expanded)).
		WithExtra("failed", fmt.Sprint(fr.Failed)).
		WithExtra("cached", fmt.Sprint(fr.Cached))
	span.End("")

	status := StatusDone
	if fr.Bag.HasErrors() {
		status = StatusError
	}
	emit(opts.Progress, Event{File: path, Stage: StageExpand, Status: status, Cached: fr.Cached})
	return fr
}

// ListFiles returns the files ExpandDir would visit with opts.
func ListFiles(dir string, opts Options) ([]string, error) {
	return listFiles(dir, opts.extensions())
}

// listFiles returns the sorted list of files under dir that end with one of
// exts. Hidden directories are skipped.
func listFiles(dir string, exts []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		for _, ext := range exts {
			if strings.HasSuffix(path, ext) {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}
