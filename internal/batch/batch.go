// Package batch describes many files in parallel, writing one document per
// file.
package batch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/dusk-indust/parsedescribe/internal/analysis"
	"github.com/dusk-indust/parsedescribe/internal/diag"
	"github.com/dusk-indust/parsedescribe/internal/engine"
	"golang.org/x/sync/errgroup"
)

// Job is one file to describe.
type Job struct {
	Path     string
	Language engine.Language
	Output   string
}

// Result holds the outcome of a single Job.
type Result struct {
	Job

	// Failed is true when the parse was rejected. The document is still
	// written and carries the diagnostics.
	Failed bool

	// Messages is the number of diagnostics in the document.
	Messages int

	// Err is non-nil if the file could not be read or its document could not
	// be written.
	Err error
}

// Runner describes jobs in parallel. The first I/O failure cancels the
// derived context so that jobs not yet started are skipped.
type Runner struct {
	analyzer   *analysis.Analyzer
	workers    int
	onProgress func(ProgressEvent)
}

// NewRunner creates a Runner. workers <= 0 means GOMAXPROCS. onProgress is
// called synchronously from each goroutine; it may be nil.
func NewRunner(a *analysis.Analyzer, workers int, onProgress func(ProgressEvent)) *Runner {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Runner{analyzer: a, workers: workers, onProgress: onProgress}
}

// Run describes every job. All results are returned regardless of whether
// an error occurred; the error is the first one from the group.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))
	for i, job := range jobs {
		results[i].Job = job
		r.emit(ProgressEvent{Path: job.Path, Status: ProgressPending})
	}
	if len(jobs) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(r.workers, len(jobs)))

	for i := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return err
			}

			r.emit(ProgressEvent{Path: jobs[i].Path, Status: ProgressWorking})
			if err := r.describe(gctx, &results[i]); err != nil {
				results[i].Err = err
				r.emit(ProgressEvent{Path: jobs[i].Path, Status: ProgressFailed, Message: err.Error()})
				return err
			}

			if results[i].Failed {
				r.emit(ProgressEvent{
					Path:    jobs[i].Path,
					Status:  ProgressRejected,
					Message: fmt.Sprintf("%d diagnostics", results[i].Messages),
				})
			} else {
				r.emit(ProgressEvent{Path: jobs[i].Path, Status: ProgressComplete})
			}
			return nil
		})
	}

	err := g.Wait()
	return results, err
}

func (r *Runner) describe(ctx context.Context, res *Result) (err error) {
	defer func() {
		if p := recover(); p != nil {
			var abort *diag.AbortError
			if e, ok := p.(error); ok && errors.As(e, &abort) {
				err = fmt.Errorf("%s: %w", res.Path, abort)
				return
			}
			panic(p)
		}
	}()

	src, err := os.ReadFile(res.Path)
	if err != nil {
		return fmt.Errorf("read %s: %w", res.Path, err)
	}

	out, err := r.analyzer.Analyze(ctx, res.Language, src)
	if err != nil {
		return fmt.Errorf("%s: %w", res.Path, err)
	}
	defer out.Close()

	res.Failed = out.Failed()
	res.Messages = len(out.Messages)

	if err := os.MkdirAll(filepath.Dir(res.Output), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(res.Output)
	if err != nil {
		return fmt.Errorf("create %s: %w", res.Output, err)
	}
	bw := bufio.NewWriter(f)
	if err := analysis.Write(out, res.Language, bw); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", res.Output, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", res.Output, err)
	}
	return f.Close()
}

// emit sends a progress event if a callback is registered.
func (r *Runner) emit(ev ProgressEvent) {
	if r.onProgress != nil {
		r.onProgress(ev)
	}
}
