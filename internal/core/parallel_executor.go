package core

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/types"
)

// CheckerRun is the outcome of one checker.
type CheckerRun struct {
	Checker plugins.Checker
	Result  *types.CheckerResult
	Error   error
}

// ParallelExecutor runs checkers concurrently. Most checkers shell out to
// an external comparison tool, so they are run side by side.
type ParallelExecutor struct {
	maxWorkers int
}

// NewParallelExecutor creates an executor with at most maxWorkers workers
// (NumCPU when zero, capped at 8).
func NewParallelExecutor(maxWorkers int) *ParallelExecutor {
	workers := maxWorkers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	if workers > 8 {
		workers = 8
	}
	return &ParallelExecutor{maxWorkers: workers}
}

type checkerJob struct {
	index   int
	checker plugins.Checker
}

// RunCheckers runs every checker against req. Results come back in the
// order of checkers regardless of completion order. A failed checker is
// reported through its CheckerRun, never as an error of the batch.
func (p *ParallelExecutor) RunCheckers(ctx context.Context, checkers []plugins.Checker, req func(name string) plugins.CheckRequest, progress ProgressTracker) []CheckerRun {
	if len(checkers) == 0 {
		return nil
	}

	workerCount := p.maxWorkers
	if workerCount > len(checkers) {
		workerCount = len(checkers)
	}

	jobs := make(chan checkerJob, len(checkers))
	runs := make([]CheckerRun, len(checkers))

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go p.checkerWorker(ctx, &wg, jobs, runs, req, progress)
	}

	for i, c := range checkers {
		jobs <- checkerJob{index: i, checker: c}
	}
	close(jobs)
	wg.Wait()

	return runs
}

// checkerWorker runs checkers from jobs. Each job owns its slot in runs.
func (p *ParallelExecutor) checkerWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan checkerJob,
	runs []CheckerRun,
	req func(name string) plugins.CheckRequest,
	progress ProgressTracker,
) {
	defer wg.Done()

	for job := range jobs {
		run := CheckerRun{Checker: job.checker}
		if ctx.Err() != nil {
			run.Error = ctx.Err()
			runs[job.index] = run
			continue
		}

		res, err := runChecker(ctx, job.checker, req(job.checker.Name()))
		run.Result, run.Error = res, err
		runs[job.index] = run
		if progress != nil {
			progress.Increment(job.checker.Name())
		}
	}
}

// runChecker converts a checker panic into an error so one broken checker
// cannot take down the comparison.
func runChecker(ctx context.Context, c plugins.Checker, req plugins.CheckRequest) (res *types.CheckerResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("checker panicked: %v", rec)
		}
	}()
	return c.Run(ctx, req)
}
