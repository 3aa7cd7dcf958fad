package service

import (
	"context"
	"sync"
	"time"

	mdwerror "github.com/msto63/jackc/foundation/core/error"
	"github.com/msto63/jackc/internal/analyzer/store"
)

// Run analyzes every source below root. Files are processed by at most
// Config.Workers goroutines; Summary.Results keeps discovery order. Unless
// ContinueOnError is set, the first failure cancels the jobs not yet
// started, which are reported as skipped. The returned error is non-nil
// only when the run could not be carried out; per-file failures are in
// the summary (see Summary.Err).
func (s *Service) Run(ctx context.Context, root string) (*Summary, error) {
	jobs, err := s.Discover(root)
	if err != nil {
		return nil, err
	}
	return s.RunJobs(ctx, root, jobs)
}

// RunJobs analyzes an explicit job list. root is only recorded.
func (s *Service) RunJobs(ctx context.Context, root string, jobs []Job) (*Summary, error) {
	start := time.Now()
	summary := &Summary{Root: root, Results: make([]Result, len(jobs))}

	var run *store.Run
	if s.history != nil {
		var err error
		run, err = s.history.BeginRun(ctx, root, s.cfg.Style.String())
		if err != nil {
			return nil, err
		}
		summary.RunID = run.ID
	}
	logger := s.logger.With("run_id", summary.RunID, "root", root)
	logger.Info("Starting analysis run", "files", len(jobs), "workers", s.cfg.Workers)
	if len(jobs) == 0 {
		logger.Warn("No source files found", "ext", s.cfg.SourceExt)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan int)
	var wg sync.WaitGroup

	workers := s.cfg.Workers
	if workers > len(jobs) {
		workers = len(jobs)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				res := s.AnalyzeFile(runCtx, jobs[i])
				summary.Results[i] = res

				if res.Status == StatusFailed {
					logger.Error("Analysis failed", "source", res.Source, "error", res.Err.Error())
					if !s.cfg.ContinueOnError {
						cancel()
					}
				} else if res.Status == StatusOK {
					logger.Debug("Analyzed", "source", res.Source, "tokens", res.Tokens, "duration", res.Duration)
				}
			}
		}()
	}

	for i := range jobs {
		if runCtx.Err() != nil {
			summary.Results[i] = skipped(jobs[i])
			continue
		}
		select {
		case queue <- i:
		case <-runCtx.Done():
			summary.Results[i] = skipped(jobs[i])
		}
	}
	close(queue)
	wg.Wait()

	for _, r := range summary.Results {
		switch r.Status {
		case StatusOK:
			summary.Succeeded++
		case StatusFailed:
			summary.Failed++
		default:
			summary.Skipped++
		}
	}
	summary.Duration = time.Since(start)

	if run != nil {
		if err := s.record(ctx, run, summary); err != nil {
			logger.Warn("Failed to record run history", "error", err.Error())
		}
	}

	logger.Info("Analysis run finished",
		"succeeded", summary.Succeeded, "failed", summary.Failed,
		"skipped", summary.Skipped, "duration", summary.Duration)

	if ctx.Err() != nil {
		return summary, mdwerror.Wrap(ctx.Err(), "analysis run canceled").WithCode(mdwerror.CodeCanceled)
	}
	return summary, nil
}

func skipped(job Job) Result {
	return Result{Job: job, Status: StatusSkipped}
}

// record stores every result of the run and then its final state. The
// history is written even when ctx was canceled.
func (s *Service) record(ctx context.Context, run *store.Run, summary *Summary) error {
	hctx := context.WithoutCancel(ctx)
	var firstErr error
	for _, r := range summary.Results {
		if err := s.history.RecordResult(hctx, toFileResult(run.ID, r)); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	run.Files = len(summary.Results)
	run.Succeeded = summary.Succeeded
	run.Failed = summary.Failed
	switch {
	case ctx.Err() != nil:
		run.Status = store.RunCanceled
	case summary.Failed > 0:
		run.Status = store.RunFailed
	default:
		run.Status = store.RunSucceeded
	}
	if err := s.history.FinishRun(hctx, run); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func toFileResult(runID string, r Result) *store.FileResult {
	fr := &store.FileResult{
		RunID:    runID,
		Source:   r.Source,
		Output:   r.Output,
		Status:   string(r.Status),
		Tokens:   r.Tokens,
		Lines:    r.Lines,
		Duration: r.Duration,
		SHA256:   r.SHA256,
	}
	if r.Err != nil {
		fr.Error = r.Err.Error()
		fr.ErrorCode = string(mdwerror.GetCode(r.Err))
	}
	return fr
}
