package report

import (
	"context"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/types"

	"golang.org/x/sync/errgroup"
)

// Job is one input of a batch render
type Job struct {
	Name  string
	Input *types.ReportInput
	Opts  RenderOptions
}

// BatchResult pairs a job with its outcome. Err is set per job; one failed
// report does not cancel the others.
type BatchResult struct {
	Name   string
	Result *Result
	Err    error
}

// RenderBatch renders jobs with at most limit renders in flight. Results are
// returned in job order. Only context cancellation stops the batch early.
func (r *Renderer) RenderBatch(ctx context.Context, jobs []Job, limit int) ([]BatchResult, error) {
	results := make([]BatchResult, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.Render(gctx, job.Input, job.Opts)
			results[i] = BatchResult{Name: job.Name, Result: res, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
