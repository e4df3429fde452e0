// Package batch evaluates many calculation requests in parallel.
package batch

import (
	"context"
	"errors"

	"Wheelcalc/internal/calc/request"
	"Wheelcalc/internal/calc/validate"

	"golang.org/x/sync/errgroup"
)

const DefaultWorkers = 4

type Input struct {
	Items []request.Request `json:"items"`
}

type Result struct {
	Results []*request.Response `json:"results"`
}

// Calculate evaluates every item with at most workers running at once.
// Results keep the input order; an item whose wheel cannot be built gets a
// response carrying only the error.
func Calculate(ctx context.Context, eval *request.Evaluator, in Input, workers int) (Result, error) {
	if len(in.Items) == 0 {
		return Result{}, validate.Errorf("no items")
	}
	if workers < 1 {
		workers = DefaultWorkers
	}

	out := Result{Results: make([]*request.Response, len(in.Items))}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, item := range in.Items {
		g.Go(func() error {
			res, err := eval.Evaluate(ctx, item)
			switch {
			case errors.Is(err, request.ErrWheel):
				out.Results[i] = &request.Response{Error: err.Error()}
			case err != nil:
				return err
			default:
				out.Results[i] = res
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return out, nil
}
