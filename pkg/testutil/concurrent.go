// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	dErrors "aidengine/pkg/domain-errors"
)

// ConcurrentResult tracks outcomes of concurrent test operations.
type ConcurrentResult struct {
	Successes int32
	Errors    int32
	NotFounds int32
	Rejected  int32
}

// Total returns the total number of operations executed.
func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.Errors + r.NotFounds + r.Rejected
}

// RunConcurrent executes fn in parallel goroutines and collects results.
// Errors are bucketed by domain code: NotFound, client errors (bad request,
// invalid input, validation) as Rejected, everything else as Errors.
func RunConcurrent(goroutines int, fn func(idx int) error) *ConcurrentResult {
	var wg sync.WaitGroup
	var successes, errs, notFounds, rejected atomic.Int32

	for i := range goroutines {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			err := fn(idx)
			switch dErrors.CodeOf(err) {
			case "":
				if err == nil {
					successes.Add(1)
				} else {
					errs.Add(1)
				}
			case dErrors.CodeNotFound:
				notFounds.Add(1)
			case dErrors.CodeBadRequest, dErrors.CodeInvalidInput, dErrors.CodeValidation:
				rejected.Add(1)
			default:
				errs.Add(1)
			}
		}(i)
	}

	wg.Wait()

	return &ConcurrentResult{
		Successes: successes.Load(),
		Errors:    errs.Load(),
		NotFounds: notFounds.Load(),
		Rejected:  rejected.Load(),
	}
}

// RunConcurrentCtx executes fn in parallel goroutines with context support.
func RunConcurrentCtx(ctx context.Context, goroutines int, fn func(ctx context.Context, idx int) error) *ConcurrentResult {
	return RunConcurrent(goroutines, func(idx int) error {
		return fn(ctx, idx)
	})
}
