package materializer

import (
	"context"
	"sync"
)

// DefaultMaxInFlight bounds how many vehicles are materialized
// concurrently against the external provider (§4.2 "bounded
// concurrency, default max in-flight 4").
const DefaultMaxInFlight = 4

// dispatch runs fn(vehicleID) for every id in vehicleIDs with at most
// maxInFlight calls running concurrently, collecting results in the
// same order as vehicleIDs regardless of completion order.
func dispatch[T any](ctx context.Context, vehicleIDs []string, maxInFlight int, fn func(context.Context, string) T) []T {
	if maxInFlight <= 0 {
		maxInFlight = DefaultMaxInFlight
	}

	results := make([]T, len(vehicleIDs))
	sem := make(chan struct{}, maxInFlight)
	var wg sync.WaitGroup

	for i, id := range vehicleIDs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, id string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = fn(ctx, id)
		}(i, id)
	}

	wg.Wait()
	return results
}
