package main

import (
	"context"
	"errors"
	"sync"
)

type fetchResult[T any] struct {
	name  string
	items []T
	err   error
}

// fetchFromAPI runs a single provider call and reports its outcome on results.
func fetchFromAPI[T any](
	ctx context.Context,
	name string,
	fetch func(context.Context) ([]T, error),
	wg *sync.WaitGroup,
	results chan<- fetchResult[T],
) {
	defer wg.Done()

	items, err := fetch(ctx)
	results <- fetchResult[T]{name: name, items: items, err: err}
}

// processRequests runs every fetcher concurrently and returns the successful
// results keyed by fetcher name. It fails only when all fetchers fail.
func processRequests[T any](
	cfg *apiConfig,
	ctx context.Context,
	fetchers map[string]func(context.Context) ([]T, error),
) (map[string][]T, error) {
	var wg sync.WaitGroup
	results := make(chan fetchResult[T], len(fetchers))

	for name, fetch := range fetchers {
		wg.Add(1)
		go fetchFromAPI(ctx, name, fetch, &wg, results)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make(map[string][]T, len(fetchers))
	var errs []error
	for res := range results {
		if res.err != nil {
			cfg.logger.Warn("error fetching from provider", "request", res.name, "error", res.err)
			errs = append(errs, res.err)
			continue
		}
		collected[res.name] = res.items
	}

	if len(collected) == 0 && len(fetchers) > 0 {
		return nil, errors.Join(append([]error{errors.New("all provider requests failed")}, errs...)...)
	}
	return collected, nil
}
