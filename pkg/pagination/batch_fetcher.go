package pagination

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Config holds batch fetcher configuration.
type Config struct {
	// MaxConcurrency is the maximum number of pages fetched in parallel.
	MaxConcurrency int
}

// DefaultConfig returns the default batch fetcher configuration.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
	}
}

// BatchFetcher fetches the remaining pages of a list in parallel.
// It is an opt-in alternative to Page.ToList, which walks pages one by one.
type BatchFetcher[T any] struct {
	config Config
}

// NewBatchFetcher creates a new batch fetcher.
func NewBatchFetcher[T any](config Config) *BatchFetcher[T] {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = DefaultConfig().MaxConcurrency
	}
	return &BatchFetcher[T]{config: config}
}

// Collect fetches pages first.Page+1 through first.TotalPages concurrently
// and returns every item in page order, starting with first's items.
// The first failed page cancels the remaining fetches and is returned.
func (bf *BatchFetcher[T]) Collect(ctx context.Context, first *Page[T]) ([]T, error) {
	start := time.Now()
	info := first.Info()

	if !info.HasNext || info.TotalPages <= info.Page {
		return append([]T(nil), first.Data()...), nil
	}

	remaining := info.TotalPages - info.Page
	pages := make([][]T, remaining)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bf.config.MaxConcurrency)

	for i := 0; i < remaining; i++ {
		pageNum := info.Page + 1 + i
		g.Go(func() error {
			page, err := first.GoToPage(gctx, pageNum)
			if err != nil {
				return fmt.Errorf("fetch page %d: %w", pageNum, err)
			}
			if page != nil {
				pages[i] = page.Data()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Warn().
			Err(err).
			Int("total_pages", info.TotalPages).
			Msg("Batch page fetch failed")
		return nil, err
	}

	all := append([]T(nil), first.Data()...)
	for _, items := range pages {
		all = append(all, items...)
	}

	log.Debug().
		Int("pages", remaining+1).
		Int("items", len(all)).
		Dur("duration", time.Since(start)).
		Msg("Batch fetch complete")

	return all, nil
}
