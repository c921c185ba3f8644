package pagination

import (
	"context"
	"errors"
	"iter"
)

// PageInfo is the pagination metadata of one page as reported by the server.
// Values are trusted verbatim; totalPages is not recomputed.
type PageInfo struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"pageSize"`
	TotalCount  int  `json:"totalCount"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

// RawInfo is the pagination block of a list envelope. Absent fields are nil.
type RawInfo struct {
	Page        *int  `json:"page"`
	PageSize    *int  `json:"pageSize"`
	TotalCount  *int  `json:"totalCount"`
	TotalPages  *int  `json:"totalPages"`
	HasNext     *bool `json:"hasNext"`
	HasPrevious *bool `json:"hasPrevious"`
}

// Fetcher loads the given page of a list with the given page size.
type Fetcher[T any] func(ctx context.Context, page, pageSize int) (*Page[T], error)

// Page is one fetched batch of list results. It is immutable and safe to
// share; navigating returns new pages.
type Page[T any] struct {
	items []T
	info  PageInfo
	fetch Fetcher[T]
}

// ErrNoFetcher is returned when navigating a page built without a fetcher.
var ErrNoFetcher = errors.New("pagination: page has no fetcher")

// New creates a page from items, their metadata and the fetcher for other pages.
func New[T any](items []T, info PageInfo, fetch Fetcher[T]) *Page[T] {
	return &Page[T]{items: items, info: info, fetch: fetch}
}

// FromResponse creates a page from a decoded list envelope. Missing metadata
// fields default to a single page holding all items.
func FromResponse[T any](items []T, raw *RawInfo, fetch Fetcher[T]) *Page[T] {
	info := PageInfo{
		Page:        1,
		PageSize:    len(items),
		TotalCount:  len(items),
		TotalPages:  1,
		HasNext:     false,
		HasPrevious: false,
	}

	if raw != nil {
		if raw.Page != nil {
			info.Page = *raw.Page
		}
		if raw.PageSize != nil {
			info.PageSize = *raw.PageSize
		}
		if raw.TotalCount != nil {
			info.TotalCount = *raw.TotalCount
		}
		if raw.TotalPages != nil {
			info.TotalPages = *raw.TotalPages
		}
		if raw.HasNext != nil {
			info.HasNext = *raw.HasNext
		}
		if raw.HasPrevious != nil {
			info.HasPrevious = *raw.HasPrevious
		}
	}

	return New(items, info, fetch)
}

// Data returns the items of this page.
func (p *Page[T]) Data() []T {
	return p.items
}

// Info returns the page metadata.
func (p *Page[T]) Info() PageInfo {
	return p.info
}

// NextPage fetches the following page. It returns (nil, nil) when the
// server reported no next page.
func (p *Page[T]) NextPage(ctx context.Context) (*Page[T], error) {
	if !p.info.HasNext {
		return nil, nil
	}
	return p.GoToPage(ctx, p.info.Page+1)
}

// PreviousPage fetches the preceding page. It returns (nil, nil) when the
// server reported no previous page.
func (p *Page[T]) PreviousPage(ctx context.Context) (*Page[T], error) {
	if !p.info.HasPrevious {
		return nil, nil
	}
	return p.GoToPage(ctx, p.info.Page-1)
}

// GoToPage fetches page n with this page's size. n is not range checked;
// the server decides what an out-of-range page returns.
func (p *Page[T]) GoToPage(ctx context.Context, n int) (*Page[T], error) {
	if p.fetch == nil {
		return nil, ErrNoFetcher
	}
	return p.fetch(ctx, n, p.info.PageSize)
}

// ToList walks every following page sequentially and returns all items in
// page order, starting with this page's items.
func (p *Page[T]) ToList(ctx context.Context) ([]T, error) {
	all := make([]T, 0, len(p.items))

	for page := p; page != nil; {
		all = append(all, page.items...)

		next, err := page.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		page = next
	}

	return all, nil
}

// Cursor returns a cursor positioned at the first item of this page.
func (p *Page[T]) Cursor() *Cursor[T] {
	return &Cursor[T]{page: p}
}

// All iterates over this page's items and every following page's items.
// Each call starts again from this page. Iteration stops after the first
// error, which is yielded with the zero value of T.
func (p *Page[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		cursor := p.Cursor()
		for {
			item, err := cursor.Next(ctx)
			if errors.Is(err, Done) {
				return
			}
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}
