package pokeforge

import (
	"context"
	"iter"

	"github.com/Sternrassler/pokeforge-client/pkg/client"
	"github.com/Sternrassler/pokeforge-client/pkg/pagination"
)

// SeriesListOptions filters a series listing.
type SeriesListOptions struct {
	Page      int
	PageSize  int
	Search    string
	SortOrder SortOrder
}

func (o SeriesListOptions) request() pageRequest {
	return pageRequest{
		path: "/Series",
		query: func(page, pageSize int) client.Query {
			return client.Query{
				"page":      page,
				"pageSize":  pageSize,
				"search":    ptrIfSet(o.Search),
				"sortOrder": ptrIfSet(string(o.SortOrder)),
			}
		},
	}
}

// SeriesService covers the /Series endpoints.
type SeriesService struct {
	api *client.Client
}

func (s *SeriesService) List(ctx context.Context, opts SeriesListOptions) (*pagination.Page[Series], error) {
	return listPage[Series](ctx, s.api, opts.request(), pageOrDefault(opts.Page), sizeOrDefault(opts.PageSize))
}

func (s *SeriesService) ListAll(ctx context.Context, opts SeriesListOptions) iter.Seq2[Series, error] {
	return listAll[Series](ctx, s.api, opts.request(), sizeOrDefault(opts.PageSize))
}

func (s *SeriesService) Get(ctx context.Context, id string) (*Series, error) {
	return getData[Series](ctx, s.api, resourcePath("/Series", id), nil, "Series not found")
}

func (s *SeriesService) GetBySlug(ctx context.Context, slug string) (*Series, error) {
	return getData[Series](ctx, s.api, resourcePath("/Series/slug", slug), nil, "Series not found")
}
