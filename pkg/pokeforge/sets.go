package pokeforge

import (
	"context"
	"iter"

	"github.com/Sternrassler/pokeforge-client/pkg/client"
	"github.com/Sternrassler/pokeforge-client/pkg/pagination"
)

// SetListOptions filters a set listing.
type SetListOptions struct {
	Page      int
	PageSize  int
	SeriesID  string
	Search    string
	SortOrder SortOrder
}

func (o SetListOptions) request() pageRequest {
	return pageRequest{
		path: "/Sets",
		query: func(page, pageSize int) client.Query {
			return client.Query{
				"page":      page,
				"pageSize":  pageSize,
				"seriesId":  ptrIfSet(o.SeriesID),
				"search":    ptrIfSet(o.Search),
				"sortOrder": ptrIfSet(string(o.SortOrder)),
			}
		},
	}
}

// SetsService covers the /Sets endpoints.
type SetsService struct {
	api *client.Client
}

// List returns one page of sets.
func (s *SetsService) List(ctx context.Context, opts SetListOptions) (*pagination.Page[Set], error) {
	return listPage[Set](ctx, s.api, opts.request(), pageOrDefault(opts.Page), sizeOrDefault(opts.PageSize))
}

// ListAll iterates every set matching opts.
func (s *SetsService) ListAll(ctx context.Context, opts SetListOptions) iter.Seq2[Set, error] {
	return listAll[Set](ctx, s.api, opts.request(), sizeOrDefault(opts.PageSize))
}

// Get returns a set by id.
func (s *SetsService) Get(ctx context.Context, id string) (*SetDetail, error) {
	return getData[SetDetail](ctx, s.api, resourcePath("/Sets", id), nil, "Set not found")
}

// GetBySlug returns a set by its URL slug.
func (s *SetsService) GetBySlug(ctx context.Context, slug string) (*SetDetail, error) {
	return getData[SetDetail](ctx, s.api, resourcePath("/Sets/slug", slug), nil, "Set not found")
}
