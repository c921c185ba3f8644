package pokeforge

import (
	"context"
	"iter"

	"github.com/Sternrassler/pokeforge-client/pkg/client"
	"github.com/Sternrassler/pokeforge-client/pkg/pagination"
)

// ArtistListOptions filters an artist listing.
type ArtistListOptions struct {
	Page     int
	PageSize int
	Search   string
}

func (o ArtistListOptions) request() pageRequest {
	return pageRequest{
		path: "/Artists",
		query: func(page, pageSize int) client.Query {
			return client.Query{
				"page":     page,
				"pageSize": pageSize,
				"search":   ptrIfSet(o.Search),
			}
		},
	}
}

// ArtistsService covers the /Artists endpoint.
type ArtistsService struct {
	api *client.Client
}

// List returns one page of artists. Collected counts are relative to the
// authenticated user.
func (s *ArtistsService) List(ctx context.Context, opts ArtistListOptions) (*pagination.Page[Artist], error) {
	return listPage[Artist](ctx, s.api, opts.request(), pageOrDefault(opts.Page), sizeOrDefault(opts.PageSize))
}

func (s *ArtistsService) ListAll(ctx context.Context, opts ArtistListOptions) iter.Seq2[Artist, error] {
	return listAll[Artist](ctx, s.api, opts.request(), sizeOrDefault(opts.PageSize))
}
