package pokeforge

import (
	"context"
	"iter"

	"github.com/Sternrassler/pokeforge-client/pkg/client"
	"github.com/Sternrassler/pokeforge-client/pkg/pagination"
)

// BlogListOptions filters the blog feed. The blog endpoint names its page
// size "limit".
type BlogListOptions struct {
	Page     int
	Limit    int
	Category string
}

func (o BlogListOptions) request() pageRequest {
	return pageRequest{
		path: "/Blog",
		query: func(page, pageSize int) client.Query {
			return client.Query{
				"page":     page,
				"limit":    pageSize,
				"category": ptrIfSet(o.Category),
			}
		},
	}
}

// BlogService covers the /Blog endpoints.
type BlogService struct {
	api *client.Client
}

// List returns one page of posts.
func (s *BlogService) List(ctx context.Context, opts BlogListOptions) (*pagination.Page[BlogPost], error) {
	return listPage[BlogPost](ctx, s.api, opts.request(), pageOrDefault(opts.Page), sizeOrDefault(opts.Limit))
}

// ListAll iterates every post in the feed.
func (s *BlogService) ListAll(ctx context.Context, opts BlogListOptions) iter.Seq2[BlogPost, error] {
	return listAll[BlogPost](ctx, s.api, opts.request(), sizeOrDefault(opts.Limit))
}

// Get returns a single post.
func (s *BlogService) Get(ctx context.Context, id string) (*BlogPost, error) {
	return getData[BlogPost](ctx, s.api, resourcePath("/Blog", id), nil, "Blog post not found")
}
