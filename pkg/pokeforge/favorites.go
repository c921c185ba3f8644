package pokeforge

import (
	"context"
	"iter"

	"github.com/Sternrassler/pokeforge-client/pkg/client"
	"github.com/Sternrassler/pokeforge-client/pkg/pagination"
)

// FavoriteListOptions pages the caller's favorites.
type FavoriteListOptions struct {
	Page     int
	PageSize int
}

func (o FavoriteListOptions) request() pageRequest {
	return pageRequest{
		path: "/Favorites",
		query: func(page, pageSize int) client.Query {
			return client.Query{"page": page, "pageSize": pageSize}
		},
	}
}

// FavoritesService covers the /Favorites endpoints. All calls require
// authentication.
type FavoritesService struct {
	api *client.Client
}

func (s *FavoritesService) List(ctx context.Context, opts FavoriteListOptions) (*pagination.Page[FavoriteCard], error) {
	return listPage[FavoriteCard](ctx, s.api, opts.request(), pageOrDefault(opts.Page), sizeOrDefault(opts.PageSize))
}

func (s *FavoritesService) ListAll(ctx context.Context, opts FavoriteListOptions) iter.Seq2[FavoriteCard, error] {
	return listAll[FavoriteCard](ctx, s.api, opts.request(), sizeOrDefault(opts.PageSize))
}

// Add favorites a card.
func (s *FavoritesService) Add(ctx context.Context, cardID string) error {
	_, err := s.api.Post(ctx, resourcePath("/Favorites", cardID), nil)
	return err
}

// Remove unfavorites a card.
func (s *FavoritesService) Remove(ctx context.Context, cardID string) error {
	_, err := s.api.Delete(ctx, resourcePath("/Favorites", cardID), nil)
	return err
}

// Check reports whether a card is favorited. An empty response means no.
func (s *FavoritesService) Check(ctx context.Context, cardID string) (bool, error) {
	raw, err := s.api.Get(ctx, "/Favorites/check", client.Query{"cardId": cardID})
	if err != nil {
		return false, err
	}
	var result struct {
		IsFavorited bool `json:"isFavorited"`
	}
	if err := decode(raw, &result); err != nil {
		return false, err
	}
	return result.IsFavorited, nil
}
