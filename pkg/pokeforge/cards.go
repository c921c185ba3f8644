package pokeforge

import (
	"context"
	"iter"
	"net/http"

	"github.com/Sternrassler/pokeforge-client/pkg/client"
	"github.com/Sternrassler/pokeforge-client/pkg/pagination"
)

// CardListOptions filters and orders a card listing. Empty fields are not sent.
type CardListOptions struct {
	Page        int
	PageSize    int
	SetID       string
	SeriesID    string
	Rarity      string
	Supertype   string
	Subtype     string
	PokemonType string
	ArtistName  string
	SortBy      CardSortField
	SortOrder   SortOrder
	Search      string
}

func (o CardListOptions) request() pageRequest {
	return pageRequest{
		path: "/Cards",
		query: func(page, pageSize int) client.Query {
			return client.Query{
				"page":        page,
				"pageSize":    pageSize,
				"setId":       ptrIfSet(o.SetID),
				"seriesId":    ptrIfSet(o.SeriesID),
				"rarity":      ptrIfSet(o.Rarity),
				"supertype":   ptrIfSet(o.Supertype),
				"subtype":     ptrIfSet(o.Subtype),
				"pokemonType": ptrIfSet(o.PokemonType),
				"artistName":  ptrIfSet(o.ArtistName),
				"sortBy":      ptrIfSet(string(o.SortBy)),
				"sortOrder":   ptrIfSet(string(o.SortOrder)),
				"search":      ptrIfSet(o.Search),
			}
		},
	}
}

// CardSearchOptions narrows a full-text card search.
type CardSearchOptions struct {
	Page     int
	PageSize int
	SetID    string
}

// CardsService covers the /Cards endpoints.
type CardsService struct {
	api *client.Client
}

// List returns one page of cards.
func (s *CardsService) List(ctx context.Context, opts CardListOptions) (*pagination.Page[Card], error) {
	return listPage[Card](ctx, s.api, opts.request(), pageOrDefault(opts.Page), sizeOrDefault(opts.PageSize))
}

// ListAll iterates every card matching opts, starting at page 1.
func (s *CardsService) ListAll(ctx context.Context, opts CardListOptions) iter.Seq2[Card, error] {
	return listAll[Card](ctx, s.api, opts.request(), sizeOrDefault(opts.PageSize))
}

// Get returns a single card.
func (s *CardsService) Get(ctx context.Context, id string) (*CardDetail, error) {
	return getData[CardDetail](ctx, s.api, resourcePath("/Cards", id), nil, "Card not found")
}

// Search runs a full-text query over card names.
func (s *CardsService) Search(ctx context.Context, q string, opts CardSearchOptions) (*pagination.Page[Card], error) {
	req := pageRequest{
		path: "/Cards/search",
		query: func(page, pageSize int) client.Query {
			return client.Query{
				"q":        q,
				"page":     page,
				"pageSize": pageSize,
				"setId":    ptrIfSet(opts.SetID),
			}
		},
	}
	return listPage[Card](ctx, s.api, req, pageOrDefault(opts.Page), sizeOrDefault(opts.PageSize))
}

// Variants returns the alternate printings of a card. An empty response
// yields an empty slice.
func (s *CardsService) Variants(ctx context.Context, id string) ([]CardVariant, error) {
	raw, err := s.api.Get(ctx, resourcePath("/Cards", id, "variants"), nil)
	if err != nil {
		return nil, err
	}
	var env struct {
		Variants []CardVariant `json:"variants"`
	}
	if err := decode(raw, &env); err != nil {
		return nil, err
	}
	if env.Variants == nil {
		return []CardVariant{}, nil
	}
	return env.Variants, nil
}

// Filters returns the values accepted by the list filters.
func (s *CardsService) Filters(ctx context.Context) (*CardFilterOptions, error) {
	raw, err := s.api.Get(ctx, "/Cards/filters", nil)
	if err != nil {
		return nil, err
	}
	filters, err := envelopeData[CardFilterOptions](raw)
	if err != nil {
		return nil, err
	}
	if filters == nil {
		return nil, client.NewGenericError(http.StatusInternalServerError, "Failed to fetch card filters")
	}
	return filters, nil
}

// RecordView registers a view of the card for popularity statistics.
func (s *CardsService) RecordView(ctx context.Context, id string) error {
	_, err := s.api.Post(ctx, resourcePath("/Cards", id, "views"), nil)
	return err
}
