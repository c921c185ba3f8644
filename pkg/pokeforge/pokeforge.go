package pokeforge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strings"

	"github.com/Sternrassler/pokeforge-client/pkg/client"
	"github.com/Sternrassler/pokeforge-client/pkg/pagination"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
)

// Client is the PokeForge API client.
type Client struct {
	api *client.Client

	Cards       *CardsService
	Sets        *SetsService
	Series      *SeriesService
	Collections *CollectionsService
	Favorites   *FavoritesService
	Artists     *ArtistsService
	Blog        *BlogService
}

// New creates a client from cfg. See client.New for validation rules.
func New(cfg client.Config) (*Client, error) {
	api, err := client.New(cfg)
	if err != nil {
		return nil, err
	}
	return NewFromAPI(api), nil
}

// NewFromAPI wraps an existing request executor.
func NewFromAPI(api *client.Client) *Client {
	return &Client{
		api:         api,
		Cards:       &CardsService{api: api},
		Sets:        &SetsService{api: api},
		Series:      &SeriesService{api: api},
		Collections: &CollectionsService{api: api},
		Favorites:   &FavoritesService{api: api},
		Artists:     &ArtistsService{api: api},
		Blog:        &BlogService{api: api},
	}
}

// API returns the underlying request executor for endpoints without a
// typed wrapper.
func (c *Client) API() *client.Client {
	return c.api
}

// Health returns nil when the API is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.api.Health(ctx)
}

// WithToken returns a client authenticating with token. It shares this
// client's transport and is closed along with it.
func (c *Client) WithToken(token string) *Client {
	return NewFromAPI(c.api.WithToken(token))
}

// Close releases the transport. Later calls fail with client.ErrClientClosed.
func (c *Client) Close() error {
	return c.api.Close()
}

type listEnvelope[T any] struct {
	Data       []T                 `json:"data"`
	Pagination *pagination.RawInfo `json:"pagination"`
}

type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// envelopeData decodes the data member of a {data: ...} envelope. An absent
// or empty member (null, {}, [], "") yields nil.
func envelopeData[T any](raw json.RawMessage) (*T, error) {
	var env dataEnvelope
	if err := decode(raw, &env); err != nil {
		return nil, err
	}
	var compact bytes.Buffer
	if len(env.Data) == 0 || json.Compact(&compact, env.Data) != nil {
		return nil, nil
	}
	switch compact.String() {
	case "null", "{}", "[]", `""`:
		return nil, nil
	}
	var data T
	if err := decode(env.Data, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// pageRequest is a stored list query. Fetchers replay it with a different
// page and size.
type pageRequest struct {
	path  string
	query func(page, pageSize int) client.Query
}

func listPage[T any](ctx context.Context, api *client.Client, req pageRequest, page, pageSize int) (*pagination.Page[T], error) {
	raw, err := api.Get(ctx, req.path, req.query(page, pageSize))
	if err != nil {
		return nil, err
	}

	var env listEnvelope[T]
	if err := decode(raw, &env); err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, page, pageSize int) (*pagination.Page[T], error) {
		return listPage[T](ctx, api, req, page, pageSize)
	}
	return pagination.FromResponse(env.Data, env.Pagination, fetch), nil
}

// listAll iterates every item from the first page onward. A failed first
// page is yielded once as an error.
func listAll[T any](ctx context.Context, api *client.Client, req pageRequest, pageSize int) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		first, err := listPage[T](ctx, api, req, defaultPage, pageSize)
		if err != nil {
			var zero T
			yield(zero, err)
			return
		}
		for item, err := range first.All(ctx) {
			if !yield(item, err) {
				return
			}
		}
	}
}

// getData fetches a {data: ...} envelope. An empty data member becomes a
// not-found error with the given message.
func getData[T any](ctx context.Context, api *client.Client, path string, query client.Query, notFound string) (*T, error) {
	raw, err := api.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	data, err := envelopeData[T](raw)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, client.NewNotFoundError(notFound)
	}
	return data, nil
}

// sendData issues a mutation whose response must carry data. An empty
// response becomes a generic 500 error with the given message.
func sendData[T any](ctx context.Context, api *client.Client, method, path string, body any, failure string) (*T, error) {
	raw, err := api.Request(ctx, method, path, nil, body)
	if err != nil {
		return nil, err
	}
	data, err := envelopeData[T](raw)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, client.NewGenericError(http.StatusInternalServerError, failure)
	}
	return data, nil
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &client.APIError{
			Kind:    client.KindNetwork,
			Message: fmt.Sprintf("unexpected error: decode response: %v", err),
			Err:     err,
		}
	}
	return nil
}

// resourcePath joins escaped segments onto a collection path.
func resourcePath(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

func pageOrDefault(page int) int {
	if page <= 0 {
		return defaultPage
	}
	return page
}

func sizeOrDefault(size int) int {
	if size <= 0 {
		return defaultPageSize
	}
	return size
}

func ptrIfSet[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
