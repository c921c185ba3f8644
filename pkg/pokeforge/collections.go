package pokeforge

import (
	"context"
	"iter"
	"net/http"

	"github.com/Sternrassler/pokeforge-client/pkg/client"
	"github.com/Sternrassler/pokeforge-client/pkg/pagination"
)

// CollectionListOptions pages the caller's collections, optionally by type.
type CollectionListOptions struct {
	Page           int
	PageSize       int
	CollectionType CollectionType
}

func (o CollectionListOptions) request() pageRequest {
	return pageRequest{
		path: "/Collections",
		query: func(page, pageSize int) client.Query {
			return client.Query{
				"page":           page,
				"pageSize":       pageSize,
				"collectionType": ptrIfSet(string(o.CollectionType)),
			}
		},
	}
}

// CollectionItemListOptions pages the items of one collection.
type CollectionItemListOptions struct {
	Page     int
	PageSize int
}

// CollectionsService covers the /Collections endpoints. All calls require
// authentication.
type CollectionsService struct {
	api *client.Client
}

// List returns one page of collections.
func (s *CollectionsService) List(ctx context.Context, opts CollectionListOptions) (*pagination.Page[Collection], error) {
	return listPage[Collection](ctx, s.api, opts.request(), pageOrDefault(opts.Page), sizeOrDefault(opts.PageSize))
}

// ListAll iterates every collection matching opts.
func (s *CollectionsService) ListAll(ctx context.Context, opts CollectionListOptions) iter.Seq2[Collection, error] {
	return listAll[Collection](ctx, s.api, opts.request(), sizeOrDefault(opts.PageSize))
}

// Get returns a collection with its aggregate counts.
func (s *CollectionsService) Get(ctx context.Context, id string) (*CollectionDetail, error) {
	return getData[CollectionDetail](ctx, s.api, resourcePath("/Collections", id), nil, "Collection not found")
}

// Create creates a collection. Type and visibility default to Collection
// and Private.
func (s *CollectionsService) Create(ctx context.Context, req CreateCollectionRequest) (*CollectionDetail, error) {
	if req.CollectionType == "" {
		req.CollectionType = TypeCollection
	}
	if req.Visibility == "" {
		req.Visibility = Private
	}
	return sendData[CollectionDetail](ctx, s.api, http.MethodPost, "/Collections", req, "Failed to create collection")
}

// Update changes the set fields of a collection.
func (s *CollectionsService) Update(ctx context.Context, id string, req UpdateCollectionRequest) (*CollectionDetail, error) {
	return sendData[CollectionDetail](ctx, s.api, http.MethodPut, resourcePath("/Collections", id), req, "Failed to update collection")
}

// Delete removes a collection and its items.
func (s *CollectionsService) Delete(ctx context.Context, id string) error {
	_, err := s.api.Delete(ctx, resourcePath("/Collections", id), nil)
	return err
}

func (s *CollectionsService) itemsRequest(id string) pageRequest {
	return pageRequest{
		path: resourcePath("/Collections", id, "items"),
		query: func(page, pageSize int) client.Query {
			return client.Query{"page": page, "pageSize": pageSize}
		},
	}
}

// ListItems returns one page of a collection's items.
func (s *CollectionsService) ListItems(ctx context.Context, id string, opts CollectionItemListOptions) (*pagination.Page[CollectionItem], error) {
	return listPage[CollectionItem](ctx, s.api, s.itemsRequest(id), pageOrDefault(opts.Page), sizeOrDefault(opts.PageSize))
}

// ListAllItems iterates every item of a collection.
func (s *CollectionsService) ListAllItems(ctx context.Context, id string, opts CollectionItemListOptions) iter.Seq2[CollectionItem, error] {
	return listAll[CollectionItem](ctx, s.api, s.itemsRequest(id), sizeOrDefault(opts.PageSize))
}

// AddItem adds a card to a collection. Quantity defaults to 1.
func (s *CollectionsService) AddItem(ctx context.Context, id string, req AddCollectionItemRequest) (*CollectionItem, error) {
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	return sendData[CollectionItem](ctx, s.api, http.MethodPost, resourcePath("/Collections", id, "items"), req, "Failed to add item to collection")
}

// UpdateItem changes the set fields of a collection item.
func (s *CollectionsService) UpdateItem(ctx context.Context, id, itemID string, req UpdateCollectionItemRequest) (*CollectionItem, error) {
	return sendData[CollectionItem](ctx, s.api, http.MethodPut, resourcePath("/Collections", id, "items", itemID), req, "Failed to update collection item")
}

// DeleteItem removes an item from a collection.
func (s *CollectionsService) DeleteItem(ctx context.Context, id, itemID string) error {
	_, err := s.api.Delete(ctx, resourcePath("/Collections", id, "items", itemID), nil)
	return err
}

// BulkAddItems adds many cards in one call. Per-item failures are reported
// in the result, not as an error.
func (s *CollectionsService) BulkAddItems(ctx context.Context, id string, items []AddCollectionItemRequest) (*BulkAddItemsResult, error) {
	body := struct {
		Items []AddCollectionItemRequest `json:"items"`
	}{Items: make([]AddCollectionItemRequest, len(items))}
	for i, item := range items {
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		body.Items[i] = item
	}
	return sendData[BulkAddItemsResult](ctx, s.api, http.MethodPost, resourcePath("/Collections", id, "items", "bulk"), body, "Failed to bulk add items")
}
