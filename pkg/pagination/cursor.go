package pagination

import (
	"context"
	"errors"
)

// Done is returned by Cursor.Next when no items remain.
var Done = errors.New("pagination: no more items")

// Cursor walks the items of a page and its following pages, fetching each
// next page only when the buffered items are used up. A cursor is not safe
// for concurrent use and cannot be rewound; start a new one from a Page.
type Cursor[T any] struct {
	page  *Page[T]
	index int
}

// Next returns the next item, Done once the last page is exhausted, or the
// error of a failed page fetch. After an error the cursor stays on the
// current page, so calling Next again retries the fetch.
func (c *Cursor[T]) Next(ctx context.Context) (T, error) {
	var zero T

	for c.page != nil {
		if c.index < len(c.page.items) {
			item := c.page.items[c.index]
			c.index++
			return item, nil
		}

		next, err := c.page.NextPage(ctx)
		if err != nil {
			return zero, err
		}

		c.page = next
		c.index = 0
	}

	return zero, Done
}

// Page returns the page the cursor is currently reading, or nil when done.
func (c *Cursor[T]) Page() *Page[T] {
	return c.page
}
