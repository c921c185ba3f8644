package pagination

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeList serves pages of ints from a fixed slice and counts fetches.
type fakeList struct {
	mu      sync.Mutex
	items   []int
	fetches []int
	failOn  int
}

func (f *fakeList) fetch(ctx context.Context, page, pageSize int) (*Page[int], error) {
	f.mu.Lock()
	f.fetches = append(f.fetches, page)
	f.mu.Unlock()

	if page == f.failOn {
		return nil, errors.New("boom")
	}

	total := len(f.items)
	totalPages := (total + pageSize - 1) / pageSize
	from := min((page-1)*pageSize, total)
	to := min(from+pageSize, total)

	return New(f.items[from:to], PageInfo{
		Page:        page,
		PageSize:    pageSize,
		TotalCount:  total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}, f.fetch), nil
}

func (f *fakeList) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetches)
}

func TestFromResponse_Defaults(t *testing.T) {
	page := FromResponse[int](nil, nil, nil)

	assert.Equal(t, PageInfo{
		Page:        1,
		PageSize:    0,
		TotalCount:  0,
		TotalPages:  1,
		HasNext:     false,
		HasPrevious: false,
	}, page.Info())
	assert.Empty(t, page.Data())
}

func TestFromResponse_PartialMetadata(t *testing.T) {
	pageNum := 3
	hasNext := true

	page := FromResponse([]string{"a", "b"}, &RawInfo{Page: &pageNum, HasNext: &hasNext}, nil)

	assert.Equal(t, PageInfo{
		Page:        3,
		PageSize:    2,
		TotalCount:  2,
		TotalPages:  1,
		HasNext:     true,
		HasPrevious: false,
	}, page.Info())
}

func TestFromResponse_TrustsServerValues(t *testing.T) {
	p, size, count, pages := 2, 10, 95, 7
	page := FromResponse([]int{1}, &RawInfo{Page: &p, PageSize: &size, TotalCount: &count, TotalPages: &pages}, nil)

	// 95/10 would be 10 pages; the server said 7.
	assert.Equal(t, 7, page.Info().TotalPages)
}

func TestPage_Navigation(t *testing.T) {
	list := &fakeList{items: []int{1, 2, 3, 4, 5}}
	ctx := context.Background()

	first, err := list.fetch(ctx, 1, 2)
	require.NoError(t, err)

	prev, err := first.PreviousPage(ctx)
	require.NoError(t, err)
	assert.Nil(t, prev, "no previous page on page 1")

	second, err := first.NextPage(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, second.Data())

	third, err := second.NextPage(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, third.Data())

	none, err := third.NextPage(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	back, err := third.PreviousPage(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, back.Info().Page)
}

func TestPage_GoToPageUnchecked(t *testing.T) {
	var requested []int
	fetch := func(ctx context.Context, page, pageSize int) (*Page[int], error) {
		requested = append(requested, page, pageSize)
		return New[int](nil, PageInfo{Page: page, PageSize: pageSize}, nil), nil
	}

	page := New([]int{1}, PageInfo{Page: 1, PageSize: 25, TotalPages: 1}, fetch)

	for _, n := range []int{99, 0, -1} {
		got, err := page.GoToPage(context.Background(), n)
		require.NoError(t, err)
		assert.Equal(t, n, got.Info().Page)
	}

	assert.Equal(t, []int{99, 25, 0, 25, -1, 25}, requested)
}

func TestPage_GoToPageWithoutFetcher(t *testing.T) {
	page := New([]int{1}, PageInfo{Page: 1, HasNext: true}, nil)

	_, err := page.GoToPage(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNoFetcher)

	_, err = page.NextPage(context.Background())
	assert.ErrorIs(t, err, ErrNoFetcher)
}

func TestPage_ToList(t *testing.T) {
	list := &fakeList{items: []int{10, 20, 30}}
	ctx := context.Background()

	first, err := list.fetch(ctx, 1, 1)
	require.NoError(t, err)
	initial := list.fetchCount()

	all, err := first.ToList(ctx)
	require.NoError(t, err)

	assert.Equal(t, []int{10, 20, 30}, all)
	assert.Equal(t, 2, list.fetchCount()-initial, "exactly two additional fetches")
}

func TestPage_ToListError(t *testing.T) {
	list := &fakeList{items: []int{1, 2, 3}, failOn: 2}

	first, err := list.fetch(context.Background(), 1, 1)
	require.NoError(t, err)

	_, err = first.ToList(context.Background())
	assert.EqualError(t, err, "boom")
}

func TestPage_AllSinglePage(t *testing.T) {
	fetches := 0
	fetch := func(ctx context.Context, page, pageSize int) (*Page[string], error) {
		fetches++
		return nil, errors.New("unexpected fetch")
	}

	page := New([]string{"a", "b"}, PageInfo{Page: 1, PageSize: 2, TotalPages: 1}, fetch)

	var got []string
	for item, err := range page.All(context.Background()) {
		require.NoError(t, err)
		got = append(got, item)
	}

	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 0, fetches)
}

func TestPage_AllRestartsFromOrigin(t *testing.T) {
	list := &fakeList{items: []int{1, 2, 3, 4}}
	ctx := context.Background()

	first, err := list.fetch(ctx, 1, 2)
	require.NoError(t, err)

	for round := 0; round < 2; round++ {
		var got []int
		for item, err := range first.All(ctx) {
			require.NoError(t, err)
			got = append(got, item)
		}
		assert.Equal(t, []int{1, 2, 3, 4}, got, "round %d", round)
	}
}

func TestPage_AllEarlyBreak(t *testing.T) {
	list := &fakeList{items: []int{1, 2, 3, 4, 5, 6}}
	ctx := context.Background()

	first, err := list.fetch(ctx, 1, 2)
	require.NoError(t, err)
	initial := list.fetchCount()

	for item, err := range first.All(ctx) {
		require.NoError(t, err)
		if item == 2 {
			break
		}
	}

	assert.Equal(t, initial, list.fetchCount(), "breaking inside page 1 fetches nothing more")
}

func TestPage_AllYieldsError(t *testing.T) {
	list := &fakeList{items: []int{1, 2, 3}, failOn: 2}

	first, err := list.fetch(context.Background(), 1, 1)
	require.NoError(t, err)

	var items []int
	var errs []error
	for item, err := range first.All(context.Background()) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		items = append(items, item)
	}

	assert.Equal(t, []int{1}, items)
	require.Len(t, errs, 1)
	assert.EqualError(t, errs[0], "boom")
}
