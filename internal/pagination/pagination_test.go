package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginateTwentyFiveItems(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i + 1
	}

	tests := []struct {
		raw      string
		number   int
		first    int
		count    int
		hasPrev  bool
		hasNext  bool
		nextPage int
		prevPage int
	}{
		{raw: "1", number: 1, first: 1, count: 10, hasNext: true, nextPage: 2},
		{raw: "2", number: 2, first: 11, count: 10, hasPrev: true, hasNext: true, nextPage: 3, prevPage: 1},
		{raw: "3", number: 3, first: 21, count: 5, hasPrev: true, prevPage: 2},
		{raw: "", number: 1, first: 1, count: 10, hasNext: true, nextPage: 2},
		{raw: "0", number: 1, first: 1, count: 10, hasNext: true, nextPage: 2},
		{raw: "-4", number: 1, first: 1, count: 10, hasNext: true, nextPage: 2},
		{raw: "abc", number: 1, first: 1, count: 10, hasNext: true, nextPage: 2},
		{raw: "99", number: 3, first: 21, count: 5, hasPrev: true, prevPage: 2},
		{raw: "99999999999999999999", number: 3, first: 21, count: 5, hasPrev: true, prevPage: 2},
		{raw: "-99999999999999999999", number: 1, first: 1, count: 10, hasNext: true, nextPage: 2},
		{raw: " 2 ", number: 2, first: 11, count: 10, hasPrev: true, hasNext: true, nextPage: 3, prevPage: 1},
	}

	for _, tt := range tests {
		t.Run("page="+tt.raw, func(t *testing.T) {
			page := Paginate(items, 10, tt.raw)

			assert.Equal(t, tt.number, page.Number)
			assert.Equal(t, 3, page.NumPages)
			assert.Equal(t, 25, page.Total)
			assert.Len(t, page.Items, tt.count)
			assert.Equal(t, tt.first, page.Items[0])
			assert.Equal(t, tt.hasPrev, page.HasPrevious())
			assert.Equal(t, tt.hasNext, page.HasNext())
			assert.Equal(t, tt.nextPage, page.NextPage())
			assert.Equal(t, tt.prevPage, page.PreviousPage())
		})
	}
}

func TestPaginateEmpty(t *testing.T) {
	page := Paginate([]string{}, 10, "5")

	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.NumPages)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.False(t, page.HasNext())
	assert.False(t, page.HasPrevious())
}

func TestPaginateExactMultiple(t *testing.T) {
	page := Paginate(make([]int, 20), 10, "2")

	assert.Equal(t, 2, page.NumPages)
	assert.Len(t, page.Items, 10)
	assert.False(t, page.HasNext())
}

func TestPaginateDoesNotAliasInput(t *testing.T) {
	items := []int{1, 2, 3}
	page := Paginate(items, 2, "1")
	page.Items[0] = 42

	assert.Equal(t, 1, items[0])
}

func TestResolveDefaultsSize(t *testing.T) {
	meta := Resolve(11, 0, "2")

	assert.Equal(t, DefaultPageSize, meta.Size)
	assert.Equal(t, 2, meta.Number)
	assert.Equal(t, 1, meta.Limit())
	assert.Equal(t, 10, meta.Offset())
}

func TestParsePage(t *testing.T) {
	assert.Equal(t, 1, ParsePage(""))
	assert.Equal(t, 1, ParsePage("x1"))
	assert.Equal(t, 7, ParsePage("7"))
	assert.Equal(t, -2, ParsePage("-2"))
	assert.Equal(t, math.MaxInt, ParsePage("99999999999999999999"))
	assert.Equal(t, math.MinInt, ParsePage("-99999999999999999999"))
}

func TestResponse(t *testing.T) {
	resp := Paginate([]int{1, 2, 3}, 2, "2").Response()

	assert.Equal(t, []int{3}, resp.Items)
	assert.Equal(t, 2, resp.Number)
	assert.Equal(t, 2, resp.NumPages)
	assert.True(t, resp.HasPrevious)
	assert.False(t, resp.HasNext)
	assert.Equal(t, 1, resp.PreviousPage)
	assert.Zero(t, resp.NextPage)
}
