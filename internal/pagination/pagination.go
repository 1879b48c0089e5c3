// Package pagination slices ordered result sets into fixed-size pages.
//
// The requested page number comes from an untrusted query parameter and is
// clamped rather than rejected: missing or unparsable values select the
// first page, values below one select the first page and values past the
// end select the last page.
package pagination

import (
	"errors"
	"strconv"
	"strings"
)

const DefaultPageSize = 10

// Meta describes one page of a result set of Total items.
type Meta struct {
	Number   int `json:"number"`
	NumPages int `json:"num_pages"`
	Size     int `json:"size"`
	Total    int `json:"total"`
}

// ParsePage converts a raw page parameter to a page number, returning 1 for
// missing or non-numeric input. Numbers out of int range saturate to
// math.MaxInt or math.MinInt. The result is not clamped.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 1
	}
	return n
}

// Resolve clamps the raw page parameter against a result set of total items
// split into pages of size items. An empty result set still has one (empty)
// page.
func Resolve(total, size int, raw string) Meta {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	numPages := (total + size - 1) / size
	if numPages < 1 {
		numPages = 1
	}

	number := ParsePage(raw)
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}
	return Meta{Number: number, NumPages: numPages, Size: size, Total: total}
}

// Offset is the index of the first item on the page.
func (m Meta) Offset() int { return (m.Number - 1) * m.Size }

// Limit is the number of items on the page.
func (m Meta) Limit() int {
	return min(m.Size, m.Total-m.Offset())
}

func (m Meta) HasPrevious() bool { return m.Number > 1 }
func (m Meta) HasNext() bool     { return m.Number < m.NumPages }

// PreviousPage returns the previous page number, or 0 if there is none.
func (m Meta) PreviousPage() int {
	if !m.HasPrevious() {
		return 0
	}
	return m.Number - 1
}

// NextPage returns the next page number, or 0 if there is none.
func (m Meta) NextPage() int {
	if !m.HasNext() {
		return 0
	}
	return m.Number + 1
}

// Page is a bounded slice of an ordered result set plus navigation data.
type Page[T any] struct {
	Items []T
	Meta
}

// Paginate returns the page of items selected by raw.
func Paginate[T any](items []T, size int, raw string) Page[T] {
	meta := Resolve(len(items), size, raw)
	start := meta.Offset()
	end := start + meta.Limit()

	page := make([]T, end-start)
	copy(page, items[start:end])
	return Page[T]{Items: page, Meta: meta}
}

// Response is the JSON envelope handlers send for a page.
type Response[T any] struct {
	Items        []T  `json:"items"`
	Number       int  `json:"number"`
	NumPages     int  `json:"num_pages"`
	Total        int  `json:"total"`
	HasPrevious  bool `json:"has_previous"`
	HasNext      bool `json:"has_next"`
	PreviousPage int  `json:"previous_page,omitempty"`
	NextPage     int  `json:"next_page,omitempty"`
}

func (p Page[T]) Response() Response[T] {
	return Response[T]{
		Items:        p.Items,
		Number:       p.Number,
		NumPages:     p.NumPages,
		Total:        p.Total,
		HasPrevious:  p.HasPrevious(),
		HasNext:      p.HasNext(),
		PreviousPage: p.PreviousPage(),
		NextPage:     p.NextPage(),
	}
}
