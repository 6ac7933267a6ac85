// Package pagination builds the collection envelope returned by every
// paginated listing: a page of DTO items plus meta and navigation links.
package pagination

import "fmt"

// MaxPerPage is the upper bound callers clamp per_page to.
const MaxPerPage = 100

// Params is a validated page request. Page starts at 1.
type Params struct {
	Page    int
	PerPage int
}

// Clamp normalizes out-of-range values: page floors at 1, per_page is
// kept within (0, max].
func (p Params) Clamp(defaultPerPage int) Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset is the row offset for the requested page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Meta describes the position of a page within the full collection.
type Meta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
}

// Links carries navigation URLs. Next and Prev are null at the
// collection boundary.
type Links struct {
	Self string  `json:"self"`
	Next *string `json:"next"`
	Prev *string `json:"prev"`
}

// Envelope is the stable wire shape of a paginated collection.
type Envelope[D any] struct {
	Items []D   `json:"items"`
	Meta  Meta  `json:"_meta"`
	Links Links `json:"_links"`
}

// Collection assembles the envelope for one page. items is the page
// slice already fetched by the caller, total the size of the whole
// collection, and transform the per-entity DTO conversion. A page past
// the end yields empty items with unchanged meta.
func Collection[T, D any](items []T, total int64, p Params, endpoint string, transform func(T) D) Envelope[D] {
	totalPages := int((total + int64(p.PerPage) - 1) / int64(p.PerPage))

	dtos := make([]D, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, transform(item))
	}

	link := func(page int) *string {
		s := fmt.Sprintf("%s?page=%d&per_page=%d", endpoint, page, p.PerPage)
		return &s
	}

	links := Links{Self: *link(p.Page)}
	if p.Page < totalPages {
		links.Next = link(p.Page + 1)
	}
	if p.Page > 1 {
		links.Prev = link(p.Page - 1)
	}

	return Envelope[D]{
		Items: dtos,
		Meta: Meta{
			Page:       p.Page,
			PerPage:    p.PerPage,
			TotalPages: totalPages,
			TotalItems: total,
		},
		Links: links,
	}
}
