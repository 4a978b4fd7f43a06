package source

import (
	"context"

	"github.com/poiesic/docfind/core"
)

// PageSource supplies raw page text for a loaded document. It is the
// upstream boundary of the retrieval engine: the engine never parses
// document bytes itself.
//
// Implementations must be safe for concurrent use.
type PageSource interface {
	// Pages returns the text of every page of the document, in order.
	Pages(ctx context.Context) ([]core.Page, error)

	// PageText re-supplies the text of a single page on demand, used
	// for neighbor-page context expansion. A page outside the document
	// returns an empty string, not an error.
	PageText(ctx context.Context, number int) (string, error)
}

// Slice is an in-memory PageSource over a fixed page list.
type Slice struct {
	pages []core.Page
}

var _ PageSource = (*Slice)(nil)

// NewSlice builds a PageSource from already-extracted pages.
func NewSlice(pages []core.Page) *Slice {
	return &Slice{pages: pages}
}

// Pages returns the fixed page list.
func (s *Slice) Pages(ctx context.Context) ([]core.Page, error) {
	return s.pages, nil
}

// PageText returns the text of the requested page, or an empty string
// for unknown page numbers.
func (s *Slice) PageText(ctx context.Context, number int) (string, error) {
	for _, page := range s.pages {
		if page.Number == number {
			return page.Text, nil
		}
	}
	return "", nil
}
