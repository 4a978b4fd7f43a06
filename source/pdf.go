package source

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"

	"github.com/poiesic/docfind/core"
)

// PDF is a PageSource backed by a PDF file on disk. Page text is
// extracted per page, so page numbers in search results map directly
// to the printed document.
type PDF struct {
	path string

	mu        sync.Mutex
	extracted []core.Page
}

var _ PageSource = (*PDF)(nil)

// NewPDF creates a PageSource for the PDF at path. The file is not
// opened until the first Pages or PageText call.
func NewPDF(path string) *PDF {
	return &PDF{path: path}
}

// Pages extracts the text of every page in the document. The result
// is cached, so repeated calls do not re-parse the file.
func (p *PDF) Pages(ctx context.Context) ([]core.Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.extracted != nil {
		return p.extracted, nil
	}

	f, reader, err := pdf.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", p.path, err)
	}
	defer f.Close()

	total := reader.NumPage()
	pages := make([]core.Page, 0, total)
	for number := 1; number <= total; number++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(number)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single malformed page should not sink the whole
			// document; it simply contributes no text.
			continue
		}

		pages = append(pages, core.Page{
			Number: number,
			Text:   strings.TrimSpace(text),
		})
	}

	p.extracted = pages
	return pages, nil
}

// PageText returns the text of a single page, extracting the document
// first if needed. Unknown page numbers yield an empty string.
func (p *PDF) PageText(ctx context.Context, number int) (string, error) {
	pages, err := p.Pages(ctx)
	if err != nil {
		return "", err
	}
	for _, page := range pages {
		if page.Number == number {
			return page.Text, nil
		}
	}
	return "", nil
}
