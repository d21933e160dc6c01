// Package pageaccess adapts PDF libraries to the page-access contract the
// reconstruction pipeline consumes: per-page text spans in native extraction
// order, table candidates, and image references. Pages are materialized once
// into read-only PageExtraction values before the pipeline runs, so the
// pipeline itself never performs I/O.
package pageaccess

import (
	"context"
	"fmt"

	"github.com/pyhub-apps/docweave-golang/pkg/model"
)

// Source is the page-access contract. Page numbers are 1-based. Spans come
// back in native extraction order, not reading order; reading order is the
// layout analyzer's job.
type Source interface {
	PageCount() int
	PageWidth(page int) float64
	PageSpans(page int) ([]model.TextSpan, error)
	PageTables(page int) ([]model.TableCandidate, error)
	PageImages(page int) ([]model.ImageRef, error)
	Close() error
}

// Materialize reads every page of a source into PageExtraction values and
// derives code and formula candidates from the spans. A page whose spans or
// tables cannot be read is kept (empty) with a diagnostic rather than
// failing the document. The context is checked before each page.
func Materialize(ctx context.Context, src Source) ([]model.PageExtraction, []model.Diagnostic, error) {
	var diags []model.Diagnostic

	count := src.PageCount()
	pages := make([]model.PageExtraction, 0, count)

	for n := 1; n <= count; n++ {
		if err := ctx.Err(); err != nil {
			return nil, diags, fmt.Errorf("materialize page %d: %w", n, err)
		}

		page := model.PageExtraction{Page: n, Width: src.PageWidth(n)}
		if hs, ok := src.(interface{ PageHeight(page int) float64 }); ok {
			page.Height = hs.PageHeight(n)
		}

		spans, err := src.PageSpans(n)
		if err != nil {
			diags = append(diags, pageDiag(n, "spans_failed", err))
			pages = append(pages, page)
			continue
		}
		spans, page.Code = DetectCode(spans, n)
		spans, page.Formulas = DetectFormulas(spans, n)
		page.Spans = spans

		if page.Tables, err = src.PageTables(n); err != nil {
			diags = append(diags, pageDiag(n, "tables_failed", err))
		}
		if page.Images, err = src.PageImages(n); err != nil {
			diags = append(diags, pageDiag(n, "images_failed", err))
		}

		pages = append(pages, page)
	}

	return pages, diags, nil
}

func pageDiag(page int, kind string, err error) model.Diagnostic {
	return model.Diagnostic{
		Stage:   "pageaccess",
		Page:    page,
		Kind:    kind,
		Message: err.Error(),
	}
}
