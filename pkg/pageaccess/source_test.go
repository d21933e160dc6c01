package pageaccess

import (
	"context"
	"errors"
	"testing"

	"github.com/pyhub-apps/docweave-golang/pkg/model"
)

// fakeSource serves canned pages, failing span reads for pages listed in
// broken.
type fakeSource struct {
	spans  map[int][]model.TextSpan
	tables map[int][]model.TableCandidate
	broken map[int]bool
}

func (f *fakeSource) PageCount() int              { return len(f.spans) }
func (f *fakeSource) PageWidth(page int) float64  { return 612 }
func (f *fakeSource) PageHeight(page int) float64 { return 792 }
func (f *fakeSource) Close() error                { return nil }

func (f *fakeSource) PageSpans(page int) ([]model.TextSpan, error) {
	if f.broken[page] {
		return nil, errors.New("unreadable content stream")
	}
	return f.spans[page], nil
}

func (f *fakeSource) PageTables(page int) ([]model.TableCandidate, error) {
	return f.tables[page], nil
}

func (f *fakeSource) PageImages(page int) ([]model.ImageRef, error) {
	return nil, nil
}

func TestMaterializeFillsPages(t *testing.T) {
	src := &fakeSource{
		spans: map[int][]model.TextSpan{
			1: {span("Introduction to protocols", 50, 100, 300, 112)},
			2: {span("α ≤ β", 50, 100, 120, 110)},
		},
		tables: map[int][]model.TableCandidate{
			2: {{Page: 2, ColumnCount: 2}},
		},
	}

	pages, diags, err := Materialize(context.Background(), src)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}

	if pages[0].Width != 612 || pages[0].Height != 792 {
		t.Errorf("page 1 dims = %vx%v", pages[0].Width, pages[0].Height)
	}
	if len(pages[0].Spans) != 1 {
		t.Errorf("page 1 spans = %v", pages[0].Spans)
	}

	// The glyph-dense span becomes a formula, not text.
	if len(pages[1].Formulas) != 1 || len(pages[1].Spans) != 0 {
		t.Errorf("page 2 formulas = %v, spans = %v", pages[1].Formulas, pages[1].Spans)
	}
	if len(pages[1].Tables) != 1 {
		t.Errorf("page 2 tables = %v", pages[1].Tables)
	}
}

func TestMaterializeKeepsBrokenPageWithDiagnostic(t *testing.T) {
	src := &fakeSource{
		spans: map[int][]model.TextSpan{
			1: {span("fine", 50, 100, 80, 110)},
			2: nil,
		},
		broken: map[int]bool{2: true},
	}

	pages, diags, err := Materialize(context.Background(), src)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("broken page must still be present, got %d pages", len(pages))
	}
	if len(pages[1].Spans) != 0 {
		t.Errorf("broken page should be empty, got %v", pages[1].Spans)
	}

	if len(diags) != 1 || diags[0].Kind != "spans_failed" || diags[0].Page != 2 {
		t.Errorf("diagnostics = %v", diags)
	}
}

func TestMaterializeHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{spans: map[int][]model.TextSpan{1: nil}}
	_, _, err := Materialize(ctx, src)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
