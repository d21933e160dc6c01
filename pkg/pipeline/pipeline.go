// Package pipeline runs the full document reconstruction pass: noise
// filtering, per-page layout analysis, cross-page table reconciliation,
// symbol normalization, and final composition into one DocumentModel.
//
// A single document is one synchronous in-memory pass; the cross-page
// aggregations (outline, logical tables) need every page before they can
// emit. Concurrency happens across documents, one pipeline instance each,
// with no shared mutable state.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pyhub-apps/docweave-golang/pkg/compose"
	"github.com/pyhub-apps/docweave-golang/pkg/layout"
	"github.com/pyhub-apps/docweave-golang/pkg/model"
	"github.com/pyhub-apps/docweave-golang/pkg/noise"
	"github.com/pyhub-apps/docweave-golang/pkg/symbols"
	"github.com/pyhub-apps/docweave-golang/pkg/tables"
)

// ErrNoExtraction reports that the pipeline received no page-extraction
// input at all. It is distinct from a document whose pages exist but hold
// no content, so callers can tell extraction-never-ran from a genuinely
// empty document.
var ErrNoExtraction = errors.New("no page extraction input")

// Config configures a Pipeline. The zero value selects every component's
// defaults.
type Config struct {
	Noise   noise.Config   `yaml:"noise"`
	Layout  layout.Config  `yaml:"layout"`
	Tables  tables.Config  `yaml:"tables"`
	Compose compose.Config `yaml:"compose"`

	// Symbols is the glyph substitution table; nil selects the built-in one.
	Symbols []symbols.Replacement `yaml:"symbols"`

	// AllowPartial returns the best-effort partial model instead of an
	// error when the context is cancelled mid-run. Partial results are
	// never produced implicitly.
	AllowPartial bool `yaml:"allow_partial"`

	Logger *slog.Logger `yaml:"-"`
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Noise.Logger == nil {
		c.Noise.Logger = c.Logger
	}
	if c.Layout.Logger == nil {
		c.Layout.Logger = c.Logger
	}
	if c.Tables.Logger == nil {
		c.Tables.Logger = c.Logger
	}
	if c.Compose.Logger == nil {
		c.Compose.Logger = c.Logger
	}
}

// Pipeline reconstructs one document per Run call. A Pipeline is cheap to
// build and holds no per-document state, so instances may be reused or
// created per document interchangeably.
type Pipeline struct {
	cfg        Config
	filter     *noise.Filter
	analyzer   *layout.Analyzer
	reconciler *tables.Reconciler
	compositor *compose.Compositor
	normalizer *symbols.Normalizer
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg:        cfg,
		filter:     noise.New(cfg.Noise),
		analyzer:   layout.New(cfg.Layout),
		reconciler: tables.New(cfg.Tables),
		compositor: compose.New(cfg.Compose),
		normalizer: symbols.New(cfg.Symbols),
	}
}

// Run executes the reconstruction pass over materialized page extractions.
// The context is checked before each page; on cancellation Run returns the
// context error, or the partial model built so far when AllowPartial is
// set. Intermediate entities live only for this call.
func (p *Pipeline) Run(ctx context.Context, pages []model.PageExtraction) (*model.DocumentModel, error) {
	if len(pages) == 0 {
		return nil, ErrNoExtraction
	}

	sorted := make([]model.PageExtraction, len(pages))
	copy(sorted, pages)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Page < sorted[j].Page })

	doc := &model.DocumentModel{}
	doc.Diagnostics = append(doc.Diagnostics, p.filter.Diagnostics()...)

	raw := make([]model.PageText, len(sorted))
	for i, pg := range sorted {
		raw[i] = model.PageText{Page: pg.Page, Text: pageRawText(pg)}
	}
	doc.Pages, doc.DroppedPages = p.filter.CleanPages(raw)

	kept := make(map[int]bool, len(doc.Pages))
	for _, pt := range doc.Pages {
		kept[pt.Page] = true
	}

	var (
		blocks     []model.TextBlock
		headings   []model.TextBlock
		candidates []model.TableCandidate
		formulas   []model.FormulaCandidate
		code       []model.CodeCandidate
		images     []model.ImageRef
	)

	for _, page := range sorted {
		if err := ctx.Err(); err != nil {
			if !p.cfg.AllowPartial {
				return nil, fmt.Errorf("reconstruct page %d: %w", page.Page, err)
			}
			doc.Diagnostics = append(doc.Diagnostics, model.Diagnostic{
				Stage:   "pipeline",
				Page:    page.Page,
				Kind:    "partial_result",
				Message: "run cancelled; document truncated before this page",
			})
			p.cfg.Logger.Warn("returning partial document", "page", page.Page, "reason", err)
			break
		}
		// Non-text content survives a noise drop: the drop threshold judges
		// cleaned text only, so a table or image on a text-light page is
		// still collected, and a cross-page table chain is not broken by
		// one sparse middle page.
		candidates = append(candidates, page.Tables...)
		formulas = append(formulas, page.Formulas...)
		code = append(code, page.Code...)
		images = append(images, page.Images...)

		if !kept[page.Page] {
			continue
		}

		res := p.analyzer.AnalyzePage(page)
		doc.Layouts = append(doc.Layouts, res.Layout)
		doc.Diagnostics = append(doc.Diagnostics, res.Diagnostics...)

		for _, b := range res.Blocks {
			if p.isFurniture(b.Text) {
				continue
			}
			blocks = append(blocks, b)
			if b.Level.IsHeading() {
				headings = append(headings, b)
			}
		}
	}

	logical := p.reconciler.Enhance(p.reconciler.Merge(candidates), doc.Pages)
	normalized := p.normalizer.NormalizeFormulas(formulas)

	items, composeDiags := p.compositor.Compose(compose.Input{
		Blocks:   blocks,
		Tables:   logical,
		Formulas: normalized,
		Code:     code,
		Images:   images,
		Layouts:  doc.Layouts,
	})
	doc.Items = items
	doc.Diagnostics = append(doc.Diagnostics, composeDiags...)

	outline, outlineDiags := layout.BuildOutline(headings)
	doc.Outline = outline
	doc.Diagnostics = append(doc.Diagnostics, outlineDiags...)
	if len(outline) > 0 {
		doc.Title = outline[0].Title
	}

	doc.Summary = model.Summary{
		Pages:      len(sorted),
		Tables:     len(logical),
		Formulas:   len(normalized),
		CodeBlocks: len(code),
		Images:     len(images),
		Headings:   layout.CountHeadings(outline),
	}

	return doc, nil
}

// isFurniture reports whether a block is pure page furniture: its text
// vanishes entirely under the noise rules.
func (p *Pipeline) isFurniture(text string) bool {
	cleaned, _ := p.filter.Clean(text)
	return strings.TrimSpace(cleaned) == ""
}

// pageRawText renders a page's spans to plain text for noise filtering and
// caption search: one line per span, with a blank line where the vertical
// gap suggests a paragraph break.
func pageRawText(page model.PageExtraction) string {
	var sb strings.Builder
	var prev *model.TextSpan

	for i := range page.Spans {
		s := &page.Spans[i]
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		if prev != nil {
			sb.WriteByte('\n')
			if gap := s.BBox.Y0 - prev.BBox.Y1; s.FontSize > 0 && gap > s.FontSize {
				sb.WriteByte('\n')
			}
		}
		sb.WriteString(text)
		prev = s
	}
	return sb.String()
}

// RunAll reconstructs several documents concurrently, one pipeline instance
// per document so no state is shared. limit caps the number of documents in
// flight; zero means unlimited. The first failing document cancels the
// rest.
func RunAll(ctx context.Context, cfg Config, docs [][]model.PageExtraction, limit int) ([]*model.DocumentModel, error) {
	results := make([]*model.DocumentModel, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, pages := range docs {
		i, pages := i, pages
		g.Go(func() error {
			doc, err := New(cfg).Run(ctx, pages)
			if err != nil {
				return fmt.Errorf("document %d: %w", i, err)
			}
			results[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
