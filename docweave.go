// Package docweave reconstructs a reading-order-correct, structurally
// faithful document from raw, position-tagged page extractions: headings
// form an outline tree, table fragments merge across pages, formulas are
// normalized, and all content interleaves by spatial position.
package docweave

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pyhub-apps/docweave-golang/pkg/compose"
	"github.com/pyhub-apps/docweave-golang/pkg/layout"
	"github.com/pyhub-apps/docweave-golang/pkg/model"
	"github.com/pyhub-apps/docweave-golang/pkg/noise"
	"github.com/pyhub-apps/docweave-golang/pkg/pageaccess"
	"github.com/pyhub-apps/docweave-golang/pkg/pipeline"
	"github.com/pyhub-apps/docweave-golang/pkg/symbols"
)

// Re-export the public data model.
type (
	BoundingBox    = model.BoundingBox
	TextSpan       = model.TextSpan
	PageExtraction = model.PageExtraction
	TableCandidate = model.TableCandidate
	LogicalTable   = model.LogicalTable
	ContentItem    = model.ContentItem
	HeadingNode    = model.HeadingNode
	DocumentModel  = model.DocumentModel
	Summary        = model.Summary
	Diagnostic     = model.Diagnostic
	Source         = pageaccess.Source
)

// ErrNoExtraction reports entirely missing page-extraction input.
var ErrNoExtraction = pipeline.ErrNoExtraction

// Option adjusts the pipeline configuration.
type Option func(*pipeline.Config)

// WithNoiseRules replaces the built-in noise rule set.
func WithNoiseRules(rules []noise.Rule) Option {
	return func(c *pipeline.Config) { c.Noise.Rules = rules }
}

// WithSymbolTable replaces the built-in glyph substitution table.
func WithSymbolTable(table []symbols.Replacement) Option {
	return func(c *pipeline.Config) { c.Symbols = table }
}

// WithHeadingThresholds overrides the heading-classifier thresholds.
func WithHeadingThresholds(t layout.Thresholds) Option {
	return func(c *pipeline.Config) { c.Layout.Headings = t }
}

// WithLogger routes every component's diagnostics to the given logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *pipeline.Config) { c.Logger = l }
}

// WithPartialResults makes a cancelled run return the best-effort partial
// document instead of an error.
func WithPartialResults() Option {
	return func(c *pipeline.Config) { c.AllowPartial = true }
}

// Reconstruct runs the reconstruction pipeline over materialized page
// extractions and returns the document model.
func Reconstruct(ctx context.Context, pages []PageExtraction, opts ...Option) (*DocumentModel, error) {
	var cfg pipeline.Config
	for _, opt := range opts {
		opt(&cfg)
	}
	return pipeline.New(cfg).Run(ctx, pages)
}

// ReconstructFile opens a PDF file, materializes its pages, and
// reconstructs the document.
func ReconstructFile(ctx context.Context, path string, opts ...Option) (*DocumentModel, error) {
	src, err := pageaccess.Open(path)
	if err != nil {
		return nil, fmt.Errorf("docweave: %w", err)
	}
	defer src.Close()

	return ReconstructSource(ctx, src, opts...)
}

// ReconstructSource materializes pages from any page-access source and
// reconstructs the document. The caller keeps ownership of the source.
func ReconstructSource(ctx context.Context, src Source, opts ...Option) (*DocumentModel, error) {
	pages, diags, err := pageaccess.Materialize(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("docweave: %w", err)
	}

	doc, err := Reconstruct(ctx, pages, opts...)
	if err != nil {
		return nil, err
	}
	doc.Diagnostics = append(doc.Diagnostics, diags...)
	return doc, nil
}

// Markdown serializes a reconstructed document to Markdown.
func Markdown(doc *DocumentModel) string {
	return compose.Render(doc)
}
