// Package layout detects per-page column structure, produces text blocks in
// reading order, and classifies heading candidates.
//
// Column detection is a deliberately coarse heuristic: spans are partitioned
// against the page midpoint, and a page is two-column only when both sides
// hold more than a minimum number of spans. Three and more columns, and
// asymmetric column widths, are not detected.
package layout

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/pyhub-apps/docweave-golang/pkg/model"
)

// Config configures an Analyzer.
type Config struct {
	// MinColumnBlocks is the span count each midpoint partition must exceed
	// for a page to classify as two-column (default 3).
	MinColumnBlocks int `yaml:"min_column_blocks"`

	// LineTolerance is the vertical tolerance for grouping spans into one
	// line block (default 3.0).
	LineTolerance float64 `yaml:"line_tolerance"`

	// Headings holds the heading-classifier thresholds.
	Headings Thresholds `yaml:"headings"`

	// Logger for page-level degradation warnings.
	Logger *slog.Logger `yaml:"-"`
}

func (c *Config) defaults() {
	if c.MinColumnBlocks <= 0 {
		c.MinColumnBlocks = 3
	}
	if c.LineTolerance <= 0 {
		c.LineTolerance = 3.0
	}
	c.Headings.defaults()
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Analyzer performs per-page layout analysis.
type Analyzer struct {
	cfg Config
}

// New creates an Analyzer with the given configuration.
func New(cfg Config) *Analyzer {
	cfg.defaults()
	return &Analyzer{cfg: cfg}
}

// PageResult is the layout analysis output for one page.
type PageResult struct {
	Layout      model.ColumnLayout
	Blocks      []model.TextBlock // reading order: all of column 0, then column 1
	Headings    []model.TextBlock // heading blocks in reading order
	Diagnostics []model.Diagnostic
}

// AnalyzePage classifies the page's column layout, builds reading-order
// text blocks, and marks heading candidates. A page with no classifiable
// spans yields an empty result without error. Degenerate geometry (no span
// carries a usable bbox) degrades the page to single-column with heading
// detection disabled.
func (a *Analyzer) AnalyzePage(page model.PageExtraction) PageResult {
	res := PageResult{
		Layout: model.ColumnLayout{
			Page:    page.Page,
			Columns: []model.ColumnBounds{{X0: 0, X1: page.Width}},
		},
	}

	spans := usableSpans(page.Spans)
	if len(spans) == 0 {
		return res
	}

	degenerate := allZeroArea(spans)
	if degenerate {
		res.Diagnostics = append(res.Diagnostics, model.Diagnostic{
			Stage:   "layout",
			Page:    page.Page,
			Kind:    "degenerate_bbox",
			Message: "no span carries usable geometry; treating page as single-column, heading detection skipped",
		})
		a.cfg.Logger.Warn("degenerate page geometry", "page", page.Page)
	}

	twoColumn := false
	mid := page.Width / 2
	if !degenerate && page.Width > 0 {
		twoColumn = a.detectTwoColumn(spans, mid)
	}
	if twoColumn {
		res.Layout.Columns = []model.ColumnBounds{
			{X0: 0, X1: mid},
			{X0: mid, X1: page.Width},
		}
	}

	bodySize := bodyTextSize(spans)

	// Bucket spans by column, then build line blocks per column. Column 0
	// precedes column 1 entirely, even where column 1 starts higher on the
	// page.
	columns := make([][]model.TextSpan, len(res.Layout.Columns))
	for _, s := range spans {
		col := 0
		if twoColumn {
			cx, _ := s.BBox.Center()
			if cx >= mid {
				col = 1
			}
		}
		columns[col] = append(columns[col], s)
	}

	for col, colSpans := range columns {
		blocks := a.buildBlocks(colSpans, page.Page, col)
		for i := range blocks {
			if !degenerate {
				blocks[i].Level = a.cfg.Headings.Classify(blocks[i].FontSize, blocks[i].Bold, bodySize)
			}
			if blocks[i].Level.IsHeading() {
				res.Headings = append(res.Headings, blocks[i])
			}
		}
		res.Blocks = append(res.Blocks, blocks...)
	}

	return res
}

// detectTwoColumn partitions spans against the page midpoint: spans whose
// whole extent is left of it versus spans whose whole extent is right of
// it. Spans straddling the midpoint count to neither side.
func (a *Analyzer) detectTwoColumn(spans []model.TextSpan, mid float64) bool {
	var left, right int
	for _, s := range spans {
		switch {
		case s.BBox.X1 < mid:
			left++
		case s.BBox.X0 > mid:
			right++
		}
	}
	return left > a.cfg.MinColumnBlocks && right > a.cfg.MinColumnBlocks
}

// buildBlocks sorts a column's spans top-to-bottom and merges spans sharing
// a baseline (within LineTolerance) into one block per line.
func (a *Analyzer) buildBlocks(spans []model.TextSpan, page, column int) []model.TextBlock {
	if len(spans) == 0 {
		return nil
	}

	sorted := make([]model.TextSpan, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		if abs(sorted[i].BBox.Y0-sorted[j].BBox.Y0) > a.cfg.LineTolerance {
			return sorted[i].BBox.Y0 < sorted[j].BBox.Y0
		}
		return sorted[i].BBox.X0 < sorted[j].BBox.X0
	})

	var blocks []model.TextBlock
	line := []model.TextSpan{sorted[0]}
	lineY := sorted[0].BBox.Y0

	flush := func() {
		if b, ok := a.mergeLine(line, page, column); ok {
			blocks = append(blocks, b)
		}
	}

	for _, s := range sorted[1:] {
		if abs(s.BBox.Y0-lineY) > a.cfg.LineTolerance {
			flush()
			line = line[:0]
			lineY = s.BBox.Y0
		}
		line = append(line, s)
	}
	flush()

	return blocks
}

// mergeLine folds one line's spans into a TextBlock. The block inherits the
// largest span font size and is bold only when every span is bold, so a
// heading line with a plain-weight fragment stays body text.
func (a *Analyzer) mergeLine(line []model.TextSpan, page, column int) (model.TextBlock, bool) {
	var sb strings.Builder
	bbox := line[0].BBox
	fontSize := 0.0
	bold := true

	for i, s := range line {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)

		if s.FontSize > fontSize {
			fontSize = s.FontSize
		}
		bold = bold && s.Bold
		if i > 0 {
			bbox.X0 = min(bbox.X0, s.BBox.X0)
			bbox.Y0 = min(bbox.Y0, s.BBox.Y0)
			bbox.X1 = max(bbox.X1, s.BBox.X1)
			bbox.Y1 = max(bbox.Y1, s.BBox.Y1)
		}
	}

	if sb.Len() == 0 {
		return model.TextBlock{}, false
	}

	return model.TextBlock{
		Text:     sb.String(),
		Page:     page,
		BBox:     bbox,
		FontSize: fontSize,
		Bold:     bold,
		Column:   column,
		Level:    model.LevelBody,
	}, true
}

func usableSpans(spans []model.TextSpan) []model.TextSpan {
	out := make([]model.TextSpan, 0, len(spans))
	for _, s := range spans {
		if strings.TrimSpace(s.Text) != "" {
			out = append(out, s)
		}
	}
	return out
}

func allZeroArea(spans []model.TextSpan) bool {
	for _, s := range spans {
		if s.BBox.Area() > 0 {
			return false
		}
	}
	return true
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
