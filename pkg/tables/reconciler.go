// Package tables merges raw table fragments that continue across
// consecutive pages into logical tables, and attaches captions and
// surrounding context from cleaned page text.
package tables

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/pyhub-apps/docweave-golang/pkg/model"
)

// Config configures a Reconciler.
type Config struct {
	// HeaderMatchThreshold is the fraction of header cells that must match
	// (strictly exceeded) for a repeated header to count as a continuation
	// (default 0.7).
	HeaderMatchThreshold float64 `yaml:"header_match_threshold"`

	// ContextMinLength is the minimum length of a paragraph considered as
	// table context (default 20).
	ContextMinLength int `yaml:"context_min_length"`

	// ContextMaxLength bounds the extracted context paragraph (default 200).
	ContextMaxLength int `yaml:"context_max_length"`

	Logger *slog.Logger `yaml:"-"`
}

func (c *Config) defaults() {
	if c.HeaderMatchThreshold <= 0 {
		c.HeaderMatchThreshold = 0.7
	}
	if c.ContextMinLength <= 0 {
		c.ContextMinLength = 20
	}
	if c.ContextMaxLength <= 0 {
		c.ContextMaxLength = 200
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Reconciler folds table fragments into logical tables.
type Reconciler struct {
	cfg Config
}

// New creates a Reconciler with the given configuration.
func New(cfg Config) *Reconciler {
	cfg.defaults()
	return &Reconciler{cfg: cfg}
}

// Merge sorts candidates by page and folds them left to right: each
// candidate either extends the pending table or closes it and opens a new
// one. The final pending table is flushed at the end. Ragged rows are
// carried as-is; no repair is attempted.
func (r *Reconciler) Merge(candidates []model.TableCandidate) []model.LogicalTable {
	if len(candidates) == 0 {
		return nil
	}

	sorted := make([]model.TableCandidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Page < sorted[j].Page
	})

	var merged []model.LogicalTable
	pending := open(sorted[0])

	for _, c := range sorted[1:] {
		if r.shouldMerge(pending, c) {
			pending.Rows = append(pending.Rows, c.Rows...)
			pending.PageEnd = c.Page
			pending.Merged = true
			continue
		}
		merged = append(merged, pending)
		pending = open(c)
	}

	return append(merged, pending)
}

// open starts a logical table from its first fragment. The logical table
// keeps the first fragment's bbox as its position anchor.
func open(c model.TableCandidate) model.LogicalTable {
	rows := make([][]string, len(c.Rows))
	copy(rows, c.Rows)

	return model.LogicalTable{
		PageStart:   c.Page,
		PageEnd:     c.Page,
		BBox:        c.BBox,
		Header:      c.Header,
		Rows:        rows,
		ColumnCount: c.ColumnCount,
	}
}

// shouldMerge decides whether a candidate continues the pending table:
// the candidate must sit on the page immediately after the pending table's
// last page, share its column count, and carry either a blank header or a
// header matching the pending one in strictly more than the configured
// fraction of positions (case-insensitive, trimmed). A match of exactly the
// threshold does not merge.
func (r *Reconciler) shouldMerge(pending model.LogicalTable, c model.TableCandidate) bool {
	if c.Page != pending.PageEnd+1 {
		return false
	}
	if c.ColumnCount != pending.ColumnCount {
		return false
	}

	if blankHeader(c.Header) {
		return true
	}
	if len(c.Header) != len(pending.Header) || len(pending.Header) == 0 {
		return false
	}

	matching := 0
	for i := range c.Header {
		if strings.EqualFold(strings.TrimSpace(c.Header[i]), strings.TrimSpace(pending.Header[i])) {
			matching++
		}
	}
	return float64(matching)/float64(len(pending.Header)) > r.cfg.HeaderMatchThreshold
}

// blankHeader reports whether a header row is missing or entirely blank.
func blankHeader(header []string) bool {
	for _, h := range header {
		if strings.TrimSpace(h) != "" {
			return false
		}
	}
	return true
}
