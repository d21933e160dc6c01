// Package compose interleaves all normalized artifacts (text blocks,
// logical tables, formulas, code and image references) into one sequence
// ordered by spatial position, and serializes that sequence to structural
// markup.
package compose

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/tidwall/rtree"

	"github.com/pyhub-apps/docweave-golang/pkg/model"
)

// Config configures a Compositor.
type Config struct {
	// OverlapThreshold is the bbox overlap fraction at which a text block
	// duplicating a table region is dropped (default 0.9).
	OverlapThreshold float64 `yaml:"overlap_threshold"`

	Logger *slog.Logger `yaml:"-"`
}

func (c *Config) defaults() {
	if c.OverlapThreshold <= 0 {
		c.OverlapThreshold = 0.9
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Compositor builds the final ordered ContentItem sequence.
type Compositor struct {
	cfg Config
}

// New creates a Compositor with the given configuration.
func New(cfg Config) *Compositor {
	cfg.defaults()
	return &Compositor{cfg: cfg}
}

// Input carries everything the compositor interleaves. Layouts are used to
// assign a column to non-text items from their bbox.
type Input struct {
	Blocks   []model.TextBlock
	Tables   []model.LogicalTable
	Formulas []model.FormulaCandidate
	Code     []model.CodeCandidate
	Images   []model.ImageRef
	Layouts  []model.ColumnLayout
}

// Compose orders every artifact by its position key (page, column, y0).
// Text blocks that duplicate a table region on the same page are dropped.
// Items lacking position metadata keep their encounter order at the end of
// their page's group.
func (c *Compositor) Compose(in Input) ([]model.ContentItem, []model.Diagnostic) {
	var diags []model.Diagnostic

	layouts := make(map[int]model.ColumnLayout, len(in.Layouts))
	for _, l := range in.Layouts {
		layouts[l.Page] = l
	}

	// Index table regions per page for the overlap queries.
	tableIndex := map[int]*rtree.RTreeG[int]{}
	for i, t := range in.Tables {
		if t.BBox.IsZero() {
			continue
		}
		tr, ok := tableIndex[t.PageStart]
		if !ok {
			tr = &rtree.RTreeG[int]{}
			tableIndex[t.PageStart] = tr
		}
		tr.Insert(
			[2]float64{t.BBox.X0, t.BBox.Y0},
			[2]float64{t.BBox.X1, t.BBox.Y1},
			i,
		)
	}

	var items []model.ContentItem

	for i := range in.Blocks {
		b := &in.Blocks[i]
		if dup, table := c.duplicatesTable(b, tableIndex, in.Tables); dup {
			diags = append(diags, model.Diagnostic{
				Stage:   "compose",
				Page:    b.Page,
				Kind:    "table_duplicate_dropped",
				Message: fmt.Sprintf("text block %.40q overlaps table region (pages %d-%d)", b.Text, table.PageStart, table.PageEnd),
			})
			continue
		}
		items = append(items, model.ContentItem{
			Kind:        model.KindText,
			Page:        b.Page,
			Column:      b.Column,
			Y0:          b.BBox.Y0,
			HasPosition: !b.BBox.IsZero(),
			Block:       b,
		})
	}

	for i := range in.Tables {
		t := &in.Tables[i]
		items = append(items, positioned(model.ContentItem{Kind: model.KindTable, Table: t},
			t.PageStart, t.BBox, layouts))
	}
	for i := range in.Formulas {
		f := &in.Formulas[i]
		items = append(items, positioned(model.ContentItem{Kind: model.KindFormula, Formula: f},
			f.Page, f.BBox, layouts))
	}
	for i := range in.Code {
		cc := &in.Code[i]
		items = append(items, positioned(model.ContentItem{Kind: model.KindCode, Code: cc},
			cc.Page, cc.BBox, layouts))
	}
	for i := range in.Images {
		img := &in.Images[i]
		items = append(items, positioned(model.ContentItem{Kind: model.KindImage, Image: img},
			img.Page, img.BBox, layouts))
	}

	sortItems(items)
	return items, diags
}

// duplicatesTable reports whether a text block overlaps a same-page table
// region beyond the configured threshold, returning the matching table.
func (c *Compositor) duplicatesTable(b *model.TextBlock, index map[int]*rtree.RTreeG[int], tables []model.LogicalTable) (bool, *model.LogicalTable) {
	tr, ok := index[b.Page]
	if !ok || b.BBox.Area() == 0 {
		return false, nil
	}

	var match *model.LogicalTable
	tr.Search(
		[2]float64{b.BBox.X0, b.BBox.Y0},
		[2]float64{b.BBox.X1, b.BBox.Y1},
		func(_, _ [2]float64, i int) bool {
			if b.BBox.OverlapRatio(tables[i].BBox) >= c.cfg.OverlapThreshold {
				match = &tables[i]
				return false
			}
			return true
		},
	)
	return match != nil, match
}

// positioned fills an item's position key from its originating bbox,
// assigning the column whose x-range holds the bbox center.
func positioned(item model.ContentItem, page int, bbox model.BoundingBox, layouts map[int]model.ColumnLayout) model.ContentItem {
	item.Page = page
	if bbox.IsZero() {
		return item
	}

	item.HasPosition = true
	item.Y0 = bbox.Y0
	if l, ok := layouts[page]; ok {
		cx, _ := bbox.Center()
		for i, col := range l.Columns {
			if cx >= col.X0 && cx <= col.X1 {
				item.Column = i
				break
			}
		}
	}
	return item
}

// sortItems orders items by page, then column, then vertical position.
// The sort is stable, so un-positioned items trail their page group in
// encounter order.
func sortItems(items []model.ContentItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		if a.HasPosition != b.HasPosition {
			return a.HasPosition
		}
		if !a.HasPosition {
			return false
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Y0 < b.Y0
	})
}
