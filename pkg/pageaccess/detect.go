package pageaccess

import (
	"sort"
	"strings"

	"github.com/pyhub-apps/docweave-golang/pkg/model"
)

const (
	// minTableRows is the smallest row run that qualifies as a table.
	minTableRows = 3
	// minTableColumns is the smallest per-row cell count that qualifies.
	minTableColumns = 2
	// minCodeLength filters out monospace fragments too short to be code.
	minCodeLength = 10
	// rowTolerance groups spans sharing a baseline into one row.
	rowTolerance = 3.0
)

// mathGlyphs are the characters whose presence marks a span as formula
// content. Two or more occurrences are required so prose mentioning a
// single Greek letter stays text.
const mathGlyphs = "αβγδεζηθικλμνξπρστυφχψωΓΔΘΛΞΠΣΦΨΩ∑∏∫√∞≈≠≤≥±×÷∂∇∈∉⊂⊆∪∩→←↔⇒⇔∀∃"

// monospaceHints mark a font name as a code face.
var monospaceHints = []string{"mono", "courier", "consolas", "menlo", "code"}

// DetectTables finds table candidates by span alignment: a run of three or
// more vertically adjacent rows holding the same number of cells. The first
// row of a run becomes the header. This is deliberately coarse; ruled-line
// detection and cell spans are out of scope.
func DetectTables(spans []model.TextSpan, page int) []model.TableCandidate {
	rows := groupRows(spans)

	var tables []model.TableCandidate
	start := 0
	for start < len(rows) {
		n := len(rows[start])
		end := start + 1
		for end < len(rows) && len(rows[end]) == n && adjacentRows(rows[end-1], rows[end]) {
			end++
		}

		if n >= minTableColumns && end-start >= minTableRows {
			tables = append(tables, buildCandidate(rows[start:end], page, n))
		}
		start = end
	}
	return tables
}

// groupRows buckets spans into baseline rows, top to bottom, cells left to
// right.
func groupRows(spans []model.TextSpan) [][]model.TextSpan {
	usable := make([]model.TextSpan, 0, len(spans))
	for _, s := range spans {
		if strings.TrimSpace(s.Text) != "" {
			usable = append(usable, s)
		}
	}
	if len(usable) == 0 {
		return nil
	}

	sort.SliceStable(usable, func(i, j int) bool {
		if diff := usable[i].BBox.Y0 - usable[j].BBox.Y0; diff < -rowTolerance || diff > rowTolerance {
			return usable[i].BBox.Y0 < usable[j].BBox.Y0
		}
		return usable[i].BBox.X0 < usable[j].BBox.X0
	})

	var rows [][]model.TextSpan
	row := []model.TextSpan{usable[0]}
	for _, s := range usable[1:] {
		if s.BBox.Y0-row[0].BBox.Y0 > rowTolerance {
			rows = append(rows, row)
			row = nil
		}
		row = append(row, s)
	}
	return append(rows, row)
}

// adjacentRows reports whether two consecutive rows are close enough
// vertically to belong to the same table body.
func adjacentRows(above, below []model.TextSpan) bool {
	gap := below[0].BBox.Y0 - above[0].BBox.Y1
	limit := above[0].BBox.Height() * 2
	if limit <= 0 {
		limit = 20
	}
	return gap < limit
}

func buildCandidate(rows [][]model.TextSpan, page, columns int) model.TableCandidate {
	c := model.TableCandidate{Page: page, ColumnCount: columns}

	for i, row := range rows {
		cells := make([]string, len(row))
		for j, s := range row {
			cells[j] = strings.TrimSpace(s.Text)
			c.BBox = unionBox(c.BBox, s.BBox)
		}
		if i == 0 {
			c.Header = cells
			continue
		}
		c.Rows = append(c.Rows, cells)
	}
	return c
}

func unionBox(a, b model.BoundingBox) model.BoundingBox {
	if a.IsZero() {
		return b
	}
	if b.X0 < a.X0 {
		a.X0 = b.X0
	}
	if b.Y0 < a.Y0 {
		a.Y0 = b.Y0
	}
	if b.X1 > a.X1 {
		a.X1 = b.X1
	}
	if b.Y1 > a.Y1 {
		a.Y1 = b.Y1
	}
	return a
}

// DetectCode pulls monospace-font spans out of the text stream and groups
// vertically adjacent ones into code candidates. Remaining spans are
// returned for normal text processing.
func DetectCode(spans []model.TextSpan, page int) ([]model.TextSpan, []model.CodeCandidate) {
	var rest, mono []model.TextSpan
	for _, s := range spans {
		if monospaceFont(s.FontName) {
			mono = append(mono, s)
		} else {
			rest = append(rest, s)
		}
	}
	if len(mono) == 0 {
		return rest, nil
	}

	sort.SliceStable(mono, func(i, j int) bool {
		if diff := mono[i].BBox.Y0 - mono[j].BBox.Y0; diff < -rowTolerance || diff > rowTolerance {
			return mono[i].BBox.Y0 < mono[j].BBox.Y0
		}
		return mono[i].BBox.X0 < mono[j].BBox.X0
	})

	var code []model.CodeCandidate
	block := []model.TextSpan{mono[0]}

	flush := func() {
		if c, ok := buildCode(block, page); ok {
			code = append(code, c)
		}
	}

	for _, s := range mono[1:] {
		prev := block[len(block)-1]
		gap := s.BBox.Y0 - prev.BBox.Y1
		if limit := prev.BBox.Height() * 1.5; gap > limit && limit > 0 {
			flush()
			block = block[:0]
		}
		block = append(block, s)
	}
	flush()

	return rest, code
}

// buildCode joins one monospace block into a candidate, one source line per
// baseline row. Blocks shorter than minCodeLength are discarded as stray
// monospace fragments.
func buildCode(block []model.TextSpan, page int) (model.CodeCandidate, bool) {
	var lines []string
	var bbox model.BoundingBox
	lineY := block[0].BBox.Y0
	var line []string

	for _, s := range block {
		if s.BBox.Y0-lineY > rowTolerance {
			lines = append(lines, strings.Join(line, " "))
			line = nil
			lineY = s.BBox.Y0
		}
		line = append(line, s.Text)
		bbox = unionBox(bbox, s.BBox)
	}
	lines = append(lines, strings.Join(line, " "))

	text := strings.TrimSpace(strings.Join(lines, "\n"))
	if len(text) < minCodeLength {
		return model.CodeCandidate{}, false
	}

	return model.CodeCandidate{
		Page:     page,
		BBox:     bbox,
		Language: guessLanguage(text),
		Code:     text,
	}, true
}

func monospaceFont(name string) bool {
	lower := strings.ToLower(name)
	for _, hint := range monospaceHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// guessLanguage picks a fenced-block language hint from telltale tokens.
// First match wins; unknown code gets no hint.
func guessLanguage(code string) string {
	switch {
	case strings.Contains(code, "#include"):
		return "c"
	case strings.Contains(code, "def ") || strings.Contains(code, "import "):
		return "python"
	case strings.Contains(code, "func ") || strings.Contains(code, "package "):
		return "go"
	case strings.Contains(code, "function ") || strings.Contains(code, "console.log"):
		return "javascript"
	case strings.Contains(code, "public class") || strings.Contains(code, "System.out"):
		return "java"
	case strings.Contains(strings.ToUpper(code), "SELECT ") && strings.Contains(strings.ToUpper(code), " FROM "):
		return "sql"
	default:
		return ""
	}
}

// DetectFormulas pulls spans dense in math glyphs out of the text stream as
// formula candidates. Remaining spans are returned for normal processing.
func DetectFormulas(spans []model.TextSpan, page int) ([]model.TextSpan, []model.FormulaCandidate) {
	var rest []model.TextSpan
	var formulas []model.FormulaCandidate

	for _, s := range spans {
		if countMathGlyphs(s.Text) < 2 {
			rest = append(rest, s)
			continue
		}
		formulas = append(formulas, model.FormulaCandidate{
			Page:  page,
			BBox:  s.BBox,
			LaTeX: strings.TrimSpace(s.Text),
		})
	}
	return rest, formulas
}

func countMathGlyphs(s string) int {
	n := 0
	for _, r := range s {
		if strings.ContainsRune(mathGlyphs, r) {
			n++
		}
	}
	return n
}
