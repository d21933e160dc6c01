package compose

import (
	"fmt"
	"strings"

	"github.com/pyhub-apps/docweave-golang/pkg/model"
)

// langNames maps detected language names to fenced-code-block hints.
var langNames = map[string]string{
	"python":     "python",
	"javascript": "javascript",
	"java":       "java",
	"c++":        "cpp",
	"c":          "c",
	"bash":       "bash",
	"shell":      "bash",
	"sql":        "sql",
	"html":       "html",
	"css":        "css",
	"json":       "json",
	"xml":        "xml",
	"yaml":       "yaml",
	"markdown":   "markdown",
	"plaintext":  "",
	"text":       "",
}

// Render serializes a DocumentModel to Markdown: sized heading markers,
// pipe-delimited tables with caption and context, fenced formula and code
// blocks, image placeholders, and a trailing metadata section. Items appear
// in their final interleaved order, grouped under per-page headings.
func Render(doc *model.DocumentModel) string {
	var sections []string

	if doc.Title != "" {
		sections = append(sections, "# "+doc.Title)
	}

	currentPage := 0
	var page []string
	flush := func() {
		if len(page) > 0 {
			sections = append(sections, strings.Join(page, "\n\n"))
			page = nil
		}
	}

	for i := range doc.Items {
		item := &doc.Items[i]
		if item.Page != currentPage {
			flush()
			currentPage = item.Page
			page = append(page, fmt.Sprintf("## Page %d", currentPage))
		}
		if md := renderItem(item); md != "" {
			page = append(page, md)
		}
	}
	flush()

	sections = append(sections, renderSummary(doc.Summary))
	return strings.Join(sections, "\n\n")
}

func renderItem(item *model.ContentItem) string {
	switch item.Kind {
	case model.KindText:
		return renderText(item.Block)
	case model.KindTable:
		return renderTable(item.Table)
	case model.KindFormula:
		return renderFormula(item.Formula)
	case model.KindCode:
		return renderCode(item.Code)
	case model.KindImage:
		return renderImage(item.Image)
	default:
		return ""
	}
}

func renderText(b *model.TextBlock) string {
	text := strings.TrimSpace(b.Text)
	if text == "" {
		return ""
	}
	if b.Level.IsHeading() {
		return strings.Repeat("#", int(b.Level)) + " " + text
	}
	return text
}

func renderTable(t *model.LogicalTable) string {
	if len(t.Header) == 0 && len(t.Rows) == 0 {
		return ""
	}

	var lines []string
	if t.Caption != "" {
		lines = append(lines, "### "+t.Caption)
	}
	if t.Context != "" {
		lines = append(lines, "*"+t.Context+"*")
	}

	header := t.Header
	if len(header) == 0 || allBlank(header) {
		n := t.ColumnCount
		if n == 0 && len(t.Rows) > 0 {
			n = len(t.Rows[0])
		}
		header = make([]string, n)
		for i := range header {
			header[i] = fmt.Sprintf("Column %d", i+1)
		}
	}

	lines = append(lines, "| "+joinCells(header, len(header))+" |")

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	lines = append(lines, "| "+strings.Join(sep, " | ")+" |")

	for _, row := range t.Rows {
		lines = append(lines, "| "+joinCells(row, len(header))+" |")
	}

	if t.PageStart == t.PageEnd {
		lines = append(lines, fmt.Sprintf("<!-- Source: Page %d -->", t.PageStart))
	} else {
		lines = append(lines, fmt.Sprintf("<!-- Source: Pages %d-%d -->", t.PageStart, t.PageEnd))
	}

	return strings.Join(lines, "\n")
}

// joinCells pads or trims a row to width cells and joins them.
func joinCells(row []string, width int) string {
	cells := make([]string, width)
	for i := 0; i < width; i++ {
		if i < len(row) {
			cells[i] = strings.TrimSpace(row[i])
		}
	}
	return strings.Join(cells, " | ")
}

func allBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func renderFormula(f *model.FormulaCandidate) string {
	latex := strings.TrimSpace(f.LaTeX)
	if latex == "" {
		return ""
	}

	block := len(latex) > 50 || strings.Contains(latex, "\n") || strings.Contains(latex, `\begin`)
	if block {
		return "$$\n" + latex + "\n$$"
	}
	return "$" + latex + "$"
}

func renderCode(c *model.CodeCandidate) string {
	code := strings.TrimSpace(c.Code)
	if code == "" {
		return ""
	}

	lang := strings.ToLower(c.Language)
	if mapped, ok := langNames[lang]; ok {
		lang = mapped
	}

	var lines []string
	if lang != "" {
		lines = append(lines, "```"+lang)
	} else {
		lines = append(lines, "```")
	}
	lines = append(lines, code, "```")
	lines = append(lines, fmt.Sprintf("<!-- Code from page %d -->", c.Page))
	return strings.Join(lines, "\n")
}

func renderImage(img *model.ImageRef) string {
	format := img.Format
	if format == "" {
		format = "png"
	}
	alt := fmt.Sprintf("Image %d from page %d (%dx%d)", img.Index, img.Page, img.Width, img.Height)
	filename := fmt.Sprintf("image_p%d_%d.%s", img.Page, img.Index, format)
	return fmt.Sprintf("![%s](%s)", alt, filename)
}

func renderSummary(s model.Summary) string {
	return strings.Join([]string{
		"---",
		"",
		"## Document Metadata",
		"",
		fmt.Sprintf("- **Total Pages**: %d", s.Pages),
		fmt.Sprintf("- **Tables**: %d", s.Tables),
		fmt.Sprintf("- **Formulas**: %d", s.Formulas),
		fmt.Sprintf("- **Code Blocks**: %d", s.CodeBlocks),
		fmt.Sprintf("- **Images**: %d", s.Images),
		fmt.Sprintf("- **Headings**: %d", s.Headings),
	}, "\n")
}
