package tables

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pyhub-apps/docweave-golang/pkg/model"
)

// captionPatterns is the documented-priority list of caption forms. The
// first matching pattern wins, so the order here is behavior-defining.
var captionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(Table\s+\d+[:.][^\n]*)`),  // Table 1: Network Protocols
	regexp.MustCompile(`(表\s*\d+[：:.][^\n]*)`),         // 表1：网络协议
	regexp.MustCompile(`(?i)(Figure\s+\d+[:.][^\n]*)`), // tables sometimes labeled as figures
	regexp.MustCompile(`(?i)(Fig\.\s*\d+[:.][^\n]*)`),  // Fig. 1: ...
}

// Enhance attaches a caption and a context paragraph to every logical
// table, using the cleaned text of the table's starting page. When no
// caption pattern matches, one is synthesized from the table's ordinal and
// starting page.
func (r *Reconciler) Enhance(tables []model.LogicalTable, pages []model.PageText) []model.LogicalTable {
	if len(tables) == 0 {
		return tables
	}

	text := make(map[int]string, len(pages))
	for _, p := range pages {
		text[p.Page] = p.Text
	}

	enhanced := make([]model.LogicalTable, len(tables))
	for i, t := range tables {
		pageText := text[t.PageStart]

		if caption := findCaption(pageText); caption != "" {
			t.Caption = caption
		} else {
			t.Caption = fmt.Sprintf("Table %d (Page %d)", i+1, t.PageStart)
		}
		t.Context = r.extractContext(pageText)

		enhanced[i] = t
	}
	return enhanced
}

// findCaption returns the first caption-pattern match in priority order.
func findCaption(pageText string) string {
	if pageText == "" {
		return ""
	}
	for _, re := range captionPatterns {
		if m := re.FindStringSubmatch(pageText); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// extractContext picks the nearest preceding paragraph that is long enough
// and not purely numeric, bounded to the configured maximum length.
func (r *Reconciler) extractContext(pageText string) string {
	paragraphs := strings.Split(pageText, "\n\n")

	for i := len(paragraphs) - 1; i >= 0; i-- {
		para := strings.TrimSpace(paragraphs[i])
		if len(para) <= r.cfg.ContextMinLength || numericOnly(para) {
			continue
		}
		if len(para) > r.cfg.ContextMaxLength {
			return truncate(para, r.cfg.ContextMaxLength) + "..."
		}
		return para
	}
	return ""
}

func numericOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// truncate cuts at a byte budget without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}
