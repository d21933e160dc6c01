package layout

import (
	"fmt"

	"github.com/pyhub-apps/docweave-golang/pkg/model"
)

// BuildOutline turns a flat, document-ordered stream of heading blocks into
// a strict tree. An H1 opens a new top-level node and resets the active H2;
// an H2 attaches to the active H1 and an H3 to the active H2. Orphans, an
// H2 before any H1 or an H3 before any H2, are dropped with a warning
// diagnostic so the tree never holds a level-3 node without a level-2
// ancestor.
func BuildOutline(headings []model.TextBlock) ([]*model.HeadingNode, []model.Diagnostic) {
	var roots []*model.HeadingNode
	var diags []model.Diagnostic
	var currentH1, currentH2 *model.HeadingNode

	orphan := func(h model.TextBlock, missing string) {
		diags = append(diags, model.Diagnostic{
			Stage:   "outline",
			Page:    h.Page,
			Kind:    "orphan_heading",
			Message: fmt.Sprintf("dropping level-%d heading %q: no active %s", h.Level, h.Text, missing),
		})
	}

	for _, h := range headings {
		node := &model.HeadingNode{Title: h.Text, Level: int(h.Level), Page: h.Page}

		switch h.Level {
		case model.LevelH1:
			roots = append(roots, node)
			currentH1 = node
			currentH2 = nil
		case model.LevelH2:
			if currentH1 == nil {
				orphan(h, "level-1 ancestor")
				continue
			}
			currentH1.Children = append(currentH1.Children, node)
			currentH2 = node
		case model.LevelH3:
			if currentH2 == nil {
				orphan(h, "level-2 ancestor")
				continue
			}
			currentH2.Children = append(currentH2.Children, node)
		}
	}

	return roots, diags
}

// CountHeadings returns the number of nodes in an outline tree.
func CountHeadings(nodes []*model.HeadingNode) int {
	n := len(nodes)
	for _, node := range nodes {
		n += CountHeadings(node.Children)
	}
	return n
}
