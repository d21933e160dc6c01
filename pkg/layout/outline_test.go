package layout

import (
	"testing"

	"github.com/pyhub-apps/docweave-golang/pkg/model"
)

func heading(text string, level model.HeadingLevel, page int) model.TextBlock {
	return model.TextBlock{Text: text, Level: level, Page: page}
}

func TestBuildOutlineTree(t *testing.T) {
	headings := []model.TextBlock{
		heading("Networking", model.LevelH1, 1),
		heading("Transport Layer", model.LevelH2, 2),
		heading("TCP", model.LevelH3, 2),
		heading("UDP", model.LevelH3, 3),
		heading("Application Layer", model.LevelH2, 4),
		heading("Security", model.LevelH1, 5),
		heading("TLS", model.LevelH2, 5),
	}

	roots, diags := BuildOutline(headings)

	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
	if len(roots) != 2 {
		t.Fatalf("got %d roots, want 2", len(roots))
	}

	net := roots[0]
	if net.Title != "Networking" || len(net.Children) != 2 {
		t.Fatalf("bad first root: %+v", net)
	}
	transport := net.Children[0]
	if len(transport.Children) != 2 || transport.Children[0].Title != "TCP" {
		t.Errorf("TCP/UDP should attach under Transport Layer: %+v", transport)
	}
	if len(net.Children[1].Children) != 0 {
		t.Errorf("Application Layer should have no children")
	}
	if roots[1].Children[0].Title != "TLS" {
		t.Errorf("TLS should attach under Security")
	}
}

func TestBuildOutlineDropsOrphans(t *testing.T) {
	headings := []model.TextBlock{
		heading("Orphan Section", model.LevelH2, 1),    // no H1 yet
		heading("Orphan Subsection", model.LevelH3, 1), // no H2 yet
		heading("Intro", model.LevelH1, 2),
		heading("Still Orphan H3", model.LevelH3, 2), // H1 exists but no H2
		heading("Details", model.LevelH2, 3),
		heading("Fine Print", model.LevelH3, 3),
	}

	roots, diags := BuildOutline(headings)

	if len(roots) != 1 {
		t.Fatalf("got %d roots, want 1", len(roots))
	}
	if len(diags) != 3 {
		t.Fatalf("got %d diagnostics, want 3: %+v", len(diags), diags)
	}
	for _, d := range diags {
		if d.Kind != "orphan_heading" {
			t.Errorf("unexpected diagnostic kind %q", d.Kind)
		}
	}

	// Every level-3 node's parent must be a level-2 node.
	var walk func(parent *model.HeadingNode, nodes []*model.HeadingNode)
	walk = func(parent *model.HeadingNode, nodes []*model.HeadingNode) {
		for _, n := range nodes {
			if n.Level == 3 && (parent == nil || parent.Level != 2) {
				t.Errorf("level-3 node %q has non-level-2 parent", n.Title)
			}
			walk(n, n.Children)
		}
	}
	walk(nil, roots)

	if CountHeadings(roots) != 3 {
		t.Errorf("CountHeadings = %d, want 3", CountHeadings(roots))
	}
}

func TestBuildOutlineH1ResetsActiveH2(t *testing.T) {
	headings := []model.TextBlock{
		heading("Part I", model.LevelH1, 1),
		heading("Chapter 1", model.LevelH2, 1),
		heading("Part II", model.LevelH1, 5),
		heading("Dangling Sub", model.LevelH3, 5), // H2 pointer was reset by Part II
	}

	roots, diags := BuildOutline(headings)

	if len(roots) != 2 {
		t.Fatalf("got %d roots, want 2", len(roots))
	}
	if len(roots[1].Children) != 0 {
		t.Errorf("Part II should have no children, got %+v", roots[1].Children)
	}
	if len(diags) != 1 || diags[0].Kind != "orphan_heading" {
		t.Errorf("expected one orphan diagnostic, got %+v", diags)
	}
}
