package pageaccess

import (
	"strings"
	"testing"

	"github.com/pyhub-apps/docweave-golang/pkg/model"
)

func span(text string, x0, y0, x1, y1 float64) model.TextSpan {
	return model.TextSpan{
		Text:     text,
		BBox:     model.BoundingBox{X0: x0, Y0: y0, X1: x1, Y1: y1},
		FontSize: 10,
	}
}

func TestDetectTablesAlignedRows(t *testing.T) {
	// Three rows of two cells each, vertically adjacent.
	spans := []model.TextSpan{
		span("Protocol", 50, 100, 110, 110),
		span("Port", 200, 100, 240, 110),
		span("HTTP", 50, 115, 90, 125),
		span("80", 200, 115, 220, 125),
		span("HTTPS", 50, 130, 95, 140),
		span("443", 200, 130, 225, 140),
	}

	tables := DetectTables(spans, 3)
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}

	got := tables[0]
	if got.Page != 3 {
		t.Errorf("page = %d, want 3", got.Page)
	}
	if got.ColumnCount != 2 {
		t.Errorf("column count = %d, want 2", got.ColumnCount)
	}
	if len(got.Header) != 2 || got.Header[0] != "Protocol" {
		t.Errorf("header = %v", got.Header)
	}
	if len(got.Rows) != 2 || got.Rows[1][1] != "443" {
		t.Errorf("rows = %v", got.Rows)
	}
	if got.BBox.X0 != 50 || got.BBox.Y1 != 140 {
		t.Errorf("bbox = %+v", got.BBox)
	}
}

func TestDetectTablesIgnoresShortRuns(t *testing.T) {
	// Only two aligned rows: below the minimum run length.
	spans := []model.TextSpan{
		span("A", 50, 100, 60, 110),
		span("B", 200, 100, 210, 110),
		span("1", 50, 115, 60, 125),
		span("2", 200, 115, 210, 125),
	}

	if tables := DetectTables(spans, 1); len(tables) != 0 {
		t.Errorf("two-row run must not become a table, got %v", tables)
	}
}

func TestDetectTablesIgnoresProse(t *testing.T) {
	// One span per line is prose, regardless of how many lines there are.
	var spans []model.TextSpan
	for i := 0; i < 6; i++ {
		spans = append(spans, span("a line of ordinary text", 50, float64(100+i*15), 300, float64(110+i*15)))
	}

	if tables := DetectTables(spans, 1); len(tables) != 0 {
		t.Errorf("single-column prose must not become a table, got %v", tables)
	}
}

func TestDetectCodeMonospaceBlock(t *testing.T) {
	mono := func(text string, y0 float64) model.TextSpan {
		s := span(text, 50, y0, 300, y0+10)
		s.FontName = "CourierNew"
		return s
	}

	spans := []model.TextSpan{
		span("An ordinary paragraph.", 50, 80, 300, 90),
		mono("def greet(name):", 100),
		mono("return f\"hi {name}\"", 112),
	}

	rest, code := DetectCode(spans, 2)

	if len(code) != 1 {
		t.Fatalf("got %d code candidates, want 1", len(code))
	}
	if code[0].Language != "python" {
		t.Errorf("language = %q, want python", code[0].Language)
	}
	if !strings.Contains(code[0].Code, "def greet") {
		t.Errorf("code = %q", code[0].Code)
	}
	if code[0].Page != 2 {
		t.Errorf("page = %d, want 2", code[0].Page)
	}

	if len(rest) != 1 || rest[0].Text != "An ordinary paragraph." {
		t.Errorf("rest = %v", rest)
	}
}

func TestDetectCodeDiscardsShortFragments(t *testing.T) {
	s := span("x=1", 50, 100, 80, 110)
	s.FontName = "Menlo"

	rest, code := DetectCode([]model.TextSpan{s}, 1)
	if len(code) != 0 {
		t.Errorf("short monospace fragment must not be code, got %v", code)
	}
	if len(rest) != 0 {
		// Consumed by the monospace partition either way; it is noise, not text.
		t.Errorf("rest = %v", rest)
	}
}

func TestDetectFormulasGlyphDensity(t *testing.T) {
	spans := []model.TextSpan{
		span("The value α is small.", 50, 100, 200, 110), // one glyph: stays text
		span("α ≤ β + γ", 50, 120, 150, 130),
	}

	rest, formulas := DetectFormulas(spans, 4)

	if len(formulas) != 1 {
		t.Fatalf("got %d formulas, want 1", len(formulas))
	}
	if formulas[0].LaTeX != "α ≤ β + γ" {
		t.Errorf("latex = %q", formulas[0].LaTeX)
	}
	if len(rest) != 1 || !strings.Contains(rest[0].Text, "value α") {
		t.Errorf("rest = %v", rest)
	}
}

func TestGuessLanguagePriority(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"#include <stdio.h>\nint main() {}", "c"},
		{"import os\ndef main():", "python"},
		{"package main\nfunc main() {}", "go"},
		{"SELECT id FROM users", "sql"},
		{"MOV AX, BX", ""},
	}
	for _, tc := range cases {
		if got := guessLanguage(tc.code); got != tc.want {
			t.Errorf("guessLanguage(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestBoldFont(t *testing.T) {
	for name, want := range map[string]bool{
		"Helvetica-Bold":    true,
		"Arial Black":       true,
		"NotoSans-SemiBold": true,
		"Times-Roman":       false,
	} {
		if got := boldFont(name); got != want {
			t.Errorf("boldFont(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestRunsToSpansAssemblesWords(t *testing.T) {
	// Per-glyph runs on one baseline, with a wide gap in the middle.
	runs := []textRun{
		{text: "H", x: 50, y: 700, w: 6, size: 10, font: "Helvetica"},
		{text: "i", x: 56, y: 700, w: 3, size: 10, font: "Helvetica"},
		{text: "!", x: 200, y: 700, w: 4, size: 10, font: "Helvetica"},
	}

	spans := runsToSpans(runs, 792)
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2: %v", len(spans), spans)
	}
	if spans[0].Text != "Hi" {
		t.Errorf("first span = %q, want Hi", spans[0].Text)
	}

	// Top-left origin: y0 = pageHeight - (baseline + 0.8*size).
	wantY0 := 792 - (700 + 8.0)
	if spans[0].BBox.Y0 != wantY0 {
		t.Errorf("y0 = %v, want %v", spans[0].BBox.Y0, wantY0)
	}
}

func TestRunsToSpansSeparatesLines(t *testing.T) {
	runs := []textRun{
		{text: "below", x: 50, y: 680, w: 30, size: 10, font: "Helvetica"},
		{text: "above", x: 50, y: 700, w: 30, size: 10, font: "Helvetica"},
	}

	spans := runsToSpans(runs, 792)
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	// Higher on the page (larger PDF y) comes first.
	if spans[0].Text != "above" || spans[1].Text != "below" {
		t.Errorf("order = %q, %q", spans[0].Text, spans[1].Text)
	}
	if spans[0].BBox.Y0 >= spans[1].BBox.Y0 {
		t.Errorf("top-left ordering broken: %v >= %v", spans[0].BBox.Y0, spans[1].BBox.Y0)
	}
}
