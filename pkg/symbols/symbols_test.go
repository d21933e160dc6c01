package symbols

import (
	"strings"
	"testing"

	"github.com/pyhub-apps/docweave-golang/pkg/model"
)

func TestNormalize(t *testing.T) {
	n := New(nil)

	tests := []struct {
		input string
		want  string
	}{
		{"α + β = γ", `\alpha + \beta = \gamma`},
		{"x ≤ y ≥ z", `x \leq y \geq z`},
		{"∑ f(x) ∂ x", `\sum f(x) \partial x`},
		{"E = mc^2", "E = mc^2"}, // nothing to rewrite
		{"", ""},
		{"未知 glyph passes through ♠", "未知 glyph passes through ♠"},
	}

	for _, tc := range tests {
		got := n.Normalize(tc.input)
		if got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	n := New(nil)
	input := "Δx ≈ ε ± ∞"

	first := n.Normalize(input)
	second := n.Normalize(input)
	if first != second {
		t.Errorf("normalization not deterministic: %q vs %q", first, second)
	}
}

func TestNormalizeFormulas(t *testing.T) {
	n := New(nil)

	in := []model.FormulaCandidate{
		{Page: 1, LaTeX: "π r^2"},
		{Page: 2, LaTeX: "a × b"},
	}
	out := n.NormalizeFormulas(in)

	if len(out) != 2 {
		t.Fatalf("got %d formulas, want 2", len(out))
	}
	if out[0].LaTeX != `\pi r^2` {
		t.Errorf("out[0].LaTeX = %q", out[0].LaTeX)
	}
	if out[1].LaTeX != `a \times b` {
		t.Errorf("out[1].LaTeX = %q", out[1].LaTeX)
	}

	// Input is untouched.
	if in[0].LaTeX != "π r^2" {
		t.Errorf("input mutated: %q", in[0].LaTeX)
	}
}

func TestNormalizeFoldsCompatibilityGlyphs(t *testing.T) {
	n := New(nil)

	// U+1D6FC MATHEMATICAL ITALIC SMALL ALPHA folds to plain alpha under
	// NFKC and must hit the same table entry.
	if got := n.Normalize("\U0001D6FC + x"); got != `\alpha + x` {
		t.Errorf("Normalize() = %q, want %q", got, `\alpha + x`)
	}
}

func TestCustomTable(t *testing.T) {
	table, err := LoadTable(strings.NewReader(`
- from: "∀"
  to: '\forall'
- from: "∃"
  to: '\exists'
`))
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}

	n := New(table)
	got := n.Normalize("∀x ∃y")
	if got != `\forall x \exists y` {
		t.Errorf("Normalize() = %q", got)
	}

	// Default-table glyphs are not covered by the custom table.
	if got := n.Normalize("α"); got != "α" {
		t.Errorf("custom table should not rewrite α, got %q", got)
	}
}
