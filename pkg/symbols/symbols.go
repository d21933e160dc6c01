// Package symbols rewrites Unicode math and Greek glyphs in formula text to
// canonical LaTeX commands. Normalization is pure and deterministic:
// unmatched glyphs pass through unchanged and the operation never fails.
package symbols

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/pyhub-apps/docweave-golang/pkg/model"
)

// Replacement is one glyph→command substitution.
type Replacement struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Normalizer applies a fixed substitution table to formula text.
type Normalizer struct {
	table    []Replacement
	replacer *strings.Replacer
}

// New creates a Normalizer. A nil table selects DefaultTable().
func New(table []Replacement) *Normalizer {
	if table == nil {
		table = DefaultTable()
	}

	pairs := make([]string, 0, len(table)*2)
	for _, r := range table {
		pairs = append(pairs, r.From, r.To)
	}

	return &Normalizer{
		table:    table,
		replacer: strings.NewReplacer(pairs...),
	}
}

// Normalize rewrites every glyph present in the substitution table.
// Input is folded to compatibility composed form (NFKC) first, so
// decomposed sequences and compatibility variants such as the
// mathematical-alphabet letters still match the table entries.
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}
	return n.replacer.Replace(norm.NFKC.String(s))
}

// NormalizeFormulas returns the candidates with their LaTeX text rewritten.
// The input slice is not modified.
func (n *Normalizer) NormalizeFormulas(formulas []model.FormulaCandidate) []model.FormulaCandidate {
	if len(formulas) == 0 {
		return nil
	}

	out := make([]model.FormulaCandidate, len(formulas))
	for i, f := range formulas {
		f.LaTeX = n.Normalize(f.LaTeX)
		out[i] = f
	}
	return out
}

// LoadTable reads a substitution table from YAML.
func LoadTable(r io.Reader) ([]Replacement, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}

	var table []Replacement
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse table: %w", err)
	}
	return table, nil
}

// LoadTableFile reads a substitution table from a YAML file.
func LoadTableFile(path string) ([]Replacement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table %s: %w", path, err)
	}
	defer f.Close()
	return LoadTable(f)
}
