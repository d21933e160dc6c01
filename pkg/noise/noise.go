// Package noise strips recurring page furniture (page numbers, separator
// runs, boilerplate copyright lines) from raw page text before layout
// analysis. The rule set is injectable so per-locale variants can be loaded
// from configuration instead of living in hidden global state.
package noise

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/pyhub-apps/docweave-golang/pkg/model"
)

// MinPageLength is the default cleaned-text length below which a page is
// dropped from downstream processing.
const MinPageLength = 20

// Rule is one ordered pattern→replacement rewrite. Patterns are compiled
// with multiline and case-insensitive flags.
type Rule struct {
	Pattern string `yaml:"pattern"`
	Replace string `yaml:"replace"`
}

// Config configures a Filter.
type Config struct {
	// Rules applied in order. Defaults to DefaultRules().
	Rules []Rule `yaml:"rules"`

	// MinPageLength is the cleaned-length threshold below which a page is
	// dropped (default 20).
	MinPageLength int `yaml:"min_page_length"`

	// Logger for rule-compilation warnings.
	Logger *slog.Logger `yaml:"-"`
}

func (c *Config) defaults() {
	if c.Rules == nil {
		c.Rules = DefaultRules()
	}
	if c.MinPageLength <= 0 {
		c.MinPageLength = MinPageLength
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

type compiledRule struct {
	re      *regexp.Regexp
	replace string
}

// Filter applies an ordered rule set to page text. Construction never
// fails: a rule whose pattern does not compile is skipped and recorded as
// a warning diagnostic.
type Filter struct {
	cfg   Config
	rules []compiledRule
	diags []model.Diagnostic
}

// New creates a Filter from the given configuration.
func New(cfg Config) *Filter {
	cfg.defaults()
	f := &Filter{cfg: cfg}

	for _, r := range cfg.Rules {
		re, err := regexp.Compile("(?im)" + r.Pattern)
		if err != nil {
			f.diags = append(f.diags, model.Diagnostic{
				Stage:   "noise",
				Kind:    "rule_skipped",
				Message: "pattern " + r.Pattern + " does not compile: " + err.Error(),
			})
			cfg.Logger.Warn("skipping noise rule", "pattern", r.Pattern, "error", err)
			continue
		}
		f.rules = append(f.rules, compiledRule{re: re, replace: r.Replace})
	}

	return f
}

// Diagnostics returns the warnings recorded while compiling the rule set.
func (f *Filter) Diagnostics() []model.Diagnostic {
	return f.diags
}

// Clean applies every rule in order and returns the cleaned text along
// with the number of characters removed. Cleaning is idempotent: running
// it on already-cleaned text changes nothing.
func (f *Filter) Clean(text string) (string, int) {
	if text == "" {
		return "", 0
	}

	cleaned := text
	for _, r := range f.rules {
		cleaned = r.re.ReplaceAllString(cleaned, r.replace)
	}
	cleaned = strings.TrimSpace(cleaned)

	removed := len(text) - len(cleaned)
	if removed < 0 {
		removed = 0
	}
	return cleaned, removed
}

// CleanPages cleans every page and drops the ones whose cleaned text falls
// below the minimum length. Dropped page numbers are returned so document
// numbering is never silently shifted.
func (f *Filter) CleanPages(pages []model.PageText) (kept []model.PageText, dropped []int) {
	for _, p := range pages {
		cleaned, removed := f.Clean(p.Text)
		if len(strings.TrimSpace(cleaned)) < f.cfg.MinPageLength {
			dropped = append(dropped, p.Page)
			continue
		}
		kept = append(kept, model.PageText{
			Page:           p.Page,
			Text:           cleaned,
			OriginalLength: len(p.Text),
			CleanedLength:  len(cleaned),
			NoiseRemoved:   removed,
		})
	}
	return kept, dropped
}
