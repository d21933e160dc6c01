package noise

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultRules returns the built-in rule set covering English and Chinese
// page-number forms, separator runs, boilerplate header/footer lines, and
// whitespace collapsing. Order is significant: structural removals run
// before whitespace collapsing.
func DefaultRules() []Rule {
	return []Rule{
		// Page numbers
		{Pattern: `第\s*\d+\s*页`, Replace: ""},       // Chinese: 第5页
		{Pattern: `Page\s+\d+`, Replace: ""},        // English: Page 5
		{Pattern: `^[ \t]*\d+[ \t]*$`, Replace: ""}, // Standalone numbers
		{Pattern: `\d+\s*/\s*\d+`, Replace: ""},     // Page ranges: 5/10
		{Pattern: `- \d+ -`, Replace: ""},           // Centered page numbers: - 5 -

		// Separators
		{Pattern: `---+\n+`, Replace: "\n"},
		{Pattern: `===+\n+`, Replace: "\n"},
		{Pattern: `___+\n+`, Replace: "\n"},

		// Common headers/footers
		{Pattern: `^[ \t]*Copyright.*$`, Replace: ""},
		{Pattern: `^[ \t]*©.*$`, Replace: ""},
		{Pattern: `^[ \t]*All rights reserved.*$`, Replace: ""},
		{Pattern: `^[ \t]*Confidential.*$`, Replace: ""},
		{Pattern: `^[ \t]*Proprietary.*$`, Replace: ""},
		{Pattern: `^[ \t]*Draft.*$`, Replace: ""},

		// Repeated whitespace
		{Pattern: `\n{3,}`, Replace: "\n\n"},
		{Pattern: `[ \t]{2,}`, Replace: " "},
	}
}

// LoadRules reads an ordered rule list from YAML. Patterns are validated
// later, at Filter construction, where invalid ones are skipped with a
// warning rather than failing the load.
func LoadRules(r io.Reader) ([]Rule, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}

	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	return rules, nil
}

// LoadRulesFile reads an ordered rule list from a YAML file.
func LoadRulesFile(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules %s: %w", path, err)
	}
	defer f.Close()
	return LoadRules(f)
}
