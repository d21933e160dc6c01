package layout

import (
	"sort"

	"github.com/pyhub-apps/docweave-golang/pkg/model"
)

// Thresholds configures the three-tier heading classifier. Each ratio is
// relative to the page-local body text size; a span qualifies for a level
// when its font size reaches the ratio and the span is bold. Ratios are
// evaluated in descending order, so a size matching several tiers gets the
// higher level.
type Thresholds struct {
	H1Ratio float64 `yaml:"h1_ratio"` // default 1.5
	H2Ratio float64 `yaml:"h2_ratio"` // default 1.3
	H3Ratio float64 `yaml:"h3_ratio"` // default 1.15

	// MinHeadingSize is an absolute floor: smaller text is never a heading
	// regardless of ratio (default 12).
	MinHeadingSize float64 `yaml:"min_heading_size"`
}

func (t *Thresholds) defaults() {
	if t.H1Ratio <= 0 {
		t.H1Ratio = 1.5
	}
	if t.H2Ratio <= 0 {
		t.H2Ratio = 1.3
	}
	if t.H3Ratio <= 0 {
		t.H3Ratio = 1.15
	}
	if t.MinHeadingSize <= 0 {
		t.MinHeadingSize = 12
	}
}

// Classify maps a span's font size and weight to a heading level given the
// page's body text size. Non-bold text is always body text.
func (t Thresholds) Classify(fontSize float64, bold bool, bodySize float64) model.HeadingLevel {
	if !bold || bodySize <= 0 || fontSize < t.MinHeadingSize {
		return model.LevelBody
	}

	ratio := fontSize / bodySize
	switch {
	case ratio >= t.H1Ratio:
		return model.LevelH1
	case ratio >= t.H2Ratio:
		return model.LevelH2
	case ratio >= t.H3Ratio:
		return model.LevelH3
	default:
		return model.LevelBody
	}
}

// bodyTextSize estimates the page's body text size as the median span font
// size, ignoring non-positive sizes.
func bodyTextSize(spans []model.TextSpan) float64 {
	sizes := make([]float64, 0, len(spans))
	for _, s := range spans {
		if s.FontSize > 0 {
			sizes = append(sizes, s.FontSize)
		}
	}
	if len(sizes) == 0 {
		return 0
	}

	sort.Float64s(sizes)
	return sizes[len(sizes)/2]
}
