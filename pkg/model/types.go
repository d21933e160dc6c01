// Package model defines the data types shared by the document
// reconstruction pipeline: raw per-page extraction input, the intermediate
// layout and table entities, and the final DocumentModel.
//
// Coordinates use a top-left origin with y increasing downward, so ascending
// Y0 within a column is reading order.
package model

// HeadingLevel classifies a text block as body text or a heading tier.
type HeadingLevel int

const (
	LevelBody HeadingLevel = 0
	LevelH1   HeadingLevel = 1
	LevelH2   HeadingLevel = 2
	LevelH3   HeadingLevel = 3
)

// IsHeading reports whether the level denotes a heading rather than body text.
func (l HeadingLevel) IsHeading() bool {
	return l >= LevelH1 && l <= LevelH3
}

// TextSpan is the minimal extracted text unit with position and font
// attributes, as produced by the page-access layer in native order.
type TextSpan struct {
	Text     string
	BBox     BoundingBox
	FontSize float64
	FontName string
	Bold     bool
}

// TableCandidate is a raw table fragment detected on a single page.
// Rows may be ragged; no repair is attempted.
type TableCandidate struct {
	Page        int
	BBox        BoundingBox
	Header      []string
	Rows        [][]string
	ColumnCount int
}

// FormulaCandidate is a raw formula region with its markup text.
type FormulaCandidate struct {
	Page  int
	BBox  BoundingBox
	LaTeX string
}

// CodeCandidate is a detected code region with an optional language hint.
type CodeCandidate struct {
	Page     int
	BBox     BoundingBox
	Language string
	Code     string
}

// ImageRef references an embedded image without carrying its bytes.
type ImageRef struct {
	Page   int
	BBox   BoundingBox
	Index  int
	Format string
	Width  int
	Height int
}

// PageExtraction is everything the page-access layer produced for one page.
// It is created once and read-only thereafter.
type PageExtraction struct {
	Page     int
	Width    float64
	Height   float64
	Spans    []TextSpan
	Tables   []TableCandidate
	Formulas []FormulaCandidate
	Code     []CodeCandidate
	Images   []ImageRef
}

// TextBlock is a merged span run with its assigned column and heading level.
type TextBlock struct {
	Text     string
	Page     int
	BBox     BoundingBox
	FontSize float64
	Bold     bool
	Column   int
	Level    HeadingLevel
}

// ColumnBounds is one column's horizontal extent.
type ColumnBounds struct {
	X0 float64
	X1 float64
}

// ColumnLayout records the detected column x-ranges of one page,
// ordered left to right.
type ColumnLayout struct {
	Page    int
	Columns []ColumnBounds
}

// TwoColumn reports whether the page was classified as a two-column layout.
func (cl ColumnLayout) TwoColumn() bool {
	return len(cl.Columns) == 2
}

// HeadingNode is one node of the document Outline tree.
type HeadingNode struct {
	Title    string         `json:"title"`
	Level    int            `json:"level"`
	Page     int            `json:"page"`
	Children []*HeadingNode `json:"children,omitempty"`
}

// LogicalTable is a merged chain of table fragments spanning one or more
// consecutive pages. All rows share the fragments' common column count;
// individual rows may still be ragged.
type LogicalTable struct {
	PageStart   int
	PageEnd     int
	BBox        BoundingBox // first fragment's bbox
	Header      []string
	Rows        [][]string
	ColumnCount int
	Caption     string
	Context     string
	Merged      bool // true when more than one fragment was folded in
}

// ContentKind tags the variant held by a ContentItem.
type ContentKind string

const (
	KindText    ContentKind = "text"
	KindTable   ContentKind = "table"
	KindFormula ContentKind = "formula"
	KindCode    ContentKind = "code"
	KindImage   ContentKind = "image"
)

// ContentItem is the tagged union over all reconstructed artifacts.
// Exactly one of Block, Table, Formula, Code, Image is non-nil, matching
// Kind. Page, Column and Y0 form the position key used for final ordering;
// items without position metadata have HasPosition false and sort at the
// end of their page's group in encounter order.
type ContentItem struct {
	Kind        ContentKind
	Page        int
	Column      int
	Y0          float64
	HasPosition bool

	Block   *TextBlock
	Table   *LogicalTable
	Formula *FormulaCandidate
	Code    *CodeCandidate
	Image   *ImageRef
}

// PageText is one page's cleaned text with noise-removal statistics.
type PageText struct {
	Page           int
	Text           string
	OriginalLength int
	CleanedLength  int
	NoiseRemoved   int
}

// Summary holds the document-level counters reported to callers.
type Summary struct {
	Pages      int `json:"pages"`
	Tables     int `json:"tables"`
	Formulas   int `json:"formulas"`
	CodeBlocks int `json:"code_blocks"`
	Images     int `json:"images"`
	Headings   int `json:"headings"`
}

// Diagnostic is a structured record of a recovered condition: which stage
// recovered, on which page (0 if not page-scoped), and what was skipped or
// degraded. Diagnostics surface silent recoveries without failing the run.
type Diagnostic struct {
	Stage   string `json:"stage"`
	Page    int    `json:"page,omitempty"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// DocumentModel is the sole exported artifact of a pipeline run: the
// position-ordered content items, the heading Outline, per-page column
// layouts and cleaned text, and every diagnostic raised along the way.
type DocumentModel struct {
	Title        string
	Items        []ContentItem
	Outline      []*HeadingNode
	Layouts      []ColumnLayout
	Pages        []PageText
	DroppedPages []int // pages removed by the noise filter, numbering preserved
	Summary      Summary
	Diagnostics  []Diagnostic
}
