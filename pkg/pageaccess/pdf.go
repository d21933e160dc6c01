package pageaccess

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	dpdf "github.com/dslipak/pdf"
	lpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pcmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/pyhub-apps/docweave-golang/pkg/model"
)

// Default page size (US Letter, points) when no MediaBox is available.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// baselineFactor approximates where the baseline sits within the font
// height when converting PDF bottom-left coordinates to top-left ones.
const baselineFactor = 0.8

// textRun is one raw positioned text fragment in PDF coordinates
// (bottom-left origin, y increasing upward).
type textRun struct {
	text string
	x    float64
	y    float64
	w    float64
	font string
	size float64
}

// spanBackend abstracts the text-extraction library behind a PDFSource.
type spanBackend interface {
	pageCount() int
	pageSize(page int) (w, h float64, ok bool)
	pageRuns(page int) ([]textRun, error)
	close() error
}

type pageDim struct {
	width  float64
	height float64
}

// PDFSource implements Source for a PDF file. Text spans come from
// ledongthuc/pdf, falling back to dslipak/pdf when the primary library
// cannot open the file. Page dimensions and embedded image references come
// from pdfcpu where available.
type PDFSource struct {
	backend spanBackend
	dims    []pageDim
	images  map[int][]model.ImageRef
}

// Open opens a PDF file as a page-access source. The ledongthuc backend is
// tried first since it carries font names and sizes with accurate
// coordinates; dslipak is the fallback. pdfcpu failures only cost page
// dimensions and image references, never the open itself.
func Open(path string) (*PDFSource, error) {
	backend, err := openLedongthuc(path)
	if err != nil {
		var derr error
		backend, derr = openDslipak(path)
		if derr != nil {
			return nil, fmt.Errorf("open %s: %w (dslipak fallback: %v)", path, err, derr)
		}
	}

	src := &PDFSource{backend: backend}
	if dims, err := readPageDims(path); err == nil {
		src.dims = dims
	}
	if images, err := collectImages(path); err == nil {
		src.images = images
	}
	return src, nil
}

// PageCount returns the number of pages in the document.
func (s *PDFSource) PageCount() int {
	return s.backend.pageCount()
}

// PageWidth returns the page width in points.
func (s *PDFSource) PageWidth(page int) float64 {
	w, _ := s.pageSize(page)
	return w
}

// PageHeight returns the page height in points.
func (s *PDFSource) PageHeight(page int) float64 {
	_, h := s.pageSize(page)
	return h
}

func (s *PDFSource) pageSize(page int) (float64, float64) {
	if page >= 1 && page <= len(s.dims) {
		d := s.dims[page-1]
		if d.width > 0 && d.height > 0 {
			return d.width, d.height
		}
	}
	if w, h, ok := s.backend.pageSize(page); ok {
		return w, h
	}
	return defaultPageWidth, defaultPageHeight
}

// PageSpans extracts the page's text spans in native order, converted to
// top-left coordinates.
func (s *PDFSource) PageSpans(page int) ([]model.TextSpan, error) {
	if page < 1 || page > s.backend.pageCount() {
		return nil, fmt.Errorf("page %d out of range [1, %d]", page, s.backend.pageCount())
	}

	runs, err := s.backend.pageRuns(page)
	if err != nil {
		return nil, fmt.Errorf("page %d spans: %w", page, err)
	}

	_, height := s.pageSize(page)
	return runsToSpans(runs, height), nil
}

// PageTables detects table candidates on the page from span alignment.
func (s *PDFSource) PageTables(page int) ([]model.TableCandidate, error) {
	spans, err := s.PageSpans(page)
	if err != nil {
		return nil, err
	}
	return DetectTables(spans, page), nil
}

// PageImages returns references to the page's embedded images. Raw bytes
// are never loaded; positions are unknown at this layer, so image items
// fall back to end-of-page ordering downstream.
func (s *PDFSource) PageImages(page int) ([]model.ImageRef, error) {
	return s.images[page], nil
}

// Close releases the underlying file handles.
func (s *PDFSource) Close() error {
	return s.backend.close()
}

// runsToSpans flips runs into top-left coordinates, groups them into
// baseline lines, and splits each line into spans at gaps wide enough to
// suggest a layout boundary rather than a word space.
func runsToSpans(runs []textRun, pageHeight float64) []model.TextSpan {
	if len(runs) == 0 {
		return nil
	}

	sorted := make([]textRun, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].y != sorted[j].y {
			return sorted[i].y > sorted[j].y // PDF y grows upward; top of page first
		}
		return sorted[i].x < sorted[j].x
	})

	var spans []model.TextSpan
	line := []textRun{sorted[0]}

	for _, r := range sorted[1:] {
		if lineGap := line[0].y - r.y; lineGap > lineTolerance(line[0].size) {
			spans = append(spans, splitLine(line, pageHeight)...)
			line = line[:0]
		}
		line = append(line, r)
	}
	return append(spans, splitLine(line, pageHeight)...)
}

func lineTolerance(size float64) float64 {
	if size > 0 {
		return size * 0.5
	}
	return 2.0
}

// splitLine turns one baseline's runs into spans. A horizontal gap beyond
// gapFactor em widths closes the current span; smaller gaps become a single
// space so per-glyph runs reassemble into words.
func splitLine(line []textRun, pageHeight float64) []model.TextSpan {
	const gapFactor = 0.8

	sort.SliceStable(line, func(i, j int) bool { return line[i].x < line[j].x })

	var spans []model.TextSpan
	var sb strings.Builder
	var first, prev textRun

	flush := func() {
		text := strings.TrimSpace(sb.String())
		sb.Reset()
		if text == "" {
			return
		}
		size := first.size
		y0 := pageHeight - (first.y + size*baselineFactor)
		spans = append(spans, model.TextSpan{
			Text:     text,
			BBox:     model.BoundingBox{X0: first.x, Y0: y0, X1: prev.x + prev.w, Y1: y0 + size},
			FontSize: size,
			FontName: first.font,
			Bold:     boldFont(first.font),
		})
	}

	for i, r := range line {
		if i == 0 {
			first, prev = r, r
			sb.WriteString(r.text)
			continue
		}

		gap := r.x - (prev.x + prev.w)
		breakAt := r.size * gapFactor
		if breakAt <= 0 {
			breakAt = 3.0
		}
		switch {
		case gap > breakAt:
			flush()
			first = r
		case gap > r.size*0.15:
			sb.WriteByte(' ')
		}
		sb.WriteString(r.text)
		prev = r
	}
	flush()

	return spans
}

// boldFont reports whether a PostScript font name denotes a bold face.
func boldFont(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range []string{"bold", "heavy", "black", "semibold"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ledongthucBackend extracts text runs with ledongthuc/pdf.
type ledongthucBackend struct {
	file   io.Closer
	reader *lpdf.Reader
}

func openLedongthuc(path string) (spanBackend, error) {
	f, r, err := lpdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open with ledongthuc: %w", err)
	}
	return &ledongthucBackend{file: f, reader: r}, nil
}

func (b *ledongthucBackend) pageCount() int {
	return b.reader.NumPage()
}

func (b *ledongthucBackend) pageSize(page int) (float64, float64, bool) {
	mb := b.reader.Page(page).V.Key("MediaBox")
	if mb.Kind() == lpdf.Array && mb.Len() == 4 {
		w := mb.Index(2).Float64() - mb.Index(0).Float64()
		h := mb.Index(3).Float64() - mb.Index(1).Float64()
		return w, h, w > 0 && h > 0
	}
	return 0, 0, false
}

func (b *ledongthucBackend) pageRuns(page int) (runs []textRun, err error) {
	// Malformed content streams can panic inside the library.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ledongthuc page %d: %v", page, r)
		}
	}()

	content := b.reader.Page(page).Content()
	for _, t := range content.Text {
		runs = append(runs, textRun{text: t.S, x: t.X, y: t.Y, w: t.W, font: t.Font, size: t.FontSize})
	}
	return runs, nil
}

func (b *ledongthucBackend) close() error {
	if b.file != nil {
		return b.file.Close()
	}
	return nil
}

// dslipakBackend extracts text runs with dslipak/pdf.
type dslipakBackend struct {
	reader *dpdf.Reader
}

func openDslipak(path string) (spanBackend, error) {
	r, err := dpdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open with dslipak: %w", err)
	}
	return &dslipakBackend{reader: r}, nil
}

func (b *dslipakBackend) pageCount() int {
	return b.reader.NumPage()
}

func (b *dslipakBackend) pageSize(page int) (float64, float64, bool) {
	mb := b.reader.Page(page).V.Key("MediaBox")
	if mb.Kind() == dpdf.Array && mb.Len() == 4 {
		w := mb.Index(2).Float64() - mb.Index(0).Float64()
		h := mb.Index(3).Float64() - mb.Index(1).Float64()
		return w, h, w > 0 && h > 0
	}
	return 0, 0, false
}

func (b *dslipakBackend) pageRuns(page int) (runs []textRun, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dslipak page %d: %v", page, r)
		}
	}()

	content := b.reader.Page(page).Content()
	for _, t := range content.Text {
		runs = append(runs, textRun{text: t.S, x: t.X, y: t.Y, w: t.W, font: t.Font, size: t.FontSize})
	}
	return runs, nil
}

func (b *dslipakBackend) close() error {
	return nil
}

// readPageDims reads every page's MediaBox dimensions through pdfcpu.
func readPageDims(path string) ([]pageDim, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pdfcpu context: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("validate pdf: %w", err)
	}

	dims := make([]pageDim, ctx.PageCount)
	for n := 1; n <= ctx.PageCount; n++ {
		_, _, attrs, err := ctx.PageDict(n, false)
		if err != nil || attrs == nil || attrs.MediaBox == nil {
			continue
		}
		dims[n-1] = pageDim{width: attrs.MediaBox.Width(), height: attrs.MediaBox.Height()}
	}
	return dims, nil
}

// collectImages lists embedded image resources per page through pdfcpu's
// extraction digest. Only references are kept, never pixel data.
func collectImages(path string) (map[int][]model.ImageRef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open for image scan: %w", err)
	}
	defer f.Close()

	images := map[int][]model.ImageRef{}
	digest := func(img pcmodel.Image, singleImgPerPage bool, maxPageDigits int) error {
		if img.Thumb {
			return nil
		}
		refs := images[img.PageNr]
		images[img.PageNr] = append(refs, model.ImageRef{
			Page:   img.PageNr,
			Index:  len(refs) + 1,
			Format: img.FileType,
		})
		return nil
	}

	if err := api.ExtractImages(f, nil, digest, nil); err != nil {
		return nil, fmt.Errorf("scan images: %w", err)
	}
	return images, nil
}
