package layout

import "fmt"

// Margins of the printable area in page units
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// DefaultMargins are the A4 report margins in millimetres
func DefaultMargins() Margins {
	return Margins{Top: 20, Right: 15, Bottom: 20, Left: 15}
}

// Metrics holds typography and spacing constants. Font sizes are in points,
// distances in page units.
type Metrics struct {
	BodySize      float64
	SmallSize     float64
	HeaderSize    float64
	HeaderHeight  float64
	HeaderGap     float64
	ParagraphGap  float64
	CardHeight    float64
	CardGutter    float64
	CardRowGap    float64
	CardLabelSize float64
	CardValueSize float64

	BulletIndent      float64
	BulletLevelIndent float64
	BulletTextOffset  float64
	BulletGap         float64
	MarkerSize        float64
}

// DefaultMetrics returns the house style used by the interview report
func DefaultMetrics() Metrics {
	return Metrics{
		BodySize:      10,
		SmallSize:     8,
		HeaderSize:    12,
		HeaderHeight:  8,
		HeaderGap:     3,
		ParagraphGap:  2,
		CardHeight:    20,
		CardGutter:    6,
		CardRowGap:    4,
		CardLabelSize: 9,
		CardValueSize: 18,

		BulletIndent:      2,
		BulletLevelIndent: 6,
		BulletTextOffset:  4.5,
		BulletGap:         1.5,
		MarkerSize:        1.2,
	}
}

// LayoutState is the mutable cursor of one render. It is owned by a single
// render call and passed explicitly into every primitive.
type LayoutState struct {
	// ActivePageIndex is 0-based; the canvas page number is ActivePageIndex+1
	ActivePageIndex  int
	CursorY          float64
	ActiveGridColumn int
}

// Document binds a canvas to page geometry and typography
type Document struct {
	canvas     Canvas
	margins    Margins
	metrics    Metrics
	pageWidth  float64
	pageHeight float64
}

// NewDocument validates the geometry against the canvas page size
func NewDocument(canvas Canvas, margins Margins, metrics Metrics) (*Document, error) {
	w, h := canvas.PageSize()
	d := &Document{
		canvas:     canvas,
		margins:    margins,
		metrics:    metrics,
		pageWidth:  w,
		pageHeight: h,
	}
	if d.ContentWidth() <= 0 {
		return nil, fmt.Errorf("margins leave no horizontal space on a %.1fx%.1f page", w, h)
	}
	if margins.Top >= d.SafeBottom() {
		return nil, fmt.Errorf("margins leave no vertical space on a %.1fx%.1f page", w, h)
	}
	if metrics.BodySize <= 0 {
		return nil, fmt.Errorf("body font size must be positive")
	}
	return d, nil
}

func (d *Document) Canvas() Canvas      { return d.canvas }
func (d *Document) Margins() Margins    { return d.margins }
func (d *Document) Metrics() Metrics    { return d.metrics }
func (d *Document) PageWidth() float64  { return d.pageWidth }
func (d *Document) PageHeight() float64 { return d.pageHeight }

// ContentWidth is the horizontal space between the side margins
func (d *Document) ContentWidth() float64 {
	return d.pageWidth - d.margins.Left - d.margins.Right
}

// SafeBottom is the lowest y coordinate body content may reach
func (d *Document) SafeBottom() float64 {
	return d.pageHeight - d.margins.Bottom
}

// Begin opens the first page and returns a fresh cursor
func (d *Document) Begin() *LayoutState {
	d.canvas.AddPage()
	return &LayoutState{
		ActivePageIndex:  d.canvas.PageCount() - 1,
		CursorY:          d.margins.Top,
		ActiveGridColumn: 0,
	}
}

// EnsureSpace starts a new page when the next required units would cross the
// safe bottom. A non-positive requirement means one body line. It reports
// whether a page break was taken.
func (d *Document) EnsureSpace(st *LayoutState, required float64) bool {
	if required <= 0 {
		required = LineStep(d.metrics.BodySize)
	}
	if st.CursorY+required <= d.SafeBottom() {
		return false
	}
	// an element taller than a whole page still gets drawn once
	if st.CursorY <= d.margins.Top {
		return false
	}
	d.NewPage(st)
	return true
}

// NewPage unconditionally breaks to a new page
func (d *Document) NewPage(st *LayoutState) {
	d.canvas.AddPage()
	st.ActivePageIndex++
	st.CursorY = d.margins.Top
}

// Advance moves the cursor down. Gaps never draw, so crossing the safe
// bottom here is resolved by the next EnsureSpace.
func (d *Document) Advance(st *LayoutState, dy float64) {
	if dy > 0 {
		st.CursorY += dy
	}
}

// LineStep is the vertical advance for one line of text at the given size.
// Leading comes in three bands rather than a continuous metric.
func LineStep(size float64) float64 {
	switch {
	case size >= 16:
		return size * 0.5
	case size >= 12:
		return size * 0.45
	default:
		return size * 0.42
	}
}

// baseline places text inside a line box starting at top
func baseline(top, step float64) float64 {
	return top + step*0.8
}
