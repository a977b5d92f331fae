package layout

import "strings"

const sectionBorderWidth = 0.4

// ParagraphStyle controls how a block of text is set
type ParagraphStyle struct {
	Size    float64 // points; 0 means body size
	Style   FontStyle
	Color   Color // zero value means dark text
	Justify bool
	Indent  float64
}

// SectionHeader paints a filled, bordered title band. It reserves room for
// the band plus one body line so a header never ends up orphaned at the
// page bottom.
func (d *Document) SectionHeader(st *LayoutState, title string) {
	m := d.metrics
	d.EnsureSpace(st, m.HeaderHeight+LineStep(m.BodySize))

	d.canvas.FillRect(d.margins.Left, st.CursorY, d.ContentWidth(), m.HeaderHeight, ColorPrimary)
	d.canvas.StrokeRect(d.margins.Left, st.CursorY, d.ContentWidth(), m.HeaderHeight, ColorSecondary, sectionBorderWidth)
	d.canvas.Text(d.margins.Left+3, st.CursorY+m.HeaderHeight*0.68, title, m.HeaderSize, Bold, ColorTextLight)

	st.CursorY += m.HeaderHeight + m.HeaderGap
}

// Paragraph wraps text to the content width and draws it line by line.
// Each line checks for a page break on its own, so long paragraphs may
// continue on the next page.
func (d *Document) Paragraph(st *LayoutState, text string, ps ParagraphStyle) {
	size := ps.Size
	if size <= 0 {
		size = d.metrics.BodySize
	}
	color := ps.Color
	if color == (Color{}) {
		color = ColorTextDark
	}

	x := d.margins.Left + ps.Indent
	maxWidth := d.ContentWidth() - ps.Indent
	step := LineStep(size)
	justify := ps.Justify && size <= d.metrics.BodySize

	drew := false
	for _, para := range strings.Split(text, "\n") {
		if strings.TrimSpace(para) == "" {
			if drew {
				d.Advance(st, step/2)
			}
			continue
		}

		lines := d.canvas.SplitLines(para, maxWidth, size, ps.Style)
		for i, line := range lines {
			d.EnsureSpace(st, step)
			y := baseline(st.CursorY, step)
			if justify && i < len(lines)-1 {
				d.drawJustified(x, y, line, maxWidth, size, ps.Style, color)
			} else {
				d.canvas.Text(x, y, line, size, ps.Style, color)
			}
			st.CursorY += step
			drew = true
		}
	}

	if drew {
		d.Advance(st, d.metrics.ParagraphGap)
	}
}

// drawJustified spreads the slack of a line evenly over its inter-word gaps
func (d *Document) drawJustified(x, y float64, line string, maxWidth, size float64, style FontStyle, color Color) {
	words := strings.Fields(line)
	if len(words) < 2 {
		d.canvas.Text(x, y, line, size, style, color)
		return
	}

	slack := maxWidth - d.canvas.StringWidth(strings.Join(words, " "), size, style)
	if slack <= 0 {
		d.canvas.Text(x, y, line, size, style, color)
		return
	}

	gap := slack / float64(len(words)-1)
	space := d.canvas.StringWidth(" ", size, style)
	cx := x
	for _, word := range words {
		d.canvas.Text(cx, y, word, size, style, color)
		cx += d.canvas.StringWidth(word, size, style) + space + gap
	}
}

// Bullet draws one list item. An empty marker paints a solid square;
// otherwise the marker text (for example "1.") is printed in its place.
func (d *Document) Bullet(st *LayoutState, text string, level int, marker string) {
	m := d.metrics
	size := m.BodySize
	step := LineStep(size)
	if level < 0 {
		level = 0
	}

	markerX := d.margins.Left + m.BulletIndent + float64(level)*m.BulletLevelIndent
	textX := markerX + m.BulletTextOffset
	maxWidth := d.margins.Left + d.ContentWidth() - textX

	lines := d.canvas.SplitLines(text, maxWidth, size, Regular)
	if len(lines) == 0 {
		return
	}

	for i, line := range lines {
		d.EnsureSpace(st, step)
		y := baseline(st.CursorY, step)
		if i == 0 {
			if marker == "" {
				d.canvas.FillRect(markerX, y-m.MarkerSize-size*0.04, m.MarkerSize, m.MarkerSize, ColorSecondary)
			} else {
				d.canvas.Text(markerX, y, marker, size, Bold, ColorPrimary)
			}
		}
		d.canvas.Text(textX, y, line, size, Regular, ColorTextDark)
		st.CursorY += step
	}

	d.Advance(st, m.BulletGap)
}

// Divider draws a thin rule across the content width
func (d *Document) Divider(st *LayoutState) {
	d.EnsureSpace(st, 2)
	y := st.CursorY + 1
	d.canvas.Line(d.margins.Left, y, d.margins.Left+d.ContentWidth(), y, ColorGridLine, 0.3)
	st.CursorY += 2
}
