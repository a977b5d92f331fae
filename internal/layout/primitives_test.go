package layout_test

import (
	"strings"
	"testing"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/layout"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/layout/layouttest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// textLines groups text ops into lines by baseline, preserving draw order
func textLines(ops []layouttest.Op) [][]layouttest.Op {
	var lines [][]layouttest.Op
	for _, op := range ops {
		if op.Kind != layouttest.OpText {
			continue
		}
		if n := len(lines); n > 0 && lines[n-1][0].Y == op.Y {
			lines[n-1] = append(lines[n-1], op)
			continue
		}
		lines = append(lines, []layouttest.Op{op})
	}
	return lines
}

func TestParagraphJustifiesInteriorLines(t *testing.T) {
	doc, rec := newTestDocument(t)
	st := doc.Begin()

	// 11 seven-letter words fill 87 of the 90 available characters
	text := strings.TrimSpace(strings.Repeat("justify ", 25))
	doc.Paragraph(st, text, layout.ParagraphStyle{Justify: true})

	lines := textLines(rec.Ops)
	require.Len(t, lines, 3)

	right := 15 + doc.ContentWidth()
	for i, line := range lines[:2] {
		require.Len(t, line, 11, "interior line %d should be drawn word by word", i)
		assert.Equal(t, 15.0, line[0].X)
		last := line[len(line)-1]
		assert.InDelta(t, right, last.X+last.W, 1e-9, "slack must be fully distributed on line %d", i)
	}

	lastLine := lines[2]
	require.Len(t, lastLine, 1, "last line is left aligned as a single run")
	assert.Equal(t, 15.0, lastLine[0].X)
	assert.Equal(t, "justify justify justify", lastLine[0].Text)
}

func TestParagraphSingleWordLineUnshifted(t *testing.T) {
	doc, rec := newTestDocument(t)
	st := doc.Begin()

	text := "a " + strings.Repeat("x", 89) + " b"
	doc.Paragraph(st, text, layout.ParagraphStyle{Justify: true})

	lines := textLines(rec.Ops)
	require.Len(t, lines, 3)
	for _, line := range lines {
		require.Len(t, line, 1)
		assert.Equal(t, 15.0, line[0].X)
	}
	assert.Equal(t, "a", lines[0][0].Text)
}

func TestParagraphSingleLineNotJustified(t *testing.T) {
	doc, rec := newTestDocument(t)
	st := doc.Begin()

	doc.Paragraph(st, "Short summary sentence.", layout.ParagraphStyle{Justify: true})

	lines := textLines(rec.Ops)
	require.Len(t, lines, 1)
	require.Len(t, lines[0], 1)
	assert.Equal(t, "Short summary sentence.", lines[0][0].Text)
}

func TestParagraphLargeTextIsNeverJustified(t *testing.T) {
	doc, rec := newTestDocument(t)
	st := doc.Begin()

	text := strings.Repeat("heading words ", 20)
	doc.Paragraph(st, text, layout.ParagraphStyle{Size: 14, Style: layout.Bold, Justify: true})

	lines := textLines(rec.Ops)
	require.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.Len(t, line, 1)
	}
}

func TestParagraphAdvancesByLineStep(t *testing.T) {
	doc, rec := newTestDocument(t)
	st := doc.Begin()

	doc.Paragraph(st, strings.Repeat("word ", 40), layout.ParagraphStyle{})

	lines := textLines(rec.Ops)
	require.Len(t, lines, 3)
	step := layout.LineStep(10)
	assert.InDelta(t, step, lines[1][0].Y-lines[0][0].Y, 1e-9)
	assert.InDelta(t, 20+3*step+doc.Metrics().ParagraphGap, st.CursorY, 1e-9)
}

func TestParagraphIndent(t *testing.T) {
	doc, rec := newTestDocument(t)
	st := doc.Begin()

	doc.Paragraph(st, strings.Repeat("indented ", 30), layout.ParagraphStyle{Indent: 10})

	for _, line := range textLines(rec.Ops) {
		assert.Equal(t, 25.0, line[0].X)
		assert.LessOrEqual(t, line[0].X+line[0].W, 15+doc.ContentWidth())
	}
}

func TestSectionHeader(t *testing.T) {
	doc, rec := newTestDocument(t)
	st := doc.Begin()
	m := doc.Metrics()

	doc.SectionHeader(st, "Executive Summary")

	require.Len(t, rec.Ops, 3)
	band := rec.Ops[0]
	assert.Equal(t, layouttest.OpFillRect, band.Kind)
	assert.Equal(t, layout.ColorPrimary, band.Color)
	assert.Equal(t, 20.0, band.Y)
	assert.Equal(t, doc.ContentWidth(), band.W)

	border := rec.Ops[1]
	assert.Equal(t, layouttest.OpStrokeRect, border.Kind)
	assert.Equal(t, layout.ColorSecondary, border.Color)
	assert.Equal(t, band.X, border.X)
	assert.Equal(t, band.Y, border.Y)
	assert.Equal(t, band.W, border.W)
	assert.Equal(t, band.H, border.H)

	assert.Equal(t, "Executive Summary", rec.Ops[2].Text)
	assert.Equal(t, 20+m.HeaderHeight+m.HeaderGap, st.CursorY)
}

func TestSectionHeaderNotOrphaned(t *testing.T) {
	doc, rec := newTestDocument(t)
	st := doc.Begin()
	st.CursorY = doc.SafeBottom() - doc.Metrics().HeaderHeight - 1

	doc.SectionHeader(st, "Recommendations")

	assert.Equal(t, 2, rec.PageCount())
	assert.Equal(t, 2, rec.Ops[0].Page)
}

func TestBulletGeometry(t *testing.T) {
	tests := []struct {
		name   string
		level  int
		marker string
	}{
		{"square marker level 0", 0, ""},
		{"square marker level 2", 2, ""},
		{"numbered marker", 1, "3."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, rec := newTestDocument(t)
			st := doc.Begin()
			m := doc.Metrics()

			doc.Bullet(st, strings.Repeat("bullet body text ", 12), tt.level, tt.marker)

			markerX := 15 + m.BulletIndent + float64(tt.level)*m.BulletLevelIndent
			markerOp := rec.Ops[0]
			if tt.marker == "" {
				assert.Equal(t, layouttest.OpFillRect, markerOp.Kind)
			} else {
				assert.Equal(t, layouttest.OpText, markerOp.Kind)
				assert.Equal(t, tt.marker, markerOp.Text)
			}
			assert.Equal(t, markerX, markerOp.X)

			body := rec.Ops[1:]
			require.Greater(t, len(body), 1, "body should wrap")
			for _, op := range body {
				assert.Equal(t, markerX+m.BulletTextOffset, op.X)
				assert.LessOrEqual(t, op.X+op.W, 15+doc.ContentWidth()+1e-9)
			}

			step := layout.LineStep(m.BodySize)
			assert.InDelta(t, 20+float64(len(body))*step+m.BulletGap, st.CursorY, 1e-9)
		})
	}
}

func TestBulletEmptyTextDrawsNothing(t *testing.T) {
	doc, rec := newTestDocument(t)
	st := doc.Begin()

	doc.Bullet(st, "   ", 0, "")

	assert.Empty(t, rec.Ops)
	assert.Equal(t, 20.0, st.CursorY)
}
