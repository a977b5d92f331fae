// Package layouttest provides an in-memory canvas that records draw calls
// instead of producing a document. Text is measured with a fixed per-rune
// advance so layout results are exact and easy to reason about.
package layouttest

import (
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/layout"
)

// OpKind identifies a recorded draw call
type OpKind string

const (
	OpFillRect   OpKind = "fill"
	OpStrokeRect OpKind = "stroke"
	OpLine       OpKind = "line"
	OpText       OpKind = "text"
)

// Op is one recorded draw call. For text, Y is the baseline and W the
// measured width.
type Op struct {
	Kind  OpKind
	Page  int
	X, Y  float64
	W, H  float64
	Text  string
	Size  float64
	Style layout.FontStyle
	Color layout.Color
}

// Bottom is the lowest y coordinate the op touches
func (o Op) Bottom() float64 {
	switch o.Kind {
	case OpFillRect, OpStrokeRect:
		return o.Y + o.H
	case OpLine:
		return math.Max(o.Y, o.Y+o.H)
	default:
		return o.Y
	}
}

// Recorder is a layout.Canvas that keeps every draw call in memory
type Recorder struct {
	// CharWidth is the advance of one rune at 10pt; it scales linearly with size
	CharWidth float64
	Ops       []Op

	width, height float64
	pages         int
	current       int
	err           error
}

var _ layout.Canvas = (*Recorder)(nil)

// New returns a recorder with the given page size
func New(width, height float64) *Recorder {
	return &Recorder{CharWidth: 2, width: width, height: height}
}

// A4 returns a recorder sized like an A4 page in millimetres
func A4() *Recorder {
	return New(210, 297)
}

// Fail makes the recorder report err from Err and Output, as a broken
// backend would
func (r *Recorder) Fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Recorder) StringWidth(text string, size float64, _ layout.FontStyle) float64 {
	return float64(utf8.RuneCountInString(text)) * r.CharWidth * size / 10
}

func (r *Recorder) SplitLines(text string, maxWidth, size float64, style layout.FontStyle) []string {
	return layout.WrapText(text, maxWidth, func(s string) float64 {
		return r.StringWidth(s, size, style)
	})
}

func (r *Recorder) PageSize() (float64, float64) { return r.width, r.height }

func (r *Recorder) AddPage() {
	r.pages++
	r.current = r.pages
}

func (r *Recorder) PageCount() int { return r.pages }

func (r *Recorder) SetPage(n int) {
	if n < 1 || n > r.pages {
		r.Fail(fmt.Errorf("page %d out of range 1..%d", n, r.pages))
		return
	}
	r.current = n
}

func (r *Recorder) record(op Op) {
	if r.current == 0 {
		r.Fail(fmt.Errorf("draw call before first page"))
		return
	}
	op.Page = r.current
	r.Ops = append(r.Ops, op)
}

func (r *Recorder) FillRect(x, y, w, h float64, fill layout.Color) {
	r.record(Op{Kind: OpFillRect, X: x, Y: y, W: w, H: h, Color: fill})
}

func (r *Recorder) StrokeRect(x, y, w, h float64, stroke layout.Color, _ float64) {
	r.record(Op{Kind: OpStrokeRect, X: x, Y: y, W: w, H: h, Color: stroke})
}

func (r *Recorder) Line(x1, y1, x2, y2 float64, stroke layout.Color, _ float64) {
	r.record(Op{Kind: OpLine, X: x1, Y: y1, W: x2 - x1, H: y2 - y1, Color: stroke})
}

func (r *Recorder) Text(x, y float64, text string, size float64, style layout.FontStyle, color layout.Color) {
	r.record(Op{
		Kind:  OpText,
		X:     x,
		Y:     y,
		W:     r.StringWidth(text, size, style),
		Text:  text,
		Size:  size,
		Style: style,
		Color: color,
	})
}

func (r *Recorder) Err() error { return r.err }

// Output writes a plain-text listing of the recorded pages and ops
func (r *Recorder) Output(w io.Writer) error {
	if r.err != nil {
		return r.err
	}
	if _, err := fmt.Fprintf(w, "%%RECORDING pages=%d ops=%d\n", r.pages, len(r.Ops)); err != nil {
		return err
	}
	for _, op := range r.Ops {
		if _, err := fmt.Fprintf(w, "p%d %s %.2f %.2f %q\n", op.Page, op.Kind, op.X, op.Y, op.Text); err != nil {
			return err
		}
	}
	return nil
}

// OpsOnPage returns the ops drawn on page n (1-based)
func (r *Recorder) OpsOnPage(n int) []Op {
	var ops []Op
	for _, op := range r.Ops {
		if op.Page == n {
			ops = append(ops, op)
		}
	}
	return ops
}

// Texts returns the text of every text op, in draw order
func (r *Recorder) Texts() []string {
	var texts []string
	for _, op := range r.Ops {
		if op.Kind == OpText {
			texts = append(texts, op.Text)
		}
	}
	return texts
}

// TextsOnPage returns the text ops drawn on page n
func (r *Recorder) TextsOnPage(n int) []Op {
	var ops []Op
	for _, op := range r.OpsOnPage(n) {
		if op.Kind == OpText {
			ops = append(ops, op)
		}
	}
	return ops
}

// Contains reports whether any text op contains substr
func (r *Recorder) Contains(substr string) bool {
	for _, t := range r.Texts() {
		if strings.Contains(t, substr) {
			return true
		}
	}
	return false
}

// FillsWithColor returns the fill ops painted with c, in draw order
func (r *Recorder) FillsWithColor(c layout.Color) []Op {
	var ops []Op
	for _, op := range r.Ops {
		if op.Kind == OpFillRect && op.Color == c {
			ops = append(ops, op)
		}
	}
	return ops
}
