package layout

import (
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const pdfFontFamily = "Helvetica"

// PDFOptions configures a new PDF canvas
type PDFOptions struct {
	PageSize    string // fpdf size name such as "A4" or "Letter"
	Orientation string // "P" or "L"
	Title       string
	Subject     string
	Author      string
	Creator     string
	// CreatedAt is stamped into the document info; a fixed value keeps output reproducible
	CreatedAt time.Time
}

// PDFCanvas implements Canvas on top of fpdf core fonts. Core fonts only
// cover cp1252, so text is folded before it is measured or drawn.
type PDFCanvas struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
	fold      transform.Transformer
}

// NewPDFCanvas creates an empty document. Automatic page breaks are off:
// pagination is driven by Document.EnsureSpace.
func NewPDFCanvas(opts PDFOptions) *PDFCanvas {
	orientation := opts.Orientation
	if orientation == "" {
		orientation = "P"
	}
	size := opts.PageSize
	if size == "" {
		size = "A4"
	}

	pdf := fpdf.New(orientation, "mm", size, "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if !opts.CreatedAt.IsZero() {
		pdf.SetCreationDate(opts.CreatedAt)
		pdf.SetModificationDate(opts.CreatedAt)
	}
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	if opts.Subject != "" {
		pdf.SetSubject(opts.Subject, true)
	}
	if opts.Author != "" {
		pdf.SetAuthor(opts.Author, true)
	}
	if opts.Creator != "" {
		pdf.SetCreator(opts.Creator, true)
	}
	pdf.SetFont(pdfFontFamily, "", 10)

	return &PDFCanvas{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
		fold:      transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
	}
}

func (c *PDFCanvas) setFont(size float64, style FontStyle) {
	c.pdf.SetFont(pdfFontFamily, string(style), size)
}

// encode folds characters outside the core font encoding to their base
// letters and translates the result to cp1252
func (c *PDFCanvas) encode(text string) string {
	text = norm.NFC.String(strings.ReplaceAll(text, "\t", " "))

	ascii := true
	for i := 0; i < len(text); i++ {
		if text[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return text
	}

	var b strings.Builder
	for _, r := range text {
		if r < 0x100 {
			b.WriteRune(r)
			continue
		}
		folded, _, err := transform.String(c.fold, string(r))
		if err != nil || folded == "" {
			b.WriteRune(r)
			continue
		}
		b.WriteString(folded)
	}
	return c.translate(b.String())
}

func (c *PDFCanvas) StringWidth(text string, size float64, style FontStyle) float64 {
	c.setFont(size, style)
	return c.pdf.GetStringWidth(c.encode(text))
}

func (c *PDFCanvas) SplitLines(text string, maxWidth, size float64, style FontStyle) []string {
	c.setFont(size, style)
	return WrapText(text, maxWidth, func(s string) float64 {
		return c.pdf.GetStringWidth(c.encode(s))
	})
}

func (c *PDFCanvas) PageSize() (float64, float64) {
	return c.pdf.GetPageSize()
}

func (c *PDFCanvas) AddPage() {
	c.pdf.AddPage()
}

func (c *PDFCanvas) PageCount() int {
	return c.pdf.PageCount()
}

func (c *PDFCanvas) SetPage(n int) {
	c.pdf.SetPage(n)
}

func (c *PDFCanvas) FillRect(x, y, w, h float64, fill Color) {
	c.pdf.SetFillColor(fill[0], fill[1], fill[2])
	c.pdf.Rect(x, y, w, h, "F")
}

func (c *PDFCanvas) StrokeRect(x, y, w, h float64, stroke Color, lineWidth float64) {
	c.pdf.SetDrawColor(stroke[0], stroke[1], stroke[2])
	c.pdf.SetLineWidth(lineWidth)
	c.pdf.Rect(x, y, w, h, "D")
}

func (c *PDFCanvas) Line(x1, y1, x2, y2 float64, stroke Color, lineWidth float64) {
	c.pdf.SetDrawColor(stroke[0], stroke[1], stroke[2])
	c.pdf.SetLineWidth(lineWidth)
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *PDFCanvas) Text(x, y float64, text string, size float64, style FontStyle, color Color) {
	c.setFont(size, style)
	c.pdf.SetTextColor(color[0], color[1], color[2])
	c.pdf.Text(x, y, c.encode(text))
}

func (c *PDFCanvas) Err() error {
	return c.pdf.Error()
}

// Output writes the finished document. The canvas cannot be drawn on afterwards.
func (c *PDFCanvas) Output(w io.Writer) error {
	return c.pdf.Output(w)
}
