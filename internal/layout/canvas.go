package layout

import "io"

// Color is an RGB triple in the 0-255 range
type Color [3]int

// Canvas is a fixed-size page surface. Coordinates are in page units with
// the origin at the top-left corner; Text positions refer to the baseline.
// A canvas belongs to exactly one render.
type Canvas interface {
	Measurer

	PageSize() (width, height float64)
	AddPage()
	PageCount() int
	// SetPage re-activates an existing page (1-based) so later draw calls land on it
	SetPage(n int)

	FillRect(x, y, w, h float64, fill Color)
	StrokeRect(x, y, w, h float64, stroke Color, lineWidth float64)
	Line(x1, y1, x2, y2 float64, stroke Color, lineWidth float64)
	Text(x, y float64, text string, size float64, style FontStyle, color Color)

	// Err returns the first error raised by the backend, if any
	Err() error
	Output(w io.Writer) error
}

// Tone is the semantic color of a metric card
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
	ToneNeutral Tone = "neutral"
)

// Color scheme
var (
	ColorPrimary    = Color{30, 58, 95}    // Dark navy
	ColorSecondary  = Color{52, 152, 219}  // Bright blue
	ColorSuccess    = Color{39, 174, 96}   // Green
	ColorWarning    = Color{230, 126, 34}  // Amber
	ColorDanger     = Color{192, 57, 43}   // Red
	ColorNeutral    = Color{127, 140, 141} // Gray
	ColorTextDark   = Color{44, 62, 80}
	ColorTextMuted  = Color{127, 140, 141}
	ColorTextLight  = Color{255, 255, 255}
	ColorBackground = Color{241, 245, 249}
	ColorGridLine   = Color{220, 220, 220}
)

// ToneColor maps a tone to its card fill
func ToneColor(t Tone) Color {
	switch t {
	case ToneSuccess:
		return ColorSuccess
	case ToneWarning:
		return ColorWarning
	case ToneDanger:
		return ColorDanger
	default:
		return ColorNeutral
	}
}
