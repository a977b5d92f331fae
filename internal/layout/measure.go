package layout

import (
	"strings"
)

// FontStyle selects the weight/slant of the report font
type FontStyle string

const (
	Regular    FontStyle = ""
	Bold       FontStyle = "B"
	Italic     FontStyle = "I"
	BoldItalic FontStyle = "BI"
)

// Measurer reports rendered text metrics. All widths are in page units.
type Measurer interface {
	StringWidth(text string, size float64, style FontStyle) float64
	// SplitLines wraps text greedily so that every returned line measures
	// no more than maxWidth. Words wider than maxWidth are broken at
	// character level.
	SplitLines(text string, maxWidth, size float64, style FontStyle) []string
}

// WrapText is the greedy word-wrap shared by backends. width measures a
// candidate line in the caller's current font.
func WrapText(text string, maxWidth float64, width func(string) float64) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := ""
		for _, word := range words {
			if width(word) > maxWidth {
				if current != "" {
					lines = append(lines, current)
				}
				pieces := breakWord(word, maxWidth, width)
				lines = append(lines, pieces[:len(pieces)-1]...)
				current = pieces[len(pieces)-1]
				continue
			}

			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if width(candidate) <= maxWidth {
				current = candidate
				continue
			}
			lines = append(lines, current)
			current = word
		}
		if current != "" {
			lines = append(lines, current)
		}
	}

	// trailing blank paragraphs carry no content
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// breakWord splits a single overlong word into chunks that each fit maxWidth.
// A chunk always holds at least one rune so the loop terminates even when a
// single glyph is wider than the line.
func breakWord(word string, maxWidth float64, width func(string) float64) []string {
	var pieces []string
	var chunk strings.Builder
	for _, r := range word {
		if chunk.Len() > 0 && width(chunk.String()+string(r)) > maxWidth {
			pieces = append(pieces, chunk.String())
			chunk.Reset()
		}
		chunk.WriteRune(r)
	}
	if chunk.Len() > 0 {
		pieces = append(pieces, chunk.String())
	}
	return pieces
}
