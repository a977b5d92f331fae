package layout

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinSentenceLength filters out fragments too short to be worth a bullet
const MinSentenceLength = 20

// SummarizeAsBullets condenses free text into at most maxPoints sentences.
// Sentences are kept in document order, not ranked by importance.
func SummarizeAsBullets(text string, maxPoints int) []string {
	if maxPoints <= 0 {
		return nil
	}

	var points []string
	for _, sentence := range splitSentences(text) {
		if utf8.RuneCountInString(sentence) < MinSentenceLength {
			continue
		}
		points = append(points, ensureTerminal(sentence))
		if len(points) == maxPoints {
			break
		}
	}
	return points
}

// SummaryBullets draws the summarized sentences as bullets and returns how
// many were drawn
func (d *Document) SummaryBullets(st *LayoutState, text string, level, maxPoints int) int {
	points := SummarizeAsBullets(text, maxPoints)
	for _, p := range points {
		d.Bullet(st, p, level, "")
	}
	return len(points)
}

// splitSentences cuts on '.', '!' or '?' followed by whitespace
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0
	for i, r := range runes {
		if !isTerminal(r) || i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := normalizeSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}
	if tail := normalizeSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func ensureTerminal(s string) string {
	last, _ := utf8.DecodeLastRuneInString(s)
	if isTerminal(last) {
		return s
	}
	return s + "."
}
