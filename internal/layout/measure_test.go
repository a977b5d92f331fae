package layout_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/layout"
)

func runeWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s))
}

func TestWrapTextNeverOverflows(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth float64
	}{
		{"short", "hello world", 40},
		{"exact fit", "abcd efgh", 9},
		{"many words", strings.Repeat("lorem ipsum dolor sit amet ", 20), 23},
		{"overlong word", "tiny " + strings.Repeat("x", 57) + " end", 10},
		{"narrow", "one two three", 3},
		{"explicit newlines", "first line\nsecond line\n\nfourth", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := layout.WrapText(tt.text, tt.maxWidth, runeWidth)
			if len(lines) == 0 {
				t.Fatal("expected at least one line")
			}
			for i, line := range lines {
				if w := runeWidth(line); w > tt.maxWidth {
					t.Errorf("line %d %q measures %.0f, exceeds %.0f", i, line, w, tt.maxWidth)
				}
			}
		})
	}
}

func TestWrapTextKeepsWordsInOrder(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog near the river bank"
	lines := layout.WrapText(text, 16, runeWidth)

	got := strings.Fields(strings.Join(lines, " "))
	want := strings.Fields(text)
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("words changed by wrapping:\n got %v\nwant %v", got, want)
	}
	if len(lines) < 4 {
		t.Errorf("expected text to wrap onto several lines, got %d", len(lines))
	}
}

func TestWrapTextBreaksOverlongWord(t *testing.T) {
	lines := layout.WrapText("abcdefghij", 4, runeWidth)
	want := []string{"abcd", "efgh", "ij"}
	if len(lines) != len(want) {
		t.Fatalf("got %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWrapTextEmpty(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\n"} {
		if lines := layout.WrapText(text, 10, runeWidth); lines != nil {
			t.Errorf("WrapText(%q) = %v, want nil", text, lines)
		}
	}
}

func TestLineStepBands(t *testing.T) {
	tests := []struct {
		size float64
		want float64
	}{
		{10, 4.2},
		{8, 3.36},
		{12, 5.4},
		{14, 6.3},
		{16, 8},
		{18, 9},
	}
	for _, tt := range tests {
		got := layout.LineStep(tt.size)
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("LineStep(%v) = %v, want %v", tt.size, got, tt.want)
		}
	}
}

func BenchmarkWrapText(b *testing.B) {
	text := strings.Repeat("candidate answered the system design question with clear reasoning ", 30)
	for b.Loop() {
		layout.WrapText(text, 90, runeWidth)
	}
}
