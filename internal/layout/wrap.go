package layout

import "strings"

// MeasureFunc returns the rendered width of s in page units.
type MeasureFunc func(s string) float64

// tabWidth is the number of spaces a tab expands to.
const tabWidth = 4

// Wrap splits text into lines no wider than maxWidth.
//
// Hard line breaks are kept and blank lines survive as empty strings.
// Lines break at spaces; the breaking space is consumed. A word wider than
// maxWidth is split at rune boundaries, with at least one rune per line, so
// no text is ever dropped. Trailing newlines are ignored.
func Wrap(text string, maxWidth float64, measure MeasureFunc) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth))
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(para, maxWidth, measure)...)
	}
	return lines
}

// wrapParagraph wraps a single paragraph that contains no newlines.
func wrapParagraph(para string, maxWidth float64, measure MeasureFunc) []string {
	if para == "" {
		return []string{""}
	}

	words := strings.Split(para, " ")
	lines, cur := placeWord(nil, words[0], maxWidth, measure)

	for _, word := range words[1:] {
		if candidate := cur + " " + word; measure(candidate) <= maxWidth {
			cur = candidate
			continue
		}
		lines = append(lines, cur)
		lines, cur = placeWord(lines, word, maxWidth, measure)
	}
	return append(lines, cur)
}

// placeWord starts a new line with word, breaking it into full-width chunks
// when it does not fit. The last chunk is returned as the open line.
func placeWord(lines []string, word string, maxWidth float64, measure MeasureFunc) ([]string, string) {
	if measure(word) <= maxWidth {
		return lines, word
	}

	runes := []rune(word)
	start := 0
	for {
		end := start + 1
		for end < len(runes) && measure(string(runes[start:end+1])) <= maxWidth {
			end++
		}
		if end == len(runes) {
			return lines, string(runes[start:])
		}
		lines = append(lines, string(runes[start:end]))
		start = end
	}
}
