package source

import "strings"

// SplitLines splits text into lines. A single trailing newline does not
// start an extra line, so "a\nb\n" has two lines and "" has none.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// CountLines returns len(SplitLines(text)).
func CountLines(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(text, "\n"), "\n") + 1
}

// LineRange is an inclusive, 1-based range.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Clamp resolves optional bounds against a text of count lines. A nil start
// means 1 and a nil end means count. ok is false when the range is empty.
func Clamp(count int, start, end *int) (r LineRange, ok bool) {
	r = LineRange{Start: 1, End: count}
	if start != nil && *start > 1 {
		r.Start = *start
	}
	if end != nil && *end < count {
		r.End = *end
	}
	return r, r.Start <= r.End
}

// FilterLines returns the inclusive line range [start, end] of text joined
// with "\n". With both bounds nil the text is returned unchanged. Out of range
// bounds are clamped, and an empty or inverted range yields "".
func FilterLines(text string, start, end *int) string {
	if start == nil && end == nil {
		return text
	}
	lines := SplitLines(text)
	r, ok := Clamp(len(lines), start, end)
	if !ok {
		return ""
	}
	return strings.Join(lines[r.Start-1:r.End], "\n")
}
