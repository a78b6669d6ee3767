package rules

import "unicode/utf8"

// ContextSlice returns s[start:end] widened by up to pad runes either side.
// start and end are byte offsets on rune boundaries.
func ContextSlice(s string, start, end, pad int) string {
	left := start
	for i := 0; i < pad && left > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(s[:left])
		left -= size
	}
	right := end
	for i := 0; i < pad && right < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[right:])
		right += size
	}
	return s[left:right]
}
